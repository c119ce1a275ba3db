package app

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
)

type fanOutFixture struct {
	pending *fakePendingRepo
	notif   *fakeNotificationRepo
	counts  *fakeCountCache
	sink    *eventSink
	app     *fanOutAppImpl
}

func newFanOutFixture() *fanOutFixture {
	f := &fanOutFixture{
		pending: &fakePendingRepo{},
		notif:   newFakeNotificationRepo(),
		counts:  newFakeCountCache(),
		sink:    &eventSink{},
	}
	f.app = &fanOutAppImpl{
		pendingRepo: f.pending,
		notifRepo:   f.notif,
		counts:      f.counts,
		batchSize:   100,
		publish:     f.sink.publish,
	}
	return f
}

func pendingRow(key, typ string, userIDs ...int64) *entity.PendingNotification {
	return &entity.PendingNotification{
		Key:       key,
		Type:      typ,
		Category:  entity.CategoryForType(typ),
		UserIDs:   userIDs,
		Details:   json.RawMessage(`{"modelId":1}`),
		CreatedAt: testNow,
	}
}

func TestProcessPendingFansOutBatch(t *testing.T) {
	f := newFanOutFixture()
	f.pending.batch = []*entity.PendingNotification{
		pendingRow("k1", "new-comment", 1, 2),
		pendingRow("k2", "download-milestone", 2),
	}

	if err := f.app.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	if len(f.notif.created) != 2 {
		t.Fatalf("created = %d notifications, want 2", len(f.notif.created))
	}
	if !reflect.DeepEqual(f.notif.addCalls[1], []int64{1, 2}) {
		t.Fatalf("user rows for first notification = %v", f.notif.addCalls[1])
	}
	if !reflect.DeepEqual(f.notif.addCalls[2], []int64{2}) {
		t.Fatalf("user rows for second notification = %v", f.notif.addCalls[2])
	}

	// 消费完的行要从队列里删掉。
	if len(f.pending.removed) != 1 || !reflect.DeepEqual(f.pending.removed[0], []string{"k1", "k2"}) {
		t.Fatalf("removed = %v", f.pending.removed)
	}

	// 每个收件人各失效一次计数缓存，并收到一条创建事件。
	if !reflect.DeepEqual(f.counts.busted, []int64{1, 2, 2}) {
		t.Fatalf("busted = %v", f.counts.busted)
	}
	if len(f.sink.events) != 3 {
		t.Fatalf("events = %d, want 3", len(f.sink.events))
	}
	ev := f.sink.events[0]
	if ev.userID != 1 || ev.ev.Type != "notification.created" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestProcessPendingPreservesEnqueueTime(t *testing.T) {
	f := newFanOutFixture()
	f.pending.batch = []*entity.PendingNotification{pendingRow("k1", "new-comment", 1)}

	if err := f.app.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	// 共享行沿用入队时间，收件箱排序看到的是事件发生时间而非扇出时间。
	if got := f.notif.created[0].CreatedAt; !got.Equal(testNow) {
		t.Fatalf("CreatedAt = %v, want %v", got, testNow)
	}
	if f.notif.created[0].Key != "k1" || f.notif.created[0].Category != entity.CategoryComment {
		t.Fatalf("created notification = %+v", f.notif.created[0])
	}
}

func TestProcessPendingEmptyQueue(t *testing.T) {
	f := newFanOutFixture()
	if err := f.app.ProcessPending(context.Background()); err != nil {
		t.Fatalf("idle tick must succeed: %v", err)
	}
	if len(f.pending.removed) != 0 {
		t.Fatal("nothing to remove on idle tick")
	}
}

func TestProcessPendingPartialFailure(t *testing.T) {
	f := newFanOutFixture()
	f.pending.batch = []*entity.PendingNotification{
		pendingRow("good", "new-comment", 1),
		pendingRow("bad", "new-comment", 2),
	}
	f.notif.createErrFor = map[string]error{"bad": errors.New("db gone")}

	if err := f.app.ProcessPending(context.Background()); err != nil {
		t.Fatalf("partial failure must not fail the tick: %v", err)
	}
	// 失败的留在队列里等下个周期，成功的删掉。
	if len(f.pending.removed) != 1 || !reflect.DeepEqual(f.pending.removed[0], []string{"good"}) {
		t.Fatalf("removed = %v, want [[good]]", f.pending.removed)
	}
	if len(f.sink.events) != 1 || f.sink.events[0].userID != 1 {
		t.Fatalf("events = %+v", f.sink.events)
	}
}

func TestProcessPendingTakeBatchError(t *testing.T) {
	f := newFanOutFixture()
	f.pending.takeErr = errors.New("db gone")

	err := f.app.ProcessPending(context.Background())
	if err == nil || !strings.Contains(err.Error(), "take pending batch") {
		t.Fatalf("err = %v", err)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	f := newFanOutFixture()
	f.app.batchSize = 1
	f.pending.batch = []*entity.PendingNotification{
		pendingRow("k1", "new-comment", 1),
		pendingRow("k2", "new-comment", 2),
	}

	if err := f.app.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(f.notif.created) != 1 {
		t.Fatalf("created = %d, want 1 when batch size is 1", len(f.notif.created))
	}
}

func TestProcessPendingRemoveError(t *testing.T) {
	f := newFanOutFixture()
	f.pending.batch = []*entity.PendingNotification{pendingRow("k1", "new-comment", 1)}
	f.pending.removeErr = errors.New("db gone")

	err := f.app.ProcessPending(context.Background())
	if err == nil || !strings.Contains(err.Error(), "remove consumed pending rows") {
		t.Fatalf("err = %v", err)
	}
}
