package sse

import (
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	const user int64 = 7

	ch1, unsub1 := h.Subscribe(user)
	ch2, unsub2 := h.Subscribe(user)
	defer unsub1()
	defer unsub2()

	h.Publish(user, Event{Type: "notification.created"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != "notification.created" {
				t.Fatalf("subscriber %d got %+v", i, ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i)
		}
	}
}

func TestHubPublishIsolatesUsers(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe(1)
	defer unsub()

	h.Publish(2, Event{Type: "notification.created"})

	select {
	case ev := <-ch:
		t.Fatalf("user 1 received user 2's event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe(1)
	unsub()

	if _, open := <-ch; open {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// 退订后再推送不应 panic，也不应投递。
	h.Publish(1, Event{Type: "notification.created"})
}

func TestHubDropsSlowConsumer(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe(1)
	defer unsub()

	// 填满缓冲后继续推送，慢消费者的多余事件直接丢弃而不是阻塞生产方。
	for i := 0; i < cap(ch)+10; i++ {
		h.Publish(1, Event{Type: "notification.created"})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	if received != cap(ch) {
		t.Fatalf("received = %d, want buffer size %d", received, cap(ch))
	}
}

func TestPublishNotificationFallsBackToLocalHub(t *testing.T) {
	ch, unsub := DefaultHub().Subscribe(99)
	defer unsub()

	// 没有 redis 桥时直接走本地 hub。
	PublishNotification(99, Event{Type: "notification.updated"})

	select {
	case ev := <-ch:
		if ev.Type != "notification.updated" {
			t.Fatalf("got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event did not arrive via local hub")
	}

	// 非法用户直接忽略。
	PublishNotification(0, Event{Type: "notification.updated"})
	PublishNotification(99, Event{})
	select {
	case ev := <-ch:
		t.Fatalf("invalid publishes must be dropped, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

// parseSubscribersEnv reads HUB_BENCH_SUBSCRIBERS environment variable to
// allow overriding the number of pre-created subscribers in heavy benchmarks.
func parseSubscribersEnv(defaultValue int) int {
	if v := os.Getenv("HUB_BENCH_SUBSCRIBERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// parseUsersEnv reads HUB_BENCH_USERS environment variable to allow
// overriding the number of distinct users in many-user benchmarks.
func parseUsersEnv(defaultValue int) int {
	if v := os.Getenv("HUB_BENCH_USERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func BenchmarkHubSubUnsub(b *testing.B) {
	h := NewHub()
	const user int64 = 1

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, unsubscribe := h.Subscribe(user)
			unsubscribe()
		}
	})
}

// 默认预创建 1e4 个订阅；要压更高的单用户连接数时可以：
// HUB_BENCH_SUBSCRIBERS=1000000 go test ./pkg/sse -run=^$ -bench=BenchmarkHubPublishSteady -benchmem
func BenchmarkHubPublishSteady(b *testing.B) {
	h := NewHub()
	const user int64 = 2

	subs := parseSubscribersEnv(10_000)
	for i := 0; i < subs; i++ {
		_, _ = h.Subscribe(user)
	}

	ev := Event{Type: "bench"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h.Publish(user, ev)
		}
	})
}

// BenchmarkHubManyUsersSingleConn 模拟“大量用户各自 1 条连接”的场景：
// 预先为 N 个用户建立订阅，每次 Publish 只对其中一个用户推送事件。
func BenchmarkHubManyUsersSingleConn(b *testing.B) {
	h := NewHub()

	users := parseUsersEnv(100_000)
	userIDs := make([]int64, users)
	for i := 0; i < users; i++ {
		uid := int64(i + 1)
		userIDs[i] = uid
		_, _ = h.Subscribe(uid)
	}

	ev := Event{Type: "bench"}

	var idx uint64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			// 简单轮询不同用户，避免 rand 带来的额外开销。
			i := atomic.AddUint64(&idx, 1)
			uid := userIDs[int(i)%users]
			h.Publish(uid, ev)
		}
	})
}
