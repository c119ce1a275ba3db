package app

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/pkg/sse"
)

// 应用层测试用的内存假实现。仓储和缓存都按接口语义模拟，错误注入
// 通过 *Err 字段控制。

type fakeUserNotificationRepo struct {
	rows     []*entity.UserNotification
	listErr  error
	lastList *drepo.ListUserNotificationsQuery

	counts    entity.CategoryCounts
	countErr  error
	lastCount *drepo.CountUserNotificationsQuery

	markAllAffected int64
	markAllErr      error
	markAllCat      *entity.NotificationCategory

	markAffected int64
	markErr      error
	markedID     uint64

	categoryOf  entity.NotificationCategory
	categoryErr error
}

func (f *fakeUserNotificationRepo) List(ctx context.Context, q drepo.ListUserNotificationsQuery) ([]*entity.UserNotification, error) {
	f.lastList = &q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeUserNotificationRepo) CountByCategory(ctx context.Context, q drepo.CountUserNotificationsQuery) (entity.CategoryCounts, error) {
	f.lastCount = &q
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts.Clone(), nil
}

func (f *fakeUserNotificationRepo) MarkAllRead(ctx context.Context, userID int64, category *entity.NotificationCategory) (int64, error) {
	f.markAllCat = category
	return f.markAllAffected, f.markAllErr
}

func (f *fakeUserNotificationRepo) MarkRead(ctx context.Context, userID int64, id uint64) (int64, error) {
	f.markedID = id
	return f.markAffected, f.markErr
}

func (f *fakeUserNotificationRepo) CategoryOf(ctx context.Context, id uint64) (entity.NotificationCategory, error) {
	return f.categoryOf, f.categoryErr
}

type fakePendingRepo struct {
	enqueued  []*entity.PendingNotification
	duplicate bool
	enqueueErr error

	batch    []*entity.PendingNotification
	takeErr  error
	removed  [][]string
	removeErr error
}

func (f *fakePendingRepo) Enqueue(ctx context.Context, p *entity.PendingNotification) (bool, error) {
	if f.enqueueErr != nil {
		return false, f.enqueueErr
	}
	if f.duplicate {
		return false, nil
	}
	f.enqueued = append(f.enqueued, p)
	return true, nil
}

func (f *fakePendingRepo) TakeBatch(ctx context.Context, limit int) ([]*entity.PendingNotification, error) {
	if f.takeErr != nil {
		return nil, f.takeErr
	}
	if limit < len(f.batch) {
		return f.batch[:limit], nil
	}
	return f.batch, nil
}

func (f *fakePendingRepo) Remove(ctx context.Context, keys []string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, keys)
	return nil
}

type fakeSettingRepo struct {
	disabled    []int64
	disabledErr error

	createdTypes []string
	deletedTypes []string
	listRows     []*entity.UserNotificationSetting
}

func (f *fakeSettingRepo) DisabledUserIDs(ctx context.Context, typ string, userIDs []int64) ([]int64, error) {
	if f.disabledErr != nil {
		return nil, f.disabledErr
	}
	return f.disabled, nil
}

func (f *fakeSettingRepo) Create(ctx context.Context, userID int64, types []string) error {
	f.createdTypes = append(f.createdTypes, types...)
	return nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, userID int64, types []string) error {
	f.deletedTypes = append(f.deletedTypes, types...)
	return nil
}

func (f *fakeSettingRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.UserNotificationSetting, error) {
	return f.listRows, nil
}

// fakeCountCache 模拟单槽计数缓存：data 里有条目即命中。
type fakeCountCache struct {
	data   map[int64]entity.CategoryCounts
	getErr error
	setErr error
	decErr error

	sets        int
	busted      []int64
	cleared     []entity.NotificationCategory
	decremented []entity.NotificationCategory
}

func newFakeCountCache() *fakeCountCache {
	return &fakeCountCache{data: map[int64]entity.CategoryCounts{}}
}

func (f *fakeCountCache) Get(ctx context.Context, userID int64) (entity.CategoryCounts, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	counts, ok := f.data[userID]
	if !ok {
		return nil, false, nil
	}
	return counts.Clone(), true, nil
}

func (f *fakeCountCache) Set(ctx context.Context, userID int64, counts entity.CategoryCounts) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.data[userID] = counts.Clone()
	return nil
}

func (f *fakeCountCache) Bust(ctx context.Context, userID int64) error {
	f.busted = append(f.busted, userID)
	delete(f.data, userID)
	return nil
}

func (f *fakeCountCache) ClearCategory(ctx context.Context, userID int64, category entity.NotificationCategory) error {
	f.cleared = append(f.cleared, category)
	if counts, ok := f.data[userID]; ok {
		delete(counts, category)
	}
	return nil
}

func (f *fakeCountCache) Decrement(ctx context.Context, userID int64, category entity.NotificationCategory) error {
	if f.decErr != nil {
		return f.decErr
	}
	f.decremented = append(f.decremented, category)
	if counts, ok := f.data[userID]; ok {
		if _, ok := counts[category]; ok {
			counts[category]--
		}
	}
	return nil
}

type fakeRelations struct {
	blocked   map[int64][]int64
	blockedBy map[int64][]int64
	err       error
	calls     int
}

func (f *fakeRelations) BlockedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.blocked[userID], nil
}

func (f *fakeRelations) BlockedByUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.blockedBy[userID], nil
}

type fakeNotificationRepo struct {
	nextID       uint64
	created      []*entity.Notification
	createErrFor map[string]error

	addCalls map[uint64][]int64
	inserted int64
	addErr   error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{addCalls: map[uint64][]int64{}}
}

func (f *fakeNotificationRepo) GetOrCreate(ctx context.Context, n *entity.Notification) (uint64, error) {
	if err, ok := f.createErrFor[n.Key]; ok {
		return 0, err
	}
	f.nextID++
	f.created = append(f.created, n)
	return f.nextID, nil
}

func (f *fakeNotificationRepo) AddUserRows(ctx context.Context, notificationID uint64, userIDs []int64) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.addCalls[notificationID] = append(f.addCalls[notificationID], userIDs...)
	if f.inserted > 0 {
		return f.inserted, nil
	}
	return int64(len(userIDs)), nil
}

type publishedEvent struct {
	userID int64
	ev     sse.Event
}

type eventSink struct {
	events []publishedEvent
}

func (s *eventSink) publish(userID int64, ev sse.Event) {
	s.events = append(s.events, publishedEvent{userID: userID, ev: ev})
}
