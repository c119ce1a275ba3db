package repo

import (
	"context"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
)

// ListUserNotificationsQuery 收件箱列表查询条件。
// Cursor 不为空时取严格早于游标的行（加载更多）；为空时由 Since 限定默认窗口。
type ListUserNotificationsQuery struct {
	UserID     int64
	Category   *entity.NotificationCategory
	UnreadOnly bool
	Cursor     *time.Time
	Since      time.Time
	Limit      int
}

// CountUserNotificationsQuery 分类计数查询条件。
// UnreadOnly 时统计全部未读；否则由 Since 限定窗口内的总量。
type CountUserNotificationsQuery struct {
	UserID     int64
	Category   *entity.NotificationCategory
	UnreadOnly bool
	Since      time.Time
}

// UserNotificationRepository 用户通知行的读写接口。
type UserNotificationRepository interface {
	List(ctx context.Context, q ListUserNotificationsQuery) ([]*entity.UserNotification, error)
	CountByCategory(ctx context.Context, q CountUserNotificationsQuery) (entity.CategoryCounts, error)
	// MarkAllRead 将用户全部（或某一分类下的）未读行置为已读，返回受影响行数。
	MarkAllRead(ctx context.Context, userID int64, category *entity.NotificationCategory) (int64, error)
	// MarkRead 将单行置为已读，仅当该行当前未读时生效，返回受影响行数（0 或 1）。
	MarkRead(ctx context.Context, userID int64, id uint64) (int64, error)
	// CategoryOf 查询某用户通知行对应的分类，用于已读后的缓存递减。
	CategoryOf(ctx context.Context, id uint64) (entity.NotificationCategory, error)
}

// PendingNotificationRepository 待发队列接口，key 冲突的写入静默丢弃。
type PendingNotificationRepository interface {
	// Enqueue 写入一条待发通知，返回是否真正写入（false 表示 key 已存在）。
	Enqueue(ctx context.Context, p *entity.PendingNotification) (bool, error)
	// TakeBatch 按写入顺序取出最多 limit 条待扇出的通知。
	TakeBatch(ctx context.Context, limit int) ([]*entity.PendingNotification, error)
	// Remove 删除已消费的待发通知。
	Remove(ctx context.Context, keys []string) error
}

// NotificationRepository 共享通知表接口，仅扇出路径写入。
type NotificationRepository interface {
	// GetOrCreate 按 (key, type) 幂等创建共享通知并返回其 ID。
	GetOrCreate(ctx context.Context, n *entity.Notification) (uint64, error)
	// AddUserRows 为目标用户批量插入投递行，已存在的用户行跳过，返回实际插入数。
	AddUserRows(ctx context.Context, notificationID uint64, userIDs []int64) (int64, error)
}

// UserNotificationSettingRepository 退订设置接口。
type UserNotificationSettingRepository interface {
	// DisabledUserIDs 返回候选用户中已退订该类型的用户 ID。
	DisabledUserIDs(ctx context.Context, typ string, userIDs []int64) ([]int64, error)
	// Create 幂等写入退订记录，重复的 (user, type) 忽略。
	Create(ctx context.Context, userID int64, types []string) error
	// Delete 幂等删除匹配类型集合的退订记录。
	Delete(ctx context.Context, userID int64, types []string) error
	ListByUser(ctx context.Context, userID int64) ([]*entity.UserNotificationSetting, error)
}

// UserEngagementRepository 用户关系的只读接口，数据归属用户域。
type UserEngagementRepository interface {
	BlockedUserIDs(ctx context.Context, userID int64) ([]int64, error)
	BlockedByUserIDs(ctx context.Context, userID int64) ([]int64, error)
}
