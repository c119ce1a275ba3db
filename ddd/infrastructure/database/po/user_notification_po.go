package po

import "time"

// UserNotification 持久化对象，对应 user_notifications 表。
// 每个收件人一行，viewed 标记已读状态。
type UserNotification struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64     `gorm:"column:user_id;uniqueIndex:uk_user_notifications_nid_uid,priority:2;index:idx_user_notifications_inbox,priority:1"`
	NotificationID uint64    `gorm:"column:notification_id;uniqueIndex:uk_user_notifications_nid_uid,priority:1"`
	Viewed         bool      `gorm:"column:viewed;index:idx_user_notifications_inbox,priority:2"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_user_notifications_inbox,priority:3"`

	Notification *Notification `gorm:"foreignKey:NotificationID;references:ID"`
}

func (UserNotification) TableName() string {
	return "user_notifications"
}
