package po

import "time"

// UserNotificationSetting 持久化对象，对应 user_notification_settings 表。
// 存在一行即表示该用户屏蔽了对应类型的通知。
type UserNotificationSetting struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;uniqueIndex:uk_user_notification_settings_uid_type,priority:1"`
	Type       string    `gorm:"column:type;size:64;uniqueIndex:uk_user_notification_settings_uid_type,priority:2"`
	DisabledAt time.Time `gorm:"column:disabled_at"`
}

func (UserNotificationSetting) TableName() string {
	return "user_notification_settings"
}
