package entity

import "time"

// UserNotificationSetting 用户对某一通知类型的退订记录。
// 存在即表示退订；入队过滤只看当下的设置，不回溯已投递的行。
type UserNotificationSetting struct {
	ID         uint64
	UserID     int64
	Type       string
	DisabledAt time.Time
}
