package po

import (
	"time"

	"gorm.io/datatypes"
)

// PendingNotification 持久化对象，对应 pending_notifications 表。
// notif_key 作为主键实现首写优先：重复入队的行直接被忽略。
type PendingNotification struct {
	NotifKey  string         `gorm:"column:notif_key;size:191;primaryKey"`
	Type      string         `gorm:"column:type;size:64"`
	Category  string         `gorm:"column:category;size:32"`
	UserIDs   datatypes.JSON `gorm:"column:user_ids"`
	Details   datatypes.JSON `gorm:"column:details"`
	CreatedAt time.Time      `gorm:"column:created_at;index:idx_pending_notifications_created"`
}

func (PendingNotification) TableName() string {
	return "pending_notifications"
}
