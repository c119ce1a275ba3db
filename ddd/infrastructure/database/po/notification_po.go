package po

import (
	"time"

	"gorm.io/datatypes"
)

// Notification 持久化对象，对应 notifications 表。
// 同一条通知只存一行，详情以 JSON 形式保存，由扇出流程复用。
type Notification struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	NotifKey  string         `gorm:"column:notif_key;size:191;uniqueIndex:uk_notifications_key_type,priority:1"`
	Type      string         `gorm:"column:type;size:64;uniqueIndex:uk_notifications_key_type,priority:2"`
	Category  string         `gorm:"column:category;size:32;index:idx_notifications_category"`
	Details   datatypes.JSON `gorm:"column:details"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
