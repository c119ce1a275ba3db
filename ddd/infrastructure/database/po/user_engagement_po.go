package po

import "time"

// UserEngagement 持久化对象，对应主站维护的 user_engagements 表。
// 通知服务只读这张表，用于过滤拉黑关系。
type UserEngagement struct {
	ID           uint64    `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id"`
	TargetUserID int64     `gorm:"column:target_user_id"`
	Type         string    `gorm:"column:type;size:32"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (UserEngagement) TableName() string {
	return "user_engagements"
}
