package entity

import (
	"encoding/json"
	"time"
)

// NotificationCategory 通知分类，用于列表过滤与未读数分组统计。
type NotificationCategory string

const (
	CategoryComment   NotificationCategory = "Comment"
	CategoryMilestone NotificationCategory = "Milestone"
	CategoryUpdate    NotificationCategory = "Update"
	CategorySystem    NotificationCategory = "System"
	CategoryOther     NotificationCategory = "Other"
)

// Valid 判断是否为已知分类。
func (c NotificationCategory) Valid() bool {
	switch c {
	case CategoryComment, CategoryMilestone, CategoryUpdate, CategorySystem, CategoryOther:
		return true
	}
	return false
}

// typeCategories 通知类型到分类的固定映射，未登记的类型归入 Other。
var typeCategories = map[string]NotificationCategory{
	"new-comment":             CategoryComment,
	"comment-reply":           CategoryComment,
	"new-review":              CategoryComment,
	"download-milestone":      CategoryMilestone,
	"favorite-milestone":      CategoryMilestone,
	"model-version-published": CategoryUpdate,
	"new-model-from-creator":  CategoryUpdate,
	"system-announcement":     CategorySystem,
}

// CategoryForType 根据通知类型推导分类。
func CategoryForType(typ string) NotificationCategory {
	if c, ok := typeCategories[typ]; ok {
		return c
	}
	return CategoryOther
}

// Notification 共享通知记录，按 (key, type) 去重，一经创建不可变。
// 只有待发队列的扇出过程会写入这张表。
type Notification struct {
	ID        uint64
	Key       string
	Type      string
	Category  NotificationCategory
	Details   json.RawMessage
	CreatedAt time.Time
}

// UserNotification 每个用户一行的投递记录，viewed 只会从 false 变为 true。
type UserNotification struct {
	ID             uint64
	UserID         int64
	NotificationID uint64
	Viewed         bool
	CreatedAt      time.Time

	// Notification 关联的共享通知内容，列表查询时一并取出。
	Notification *Notification
}

// CategoryCounts 按分类统计的未读/总量映射。
type CategoryCounts map[NotificationCategory]int64

// Total 返回所有分类的数量之和。
func (c CategoryCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// Clone 返回一份独立副本，避免调用方改动缓存里的映射。
func (c CategoryCounts) Clone() CategoryCounts {
	if c == nil {
		return nil
	}
	out := make(CategoryCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
