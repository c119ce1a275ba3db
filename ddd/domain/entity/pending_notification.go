package entity

import (
	"encoding/json"
	"time"

	"github.com/hamzaalmahdi/civitai/pkg/encode"
)

// PendingNotification 待扇出的暂存通知，key 相同的写入只保留第一条。
// 由扇出任务消费并删除。
type PendingNotification struct {
	Key       string
	Type      string
	Category  NotificationCategory
	UserIDs   []int64
	Details   json.RawMessage
	CreatedAt time.Time
}

// NewPendingNotification 组装一条待发通知。category 为空时按类型推导；
// key 为空时根据类型和 details 摘要派生，保证重试的生产方天然幂等。
func NewPendingNotification(key, typ string, category NotificationCategory, userIDs []int64, details json.RawMessage) *PendingNotification {
	if !category.Valid() {
		category = CategoryForType(typ)
	}
	if key == "" {
		key = DerivePendingKey(typ, details)
	}
	return &PendingNotification{
		Key:      key,
		Type:     typ,
		Category: category,
		UserIDs:  userIDs,
		Details:  details,
	}
}

// DerivePendingKey 基于类型和 details 内容派生去重 key。
func DerivePendingKey(typ string, details json.RawMessage) string {
	digest := encode.CalMd5(details)
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return typ + ":" + digest
}
