package dto

import (
	"encoding/json"
	"time"
)

// NotificationDto 收件箱视图模型。ID 是用户通知行的主键，也是单条
// 标记已读的入参；Message/URL 是按类型解码出的展示字段，未注册的
// 类型两者为空，前端退回 details 自行渲染。
type NotificationDto struct {
	ID        uint64          `json:"id"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Viewed    bool            `json:"viewed"`
	Details   json.RawMessage `json:"details,omitempty"`
	Message   string          `json:"message,omitempty"`
	URL       string          `json:"url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotificationCountsDto 分类到数量的映射及合计。
type NotificationCountsDto struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// GetUserNotificationsResponse 列表响应。NextCursor 为最后一行的时间，
// 填满一页才会给出；为空表示没有更早的数据。
type GetUserNotificationsResponse struct {
	Items      []NotificationDto      `json:"items"`
	NextCursor *time.Time             `json:"next_cursor,omitempty"`
	Counts     *NotificationCountsDto `json:"counts,omitempty"`
}

// EnqueueNotificationResponse 入队结果；被过滤、重复或无目标时 Queued 为 false。
type EnqueueNotificationResponse struct {
	Queued bool   `json:"queued"`
	Key    string `json:"key,omitempty"`
}

// UserNotificationSettingDto 一条退订记录。
type UserNotificationSettingDto struct {
	Type       string    `json:"type"`
	DisabledAt time.Time `json:"disabled_at"`
}
