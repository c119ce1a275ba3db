package cqe

import (
	"encoding/json"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
)

// CreateNotificationReq 入队请求（内部接口，站内其他服务调用）。
// Key 省略时服务端按类型和 details 摘要派生；Category 省略时按类型推导。
// SenderUserID 用于拉黑过滤，系统通知不带发送者。
type CreateNotificationReq struct {
	Key          string          `json:"key,omitempty"`
	Type         string          `json:"type"`
	Category     string          `json:"category,omitempty"`
	UserID       int64           `json:"user_id,omitempty"`
	UserIDs      []int64         `json:"user_ids,omitempty"`
	SenderUserID int64           `json:"sender_user_id,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
}

// Validate 校验必填字段；目标为空是合法请求，入队时按空操作处理。
func (r *CreateNotificationReq) Validate() bool {
	if r == nil || r.Type == "" {
		return false
	}
	if r.Category != "" && !entity.NotificationCategory(r.Category).Valid() {
		return false
	}
	return true
}

// Targets 合并单目标与多目标字段，去重并保持出现顺序。
func (r *CreateNotificationReq) Targets() []int64 {
	seen := make(map[int64]struct{}, len(r.UserIDs)+1)
	out := make([]int64, 0, len(r.UserIDs)+1)
	add := func(id int64) {
		if id <= 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(r.UserID)
	for _, id := range r.UserIDs {
		add(id)
	}
	return out
}

// GetUserNotificationsReq 收件箱列表请求。
type GetUserNotificationsReq struct {
	Category  string     `form:"category"`
	Unread    bool       `form:"unread"`
	Cursor    *time.Time `form:"cursor" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int        `form:"limit"`
	WithCount bool       `form:"with_count"`
}

func (r *GetUserNotificationsReq) Normalize() {
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
}

func (r *GetUserNotificationsReq) Validate() bool {
	if r == nil {
		return false
	}
	return r.Category == "" || entity.NotificationCategory(r.Category).Valid()
}

// GetNotificationCountReq 分类计数请求。
type GetNotificationCountReq struct {
	Category string `form:"category"`
	Unread   bool   `form:"unread"`
}

func (r *GetNotificationCountReq) Validate() bool {
	if r == nil {
		return false
	}
	return r.Category == "" || entity.NotificationCategory(r.Category).Valid()
}

// MarkReadReq 标记已读请求：要么整批（All，可选再限定分类），要么单条 ID。
type MarkReadReq struct {
	ID       uint64 `json:"id,omitempty"`
	All      bool   `json:"all,omitempty"`
	Category string `json:"category,omitempty"`
}

func (r *MarkReadReq) Validate() bool {
	if r == nil {
		return false
	}
	if r.Category != "" && !entity.NotificationCategory(r.Category).Valid() {
		return false
	}
	if r.All {
		return true
	}
	// 单条模式下分类没有意义。
	return r.ID > 0 && r.Category == ""
}

// CreateUserNotificationSettingReq 退订一批通知类型。
type CreateUserNotificationSettingReq struct {
	Types []string `json:"types"`
}

func (r *CreateUserNotificationSettingReq) Validate() bool {
	return r != nil && validTypes(r.Types)
}

// DeleteUserNotificationSettingReq 恢复一批通知类型的接收。
type DeleteUserNotificationSettingReq struct {
	Types []string `json:"types"`
}

func (r *DeleteUserNotificationSettingReq) Validate() bool {
	return r != nil && validTypes(r.Types)
}

func validTypes(types []string) bool {
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		if t == "" {
			return false
		}
	}
	return true
}
