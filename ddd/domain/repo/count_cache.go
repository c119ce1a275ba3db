package repo

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
)

// CountCache 每用户一份的分类计数缓存。纯性能优化：缓存缺失只影响时延，
// 不允许影响查询结果。调用方把读失败当未命中，写失败只记日志不向上返回。
type CountCache interface {
	// Get 返回用户的计数映射；第二个返回值为 false 表示未命中。
	Get(ctx context.Context, userID int64) (entity.CategoryCounts, bool, error)
	// Set 整体替换用户的计数映射（含空映射）。
	Set(ctx context.Context, userID int64, counts entity.CategoryCounts) error
	// Bust 清掉该用户的整份缓存。
	Bust(ctx context.Context, userID int64) error
	// ClearCategory 只清某一分类的计数槽，下次读取时重算该分片。
	ClearCategory(ctx context.Context, userID int64, category entity.NotificationCategory) error
	// Decrement 对已缓存的分类计数原子减一；用户无缓存条目时不做任何事，
	// 尤其不能因此创建条目。
	Decrement(ctx context.Context, userID int64, category entity.NotificationCategory) error
}

// RelationshipFilter 拉黑关系查询，入队过滤前调用，实现方可带缓存。
type RelationshipFilter interface {
	BlockedUserIDs(ctx context.Context, userID int64) ([]int64, error)
	BlockedByUserIDs(ctx context.Context, userID int64) ([]int64, error)
}
