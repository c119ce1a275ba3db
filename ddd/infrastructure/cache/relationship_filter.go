package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/internal/resource"
	"github.com/hamzaalmahdi/civitai/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	blockedKeyPrefix   = "civitai:users:blocked:"
	blockedByKeyPrefix = "civitai:users:blocked_by:"
)

// CachedRelationshipFilter 在用户关系表前挡一层 redis 列表缓存。
// 入队过滤每次都要查发送者的拉黑集合，关系数据又极少变化，缓存命中
// 能省掉两次回表。缓存任何一步失败都直接回源，不影响入队结果。
type CachedRelationshipFilter struct {
	repo   drepo.UserEngagementRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedRelationshipFilter(repo drepo.UserEngagementRepository, ttl time.Duration) *CachedRelationshipFilter {
	return &CachedRelationshipFilter{repo: repo, client: resource.Redis(), ttl: ttl}
}

func (f *CachedRelationshipFilter) BlockedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	key := blockedKeyPrefix + strconv.FormatInt(userID, 10)
	return f.cachedIDs(ctx, key, func() ([]int64, error) {
		return f.repo.BlockedUserIDs(ctx, userID)
	})
}

func (f *CachedRelationshipFilter) BlockedByUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	key := blockedByKeyPrefix + strconv.FormatInt(userID, 10)
	return f.cachedIDs(ctx, key, func() ([]int64, error) {
		return f.repo.BlockedByUserIDs(ctx, userID)
	})
}

// cachedIDs 读穿缓存：命中解 JSON 返回，未命中回源并带 TTL 回填。
// 空列表同样回填，"[]" 和未命中在 GET 上可区分。
func (f *CachedRelationshipFilter) cachedIDs(ctx context.Context, key string, load func() ([]int64, error)) ([]int64, error) {
	if f.client != nil {
		raw, err := f.client.Get(ctx, key).Result()
		if err == nil {
			var ids []int64
			if jerr := json.Unmarshal([]byte(raw), &ids); jerr == nil {
				return ids, nil
			}
			logger.Warnf("relationship cache decode failed, fallback to db, key=%s", key)
		} else if err != redis.Nil {
			logger.Debugf("relationship cache read failed, fallback to db, key=%s err=%v", key, err)
		}
	}
	ids, err := load()
	if err != nil {
		return nil, err
	}
	if f.client != nil {
		buf, _ := json.Marshal(ids)
		if err := f.client.Set(ctx, key, buf, f.ttl).Err(); err != nil {
			logger.Warnf("relationship cache write failed, key=%s err=%v", key, err)
		}
	}
	return ids, nil
}
