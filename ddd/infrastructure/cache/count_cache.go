package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	"github.com/hamzaalmahdi/civitai/internal/resource"

	"github.com/redis/go-redis/v9"
)

const countKeyPrefix = "civitai:notifications:counts:"

// sentinelField 每次写入都会带上的占位字段。没有它，空映射（用户没有任何
// 通知）会缓存成空哈希，下次读取时被误判为未命中而反复回源。
const sentinelField = "-"

// decrHashField 仅在键和字段都已存在时递减，绝不创建新条目。
// 已读递减只允许修正既有缓存，不允许凭空造出一份计数。
var decrHashField = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 and redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
  return redis.call("HINCRBY", KEYS[1], ARGV[1], -1)
end
return 0
`)

// RedisCountCache 基于 redis 哈希的计数缓存，一个用户一个键，
// 字段为分类名。client 为 nil 时所有操作退化为未命中/空操作。
type RedisCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCountCache(ttl time.Duration) *RedisCountCache {
	return &RedisCountCache{client: resource.Redis(), ttl: ttl}
}

func (c *RedisCountCache) key(userID int64) string {
	return countKeyPrefix + strconv.FormatInt(userID, 10)
}

func (c *RedisCountCache) Get(ctx context.Context, userID int64) (entity.CategoryCounts, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	fields, err := c.client.HGetAll(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	counts := make(entity.CategoryCounts, len(fields))
	for field, raw := range fields {
		if field == sentinelField {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, fmt.Errorf("parse cached count %s=%q: %w", field, raw, err)
		}
		// 并发递减可能把字段减到负数，读出时钳到 0。
		if n < 0 {
			n = 0
		}
		counts[entity.NotificationCategory(field)] = n
	}
	return counts, true, nil
}

func (c *RedisCountCache) Set(ctx context.Context, userID int64, counts entity.CategoryCounts) error {
	if c.client == nil {
		return nil
	}
	key := c.key(userID)
	vals := make([]interface{}, 0, 2*len(counts)+2)
	vals = append(vals, sentinelField, 1)
	for cat, n := range counts {
		vals = append(vals, string(cat), n)
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, vals...)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCountCache) Bust(ctx context.Context, userID int64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(userID)).Err()
}

// ClearCategory 只删分类字段。整分类已读后该分类计数即为 0，
// 字段缺失在读取侧正是按 0 解释的，其余分类继续命中。
func (c *RedisCountCache) ClearCategory(ctx context.Context, userID int64, category entity.NotificationCategory) error {
	if c.client == nil {
		return nil
	}
	return c.client.HDel(ctx, c.key(userID), string(category)).Err()
}

func (c *RedisCountCache) Decrement(ctx context.Context, userID int64, category entity.NotificationCategory) error {
	if c.client == nil {
		return nil
	}
	return decrHashField.Run(ctx, c.client, []string{c.key(userID)}, string(category)).Err()
}
