package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/cache"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/persistence"
	"github.com/hamzaalmahdi/civitai/pkg/config"
	"github.com/hamzaalmahdi/civitai/pkg/logger"
	"github.com/hamzaalmahdi/civitai/pkg/metrics"
	"github.com/hamzaalmahdi/civitai/pkg/sse"
)

// FanOutApp 把待发队列扩散成每用户的通知行，由定时任务驱动。
type FanOutApp interface {
	ProcessPending(ctx context.Context) error
}

type fanOutAppImpl struct {
	pendingRepo drepo.PendingNotificationRepository
	notifRepo   drepo.NotificationRepository
	counts      drepo.CountCache
	batchSize   int
	publish     func(userID int64, ev sse.Event)
}

// DefaultFanOutApp 返回默认的扇出服务实现。
func DefaultFanOutApp() FanOutApp {
	cfg := config.GetGlobalConfig()
	return &fanOutAppImpl{
		pendingRepo: persistence.NewPendingNotificationRepository(),
		notifRepo:   persistence.NewNotificationRepository(),
		counts:      cache.NewRedisCountCache(cfg.Cache.CountsTTL),
		batchSize:   cfg.Worker.BatchSize,
		publish:     sse.PublishNotification,
	}
}

// ProcessPending 消费一批待发通知。每条依次：幂等创建共享行、补齐用户
// 行、失效各收件人的计数缓存、推送事件；处理完后删除消费掉的行。单条
// 失败只跳过该条，留在队列里下个周期重试，幂等写入保证重跑安全。
func (a *fanOutAppImpl) ProcessPending(ctx context.Context) error {
	start := time.Now()
	batch, err := a.pendingRepo.TakeBatch(ctx, a.batchSize)
	if err != nil {
		metrics.RecordFanOut("error", 0, 0, time.Since(start))
		return fmt.Errorf("take pending batch: %w", err)
	}
	if len(batch) == 0 {
		metrics.RecordFanOut("idle", 0, 0, time.Since(start))
		return nil
	}

	var (
		done     = make([]string, 0, len(batch))
		userRows int64
	)
	for _, p := range batch {
		rows, err := a.fanOut(ctx, p)
		if err != nil {
			logger.WithContext(ctx).Errorf("fan out failed, key=%s type=%s err=%v", p.Key, p.Type, err)
			continue
		}
		userRows += rows
		done = append(done, p.Key)
	}
	if len(done) > 0 {
		if err := a.pendingRepo.Remove(ctx, done); err != nil {
			metrics.RecordFanOut("error", int64(len(done)), userRows, time.Since(start))
			return fmt.Errorf("remove consumed pending rows: %w", err)
		}
	}

	status := "ok"
	if len(done) < len(batch) {
		status = "partial"
	}
	metrics.RecordFanOut(status, int64(len(done)), userRows, time.Since(start))
	logger.WithContext(ctx).Infof("fan out tick, consumed=%d failed=%d user_rows=%d", len(done), len(batch)-len(done), userRows)
	return nil
}

func (a *fanOutAppImpl) fanOut(ctx context.Context, p *entity.PendingNotification) (int64, error) {
	id, err := a.notifRepo.GetOrCreate(ctx, &entity.Notification{
		Key:       p.Key,
		Type:      p.Type,
		Category:  p.Category,
		Details:   p.Details,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("get or create notification: %w", err)
	}
	inserted, err := a.notifRepo.AddUserRows(ctx, id, p.UserIDs)
	if err != nil {
		return 0, fmt.Errorf("add user rows: %w", err)
	}
	for _, uid := range p.UserIDs {
		if err := a.counts.Bust(ctx, uid); err != nil {
			logger.WithContext(ctx).Warnf("count cache bust failed, user_id=%d err=%v", uid, err)
		}
		a.publish(uid, sse.Event{
			Type: "notification.created",
			Data: map[string]interface{}{
				"type":     p.Type,
				"category": string(p.Category),
			},
		})
	}
	return inserted, nil
}
