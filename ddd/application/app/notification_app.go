package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/application/cqe"
	"github.com/hamzaalmahdi/civitai/ddd/application/dto"
	"github.com/hamzaalmahdi/civitai/ddd/domain/enrich"
	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/cache"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/persistence"
	"github.com/hamzaalmahdi/civitai/pkg/config"
	"github.com/hamzaalmahdi/civitai/pkg/errno"
	"github.com/hamzaalmahdi/civitai/pkg/logger"
	"github.com/hamzaalmahdi/civitai/pkg/metrics"
	"github.com/hamzaalmahdi/civitai/pkg/sse"
)

// NotificationApp 应用服务接口，编排通知相关用例。
type NotificationApp interface {
	CreateNotification(ctx context.Context, req *cqe.CreateNotificationReq) (*dto.EnqueueNotificationResponse, error)
	GetUserNotifications(ctx context.Context, userID int64, req *cqe.GetUserNotificationsReq) (*dto.GetUserNotificationsResponse, error)
	GetUserNotificationCount(ctx context.Context, userID int64, req *cqe.GetNotificationCountReq) (*dto.NotificationCountsDto, error)
	MarkNotificationsRead(ctx context.Context, userID int64, req *cqe.MarkReadReq) error
	CreateUserNotificationSetting(ctx context.Context, userID int64, req *cqe.CreateUserNotificationSettingReq) error
	DeleteUserNotificationSetting(ctx context.Context, userID int64, req *cqe.DeleteUserNotificationSettingReq) error
	ListUserNotificationSettings(ctx context.Context, userID int64) ([]dto.UserNotificationSettingDto, error)
}

type notificationAppImpl struct {
	userRepo    drepo.UserNotificationRepository
	pendingRepo drepo.PendingNotificationRepository
	settingRepo drepo.UserNotificationSettingRepository
	counts      drepo.CountCache
	relations   drepo.RelationshipFilter
	enricher    *enrich.Registry
	window      time.Duration
	now         func() time.Time
	publish     func(userID int64, ev sse.Event)
}

// DefaultNotificationApp 返回默认的应用服务实现。
func DefaultNotificationApp() NotificationApp {
	cfg := config.GetGlobalConfig()
	return &notificationAppImpl{
		userRepo:    persistence.NewUserNotificationRepository(),
		pendingRepo: persistence.NewPendingNotificationRepository(),
		settingRepo: persistence.NewUserNotificationSettingRepository(),
		counts:      cache.NewRedisCountCache(cfg.Cache.CountsTTL),
		relations:   cache.NewCachedRelationshipFilter(persistence.NewUserEngagementRepository(), cfg.Cache.RelationshipsTTL),
		enricher:    enrich.Default(),
		window:      time.Duration(cfg.Notifications.WindowDays) * 24 * time.Hour,
		now:         time.Now,
		publish:     sse.PublishNotification,
	}
}

// CreateNotification 入队一条通知：先按退订和拉黑过滤目标，再以首写
// 优先的方式写入待发队列。目标为空、全部被过滤或 key 重复都不算错误。
func (a *notificationAppImpl) CreateNotification(ctx context.Context, req *cqe.CreateNotificationReq) (*dto.EnqueueNotificationResponse, error) {
	if req == nil || !req.Validate() {
		return nil, errno.ErrParameterInvalid
	}
	targets := req.Targets()
	if len(targets) == 0 {
		metrics.RecordEnqueue("empty")
		return &dto.EnqueueNotificationResponse{Queued: false}, nil
	}

	disabled, err := a.settingRepo.DisabledUserIDs(ctx, req.Type, targets)
	if err != nil {
		return nil, fmt.Errorf("load notification settings: %w", err)
	}
	drop := make(map[int64]struct{}, len(disabled))
	for _, id := range disabled {
		drop[id] = struct{}{}
	}

	// 系统通知没有发送者，不做拉黑过滤。
	if req.SenderUserID > 0 {
		blocked, err := a.relations.BlockedUserIDs(ctx, req.SenderUserID)
		if err != nil {
			return nil, fmt.Errorf("load blocked users: %w", err)
		}
		blockedBy, err := a.relations.BlockedByUserIDs(ctx, req.SenderUserID)
		if err != nil {
			return nil, fmt.Errorf("load blocked-by users: %w", err)
		}
		for _, id := range blocked {
			drop[id] = struct{}{}
		}
		for _, id := range blockedBy {
			drop[id] = struct{}{}
		}
	}

	kept := make([]int64, 0, len(targets))
	for _, id := range targets {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		metrics.RecordEnqueue("filtered")
		logger.WithContext(ctx).Infof("notification fully filtered, type=%s targets=%d", req.Type, len(targets))
		return &dto.EnqueueNotificationResponse{Queued: false}, nil
	}

	p := entity.NewPendingNotification(req.Key, req.Type, entity.NotificationCategory(req.Category), kept, req.Details)
	p.CreatedAt = a.now()
	queued, err := a.pendingRepo.Enqueue(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}
	if !queued {
		metrics.RecordEnqueue("duplicate")
		logger.WithContext(ctx).Debugf("notification deduplicated, key=%s type=%s", p.Key, p.Type)
		return &dto.EnqueueNotificationResponse{Queued: false, Key: p.Key}, nil
	}
	metrics.RecordEnqueue("queued")
	logger.WithContext(ctx).Infof("notification enqueued, key=%s type=%s targets=%d", p.Key, p.Type, len(kept))
	return &dto.EnqueueNotificationResponse{Queued: true, Key: p.Key}, nil
}

// GetUserNotifications 拉取收件箱。带游标时取严格早于游标的行，不带时
// 限定在默认时间窗内；两种读法都只走读库，不触碰计数缓存。
func (a *notificationAppImpl) GetUserNotifications(ctx context.Context, userID int64, req *cqe.GetUserNotificationsReq) (*dto.GetUserNotificationsResponse, error) {
	if userID <= 0 {
		return nil, errno.ErrUnauthorized
	}
	if !req.Validate() {
		return nil, errno.ErrParameterInvalid
	}
	req.Normalize()

	q := drepo.ListUserNotificationsQuery{
		UserID:     userID,
		UnreadOnly: req.Unread,
		Cursor:     req.Cursor,
		Limit:      req.Limit,
	}
	if req.Category != "" {
		cat := entity.NotificationCategory(req.Category)
		q.Category = &cat
	}
	if req.Cursor == nil {
		q.Since = a.now().Add(-a.window)
	}

	rows, err := a.userRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list user notifications: %w", err)
	}

	items := make([]dto.NotificationDto, 0, len(rows))
	for _, row := range rows {
		items = append(items, a.toNotificationDto(ctx, row))
	}
	resp := &dto.GetUserNotificationsResponse{Items: items}
	if len(rows) == req.Limit && len(rows) > 0 {
		cursor := rows[len(rows)-1].CreatedAt
		resp.NextCursor = &cursor
	}

	if req.WithCount {
		counts, err := a.GetUserNotificationCount(ctx, userID, &cqe.GetNotificationCountReq{
			Category: req.Category,
			Unread:   req.Unread,
		})
		if err != nil {
			return nil, err
		}
		resp.Counts = counts
	}
	return resp, nil
}

// GetUserNotificationCount 读取分类计数。缓存命中直接返回缓存的映射；
// 未命中按请求口径回源聚合，并尽力回填缓存。
func (a *notificationAppImpl) GetUserNotificationCount(ctx context.Context, userID int64, req *cqe.GetNotificationCountReq) (*dto.NotificationCountsDto, error) {
	if userID <= 0 {
		return nil, errno.ErrUnauthorized
	}
	if !req.Validate() {
		return nil, errno.ErrParameterInvalid
	}

	counts, hit, err := a.counts.Get(ctx, userID)
	if err != nil {
		logger.WithContext(ctx).Debugf("count cache read failed, user_id=%d err=%v", userID, err)
		hit = false
	}
	metrics.RecordCountCache(hit)
	if !hit {
		q := drepo.CountUserNotificationsQuery{UserID: userID, UnreadOnly: req.Unread}
		if req.Category != "" {
			cat := entity.NotificationCategory(req.Category)
			q.Category = &cat
		}
		if !req.Unread {
			q.Since = a.now().Add(-a.window)
		}
		counts, err = a.userRepo.CountByCategory(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("count user notifications: %w", err)
		}
		if err := a.counts.Set(ctx, userID, counts); err != nil {
			logger.WithContext(ctx).Warnf("count cache write failed, user_id=%d err=%v", userID, err)
		}
	}
	return toCountsDto(counts), nil
}

// MarkNotificationsRead 标记已读。批量路径整段失效对应缓存；单条路径
// 只在恰好翻转一行时做受保护的递减。存储写入是唯一事实，缓存维护全部
// 尽力而为。
func (a *notificationAppImpl) MarkNotificationsRead(ctx context.Context, userID int64, req *cqe.MarkReadReq) error {
	if userID <= 0 {
		return errno.ErrUnauthorized
	}
	if !req.Validate() {
		return errno.ErrParameterInvalid
	}

	var affected int64
	if req.All {
		var category *entity.NotificationCategory
		if req.Category != "" {
			cat := entity.NotificationCategory(req.Category)
			category = &cat
		}
		n, err := a.userRepo.MarkAllRead(ctx, userID, category)
		if err != nil {
			return fmt.Errorf("mark all read: %w", err)
		}
		affected = n
		if n > 0 {
			if category != nil {
				if err := a.counts.ClearCategory(ctx, userID, *category); err != nil {
					logger.WithContext(ctx).Warnf("count cache clear failed, user_id=%d category=%s err=%v", userID, *category, err)
				}
			} else if err := a.counts.Bust(ctx, userID); err != nil {
				logger.WithContext(ctx).Warnf("count cache bust failed, user_id=%d err=%v", userID, err)
			}
		}
	} else {
		n, err := a.userRepo.MarkRead(ctx, userID, req.ID)
		if err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		affected = n
		if n == 1 {
			if cat, err := a.userRepo.CategoryOf(ctx, req.ID); err != nil {
				logger.WithContext(ctx).Warnf("category lookup after mark read failed, id=%d err=%v", req.ID, err)
			} else if err := a.counts.Decrement(ctx, userID, cat); err != nil {
				logger.WithContext(ctx).Warnf("count cache decrement failed, user_id=%d category=%s err=%v", userID, cat, err)
			}
		}
	}

	if affected > 0 {
		metrics.MarkedReadRows.Add(float64(affected))
		a.publishUnreadTotal(ctx, userID)
	}
	return nil
}

// CreateUserNotificationSetting 退订一批通知类型，重复退订幂等。
func (a *notificationAppImpl) CreateUserNotificationSetting(ctx context.Context, userID int64, req *cqe.CreateUserNotificationSettingReq) error {
	if userID <= 0 {
		return errno.ErrUnauthorized
	}
	if !req.Validate() {
		return errno.ErrParameterInvalid
	}
	if err := a.settingRepo.Create(ctx, userID, req.Types); err != nil {
		return fmt.Errorf("create notification settings: %w", err)
	}
	logger.WithContext(ctx).Infof("notification types disabled, user_id=%d types=%d", userID, len(req.Types))
	return nil
}

// DeleteUserNotificationSetting 恢复一批通知类型的接收，删不存在的行也算成功。
func (a *notificationAppImpl) DeleteUserNotificationSetting(ctx context.Context, userID int64, req *cqe.DeleteUserNotificationSettingReq) error {
	if userID <= 0 {
		return errno.ErrUnauthorized
	}
	if !req.Validate() {
		return errno.ErrParameterInvalid
	}
	if err := a.settingRepo.Delete(ctx, userID, req.Types); err != nil {
		return fmt.Errorf("delete notification settings: %w", err)
	}
	logger.WithContext(ctx).Infof("notification types re-enabled, user_id=%d types=%d", userID, len(req.Types))
	return nil
}

func (a *notificationAppImpl) ListUserNotificationSettings(ctx context.Context, userID int64) ([]dto.UserNotificationSettingDto, error) {
	if userID <= 0 {
		return nil, errno.ErrUnauthorized
	}
	rows, err := a.settingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notification settings: %w", err)
	}
	res := make([]dto.UserNotificationSettingDto, 0, len(rows))
	for _, row := range rows {
		res = append(res, dto.UserNotificationSettingDto{
			Type:       row.Type,
			DisabledAt: row.DisabledAt,
		})
	}
	return res, nil
}

func (a *notificationAppImpl) toNotificationDto(ctx context.Context, row *entity.UserNotification) dto.NotificationDto {
	d := dto.NotificationDto{
		ID:        row.ID,
		Viewed:    row.Viewed,
		CreatedAt: row.CreatedAt,
	}
	n := row.Notification
	if n == nil {
		return d
	}
	d.Type = n.Type
	d.Category = string(n.Category)
	d.Details = n.Details
	detail, ok, err := a.enricher.Decode(n.Type, n.Details)
	if err != nil {
		// 解码失败不影响列表返回，前端还有 details 原文可用。
		logger.WithContext(ctx).Warnf("notification detail decode failed, type=%s id=%d err=%v", n.Type, row.ID, err)
	} else if ok {
		d.Message = detail.Message
		d.URL = detail.URL
	}
	return d
}

// publishUnreadTotal 已读之后向订阅方推送最新未读总数，推不出去就算了。
func (a *notificationAppImpl) publishUnreadTotal(ctx context.Context, userID int64) {
	counts, hit, err := a.counts.Get(ctx, userID)
	if err != nil || !hit {
		counts, err = a.userRepo.CountByCategory(ctx, drepo.CountUserNotificationsQuery{
			UserID:     userID,
			UnreadOnly: true,
		})
		if err != nil {
			logger.WithContext(ctx).Debugf("unread total for sse push failed, user_id=%d err=%v", userID, err)
			return
		}
	}
	a.publish(userID, sse.Event{
		Type: "notification.updated",
		Data: map[string]interface{}{
			"unread_count": counts.Total(),
		},
	})
}

func toCountsDto(counts entity.CategoryCounts) *dto.NotificationCountsDto {
	out := &dto.NotificationCountsDto{Counts: make(map[string]int64, len(counts))}
	for cat, n := range counts {
		out.Counts[string(cat)] = n
		out.Total += n
	}
	return out
}
