package persistence

import (
	"context"
	"encoding/json"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/dao"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
)

type userNotificationRepositoryImpl struct {
	dao *dao.UserNotificationDao
}

func NewUserNotificationRepository() drepo.UserNotificationRepository {
	return &userNotificationRepositoryImpl{dao: dao.NewUserNotificationDao()}
}

func (r *userNotificationRepositoryImpl) List(ctx context.Context, q drepo.ListUserNotificationsQuery) ([]*entity.UserNotification, error) {
	f := dao.ListFilter{
		UserID:     q.UserID,
		UnreadOnly: q.UnreadOnly,
		Cursor:     q.Cursor,
		Since:      q.Since,
		Limit:      q.Limit,
	}
	if q.Category != nil {
		f.Category = string(*q.Category)
	}
	pos, err := r.dao.List(ctx, f)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.UserNotification, 0, len(pos))
	for _, p := range pos {
		un := &entity.UserNotification{
			ID:             p.ID,
			UserID:         p.UserID,
			NotificationID: p.NotificationID,
			Viewed:         p.Viewed,
			CreatedAt:      p.CreatedAt,
		}
		if p.Notification != nil {
			un.Notification = &entity.Notification{
				ID:        p.Notification.ID,
				Key:       p.Notification.NotifKey,
				Type:      p.Notification.Type,
				Category:  entity.NotificationCategory(p.Notification.Category),
				Details:   json.RawMessage(p.Notification.Details),
				CreatedAt: p.Notification.CreatedAt,
			}
		}
		res = append(res, un)
	}
	return res, nil
}

func (r *userNotificationRepositoryImpl) CountByCategory(ctx context.Context, q drepo.CountUserNotificationsQuery) (entity.CategoryCounts, error) {
	f := dao.CountFilter{
		UserID:     q.UserID,
		UnreadOnly: q.UnreadOnly,
		Since:      q.Since,
	}
	if q.Category != nil {
		f.Category = string(*q.Category)
	}
	rows, err := r.dao.CountByCategory(ctx, f)
	if err != nil {
		return nil, err
	}
	counts := make(entity.CategoryCounts, len(rows))
	for _, row := range rows {
		counts[entity.NotificationCategory(row.Category)] = row.Total
	}
	return counts, nil
}

func (r *userNotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID int64, category *entity.NotificationCategory) (int64, error) {
	cat := ""
	if category != nil {
		cat = string(*category)
	}
	return r.dao.MarkAllRead(ctx, userID, cat)
}

func (r *userNotificationRepositoryImpl) MarkRead(ctx context.Context, userID int64, id uint64) (int64, error) {
	return r.dao.MarkRead(ctx, userID, id)
}

func (r *userNotificationRepositoryImpl) CategoryOf(ctx context.Context, id uint64) (entity.NotificationCategory, error) {
	cat, err := r.dao.CategoryOf(ctx, id)
	if err != nil {
		return "", err
	}
	return entity.NotificationCategory(cat), nil
}
