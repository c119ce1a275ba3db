package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/dao"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"

	"gorm.io/datatypes"
)

type pendingNotificationRepositoryImpl struct {
	dao *dao.PendingNotificationDao
}

func NewPendingNotificationRepository() drepo.PendingNotificationRepository {
	return &pendingNotificationRepositoryImpl{dao: dao.NewPendingNotificationDao()}
}

func (r *pendingNotificationRepositoryImpl) Enqueue(ctx context.Context, p *entity.PendingNotification) (bool, error) {
	userIDs, err := json.Marshal(p.UserIDs)
	if err != nil {
		return false, fmt.Errorf("marshal pending user ids: %w", err)
	}
	row := &po.PendingNotification{
		NotifKey:  p.Key,
		Type:      p.Type,
		Category:  string(p.Category),
		UserIDs:   datatypes.JSON(userIDs),
		Details:   datatypes.JSON(p.Details),
		CreatedAt: p.CreatedAt,
	}
	return r.dao.InsertIgnore(ctx, row)
}

func (r *pendingNotificationRepositoryImpl) TakeBatch(ctx context.Context, limit int) ([]*entity.PendingNotification, error) {
	rows, err := r.dao.ListOldest(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.PendingNotification, 0, len(rows))
	for _, row := range rows {
		var userIDs []int64
		if err := json.Unmarshal(row.UserIDs, &userIDs); err != nil {
			return nil, fmt.Errorf("unmarshal pending user ids for %s: %w", row.NotifKey, err)
		}
		res = append(res, &entity.PendingNotification{
			Key:       row.NotifKey,
			Type:      row.Type,
			Category:  entity.NotificationCategory(row.Category),
			UserIDs:   userIDs,
			Details:   json.RawMessage(row.Details),
			CreatedAt: row.CreatedAt,
		})
	}
	return res, nil
}

func (r *pendingNotificationRepositoryImpl) Remove(ctx context.Context, keys []string) error {
	return r.dao.DeleteByKeys(ctx, keys)
}
