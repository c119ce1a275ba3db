package persistence

import (
	"context"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/dao"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
)

type userNotificationSettingRepositoryImpl struct {
	dao *dao.UserNotificationSettingDao
}

func NewUserNotificationSettingRepository() drepo.UserNotificationSettingRepository {
	return &userNotificationSettingRepositoryImpl{dao: dao.NewUserNotificationSettingDao()}
}

func (r *userNotificationSettingRepositoryImpl) DisabledUserIDs(ctx context.Context, typ string, userIDs []int64) ([]int64, error) {
	return r.dao.DisabledUserIDs(ctx, typ, userIDs)
}

func (r *userNotificationSettingRepositoryImpl) Create(ctx context.Context, userID int64, types []string) error {
	now := time.Now()
	rows := make([]po.UserNotificationSetting, 0, len(types))
	for _, typ := range types {
		rows = append(rows, po.UserNotificationSetting{
			UserID:     userID,
			Type:       typ,
			DisabledAt: now,
		})
	}
	return r.dao.BatchInsert(ctx, rows)
}

func (r *userNotificationSettingRepositoryImpl) Delete(ctx context.Context, userID int64, types []string) error {
	return r.dao.DeleteByTypes(ctx, userID, types)
}

func (r *userNotificationSettingRepositoryImpl) ListByUser(ctx context.Context, userID int64) ([]*entity.UserNotificationSetting, error) {
	rows, err := r.dao.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := make([]*entity.UserNotificationSetting, 0, len(rows))
	for _, row := range rows {
		res = append(res, &entity.UserNotificationSetting{
			ID:         row.ID,
			UserID:     row.UserID,
			Type:       row.Type,
			DisabledAt: row.DisabledAt,
		})
	}
	return res, nil
}
