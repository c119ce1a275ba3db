package persistence

import (
	"context"

	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/dao"
)

type userEngagementRepositoryImpl struct {
	dao *dao.UserEngagementDao
}

func NewUserEngagementRepository() drepo.UserEngagementRepository {
	return &userEngagementRepositoryImpl{dao: dao.NewUserEngagementDao()}
}

func (r *userEngagementRepositoryImpl) BlockedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.dao.BlockedUserIDs(ctx, userID)
}

func (r *userEngagementRepositoryImpl) BlockedByUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.dao.BlockedByUserIDs(ctx, userID)
}
