package dao

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
	"github.com/hamzaalmahdi/civitai/internal/resource"

	"gorm.io/gorm"
)

// engagementTypeBlock 对应主站在 user_engagements.type 中的拉黑取值。
const engagementTypeBlock = "Block"

// UserEngagementDao 用户关系表的只读入口，表归用户域维护。
type UserEngagementDao struct {
	read *gorm.DB
}

func NewUserEngagementDao() *UserEngagementDao {
	return &UserEngagementDao{read: resource.ReadDB()}
}

// BlockedUserIDs 返回 userID 主动拉黑的用户 ID 列表。
func (d *UserEngagementDao) BlockedUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := d.read.WithContext(ctx).
		Model(&po.UserEngagement{}).
		Where("user_id = ? AND type = ?", userID, engagementTypeBlock).
		Pluck("target_user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// BlockedByUserIDs 返回拉黑了 userID 的用户 ID 列表。
func (d *UserEngagementDao) BlockedByUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := d.read.WithContext(ctx).
		Model(&po.UserEngagement{}).
		Where("target_user_id = ? AND type = ?", userID, engagementTypeBlock).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
