package dao

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
	"github.com/hamzaalmahdi/civitai/internal/resource"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserNotificationSettingDao struct {
	db   *gorm.DB
	read *gorm.DB
}

func NewUserNotificationSettingDao() *UserNotificationSettingDao {
	return &UserNotificationSettingDao{db: resource.MainDB(), read: resource.ReadDB()}
}

// DisabledUserIDs 返回候选用户中已退订该类型的用户 ID。
func (d *UserNotificationSettingDao) DisabledUserIDs(ctx context.Context, typ string, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := d.read.WithContext(ctx).
		Model(&po.UserNotificationSetting{}).
		Where("type = ? AND user_id IN ?", typ, userIDs).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// BatchInsert 幂等写入退订记录，重复的 (user, type) 忽略。
func (d *UserNotificationSettingDao) BatchInsert(ctx context.Context, rows []po.UserNotificationSetting) error {
	if len(rows) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}

// DeleteByTypes 删除用户在给定类型集合上的退订记录。
func (d *UserNotificationSettingDao) DeleteByTypes(ctx context.Context, userID int64, types []string) error {
	if len(types) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Where("user_id = ? AND type IN ?", userID, types).
		Delete(&po.UserNotificationSetting{}).Error
}

func (d *UserNotificationSettingDao) ListByUser(ctx context.Context, userID int64) ([]po.UserNotificationSetting, error) {
	var rows []po.UserNotificationSetting
	err := d.read.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("type ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
