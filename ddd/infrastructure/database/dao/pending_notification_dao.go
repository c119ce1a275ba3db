package dao

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
	"github.com/hamzaalmahdi/civitai/internal/resource"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingNotificationDao 待发队列表的访问入口。
// 队列的读写都走主库，扇出不能读到落后的副本。
type PendingNotificationDao struct {
	db *gorm.DB
}

func NewPendingNotificationDao() *PendingNotificationDao {
	return &PendingNotificationDao{db: resource.MainDB()}
}

// InsertIgnore 首写优先入队：notif_key 已存在时不写入。
// 返回是否真正插入了新行。
func (d *PendingNotificationDao) InsertIgnore(ctx context.Context, p *po.PendingNotification) (bool, error) {
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListOldest 按入队时间取出最多 limit 条待扇出的行。
func (d *PendingNotificationDao) ListOldest(ctx context.Context, limit int) ([]po.PendingNotification, error) {
	var rows []po.PendingNotification
	err := d.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByKeys 删除已消费的待发行。
func (d *PendingNotificationDao) DeleteByKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Where("notif_key IN ?", keys).
		Delete(&po.PendingNotification{}).Error
}
