package dao

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
	"github.com/hamzaalmahdi/civitai/internal/resource"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationDao 共享通知表的访问入口，仅扇出流程写入。
// 读取走主库：扇出需要看到自己刚写入的行。
type NotificationDao struct {
	db *gorm.DB
}

func NewNotificationDao() *NotificationDao {
	return &NotificationDao{db: resource.MainDB()}
}

// InsertIgnore 幂等插入共享通知，(notif_key, type) 冲突时不做任何修改。
func (d *NotificationDao) InsertIgnore(ctx context.Context, p *po.Notification) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
}

// GetByKeyType 按去重键取回共享通知。
func (d *NotificationDao) GetByKeyType(ctx context.Context, key, typ string) (*po.Notification, error) {
	var row po.Notification
	err := d.db.WithContext(ctx).
		Where("notif_key = ? AND type = ?", key, typ).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
