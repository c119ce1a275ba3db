package persistence

import (
	"context"

	"github.com/hamzaalmahdi/civitai/ddd/domain/entity"
	drepo "github.com/hamzaalmahdi/civitai/ddd/domain/repo"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/dao"
	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"

	"gorm.io/datatypes"
)

type notificationRepositoryImpl struct {
	dao     *dao.NotificationDao
	userDao *dao.UserNotificationDao
}

func NewNotificationRepository() drepo.NotificationRepository {
	return &notificationRepositoryImpl{
		dao:     dao.NewNotificationDao(),
		userDao: dao.NewUserNotificationDao(),
	}
}

// GetOrCreate 幂等创建共享通知。插入被 (notif_key, type) 冲突吞掉时
// 主键不会回填，需要按去重键重查一次。
func (r *notificationRepositoryImpl) GetOrCreate(ctx context.Context, n *entity.Notification) (uint64, error) {
	p := &po.Notification{
		NotifKey:  n.Key,
		Type:      n.Type,
		Category:  string(n.Category),
		Details:   datatypes.JSON(n.Details),
		CreatedAt: n.CreatedAt,
	}
	if err := r.dao.InsertIgnore(ctx, p); err != nil {
		return 0, err
	}
	if p.ID > 0 {
		return p.ID, nil
	}
	existing, err := r.dao.GetByKeyType(ctx, n.Key, n.Type)
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func (r *notificationRepositoryImpl) AddUserRows(ctx context.Context, notificationID uint64, userIDs []int64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	rows := make([]po.UserNotification, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, po.UserNotification{
			UserID:         uid,
			NotificationID: notificationID,
		})
	}
	return r.userDao.BatchInsert(ctx, rows)
}
