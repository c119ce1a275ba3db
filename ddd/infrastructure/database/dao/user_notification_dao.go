package dao

import (
	"context"
	"time"

	"github.com/hamzaalmahdi/civitai/ddd/infrastructure/database/po"
	"github.com/hamzaalmahdi/civitai/internal/resource"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter 收件箱查询条件，由应用层归一化后传入。
// Cursor 优先于 Since；两者都为零值时不限定时间范围。
type ListFilter struct {
	UserID     int64
	Category   string
	UnreadOnly bool
	Cursor     *time.Time
	Since      time.Time
	Limit      int
}

// CountFilter 分类计数查询条件。
type CountFilter struct {
	UserID     int64
	Category   string
	UnreadOnly bool
	Since      time.Time
}

// CategoryCount 分组聚合结果的一行。
type CategoryCount struct {
	Category string `gorm:"column:category"`
	Total    int64  `gorm:"column:total"`
}

type UserNotificationDao struct {
	db   *gorm.DB
	read *gorm.DB
}

func NewUserNotificationDao() *UserNotificationDao {
	return &UserNotificationDao{db: resource.MainDB(), read: resource.ReadDB()}
}

func (d *UserNotificationDao) List(ctx context.Context, f ListFilter) ([]po.UserNotification, error) {
	q := d.read.WithContext(ctx).
		Model(&po.UserNotification{}).
		Joins("Notification").
		Where("user_notifications.user_id = ?", f.UserID)
	if f.UnreadOnly {
		q = q.Where("user_notifications.viewed = ?", false)
	}
	if f.Category != "" {
		q = q.Where("`Notification`.`category` = ?", f.Category)
	}
	if f.Cursor != nil {
		q = q.Where("user_notifications.created_at < ?", *f.Cursor)
	} else if !f.Since.IsZero() {
		q = q.Where("user_notifications.created_at >= ?", f.Since)
	}
	var rows []po.UserNotification
	err := q.Order("user_notifications.created_at DESC, user_notifications.id DESC").
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *UserNotificationDao) CountByCategory(ctx context.Context, f CountFilter) ([]CategoryCount, error) {
	q := d.read.WithContext(ctx).
		Table("user_notifications AS un").
		Select("n.category AS category, COUNT(*) AS total").
		Joins("JOIN notifications n ON n.id = un.notification_id").
		Where("un.user_id = ?", f.UserID)
	if f.UnreadOnly {
		q = q.Where("un.viewed = ?", false)
	}
	if f.Category != "" {
		q = q.Where("n.category = ?", f.Category)
	}
	if !f.Since.IsZero() {
		q = q.Where("un.created_at >= ?", f.Since)
	}
	var rows []CategoryCount
	if err := q.Group("n.category").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkAllRead 批量置已读；category 为空时覆盖该用户全部未读行。
func (d *UserNotificationDao) MarkAllRead(ctx context.Context, userID int64, category string) (int64, error) {
	q := d.db.WithContext(ctx).
		Model(&po.UserNotification{}).
		Where("user_id = ? AND viewed = ?", userID, false)
	if category != "" {
		sub := d.db.Model(&po.Notification{}).Select("id").Where("category = ?", category)
		q = q.Where("notification_id IN (?)", sub)
	}
	res := q.Update("viewed", true)
	return res.RowsAffected, res.Error
}

// MarkRead 单行置已读，viewed 谓词保证并发重复调用至多生效一次。
func (d *UserNotificationDao) MarkRead(ctx context.Context, userID int64, id uint64) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&po.UserNotification{}).
		Where("id = ? AND user_id = ? AND viewed = ?", id, userID, false).
		Update("viewed", true)
	return res.RowsAffected, res.Error
}

func (d *UserNotificationDao) CategoryOf(ctx context.Context, id uint64) (string, error) {
	var row struct {
		Category string `gorm:"column:category"`
	}
	err := d.db.WithContext(ctx).
		Table("user_notifications AS un").
		Select("n.category AS category").
		Joins("JOIN notifications n ON n.id = un.notification_id").
		Where("un.id = ?", id).
		Take(&row).Error
	if err != nil {
		return "", err
	}
	return row.Category, nil
}

// BatchInsert 为一批用户插入投递行，已有 (notification, user) 行的跳过。
func (d *UserNotificationDao) BatchInsert(ctx context.Context, rows []po.UserNotification) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500)
	return res.RowsAffected, res.Error
}
