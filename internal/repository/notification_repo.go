package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Bigstool/group-management-system/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Notification, int64, error)
	DeleteByUsers(ctx context.Context, userIDs []string) error
	DeleteCreatedBetween(ctx context.Context, from, to time.Time) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	var list []model.Notification
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *notificationRepo) DeleteByUsers(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepo) DeleteCreatedBetween(ctx context.Context, from, to time.Time) error {
	return r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Delete(&model.Notification{}).Error
}
