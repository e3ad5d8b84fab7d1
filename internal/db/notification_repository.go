package db

import (
	"context"

	"github.com/terraincognita07/bloom/internal/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	database *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{database: database}
}

func (repo *NotificationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	query := repo.database.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (repo *NotificationRepository) ExistsUnread(ctx context.Context, userID uint, text string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND unread = ? AND text = ?", userID, true, text).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return repo.database.WithContext(ctx).Create(notification).Error
}

func (repo *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	return repo.database.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND unread = ?", userID, true).
		Update("unread", false).Error
}
