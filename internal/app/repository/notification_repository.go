package repository

import (
	"github.com/bellavista/bellavista-backend/internal/app/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(log *model.NotificationLog) error
	FindByOrderID(orderID uint) ([]model.NotificationLog, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(log *model.NotificationLog) error {
	return r.db.Create(log).Error
}

func (r *notificationRepository) FindByOrderID(orderID uint) ([]model.NotificationLog, error) {
	var logs []model.NotificationLog
	err := r.db.Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
