package repository

import (
	"context"

	"gorm.io/gorm"

	"eduhub/internal/model"
)

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	List(ctx context.Context, courseID uint, year, semester *int) ([]model.Notification, error)
	Create(ctx context.Context, n *model.Notification) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) List(ctx context.Context, courseID uint, year, semester *int) ([]model.Notification, error) {
	var notifications []model.Notification
	q := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	if semester != nil {
		q = q.Where("semester = ?", *semester)
	}
	if err := q.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
