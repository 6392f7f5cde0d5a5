package repository

import (
	"context"

	"gorm.io/gorm"

	"eduhub/internal/model"
)

// FeedbackTotals is the raw aggregate over all feedback rows.
type FeedbackTotals struct {
	Count     int64
	RatingSum int64
}

// MessageRepository stores support messages and feedback.
type MessageRepository interface {
	CreateSupportMessage(ctx context.Context, msg *model.SupportMessage) error
	CreateFeedback(ctx context.Context, fb *model.Feedback) error
	FeedbackTotals(ctx context.Context) (FeedbackTotals, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) CreateSupportMessage(ctx context.Context, msg *model.SupportMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) CreateFeedback(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *messageRepository) FeedbackTotals(ctx context.Context) (FeedbackTotals, error) {
	var totals FeedbackTotals
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS rating_sum").
		Scan(&totals).Error
	return totals, err
}
