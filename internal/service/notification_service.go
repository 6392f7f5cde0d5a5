package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

// NotificationService handles course announcements.
type NotificationService interface {
	List(ctx context.Context, courseID uint, year, semester *int) ([]model.Notification, error)
	Create(ctx context.Context, n *model.Notification) error
	Delete(ctx context.Context, id uint) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, courseID uint, year, semester *int) ([]model.Notification, error) {
	notifications, err := s.repo.List(ctx, courseID, year, semester)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) Create(ctx context.Context, n *model.Notification) error {
	if strings.TrimSpace(n.Message) == "" {
		return apperrors.ErrInvalidInput
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id uint) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}
