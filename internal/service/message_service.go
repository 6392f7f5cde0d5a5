package service

import (
	"context"
	"fmt"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

// MessageService records support requests and platform feedback.
type MessageService interface {
	SubmitSupport(ctx context.Context, msg *model.SupportMessage) error
	SubmitFeedback(ctx context.Context, fb *model.Feedback) error
}

type messageService struct {
	repo repository.MessageRepository
}

// NewMessageService creates a new message service.
func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageService{repo: repo}
}

func (s *messageService) SubmitSupport(ctx context.Context, msg *model.SupportMessage) error {
	if msg.Email == "" || msg.Message == "" {
		return apperrors.ErrInvalidInput
	}
	if err := s.repo.CreateSupportMessage(ctx, msg); err != nil {
		return fmt.Errorf("create support message: %w", err)
	}
	return nil
}

func (s *messageService) SubmitFeedback(ctx context.Context, fb *model.Feedback) error {
	if fb.Rating < 1 || fb.Rating > 5 || fb.Comment == "" {
		return apperrors.ErrInvalidInput
	}
	if err := s.repo.CreateFeedback(ctx, fb); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}
