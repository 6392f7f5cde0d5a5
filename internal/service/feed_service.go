package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/media"
	"eduhub/internal/model"
	"eduhub/internal/repository"
	"eduhub/internal/storage"
)

// FileUpload is a file received from a multipart form.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreateFeedInput holds the fields of a new feed post.
type CreateFeedInput struct {
	CourseID    uint
	Year        int
	Semester    int
	Description string
	Image       *FileUpload
}

// FeedService handles course feed posts and reactions.
type FeedService interface {
	List(ctx context.Context, filter repository.FeedFilter) ([]model.Feed, error)
	Create(ctx context.Context, in CreateFeedInput) (*model.Feed, error)
	UpdateDescription(ctx context.Context, feedID uint, description string) (*model.Feed, error)
	Delete(ctx context.Context, feedID uint) error
	React(ctx context.Context, feedID, studentID uint, action model.Reaction) (model.Counters, error)
}

type feedService struct {
	feedRepo   repository.FeedRepository
	uploader   storage.Uploader
	imageMaxPx int
}

// NewFeedService creates a new feed service.
func NewFeedService(feedRepo repository.FeedRepository, uploader storage.Uploader, imageMaxPx int) FeedService {
	return &feedService{
		feedRepo:   feedRepo,
		uploader:   uploader,
		imageMaxPx: imageMaxPx,
	}
}

func (s *feedService) List(ctx context.Context, filter repository.FeedFilter) ([]model.Feed, error) {
	feeds, err := s.feedRepo.ListByCourse(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	return feeds, nil
}

// Create downscales the image, uploads it and stores the post.
func (s *feedService) Create(ctx context.Context, in CreateFeedInput) (*model.Feed, error) {
	if in.Image == nil || len(in.Image.Data) == 0 {
		return nil, apperrors.ErrMissingFile
	}

	data, err := media.Downscale(in.Image.Data, s.imageMaxPx)
	if err != nil {
		// Undecodable images are stored as received.
		data = in.Image.Data
	}

	url, err := s.uploader.Upload(ctx, storage.Object{
		Folder:      "feeds",
		Name:        in.Image.Name,
		ContentType: in.Image.ContentType,
		Data:        data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload feed image: %w", err)
	}

	feed := &model.Feed{
		CourseID:    in.CourseID,
		Year:        in.Year,
		Semester:    in.Semester,
		Description: in.Description,
		ImagePath:   url,
	}
	if err := s.feedRepo.Create(ctx, feed); err != nil {
		return nil, fmt.Errorf("create feed: %w", err)
	}
	return feed, nil
}

func (s *feedService) UpdateDescription(ctx context.Context, feedID uint, description string) (*model.Feed, error) {
	if _, err := s.feedRepo.UpdateDescription(ctx, feedID, description); err != nil {
		return nil, fmt.Errorf("update feed: %w", err)
	}
	feed, err := s.feedRepo.FindByID(ctx, feedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFeedNotFound
		}
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return feed, nil
}

func (s *feedService) Delete(ctx context.Context, feedID uint) error {
	n, err := s.feedRepo.Delete(ctx, feedID)
	if err != nil {
		return fmt.Errorf("delete feed: %w", err)
	}
	if n == 0 {
		return apperrors.ErrFeedNotFound
	}
	return nil
}

// React toggles the student's reaction on a post and returns the new counters.
//
// Like and dislike are mutually exclusive: reacting with the kind already held
// removes it, reacting with the opposite kind while one is held does nothing.
// The post row is locked for the whole read-check-write so concurrent
// reactions on the same post are applied one after another.
func (s *feedService) React(ctx context.Context, feedID, studentID uint, action model.Reaction) (model.Counters, error) {
	var opposite model.Reaction
	switch action {
	case model.ReactionLike:
		opposite = model.ReactionDislike
	case model.ReactionDislike:
		opposite = model.ReactionLike
	default:
		return model.Counters{}, apperrors.ErrInvalidAction
	}

	var counters model.Counters
	err := s.feedRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.FeedRepository) error {
		if _, err := txRepo.FindByIDForUpdate(ctx, feedID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrFeedNotFound
			}
			return err
		}

		held, err := txRepo.HasReaction(ctx, action, studentID, feedID)
		if err != nil {
			return err
		}
		switch {
		case held:
			if err := txRepo.RemoveReaction(ctx, action, studentID, feedID); err != nil {
				return err
			}
			if err := txRepo.AdjustCounter(ctx, action, feedID, -1); err != nil {
				return err
			}
		default:
			blocked, err := txRepo.HasReaction(ctx, opposite, studentID, feedID)
			if err != nil {
				return err
			}
			if !blocked {
				if err := txRepo.AddReaction(ctx, action, studentID, feedID); err != nil {
					return err
				}
				if err := txRepo.AdjustCounter(ctx, action, feedID, 1); err != nil {
					return err
				}
			}
		}

		counters, err = txRepo.Counters(ctx, feedID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrFeedNotFound) {
			return model.Counters{}, err
		}
		return model.Counters{}, fmt.Errorf("react to feed %d: %w", feedID, err)
	}
	return counters, nil
}
