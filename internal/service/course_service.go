package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"eduhub/internal/cache"
	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

const (
	courseListCacheKey = "courses:all"
	courseListCacheTTL = 5 * time.Minute
)

// CourseService handles the course catalogue.
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	Create(ctx context.Context, name string) (*model.Course, error)
	Rename(ctx context.Context, id uint, name string) (*model.Course, error)
	Delete(ctx context.Context, id uint) error
	Invalidate(ctx context.Context)
}

type courseService struct {
	courseRepo repository.CourseRepository
	cache      *cache.Client
}

// NewCourseService creates a new course service.
func NewCourseService(courseRepo repository.CourseRepository, cache *cache.Client) CourseService {
	return &courseService{courseRepo: courseRepo, cache: cache}
}

// List returns all courses by name, served from cache when possible.
func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	if cached, _ := s.cache.Get(ctx, courseListCacheKey); cached != nil {
		var courses []model.Course
		if err := sonic.Unmarshal(cached, &courses); err == nil {
			return courses, nil
		}
	}

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if payload, err := sonic.Marshal(courses); err == nil {
		_ = s.cache.Set(ctx, courseListCacheKey, payload, courseListCacheTTL)
	}
	return courses, nil
}

func (s *courseService) Create(ctx context.Context, name string) (*model.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}
	course := &model.Course{Name: name}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("course %q already exists: %w", name, apperrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.Invalidate(ctx)
	return course, nil
}

func (s *courseService) Rename(ctx context.Context, id uint, name string) (*model.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	if _, err := s.courseRepo.Rename(ctx, id, name); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("course %q already exists: %w", name, apperrors.ErrInvalidInput)
		}
		return nil, fmt.Errorf("rename course: %w", err)
	}
	s.Invalidate(ctx)
	course.Name = name
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	n, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if n == 0 {
		return apperrors.ErrCourseNotFound
	}
	s.Invalidate(ctx)
	return nil
}

// Invalidate drops the cached course list.
func (s *courseService) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, courseListCacheKey)
}
