package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

// UnitDetails is a unit with its resources, newest first.
type UnitDetails struct {
	Unit      *model.Unit      `json:"unit"`
	Resources []model.Resource `json:"resources"`
}

// UnitService handles units and their resource listings.
type UnitService interface {
	ListAll(ctx context.Context) ([]model.Unit, error)
	ListByCourse(ctx context.Context, courseID uint, year, semester *int) ([]model.Unit, error)
	Create(ctx context.Context, unit *model.Unit) error
	Update(ctx context.Context, unit *model.Unit) (*model.Unit, error)
	Delete(ctx context.Context, id uint) error
	Details(ctx context.Context, id uint) (*UnitDetails, error)
}

type unitService struct {
	unitRepo     repository.UnitRepository
	courseRepo   repository.CourseRepository
	resourceRepo repository.ResourceRepository
}

// NewUnitService creates a new unit service.
func NewUnitService(
	unitRepo repository.UnitRepository,
	courseRepo repository.CourseRepository,
	resourceRepo repository.ResourceRepository,
) UnitService {
	return &unitService{
		unitRepo:     unitRepo,
		courseRepo:   courseRepo,
		resourceRepo: resourceRepo,
	}
}

func (s *unitService) ListAll(ctx context.Context) ([]model.Unit, error) {
	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

func (s *unitService) ListByCourse(ctx context.Context, courseID uint, year, semester *int) ([]model.Unit, error) {
	units, err := s.unitRepo.ListByCourse(ctx, courseID, year, semester)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

func (s *unitService) Create(ctx context.Context, unit *model.Unit) error {
	if err := s.requireCourse(ctx, unit.CourseID); err != nil {
		return err
	}
	if err := s.unitRepo.Create(ctx, unit); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

func (s *unitService) Update(ctx context.Context, unit *model.Unit) (*model.Unit, error) {
	if _, err := s.unitRepo.FindByID(ctx, unit.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, fmt.Errorf("find unit: %w", err)
	}
	if err := s.requireCourse(ctx, unit.CourseID); err != nil {
		return nil, err
	}
	if _, err := s.unitRepo.Update(ctx, unit); err != nil {
		return nil, fmt.Errorf("update unit: %w", err)
	}
	return unit, nil
}

func (s *unitService) Delete(ctx context.Context, id uint) error {
	n, err := s.unitRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUnitNotFound
	}
	return nil
}

func (s *unitService) Details(ctx context.Context, id uint) (*UnitDetails, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, fmt.Errorf("find unit: %w", err)
	}
	resources, err := s.resourceRepo.ListByUnit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return &UnitDetails{Unit: unit, Resources: resources}, nil
}

func (s *unitService) requireCourse(ctx context.Context, courseID uint) error {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("find course: %w", err)
	}
	return nil
}
