package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

// CatalogueUnit is one unit entry of a catalogue file.
type CatalogueUnit struct {
	Code     string `json:"unit_code"`
	Name     string `json:"unit_name"`
	Lecturer string `json:"lecturer"`
	Year     int    `json:"year"`
	Semester int    `json:"semester"`
}

// CatalogueCourse is a course with the units taught in it.
type CatalogueCourse struct {
	Name  string          `json:"course_name"`
	Units []CatalogueUnit `json:"units"`
}

// ImportStats counts what an import changed.
type ImportStats struct {
	CoursesCreated int `json:"coursesCreated"`
	UnitsCreated   int `json:"unitsCreated"`
	UnitsUpdated   int `json:"unitsUpdated"`
}

// ParseCatalogue decodes a JSON catalogue.
func ParseCatalogue(data []byte) ([]CatalogueCourse, error) {
	var courses []CatalogueCourse
	if err := sonic.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	return courses, nil
}

// CatalogueService loads courses and units in bulk.
type CatalogueService interface {
	Import(ctx context.Context, courses []CatalogueCourse) (*ImportStats, error)
}

type catalogueService struct {
	courseRepo repository.CourseRepository
	unitRepo   repository.UnitRepository
	courses    CourseService
}

// NewCatalogueService creates a new catalogue service. courses, when set, has
// its cache invalidated after an import that created courses.
func NewCatalogueService(courseRepo repository.CourseRepository, unitRepo repository.UnitRepository, courses CourseService) CatalogueService {
	return &catalogueService{courseRepo: courseRepo, unitRepo: unitRepo, courses: courses}
}

// Import creates missing courses and upserts units by course and unit code.
// Running it twice with the same input changes nothing the second time.
func (s *catalogueService) Import(ctx context.Context, courses []CatalogueCourse) (*ImportStats, error) {
	if err := validateCatalogue(courses); err != nil {
		return nil, err
	}

	stats := &ImportStats{}
	for _, entry := range courses {
		course, created, err := s.courseRepo.FirstOrCreate(ctx, strings.TrimSpace(entry.Name))
		if err != nil {
			return stats, fmt.Errorf("course %q: %w", entry.Name, err)
		}
		if created {
			stats.CoursesCreated++
		}

		for _, u := range entry.Units {
			unit := &model.Unit{
				UnitCode: strings.TrimSpace(u.Code),
				UnitName: u.Name,
				Lecturer: u.Lecturer,
				CourseID: course.ID,
				Year:     u.Year,
				Semester: u.Semester,
			}
			created, err := s.unitRepo.Upsert(ctx, unit)
			if err != nil {
				return stats, fmt.Errorf("unit %s: %w", u.Code, err)
			}
			if created {
				stats.UnitsCreated++
			} else {
				stats.UnitsUpdated++
			}
		}
	}

	if stats.CoursesCreated > 0 && s.courses != nil {
		s.courses.Invalidate(ctx)
	}
	return stats, nil
}

func validateCatalogue(courses []CatalogueCourse) error {
	for i, c := range courses {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("course #%d has no name: %w", i+1, apperrors.ErrInvalidInput)
		}
		for _, u := range c.Units {
			if strings.TrimSpace(u.Code) == "" || u.Name == "" || u.Year < 1 || u.Semester < 1 {
				return fmt.Errorf("course %q has an incomplete unit: %w", c.Name, apperrors.ErrInvalidInput)
			}
		}
	}
	return nil
}
