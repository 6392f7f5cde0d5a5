package repository

import (
	"context"

	"gorm.io/gorm"

	"eduhub/internal/model"
)

// CourseRepository defines course persistence operations.
type CourseRepository interface {
	List(ctx context.Context) ([]model.Course, error)
	FindByID(ctx context.Context, id uint) (*model.Course, error)
	FindByName(ctx context.Context, name string) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	Rename(ctx context.Context, id uint, name string) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	// FirstOrCreate returns the course called name, creating it when missing.
	FirstOrCreate(ctx context.Context, name string) (*model.Course, bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.WithContext(ctx).Order("course_name ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("course_id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByName(ctx context.Context, name string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("course_name = ?", name).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Rename(ctx context.Context, id uint, name string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("course_id = ?", id).
		Update("course_name", name)
	return res.RowsAffected, res.Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("course_id = ?", id).Delete(&model.Course{})
	return res.RowsAffected, res.Error
}

func (r *courseRepository) FirstOrCreate(ctx context.Context, name string) (*model.Course, bool, error) {
	course := model.Course{Name: name}
	res := r.db.WithContext(ctx).Where("course_name = ?", name).FirstOrCreate(&course)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &course, res.RowsAffected > 0, nil
}
