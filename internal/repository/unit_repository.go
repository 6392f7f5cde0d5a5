package repository

import (
	"context"

	"gorm.io/gorm"

	"eduhub/internal/model"
)

// UnitRepository defines unit persistence operations.
type UnitRepository interface {
	ListAll(ctx context.Context) ([]model.Unit, error)
	ListByCourse(ctx context.Context, courseID uint, year, semester *int) ([]model.Unit, error)
	FindByID(ctx context.Context, id uint) (*model.Unit, error)
	Create(ctx context.Context, unit *model.Unit) error
	Update(ctx context.Context, unit *model.Unit) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	// Upsert matches on course and unit code.
	Upsert(ctx context.Context, unit *model.Unit) (created bool, err error)
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository creates a new unit repository.
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

// ListAll returns every unit with its course name, newest first.
func (r *unitRepository) ListAll(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).
		Table("units AS u").
		Select("u.*, c.course_name").
		Joins("JOIN courses c ON c.course_id = u.course_id").
		Order("u.unit_id DESC").
		Find(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

// ListByCourse filters by year and semester only when both are given.
func (r *unitRepository) ListByCourse(ctx context.Context, courseID uint, year, semester *int) ([]model.Unit, error) {
	var units []model.Unit
	q := r.db.WithContext(ctx).Where("course_id = ?", courseID)
	if year != nil && semester != nil {
		q = q.Where("year = ? AND semester = ?", *year, *semester)
	}
	if err := q.Order("year, semester").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *unitRepository) FindByID(ctx context.Context, id uint) (*model.Unit, error) {
	var unit model.Unit
	if err := r.db.WithContext(ctx).Where("unit_id = ?", id).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) Update(ctx context.Context, unit *model.Unit) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Unit{}).
		Where("unit_id = ?", unit.ID).
		Updates(map[string]interface{}{
			"unit_name": unit.UnitName,
			"unit_code": unit.UnitCode,
			"lecturer":  unit.Lecturer,
			"course_id": unit.CourseID,
			"year":      unit.Year,
			"semester":  unit.Semester,
		})
	return res.RowsAffected, res.Error
}

func (r *unitRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("unit_id = ?", id).Delete(&model.Unit{})
	return res.RowsAffected, res.Error
}

func (r *unitRepository) Upsert(ctx context.Context, unit *model.Unit) (bool, error) {
	var existing model.Unit
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND unit_code = ?", unit.CourseID, unit.UnitCode).
		First(&existing).Error
	if err == nil {
		unit.ID = existing.ID
		_, err = r.Update(ctx, unit)
		return false, err
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	return true, r.Create(ctx, unit)
}
