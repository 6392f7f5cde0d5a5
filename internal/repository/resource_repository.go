package repository

import (
	"context"

	"gorm.io/gorm"

	"eduhub/internal/model"
)

// ResourceRepository defines resource persistence operations.
type ResourceRepository interface {
	List(ctx context.Context) ([]model.Resource, int64, error)
	ListByUnit(ctx context.Context, unitID uint) ([]model.Resource, error)
	Create(ctx context.Context, resource *model.Resource) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// List returns every resource, newest first, with the total count.
func (r *resourceRepository) List(ctx context.Context) ([]model.Resource, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Resource{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var resources []model.Resource
	if err := r.db.WithContext(ctx).Order("upload_date DESC").Find(&resources).Error; err != nil {
		return nil, 0, err
	}
	return resources, total, nil
}

func (r *resourceRepository) ListByUnit(ctx context.Context, unitID uint) ([]model.Resource, error) {
	var resources []model.Resource
	if err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("upload_date DESC").
		Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("resource_id = ?", id).Delete(&model.Resource{})
	return res.RowsAffected, res.Error
}
