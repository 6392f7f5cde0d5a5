package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
	"eduhub/internal/storage"
)

// CreateResourceInput holds the fields of an uploaded resource.
type CreateResourceInput struct {
	UnitID       uint
	Title        string
	Description  string
	ResourceType string
	File         *FileUpload
}

// ResourceService handles uploaded unit resources.
type ResourceService interface {
	Create(ctx context.Context, in CreateResourceInput) (*model.Resource, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]model.Resource, int64, error)
}

type resourceService struct {
	resourceRepo repository.ResourceRepository
	unitRepo     repository.UnitRepository
	uploader     storage.Uploader
}

// NewResourceService creates a new resource service.
func NewResourceService(
	resourceRepo repository.ResourceRepository,
	unitRepo repository.UnitRepository,
	uploader storage.Uploader,
) ResourceService {
	return &resourceService{
		resourceRepo: resourceRepo,
		unitRepo:     unitRepo,
		uploader:     uploader,
	}
}

// Create validates the input, uploads the file and records it.
func (s *resourceService) Create(ctx context.Context, in CreateResourceInput) (*model.Resource, error) {
	if in.File == nil || len(in.File.Data) == 0 {
		return nil, apperrors.ErrMissingFile
	}
	if !model.ValidResourceType(in.ResourceType) {
		return nil, apperrors.ErrInvalidResourceType
	}
	if _, err := s.unitRepo.FindByID(ctx, in.UnitID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, fmt.Errorf("find unit: %w", err)
	}

	url, err := s.uploader.Upload(ctx, storage.Object{
		Folder:      "resources",
		Name:        in.File.Name,
		ContentType: in.File.ContentType,
		Data:        in.File.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload resource: %w", err)
	}

	resource := &model.Resource{
		UnitID:       in.UnitID,
		Title:        in.Title,
		Description:  in.Description,
		Link:         url,
		FileType:     storage.Extension(in.File.Name),
		ResourceType: in.ResourceType,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return resource, nil
}

func (s *resourceService) Delete(ctx context.Context, id uint) error {
	n, err := s.resourceRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if n == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

func (s *resourceService) List(ctx context.Context) ([]model.Resource, int64, error) {
	resources, total, err := s.resourceRepo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources: %w", err)
	}
	return resources, total, nil
}
