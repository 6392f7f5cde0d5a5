package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/service"
)

// ResourceHandler handles resource uploads.
type ResourceHandler struct {
	resourceService service.ResourceService
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(resourceService service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// ResourceCreatedResponse is returned after an upload.
type ResourceCreatedResponse struct {
	Message  string          `json:"message"`
	FileURL  string          `json:"fileUrl"`
	Resource *model.Resource `json:"resource"`
}

// Create godoc
// @Summary Upload a resource for a unit
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Resource file"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param unitId formData int true "Unit ID"
// @Param resource_type formData string true "Notes, Papers or Tasks"
// @Success 201 {object} ResourceCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	if file == nil {
		return respondError(c, errors.ErrMissingFile)
	}
	unitID, err := strconv.ParseUint(c.FormValue("unitId"), 10, 64)
	if err != nil {
		return badRequest("unitId is required")
	}
	title := c.FormValue("title")
	if title == "" {
		return badRequest("title is required")
	}

	resource, err := h.resourceService.Create(c.Request().Context(), service.CreateResourceInput{
		UnitID:       uint(unitID),
		Title:        title,
		Description:  c.FormValue("description"),
		ResourceType: c.FormValue("resource_type"),
		File:         file,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, ResourceCreatedResponse{
		Message:  "Resource added successfully!",
		FileURL:  resource.Link,
		Resource: resource,
	})
}

// Delete godoc
// @Summary Delete a resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param resourceId path int true "Resource ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /resources/{resourceId} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "resourceId")
	if err != nil {
		return err
	}
	if err := h.resourceService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Resource deleted successfully"})
}
