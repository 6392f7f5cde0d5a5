package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/model"
	"eduhub/internal/service"
)

// UnitHandler handles unit endpoints.
type UnitHandler struct {
	unitService service.UnitService
}

// NewUnitHandler creates a new unit handler.
func NewUnitHandler(unitService service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// UnitRequest represents a unit create or update request.
type UnitRequest struct {
	UnitCode string `json:"unit_code" validate:"required"`
	UnitName string `json:"unit_name" validate:"required"`
	Lecturer string `json:"lecturer" validate:"required"`
	CourseID uint   `json:"courseId" validate:"required"`
	Year     int    `json:"year" validate:"required,min=1"`
	Semester int    `json:"semester" validate:"required,min=1"`
}

func (r UnitRequest) toModel() *model.Unit {
	return &model.Unit{
		UnitCode: r.UnitCode,
		UnitName: r.UnitName,
		Lecturer: r.Lecturer,
		CourseID: r.CourseID,
		Year:     r.Year,
		Semester: r.Semester,
	}
}

// UnitResponse wraps a created unit.
type UnitResponse struct {
	Unit *model.Unit `json:"unit"`
}

// ListAll godoc
// @Summary List all units
// @Tags units
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Unit
// @Failure 500 {object} errors.ErrorResponse
// @Router /units [get]
func (h *UnitHandler) ListAll(c echo.Context) error {
	units, err := h.unitService.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, units)
}

// ListByCourse godoc
// @Summary List a course's units
// @Tags units
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param year query int false "Year"
// @Param semester query int false "Semester"
// @Success 200 {array} model.Unit
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /units/{courseId} [get]
func (h *UnitHandler) ListByCourse(c echo.Context) error {
	courseID, err := idParam(c, "courseId")
	if err != nil {
		return err
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		return err
	}
	semester, err := optionalInt(c, "semester")
	if err != nil {
		return err
	}
	units, err := h.unitService.ListByCourse(c.Request().Context(), courseID, year, semester)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, units)
}

// Create godoc
// @Summary Create a unit
// @Tags units
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UnitRequest true "Unit"
// @Success 201 {object} UnitResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /units [post]
func (h *UnitHandler) Create(c echo.Context) error {
	var req UnitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	unit := req.toModel()
	if err := h.unitService.Create(c.Request().Context(), unit); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, UnitResponse{Unit: unit})
}

// Update godoc
// @Summary Update a unit
// @Tags units
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Unit ID"
// @Param request body UnitRequest true "Unit"
// @Success 200 {object} UnitResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /units/{id} [put]
func (h *UnitHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req UnitRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	unit := req.toModel()
	unit.ID = id
	updated, err := h.unitService.Update(c.Request().Context(), unit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, UnitResponse{Unit: updated})
}

// Delete godoc
// @Summary Delete a unit
// @Tags units
// @Produce json
// @Security BearerAuth
// @Param id path int true "Unit ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /units/{id} [delete]
func (h *UnitHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.unitService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Unit deleted successfully"})
}

// Details godoc
// @Summary A unit with its resources
// @Tags units
// @Produce json
// @Security BearerAuth
// @Param unitId path int true "Unit ID"
// @Success 200 {object} service.UnitDetails
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /units/details/{unitId} [get]
func (h *UnitHandler) Details(c echo.Context) error {
	id, err := idParam(c, "unitId")
	if err != nil {
		return err
	}
	details, err := h.unitService.Details(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}
