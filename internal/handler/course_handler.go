package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/service"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CourseRequest names a course.
type CourseRequest struct {
	Name string `json:"course_name" validate:"required"`
}

// List godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {array} model.Course
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courseService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CourseRequest true "Course"
// @Success 201 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req CourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	course, err := h.courseService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

// Rename godoc
// @Summary Rename a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body CourseRequest true "Course"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) Rename(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req CourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.courseService.Rename(c.Request().Context(), id, req.Name); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Course updated successfully"})
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.courseService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Course deleted successfully"})
}
