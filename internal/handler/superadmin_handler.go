package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/model"
	"eduhub/internal/service"
)

// SuperadminHandler serves the superadmin console.
type SuperadminHandler struct {
	superadminService service.SuperadminService
	resourceService   service.ResourceService
}

// NewSuperadminHandler creates a new superadmin handler.
func NewSuperadminHandler(superadminService service.SuperadminService, resourceService service.ResourceService) *SuperadminHandler {
	return &SuperadminHandler{
		superadminService: superadminService,
		resourceService:   resourceService,
	}
}

// AssignClassRepRequest names the student to promote.
type AssignClassRepRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateAdminRequest represents a new admin account.
type CreateAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// ResourcesResponse lists every uploaded resource.
type ResourcesResponse struct {
	TotalResources int64            `json:"totalResources"`
	Resources      []model.Resource `json:"resources"`
}

// ClassRepsResponse lists promoted students.
type ClassRepsResponse struct {
	TotalClassReps int             `json:"totalClassReps"`
	ClassReps      []model.Student `json:"classReps"`
}

// AdminResponse wraps a created admin.
type AdminResponse struct {
	Message string       `json:"message"`
	Admin   *model.Admin `json:"admin"`
}

// Dashboard godoc
// @Summary Superadmin welcome message
// @Tags superadmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /superadmin/dashboard [get]
func (h *SuperadminHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Welcome to the Super Admin Dashboard!"})
}

// Resources godoc
// @Summary List all resources
// @Tags superadmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResourcesResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/resources [get]
func (h *SuperadminHandler) Resources(c echo.Context) error {
	resources, total, err := h.resourceService.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ResourcesResponse{TotalResources: total, Resources: resources})
}

// AssignClassRep godoc
// @Summary Promote a student to class representative
// @Tags superadmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssignClassRepRequest true "Student email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/assign-class-rep [post]
func (h *SuperadminHandler) AssignClassRep(c echo.Context) error {
	var req AssignClassRepRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.superadminService.AssignClassRep(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: "Class representative assigned successfully and notified via email.",
	})
}

// ClassReps godoc
// @Summary List class representatives
// @Tags superadmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ClassRepsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/classreps [get]
func (h *SuperadminHandler) ClassReps(c echo.Context) error {
	reps, err := h.superadminService.ListClassReps(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ClassRepsResponse{TotalClassReps: len(reps), ClassReps: reps})
}

// Students godoc
// @Summary List students with gender totals
// @Tags superadmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.StudentsOverview
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/students [get]
func (h *SuperadminHandler) Students(c echo.Context) error {
	overview, err := h.superadminService.ListStudents(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

// CreateAdmin godoc
// @Summary Create an admin account
// @Tags superadmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAdminRequest true "Admin"
// @Success 201 {object} AdminResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/admins [post]
func (h *SuperadminHandler) CreateAdmin(c echo.Context) error {
	var req CreateAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	admin, err := h.superadminService.CreateAdmin(c.Request().Context(), service.CreateAdminInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, AdminResponse{Message: "Admin created successfully", Admin: admin})
}

// DeleteEntity godoc
// @Summary Delete a class rep, student, admin or resource
// @Description Deleting a class rep demotes the student; the id is the student's id.
// @Tags superadmin
// @Produce json
// @Security BearerAuth
// @Param entity path string true "classreps, students, admins or resources"
// @Param id path int true "ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/{entity}/{id} [delete]
func (h *SuperadminHandler) DeleteEntity(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	entity := c.Param("entity")
	if err := h.superadminService.DeleteEntity(c.Request().Context(), entity, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: entity + " deleted successfully"})
}

// Feedback godoc
// @Summary Feedback count and average rating
// @Tags superadmin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FeedbackSummary
// @Failure 500 {object} errors.ErrorResponse
// @Router /superadmin/feedback [get]
func (h *SuperadminHandler) Feedback(c echo.Context) error {
	summary, err := h.superadminService.FeedbackSummary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
