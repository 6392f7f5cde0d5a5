package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/service"
)

// UserHandler serves session and profile endpoints for signed-in callers.
type UserHandler struct {
	profileService service.ProfileService
	authService    service.AuthService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(profileService service.ProfileService, authService service.AuthService) *UserHandler {
	return &UserHandler{profileService: profileService, authService: authService}
}

// RoleResponse reports the caller's role.
type RoleResponse struct {
	Role model.Role `json:"role"`
}

// DashboardResponse is the credential snapshot shown on the student dashboard.
type DashboardResponse struct {
	ID        uint       `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	CourseID  uint       `json:"courseId"`
	Role      model.Role `json:"role"`
	Course    string     `json:"course"`
	Year      int        `json:"year"`
	Semester  int        `json:"semester"`
}

// ProfileResponse is the credential snapshot returned by GET /user/profile.
type ProfileResponse struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Course    string     `json:"course"`
	Year      int        `json:"year"`
	Semester  int        `json:"semester"`
	Role      model.Role `json:"role"`
}

// ResourceAdderResponse tells the upload form what the caller may target.
type ResourceAdderResponse struct {
	Role     model.Role `json:"role"`
	Course   string     `json:"course,omitempty"`
	Year     int        `json:"year,omitempty"`
	Semester int        `json:"semester,omitempty"`
}

// UpdateProfileRequest is the editable profile. Fields outside the caller's
// role are ignored.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Course    string `json:"course"`
	Year      int    `json:"year"`
	Semester  int    `json:"semester"`
}

// UpdateProfileResponse carries the re-issued credential.
type UpdateProfileResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Check godoc
// @Summary Report the caller's role
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RoleResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/check [get]
func (h *UserHandler) Check(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return respondError(c, errors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, RoleResponse{Role: claims.Role})
}

// Dashboard godoc
// @Summary Student dashboard snapshot
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *UserHandler) Dashboard(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return respondError(c, errors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, DashboardResponse{
		ID:        claims.ID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		CourseID:  claims.CourseID,
		Role:      claims.Role,
		Course:    claims.Course,
		Year:      claims.Year,
		Semester:  claims.Semester,
	})
}

// ClassRepDashboard godoc
// @Summary Class representative dashboard snapshot
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /classrep/dashboard [get]
func (h *UserHandler) ClassRepDashboard(c echo.Context) error {
	return h.Dashboard(c)
}

// AdminDashboard godoc
// @Summary Admin welcome message
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *UserHandler) AdminDashboard(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return respondError(c, errors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: "Welcome to the admin dashboard, " + claims.FirstName + "!",
	})
}

// Profile godoc
// @Summary Profile snapshot carried by the credential
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return respondError(c, errors.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, ProfileResponse{
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Course:    claims.Course,
		Year:      claims.Year,
		Semester:  claims.Semester,
		Role:      claims.Role,
	})
}

// UpdateProfile godoc
// @Summary Update the caller's profile and re-issue the credential
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} UpdateProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.profileService.Update(c.Request().Context(), claimsFrom(c), service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Course:    req.Course,
		Year:      req.Year,
		Semester:  req.Semester,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, UpdateProfileResponse{
		Message: "Profile updated successfully",
		Token:   token,
	})
}

// ResourceAdderCheck godoc
// @Summary Report what the caller may upload resources for
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ResourceAdderResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /resource-adder/check [get]
func (h *UserHandler) ResourceAdderCheck(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return respondError(c, errors.ErrUnauthorized)
	}
	resp := ResourceAdderResponse{Role: claims.Role}
	if claims.Role == model.RoleClassRep {
		resp.Course = claims.Course
		resp.Year = claims.Year
		resp.Semester = claims.Semester
	}
	return c.JSON(http.StatusOK, resp)
}

// ChangePassword godoc
// @Summary Change a student's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students/{studentId}/change-password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	studentID, err := idParam(c, "studentId")
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err = h.authService.ChangePassword(c.Request().Context(), claimsFrom(c), studentID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}
