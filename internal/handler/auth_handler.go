package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/model"
	"eduhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a student registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Course    string `json:"course" validate:"required"`
	Year      int    `json:"year" validate:"required,min=1"`
	Semester  int    `json:"semester" validate:"required,min=1"`
	Gender    string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the new password for a reset token.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// ResendResetLinkRequest carries a previously issued reset token.
type ResendResetLinkRequest struct {
	Token string `json:"token" validate:"required"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string         `json:"message"`
	User    *model.Student `json:"user"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message    string `json:"message"`
	Token      string `json:"token"`
	RedirectTo string `json:"redirectTo"`
}

// Register godoc
// @Summary Register a new student
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	student, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Course:    req.Course,
		Year:      req.Year,
		Semester:  req.Semester,
		Gender:    req.Gender,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful",
		User:    student,
	})
}

// Login godoc
// @Summary Sign in as superadmin, student, class rep or admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Message:    "Login successful",
		Token:      result.Token,
		RedirectTo: result.RedirectTo,
	})
}

// Logout godoc
// @Summary Revoke the current credential
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), claimsFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// ForgotPassword godoc
// @Summary Email a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password reset link sent"})
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successful"})
}

// ResendResetLink godoc
// @Summary Issue a fresh reset link for a previously issued token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendResetLinkRequest true "Previous token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /resend-reset-link [post]
func (h *AuthHandler) ResendResetLink(c echo.Context) error {
	var req ResendResetLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResendResetLink(c.Request().Context(), req.Token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "A new reset link has been sent to your email."})
}
