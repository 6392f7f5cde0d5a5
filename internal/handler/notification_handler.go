package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/model"
	"eduhub/internal/service"
)

// NotificationHandler handles course announcements.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationRequest represents a new announcement.
type NotificationRequest struct {
	CourseID     uint   `json:"courseId" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1"`
	Semester     int    `json:"semester" validate:"required,min=1"`
	Notification string `json:"notification" validate:"required"`
}

// NotificationsResponse wraps a list of announcements.
type NotificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
}

// NotificationResponse wraps a single announcement.
type NotificationResponse struct {
	Notification *model.Notification `json:"notification"`
}

// List godoc
// @Summary List a course's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param year query int false "Year"
// @Param semester query int false "Semester"
// @Success 200 {object} NotificationsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notifications/{courseId} [get]
func (h *NotificationHandler) List(c echo.Context) error {
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
	list, err := h.notificationService.List(c.Request().Context(), courseID, year, semester)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NotificationsResponse{Notifications: list})
}

// Create godoc
// @Summary Post a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NotificationRequest true "Notification"
// @Success 201 {object} NotificationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notifications [post]
func (h *NotificationHandler) Create(c echo.Context) error {
	var req NotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	n := &model.Notification{
		CourseID: req.CourseID,
		Year:     req.Year,
		Semester: req.Semester,
		Message:  req.Notification,
	}
	if err := h.notificationService.Create(c.Request().Context(), n); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, NotificationResponse{Notification: n})
}

// Delete godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted successfully"})
}
