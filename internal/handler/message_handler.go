package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduhub/internal/model"
	"eduhub/internal/service"
)

// MessageHandler accepts support requests and feedback.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SupportMessageRequest represents a contact form submission.
type SupportMessageRequest struct {
	UserID  *uint  `json:"userId"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// FeedbackRequest represents a rated comment.
type FeedbackRequest struct {
	UserID   *uint  `json:"userId"`
	Email    string `json:"email" validate:"omitempty,email"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback" validate:"required"`
}

// SupportMessage godoc
// @Summary Send a message to support
// @Tags support
// @Accept json
// @Produce json
// @Param request body SupportMessageRequest true "Message"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /support-messages [post]
func (h *MessageHandler) SupportMessage(c echo.Context) error {
	var req SupportMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg := &model.SupportMessage{UserID: req.UserID, Email: req.Email, Message: req.Message}
	if err := h.messageService.SubmitSupport(c.Request().Context(), msg); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{
		Message: "Your message has been sent. Our support team will contact you shortly.",
	})
}

// Feedback godoc
// @Summary Rate the platform
// @Tags support
// @Accept json
// @Produce json
// @Param request body FeedbackRequest true "Feedback"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /feedbacks [post]
func (h *MessageHandler) Feedback(c echo.Context) error {
	var req FeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	fb := &model.Feedback{UserID: req.UserID, Email: req.Email, Rating: req.Rating, Comment: req.Feedback}
	if err := h.messageService.SubmitFeedback(c.Request().Context(), fb); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: "Thank you for your feedback!"})
}
