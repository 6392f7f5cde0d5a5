package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
	"eduhub/internal/service"
)

// FeedHandler handles course feed endpoints.
type FeedHandler struct {
	feedService service.FeedService
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feedService service.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

// ReactRequest represents a like or dislike. StudentID is optional and must
// match the caller when present.
type ReactRequest struct {
	FeedID    uint           `json:"feedId"`
	Action    model.Reaction `json:"action"`
	StudentID uint           `json:"studentId"`
}

// ReactResponse carries the post's counters after the reaction.
type ReactResponse struct {
	Success  bool `json:"success"`
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
}

// UpdateFeedRequest replaces a post's description.
type UpdateFeedRequest struct {
	Description string `json:"description" validate:"required"`
}

// FeedCreatedResponse is returned after a post is created.
type FeedCreatedResponse struct {
	Message string      `json:"message"`
	FileURL string      `json:"fileUrl"`
	Feed    *model.Feed `json:"feed"`
}

// List godoc
// @Summary List a course's feed posts
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Param year query int false "Year"
// @Param semester query int false "Semester"
// @Success 200 {array} model.Feed
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /feeds/{courseId} [get]
func (h *FeedHandler) List(c echo.Context) error {
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
	filter := repository.FeedFilter{CourseID: courseID, Year: year, Semester: semester}
	// Reaction flags are per student; an admin id would alias a student's.
	if claims := claimsFrom(c); claims != nil && claims.Role.In(model.RoleStudent, model.RoleClassRep) {
		filter.StudentID = claims.ID
	}

	feeds, err := h.feedService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, feeds)
}

// Create godoc
// @Summary Post an image to a course feed
// @Tags feeds
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Param courseId formData int true "Course ID"
// @Param year formData int true "Year"
// @Param semester formData int true "Semester"
// @Param description formData string true "Description"
// @Success 201 {object} FeedCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /feeds [post]
func (h *FeedHandler) Create(c echo.Context) error {
	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	if file == nil {
		return respondError(c, errors.ErrMissingFile)
	}
	courseID, err := strconv.ParseUint(c.FormValue("courseId"), 10, 64)
	if err != nil {
		return badRequest("courseId is required")
	}
	year, err := formInt(c, "year")
	if err != nil {
		return err
	}
	semester, err := formInt(c, "semester")
	if err != nil {
		return err
	}
	description := c.FormValue("description")
	if description == "" {
		return badRequest("description is required")
	}

	feed, err := h.feedService.Create(c.Request().Context(), service.CreateFeedInput{
		CourseID:    uint(courseID),
		Year:        year,
		Semester:    semester,
		Description: description,
		Image:       file,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, FeedCreatedResponse{
		Message: "feed added successfully!",
		FileURL: feed.ImagePath,
		Feed:    feed,
	})
}

// Update godoc
// @Summary Edit a post's description
// @Tags feeds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedId path int true "Feed ID"
// @Param request body UpdateFeedRequest true "Description"
// @Success 200 {object} model.Feed
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /feeds/{feedId} [put]
func (h *FeedHandler) Update(c echo.Context) error {
	id, err := idParam(c, "feedId")
	if err != nil {
		return err
	}
	var req UpdateFeedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	feed, err := h.feedService.UpdateDescription(c.Request().Context(), id, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, feed)
}

// Delete godoc
// @Summary Delete a post and its reactions
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param feedId path int true "Feed ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /feeds/{feedId} [delete]
func (h *FeedHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "feedId")
	if err != nil {
		return err
	}
	if err := h.feedService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Feed deleted successfully"})
}

// React godoc
// @Summary Like or dislike a post
// @Description Reacting with the kind already held removes it. Reacting with the
// @Description opposite kind while one is held changes nothing.
// @Tags feeds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReactRequest true "Reaction"
// @Success 200 {object} ReactResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /feeds/react [post]
func (h *FeedHandler) React(c echo.Context) error {
	claims := claimsFrom(c)
	if claims == nil {
		return respondError(c, errors.ErrUnauthorized)
	}
	var req ReactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.FeedID == 0 {
		return badRequest("feedId is required")
	}
	if req.StudentID != 0 && req.StudentID != claims.ID {
		return respondError(c, errors.ErrForbidden)
	}

	counters, err := h.feedService.React(c.Request().Context(), req.FeedID, claims.ID, req.Action)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReactResponse{
		Success:  true,
		Likes:    counters.Likes,
		Dislikes: counters.Dislikes,
	})
}
