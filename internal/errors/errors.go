package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidAction is returned when a reaction is neither like nor dislike.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidResourceType is returned when a resource category is not Notes, Papers or Tasks.
	ErrInvalidResourceType = errors.New("invalid resource type")
	// ErrInvalidEntity is returned for an unknown superadmin delete target.
	ErrInvalidEntity = errors.New("invalid entity type")
	// ErrInvalidResetToken is returned when a reset token is unknown or expired.
	ErrInvalidResetToken = errors.New("invalid or expired token")
	// ErrIncorrectPassword is returned when the current password does not match on change.
	ErrIncorrectPassword = errors.New("current password is incorrect")
	// ErrEmailTaken is returned when registering an email that is already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrMissingFile is returned when an upload request has no file part.
	ErrMissingFile = errors.New("no file uploaded")

	// ErrUnauthorized is returned when no valid credential accompanies the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when the password check fails.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when the caller's role may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrUnknownRole is returned when a credential carries a role with no profile variant.
	ErrUnknownRole = errors.New("unauthorized role")

	// ErrNotFound is the generic missing-row error.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrCourseNotFound is returned when a course name or id does not resolve.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUnitNotFound is returned when a unit does not exist.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrFeedNotFound is returned when a feed post does not exist.
	ErrFeedNotFound = errors.New("feed not found")
	// ErrResourceNotFound is returned when a resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNotificationNotFound is returned when a notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrResetTokenNotFound is returned by resend when no account holds the token.
	ErrResetTokenNotFound = errors.New("invalid or expired token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

type mapping struct {
	err    error
	status int
	code   string
}

// Order matters: specific errors first, generic sentinels last.
var mappings = []mapping{
	{ErrInvalidAction, http.StatusBadRequest, "INVALID_ACTION"},
	{ErrInvalidResourceType, http.StatusBadRequest, "INVALID_RESOURCE_TYPE"},
	{ErrInvalidEntity, http.StatusBadRequest, "INVALID_ENTITY"},
	{ErrInvalidResetToken, http.StatusBadRequest, "INVALID_RESET_TOKEN"},
	{ErrIncorrectPassword, http.StatusBadRequest, "INCORRECT_PASSWORD"},
	{ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
	{ErrMissingFile, http.StatusBadRequest, "MISSING_FILE"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrUnknownRole, http.StatusForbidden, "UNAUTHORIZED_ROLE"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrCourseNotFound, http.StatusNotFound, "COURSE_NOT_FOUND"},
	{ErrUnitNotFound, http.StatusNotFound, "UNIT_NOT_FOUND"},
	{ErrFeedNotFound, http.StatusNotFound, "FEED_NOT_FOUND"},
	{ErrResourceNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
	{ErrNotificationNotFound, http.StatusNotFound, "NOTIFICATION_NOT_FOUND"},
	{ErrResetTokenNotFound, http.StatusNotFound, "RESET_TOKEN_NOT_FOUND"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
}

// MapErrorToHTTP maps domain errors, including wrapped ones, to HTTP errors.
// Anything unrecognised becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// IsInternal reports whether err maps to a 500.
func IsInternal(err error) bool {
	return MapErrorToHTTP(err).StatusCode == http.StatusInternalServerError
}
