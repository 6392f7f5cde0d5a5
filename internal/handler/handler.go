package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"eduhub/internal/auth"
	"eduhub/internal/errors"
	"eduhub/internal/service"
)

// ClaimsContextKey is where the JWT middleware stores the verified *auth.Claims.
const ClaimsContextKey = "user"

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts a service error into an echo HTTP error. Internal
// failures are logged and replaced with a generic message.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: msg,
		Code:  "INVALID_REQUEST",
	})
}

func validationError(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return validationError(err)
	}
	return nil
}

// claimsFrom returns the caller's verified claims, or nil for anonymous requests.
func claimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims
}

func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

// optionalInt reads an integer query parameter. Absent or empty yields nil.
func optionalInt(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &v, nil
}

// formFile reads the named multipart file. A missing part yields nil.
func formFile(c echo.Context, field string) (*service.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, badRequest("invalid multipart form")
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

// formInt reads a required integer form field.
func formInt(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return 0, badRequest(name + " is required")
	}
	return v, nil
}
