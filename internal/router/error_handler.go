package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rollbar/rollbar-go"
)

// NewErrorHandler wraps echo's default handler and, when report is set,
// sends every 5xx to Rollbar with the request attached.
func NewErrorHandler(e *echo.Echo, report bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if report && statusOf(err) >= http.StatusInternalServerError {
			cause := err
			if he, ok := err.(*echo.HTTPError); ok && he.Internal != nil {
				cause = he.Internal
			}
			rollbar.Error(c.Request(), cause)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}
