package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid action", ErrInvalidAction, http.StatusBadRequest, "INVALID_ACTION"},
		{"wrapped validation", fmt.Errorf("course %q: %w", "x", ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown role", ErrUnknownRole, http.StatusForbidden, "UNAUTHORIZED_ROLE"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"missing feed", fmt.Errorf("react: %w", ErrFeedNotFound), http.StatusNotFound, "FEED_NOT_FOUND"},
		{"resend with unknown token", ErrResetTokenNotFound, http.StatusNotFound, "RESET_TOKEN_NOT_FOUND"},
		{"reset with unknown token", ErrInvalidResetToken, http.StatusBadRequest, "INVALID_RESET_TOKEN"},
		{"unrecognised", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.status == http.StatusInternalServerError, IsInternal(tt.err))
		})
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	resp := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:5432: refused")).ToErrorResponse()
	assert.Equal(t, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}, resp)
}
