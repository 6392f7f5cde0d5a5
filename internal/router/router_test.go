package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduhub/internal/auth"
	"eduhub/internal/model"
)

type revokedSet map[string]bool

func (s revokedSet) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	s[id] = true
	return nil
}

func (s revokedSet) IsRevoked(ctx context.Context, id string) bool {
	return s[id]
}

func newTestServer(t *testing.T) (*echo.Echo, *auth.JWTService, revokedSet) {
	t.Helper()
	jwtSvc := auth.NewJWTService("router-secret", time.Hour)
	revoked := revokedSet{}
	verifier := auth.NewVerifier(jwtSvc, revoked)

	e := echo.New()
	e.JSONSerializer = SonicSerializer{}
	e.HTTPErrorHandler = NewErrorHandler(e, false)
	e.Validator = &CustomValidator{validator: validator.New()}

	secured := e.Group("", jwtMiddleware(verifier))
	secured.GET("/admin-only", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, requireRoles(model.RoleAdmin, model.RoleSuperadmin))
	return e, jwtSvc, revoked
}

func TestSecuredRoutes(t *testing.T) {
	e, jwtSvc, revoked := newTestServer(t)

	adminToken, _, err := jwtSvc.Issue(auth.Identity{ID: 1, Role: model.RoleAdmin})
	require.NoError(t, err)
	studentToken, _, err := jwtSvc.Issue(auth.Identity{ID: 2, Role: model.RoleStudent})
	require.NoError(t, err)
	loggedOut, loggedOutClaims, err := jwtSvc.Issue(auth.Identity{ID: 3, Role: model.RoleSuperadmin})
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), loggedOutClaims.TokenID(), time.Hour))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no credential", "", http.StatusUnauthorized},
		{"not a bearer credential", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"revoked token", "Bearer " + loggedOut, http.StatusUnauthorized},
		{"wrong role", "Bearer " + studentToken, http.StatusForbidden},
		{"allowed role", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"code"`)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	assert.Equal(t, "20M", bodyLimit(0))
	assert.Equal(t, "5M", bodyLimit(5))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(echo.NewHTTPError(http.StatusNotFound)))
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
