package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"eduhub/internal/auth"
	"eduhub/internal/config"
	"eduhub/internal/errors"
	"eduhub/internal/handler"
	"eduhub/internal/model"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Course       *handler.CourseHandler
	Unit         *handler.UnitHandler
	Resource     *handler.ResourceHandler
	Feed         *handler.FeedHandler
	Notification *handler.NotificationHandler
	Superadmin   *handler.SuperadminHandler
	Message      *handler.MessageHandler
	Seed         *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, verifier *auth.Verifier, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadMB)))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.RequestTimeout,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.JSONSerializer = SonicSerializer{}
	e.HTTPErrorHandler = NewErrorHandler(e, cfg.RollbarToken != "")

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if cfg.Storage.LocalDisk() {
		e.Static("/uploads", cfg.Storage.LocalDir)
	}

	// Public routes
	limited := authRateLimiter(cfg.AuthRateLimit)
	e.POST("/register", h.Auth.Register, limited)
	e.POST("/login", h.Auth.Login, limited)
	e.POST("/forgot-password", h.Auth.ForgotPassword, limited)
	e.POST("/reset-password/:token", h.Auth.ResetPassword, limited)
	e.POST("/resend-reset-link", h.Auth.ResendResetLink, limited)
	e.GET("/courses", h.Course.List)
	e.POST("/support-messages", h.Message.SupportMessage)
	e.POST("/feedbacks", h.Message.Feedback)

	// Secured routes (require a valid, unrevoked credential)
	secured := e.Group("", jwtMiddleware(verifier))

	students := requireRoles(model.RoleStudent, model.RoleClassRep)
	editors := requireRoles(model.RoleClassRep, model.RoleAdmin, model.RoleSuperadmin)
	admins := requireRoles(model.RoleAdmin, model.RoleSuperadmin)

	// Session and profile
	secured.POST("/logout", h.Auth.Logout)
	secured.GET("/user/check", h.User.Check)
	secured.GET("/user/profile", h.User.Profile)
	secured.PUT("/user/profile", h.User.UpdateProfile)
	secured.GET("/resource-adder/check", h.User.ResourceAdderCheck)
	secured.PUT("/students/:studentId/change-password", h.User.ChangePassword)
	secured.GET("/dashboard", h.User.Dashboard, students)
	secured.GET("/classrep/dashboard", h.User.ClassRepDashboard, requireRoles(model.RoleClassRep))
	secured.GET("/admin/dashboard", h.User.AdminDashboard, requireRoles(model.RoleAdmin))

	// Courses
	secured.POST("/courses", h.Course.Create, admins)
	secured.PUT("/courses/:id", h.Course.Rename, admins)
	secured.DELETE("/courses/:id", h.Course.Delete, admins)

	// Units
	secured.GET("/units", h.Unit.ListAll)
	secured.GET("/units/details/:unitId", h.Unit.Details)
	secured.GET("/units/:courseId", h.Unit.ListByCourse)
	secured.POST("/units", h.Unit.Create, admins)
	secured.PUT("/units/:id", h.Unit.Update, admins)
	secured.DELETE("/units/:id", h.Unit.Delete, admins)

	// Resources
	secured.POST("/resources", h.Resource.Create, editors)
	secured.DELETE("/resources/:resourceId", h.Resource.Delete, admins)

	// Feeds
	secured.POST("/feeds/react", h.Feed.React, students)
	secured.GET("/feeds/:courseId", h.Feed.List)
	secured.POST("/feeds", h.Feed.Create, editors)
	secured.PUT("/feeds/:feedId", h.Feed.Update, editors)
	secured.DELETE("/feeds/:feedId", h.Feed.Delete, editors)

	// Notifications
	secured.GET("/notifications/:courseId", h.Notification.List)
	secured.POST("/notifications", h.Notification.Create, editors)
	secured.DELETE("/notifications/:id", h.Notification.Delete, editors)

	// Superadmin
	super := secured.Group("/superadmin", requireRoles(model.RoleSuperadmin))
	super.GET("/dashboard", h.Superadmin.Dashboard)
	super.GET("/resources", h.Superadmin.Resources)
	super.POST("/assign-class-rep", h.Superadmin.AssignClassRep)
	super.GET("/classreps", h.Superadmin.ClassReps)
	super.GET("/students", h.Superadmin.Students)
	super.POST("/admins", h.Superadmin.CreateAdmin)
	super.GET("/feedback", h.Superadmin.Feedback)
	super.POST("/catalogue", h.Seed.SeedCatalogue)
	super.DELETE("/:entity/:id", h.Superadmin.DeleteEntity)
}

// jwtMiddleware verifies bearer credentials through verifier and stores the
// claims under handler.ClaimsContextKey.
func jwtMiddleware(verifier *auth.Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims := verifier.Authenticate(c.Request().Context(), token)
			if claims == nil {
				return nil, errors.ErrUnauthorized
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "invalid or expired token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// requireRoles rejects callers whose credential role is not listed.
func requireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(handler.ClaimsContextKey).(*auth.Claims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrUnauthorized.Error(),
					Code:  "UNAUTHORIZED",
				})
			}
			if !claims.Role.In(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: errors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

func bodyLimit(mb int) string {
	if mb <= 0 {
		mb = 20
	}
	return strconv.Itoa(mb) + "M"
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
