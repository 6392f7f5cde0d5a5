package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "eduhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/rollbar/rollbar-go"

	"eduhub/internal/auth"
	"eduhub/internal/cache"
	"eduhub/internal/config"
	"eduhub/internal/db"
	"eduhub/internal/handler"
	"eduhub/internal/mail"
	"eduhub/internal/model"
	"eduhub/internal/repository"
	"eduhub/internal/router"
	"eduhub/internal/service"
	"eduhub/internal/storage"
)

// @title EduHub API
// @version 1.0
// @description Course, unit, resource, feed and account management for the EduHub learning platform.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	if cfg.RollbarToken != "" {
		rollbar.SetToken(cfg.RollbarToken)
		rollbar.SetEnvironment(cfg.AppEnv)
		defer rollbar.Close()
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.LogLevel(cfg.AppEnv))
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	tables := []interface{}{
		&model.Course{},
		&model.Unit{},
		&model.Resource{},
		&model.Student{},
		&model.ClassRep{},
		&model.Admin{},
		&model.Feed{},
		&model.FeedLike{},
		&model.FeedDislike{},
		&model.Notification{},
		&model.SupportMessage{},
		&model.Feedback{},
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for i := len(tables) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(tables[i]); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(tables...); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unavailable, revocation and caching disabled until it returns: %v", err)
	}

	uploader, err := storage.New(context.Background(), cfg.Storage, cfg.UploadTimeout)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	var sender mail.Sender = mail.NewLogSender(log.Default())
	if cfg.Mail.Driver == "sendgrid" {
		sender = mail.NewSendGridSender(cfg.Mail.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.From)
	}
	mailer := mail.NewDispatcher(sender, cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.Mail.Timeout, log.Default())
	mailer.Start()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	unitRepo := repository.NewUnitRepository(gormDB)
	resourceRepo := repository.NewResourceRepository(gormDB)
	feedRepo := repository.NewFeedRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	messageRepo := repository.NewMessageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	verifier := auth.NewVerifier(jwtService, tokenStore)

	// Initialize services
	authService := service.NewAuthService(accountRepo, courseRepo, jwtService, tokenStore, mailer, service.AuthConfig{
		SuperUser:     cfg.SuperUser,
		SuperPassword: cfg.SuperPassword,
		ResetLinkBase: cfg.ResetLinkBase,
		ResetTokenTTL: cfg.ResetTokenTTL,
	})
	profileService := service.NewProfileService(accountRepo, courseRepo, jwtService, tokenStore)
	courseService := service.NewCourseService(courseRepo, cacheClient)
	unitService := service.NewUnitService(unitRepo, courseRepo, resourceRepo)
	resourceService := service.NewResourceService(resourceRepo, unitRepo, uploader)
	feedService := service.NewFeedService(feedRepo, uploader, cfg.FeedImageMaxPx)
	notificationService := service.NewNotificationService(notificationRepo)
	superadminService := service.NewSuperadminService(accountRepo, resourceRepo, messageRepo, mailer)
	messageService := service.NewMessageService(messageRepo)
	catalogueService := service.NewCatalogueService(courseRepo, unitRepo, courseService)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, verifier, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(profileService, authService),
		Course:       handler.NewCourseHandler(courseService),
		Unit:         handler.NewUnitHandler(unitService),
		Resource:     handler.NewResourceHandler(resourceService),
		Feed:         handler.NewFeedHandler(feedService),
		Notification: handler.NewNotificationHandler(notificationService),
		Superadmin:   handler.NewSuperadminHandler(superadminService, resourceService),
		Message:      handler.NewMessageHandler(messageService),
		Seed:         handler.NewSeedHandler(catalogueService),
	})

	if !cfg.SuperadminEnabled() {
		log.Println("SUPER_USER/SUPER_PASSWORD not set, superadmin login disabled")
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := mailer.Close(ctx); err != nil {
		log.Printf("mail drain: %v", err)
	}
	stats := mailer.Stats()
	log.Printf("mail: sent=%d failed=%d dropped=%d", stats.Sent, stats.Failed, stats.Dropped)
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	// SwaggerHost may already include scheme (http:// or https://)
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
