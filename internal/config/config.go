package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	AppEnv      string
	DBDriver    string
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	SwaggerHost string

	JWTSecret     string
	TokenTTL      time.Duration
	SuperUser     string
	SuperPassword string

	AllowedOrigins []string
	ResetLinkBase  string
	ResetTokenTTL  time.Duration
	AuthRateLimit  float64

	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	MaxUploadMB    int
	FeedImageMaxPx int

	Storage StorageConfig
	Mail    MailConfig

	RollbarToken string
}

// Storage backends.
const (
	StorageLocal = "local"
	StorageB2    = "b2"
	StorageOSS   = "oss"
)

// StorageConfig selects and configures the file storage backend.
type StorageConfig struct {
	Driver    string
	LocalDir  string
	PublicURL string

	B2AccountID string
	B2AppKey    string
	B2Bucket    string

	OSSEndpoint   string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSBucket     string
	OSSPublicBase string
}

// MailConfig configures outbound mail delivery.
type MailConfig struct {
	Driver         string
	SendGridAPIKey string
	From           string
	FromName       string
	Workers        int
	QueueSize      int
	Timeout        time.Duration
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", "postgres"))

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		DBDriver:    driver,
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN(driver)),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		TokenTTL:      getEnvDuration("TOKEN_TTL", 30*24*time.Hour),
		SuperUser:     os.Getenv("SUPER_USER"),
		SuperPassword: os.Getenv("SUPER_PASSWORD"),

		AllowedOrigins: originsFromEnv(),
		ResetLinkBase:  getEnv("RESET_LINK_BASE", "http://localhost:5173/reset-password/"),
		ResetTokenTTL:  getEnvDuration("RESET_TOKEN_TTL", 5*time.Minute),
		AuthRateLimit:  float64(getEnvInt("AUTH_RATE_LIMIT", 10)),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		UploadTimeout:  getEnvDuration("UPLOAD_TIMEOUT", 60*time.Second),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 20),
		FeedImageMaxPx: getEnvInt("FEED_IMAGE_MAX_PX", 1600),

		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageLocal)),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "uploads"),
			PublicURL:     getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/uploads"),
			B2AccountID:   os.Getenv("B2_ACCOUNT_ID"),
			B2AppKey:      os.Getenv("B2_APP_KEY"),
			B2Bucket:      os.Getenv("B2_BUCKET"),
			OSSEndpoint:   os.Getenv("OSS_ENDPOINT"),
			OSSAccessKey:  os.Getenv("OSS_ACCESS_KEY"),
			OSSSecretKey:  os.Getenv("OSS_SECRET_KEY"),
			OSSBucket:     os.Getenv("OSS_BUCKET"),
			OSSPublicBase: os.Getenv("OSS_PUBLIC_BASE"),
		},

		Mail: MailConfig{
			Driver:         strings.ToLower(getEnv("MAIL_DRIVER", "log")),
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			From:           getEnv("MAIL_FROM", "no-reply@eduhub.local"),
			FromName:       getEnv("MAIL_FROM_NAME", "EduHub"),
			Workers:        getEnvInt("MAIL_WORKERS", 4),
			QueueSize:      getEnvInt("MAIL_QUEUE_SIZE", 100),
			Timeout:        getEnvDuration("MAIL_TIMEOUT", 15*time.Second),
		},

		RollbarToken: os.Getenv("ROLLBAR_TOKEN"),
	}
}

// LocalDisk reports whether uploads are written to a local directory.
func (s StorageConfig) LocalDisk() bool {
	return s.Driver == "" || s.Driver == StorageLocal
}

// SuperadminEnabled reports whether the fixed superadmin pair is configured.
func (c *Config) SuperadminEnabled() bool {
	return c.SuperUser != "" && c.SuperPassword != ""
}

func defaultDSN(driver string) string {
	if driver == "mysql" {
		return "user:password@tcp(localhost:3306)/eduhub?charset=utf8mb4&parseTime=True&loc=Local"
	}
	return "host=localhost user=postgres password=postgres dbname=eduhub port=5432 sslmode=disable TimeZone=UTC"
}

func originsFromEnv() []string {
	var origins []string
	for _, key := range []string{"FRONTEND_URL_DEV", "FRONTEND_URL_PROD", "FRONTEND_URL_STAGING"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			origins = append(origins, v)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
