package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DB_DRIVER", "DATABASE_DSN", "STORAGE_DRIVER", "RESET_TOKEN_TTL", "SUPER_USER", "SUPER_PASSWORD",
		"FRONTEND_URL_DEV", "FRONTEND_URL_PROD", "FRONTEND_URL_STAGING", "MAIL_WORKERS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=eduhub")
	assert.Equal(t, 5*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Storage.LocalDisk())
	assert.False(t, cfg.SuperadminEnabled())
	assert.Equal(t, 4, cfg.Mail.Workers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("STORAGE_DRIVER", "B2")
	t.Setenv("RESET_TOKEN_TTL", "10m")
	t.Setenv("MAIL_WORKERS", "not-a-number")
	t.Setenv("SUPER_USER", "root@eduhub.test")
	t.Setenv("SUPER_PASSWORD", "secret")
	t.Setenv("FRONTEND_URL_DEV", "http://localhost:3000")
	t.Setenv("FRONTEND_URL_PROD", " https://eduhub.example ")
	t.Setenv("FRONTEND_URL_STAGING", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "tcp(localhost:3306)")
	assert.Equal(t, StorageB2, cfg.Storage.Driver)
	assert.False(t, cfg.Storage.LocalDisk())
	assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 4, cfg.Mail.Workers)
	assert.True(t, cfg.SuperadminEnabled())
	assert.Equal(t, []string{"http://localhost:3000", "https://eduhub.example"}, cfg.AllowedOrigins)
}
