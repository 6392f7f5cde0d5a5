// Package storage uploads files to a durable backend and returns their public URL.
package storage

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"eduhub/internal/config"
)

// Object is a file to be stored.
type Object struct {
	Folder      string
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores objects and returns a durable URL.
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// New builds the backend selected by cfg.Driver, bounded by timeout per call.
func New(ctx context.Context, cfg config.StorageConfig, timeout time.Duration) (Uploader, error) {
	var (
		up  Uploader
		err error
	)
	switch cfg.Driver {
	case "", config.StorageLocal:
		up, err = NewLocalStorage(cfg.LocalDir, cfg.PublicURL)
	case config.StorageB2:
		up, err = NewB2Storage(ctx, cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
	case config.StorageOSS:
		up, err = NewOSSStorage(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket, cfg.OSSPublicBase)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(up, timeout), nil
}

type timeoutUploader struct {
	next    Uploader
	timeout time.Duration
}

// WithTimeout bounds every Upload call on next by timeout.
func WithTimeout(next Uploader, timeout time.Duration) Uploader {
	if timeout <= 0 {
		return next
	}
	return &timeoutUploader{next: next, timeout: timeout}
}

func (t *timeoutUploader) Upload(ctx context.Context, obj Object) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Upload(ctx, obj)
}

// ObjectKey builds "<folder>/<base>_<short id><ext>" with spaces in the base
// name replaced by underscores and the extension lower-cased.
func ObjectKey(folder, name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Join(strings.Fields(base), "_")
	if base == "" || base == "." {
		base = "file"
	}
	key := fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext)
	if folder = strings.Trim(folder, "/"); folder != "" {
		key = folder + "/" + key
	}
	return key
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// ContentType prefers the declared type, then the extension, then sniffing.
func ContentType(obj Object) string {
	if obj.ContentType != "" && obj.ContentType != "application/octet-stream" {
		return obj.ContentType
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(obj.Name))); ct != "" {
		return ct
	}
	return http.DetectContentType(obj.Data)
}
