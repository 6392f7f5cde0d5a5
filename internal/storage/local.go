package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects under a directory that the HTTP server exposes.
type LocalStorage struct {
	dir       string
	publicURL string
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload writes the object and returns its public URL.
func (s *LocalStorage) Upload(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := ObjectKey(obj.Folder, obj.Name)
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(path, obj.Data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.publicURL + "/" + key, nil
}
