package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2Storage stores objects in a Backblaze B2 bucket.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
}

// NewB2Storage authorizes against B2 and opens bucketName.
func NewB2Storage(ctx context.Context, accountID, appKey, bucketName string) (*B2Storage, error) {
	if accountID == "" || appKey == "" || bucketName == "" {
		return nil, fmt.Errorf("b2 storage requires account id, app key and bucket")
	}
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("get bucket: %w", err)
	}
	return &B2Storage{client: client, bucket: bucket}, nil
}

// Upload streams the object to the bucket and returns its download URL.
func (s *B2Storage) Upload(ctx context.Context, obj Object) (string, error) {
	key := ObjectKey(obj.Folder, obj.Name)
	w := s.bucket.Object(key).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{
		ContentType: ContentType(obj),
	}))
	if _, err := io.Copy(w, bytes.NewReader(obj.Data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}
	return fmt.Sprintf("%s/file/%s/%s", s.bucket.BaseURL(), s.bucket.Name(), key), nil
}
