package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage stores objects in an Aliyun OSS bucket.
type OSSStorage struct {
	bucket     *oss.Bucket
	publicBase string
}

// NewOSSStorage opens bucketName. publicBase defaults to the bucket's virtual-host URL.
func NewOSSStorage(endpoint, accessKey, secretKey, bucketName, publicBase string) (*OSSStorage, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("oss storage requires endpoint, access key, secret key and bucket")
	}
	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	if publicBase == "" {
		host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		publicBase = fmt.Sprintf("https://%s.%s", bucketName, host)
	}
	return &OSSStorage{bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Upload puts the object inline-viewable and returns its public URL.
func (s *OSSStorage) Upload(ctx context.Context, obj Object) (string, error) {
	key := ObjectKey(obj.Folder, obj.Name)
	err := s.bucket.PutObject(key, bytes.NewReader(obj.Data),
		oss.WithContext(ctx),
		oss.ContentType(ContentType(obj)),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.publicBase + "/" + key, nil
}
