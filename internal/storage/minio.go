package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage implements Provider using a MinIO (or any S3-compatible)
// backend. The destination bucket is chosen per upload, so no bucket is
// checked or created at startup.
type MinioStorage struct {
	client *minio.Client
}

// NewMinioStorage creates a MinIO client for the given endpoint. A non-empty
// region skips the bucket-location lookup before each request.
func NewMinioStorage(endpoint, accessKey, secretKey, region string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStorage{client: client}, nil
}

// Upload streams obj.Body into the bucket named by obj.Container under a
// fresh "<uuid>/<name>" key. The key is returned as the result ID, so two
// uploads of the same file never collide.
func (s *MinioStorage) Upload(ctx context.Context, obj Object) (*Result, error) {
	key := objectKey(obj.Name)

	_, err := s.client.PutObject(ctx, obj.Container, key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	return &Result{ID: key, Name: obj.Name}, nil
}

// objectKey builds a unique key that keeps the client's base name readable.
func objectKey(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	return uuid.NewString() + "/" + base
}
