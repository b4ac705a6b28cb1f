// Package storage provides the object-store document source: the HTTP
// surface can process documents straight out of a MinIO bucket by object
// key instead of a multipart upload.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hsn0918/r3m/pkg/config"
)

// DocumentSource fetches document bytes for processing.
type DocumentSource interface {
	Exists(ctx context.Context, objectKey string) (bool, error)
	Fetch(ctx context.Context, objectKey string) ([]byte, error)
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	PresignedUploadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// MinIOSource implements DocumentSource over a single bucket.
type MinIOSource struct {
	client *minio.Client
	bucket string
}

var _ DocumentSource = (*MinIOSource)(nil)

// NewMinIOSource connects to MinIO and ensures the bucket exists.
func NewMinIOSource(cfg config.MinIOConfig) (*MinIOSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOSource{client: client, bucket: cfg.BucketName}, nil
}

// Exists reports whether the object is present in the bucket.
func (s *MinIOSource) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// Fetch downloads the full object.
func (s *MinIOSource) Fetch(ctx context.Context, objectKey string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// Upload stores an object in the bucket.
func (s *MinIOSource) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PresignedUploadURL returns a temporary direct-upload URL for clients.
func (s *MinIOSource) PresignedUploadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, expires)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return u.String(), nil
}
