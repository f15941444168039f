package reportstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store writes documents to S3-compatible object storage.
type S3Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewS3Store constructs the storage adapter.
func NewS3Store(endpoint, accessKey, secretKey, bucket string, useSSL bool, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "reportstore.s3"),
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Save uploads the document and returns its object URI.
func (s *S3Store) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}
	reader := bytes.NewReader(content)
	_, err := s.client.PutObject(ctx, s.bucket, name, reader, int64(len(content)), minio.PutObjectOptions{
		ContentType:      "text/markdown",
		DisableMultipart: len(content) < 5*1024*1024,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, name), nil
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
