package gcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ObjectStore wraps the GCS client with the small surface the rest of the
// service needs: read and write objects by bucket+path, and issue signed
// write URLs for browser uploads.
type ObjectStore struct {
	client *storage.Client
}

// NewObjectStore creates an ObjectStore backed by a real GCS client.
func NewObjectStore(ctx context.Context, opts ...option.ClientOption) (*ObjectStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &ObjectStore{client: client}, nil
}

// Download reads the full content of an object.
func (s *ObjectStore) Download(ctx context.Context, bucket, path string) ([]byte, error) {
	reader, err := s.client.Bucket(bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, path, err)
	}
	return data, nil
}

// Upload writes content to an object, replacing any existing content.
func (s *ObjectStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	writer := s.client.Bucket(bucket).Object(path).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to gs://%s/%s: %w", bucket, path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize write to gs://%s/%s: %w", bucket, path, err)
	}
	return nil
}

// SignedWriteURL issues a V4 signed URL the client can PUT the file to.
func (s *ObjectStore) SignedWriteURL(bucket, path, contentType string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(bucket).SignedURL(path, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      "PUT",
		Expires:     time.Now().Add(ttl),
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for gs://%s/%s: %w", bucket, path, err)
	}
	return url, nil
}

func (s *ObjectStore) Close() error {
	return s.client.Close()
}
