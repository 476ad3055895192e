package storage

import (
	"context"
	"errors"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrNotConfigured is returned by the no-op storage used when no bucket is set.
var ErrNotConfigured = errors.New("object storage not configured")

// FileStorage defines the object storage operations used for plan exports.
type FileStorage interface {
	// PutObject uploads body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// disabledStorage fails every call; the server runs without exports when S3
// is not configured.
type disabledStorage struct{}

// NewDisabledStorage returns a FileStorage that reports ErrNotConfigured.
func NewDisabledStorage() FileStorage { return disabledStorage{} }

func (disabledStorage) PutObject(context.Context, string, string, []byte) error {
	return ErrNotConfigured
}

func (disabledStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (disabledStorage) DeleteObject(context.Context, string) error {
	return ErrNotConfigured
}
