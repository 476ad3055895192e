package storage_test

import (
	"context"
	"errors"
	"testing"

	"alcyxob/marathon-trainer/internal/storage"
)

func TestDisabledStorageReportsNotConfigured(t *testing.T) {
	s := storage.NewDisabledStorage()
	ctx := context.Background()

	if err := s.PutObject(ctx, "k", "application/json", []byte("{}")); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("PutObject err = %v", err)
	}
	if _, err := s.GeneratePresignedDownloadURL(ctx, "k", 0); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("GeneratePresignedDownloadURL err = %v", err)
	}
	if err := s.DeleteObject(ctx, "k"); !errors.Is(err, storage.ErrNotConfigured) {
		t.Fatalf("DeleteObject err = %v", err)
	}
}
