package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	storage_go "github.com/supabase-community/storage-go"

	"docshare/internal/domain"
)

// SupabaseStore implements ObjectStore against Supabase Storage's REST
// API, the same service the frontend's public URLs point at.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
	logger *slog.Logger
}

// NewSupabaseStore creates a store for one bucket. supabaseURL is the
// project base URL; the service key must have storage write access.
func NewSupabaseStore(supabaseURL, serviceKey, bucket string, logger *slog.Logger) *SupabaseStore {
	client := storage_go.NewClient(supabaseURL+"/storage/v1", serviceKey, nil)

	logger.Info("object store initialized", "bucket", bucket)

	return &SupabaseStore{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Upload stores the object and returns its path and public URL. Errors
// are wrapped as upstream failures; callers never see storage detail.
func (s *SupabaseStore) Upload(ctx context.Context, objectPath, contentType string, data io.Reader) (*UploadResult, error) {
	_, err := s.client.UploadFile(s.bucket, objectPath, data, storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		s.logger.Error("object upload failed", "path", objectPath, "error", err)
		return nil, fmt.Errorf("upload object %s: %w", objectPath, domain.ErrUpstream)
	}

	public := s.client.GetPublicUrl(s.bucket, objectPath)

	return &UploadResult{
		Path:      objectPath,
		PublicURL: public.SignedURL,
	}, nil
}

// Remove deletes the object. Callers treat failures as best-effort and
// only log them.
func (s *SupabaseStore) Remove(ctx context.Context, objectPath string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("remove object %s: %w", objectPath, domain.ErrUpstream)
	}
	return nil
}
