package service

import (
	"context"

	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/storage"
)

// UploadService stores attachments under the policy of their kind.
type UploadService struct {
	store   ObjectStore
	maxSize int64
}

// NewUploadService creates an uploader. maxSize lowers the ceiling of every
// policy when positive; it never raises it.
func NewUploadService(store ObjectStore, maxSize int64) *UploadService {
	return &UploadService{store: store, maxSize: maxSize}
}

// Upload stores file in folder. kind selects the policy, "document" when
// empty.
func (s *UploadService) Upload(ctx context.Context, file storage.File, folder, kind string) (storage.Object, error) {
	policy, ok := storage.PolicyFor(kind)
	if !ok {
		verr := apperr.NewValidationError()
		verr.Reject("kind", "must be one of document, image")
		return storage.Object{}, verr
	}
	return s.store.Upload(ctx, file, folder, policy.WithMaxSize(s.maxSize))
}

// Remove deletes the object stored at path.
func (s *UploadService) Remove(ctx context.Context, path string) error {
	return s.store.Remove(ctx, path)
}
