package service

import (
	"context"

	"github.com/ukydev/municipal-assets/internal/models"
)

// DirectoryService lists the people and suppliers that can be assigned to a
// maintenance or a receipt.
type DirectoryService struct {
	backend DirectoryBackend
}

// NewDirectoryService creates a directory reader.
func NewDirectoryService(backend DirectoryBackend) *DirectoryService {
	return &DirectoryService{backend: backend}
}

// ActiveUsers returns the users flagged as active.
func (s *DirectoryService) ActiveUsers(ctx context.Context, sess models.SessionContext) ([]models.DirectoryUser, error) {
	users, err := s.backend.ListUsers(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	active := make([]models.DirectoryUser, 0, len(users))
	for _, u := range users {
		if u.IsActive() {
			active = append(active, u)
		}
	}
	return active, nil
}

// ActiveSuppliers returns the suppliers flagged as active.
func (s *DirectoryService) ActiveSuppliers(ctx context.Context, sess models.SessionContext) ([]models.Supplier, error) {
	suppliers, err := s.backend.ListSuppliers(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	active := make([]models.Supplier, 0, len(suppliers))
	for _, sup := range suppliers {
		if sup.IsActive() {
			active = append(active, sup)
		}
	}
	return active, nil
}
