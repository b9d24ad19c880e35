package client

import (
	"context"

	"github.com/ukydev/municipal-assets/internal/models"
)

// DirectoryClient reads the user and supplier directories.
type DirectoryClient struct {
	base
}

// NewDirectoryClient creates a client for the directory at baseURL.
func NewDirectoryClient(baseURL string, doer Doer) *DirectoryClient {
	return &DirectoryClient{base: newBase("directory", baseURL, doer)}
}

// ListUsers returns every user, active or not.
func (c *DirectoryClient) ListUsers(ctx context.Context, token string) ([]models.DirectoryUser, error) {
	var users []models.DirectoryUser
	if err := c.getList(ctx, token, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListSuppliers returns every supplier, active or not.
func (c *DirectoryClient) ListSuppliers(ctx context.Context, token string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := c.getList(ctx, token, "/suppliers", &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}
