package handlers

import (
	"context"
	"net/http"

	"github.com/ukydev/municipal-assets/internal/models"
)

// DirectoryService lists assignable people and suppliers.
type DirectoryService interface {
	ActiveUsers(ctx context.Context, sess models.SessionContext) ([]models.DirectoryUser, error)
	ActiveSuppliers(ctx context.Context, sess models.SessionContext) ([]models.Supplier, error)
}

// DirectoryHandler serves /api/directory.
type DirectoryHandler struct {
	service DirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(service DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Users handles GET /api/directory/users
func (h *DirectoryHandler) Users(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	users, err := h.service.ActiveUsers(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Suppliers handles GET /api/directory/suppliers
func (h *DirectoryHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	suppliers, err := h.service.ActiveSuppliers(r.Context(), sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}
