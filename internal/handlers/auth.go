package handlers

import (
	"net/http"

	"github.com/ukydev/municipal-assets/internal/middleware"
	"github.com/ukydev/municipal-assets/internal/models"
)

// permissions is every action a route may require, in menu order.
var permissions = []string{
	"view_maintenance",
	"manage_maintenance",
	"view_receipts",
	"manage_receipts",
	"sign_receipts",
	"upload_files",
	"view_directory",
	"export_reports",
	"manage_users",
}

// ProfileResponse describes the caller as the portal sees them.
type ProfileResponse struct {
	UserID         models.ID   `json:"userId"`
	Username       string      `json:"username"`
	Role           models.Role `json:"role"`
	MunicipalityID models.ID   `json:"municipalityId"`
	ExpiresAt      int64       `json:"expiresAt"`
	Permissions    []string    `json:"permissions"`
}

// AuthHandler serves the caller's own session. Accounts and tokens are
// issued by the identity provider, not by the portal.
type AuthHandler struct{}

// NewAuthHandler creates a new auth handler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// GetProfile handles GET /api/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "User context not found"})
		return
	}

	granted := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if claims.Role.HasPermission(p) {
			granted = append(granted, p)
		}
	}
	writeJSON(w, http.StatusOK, ProfileResponse{
		UserID:         models.ID(claims.UserID),
		Username:       claims.Username,
		Role:           claims.Role,
		MunicipalityID: models.ID(claims.MunicipalityID),
		ExpiresAt:      claims.Exp,
		Permissions:    granted,
	})
}
