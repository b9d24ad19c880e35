package models

import (
	"strings"
)

// Role represents user roles in the portal
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleViewer     Role = "viewer"
)

// Claims represents JWT claims
type Claims struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	Role           Role   `json:"role"`
	MunicipalityID string `json:"municipality_id"`
	Exp            int64  `json:"exp"`
}

// SessionContext is the per-request identity handed to the orchestrators.
// Token is the caller's raw bearer token, forwarded to the backends as is.
type SessionContext struct {
	UserID         ID
	Username       string
	Role           Role
	MunicipalityID ID
	Token          string
}

// NewSession builds a session from validated claims and the raw token.
func NewSession(claims *Claims, token string) SessionContext {
	return SessionContext{
		UserID:         ID(claims.UserID),
		Username:       claims.Username,
		Role:           claims.Role,
		MunicipalityID: ID(claims.MunicipalityID),
		Token:          token,
	}
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleTechnician, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a role may perform an action
func (r Role) HasPermission(action string) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleManager:
		return action != "manage_users"
	case RoleTechnician:
		return action == "view_maintenance" || action == "manage_maintenance" ||
			action == "view_receipts" || action == "sign_receipts" ||
			action == "upload_files" || action == "view_directory"
	case RoleViewer:
		return action == "view_maintenance" || action == "view_receipts" ||
			action == "view_directory"
	default:
		return false
	}
}

// DirectoryUser is a person from the identity directory.
type DirectoryUser struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Active    *bool  `json:"active,omitempty"`
	Status    string `json:"status,omitempty"`
}

// FullName falls back to the username when no name is recorded.
func (u DirectoryUser) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsActive reads whichever activity flag the directory returned.
func (u DirectoryUser) IsActive() bool {
	return isActive(u.Active, u.Status)
}

// Supplier is an external service provider.
type Supplier struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	TaxID       string `json:"taxId,omitempty"`
	ContactName string `json:"contactName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Active      *bool  `json:"active,omitempty"`
	Status      string `json:"status,omitempty"`
}

// IsActive reads whichever activity flag the directory returned.
func (s Supplier) IsActive() bool {
	return isActive(s.Active, s.Status)
}

func isActive(flag *bool, status string) bool {
	if flag != nil {
		return *flag
	}
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "ACTIVE", "ACTIVO", "A":
		return true
	default:
		return false
	}
}
