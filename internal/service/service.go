// Package service holds the orchestrators behind the portal's HTTP API. Each
// operation validates locally first and then runs one sequential chain of
// backend calls with the caller's session.
package service

import (
	"context"

	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/ukydev/municipal-assets/internal/storage"
)

// MaintenanceBackend is the maintenance REST collaborator.
type MaintenanceBackend interface {
	List(ctx context.Context, token string) ([]models.MaintenanceRecord, error)
	ListByStatus(ctx context.Context, token string, status models.MaintenanceStatus) ([]models.MaintenanceRecord, error)
	Get(ctx context.Context, token string, id models.ID) (*models.MaintenanceRecord, error)
	Create(ctx context.Context, token string, rec models.MaintenanceRecord) (*models.MaintenanceRecord, error)
	Update(ctx context.Context, token string, id models.ID, rec models.MaintenanceRecord) error
	Transition(ctx context.Context, token string, id models.ID, action models.MaintenanceAction, body interface{}) error
}

// ReceiptBackend is the handover-receipt REST collaborator.
type ReceiptBackend interface {
	Create(ctx context.Context, sess models.SessionContext, r models.HandoverReceipt) (*models.HandoverReceipt, error)
	Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.HandoverReceipt, error)
	List(ctx context.Context, sess models.SessionContext) ([]models.HandoverReceipt, error)
	ListByMovement(ctx context.Context, sess models.SessionContext, movementID models.ID) ([]models.HandoverReceipt, error)
	ListByStatus(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) ([]models.HandoverReceipt, error)
	ListByResponsible(ctx context.Context, sess models.SessionContext, responsibleID models.ID) ([]models.HandoverReceipt, error)
	Sign(ctx context.Context, sess models.SessionContext, id models.ID, req models.SignRequest) error
	Update(ctx context.Context, sess models.SessionContext, id models.ID, r models.HandoverReceipt) error
	Count(ctx context.Context, sess models.SessionContext) (int64, error)
	CountByStatus(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) (int64, error)
}

// DirectoryBackend is the read-only user and supplier directory.
type DirectoryBackend interface {
	ListUsers(ctx context.Context, token string) ([]models.DirectoryUser, error)
	ListSuppliers(ctx context.Context, token string) ([]models.Supplier, error)
}

// ObjectStore keeps uploaded attachments.
type ObjectStore interface {
	Upload(ctx context.Context, file storage.File, folder string, policy storage.Policy) (storage.Object, error)
	Remove(ctx context.Context, key string) error
}

// Dispatcher delivers asset-status changes without ever failing the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, token string, change models.AssetStatusChange)
}
