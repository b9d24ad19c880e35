package db

import (
	"context"

	"github.com/ukydev/municipal-assets/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationCollection defines the journal of asset-status notifications
// that could not be delivered.
type NotificationCollection interface {
	InsertNotification(ctx context.Context, change models.AssetStatusChange) error
	FindPending(ctx context.Context, limit int, maxAttempts int) ([]models.AssetStatusChange, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) error
}

// NotificationCursor defines the interface for journal cursor operations.
type NotificationCursor interface {
	All(ctx context.Context, out interface{}) error
	Close(ctx context.Context) error
}
