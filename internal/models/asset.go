package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetStatus is the registry status of a municipal asset.
type AssetStatus string

const (
	AssetAvailable   AssetStatus = "AVAILABLE"
	AssetMaintenance AssetStatus = "MAINTENANCE"
)

// AssetStatusChange is a notification to the asset registry. Undelivered
// changes are journaled with the same shape.
type AssetStatusChange struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AssetID        ID                 `json:"asset_id" bson:"asset_id"`
	From           AssetStatus        `json:"from" bson:"from"`
	To             AssetStatus        `json:"to" bson:"to"`
	MaintenanceID  ID                 `json:"maintenance_id" bson:"maintenance_id"`
	Reason         string             `json:"reason" bson:"reason"` // "created", "start", "complete", "cancel"
	UpdatedBy      ID                 `json:"updated_by" bson:"updated_by"`
	MunicipalityID ID                 `json:"municipality_id" bson:"municipality_id"`
	Delivered      bool               `json:"delivered" bson:"delivered"`
	Attempts       int                `json:"attempts" bson:"attempts"`
	LastError      string             `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
