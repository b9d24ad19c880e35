package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ukydev/municipal-assets/internal/models"
)

// AssetClient updates asset statuses on the asset registry.
type AssetClient struct {
	base
	serviceToken string
}

// NewAssetClient creates a client for the registry at baseURL. serviceToken
// authenticates calls made outside a user request, such as journal replays.
func NewAssetClient(baseURL, serviceToken string, doer Doer) *AssetClient {
	return &AssetClient{base: newBase("assets", baseURL, doer), serviceToken: serviceToken}
}

type assetStatusRequest struct {
	Status        models.AssetStatus `json:"status"`
	Reason        string             `json:"reason,omitempty"`
	MaintenanceID models.ID          `json:"maintenanceId,omitempty"`
	UpdatedBy     models.ID          `json:"updatedBy,omitempty"`
}

// NotifyAssetStatus sends PATCH /assets/{id}/status.
func (c *AssetClient) NotifyAssetStatus(ctx context.Context, token string, change models.AssetStatusChange) error {
	if token == "" {
		token = c.serviceToken
	}
	body := assetStatusRequest{
		Status:        change.To,
		Reason:        change.Reason,
		MaintenanceID: change.MaintenanceID,
		UpdatedBy:     change.UpdatedBy,
	}
	_, err := c.send(ctx, token, http.MethodPatch, "/assets/"+url.PathEscape(change.AssetID.String())+"/status", body, nil)
	return err
}
