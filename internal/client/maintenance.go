package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ukydev/municipal-assets/internal/models"
)

// MaintenanceClient reads and mutates maintenance records on the maintenance
// backend.
type MaintenanceClient struct {
	base
}

// NewMaintenanceClient creates a client for the backend at baseURL.
func NewMaintenanceClient(baseURL string, doer Doer) *MaintenanceClient {
	return &MaintenanceClient{base: newBase("maintenance", baseURL, doer)}
}

// List returns every maintenance record.
func (c *MaintenanceClient) List(ctx context.Context, token string) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	if err := c.getList(ctx, token, "/maintenances", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByStatus returns the records currently in status.
func (c *MaintenanceClient) ListByStatus(ctx context.Context, token string, status models.MaintenanceStatus) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	if err := c.getList(ctx, token, "/maintenances/status/"+status.PathSegment(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get returns a single record.
func (c *MaintenanceClient) Get(ctx context.Context, token string, id models.ID) (*models.MaintenanceRecord, error) {
	var rec models.MaintenanceRecord
	if err := c.getOne(ctx, token, "/maintenances/"+url.PathEscape(id.String()), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create submits a new record. The backend's copy is returned when it answers
// with one, otherwise nil.
func (c *MaintenanceClient) Create(ctx context.Context, token string, rec models.MaintenanceRecord) (*models.MaintenanceRecord, error) {
	var created models.MaintenanceRecord
	found, err := c.send(ctx, token, http.MethodPost, "/maintenances", rec, &created)
	if err != nil || !found {
		return nil, err
	}
	return &created, nil
}

// Update replaces the record with id.
func (c *MaintenanceClient) Update(ctx context.Context, token string, id models.ID, rec models.MaintenanceRecord) error {
	_, err := c.send(ctx, token, http.MethodPut, "/maintenances/"+url.PathEscape(id.String()), rec, nil)
	return err
}

// Transition invokes a lifecycle action, PATCH /maintenances/{id}/{action}.
func (c *MaintenanceClient) Transition(ctx context.Context, token string, id models.ID, action models.MaintenanceAction, body interface{}) error {
	path := "/maintenances/" + url.PathEscape(id.String()) + "/" + string(action)
	_, err := c.send(ctx, token, http.MethodPatch, path, body, nil)
	return err
}
