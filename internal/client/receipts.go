package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ukydev/municipal-assets/internal/models"
)

// ReceiptClient talks to the handover-receipt backend. Every path is scoped
// by the caller's municipality.
type ReceiptClient struct {
	base
}

// NewReceiptClient creates a client for the backend at baseURL.
func NewReceiptClient(baseURL string, doer Doer) *ReceiptClient {
	return &ReceiptClient{base: newBase("receipts", baseURL, doer)}
}

func receiptsPath(municipalityID models.ID, rest string) string {
	return "/" + url.PathEscape(municipalityID.String()) + "/handover-receipts" + rest
}

func receiptPath(municipalityID, id models.ID, rest string) string {
	return receiptsPath(municipalityID, "/"+url.PathEscape(id.String())+rest)
}

// Create submits a new receipt.
func (c *ReceiptClient) Create(ctx context.Context, sess models.SessionContext, r models.HandoverReceipt) (*models.HandoverReceipt, error) {
	var created models.HandoverReceipt
	found, err := c.send(ctx, sess.Token, http.MethodPost, receiptsPath(sess.MunicipalityID, ""), r, &created)
	if err != nil || !found {
		return nil, err
	}
	return &created, nil
}

// Get returns a single receipt.
func (c *ReceiptClient) Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.HandoverReceipt, error) {
	var r models.HandoverReceipt
	if err := c.getOne(ctx, sess.Token, receiptPath(sess.MunicipalityID, id, ""), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns every receipt of the municipality.
func (c *ReceiptClient) List(ctx context.Context, sess models.SessionContext) ([]models.HandoverReceipt, error) {
	return c.list(ctx, sess, "")
}

// ListByMovement returns the receipts of one asset movement.
func (c *ReceiptClient) ListByMovement(ctx context.Context, sess models.SessionContext, movementID models.ID) ([]models.HandoverReceipt, error) {
	return c.list(ctx, sess, "/movement/"+url.PathEscape(movementID.String()))
}

// ListByStatus returns the receipts in status.
func (c *ReceiptClient) ListByStatus(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) ([]models.HandoverReceipt, error) {
	return c.list(ctx, sess, "/status/"+url.PathEscape(string(status)))
}

// ListByResponsible returns the receipts where responsibleID is a party.
func (c *ReceiptClient) ListByResponsible(ctx context.Context, sess models.SessionContext, responsibleID models.ID) ([]models.HandoverReceipt, error) {
	return c.list(ctx, sess, "/responsible/"+url.PathEscape(responsibleID.String()))
}

// Sign records one side's signature, POST .../{id}/sign.
func (c *ReceiptClient) Sign(ctx context.Context, sess models.SessionContext, id models.ID, req models.SignRequest) error {
	_, err := c.send(ctx, sess.Token, http.MethodPost, receiptPath(sess.MunicipalityID, id, "/sign"), req, nil)
	return err
}

// Update replaces the receipt with id.
func (c *ReceiptClient) Update(ctx context.Context, sess models.SessionContext, id models.ID, r models.HandoverReceipt) error {
	_, err := c.send(ctx, sess.Token, http.MethodPut, receiptPath(sess.MunicipalityID, id, ""), r, nil)
	return err
}

// Count returns the number of receipts of the municipality.
func (c *ReceiptClient) Count(ctx context.Context, sess models.SessionContext) (int64, error) {
	return c.count(ctx, sess.Token, receiptsPath(sess.MunicipalityID, "/count"))
}

// CountByStatus returns the number of receipts in status.
func (c *ReceiptClient) CountByStatus(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) (int64, error) {
	return c.count(ctx, sess.Token, receiptsPath(sess.MunicipalityID, fmt.Sprintf("/count/status/%s", url.PathEscape(string(status)))))
}

func (c *ReceiptClient) list(ctx context.Context, sess models.SessionContext, rest string) ([]models.HandoverReceipt, error) {
	var receipts []models.HandoverReceipt
	if err := c.getList(ctx, sess.Token, receiptsPath(sess.MunicipalityID, rest), &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}
