package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/ukydev/municipal-assets/internal/service"
)

// ReceiptService is what the receipt handler needs from the orchestrator.
type ReceiptService interface {
	Create(ctx context.Context, sess models.SessionContext, r models.HandoverReceipt) (*models.HandoverReceipt, error)
	Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.HandoverReceipt, error)
	List(ctx context.Context, sess models.SessionContext, filter service.ReceiptFilter) ([]models.HandoverReceipt, error)
	Count(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) (int64, error)
	Update(ctx context.Context, sess models.SessionContext, id models.ID, r models.HandoverReceipt) (*models.HandoverReceipt, error)
	Sign(ctx context.Context, sess models.SessionContext, id models.ID, req models.SignRequest) (*models.HandoverReceipt, error)
	RenderPDF(ctx context.Context, sess models.SessionContext, id models.ID, w io.Writer) (*models.HandoverReceipt, error)
}

// ReceiptHandler serves /api/receipts.
type ReceiptHandler struct {
	service ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(service ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

func receiptStatus(r *http.Request) (models.ReceiptStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", nil
	}
	status, ok := models.ParseReceiptStatus(raw)
	if !ok {
		return "", invalidParam("status", "must be one of GENERATED, PARTIALLY_SIGNED, FULLY_SIGNED, VOIDED")
	}
	return status, nil
}

// List handles GET /api/receipts
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	status, err := receiptStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	receipts, err := h.service.List(r.Context(), sess, service.ReceiptFilter{
		MovementID:    models.ID(q.Get("movementId")),
		ResponsibleID: models.ID(q.Get("responsibleId")),
		Status:        status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// Count handles GET /api/receipts/count
func (h *ReceiptHandler) Count(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	status, err := receiptStatus(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.service.Count(r.Context(), sess, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

// Create handles POST /api/receipts
func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var receipt models.HandoverReceipt
	if !decodeJSON(w, r, &receipt, false) {
		return
	}
	created, err := h.service.Create(r.Context(), sess, receipt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/receipts/{id}
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	receipt, err := h.service.Get(r.Context(), sess, models.ID(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// Update handles PUT /api/receipts/{id}
func (h *ReceiptHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var receipt models.HandoverReceipt
	if !decodeJSON(w, r, &receipt, false) {
		return
	}
	updated, err := h.service.Update(r.Context(), sess, models.ID(mux.Vars(r)["id"]), receipt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Sign handles POST /api/receipts/{id}/sign
func (h *ReceiptHandler) Sign(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var req models.SignRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	signed, err := h.service.Sign(r.Context(), sess, models.ID(mux.Vars(r)["id"]), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signed)
}

// PDF handles GET /api/receipts/{id}/pdf
func (h *ReceiptHandler) PDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	receipt, err := h.service.RenderPDF(r.Context(), sess, models.ID(mux.Vars(r)["id"]), &buf)
	if err != nil {
		writeError(w, r, err)
		return
	}
	name := receipt.ReceiptNumber
	if name == "" {
		name = receipt.ID.String()
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="acta-`+name+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
