package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukydev/municipal-assets/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaintenanceService is what the maintenance handler needs from the
// orchestrator.
type MaintenanceService interface {
	List(ctx context.Context, sess models.SessionContext, status models.MaintenanceStatus) ([]models.MaintenanceRecord, error)
	Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.MaintenanceView, error)
	Create(ctx context.Context, sess models.SessionContext, rec models.MaintenanceRecord) (*models.MaintenanceView, error)
	Update(ctx context.Context, sess models.SessionContext, id models.ID, rec models.MaintenanceRecord) (*models.MaintenanceView, error)
	Apply(ctx context.Context, sess models.SessionContext, id models.ID, action models.MaintenanceAction, p models.ActionPayload) (*models.MaintenanceView, error)
	Export(ctx context.Context, sess models.SessionContext, status models.MaintenanceStatus, w io.Writer) error
}

// MaintenanceHandler serves /api/maintenances.
type MaintenanceHandler struct {
	service MaintenanceService
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(service MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

func statusFilter(r *http.Request) (models.MaintenanceStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", nil
	}
	status, ok := models.ParseMaintenanceStatus(raw)
	if !ok {
		return "", invalidParam("status", "must be one of scheduled, in-process, suspended, completed, cancelled")
	}
	return status, nil
}

// List handles GET /api/maintenances
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	status, err := statusFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := h.service.List(r.Context(), sess, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Export handles GET /api/maintenances/export
func (h *MaintenanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	status, err := statusFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), sess, status, &buf); err != nil {
		writeError(w, r, err)
		return
	}
	filename := "maintenances-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Create handles POST /api/maintenances
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var rec models.MaintenanceRecord
	if !decodeJSON(w, r, &rec, false) {
		return
	}
	view, err := h.service.Create(r.Context(), sess, rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/maintenances/{id}
func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), sess, models.ID(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update handles PUT /api/maintenances/{id}
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var rec models.MaintenanceRecord
	if !decodeJSON(w, r, &rec, false) {
		return
	}
	view, err := h.service.Update(r.Context(), sess, models.ID(mux.Vars(r)["id"]), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Actions handles GET /api/maintenances/{id}/actions
func (h *MaintenanceHandler) Actions(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(r.Context(), sess, models.ID(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           view.Record.MaintenanceStatus,
		"availableActions": view.AvailableActions,
	})
}

// Transition handles PATCH /api/maintenances/{id}/{action}
func (h *MaintenanceHandler) Transition(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	action, ok := models.ParseMaintenanceAction(vars["action"])
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown action " + vars["action"]})
		return
	}
	var payload models.ActionPayload
	if !decodeJSON(w, r, &payload, true) {
		return
	}
	view, err := h.service.Apply(r.Context(), sess, models.ID(vars["id"]), action, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
