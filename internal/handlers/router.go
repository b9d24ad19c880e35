package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukydev/municipal-assets/internal/middleware"
)

// healthTimeout bounds each dependency check of /health.
const healthTimeout = 2 * time.Second

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Router wires the portal's routes.
type Router struct {
	Auth        *middleware.AuthMiddleware
	Profile     *AuthHandler
	RateLimiter *middleware.RateLimitMiddleware
	RateLimit   int
	RateWindow  int

	Maintenance *MaintenanceHandler
	Receipts    *ReceiptHandler
	Directory   *DirectoryHandler
	Uploads     *UploadHandler

	// Checks are reported by /health; a failing check marks the portal
	// degraded without failing the probe.
	Checks map[string]HealthCheck
}

// Handler builds the mux router with every route and middleware.
func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog)
	if rt.RateLimiter != nil && rt.RateLimit > 0 {
		r.Use(rt.RateLimiter.RateLimit(rt.RateLimit, rt.RateWindow))
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	r.HandleFunc("/health", rt.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rt.Auth.Authenticate)
	perm := func(permission string, h http.HandlerFunc) http.Handler {
		return rt.Auth.RequirePermission(permission)(h)
	}

	if rt.Profile != nil {
		api.HandleFunc("/profile", rt.Profile.GetProfile).Methods(http.MethodGet)
	}

	if m := rt.Maintenance; m != nil {
		api.Handle("/maintenances", perm("view_maintenance", m.List)).Methods(http.MethodGet)
		api.Handle("/maintenances", perm("manage_maintenance", m.Create)).Methods(http.MethodPost)
		api.Handle("/maintenances/export", perm("export_reports", m.Export)).Methods(http.MethodGet)
		api.Handle("/maintenances/{id}", perm("view_maintenance", m.Get)).Methods(http.MethodGet)
		api.Handle("/maintenances/{id}", perm("manage_maintenance", m.Update)).Methods(http.MethodPut)
		api.Handle("/maintenances/{id}/actions", perm("view_maintenance", m.Actions)).Methods(http.MethodGet)
		api.Handle("/maintenances/{id}/{action}", perm("manage_maintenance", m.Transition)).Methods(http.MethodPatch)
	}

	if h := rt.Receipts; h != nil {
		api.Handle("/receipts", perm("view_receipts", h.List)).Methods(http.MethodGet)
		api.Handle("/receipts", perm("manage_receipts", h.Create)).Methods(http.MethodPost)
		api.Handle("/receipts/count", perm("view_receipts", h.Count)).Methods(http.MethodGet)
		api.Handle("/receipts/{id}", perm("view_receipts", h.Get)).Methods(http.MethodGet)
		api.Handle("/receipts/{id}", perm("manage_receipts", h.Update)).Methods(http.MethodPut)
		api.Handle("/receipts/{id}/sign", perm("sign_receipts", h.Sign)).Methods(http.MethodPost)
		api.Handle("/receipts/{id}/pdf", perm("view_receipts", h.PDF)).Methods(http.MethodGet)
	}

	if d := rt.Directory; d != nil {
		api.Handle("/directory/users", perm("view_directory", d.Users)).Methods(http.MethodGet)
		api.Handle("/directory/suppliers", perm("view_directory", d.Suppliers)).Methods(http.MethodGet)
	}

	if u := rt.Uploads; u != nil {
		api.Handle("/uploads", perm("upload_files", u.Upload)).Methods(http.MethodPost)
		api.Handle("/uploads", perm("upload_files", u.Remove)).Methods(http.MethodDelete)
	}

	return r
}

// health handles GET /health
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	checks := make(map[string]string, len(rt.Checks))
	for name, check := range rt.Checks {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			status = "degraded"
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
