package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/storage"
)

// multipartOverhead leaves room for the form fields around the file.
const multipartOverhead = 64 << 10

// UploadService stores and removes attachments.
type UploadService interface {
	Upload(ctx context.Context, file storage.File, folder, kind string) (storage.Object, error)
	Remove(ctx context.Context, path string) error
}

// UploadHandler serves /api/uploads.
type UploadHandler struct {
	service  UploadService
	maxBytes int64
}

// NewUploadHandler creates a new upload handler. Bodies larger than maxBytes
// plus the form overhead are cut off before they are read.
func NewUploadHandler(service UploadService, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = storage.MaxUploadSize
	}
	return &UploadHandler{service: service, maxBytes: maxBytes}
}

// Upload handles POST /api/uploads (multipart: file, folder, kind)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, invalidParam("file", fmt.Sprintf("must not exceed %d MB", h.maxBytes>>20)))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "expected a multipart form"})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		verr := apperr.NewValidationError()
		verr.Require("file")
		writeError(w, r, verr)
		return
	}
	defer file.Close()

	obj, err := h.service.Upload(r.Context(), storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, r.FormValue("folder"), r.FormValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}

// Remove handles DELETE /api/uploads?path=...
func (h *UploadHandler) Remove(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		verr := apperr.NewValidationError()
		verr.Require("path")
		writeError(w, r, verr)
		return
	}
	if err := h.service.Remove(r.Context(), path); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
