// Package storage uploads attachments to S3-compatible object storage and
// enforces what may be uploaded.
package storage

import (
	"fmt"
	"mime"
	"strings"

	"github.com/ukydev/municipal-assets/internal/apperr"
)

// MaxUploadSize is the ceiling for any single file.
const MaxUploadSize int64 = 5 << 20

// Policy bounds the size and media types a caller accepts.
type Policy struct {
	MaxSize      int64
	AllowedTypes []string
}

// DocumentPolicy covers maintenance attachments and completion documents.
var DocumentPolicy = Policy{
	MaxSize: MaxUploadSize,
	AllowedTypes: []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"image/jpeg",
		"image/jpg",
		"image/png",
	},
}

// ImagePolicy covers photographs such as scanned receipts.
var ImagePolicy = Policy{
	MaxSize:      MaxUploadSize,
	AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
}

// PolicyFor returns the policy named kind ("document" or "image").
func PolicyFor(kind string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "document":
		return DocumentPolicy, true
	case "image":
		return ImagePolicy, true
	default:
		return Policy{}, false
	}
}

// WithMaxSize returns p with a different ceiling, never above MaxUploadSize.
func (p Policy) WithMaxSize(n int64) Policy {
	if n > 0 && n < MaxUploadSize {
		p.MaxSize = n
	}
	return p
}

// Check rejects files that are empty, too large or of a type p does not allow.
func (p Policy) Check(file File) error {
	verr := apperr.NewValidationError()
	switch {
	case file.Size <= 0:
		verr.Reject("file", "is empty")
	case file.Size > p.MaxSize:
		verr.Reject("file", fmt.Sprintf("exceeds the maximum size of %d MB", p.MaxSize>>20))
	}
	if !p.Allows(file.ContentType) {
		verr.Reject("contentType", fmt.Sprintf("%q is not allowed", file.ContentType))
	}
	return verr.OrNil()
}

// Allows reports whether contentType is on the allow-list. Parameters such as
// charset are ignored.
func (p Policy) Allows(contentType string) bool {
	mediaType := normalizeType(contentType)
	for _, allowed := range p.AllowedTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

func normalizeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
