// Package apperr holds the error taxonomy shared by the portal: local
// validation and transition failures, and failures of the remote
// collaborators.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("a record with the same code already exists")
	ErrBackend           = errors.New("backend request failed")
	ErrStorage           = errors.New("storage operation failed")
)

// ValidationError lists every missing and invalid field of a submission.
type ValidationError struct {
	Missing []string
	Invalid map[string]string
}

// NewValidationError returns an empty ValidationError to accumulate into.
func NewValidationError() *ValidationError {
	return &ValidationError{Invalid: map[string]string{}}
}

// Require records field as missing.
func (e *ValidationError) Require(field string) {
	e.Missing = append(e.Missing, field)
}

// Reject records field as present but invalid.
func (e *ValidationError) Reject(field, reason string) {
	if e.Invalid == nil {
		e.Invalid = map[string]string{}
	}
	e.Invalid[field] = reason
}

// Merge copies the findings of other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Missing = append(e.Missing, other.Missing...)
	for field, reason := range other.Invalid {
		e.Reject(field, reason)
	}
}

// Empty reports whether nothing was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// OrNil returns e as an error, or nil when nothing was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

// Fields flattens the findings into field -> reason, for API responses.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Missing)+len(e.Invalid))
	for _, f := range e.Missing {
		out[f] = "required"
	}
	for f, reason := range e.Invalid {
		out[f] = reason
	}
	return out
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		fields := make([]string, 0, len(e.Invalid))
		for f := range e.Invalid {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		invalid := make([]string, 0, len(fields))
		for _, f := range fields {
			invalid = append(invalid, f+" "+e.Invalid[f])
		}
		parts = append(parts, "invalid fields: "+strings.Join(invalid, "; "))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidTransitionError is returned when an action is not legal for the
// current status of a record.
type InvalidTransitionError struct {
	Action string
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed while status is %s", e.Action, e.Status)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// BackendError is a non-2xx answer from a REST collaborator.
type BackendError struct {
	Service     string
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Service, e.Message, e.StatusCode)
}

func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrBackend:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrDuplicate:
		return e.StatusCode == http.StatusConflict
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// StorageError wraps an upload or removal failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// MessageForStatus is the human readable text shown for a backend status.
func MessageForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "the request contains invalid data"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "you are not allowed to perform this operation"
	case status == http.StatusNotFound:
		return ErrNotFound.Error()
	case status == http.StatusConflict:
		return ErrDuplicate.Error()
	case status >= 500:
		return "the server could not process the request, try again later"
	default:
		return fmt.Sprintf("unexpected response from server (%d)", status)
	}
}
