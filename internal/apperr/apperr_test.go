package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Require("updatedBy")
	verr.Require("observations")
	verr.Reject("laborCost", "must be greater than or equal to 0")

	err := verr.OrNil()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "missing required fields: updatedBy, observations; invalid fields: laborCost must be greater than or equal to 0", err.Error())
	assert.Equal(t, map[string]string{
		"updatedBy":    "required",
		"observations": "required",
		"laborCost":    "must be greater than or equal to 0",
	}, verr.Fields())
}

func TestValidationError_Merge(t *testing.T) {
	a := NewValidationError()
	a.Require("x")
	b := &ValidationError{}
	b.Reject("y", "too short")
	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, []string{"x"}, a.Missing)
	assert.Equal(t, "too short", a.Invalid["y"])
}

func TestInvalidTransitionError(t *testing.T) {
	err := fmt.Errorf("gate: %w", &InvalidTransitionError{Action: "complete", Status: "SCHEDULED"})
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var target *InvalidTransitionError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "complete", target.Action)
}

func TestBackendError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{http.StatusNotFound, ErrNotFound, true},
		{http.StatusConflict, ErrDuplicate, true},
		{http.StatusBadRequest, ErrValidation, true},
		{http.StatusInternalServerError, ErrBackend, true},
		{http.StatusInternalServerError, ErrNotFound, false},
	}

	for _, tt := range tests {
		err := &BackendError{Service: "maintenance", StatusCode: tt.status, Message: MessageForStatus(tt.status)}
		assert.Equal(t, tt.want, errors.Is(err, tt.target), "status %d target %v", tt.status, tt.target)
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StorageError{Op: "upload", Path: "maintenances/a.pdf", Err: cause}

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "maintenances/a.pdf")
}

func TestMessageForStatus(t *testing.T) {
	assert.Equal(t, "record not found", MessageForStatus(404))
	assert.Equal(t, "a record with the same code already exists", MessageForStatus(409))
	assert.Contains(t, MessageForStatus(503), "try again later")
	assert.Contains(t, MessageForStatus(418), "418")
}
