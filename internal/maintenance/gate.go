// Package maintenance holds the pure rules of the maintenance lifecycle: which
// actions each status allows, what each action requires, how correlative
// codes are assigned and how the observation history is read back.
package maintenance

import (
	"regexp"
	"strings"

	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/models"
)

type transition struct {
	action models.MaintenanceAction
	to     models.MaintenanceStatus
}

// transitions is ordered: AvailableActions returns actions in this order.
var transitions = map[models.MaintenanceStatus][]transition{
	models.StatusScheduled: {
		{models.ActionStart, models.StatusInProcess},
		{models.ActionSuspend, models.StatusSuspended},
		{models.ActionCancel, models.StatusCancelled},
	},
	models.StatusInProcess: {
		{models.ActionComplete, models.StatusCompleted},
		{models.ActionSuspend, models.StatusSuspended},
		{models.ActionCancel, models.StatusCancelled},
	},
	models.StatusSuspended: {
		{models.ActionReschedule, models.StatusScheduled},
		{models.ActionCancel, models.StatusCancelled},
	},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

var workOrderPattern = regexp.MustCompile(`^WO-\d{4}-\d{2}-\d{2}-\d{3}$`)

// AvailableActions returns the actions legal for status. Terminal and unknown
// statuses yield an empty, non-nil slice.
func AvailableActions(status models.MaintenanceStatus) []models.MaintenanceAction {
	allowed := transitions[status]
	actions := make([]models.MaintenanceAction, 0, len(allowed))
	for _, t := range allowed {
		actions = append(actions, t.action)
	}
	return actions
}

// NextStatus returns the status reached by applying action in status.
func NextStatus(status models.MaintenanceStatus, action models.MaintenanceAction) (models.MaintenanceStatus, bool) {
	for _, t := range transitions[status] {
		if t.action == action {
			return t.to, true
		}
	}
	return "", false
}

// IsAllowed reports whether action may be invoked in status.
func IsAllowed(status models.MaintenanceStatus, action models.MaintenanceAction) bool {
	_, ok := NextStatus(status, action)
	return ok
}

// CanEdit reports whether a full-record update is accepted in status. Records
// being worked on or already closed change only through actions.
func CanEdit(status models.MaintenanceStatus) bool {
	return status == models.StatusScheduled || status == models.StatusSuspended
}

// ValidateAction checks that action is legal in status and that payload
// carries everything the action requires. It never touches the network.
func ValidateAction(action models.MaintenanceAction, status models.MaintenanceStatus, payload models.ActionPayload) error {
	if !IsAllowed(status, action) {
		return &apperr.InvalidTransitionError{Action: string(action), Status: string(status)}
	}

	verr := apperr.NewValidationError()
	switch action {
	case models.ActionStart:
		requireID(verr, "updatedBy", payload.UpdatedBy)
	case models.ActionSuspend:
		requireDate(verr, "nextDate", payload.NextDate)
		requireText(verr, "observations", payload.Observations)
		requireID(verr, "updatedBy", payload.UpdatedBy)
	case models.ActionCancel:
		requireText(verr, "observations", payload.Observations)
		requireID(verr, "updatedBy", payload.UpdatedBy)
	case models.ActionComplete:
		if requireText(verr, "workOrder", payload.WorkOrder) && !workOrderPattern.MatchString(strings.TrimSpace(payload.WorkOrder)) {
			verr.Reject("workOrder", "must look like WO-YYYY-MM-DD-NNN")
		}
		if payload.LaborCost == nil {
			verr.Require("laborCost")
		} else if payload.LaborCost.IsNegative() {
			verr.Reject("laborCost", "must be greater than or equal to 0")
		}
		if payload.PartsCost == nil {
			verr.Require("partsCost")
		} else if payload.PartsCost.IsNegative() {
			verr.Reject("partsCost", "must be greater than or equal to 0")
		}
		requireText(verr, "appliedSolution", payload.AppliedSolution)
		requireID(verr, "updatedBy", payload.UpdatedBy)
	case models.ActionReschedule:
		requireDate(verr, "nextDate", payload.NextDate)
		requireID(verr, "updatedBy", payload.UpdatedBy)
	}
	return verr.OrNil()
}

func requireText(verr *apperr.ValidationError, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		verr.Require(field)
		return false
	}
	return true
}

func requireID(verr *apperr.ValidationError, field string, value models.ID) {
	requireText(verr, field, string(value))
}

func requireDate(verr *apperr.ValidationError, field string, value *models.Date) {
	if value == nil || value.IsZero() {
		verr.Require(field)
	}
}
