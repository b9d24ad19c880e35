package maintenance

import (
	"strings"

	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/ukydev/municipal-assets/internal/validation"
)

// MaxAttachments is how many documents a record may carry when submitted.
const MaxAttachments = 1

// NormalizeRecord trims free text and drops a warranty date that was left on
// a record without warranty.
func NormalizeRecord(rec *models.MaintenanceRecord) {
	rec.MaintenanceCode = strings.TrimSpace(rec.MaintenanceCode)
	rec.WorkDescription = strings.TrimSpace(rec.WorkDescription)
	rec.ReportedProblem = strings.TrimSpace(rec.ReportedProblem)
	rec.AppliedSolution = strings.TrimSpace(rec.AppliedSolution)
	rec.Observations = strings.TrimSpace(rec.Observations)
	rec.WorkOrder = strings.TrimSpace(rec.WorkOrder)
	if !rec.HasWarranty {
		rec.WarrantyExpirationDate = nil
	}
}

// ValidateRecord checks a record before it is created or replaced. All
// problems are reported together.
func ValidateRecord(rec *models.MaintenanceRecord) error {
	verr := validation.Struct(rec)

	if rec.ScheduledDate.IsZero() {
		verr.Require("scheduledDate")
	}
	if rec.LaborCost.IsNegative() {
		verr.Reject("laborCost", "must be greater than or equal to 0")
	}
	if rec.PartsCost.IsNegative() {
		verr.Reject("partsCost", "must be greater than or equal to 0")
	}

	hasDate := rec.WarrantyExpirationDate != nil && !rec.WarrantyExpirationDate.IsZero()
	switch {
	case rec.HasWarranty && !hasDate:
		verr.Require("warrantyExpirationDate")
	case !rec.HasWarranty && hasDate:
		verr.Reject("warrantyExpirationDate", "must be empty when hasWarranty is false")
	}

	if rec.StartDate != nil && rec.EndDate != nil && !rec.StartDate.IsZero() && !rec.EndDate.IsZero() &&
		rec.EndDate.Before(rec.StartDate.Time) {
		verr.Reject("endDate", "must not be before startDate")
	}
	return verr.OrNil()
}

// ValidateUpdate checks that current may be replaced by next and carries over
// what an update must not change.
func ValidateUpdate(current, next *models.MaintenanceRecord) error {
	if !CanEdit(current.MaintenanceStatus) {
		return &apperr.InvalidTransitionError{Action: "update", Status: string(current.MaintenanceStatus)}
	}
	next.ID = current.ID
	next.MaintenanceCode = current.MaintenanceCode
	next.MaintenanceStatus = current.MaintenanceStatus
	next.WorkOrder = current.WorkOrder
	next.RequestedBy = current.RequestedBy
	NormalizeRecord(next)
	return ValidateRecord(next)
}
