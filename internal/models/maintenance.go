package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Backends expect monetary amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// MaintenanceStatus is the lifecycle state of a maintenance record.
type MaintenanceStatus string

const (
	StatusScheduled MaintenanceStatus = "SCHEDULED"
	StatusInProcess MaintenanceStatus = "IN_PROCESS"
	StatusCompleted MaintenanceStatus = "COMPLETED"
	StatusCancelled MaintenanceStatus = "CANCELLED"
	StatusSuspended MaintenanceStatus = "SUSPENDED"
)

// MaintenanceStatuses lists every status in display order.
var MaintenanceStatuses = []MaintenanceStatus{
	StatusScheduled,
	StatusInProcess,
	StatusSuspended,
	StatusCompleted,
	StatusCancelled,
}

// IsTerminal reports whether no further action can be taken.
func (s MaintenanceStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid checks s against the known statuses.
func (s MaintenanceStatus) IsValid() bool {
	for _, known := range MaintenanceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PathSegment is the status as used in backend URLs, e.g. "in-process".
func (s MaintenanceStatus) PathSegment() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), "_", "-")
}

// ParseMaintenanceStatus accepts either the enum value or its URL segment.
func ParseMaintenanceStatus(s string) (MaintenanceStatus, bool) {
	status := MaintenanceStatus(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	return status, status.IsValid()
}

// MaintenanceType classifies the work.
type MaintenanceType string

const (
	TypePreventive MaintenanceType = "PREVENTIVE"
	TypeCorrective MaintenanceType = "CORRECTIVE"
	TypePredictive MaintenanceType = "PREDICTIVE"
	TypeEmergency  MaintenanceType = "EMERGENCY"
)

// Priority of a maintenance record.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// AttachedDocument is a file stored in object storage and linked to a record.
type AttachedDocument struct {
	FileURL    string     `json:"fileUrl" validate:"required,url"`
	UploadedAt *Timestamp `json:"uploadedAt,omitempty"`
}

// MaintenanceRecord represents an asset maintenance work item.
type MaintenanceRecord struct {
	ID                     ID                 `json:"id,omitempty"`
	MaintenanceCode        string             `json:"maintenanceCode"`
	AssetID                ID                 `json:"assetId" validate:"required"`
	MaintenanceType        MaintenanceType    `json:"maintenanceType" validate:"required,oneof=PREVENTIVE CORRECTIVE PREDICTIVE EMERGENCY"`
	Priority               Priority           `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	MaintenanceStatus      MaintenanceStatus  `json:"maintenanceStatus"`
	ScheduledDate          Date               `json:"scheduledDate"`
	StartDate              *Date              `json:"startDate,omitempty"`
	EndDate                *Date              `json:"endDate,omitempty"`
	WorkDescription        string             `json:"workDescription" validate:"required,mintrim=5"`
	ReportedProblem        string             `json:"reportedProblem,omitempty" validate:"omitempty,mintrim=5"`
	AppliedSolution        string             `json:"appliedSolution,omitempty"`
	Observations           string             `json:"observations,omitempty"`
	TechnicalResponsibleID ID                 `json:"technicalResponsibleId" validate:"required"`
	ServiceSupplierID      ID                 `json:"serviceSupplierId,omitempty"`
	RequestedBy            ID                 `json:"requestedBy" validate:"required"`
	UpdatedBy              ID                 `json:"updatedBy,omitempty"`
	LaborCost              decimal.Decimal    `json:"laborCost"`
	PartsCost              decimal.Decimal    `json:"partsCost"`
	TotalCost              decimal.Decimal    `json:"totalCost"` // computed by the backend
	HasWarranty            bool               `json:"hasWarranty"`
	WarrantyExpirationDate *Date              `json:"warrantyExpirationDate,omitempty"`
	WorkOrder              string             `json:"workOrder,omitempty"`
	AttachedDocuments      []AttachedDocument `json:"attachedDocuments" validate:"max=1,dive"`
	MunicipalityID         ID                 `json:"municipalityId,omitempty"`
	CreatedAt              *Timestamp         `json:"createdAt,omitempty"`
	UpdatedAt              *Timestamp         `json:"updatedAt,omitempty"`
}

// MaintenanceAction is a named lifecycle transition.
type MaintenanceAction string

const (
	ActionStart      MaintenanceAction = "start"
	ActionComplete   MaintenanceAction = "complete"
	ActionSuspend    MaintenanceAction = "suspend"
	ActionCancel     MaintenanceAction = "cancel"
	ActionReschedule MaintenanceAction = "reschedule"
)

// ParseMaintenanceAction accepts any casing of a known action.
func ParseMaintenanceAction(s string) (MaintenanceAction, bool) {
	a := MaintenanceAction(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionStart, ActionComplete, ActionSuspend, ActionCancel, ActionReschedule:
		return a, true
	default:
		return "", false
	}
}

// ActionPayload carries the union of the inputs any action accepts. Costs are
// pointers so that an absent cost can be told apart from a zero cost.
type ActionPayload struct {
	UpdatedBy              ID               `json:"updatedBy"`
	Observations           string           `json:"observations,omitempty"`
	NextDate               *Date            `json:"nextDate,omitempty"`
	WorkOrder              string           `json:"workOrder,omitempty"`
	LaborCost              *decimal.Decimal `json:"laborCost,omitempty"`
	PartsCost              *decimal.Decimal `json:"partsCost,omitempty"`
	AppliedSolution        string           `json:"appliedSolution,omitempty"`
	TechnicalResponsibleID ID               `json:"technicalResponsibleId,omitempty"`
	ServiceSupplierID      ID               `json:"serviceSupplierId,omitempty"`
	CompletionDocument     string           `json:"completionDocument,omitempty"`
}

// StartRequest is the body of PATCH /maintenances/{id}/start.
type StartRequest struct {
	UpdatedBy    ID     `json:"updatedBy"`
	Observations string `json:"observations,omitempty"`
}

// CompleteRequest is the body of PATCH /maintenances/{id}/complete.
type CompleteRequest struct {
	WorkOrder          string          `json:"workOrder"`
	LaborCost          decimal.Decimal `json:"laborCost"`
	PartsCost          decimal.Decimal `json:"partsCost"`
	AppliedSolution    string          `json:"appliedSolution"`
	Observations       string          `json:"observations,omitempty"`
	UpdatedBy          ID              `json:"updatedBy"`
	CompletionDocument string          `json:"completionDocument,omitempty"`
}

// SuspendRequest is the body of PATCH /maintenances/{id}/suspend.
type SuspendRequest struct {
	NextDate     Date   `json:"nextDate"`
	Observations string `json:"observations"`
	UpdatedBy    ID     `json:"updatedBy"`
}

// CancelRequest is the body of PATCH /maintenances/{id}/cancel.
type CancelRequest struct {
	Observations string `json:"observations"`
	UpdatedBy    ID     `json:"updatedBy"`
}

// RescheduleRequest is the body of PATCH /maintenances/{id}/reschedule.
type RescheduleRequest struct {
	NextDate               Date   `json:"nextDate"`
	UpdatedBy              ID     `json:"updatedBy"`
	TechnicalResponsibleID ID     `json:"technicalResponsibleId,omitempty"`
	ServiceSupplierID      ID     `json:"serviceSupplierId,omitempty"`
	Observations           string `json:"observations,omitempty"`
}

// Body returns the wire body for action built from p. The payload must have
// been validated for that action first.
func (p ActionPayload) Body(action MaintenanceAction) interface{} {
	switch action {
	case ActionStart:
		return StartRequest{UpdatedBy: p.UpdatedBy, Observations: p.Observations}
	case ActionComplete:
		return CompleteRequest{
			WorkOrder:          p.WorkOrder,
			LaborCost:          derefDecimal(p.LaborCost),
			PartsCost:          derefDecimal(p.PartsCost),
			AppliedSolution:    p.AppliedSolution,
			Observations:       p.Observations,
			UpdatedBy:          p.UpdatedBy,
			CompletionDocument: p.CompletionDocument,
		}
	case ActionSuspend:
		return SuspendRequest{NextDate: derefDate(p.NextDate), Observations: p.Observations, UpdatedBy: p.UpdatedBy}
	case ActionCancel:
		return CancelRequest{Observations: p.Observations, UpdatedBy: p.UpdatedBy}
	case ActionReschedule:
		return RescheduleRequest{
			NextDate:               derefDate(p.NextDate),
			UpdatedBy:              p.UpdatedBy,
			TechnicalResponsibleID: p.TechnicalResponsibleID,
			ServiceSupplierID:      p.ServiceSupplierID,
			Observations:           p.Observations,
		}
	}
	return nil
}

// MaintenanceView is a record with what the detail screen needs around it.
type MaintenanceView struct {
	Record           MaintenanceRecord   `json:"record"`
	AvailableActions []MaintenanceAction `json:"availableActions"`
	History          []ObservationEntry  `json:"history"`
}

// ObservationEntry is one "[timestamp] Status: description" item recovered
// from the free-text observations field.
type ObservationEntry struct {
	Timestamp   string    `json:"timestamp"`
	At          time.Time `json:"-"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func derefDate(d *Date) Date {
	if d == nil {
		return Date{}
	}
	return *d
}
