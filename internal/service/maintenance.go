package service

import (
	"context"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/export"
	"github.com/ukydev/municipal-assets/internal/maintenance"
	"github.com/ukydev/municipal-assets/internal/models"
)

// MaintenanceService runs the maintenance workflow against the backend and
// keeps the asset registry informed.
type MaintenanceService struct {
	backend  MaintenanceBackend
	notifier Dispatcher
	now      func() time.Time
}

// NewMaintenanceService creates a maintenance orchestrator.
func NewMaintenanceService(backend MaintenanceBackend, notifier Dispatcher) *MaintenanceService {
	return &MaintenanceService{backend: backend, notifier: notifier, now: time.Now}
}

// List returns every record, or only those in status when it is set.
func (s *MaintenanceService) List(ctx context.Context, sess models.SessionContext, status models.MaintenanceStatus) ([]models.MaintenanceRecord, error) {
	var (
		records []models.MaintenanceRecord
		err     error
	)
	if status == "" {
		records, err = s.backend.List(ctx, sess.Token)
	} else {
		records, err = s.backend.ListByStatus(ctx, sess.Token, status)
	}
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.MaintenanceRecord{}
	}
	return records, nil
}

// Get returns a record with the actions its status allows and its parsed
// observation history.
func (s *MaintenanceService) Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.MaintenanceView, error) {
	rec, err := s.backend.Get(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	return viewOf(*rec), nil
}

// Create schedules a new maintenance. The code is generated from a fresh
// listing of the existing records.
func (s *MaintenanceService) Create(ctx context.Context, sess models.SessionContext, rec models.MaintenanceRecord) (*models.MaintenanceView, error) {
	rec.ID = ""
	rec.MaintenanceStatus = models.StatusScheduled
	rec.RequestedBy = sess.UserID
	rec.UpdatedBy = ""
	rec.WorkOrder = ""
	if rec.MunicipalityID.IsZero() {
		rec.MunicipalityID = sess.MunicipalityID
	}
	maintenance.NormalizeRecord(&rec)
	if err := maintenance.ValidateRecord(&rec); err != nil {
		return nil, err
	}

	existing, err := s.backend.List(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	rec.MaintenanceCode = maintenance.NextMaintenanceCode(existing, s.now())

	created, err := s.backend.Create(ctx, sess.Token, rec)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = &rec
	}

	log.WithFields(log.Fields{
		"maintenance_id": created.ID,
		"code":           rec.MaintenanceCode,
		"asset_id":       rec.AssetID,
		"user":           sess.Username,
	}).Info("maintenance scheduled")

	s.notify(ctx, sess, created.ID, rec.AssetID, models.AssetAvailable, models.AssetMaintenance, "created")

	if created.ID.IsZero() {
		return viewOf(*created), nil
	}
	return s.refresh(ctx, sess, created.ID, *created), nil
}

// Update replaces an editable record. Code, status, work order and requester
// are kept from the stored record.
func (s *MaintenanceService) Update(ctx context.Context, sess models.SessionContext, id models.ID, rec models.MaintenanceRecord) (*models.MaintenanceView, error) {
	current, err := s.backend.Get(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	rec.UpdatedBy = sess.UserID
	if rec.MunicipalityID.IsZero() {
		rec.MunicipalityID = current.MunicipalityID
	}
	if err := maintenance.ValidateUpdate(current, &rec); err != nil {
		return nil, err
	}
	if err := s.backend.Update(ctx, sess.Token, id, rec); err != nil {
		return nil, err
	}
	return s.refresh(ctx, sess, id, rec), nil
}

// Start moves a scheduled record into process.
func (s *MaintenanceService) Start(ctx context.Context, sess models.SessionContext, id models.ID, p models.ActionPayload) (*models.MaintenanceView, error) {
	return s.Apply(ctx, sess, id, models.ActionStart, p)
}

// Complete closes a record in process. A work order is generated when the
// caller did not supply one.
func (s *MaintenanceService) Complete(ctx context.Context, sess models.SessionContext, id models.ID, p models.ActionPayload) (*models.MaintenanceView, error) {
	return s.Apply(ctx, sess, id, models.ActionComplete, p)
}

// Suspend postpones a scheduled or running record to p.NextDate.
func (s *MaintenanceService) Suspend(ctx context.Context, sess models.SessionContext, id models.ID, p models.ActionPayload) (*models.MaintenanceView, error) {
	return s.Apply(ctx, sess, id, models.ActionSuspend, p)
}

// Cancel abandons a record that is not yet finished.
func (s *MaintenanceService) Cancel(ctx context.Context, sess models.SessionContext, id models.ID, p models.ActionPayload) (*models.MaintenanceView, error) {
	return s.Apply(ctx, sess, id, models.ActionCancel, p)
}

// Reschedule puts a suspended record back on the schedule.
func (s *MaintenanceService) Reschedule(ctx context.Context, sess models.SessionContext, id models.ID, p models.ActionPayload) (*models.MaintenanceView, error) {
	return s.Apply(ctx, sess, id, models.ActionReschedule, p)
}

// Apply runs action on the record with id. The current status is read from
// the backend and checked before anything is sent.
func (s *MaintenanceService) Apply(ctx context.Context, sess models.SessionContext, id models.ID, action models.MaintenanceAction, p models.ActionPayload) (*models.MaintenanceView, error) {
	current, err := s.backend.Get(ctx, sess.Token, id)
	if err != nil {
		return nil, err
	}
	status := current.MaintenanceStatus
	if !maintenance.IsAllowed(status, action) {
		return nil, &apperr.InvalidTransitionError{Action: string(action), Status: string(status)}
	}

	if p.UpdatedBy.IsZero() {
		p.UpdatedBy = sess.UserID
	}
	generateWO := action == models.ActionComplete && strings.TrimSpace(p.WorkOrder) == ""

	check := p
	if generateWO {
		// Stand-in so the missing work order is not reported; the real one
		// needs a listing and is only fetched once the payload is valid.
		check.WorkOrder = maintenance.WorkOrderPrefix(s.now()) + "-001"
	}
	if err := maintenance.ValidateAction(action, status, check); err != nil {
		return nil, err
	}

	if generateWO {
		existing, err := s.backend.List(ctx, sess.Token)
		if err != nil {
			return nil, err
		}
		p.WorkOrder = maintenance.NextWorkOrder(existing, s.now())
	}
	p.WorkOrder = strings.TrimSpace(p.WorkOrder)
	p.Observations = strings.TrimSpace(p.Observations)
	p.AppliedSolution = strings.TrimSpace(p.AppliedSolution)

	if err := s.backend.Transition(ctx, sess.Token, id, action, p.Body(action)); err != nil {
		return nil, err
	}

	next, _ := maintenance.NextStatus(status, action)
	log.WithFields(log.Fields{
		"maintenance_id": id,
		"action":         action,
		"from":           status,
		"to":             next,
		"user":           sess.Username,
	}).Info("maintenance transition applied")

	switch action {
	case models.ActionStart:
		s.notify(ctx, sess, id, current.AssetID, models.AssetAvailable, models.AssetMaintenance, string(action))
	case models.ActionComplete, models.ActionCancel:
		s.notify(ctx, sess, id, current.AssetID, models.AssetMaintenance, models.AssetAvailable, string(action))
	}

	fallback := *current
	fallback.MaintenanceStatus = next
	if action == models.ActionComplete {
		fallback.WorkOrder = p.WorkOrder
	}
	return s.refresh(ctx, sess, id, fallback), nil
}

// Export writes the (optionally filtered) list as an XLSX workbook.
func (s *MaintenanceService) Export(ctx context.Context, sess models.SessionContext, status models.MaintenanceStatus, w io.Writer) error {
	records, err := s.List(ctx, sess, status)
	if err != nil {
		return err
	}
	return export.WriteMaintenanceWorkbook(w, records)
}

// refresh re-reads the record after a mutation. The mutation already
// succeeded, so a failed read falls back to the locally known state.
func (s *MaintenanceService) refresh(ctx context.Context, sess models.SessionContext, id models.ID, fallback models.MaintenanceRecord) *models.MaintenanceView {
	view, err := s.Get(ctx, sess, id)
	if err != nil {
		log.WithField("maintenance_id", id).WithError(err).Warn("failed to re-read maintenance after update")
		return viewOf(fallback)
	}
	return view
}

func (s *MaintenanceService) notify(ctx context.Context, sess models.SessionContext, maintenanceID, assetID models.ID, from, to models.AssetStatus, reason string) {
	if s.notifier == nil || assetID.IsZero() {
		return
	}
	s.notifier.Dispatch(ctx, sess.Token, models.AssetStatusChange{
		AssetID:        assetID,
		From:           from,
		To:             to,
		MaintenanceID:  maintenanceID,
		Reason:         reason,
		UpdatedBy:      sess.UserID,
		MunicipalityID: sess.MunicipalityID,
	})
}

func viewOf(rec models.MaintenanceRecord) *models.MaintenanceView {
	history := maintenance.ParseObservationHistory(rec.Observations)
	if history == nil {
		history = []models.ObservationEntry{}
	}
	return &models.MaintenanceView{
		Record:           rec,
		AvailableActions: maintenance.AvailableActions(rec.MaintenanceStatus),
		History:          history,
	}
}
