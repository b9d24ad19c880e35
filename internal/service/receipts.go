package service

import (
	"context"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/apperr"
	"github.com/ukydev/municipal-assets/internal/export"
	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/ukydev/municipal-assets/internal/validation"
)

// ReceiptFilter selects which receipts List returns. At most one criterion
// is applied, in the order MovementID, ResponsibleID, Status.
type ReceiptFilter struct {
	MovementID    models.ID
	ResponsibleID models.ID
	Status        models.ReceiptStatus
}

// ReceiptService manages handover receipts. The receipt status is computed
// by the backend and only read here.
type ReceiptService struct {
	backend   ReceiptBackend
	directory DirectoryBackend
}

// NewReceiptService creates a receipt orchestrator. directory is used to print
// names on receipts and may be nil.
func NewReceiptService(backend ReceiptBackend, directory DirectoryBackend) *ReceiptService {
	return &ReceiptService{backend: backend, directory: directory}
}

// ValidateReceipt checks the parties and free text of a receipt.
func ValidateReceipt(r *models.HandoverReceipt) error {
	verr := validation.Struct(r)

	parties := map[models.ID]bool{r.DeliveringResponsibleID: true, r.ReceivingResponsibleID: true}
	for field, witness := range map[string]models.ID{"witness1Id": r.Witness1ID, "witness2Id": r.Witness2ID} {
		if !witness.IsZero() && parties[witness] {
			verr.Reject(field, "must differ from the delivering and receiving responsibles")
		}
	}
	if !r.Witness1ID.IsZero() && r.Witness1ID == r.Witness2ID {
		verr.Reject("witness2Id", "must differ from witness1Id")
	}
	return verr.OrNil()
}

func normalizeReceipt(r *models.HandoverReceipt) {
	r.DeliveryObservations = strings.TrimSpace(r.DeliveryObservations)
	r.ReceptionObservations = strings.TrimSpace(r.ReceptionObservations)
	r.SpecialConditions = strings.TrimSpace(r.SpecialConditions)
	r.ReceiptImageURL = strings.TrimSpace(r.ReceiptImageURL)
}

// Create generates a receipt on behalf of the session user.
func (s *ReceiptService) Create(ctx context.Context, sess models.SessionContext, r models.HandoverReceipt) (*models.HandoverReceipt, error) {
	r.ID = ""
	r.ReceiptNumber = ""
	r.ReceiptStatus = ""
	r.DeliverySignatureDate = nil
	r.ReceptionSignatureDate = nil
	r.GeneratedBy = sess.UserID
	r.MunicipalityID = sess.MunicipalityID
	normalizeReceipt(&r)
	if err := ValidateReceipt(&r); err != nil {
		return nil, err
	}

	created, err := s.backend.Create(ctx, sess, r)
	if err != nil {
		return nil, err
	}
	if created == nil {
		created = &r
	}
	log.WithFields(log.Fields{
		"receipt_id":  created.ID,
		"movement_id": r.MovementID,
		"user":        sess.Username,
	}).Info("handover receipt generated")

	if created.ID.IsZero() {
		return created, nil
	}
	return s.refresh(ctx, sess, created.ID, *created), nil
}

// Get returns one receipt.
func (s *ReceiptService) Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.HandoverReceipt, error) {
	return s.backend.Get(ctx, sess, id)
}

// List returns the receipts matching filter.
func (s *ReceiptService) List(ctx context.Context, sess models.SessionContext, filter ReceiptFilter) ([]models.HandoverReceipt, error) {
	var (
		receipts []models.HandoverReceipt
		err      error
	)
	switch {
	case !filter.MovementID.IsZero():
		receipts, err = s.backend.ListByMovement(ctx, sess, filter.MovementID)
	case !filter.ResponsibleID.IsZero():
		receipts, err = s.backend.ListByResponsible(ctx, sess, filter.ResponsibleID)
	case filter.Status != "":
		receipts, err = s.backend.ListByStatus(ctx, sess, filter.Status)
	default:
		receipts, err = s.backend.List(ctx, sess)
	}
	if err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []models.HandoverReceipt{}
	}
	return receipts, nil
}

// Count returns how many receipts there are, in status when it is set.
func (s *ReceiptService) Count(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) (int64, error) {
	if status == "" {
		return s.backend.Count(ctx, sess)
	}
	return s.backend.CountByStatus(ctx, sess, status)
}

// Update replaces the editable fields of a receipt that is neither voided
// nor fully signed.
func (s *ReceiptService) Update(ctx context.Context, sess models.SessionContext, id models.ID, r models.HandoverReceipt) (*models.HandoverReceipt, error) {
	current, err := s.backend.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if current.IsTerminal() {
		return nil, &apperr.InvalidTransitionError{Action: "update", Status: string(current.ReceiptStatus)}
	}

	r.ID = current.ID
	r.ReceiptNumber = current.ReceiptNumber
	r.ReceiptStatus = current.ReceiptStatus
	r.MunicipalityID = current.MunicipalityID
	r.MovementID = current.MovementID
	r.GeneratedBy = current.GeneratedBy
	r.DeliverySignatureDate = current.DeliverySignatureDate
	r.ReceptionSignatureDate = current.ReceptionSignatureDate
	r.CreatedAt = current.CreatedAt
	normalizeReceipt(&r)
	if err := ValidateReceipt(&r); err != nil {
		return nil, err
	}

	if err := s.backend.Update(ctx, sess, id, r); err != nil {
		return nil, err
	}
	return s.refresh(ctx, sess, id, r), nil
}

// Sign records one side's signature. Signatures are append-only: a side that
// already signed cannot sign again, and voided receipts cannot be signed.
func (s *ReceiptService) Sign(ctx context.Context, sess models.SessionContext, id models.ID, req models.SignRequest) (*models.HandoverReceipt, error) {
	req.SignatureType = models.SignatureType(strings.ToLower(strings.TrimSpace(string(req.SignatureType))))
	req.Observations = strings.TrimSpace(req.Observations)
	if req.SignerID.IsZero() {
		req.SignerID = sess.UserID
	}
	if err := validation.Struct(&req).OrNil(); err != nil {
		return nil, err
	}

	current, err := s.backend.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if current.ReceiptStatus == models.ReceiptVoided || current.IsSignedBy(req.SignatureType) {
		return nil, &apperr.InvalidTransitionError{
			Action: "sign " + string(req.SignatureType),
			Status: string(current.ReceiptStatus),
		}
	}

	if err := s.backend.Sign(ctx, sess, id, req); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"receipt_id": id,
		"side":       req.SignatureType,
		"signer":     req.SignerID,
	}).Info("handover receipt signed")
	return s.refresh(ctx, sess, id, *current), nil
}

// RenderPDF writes the printable acta of a receipt. Names come from the user
// directory when it answers; identifiers are printed otherwise.
func (s *ReceiptService) RenderPDF(ctx context.Context, sess models.SessionContext, id models.ID, w io.Writer) (*models.HandoverReceipt, error) {
	r, err := s.backend.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if err := export.WriteReceiptPDF(w, *r, s.names(ctx, sess)); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReceiptService) names(ctx context.Context, sess models.SessionContext) export.Names {
	names := export.Names{}
	if s.directory == nil {
		return names
	}
	users, err := s.directory.ListUsers(ctx, sess.Token)
	if err != nil {
		log.WithError(err).Warn("user directory unavailable, printing identifiers")
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName()
	}
	return names
}

func (s *ReceiptService) refresh(ctx context.Context, sess models.SessionContext, id models.ID, fallback models.HandoverReceipt) *models.HandoverReceipt {
	r, err := s.backend.Get(ctx, sess, id)
	if err != nil {
		log.WithField("receipt_id", id).WithError(err).Warn("failed to re-read receipt after update")
		return &fallback
	}
	return r
}
