// Package notify tells the asset registry when a maintenance record moves an
// asset in or out of service. Delivery is best effort: failures are journaled
// and replayed later, never surfaced to the maintenance workflow.
package notify

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/db"
	"github.com/ukydev/municipal-assets/internal/models"
)

// journalTimeout bounds the write of a failed change to the journal.
const journalTimeout = 5 * time.Second

// AssetNotifier delivers one asset-status change. token is the caller's
// bearer token, empty outside a user request.
type AssetNotifier interface {
	NotifyAssetStatus(ctx context.Context, token string, change models.AssetStatusChange) error
}

// Discard drops every change. It is used when notifications are disabled.
type Discard struct{}

// NotifyAssetStatus implements AssetNotifier.
func (Discard) NotifyAssetStatus(context.Context, string, models.AssetStatusChange) error { return nil }

// BestEffort wraps a transport so that a failed delivery is logged and
// journaled instead of returned.
type BestEffort struct {
	transport AssetNotifier
	journal   db.NotificationCollection
	now       func() time.Time
}

// NewBestEffort wraps transport. journal may be nil, in which case failed
// changes are only logged.
func NewBestEffort(transport AssetNotifier, journal db.NotificationCollection) *BestEffort {
	return &BestEffort{transport: transport, journal: journal, now: time.Now}
}

// Dispatch delivers change and never fails.
func (b *BestEffort) Dispatch(ctx context.Context, token string, change models.AssetStatusChange) {
	fields := log.Fields{
		"asset_id":       change.AssetID,
		"maintenance_id": change.MaintenanceID,
		"from":           change.From,
		"to":             change.To,
	}

	err := b.transport.NotifyAssetStatus(ctx, token, change)
	if err == nil {
		log.WithFields(fields).Info("asset status notified")
		return
	}
	log.WithFields(fields).WithError(err).Warn("asset status notification failed, journaling for replay")

	if b.journal == nil {
		return
	}
	change.Attempts = 1
	change.LastError = err.Error()
	change.CreatedAt = b.now().UTC()

	// The request may already be finished; the journal write must still happen.
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()
	if jerr := b.journal.InsertNotification(jctx, change); jerr != nil {
		log.WithFields(fields).WithError(jerr).Error("failed to journal asset status notification")
	}
}
