package notify

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/municipal-assets/internal/db"
)

// Replayer redelivers journaled changes.
type Replayer struct {
	journal     db.NotificationCollection
	transport   AssetNotifier
	batch       int
	maxAttempts int
}

// ReplayResult counts the outcome of one pass.
type ReplayResult struct {
	Delivered int
	Failed    int
}

// NewReplayer redelivers up to batch entries per pass, giving up on entries
// tried maxAttempts times.
func NewReplayer(journal db.NotificationCollection, transport AssetNotifier, batch, maxAttempts int) *Replayer {
	return &Replayer{journal: journal, transport: transport, batch: batch, maxAttempts: maxAttempts}
}

// RunOnce makes one pass over the pending entries, oldest first.
func (r *Replayer) RunOnce(ctx context.Context) (ReplayResult, error) {
	var result ReplayResult

	pending, err := r.journal.FindPending(ctx, r.batch, r.maxAttempts)
	if err != nil {
		return result, fmt.Errorf("load pending notifications: %w", err)
	}

	for _, change := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		entry := log.WithFields(log.Fields{
			"notification_id": change.ID.Hex(),
			"asset_id":        change.AssetID,
			"attempts":        change.Attempts,
		})

		if err := r.transport.NotifyAssetStatus(ctx, "", change); err != nil {
			result.Failed++
			entry.WithError(err).Warn("replay failed")
			if merr := r.journal.MarkFailed(ctx, change.ID, err.Error()); merr != nil {
				entry.WithError(merr).Error("failed to record replay failure")
			}
			continue
		}

		result.Delivered++
		if merr := r.journal.MarkDelivered(ctx, change.ID); merr != nil {
			// The change went out; it may be sent once more on the next pass.
			entry.WithError(merr).Error("failed to mark notification delivered")
		}
	}

	if len(pending) > 0 {
		log.WithFields(log.Fields{
			"delivered": result.Delivered,
			"failed":    result.Failed,
		}).Info("notification replay pass finished")
	}
	return result, nil
}
