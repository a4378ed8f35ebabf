// recorder.go implements Recorder, the single entry point handlers use to write
// the audit trail. Writes are fire-and-forget: the HTTP response never waits on
// the trail, and a failed write is logged but never surfaces to the client.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
	"github.com/vijana-portal/vijana-portal/internal/db/repositories"
	"github.com/vijana-portal/vijana-portal/internal/safego"
	"github.com/vijana-portal/vijana-portal/internal/telemetry"
)

// writeTimeout bounds each background audit write so a stalled database cannot
// accumulate goroutines
const writeTimeout = 5 * time.Second

// Recorder writes audit events to the database and any configured shippers
type Recorder struct {
	repo    *repositories.AuditRepository
	shipper Shipper
	enabled bool
}

// NewRecorder creates a Recorder. shipper may be nil when no external
// destinations are configured.
func NewRecorder(db *sqlx.DB, shipper Shipper, enabled bool) *Recorder {
	return &Recorder{
		repo:    repositories.NewAuditRepository(db),
		shipper: shipper,
		enabled: enabled,
	}
}

// Repository exposes the underlying audit repository for read endpoints
func (r *Recorder) Repository() *repositories.AuditRepository {
	return r.repo
}

// Record writes an audit event asynchronously. It returns immediately; the
// write happens in a background goroutine with its own timeout, and errors are
// logged rather than propagated so audit capture never affects request latency
// or request outcomes.
func (r *Recorder) Record(event *models.AuditEvent) {
	if !r.enabled {
		return
	}

	safego.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		r.write(ctx, event)
	})
}

// RecordSync writes an audit event and waits for the database write to finish.
// Used where the event must be durable before the caller proceeds, such as
// recording a purge before the rows it describes are removed.
func (r *Recorder) RecordSync(ctx context.Context, event *models.AuditEvent) error {
	if !r.enabled {
		return nil
	}

	if err := r.repo.CreateAuditEvent(ctx, event); err != nil {
		return err
	}

	telemetry.AuditEventsTotal.WithLabelValues(event.Action, event.Entity).Inc()
	r.ship(ctx, event)
	return nil
}

func (r *Recorder) write(ctx context.Context, event *models.AuditEvent) {
	if err := r.repo.CreateAuditEvent(ctx, event); err != nil {
		slog.Error("failed to write audit event",
			"action", event.Action,
			"entity", event.Entity,
			"error", err,
		)
		return
	}

	telemetry.AuditEventsTotal.WithLabelValues(event.Action, event.Entity).Inc()
	r.ship(ctx, event)
}

func (r *Recorder) ship(ctx context.Context, event *models.AuditEvent) {
	if r.shipper == nil {
		return
	}
	if err := r.shipper.Ship(ctx, event); err != nil {
		slog.Error("failed to ship audit event", "error", err)
	}
}
