// audit_repository.go implements AuditRepository, providing database queries for writing
// and retrieving audit trail entries with support for filtered queries, plus the
// administrator purge. Uses sqlx struct scanning against the db tags on AuditEvent.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// AuditRepository handles audit trail database operations
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditEvent appends a new entry to the audit trail
func (r *AuditRepository) CreateAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now()

	query := `
		INSERT INTO audit_events (id, action, entity, entity_id, actor_id, role, description, ip_address, user_agent, created_at)
		VALUES (:id, :action, :entity, :entity_id, :actor_id, :role, :description, :ip_address, :user_agent, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, event)
	return err
}

// ListAuditEvents retrieves audit events matching the filter, newest first.
// Returns the page plus the total match count.
func (r *AuditRepository) ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, int, error) {
	countQuery := `SELECT COUNT(*) FROM audit_events WHERE 1=1`
	query := `
		SELECT id, action, entity, entity_id, actor_id, role, description, ip_address, user_agent, created_at
		FROM audit_events
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if filter.Action != "" {
		clause := fmt.Sprintf(` AND action = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, filter.Action)
		paramIndex++
	}

	if filter.Entity != "" {
		clause := fmt.Sprintf(` AND entity = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, filter.Entity)
		paramIndex++
	}

	if filter.ActorID != "" {
		clause := fmt.Sprintf(` AND actor_id = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, filter.ActorID)
		paramIndex++
	}

	if filter.From != nil {
		clause := fmt.Sprintf(` AND created_at >= $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, *filter.From)
		paramIndex++
	}

	if filter.To != nil {
		clause := fmt.Sprintf(` AND created_at <= $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, *filter.To)
		paramIndex++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	events := make([]*models.AuditEvent, 0)
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// PurgeAuditEvents deletes all audit events created before the cutoff and returns
// how many rows were removed. The caller is responsible for recording the purge
// itself in the trail before invoking this.
func (r *AuditRepository) PurgeAuditEvents(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountAuditEvents returns the total number of entries in the trail
func (r *AuditRepository) CountAuditEvents(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM audit_events`)
	return count, err
}
