package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

var auditCols = []string{"id", "action", "entity", "entity_id", "actor_id", "role", "description", "ip_address", "user_agent", "created_at"}

func sampleAuditRow() *sqlmock.Rows {
	actorID := "user-1"
	role := models.RoleAdmin
	return sqlmock.NewRows(auditCols).
		AddRow("evt-1", models.AuditActionLogin, models.AuditEntityAuth, nil, &actorID, &role,
			"Signed in", nil, nil, time.Now())
}

func newAuditRepo(t *testing.T) (*AuditRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAuditRepository(sqlx.NewDb(db, "postgres")), mock
}

// ---------------------------------------------------------------------------
// CreateAuditEvent
// ---------------------------------------------------------------------------

func TestCreateAuditEvent_AssignsID(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectExec("INSERT INTO audit_events").
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.AuditEvent{
		Action:      models.AuditActionLogin,
		Entity:      models.AuditEntityAuth,
		Description: "Signed in",
	}
	if err := repo.CreateAuditEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID == "" {
		t.Error("expected CreateAuditEvent to assign an ID")
	}
}

func TestCreateAuditEvent_DBError(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectExec("INSERT INTO audit_events").
		WillReturnError(errDB)

	err := repo.CreateAuditEvent(context.Background(), &models.AuditEvent{Action: "CREATE"})
	if err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// ListAuditEvents
// ---------------------------------------------------------------------------

func TestListAuditEvents_NoFilter(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM audit_events").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("SELECT.*FROM audit_events").
		WithArgs(50, 0).
		WillReturnRows(sampleAuditRow())

	events, total, err := repo.ListAuditEvents(context.Background(), models.AuditFilter{Limit: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
}

func TestListAuditEvents_ActionAndEntityFilter(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectQuery("SELECT COUNT.*action.*entity").
		WithArgs(models.AuditActionLogin, models.AuditEntityAuth).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT.*action.*entity").
		WithArgs(models.AuditActionLogin, models.AuditEntityAuth, 50, 0).
		WillReturnRows(sampleAuditRow())

	_, total, err := repo.ListAuditEvents(context.Background(), models.AuditFilter{
		Action: models.AuditActionLogin,
		Entity: models.AuditEntityAuth,
		Limit:  50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestListAuditEvents_TimeRangeFilter(t *testing.T) {
	repo, mock := newAuditRepo(t)
	from := time.Now().Add(-24 * time.Hour)
	to := time.Now()

	mock.ExpectQuery("SELECT COUNT.*created_at").
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT.*created_at").
		WithArgs(from, to, 50, 0).
		WillReturnRows(sampleAuditRow())

	_, _, err := repo.ListAuditEvents(context.Background(), models.AuditFilter{
		From:  &from,
		To:    &to,
		Limit: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// PurgeAuditEvents
// ---------------------------------------------------------------------------

func TestPurgeAuditEvents_ReturnsRemovedCount(t *testing.T) {
	repo, mock := newAuditRepo(t)
	cutoff := time.Now().Add(-90 * 24 * time.Hour)
	mock.ExpectExec("DELETE FROM audit_events WHERE created_at").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	removed, err := repo.PurgeAuditEvents(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 42 {
		t.Errorf("removed = %d, want 42", removed)
	}
}

func TestCountAuditEvents(t *testing.T) {
	repo, mock := newAuditRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM audit_events").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	count, err := repo.CountAuditEvents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 9 {
		t.Errorf("count = %d, want 9", count)
	}
}
