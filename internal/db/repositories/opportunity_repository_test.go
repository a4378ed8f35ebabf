package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

var oppCols = []string{"id", "title", "description", "category_id", "name", "organization", "location", "deadline", "published", "created_by", "created_at", "updated_at"}

func sampleOppRow(published bool) *sqlmock.Rows {
	catID := "cat-1"
	catName := "Kilimo"
	deadline := time.Now().Add(30 * 24 * time.Hour)
	return sqlmock.NewRows(oppCols).
		AddRow("opp-1", "Mafunzo ya ujasiriamali", "Training for young entrepreneurs", &catID, &catName,
			"District Council", "Morogoro", &deadline, published, "admin-1", time.Now(), time.Now())
}

func newOppRepo(t *testing.T) (*OpportunityRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewOpportunityRepository(db), mock
}

// ---------------------------------------------------------------------------
// GetOpportunityByID
// ---------------------------------------------------------------------------

func TestGetOpportunityByID_Found(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectQuery("SELECT.*FROM opportunities o.*WHERE o.id").
		WithArgs("opp-1").
		WillReturnRows(sampleOppRow(true))

	opp, err := repo.GetOpportunityByID(context.Background(), "opp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opp == nil {
		t.Fatal("expected opportunity, got nil")
	}
	if opp.CategoryName == nil || *opp.CategoryName != "Kilimo" {
		t.Errorf("CategoryName = %v, want Kilimo (joined from categories)", opp.CategoryName)
	}
}

func TestGetOpportunityByID_NotFound(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectQuery("SELECT.*FROM opportunities o.*WHERE o.id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(oppCols))

	opp, err := repo.GetOpportunityByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opp != nil {
		t.Errorf("expected nil opportunity, got %v", opp)
	}
}

// ---------------------------------------------------------------------------
// ListOpportunities
// ---------------------------------------------------------------------------

func TestListOpportunities_NoFilter(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT.*FROM opportunities o").
		WithArgs(20, 0).
		WillReturnRows(sampleOppRow(true))

	opps, total, err := repo.ListOpportunities(context.Background(), models.OpportunityFilter{Limit: 20, Offset: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(opps) != 1 {
		t.Errorf("len(opps) = %d, want 1", len(opps))
	}
}

func TestListOpportunities_PublishedOnlyAddsClause(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectQuery(`SELECT COUNT.*published = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT.*published = TRUE`).
		WithArgs(20, 0).
		WillReturnRows(sampleOppRow(true))

	_, _, err := repo.ListOpportunities(context.Background(), models.OpportunityFilter{
		PublishedOnly: true,
		Limit:         20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListOpportunities_CategoryAndSearch(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectQuery("SELECT COUNT.*category_id.*ILIKE").
		WithArgs("cat-1", "%mafunzo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT.*category_id.*ILIKE").
		WithArgs("cat-1", "%mafunzo%", 20, 0).
		WillReturnRows(sampleOppRow(true))

	_, total, err := repo.ListOpportunities(context.Background(), models.OpportunityFilter{
		CategoryID: "cat-1",
		Search:     "mafunzo",
		Limit:      20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

// ---------------------------------------------------------------------------
// SetOpportunityPublished / UpdateOpportunity / DeleteOpportunity
// ---------------------------------------------------------------------------

func TestSetOpportunityPublished_NotFound(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectExec("UPDATE opportunities SET published").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetOpportunityPublished(context.Background(), "missing", true)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestSetOpportunityPublished_Updated(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectExec("UPDATE opportunities SET published").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetOpportunityPublished(context.Background(), "opp-1", true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateOpportunity_NotFound(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectExec("UPDATE opportunities").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateOpportunity(context.Background(), &models.Opportunity{ID: "missing"})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteOpportunity_Deleted(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectExec("DELETE FROM opportunities").
		WithArgs("opp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteOpportunity(context.Background(), "opp-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// CountOpportunities
// ---------------------------------------------------------------------------

func TestCountOpportunities(t *testing.T) {
	repo, mock := newOppRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FILTER.*FROM opportunities").
		WillReturnRows(sqlmock.NewRows([]string{"count", "published"}).AddRow(10, 4))

	total, published, err := repo.CountOpportunities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 10 || published != 4 {
		t.Errorf("counts = (%d, %d), want (10, 4)", total, published)
	}
}
