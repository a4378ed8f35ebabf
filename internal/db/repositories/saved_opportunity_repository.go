// saved_opportunity_repository.go implements SavedOpportunityRepository, providing
// database queries for youth bookmarks on opportunity listings.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// SavedOpportunityRepository handles bookmark database operations
type SavedOpportunityRepository struct {
	db *sqlx.DB
}

// NewSavedOpportunityRepository creates a new SavedOpportunityRepository
func NewSavedOpportunityRepository(db *sqlx.DB) *SavedOpportunityRepository {
	return &SavedOpportunityRepository{db: db}
}

// SaveOpportunity bookmarks a listing for a user. Returns a pq unique-violation
// error (code 23505) when the bookmark already exists; callers detect it with
// IsDuplicateSave.
func (r *SavedOpportunityRepository) SaveOpportunity(ctx context.Context, saved *models.SavedOpportunity) error {
	saved.ID = uuid.New().String()
	saved.CreatedAt = time.Now()

	query := `
		INSERT INTO saved_opportunities (id, user_id, opportunity_id, created_at)
		VALUES (:id, :user_id, :opportunity_id, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, saved)
	return err
}

// IsDuplicateSave reports whether err is the unique-constraint violation raised
// when the same listing is bookmarked twice
func IsDuplicateSave(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// UnsaveOpportunity removes a bookmark
func (r *SavedOpportunityRepository) UnsaveOpportunity(ctx context.Context, userID, opportunityID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_opportunities WHERE user_id = $1 AND opportunity_id = $2`,
		userID, opportunityID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListSavedOpportunities retrieves a user's bookmarks joined with the listings they
// point at, newest bookmark first
func (r *SavedOpportunityRepository) ListSavedOpportunities(ctx context.Context, userID string) ([]*models.SavedOpportunityDetail, error) {
	query := `
		SELECT s.id, s.user_id, s.opportunity_id, s.created_at,
		       o.id, o.title, o.description, o.category_id, c.name, o.organization, o.location,
		       o.deadline, o.published, o.created_by, o.created_at, o.updated_at
		FROM saved_opportunities s
		JOIN opportunities o ON o.id = s.opportunity_id
		LEFT JOIN categories c ON c.id = o.category_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saved := make([]*models.SavedOpportunityDetail, 0)
	for rows.Next() {
		detail := &models.SavedOpportunityDetail{}
		err := rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.OpportunityID,
			&detail.CreatedAt,
			&detail.Opportunity.ID,
			&detail.Opportunity.Title,
			&detail.Opportunity.Description,
			&detail.Opportunity.CategoryID,
			&detail.Opportunity.CategoryName,
			&detail.Opportunity.Organization,
			&detail.Opportunity.Location,
			&detail.Opportunity.Deadline,
			&detail.Opportunity.Published,
			&detail.Opportunity.CreatedBy,
			&detail.Opportunity.CreatedAt,
			&detail.Opportunity.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		saved = append(saved, detail)
	}

	return saved, rows.Err()
}

// IsSaved reports whether a user has bookmarked a listing
func (r *SavedOpportunityRepository) IsSaved(ctx context.Context, userID, opportunityID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM saved_opportunities WHERE user_id = $1 AND opportunity_id = $2)`,
		userID, opportunityID,
	)
	return exists, err
}
