// opportunity_repository.go implements OpportunityRepository, providing database queries
// for opportunity listings with filtered search, publish state, and pagination.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// OpportunityRepository handles opportunity database operations
type OpportunityRepository struct {
	db *sql.DB
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(db *sql.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

const opportunityColumns = `
	o.id, o.title, o.description, o.category_id, c.name, o.organization, o.location,
	o.deadline, o.published, o.created_by, o.created_at, o.updated_at
`

func scanOpportunity(scanner interface{ Scan(...interface{}) error }) (*models.Opportunity, error) {
	opp := &models.Opportunity{}
	err := scanner.Scan(
		&opp.ID,
		&opp.Title,
		&opp.Description,
		&opp.CategoryID,
		&opp.CategoryName,
		&opp.Organization,
		&opp.Location,
		&opp.Deadline,
		&opp.Published,
		&opp.CreatedBy,
		&opp.CreatedAt,
		&opp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return opp, nil
}

// CreateOpportunity creates a new opportunity listing
func (r *OpportunityRepository) CreateOpportunity(ctx context.Context, opp *models.Opportunity) error {
	opp.ID = uuid.New().String()
	opp.CreatedAt = time.Now()
	opp.UpdatedAt = time.Now()

	query := `
		INSERT INTO opportunities (id, title, description, category_id, organization, location, deadline, published, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		opp.ID,
		opp.Title,
		opp.Description,
		opp.CategoryID,
		opp.Organization,
		opp.Location,
		opp.Deadline,
		opp.Published,
		opp.CreatedBy,
		opp.CreatedAt,
		opp.UpdatedAt,
	)

	return err
}

// GetOpportunityByID retrieves an opportunity by ID, including its category name
func (r *OpportunityRepository) GetOpportunityByID(ctx context.Context, oppID string) (*models.Opportunity, error) {
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities o
		LEFT JOIN categories c ON c.id = o.category_id
		WHERE o.id = $1
	`

	opp, err := scanOpportunity(r.db.QueryRowContext(ctx, query, oppID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return opp, nil
}

// ListOpportunities retrieves opportunities matching the filter, newest first.
// Returns the page plus the total match count for pagination.
func (r *OpportunityRepository) ListOpportunities(ctx context.Context, filter models.OpportunityFilter) ([]*models.Opportunity, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM opportunities o
		LEFT JOIN categories c ON c.id = o.category_id
		WHERE 1=1
	`
	query := `
		SELECT ` + opportunityColumns + `
		FROM opportunities o
		LEFT JOIN categories c ON c.id = o.category_id
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if filter.PublishedOnly {
		countQuery += ` AND o.published = TRUE`
		query += ` AND o.published = TRUE`
	}

	if filter.OpenOnly {
		countQuery += ` AND (o.deadline IS NULL OR o.deadline > NOW())`
		query += ` AND (o.deadline IS NULL OR o.deadline > NOW())`
	}

	if filter.CategoryID != "" {
		clause := fmt.Sprintf(` AND o.category_id = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, filter.CategoryID)
		paramIndex++
	}

	if filter.Search != "" {
		clause := fmt.Sprintf(` AND (o.title ILIKE $%d OR o.description ILIKE $%d)`, paramIndex, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, "%"+filter.Search+"%")
		paramIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	opps := make([]*models.Opportunity, 0)
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, 0, err
		}
		opps = append(opps, opp)
	}

	return opps, total, rows.Err()
}

// UpdateOpportunity updates the editable fields of a listing
func (r *OpportunityRepository) UpdateOpportunity(ctx context.Context, opp *models.Opportunity) error {
	opp.UpdatedAt = time.Now()

	query := `
		UPDATE opportunities
		SET title = $1, description = $2, category_id = $3, organization = $4, location = $5, deadline = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		opp.Title,
		opp.Description,
		opp.CategoryID,
		opp.Organization,
		opp.Location,
		opp.Deadline,
		opp.UpdatedAt,
		opp.ID,
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

// SetOpportunityPublished flips the publish state of a listing
func (r *OpportunityRepository) SetOpportunityPublished(ctx context.Context, oppID string, published bool) error {
	query := `UPDATE opportunities SET published = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, published, time.Now(), oppID)
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

// DeleteOpportunity removes a listing. Bookmarks pointing at it cascade in the schema.
func (r *OpportunityRepository) DeleteOpportunity(ctx context.Context, oppID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = $1`, oppID)
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

// CountOpportunities returns total and published listing counts for the stats endpoint
func (r *OpportunityRepository) CountOpportunities(ctx context.Context) (total, published int, err error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE published) FROM opportunities`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &published)
	return total, published, err
}
