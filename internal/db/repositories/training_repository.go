// training_repository.go implements TrainingRepository, providing database queries for
// skills training announcements.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// TrainingRepository handles training database operations
type TrainingRepository struct {
	db *sql.DB
}

// NewTrainingRepository creates a new TrainingRepository
func NewTrainingRepository(db *sql.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// CreateTraining creates a new training announcement
func (r *TrainingRepository) CreateTraining(ctx context.Context, training *models.Training) error {
	training.ID = uuid.New().String()
	training.CreatedAt = time.Now()
	training.UpdatedAt = time.Now()

	query := `
		INSERT INTO trainings (id, title, description, provider, mode, start_date, url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		training.ID,
		training.Title,
		training.Description,
		training.Provider,
		training.Mode,
		training.StartDate,
		training.URL,
		training.CreatedAt,
		training.UpdatedAt,
	)

	return err
}

// GetTrainingByID retrieves a training by ID
func (r *TrainingRepository) GetTrainingByID(ctx context.Context, trainingID string) (*models.Training, error) {
	query := `
		SELECT id, title, description, provider, mode, start_date, url, created_at, updated_at
		FROM trainings
		WHERE id = $1
	`

	training := &models.Training{}
	err := r.db.QueryRowContext(ctx, query, trainingID).Scan(
		&training.ID,
		&training.Title,
		&training.Description,
		&training.Provider,
		&training.Mode,
		&training.StartDate,
		&training.URL,
		&training.CreatedAt,
		&training.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return training, nil
}

// ListTrainings retrieves trainings with optional mode filter and pagination,
// upcoming start dates first, then undated announcements
func (r *TrainingRepository) ListTrainings(ctx context.Context, mode string, limit, offset int) ([]*models.Training, int, error) {
	countQuery := `SELECT COUNT(*) FROM trainings WHERE 1=1`
	query := `
		SELECT id, title, description, provider, mode, start_date, url, created_at, updated_at
		FROM trainings
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if mode != "" {
		clause := fmt.Sprintf(` AND mode = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, mode)
		paramIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY start_date ASC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	trainings := make([]*models.Training, 0)
	for rows.Next() {
		training := &models.Training{}
		err := rows.Scan(
			&training.ID,
			&training.Title,
			&training.Description,
			&training.Provider,
			&training.Mode,
			&training.StartDate,
			&training.URL,
			&training.CreatedAt,
			&training.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		trainings = append(trainings, training)
	}

	return trainings, total, rows.Err()
}

// UpdateTraining updates the editable fields of a training
func (r *TrainingRepository) UpdateTraining(ctx context.Context, training *models.Training) error {
	training.UpdatedAt = time.Now()

	query := `
		UPDATE trainings
		SET title = $1, description = $2, provider = $3, mode = $4, start_date = $5, url = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		training.Title,
		training.Description,
		training.Provider,
		training.Mode,
		training.StartDate,
		training.URL,
		training.UpdatedAt,
		training.ID,
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

// DeleteTraining removes a training announcement
func (r *TrainingRepository) DeleteTraining(ctx context.Context, trainingID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = $1`, trainingID)
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

// CountTrainings returns the number of training announcements
func (r *TrainingRepository) CountTrainings(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trainings`).Scan(&count)
	return count, err
}
