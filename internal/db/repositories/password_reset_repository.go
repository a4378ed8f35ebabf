// password_reset_repository.go implements PasswordResetRepository, providing database
// queries for single-use password reset tokens. Only token hashes are stored.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// PasswordResetRepository handles password reset token database operations
type PasswordResetRepository struct {
	db *sql.DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// CreatePasswordReset stores a new reset token hash
func (r *PasswordResetRepository) CreatePasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	reset.ID = uuid.New().String()
	reset.CreatedAt = time.Now()

	query := `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		reset.ID,
		reset.UserID,
		reset.TokenHash,
		reset.ExpiresAt,
		reset.CreatedAt,
	)

	return err
}

// GetPasswordResetByTokenHash retrieves a reset record by its token hash
func (r *PasswordResetRepository) GetPasswordResetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_resets
		WHERE token_hash = $1
	`

	reset := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.TokenHash,
		&reset.ExpiresAt,
		&reset.UsedAt,
		&reset.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return reset, nil
}

// MarkPasswordResetUsed stamps a reset token as redeemed so it cannot be replayed
func (r *PasswordResetRepository) MarkPasswordResetUsed(ctx context.Context, resetID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE password_resets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`,
		time.Now(), resetID,
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

// DeleteExpiredPasswordResets removes tokens past their expiry, returning the
// number of rows removed. Called opportunistically from the forgot-password flow.
func (r *PasswordResetRepository) DeleteExpiredPasswordResets(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
