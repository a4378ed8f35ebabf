// question_repository.go implements QuestionRepository, providing database queries for
// the portal Q&A box: youth submissions, the admin answer queue, and per-user threads.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vijana-portal/vijana-portal/internal/db/models"
)

// QuestionRepository handles question database operations
type QuestionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateQuestion creates a new pending question
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	question.ID = uuid.New().String()
	question.Status = models.QuestionStatusPending
	question.CreatedAt = time.Now()

	query := `
		INSERT INTO questions (id, user_id, question_text, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		question.ID,
		question.UserID,
		question.QuestionText,
		question.Status,
		question.CreatedAt,
	)

	return err
}

// GetQuestionByID retrieves a question by ID, including the asker's name
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, questionID string) (*models.Question, error) {
	query := `
		SELECT q.id, q.user_id, u.full_name, q.question_text, q.answer_text, q.status, q.answered_at, q.answered_by, q.created_at
		FROM questions q
		JOIN users u ON u.id = q.user_id
		WHERE q.id = $1
	`

	question := &models.Question{}
	err := r.db.QueryRowContext(ctx, query, questionID).Scan(
		&question.ID,
		&question.UserID,
		&question.UserFullName,
		&question.QuestionText,
		&question.AnswerText,
		&question.Status,
		&question.AnsweredAt,
		&question.AnsweredBy,
		&question.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return question, nil
}

// ListQuestions retrieves questions with optional status and user filters, newest first.
// Pass an empty userID to list across all users (admin answer queue).
func (r *QuestionRepository) ListQuestions(ctx context.Context, status, userID string, limit, offset int) ([]*models.Question, int, error) {
	countQuery := `SELECT COUNT(*) FROM questions q WHERE 1=1`
	query := `
		SELECT q.id, q.user_id, u.full_name, q.question_text, q.answer_text, q.status, q.answered_at, q.answered_by, q.created_at
		FROM questions q
		JOIN users u ON u.id = q.user_id
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if status != "" {
		clause := fmt.Sprintf(` AND q.status = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, status)
		paramIndex++
	}

	if userID != "" {
		clause := fmt.Sprintf(` AND q.user_id = $%d`, paramIndex)
		countQuery += clause
		query += clause
		args = append(args, userID)
		paramIndex++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY q.created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		question := &models.Question{}
		err := rows.Scan(
			&question.ID,
			&question.UserID,
			&question.UserFullName,
			&question.QuestionText,
			&question.AnswerText,
			&question.Status,
			&question.AnsweredAt,
			&question.AnsweredBy,
			&question.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, question)
	}

	return questions, total, rows.Err()
}

// AnswerQuestion records an answer and moves the question to ANSWERED
func (r *QuestionRepository) AnswerQuestion(ctx context.Context, questionID, answerText, answeredBy string) error {
	query := `
		UPDATE questions
		SET answer_text = $1, status = $2, answered_at = $3, answered_by = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		answerText,
		models.QuestionStatusAnswered,
		time.Now(),
		answeredBy,
		questionID,
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

// DeleteQuestion removes a question
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, questionID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, questionID)
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

// CountQuestionsByStatus returns the number of questions in a lifecycle state
func (r *QuestionRepository) CountQuestionsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE status = $1`, status).Scan(&count)
	return count, err
}
