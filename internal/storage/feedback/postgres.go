// Package feedback stores user feedback rows in PostgreSQL.
package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrisight/paddy/internal/domain"
	"github.com/agrisight/paddy/internal/storage/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	if fb.Text == "" {
		return nil, domain.ErrMissingText
	}
	if fb.Status == "" {
		fb.Status = domain.FeedbackNew
	}

	query := `
		INSERT INTO feedbacks (user_id, username, text, result_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	out := *fb
	err := r.db.QueryRowContext(ctx, query,
		fb.UserID, fb.Username, fb.Text, fb.ResultID, string(fb.Status),
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return &out, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.Feedback, error) {
	query := `
		SELECT id, COALESCE(user_id, ''), COALESCE(username, ''), text,
		       COALESCE(result_id, ''), status, created_at
		FROM feedbacks
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select feedbacks: %w", err)
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.Username, &fb.Text, &fb.ResultID, &fb.Status, &fb.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	switch status {
	case domain.FeedbackNew, domain.FeedbackInReview, domain.FeedbackResolved:
	default:
		return nil, domain.ErrInvalidFeedbackState
	}

	query := `
		UPDATE feedbacks SET status = $1 WHERE id = $2
		RETURNING id, COALESCE(user_id, ''), COALESCE(username, ''), text,
		          COALESCE(result_id, ''), status, created_at
	`
	var fb domain.Feedback
	err := r.db.QueryRowContext(ctx, query, string(status), id).Scan(
		&fb.ID, &fb.UserID, &fb.Username, &fb.Text, &fb.ResultID, &fb.Status, &fb.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return &fb, nil
}
