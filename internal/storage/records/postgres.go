// Package records stores finalized recognition results in PostgreSQL.
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrisight/paddy/internal/domain"
	"github.com/agrisight/paddy/internal/storage/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *domain.Diagnosis, ownerID, imageURL string) (*domain.RecognitionRecord, error) {
	id := newRecordID()

	steps, err := json.Marshal(d.Solution.Steps)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	symptoms, err := json.Marshal(d.Symptoms)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	query := `
		INSERT INTO recognition_records
			(id, owner_id, disease_name, confidence, description, cause,
			 solution_title, solution_steps, symptoms, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	var createdAt time.Time
	err = r.db.QueryRowContext(ctx, query,
		id, nullable(ownerID), d.DiseaseName, d.Confidence, d.Description, d.Cause,
		d.Solution.Title, string(steps), string(symptoms), imageURL,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	return &domain.RecognitionRecord{
		ID:          id,
		OwnerID:     ownerID,
		DiseaseName: d.DiseaseName,
		Confidence:  d.Confidence,
		Description: d.Description,
		Cause:       d.Cause,
		Solution:    d.Solution,
		Symptoms:    d.Symptoms,
		ImageURL:    imageURL,
		CreatedAt:   createdAt,
	}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.RecognitionRecord, error) {
	query := `
		SELECT id, COALESCE(owner_id, ''), disease_name, confidence,
		       COALESCE(description, ''), COALESCE(cause, ''),
		       COALESCE(solution_title, ''), COALESCE(solution_steps, ''),
		       COALESCE(symptoms, ''), COALESCE(image_url, ''), created_at
		FROM recognition_records
		WHERE id = $1
	`
	var (
		rec          domain.RecognitionRecord
		stepsJSON    string
		symptomsJSON string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.OwnerID, &rec.DiseaseName, &rec.Confidence,
		&rec.Description, &rec.Cause,
		&rec.Solution.Title, &stepsJSON, &symptomsJSON, &rec.ImageURL, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}

	rec.Solution.Steps = decodeStringList(stepsJSON)
	rec.Symptoms = decodeStringList(symptomsJSON)
	return &rec, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, page, pageSize int, search string) ([]domain.HistoryEntry, int, error) {
	if page < 1 || pageSize < 1 {
		return nil, 0, domain.ErrInvalidPageParams
	}

	where := `
		WHERE ($1 = '' OR owner_id = $1)
		  AND ($2 = ''
		       OR LOWER(disease_name) LIKE '%' || LOWER($2) || '%'
		       OR to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') LIKE '%' || $2 || '%')
	`

	var total int
	countQuery := "SELECT COUNT(*) FROM recognition_records " + where
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	listQuery := `
		SELECT id, to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'),
		       COALESCE(image_url, ''), disease_name, confidence
		FROM recognition_records ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, listQuery, ownerID, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.ImageURL, &e.DiseaseName, &e.Confidence); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// newRecordID returns a fresh 32-char hex identifier. Collision probability
// for random UUIDs is negligible; identifiers are never reused.
func newRecordID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// decodeStringList reads a JSON array, falling back to newline splitting
// for rows written by earlier ingests that stored plain text.
func decodeStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
