package records

import (
	"context"

	"github.com/agrisight/paddy/internal/domain"
)

// Repository owns the durable RecognitionRecord rows. Create is the only
// mutation entry point; records are never updated or deleted here.
type Repository interface {
	// Create assigns a fresh identifier and writes all fields in a single
	// atomic insert. On error no record exists and no identifier escapes.
	Create(ctx context.Context, d *domain.Diagnosis, ownerID, imageURL string) (*domain.RecognitionRecord, error)

	// GetByID returns the full record or domain.ErrNotFound. Side-effect free.
	GetByID(ctx context.Context, id string) (*domain.RecognitionRecord, error)

	// ListByOwner returns one page of history entries ordered by creation
	// time descending, plus the total count for the same filter. An empty
	// ownerID lists records across all owners. search (optional) matches
	// case-insensitively against disease name and the yyyy-mm-dd date.
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int, search string) ([]domain.HistoryEntry, int, error)
}
