package knowledge

import (
	"context"

	"github.com/agrisight/paddy/internal/domain"
)

// Repository serves the seeded knowledge base. Read-only; content changes
// only through migrations.
type Repository interface {
	List(ctx context.Context) ([]domain.KnowledgeItem, error)
}
