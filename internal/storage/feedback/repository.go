package feedback

import (
	"context"

	"github.com/agrisight/paddy/internal/domain"
)

// Repository stores user feedback about recognition results. ResultID is
// kept as free text rather than a foreign key into recognition records.
type Repository interface {
	Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error)
}
