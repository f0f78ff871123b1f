// Package history is the read-model over created recognition records. It
// adds nothing beyond the record store's listing: no cache, no
// denormalization, so freshness equals store freshness.
package history

import (
	"context"
	"strings"

	"github.com/agrisight/paddy/internal/domain"
	"github.com/agrisight/paddy/internal/storage/records"
)

// Page is one page of history plus the total count for pagination UI.
type Page struct {
	Records []domain.HistoryEntry `json:"records"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
}

type Index struct {
	records records.Repository
}

func NewIndex(r records.Repository) *Index {
	return &Index{records: r}
}

// List returns the requested page for ownerID (empty = all owners), newest
// first. search matches case-insensitively against disease name and the
// yyyy-mm-dd date substring.
func (i *Index) List(ctx context.Context, ownerID string, page, limit int, search string) (*Page, error) {
	if page < 1 || limit < 1 {
		return nil, domain.ErrInvalidPageParams
	}

	entries, total, err := i.records.ListByOwner(ctx, ownerID, page, limit, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	return &Page{
		Records: entries,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}
