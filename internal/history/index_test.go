package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisight/paddy/internal/domain"
)

type stubRecords struct {
	gotOwner  string
	gotPage   int
	gotLimit  int
	gotSearch string
	entries   []domain.HistoryEntry
	total     int
	err       error
}

func (s *stubRecords) Create(ctx context.Context, d *domain.Diagnosis, ownerID, imageURL string) (*domain.RecognitionRecord, error) {
	panic("not used")
}

func (s *stubRecords) GetByID(ctx context.Context, id string) (*domain.RecognitionRecord, error) {
	panic("not used")
}

func (s *stubRecords) ListByOwner(ctx context.Context, ownerID string, page, pageSize int, search string) ([]domain.HistoryEntry, int, error) {
	s.gotOwner, s.gotPage, s.gotLimit, s.gotSearch = ownerID, page, pageSize, search
	return s.entries, s.total, s.err
}

func TestListPassesThrough(t *testing.T) {
	stub := &stubRecords{
		entries: []domain.HistoryEntry{{ID: "r1", DiseaseName: "Rice Blast", Confidence: 95.2}},
		total:   41,
	}
	idx := NewIndex(stub)

	page, err := idx.List(context.Background(), "u1", 3, 10, "  blast ")
	require.NoError(t, err)

	assert.Equal(t, "u1", stub.gotOwner)
	assert.Equal(t, 3, stub.gotPage)
	assert.Equal(t, 10, stub.gotLimit)
	assert.Equal(t, "blast", stub.gotSearch, "search term is trimmed")
	assert.Equal(t, 41, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Records, 1)
}

func TestListEmptyPageIsNotNil(t *testing.T) {
	idx := NewIndex(&stubRecords{total: 0})

	page, err := idx.List(context.Background(), "u1", 1, 10, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Records)
	assert.Empty(t, page.Records)
}

func TestListInvalidParams(t *testing.T) {
	idx := NewIndex(&stubRecords{})

	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-2, -2}} {
		_, err := idx.List(context.Background(), "u1", tc[0], tc[1], "")
		assert.True(t, errors.Is(err, domain.ErrInvalidPageParams))
	}
}

func TestListPropagatesStoreError(t *testing.T) {
	idx := NewIndex(&stubRecords{err: errors.New("db down")})

	_, err := idx.List(context.Background(), "u1", 1, 10, "")
	assert.Error(t, err)
}
