package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisight/paddy/internal/domain"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func sampleDiagnosis() *domain.Diagnosis {
	return &domain.Diagnosis{
		DiseaseName: "Rice Blast",
		Confidence:  95.2,
		Description: "desc",
		Cause:       "cause",
		Solution:    domain.Solution{Title: "Control Measures", Steps: []string{"a", "b"}},
		Symptoms:    []string{"lesions"},
	}
}

func TestCreateReturnsFullRecord(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO recognition_records`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	rec, err := repo.Create(context.Background(), sampleDiagnosis(), "u1", "https://img/key.jpg")
	require.NoError(t, err)

	assert.Len(t, rec.ID, 32)
	assert.Equal(t, "u1", rec.OwnerID)
	assert.Equal(t, "Rice Blast", rec.DiseaseName)
	assert.Equal(t, 95.2, rec.Confidence)
	assert.Equal(t, []string{"a", "b"}, rec.Solution.Steps)
	assert.Equal(t, now, rec.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	for range 2 {
		mock.ExpectQuery(`INSERT INTO recognition_records`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	}

	a, err := repo.Create(context.Background(), sampleDiagnosis(), "", "")
	require.NoError(t, err)
	b, err := repo.Create(context.Background(), sampleDiagnosis(), "", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateStorageErrorIsPersistenceFailure(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recognition_records`).
		WillReturnError(errors.New("connection reset"))

	rec, err := repo.Create(context.Background(), sampleDiagnosis(), "u1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersistenceFailure))
	assert.Nil(t, rec)
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "disease_name", "confidence", "description", "cause",
		"solution_title", "solution_steps", "symptoms", "image_url", "created_at",
	}).AddRow("abc123", "u1", "Rice Blast", 95.2, "desc", "cause",
		"Control Measures", `["a","b"]`, `["lesions"]`, "https://img/key.jpg", now)

	mock.ExpectQuery(`FROM recognition_records\s+WHERE id = \$1`).
		WithArgs("abc123").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Rice Blast", rec.DiseaseName)
	assert.Equal(t, []string{"a", "b"}, rec.Solution.Steps)
	assert.Equal(t, []string{"lesions"}, rec.Symptoms)
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM recognition_records\s+WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetByIDLegacyNewlineSteps(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "disease_name", "confidence", "description", "cause",
		"solution_title", "solution_steps", "symptoms", "image_url", "created_at",
	}).AddRow("abc", "", "Brown Spot", 80.0, "", "",
		"", "step one\nstep two\n", "", "", time.Now())

	mock.ExpectQuery(`FROM recognition_records\s+WHERE id`).
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"step one", "step two"}, rec.Solution.Steps)
}

func TestListByOwnerPageMath(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM recognition_records`).
		WithArgs("u1", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	mock.ExpectQuery(`SELECT id, to_char`).
		WithArgs("u1", "", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "image_url", "disease_name", "confidence"}).
			AddRow("r11", "2026-08-20", "", "Rice Blast", 95.2).
			AddRow("r12", "2026-08-19", "", "Brown Spot", 80.1))

	entries, total, err := repo.ListByOwner(context.Background(), "u1", 2, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "r11", entries[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerSearchPassedThrough(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// the search clause must cover both disease name and the rendered date
	searchClause := `LOWER\(disease_name\) LIKE .+` +
		`to_char\(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'\) LIKE`

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM recognition_records .*` + searchClause).
		WithArgs("", "blast").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT id, to_char.*` + searchClause).
		WithArgs("", "blast", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "image_url", "disease_name", "confidence"}).
			AddRow("r1", "2026-08-20", "", "Rice Blast", 95.2))

	entries, total, err := repo.ListByOwner(context.Background(), "", 1, 10, "blast")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
}

func TestListByOwnerInvalidPageParams(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	for _, tc := range [][2]int{{0, 10}, {-1, 10}, {1, 0}, {1, -5}} {
		_, _, err := repo.ListByOwner(context.Background(), "u1", tc[0], tc[1], "")
		assert.True(t, errors.Is(err, domain.ErrInvalidPageParams), "page=%d size=%d", tc[0], tc[1])
	}
}
