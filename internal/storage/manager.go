// Package storage wires the PostgreSQL repositories together and runs the
// embedded schema migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/agrisight/paddy/internal/storage/feedback"
	"github.com/agrisight/paddy/internal/storage/knowledge"
	"github.com/agrisight/paddy/internal/storage/migrations"
	"github.com/agrisight/paddy/internal/storage/records"
)

// Manager owns the shared connection pool and vends repositories bound to it.
type Manager struct {
	db        *sql.DB
	records   records.Repository
	feedback  feedback.Repository
	knowledge knowledge.Repository
}

func NewManager(dsn string) (*Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &Manager{
		db:        db,
		records:   records.NewPostgresRepository(db),
		feedback:  feedback.NewPostgresRepository(db),
		knowledge: knowledge.NewPostgresRepository(db),
	}, nil
}

func (m *Manager) Records() records.Repository     { return m.records }
func (m *Manager) Feedback() feedback.Repository   { return m.feedback }
func (m *Manager) Knowledge() knowledge.Repository { return m.knowledge }

// RunMigrations applies the embedded goose migrations, including the
// knowledge-base seed.
func (m *Manager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *Manager) Close() error {
	return m.db.Close()
}
