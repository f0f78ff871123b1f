// Package knowledge reads the seeded rice pest/disease reference entries.
package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/agrisight/paddy/internal/domain"
	"github.com/agrisight/paddy/internal/storage/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]domain.KnowledgeItem, error) {
	query := `
		SELECT pest_id, category, disease_name, COALESCE(type_info, ''),
		       COALESCE(alias_names, ''), COALESCE(core_features, ''),
		       COALESCE(affected_parts, ''), COALESCE(pathogen_source, ''),
		       COALESCE(occurrence_conditions, ''),
		       COALESCE(agricultural_control, ''), COALESCE(physical_control, ''),
		       COALESCE(biological_control, ''), COALESCE(chemical_control, '')
		FROM knowledge_base
		ORDER BY category, pest_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select knowledge base: %w", err)
	}
	defer rows.Close()

	var items []domain.KnowledgeItem
	for rows.Next() {
		var (
			id                                            int
			aliases, parts, agri, physical, bio, chemical string
			item                                          domain.KnowledgeItem
		)
		if err := rows.Scan(&id, &item.Category, &item.Name, &item.Type,
			&aliases, &item.KeyFeatures, &parts, &item.Pathogen, &item.Conditions,
			&agri, &physical, &bio, &chemical); err != nil {
			return nil, err
		}
		item.ID = strconv.Itoa(id)
		item.Aliases = splitList(aliases)
		item.AffectedParts = splitList(parts)
		item.Controls = domain.Controls{
			Agricultural: splitList(agri),
			Physical:     splitList(physical),
			Biological:   splitList(bio),
			Chemical:     splitList(chemical),
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// splitList splits semicolon- or newline-delimited text columns into a
// clean slice.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '\n'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
