package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pipetally/pipetally/internal/domain/component"
)

// SearchRepository implements repository.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over component display identity and
// line numbers
func (r *SearchRepository) Search(ctx context.Context, tenantID, query string, opts component.SearchOptions) ([]component.SearchResult, error) {
	baseQuery := `
		SELECT
			c.id, c.drawing_id, c.type, c.display, c.percent_complete,
			components_fts.rank as rank,
			snippet(components_fts, 0, '', '', '…', 12) as snippet
		FROM components_fts
		JOIN components c ON c.rowid = components_fts.rowid
		WHERE c.tenant_id = ? AND components_fts MATCH ?
	`

	// Quote the user query as a phrase so punctuation-heavy identifiers
	// like "TP-1401" don't trip the FTS5 query parser.
	phrase := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`

	args := []interface{}{tenantID, phrase}
	conditions := []string{}

	if len(opts.Types) > 0 {
		placeholders := make([]string, len(opts.Types))
		for i, typ := range opts.Types {
			placeholders[i] = "?"
			args = append(args, typ)
		}
		conditions = append(conditions, fmt.Sprintf("c.type IN (%s)", strings.Join(placeholders, ",")))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	baseQuery += " ORDER BY rank"

	if opts.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		baseQuery += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search components: %w", err)
	}
	defer rows.Close()

	var results []component.SearchResult
	for rows.Next() {
		var result component.SearchResult
		err := rows.Scan(
			&result.Component.ID,
			&result.Component.DrawingID,
			&result.Component.Type,
			&result.Component.Display,
			&result.Component.PercentComplete,
			&result.Rank,
			&result.Snippet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}

	return results, nil
}
