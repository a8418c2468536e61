package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pipetally/pipetally/internal/domain/drawing"
	"github.com/pipetally/pipetally/internal/repository"
)

// DrawingRepository implements repository.DrawingRepository for SQLite
type DrawingRepository struct {
	db *DB
}

// NewDrawingRepository creates a new DrawingRepository
func NewDrawingRepository(db *DB) *DrawingRepository {
	return &DrawingRepository{db: db}
}

func refColumns(ref *drawing.Ref) (id, name sql.NullString) {
	if ref == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: ref.ID, Valid: true},
		sql.NullString{String: ref.Name, Valid: true}
}

func scanRef(id, name sql.NullString) *drawing.Ref {
	if !id.Valid {
		return nil
	}
	return &drawing.Ref{ID: id.String, Name: name.String}
}

// Create inserts a new drawing
func (r *DrawingRepository) Create(ctx context.Context, tenantID string, drw *drawing.Drawing) error {
	query := `
		INSERT INTO drawings (
			id, tenant_id, number, title, spec,
			area_id, area_name, system_id, system_name,
			test_package_id, test_package_name,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	areaID, areaName := refColumns(drw.Area)
	systemID, systemName := refColumns(drw.System)
	tpID, tpName := refColumns(drw.TestPackage)

	_, err := r.db.ExecContext(ctx, query,
		drw.ID,
		tenantID,
		drw.Number,
		drw.Title,
		drw.Spec,
		areaID, areaName,
		systemID, systemName,
		tpID, tpName,
		drw.CreatedAt,
		drw.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: drawing number %q already exists", repository.ErrInvalidInput, drw.Number)
		}
		return fmt.Errorf("failed to create drawing: %w", err)
	}

	return nil
}

const drawingColumns = `
	id, tenant_id, number, title, spec,
	area_id, area_name, system_id, system_name,
	test_package_id, test_package_name,
	completed_components, total_components, avg_percent_complete,
	created_at, updated_at
`

func scanDrawing(row interface{ Scan(...any) error }) (*drawing.Drawing, error) {
	var drw drawing.Drawing
	var areaID, areaName, systemID, systemName, tpID, tpName sql.NullString

	err := row.Scan(
		&drw.ID,
		&drw.TenantID,
		&drw.Number,
		&drw.Title,
		&drw.Spec,
		&areaID, &areaName,
		&systemID, &systemName,
		&tpID, &tpName,
		&drw.Progress.CompletedComponents,
		&drw.Progress.TotalComponents,
		&drw.Progress.AvgPercentComplete,
		&drw.CreatedAt,
		&drw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	drw.Area = scanRef(areaID, areaName)
	drw.System = scanRef(systemID, systemName)
	drw.TestPackage = scanRef(tpID, tpName)
	return &drw, nil
}

// Get retrieves a drawing by ID
func (r *DrawingRepository) Get(ctx context.Context, tenantID, id string) (*drawing.Drawing, error) {
	query := `SELECT ` + drawingColumns + ` FROM drawings WHERE id = ? AND tenant_id = ?`

	drw, err := scanDrawing(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drawing: %w", err)
	}
	return drw, nil
}

// List returns all drawings for a tenant in drawing-number order
func (r *DrawingRepository) List(ctx context.Context, tenantID string) ([]drawing.Drawing, error) {
	query := `SELECT ` + drawingColumns + ` FROM drawings WHERE tenant_id = ? ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}
	defer rows.Close()

	var drawings []drawing.Drawing
	for rows.Next() {
		drw, err := scanDrawing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drawing: %w", err)
		}
		drawings = append(drawings, *drw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drawing rows: %w", err)
	}

	return drawings, nil
}

// Tenants returns every tenant ID with at least one drawing. Used by the
// periodic recompute job to sweep all tenants.
func (r *DrawingRepository) Tenants(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT tenant_id FROM drawings ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var tenant string
		if err := rows.Scan(&tenant); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return tenants, nil
}

// RecomputeProgress refreshes the stored progress aggregates from the
// components table, for the given drawings or for the whole tenant when
// drawingIDs is empty.
func (r *DrawingRepository) RecomputeProgress(ctx context.Context, tenantID string, drawingIDs []string) error {
	query := `
		UPDATE drawings SET
			total_components = (
				SELECT COUNT(*) FROM components c
				WHERE c.drawing_id = drawings.id AND c.tenant_id = drawings.tenant_id
			),
			completed_components = (
				SELECT COUNT(*) FROM components c
				WHERE c.drawing_id = drawings.id AND c.tenant_id = drawings.tenant_id
				  AND c.percent_complete >= 100
			),
			avg_percent_complete = COALESCE(ROUND((
				SELECT AVG(c.percent_complete) FROM components c
				WHERE c.drawing_id = drawings.id AND c.tenant_id = drawings.tenant_id
			)), 0),
			updated_at = CURRENT_TIMESTAMP
		WHERE tenant_id = ?
	`

	args := []interface{}{tenantID}
	if len(drawingIDs) > 0 {
		placeholders := make([]string, len(drawingIDs))
		for i, id := range drawingIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND id IN (%s)", strings.Join(placeholders, ","))
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to recompute drawing progress: %w", err)
	}
	return nil
}
