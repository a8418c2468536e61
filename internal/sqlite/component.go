package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/repository"
)

// ComponentRepository implements repository.ComponentRepository for SQLite
type ComponentRepository struct {
	db *DB
}

// NewComponentRepository creates a new ComponentRepository
func NewComponentRepository(db *DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// Create inserts a new component
func (r *ComponentRepository) Create(ctx context.Context, tenantID string, comp *component.Component) error {
	identityJSON, err := json.Marshal(comp.IdentityKey)
	if err != nil {
		return fmt.Errorf("failed to marshal identity key: %w", err)
	}
	templateJSON, err := json.Marshal(comp.Template)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}
	milestonesJSON, err := json.Marshal(comp.Milestones)
	if err != nil {
		return fmt.Errorf("failed to marshal milestones: %w", err)
	}
	attributesJSON, err := json.Marshal(comp.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}

	areaID, areaName := refColumns(comp.Area)
	systemID, systemName := refColumns(comp.System)
	tpID, tpName := refColumns(comp.TestPackage)

	query := `
		INSERT INTO components (
			id, tenant_id, drawing_id, type, identity_key, display,
			area_id, area_name, system_id, system_name,
			test_package_id, test_package_name,
			template, milestones, percent_complete, can_update,
			attributes, line_numbers, revision, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		comp.ID,
		tenantID,
		comp.DrawingID,
		comp.Type,
		string(identityJSON),
		comp.Display,
		areaID, areaName,
		systemID, systemName,
		tpID, tpName,
		string(templateJSON),
		string(milestonesJSON),
		comp.PercentComplete,
		comp.CanUpdate,
		string(attributesJSON),
		strings.Join(comp.Attributes.LineNumbers, " "),
		comp.Revision,
		comp.CreatedAt,
		comp.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create component: %w", err)
	}

	return nil
}

const componentColumns = `
	id, tenant_id, drawing_id, type, identity_key, display,
	area_id, area_name, system_id, system_name,
	test_package_id, test_package_name,
	template, milestones, percent_complete, can_update,
	attributes, revision, created_at, updated_at
`

func scanComponent(row interface{ Scan(...any) error }) (*component.Component, error) {
	var comp component.Component
	var identityJSON, templateJSON, milestonesJSON, attributesJSON string
	var areaID, areaName, systemID, systemName, tpID, tpName sql.NullString

	err := row.Scan(
		&comp.ID,
		&comp.TenantID,
		&comp.DrawingID,
		&comp.Type,
		&identityJSON,
		&comp.Display,
		&areaID, &areaName,
		&systemID, &systemName,
		&tpID, &tpName,
		&templateJSON,
		&milestonesJSON,
		&comp.PercentComplete,
		&comp.CanUpdate,
		&attributesJSON,
		&comp.Revision,
		&comp.CreatedAt,
		&comp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(identityJSON), &comp.IdentityKey); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity key: %w", err)
	}
	if err := json.Unmarshal([]byte(templateJSON), &comp.Template); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	if err := json.Unmarshal([]byte(milestonesJSON), &comp.Milestones); err != nil {
		return nil, fmt.Errorf("failed to unmarshal milestones: %w", err)
	}
	if err := json.Unmarshal([]byte(attributesJSON), &comp.Attributes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
	}

	comp.Area = scanRef(areaID, areaName)
	comp.System = scanRef(systemID, systemName)
	comp.TestPackage = scanRef(tpID, tpName)
	return &comp, nil
}

// Get retrieves a component by ID
func (r *ComponentRepository) Get(ctx context.Context, tenantID, id string) (*component.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = ? AND tenant_id = ?`

	comp, err := scanComponent(r.db.QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get component: %w", err)
	}
	return comp, nil
}

// ListByDrawing returns all components of a drawing in display order
func (r *ComponentRepository) ListByDrawing(ctx context.Context, tenantID, drawingID string) ([]component.Component, error) {
	query := `SELECT ` + componentColumns + `
		FROM components
		WHERE drawing_id = ? AND tenant_id = ?
		ORDER BY type ASC, display ASC`

	rows, err := r.db.QueryContext(ctx, query, drawingID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer rows.Close()

	var components []component.Component
	for rows.Next() {
		comp, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, *comp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating component rows: %w", err)
	}

	return components, nil
}

// UpdateMilestones writes the milestone values, completion rollup and
// revision with optimistic concurrency control
func (r *ComponentRepository) UpdateMilestones(ctx context.Context, tenantID string, comp *component.Component, expectedRevision int64) error {
	milestonesJSON, err := json.Marshal(comp.Milestones)
	if err != nil {
		return fmt.Errorf("failed to marshal milestones: %w", err)
	}

	query := `
		UPDATE components
		SET milestones = ?, percent_complete = ?, revision = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ? AND revision = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(milestonesJSON),
		comp.PercentComplete,
		comp.Revision,
		comp.UpdatedAt,
		comp.ID,
		tenantID,
		expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update milestones: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM components WHERE id = ? AND tenant_id = ?)`
		if err := r.db.QueryRowContext(ctx, checkQuery, comp.ID, tenantID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check component existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}

	return nil
}
