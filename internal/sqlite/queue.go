package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/repository"
)

// OfflineQueueRepository implements repository.OfflineQueueRepository for
// SQLite
type OfflineQueueRepository struct {
	db *DB
}

// NewOfflineQueueRepository creates a new OfflineQueueRepository
func NewOfflineQueueRepository(db *DB) *OfflineQueueRepository {
	return &OfflineQueueRepository{db: db}
}

// Enqueue stores a queued milestone update
func (q *OfflineQueueRepository) Enqueue(ctx context.Context, tenantID string, upd *component.QueuedUpdate) error {
	var confirmation sql.NullString
	if upd.Confirmation != nil {
		data, err := json.Marshal(upd.Confirmation)
		if err != nil {
			return fmt.Errorf("failed to marshal confirmation: %w", err)
		}
		confirmation = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := upd.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO offline_queue (id, tenant_id, component_id, milestone, percent, confirmation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.ExecContext(ctx, query,
		upd.ID,
		tenantID,
		upd.ComponentID,
		upd.Milestone,
		upd.Percent,
		confirmation,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue update: %w", err)
	}

	return nil
}

// ListPending returns unflushed updates in capture order
func (q *OfflineQueueRepository) ListPending(ctx context.Context, tenantID string) ([]component.QueuedUpdate, error) {
	query := `
		SELECT id, component_id, milestone, percent, confirmation, created_at
		FROM offline_queue
		WHERE tenant_id = ? AND flushed_at IS NULL
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := q.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending updates: %w", err)
	}
	defer rows.Close()

	var updates []component.QueuedUpdate
	for rows.Next() {
		var upd component.QueuedUpdate
		var confirmation sql.NullString
		if err := rows.Scan(
			&upd.ID,
			&upd.ComponentID,
			&upd.Milestone,
			&upd.Percent,
			&confirmation,
			&upd.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan queued update: %w", err)
		}
		if confirmation.Valid {
			var conf component.Confirmation
			if err := json.Unmarshal([]byte(confirmation.String), &conf); err != nil {
				return nil, fmt.Errorf("failed to unmarshal confirmation: %w", err)
			}
			upd.Confirmation = &conf
		}
		updates = append(updates, upd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queue rows: %w", err)
	}

	return updates, nil
}

// MarkFlushed stamps a queued update as flushed
func (q *OfflineQueueRepository) MarkFlushed(ctx context.Context, tenantID, id string) error {
	query := `UPDATE offline_queue SET flushed_at = ? WHERE id = ? AND tenant_id = ? AND flushed_at IS NULL`

	result, err := q.db.ExecContext(ctx, query, time.Now(), id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to mark update flushed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
