package component

import (
	"context"

	"github.com/pipetally/pipetally/internal/domain/activity"
)

// ComponentRepository provides persistence for components.
type ComponentRepository interface {
	Create(ctx context.Context, tenantID string, comp *Component) error
	Get(ctx context.Context, tenantID, id string) (*Component, error)
	ListByDrawing(ctx context.Context, tenantID, drawingID string) ([]Component, error)
	UpdateMilestones(ctx context.Context, tenantID string, comp *Component, expectedRevision int64) error
}

// DrawingRepository provides the drawing progress rollup.
type DrawingRepository interface {
	RecomputeProgress(ctx context.Context, tenantID string, drawingIDs []string) error
}

// ActivityRepository logs component activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
}

// SearchRepository performs full-text search over components.
type SearchRepository interface {
	Search(ctx context.Context, tenantID, query string, opts SearchOptions) ([]SearchResult, error)
}

// OfflineQueue buffers milestone updates while the network is down. Only
// the enqueue contract matters to this service; durability and delivery
// live behind the interface.
type OfflineQueue interface {
	Enqueue(ctx context.Context, tenantID string, upd *QueuedUpdate) error
	ListPending(ctx context.Context, tenantID string) ([]QueuedUpdate, error)
	MarkFlushed(ctx context.Context, tenantID, id string) error
}

// NetworkStatus reports whether the upstream network is reachable.
type NetworkStatus interface {
	Online() bool
}
