package repository

import (
	"context"

	"github.com/pipetally/pipetally/internal/domain/activity"
	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
)

// DrawingRepository manages drawing persistence
type DrawingRepository interface {
	Create(ctx context.Context, tenantID string, drw *drawing.Drawing) error
	Get(ctx context.Context, tenantID, id string) (*drawing.Drawing, error)
	List(ctx context.Context, tenantID string) ([]drawing.Drawing, error)
	RecomputeProgress(ctx context.Context, tenantID string, drawingIDs []string) error
}

// ComponentRepository manages component persistence
type ComponentRepository interface {
	Create(ctx context.Context, tenantID string, comp *component.Component) error
	Get(ctx context.Context, tenantID, id string) (*component.Component, error)
	ListByDrawing(ctx context.Context, tenantID, drawingID string) ([]component.Component, error)
	UpdateMilestones(ctx context.Context, tenantID string, comp *component.Component, expectedRevision int64) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.Entry) error
	List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// SearchRepository manages full-text search over components
type SearchRepository interface {
	Search(ctx context.Context, tenantID, query string, opts component.SearchOptions) ([]component.SearchResult, error)
}

// OfflineQueueRepository manages the durable offline update queue
type OfflineQueueRepository interface {
	Enqueue(ctx context.Context, tenantID string, upd *component.QueuedUpdate) error
	ListPending(ctx context.Context, tenantID string) ([]component.QueuedUpdate, error)
	MarkFlushed(ctx context.Context, tenantID, id string) error
}
