package drawing

import "context"

// DrawingRepository provides persistence for drawings.
type DrawingRepository interface {
	Create(ctx context.Context, tenantID string, drw *Drawing) error
	Get(ctx context.Context, tenantID, id string) (*Drawing, error)
	List(ctx context.Context, tenantID string) ([]Drawing, error)
	RecomputeProgress(ctx context.Context, tenantID string, drawingIDs []string) error
}
