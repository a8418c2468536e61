package mcp

import (
	"context"
	"errors"

	"github.com/pipetally/pipetally/internal/domain/activity"
	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
	"github.com/pipetally/pipetally/internal/domain/view"
)

// DrawingService defines drawing operations needed by MCP.
type DrawingService interface {
	List(ctx context.Context, tenantID string) ([]drawing.Drawing, error)
	Get(ctx context.Context, tenantID, id string) (*drawing.Drawing, error)
}

// ComponentService defines component operations needed by MCP.
type ComponentService interface {
	Get(ctx context.Context, tenantID, id string) (*component.Component, error)
	ListByDrawing(ctx context.Context, tenantID, drawingID string) ([]component.Component, error)
	Search(ctx context.Context, tenantID, query string, opts component.SearchOptions) ([]component.SearchResult, error)
	UpdateMilestone(ctx context.Context, tenantID string, req component.UpdateMilestoneRequest) (*component.UpdateResult, error)
	FlushQueue(ctx context.Context, tenantID string) (*component.FlushResult, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecent(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// Handler dispatches MCP tool calls to domain services.
type Handler struct {
	drawings   DrawingService
	components ComponentService
	activity   ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(drawings DrawingService, components ComponentService, activitySvc ActivityService) *Handler {
	return &Handler{
		drawings:   drawings,
		components: components,
		activity:   activitySvc,
	}
}

func (h *Handler) ListDrawings(ctx context.Context, tenantID string, _ ListDrawingsParams) (*ListDrawingsResponse, error) {
	drawings, err := h.drawings.List(ctx, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ListDrawingsResponse{Drawings: drawings}, nil
}

func (h *Handler) GetDrawing(ctx context.Context, tenantID string, params GetDrawingParams) (*GetDrawingResponse, error) {
	drw, err := h.drawings.Get(ctx, tenantID, params.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetDrawingResponse{Drawing: *drw}, nil
}

func (h *Handler) ListComponents(ctx context.Context, tenantID string, params ListComponentsParams) (*ListComponentsResponse, error) {
	drw, err := h.drawings.Get(ctx, tenantID, params.DrawingID)
	if err != nil {
		return nil, mapError(err)
	}
	components, err := h.components.ListByDrawing(ctx, tenantID, params.DrawingID)
	if err != nil {
		return nil, mapError(err)
	}
	resp := make([]ComponentResponse, 0, len(components))
	for i := range components {
		resp = append(resp, componentResponse(&components[i], drw))
	}
	return &ListComponentsResponse{Components: resp}, nil
}

func (h *Handler) GetComponent(ctx context.Context, tenantID string, params GetComponentParams) (*ComponentResponse, error) {
	comp, err := h.components.Get(ctx, tenantID, params.ID)
	if err != nil {
		return nil, mapError(err)
	}
	drw, err := h.parentDrawing(ctx, tenantID, comp.DrawingID)
	if err != nil {
		return nil, mapError(err)
	}
	resp := componentResponse(comp, drw)
	return &resp, nil
}

func (h *Handler) SearchComponents(ctx context.Context, tenantID string, params SearchComponentsParams) (*SearchComponentsResponse, error) {
	results, err := h.components.Search(ctx, tenantID, params.Query, component.SearchOptions{
		Types:  params.Types,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &SearchComponentsResponse{Results: results}, nil
}

func (h *Handler) UpdateMilestone(ctx context.Context, tenantID string, params UpdateMilestoneParams) (*UpdateMilestoneResponse, error) {
	req := component.UpdateMilestoneRequest{
		ComponentID: params.ComponentID,
		Milestone:   params.Milestone,
		Percent:     params.Percent,
	}
	if params.Confirmation != nil {
		conf, err := component.NewConfirmation(component.Reason(params.Confirmation.Reason), params.Confirmation.Details)
		if err != nil {
			return nil, mapError(err)
		}
		req.Confirmation = &conf
	}

	result, err := h.components.UpdateMilestone(ctx, tenantID, req)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &UpdateMilestoneResponse{
		Changed:    result.Changed,
		Queued:     result.Queued,
		RolledBack: result.RolledBack,
	}
	if result.Component != nil {
		drw, err := h.parentDrawing(ctx, tenantID, result.Component.DrawingID)
		if err != nil {
			return nil, mapError(err)
		}
		comp := componentResponse(result.Component, drw)
		resp.Component = &comp
	}
	return resp, nil
}

func (h *Handler) GetTableWindow(ctx context.Context, tenantID string, params GetTableWindowParams) (*GetTableWindowResponse, error) {
	drawings, err := h.drawings.List(ctx, tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	componentsByDrawing := map[string][]component.Component{}
	if params.ExpandedDrawingID != "" {
		comps, err := h.components.ListByDrawing(ctx, tenantID, params.ExpandedDrawingID)
		if err != nil {
			return nil, mapError(err)
		}
		componentsByDrawing[params.ExpandedDrawingID] = comps
	}

	drawingsByID := make(map[string]*drawing.Drawing, len(drawings))
	for i := range drawings {
		drawingsByID[drawings[i].ID] = &drawings[i]
	}

	rows := view.Flatten(drawings, params.ExpandedDrawingID, componentsByDrawing)
	window := view.NewWindow(rows, view.WindowOptions{Mobile: params.Mobile})

	// Replay the expansion transition so an unset-to-set expand reports a
	// scroll target when the drawing row sits outside the viewport.
	window.ExpandTransition(params.PrevExpandedDrawingID, params.ScrollTop, params.ViewportHeight)
	var scrollTo *int
	if target, scroll := window.ExpandTransition(params.ExpandedDrawingID, params.ScrollTop, params.ViewportHeight); scroll {
		scrollTo = &target
	}

	rng := window.VisibleRange(params.ScrollTop, params.ViewportHeight)

	resp := &GetTableWindowResponse{
		ScrollTo:    scrollTo,
		TotalHeight: window.TotalHeight(),
		RowCount:    len(rows),
		Range:       rng,
		Rows:        make([]TableRowResponse, 0, rng.End-rng.Start),
	}
	offset := window.OffsetOf(rng.Start)
	for i := rng.Start; i < rng.End; i++ {
		row := rows[i]
		height := view.EstimateHeight(row)
		out := TableRowResponse{
			Type:    row.Type,
			Key:     row.Key,
			Index:   i,
			Offset:  offset,
			Height:  height,
			Drawing: row.Drawing,
		}
		if row.Component != nil {
			comp := componentResponse(row.Component, drawingsByID[row.DrawingID])
			out.Component = &comp
		}
		resp.Rows = append(resp.Rows, out)
		offset += height
	}
	return resp, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, tenantID string, params GetRecentActivityParams) (*GetRecentActivityResponse, error) {
	entries, err := h.activity.GetRecent(ctx, tenantID, activity.ListOptions{
		DrawingID:   params.DrawingID,
		ComponentID: params.ComponentID,
		Type:        params.Type,
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	resp := make([]ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ActivityEntryResponse{
			Timestamp:   entry.CreatedAt,
			Type:        entry.Type,
			DrawingID:   entry.DrawingID,
			ComponentID: entry.ComponentID,
			Milestone:   entry.Milestone,
			Summary:     entry.Summary,
			Details:     entry.Details,
		})
	}
	return &GetRecentActivityResponse{Activity: resp}, nil
}

func (h *Handler) FlushOfflineQueue(ctx context.Context, tenantID string, _ FlushOfflineQueueParams) (*FlushOfflineQueueResponse, error) {
	result, err := h.components.FlushQueue(ctx, tenantID)
	if err != nil {
		return nil, mapError(err)
	}
	return &FlushOfflineQueueResponse{Flushed: result.Flushed, Failed: result.Failed}, nil
}

// parentDrawing fetches a component's drawing for metadata resolution. A
// missing drawing resolves as nil rather than failing the component read.
func (h *Handler) parentDrawing(ctx context.Context, tenantID, drawingID string) (*drawing.Drawing, error) {
	drw, err := h.drawings.Get(ctx, tenantID, drawingID)
	if err != nil {
		if errors.Is(err, drawing.ErrDrawingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return drw, nil
}

func componentResponse(comp *component.Component, drw *drawing.Drawing) ComponentResponse {
	return ComponentResponse{
		ID:              comp.ID,
		DrawingID:       comp.DrawingID,
		Type:            comp.Type,
		Display:         comp.Display,
		DisplayIdentity: component.DisplayIdentity(comp),
		IdentityTooltip: component.IdentityTooltip(comp),
		Metadata:        component.ResolveAllMetadata(comp, drw),
		Controls:        component.ResolveControls(comp),
		PercentComplete: comp.PercentComplete,
		CanUpdate:       comp.CanUpdate,
		Revision:        comp.Revision,
		UpdatedAt:       comp.UpdatedAt,
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
