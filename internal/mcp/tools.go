package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers the tool surface against a handler wired to the
// domain services. Handlers receive the tenant injected by the auth
// middleware.
func registerTools(server *sdkmcp.Server, services Services) {
	h := NewHandler(services.Drawings, services.Components, services.Activity)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_drawings",
		Description: "List all drawings with their progress rollups, in drawing-number order.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListDrawingsParams) (*sdkmcp.CallToolResult, *ListDrawingsResponse, error) {
		resp, err := h.ListDrawings(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_drawing",
		Description: "Get one drawing by ID, including its progress rollup.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetDrawingParams) (*sdkmcp.CallToolResult, *GetDrawingResponse, error) {
		resp, err := h.GetDrawing(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_components",
		Description: "List a drawing's components with resolved milestone controls and metadata inheritance states.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListComponentsParams) (*sdkmcp.CallToolResult, *ListComponentsResponse, error) {
		resp, err := h.ListComponents(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_component",
		Description: "Get one component by ID with resolved milestone controls, metadata states, and display identity.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetComponentParams) (*sdkmcp.CallToolResult, *ComponentResponse, error) {
		resp, err := h.GetComponent(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_components",
		Description: "Full-text search over component display identity and line numbers (e.g. \"TP-1401\" or \"205\").",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SearchComponentsParams) (*sdkmcp.CallToolResult, *SearchComponentsResponse, error) {
		resp, err := h.SearchComponents(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_milestone",
		Description: "Set one milestone's canonical percent (0 or 100 for discrete milestones). Decreases require a rollback confirmation; writes queue automatically while offline.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params UpdateMilestoneParams) (*sdkmcp.CallToolResult, *UpdateMilestoneResponse, error) {
		resp, err := h.UpdateMilestone(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_table_window",
		Description: "Get a render-ready slice of the flattened drawing/component table: visible rows plus overscan, with offsets and height estimates for virtual scrolling.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetTableWindowParams) (*sdkmcp.CallToolResult, *GetTableWindowResponse, error) {
		resp, err := h.GetTableWindow(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List milestone updates, rollbacks, and queue flushes, newest first. Filterable by drawing, component, or type.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetRecentActivityParams) (*sdkmcp.CallToolResult, *GetRecentActivityResponse, error) {
		resp, err := h.GetRecentActivity(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "flush_offline_queue",
		Description: "Replay milestone updates captured while offline, in capture order. Entries that fail to apply are kept for the next flush.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params FlushOfflineQueueParams) (*sdkmcp.CallToolResult, *FlushOfflineQueueResponse, error) {
		resp, err := h.FlushOfflineQueue(ctx, getTenantID(ctx), params)
		return nil, resp, err
	})
}
