package mcp

import (
	"time"

	"github.com/pipetally/pipetally/internal/domain/activity"
	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
	"github.com/pipetally/pipetally/internal/domain/view"
)

type ListDrawingsParams struct{}

type GetDrawingParams struct {
	ID string `json:"id"`
}

type ListComponentsParams struct {
	DrawingID string `json:"drawing_id"`
}

type GetComponentParams struct {
	ID string `json:"id"`
}

type SearchComponentsParams struct {
	Query  string           `json:"query"`
	Types  []component.Type `json:"types,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

type ConfirmationParams struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

type UpdateMilestoneParams struct {
	ComponentID  string              `json:"component_id"`
	Milestone    string              `json:"milestone"`
	Percent      int                 `json:"percent"`
	Confirmation *ConfirmationParams `json:"confirmation,omitempty"`
}

type GetTableWindowParams struct {
	ExpandedDrawingID string `json:"expanded_drawing_id,omitempty"`
	// PrevExpandedDrawingID is the expansion state of the caller's previous
	// window request; it decides whether the expanded drawing row should be
	// scrolled into view.
	PrevExpandedDrawingID string `json:"prev_expanded_drawing_id,omitempty"`
	ScrollTop             int    `json:"scroll_top,omitempty"`
	ViewportHeight        int    `json:"viewport_height"`
	Mobile                bool   `json:"mobile,omitempty"`
}

type GetRecentActivityParams struct {
	DrawingID   string         `json:"drawing_id,omitempty"`
	ComponentID *string        `json:"component_id,omitempty"`
	Type        *activity.Type `json:"type,omitempty"`
	Limit       int            `json:"limit,omitempty"`
	Offset      int            `json:"offset,omitempty"`
}

type FlushOfflineQueueParams struct{}

type ListDrawingsResponse struct {
	Drawings []drawing.Drawing `json:"drawings"`
}

type GetDrawingResponse struct {
	Drawing drawing.Drawing `json:"drawing"`
}

// ComponentResponse is a component enriched with everything a row renderer
// needs: resolved metadata states, resolved milestone controls, and the
// aggregate display identity.
type ComponentResponse struct {
	ID              string                     `json:"id"`
	DrawingID       string                     `json:"drawing_id"`
	Type            component.Type             `json:"type"`
	Display         string                     `json:"display"`
	DisplayIdentity string                     `json:"display_identity"`
	IdentityTooltip string                     `json:"identity_tooltip,omitempty"`
	Metadata        component.ResolvedMetadata `json:"metadata"`
	Controls        []component.Control        `json:"controls"`
	PercentComplete int                        `json:"percent_complete"`
	CanUpdate       bool                       `json:"can_update"`
	Revision        int64                      `json:"revision"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

type ListComponentsResponse struct {
	Components []ComponentResponse `json:"components"`
}

type SearchComponentsResponse struct {
	Results []component.SearchResult `json:"results"`
}

type UpdateMilestoneResponse struct {
	Component  *ComponentResponse `json:"component,omitempty"`
	Changed    bool               `json:"changed"`
	Queued     bool               `json:"queued"`
	RolledBack bool               `json:"rolled_back"`
}

// TableRowResponse is one materialized row of the virtual window, carrying
// its index, laid-out offset and height estimate.
type TableRowResponse struct {
	Type      view.RowType       `json:"type"`
	Key       string             `json:"key"`
	Index     int                `json:"index"`
	Offset    int                `json:"offset"`
	Height    int                `json:"height"`
	Drawing   *drawing.Drawing   `json:"drawing,omitempty"`
	Component *ComponentResponse `json:"component,omitempty"`
}

type GetTableWindowResponse struct {
	TotalHeight int                `json:"total_height"`
	RowCount    int                `json:"row_count"`
	Range       view.Range         `json:"range"`
	Rows        []TableRowResponse `json:"rows"`
	// ScrollTo is set when the freshly expanded drawing row is offscreen
	// and the client should scroll its top edge to this offset.
	ScrollTo *int `json:"scroll_to,omitempty"`
}

type ActivityEntryResponse struct {
	Timestamp   time.Time     `json:"timestamp"`
	Type        activity.Type `json:"type"`
	DrawingID   string        `json:"drawing_id,omitempty"`
	ComponentID *string       `json:"component_id,omitempty"`
	Milestone   string        `json:"milestone,omitempty"`
	Summary     string        `json:"summary"`
	Details     string        `json:"details,omitempty"`
}

type GetRecentActivityResponse struct {
	Activity []ActivityEntryResponse `json:"activity"`
}

type FlushOfflineQueueResponse struct {
	Flushed int `json:"flushed"`
	Failed  int `json:"failed"`
}
