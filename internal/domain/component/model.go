package component

import (
	"sort"
	"time"

	"github.com/pipetally/pipetally/internal/domain/drawing"
)

// Type tags the kind of physical item a component represents.
type Type string

const (
	TypeFlange       Type = "flange"
	TypeValve        Type = "valve"
	TypeFieldWeld    Type = "field_weld"
	TypePipe         Type = "pipe"
	TypeSpool        Type = "spool"
	TypeThreadedPipe Type = "threaded_pipe"
	TypeSupport      Type = "support"
	TypeGasket       Type = "gasket"
	TypeInstrument   Type = "instrument"
)

// IdentityKey is the type-specific structured key identifying a component,
// e.g. {"pipe_id": "TP-1401_AGG"} for threaded pipe.
type IdentityKey map[string]string

// PipeID returns the pipe_id entry of the identity key, if present.
func (k IdentityKey) PipeID() string {
	return k["pipe_id"]
}

// Attributes holds type-specific extras carried alongside a component.
type Attributes struct {
	TotalLinearFeet *float64 `json:"total_linear_feet,omitempty"`
	OriginalQty     *float64 `json:"original_qty,omitempty"`
	LineNumbers     []string `json:"line_numbers,omitempty"`
	Size            string   `json:"size,omitempty"`
}

// MilestoneConfig describes one milestone in a component's template.
type MilestoneConfig struct {
	Name           string `json:"name"`
	Label          string `json:"label"`
	Order          int    `json:"order"`
	IsPartial      bool   `json:"is_partial"`
	Weight         int    `json:"weight"`
	RequiresWelder bool   `json:"requires_welder,omitempty"`
}

// Template is the ordered milestone configuration assigned to a component.
type Template struct {
	Name       string            `json:"name"`
	Milestones []MilestoneConfig `json:"milestones_config"`
}

// Component is a trackable physical item progressing through milestones.
//
// Milestones holds the raw stored values keyed by milestone name: legacy
// booleans, 0-100 numerics, and for aggregate threaded pipe additionally
// "<name>_LF" absolute linear-feet values. Raw values are only interpreted
// through Canonicalize and ResolveControl.
type Component struct {
	ID              string         `json:"id"`
	TenantID        string         `json:"tenant_id"`
	DrawingID       string         `json:"drawing_id"`
	Type            Type           `json:"type"`
	IdentityKey     IdentityKey    `json:"identity_key"`
	Display         string         `json:"display"`
	Area            *drawing.Ref   `json:"area,omitempty"`
	System          *drawing.Ref   `json:"system,omitempty"`
	TestPackage     *drawing.Ref   `json:"test_package,omitempty"`
	Template        Template       `json:"template"`
	Milestones      map[string]any `json:"current_milestones"`
	PercentComplete int            `json:"percent_complete"`
	CanUpdate       bool           `json:"can_update"`
	Attributes      Attributes     `json:"attributes"`
	Revision        int64          `json:"revision"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ComponentRef is a lightweight reference used for search results.
type ComponentRef struct {
	ID              string `json:"id"`
	DrawingID       string `json:"drawing_id"`
	Type            Type   `json:"type"`
	Display         string `json:"display"`
	PercentComplete int    `json:"percent_complete"`
}

// SearchResult is a search hit with relevance.
type SearchResult struct {
	Component ComponentRef `json:"component"`
	Rank      float64      `json:"rank"`
	Snippet   string       `json:"snippet,omitempty"`
}

// OrderedMilestones returns the template's milestone configs sorted by
// their display order. The visible milestone set of a component is exactly
// this list.
func (c *Component) OrderedMilestones() []MilestoneConfig {
	out := make([]MilestoneConfig, len(c.Template.Milestones))
	copy(out, c.Template.Milestones)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// MilestoneConfigFor looks up the template entry for a milestone name.
func (c *Component) MilestoneConfigFor(name string) (MilestoneConfig, bool) {
	for _, cfg := range c.Template.Milestones {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return MilestoneConfig{}, false
}

// CloneMilestones returns a copy of the raw milestone value map, never nil.
func (c *Component) CloneMilestones() map[string]any {
	out := make(map[string]any, len(c.Milestones))
	for k, v := range c.Milestones {
		out[k] = v
	}
	return out
}
