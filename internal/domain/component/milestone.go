package component

import "encoding/json"

// Canonicalize normalizes a raw stored milestone value to a canonical
// percentage in [0,100]. Legacy booleans map to 0/100; numeric values are
// clamped for display. This is the single boundary at which the stored
// boolean/numeric duality is resolved; nothing else branches on raw types.
func Canonicalize(raw any) int {
	switch v := raw.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 100
		}
		return 0
	case int:
		return clampPercent(v)
	case int64:
		return clampPercent(int(v))
	case float64:
		return clampPercent(int(v + 0.5))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return clampPercent(int(f + 0.5))
	default:
		return 0
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ValidateWritePercent rejects out-of-range write values. Unlike display
// canonicalization, writes are never silently clamped.
func ValidateWritePercent(v int) error {
	if v < 0 || v > 100 {
		return ErrValueOutOfRange
	}
	return nil
}

// ControlKind is the tagged variant describing which editor a milestone
// renders with. It is resolved once per component+milestone pair.
type ControlKind string

const (
	// ControlDiscrete is a checkbox; canonical values are exactly 0 or 100.
	ControlDiscrete ControlKind = "discrete"
	// ControlPartial is a 0-100 percentage input.
	ControlPartial ControlKind = "partial"
	// ControlPartialAggregate is a percentage input projected from absolute
	// linear feet on an aggregate threaded-pipe component.
	ControlPartialAggregate ControlKind = "partial_aggregate"
	// ControlUnknown marks a milestone name with no matching template
	// entry; it renders a neutral placeholder instead of a control.
	ControlUnknown ControlKind = "unknown"
)

// Control is the resolved state of one milestone control.
type Control struct {
	Kind    ControlKind     `json:"kind"`
	Config  MilestoneConfig `json:"config"`
	Percent int             `json:"percent"`
	// StoredLF and TotalLF are populated for partial_aggregate controls.
	StoredLF float64 `json:"stored_lf,omitempty"`
	TotalLF  float64 `json:"total_lf,omitempty"`
}

// Checked reports whether a discrete control is in its checked state.
func (c Control) Checked() bool {
	return c.Kind == ControlDiscrete && c.Percent == 100
}

// ResolveControl resolves the control variant and current canonical value
// for one milestone of a component.
func ResolveControl(c *Component, name string) Control {
	cfg, ok := c.MilestoneConfigFor(name)
	if !ok {
		return Control{Kind: ControlUnknown}
	}

	if cfg.IsPartial && IsAggregate(c.Type, c.IdentityKey) {
		var totalLF float64
		if c.Attributes.TotalLinearFeet != nil {
			totalLF = *c.Attributes.TotalLinearFeet
		}
		storedLF := rawFloat(c.Milestones[name+LinearFeetKeySuffix])
		return Control{
			Kind:     ControlPartialAggregate,
			Config:   cfg,
			Percent:  ToDisplayPercent(storedLF, totalLF),
			StoredLF: storedLF,
			TotalLF:  totalLF,
		}
	}

	kind := ControlDiscrete
	if cfg.IsPartial {
		kind = ControlPartial
	}
	return Control{
		Kind:    kind,
		Config:  cfg,
		Percent: Canonicalize(c.Milestones[name]),
	}
}

// ResolveControls resolves all controls for a component in template order.
func ResolveControls(c *Component) []Control {
	configs := c.OrderedMilestones()
	out := make([]Control, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, ResolveControl(c, cfg.Name))
	}
	return out
}

// EffectivePercent returns the current canonical percentage of a milestone,
// LF-derived for aggregate components.
func (c *Component) EffectivePercent(name string) int {
	return ResolveControl(c, name).Percent
}

// WeightedPercentComplete computes the component's overall completion from
// milestone weights. Zero total weight yields zero.
func WeightedPercentComplete(c *Component) int {
	totalWeight := 0
	weighted := 0
	for _, cfg := range c.Template.Milestones {
		totalWeight += cfg.Weight
		weighted += cfg.Weight * c.EffectivePercent(cfg.Name)
	}
	if totalWeight == 0 {
		return 0
	}
	return int(float64(weighted)/float64(totalWeight) + 0.5)
}

func rawFloat(raw any) float64 {
	switch v := raw.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}
