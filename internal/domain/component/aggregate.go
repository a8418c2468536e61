package component

import (
	"fmt"
	"math"
	"strings"
)

// AggregateSuffix marks a threaded-pipe identity as an aggregate run:
// multiple physical segments merged into one tracked row, measured in
// total linear feet rather than per-unit count.
const AggregateSuffix = "_AGG"

// LinearFeetKeySuffix is appended to a milestone name to key its absolute
// linear-feet value in the raw milestone map.
const LinearFeetKeySuffix = "_LF"

// IsAggregate reports whether a component is an aggregate threaded-pipe
// run. Only threaded pipe with the aggregate marker on its pipe_id
// qualifies.
func IsAggregate(t Type, key IdentityKey) bool {
	return t == TypeThreadedPipe && strings.HasSuffix(key.PipeID(), AggregateSuffix)
}

// ToDisplayPercent converts a stored absolute linear-feet value to the
// displayed percentage. An absent or non-positive total is a degraded
// display case, not an error: it renders 0%.
func ToDisplayPercent(lf, totalLF float64) int {
	if totalLF <= 0 {
		return 0
	}
	return int(math.Round(lf / totalLF * 100))
}

// ToStoredLF converts an entered percentage back to absolute linear feet
// using the same rounding convention as ToDisplayPercent. Both directions
// round, so repeated percent↔LF round trips may drift; that is an accepted
// lossy boundary.
func ToStoredLF(percent int, totalLF float64) float64 {
	if totalLF <= 0 {
		return 0
	}
	return math.Round(float64(percent) / 100 * totalLF)
}

// DisplayIdentity composes the row identity string. Aggregate runs render
// "{size} • {totalLF} LF", falling back to original_qty when total linear
// feet is absent; everything else renders the raw display string.
func DisplayIdentity(c *Component) string {
	if !IsAggregate(c.Type, c.IdentityKey) {
		return c.Display
	}

	size := c.Attributes.Size
	if size == "" {
		size = c.Display
	}

	if c.Attributes.TotalLinearFeet != nil && *c.Attributes.TotalLinearFeet > 0 {
		return fmt.Sprintf("%s • %s LF", size, formatFeet(*c.Attributes.TotalLinearFeet))
	}
	if c.Attributes.OriginalQty != nil && *c.Attributes.OriginalQty > 0 {
		return fmt.Sprintf("%s • %s LF", size, formatFeet(*c.Attributes.OriginalQty))
	}
	return c.Display
}

// IdentityTooltip returns the hover text for an aggregate identity label:
// all line numbers plus the full pipe id. Non-aggregate components have no
// identity tooltip.
func IdentityTooltip(c *Component) string {
	if !IsAggregate(c.Type, c.IdentityKey) {
		return ""
	}
	var b strings.Builder
	if len(c.Attributes.LineNumbers) > 0 {
		b.WriteString("Line numbers: ")
		b.WriteString(strings.Join(c.Attributes.LineNumbers, ", "))
	}
	if pipeID := c.IdentityKey.PipeID(); pipeID != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Pipe ID: ")
		b.WriteString(pipeID)
	}
	return b.String()
}

func formatFeet(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
