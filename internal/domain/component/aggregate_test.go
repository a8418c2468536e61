package component_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipetally/pipetally/internal/domain/component"
)

func TestIsAggregate(t *testing.T) {
	require.True(t, component.IsAggregate(component.TypeThreadedPipe,
		component.IdentityKey{"pipe_id": "TP-1401_AGG"}))
	require.False(t, component.IsAggregate(component.TypeThreadedPipe,
		component.IdentityKey{"pipe_id": "TP-1401"}))
	require.False(t, component.IsAggregate(component.TypePipe,
		component.IdentityKey{"pipe_id": "P-9_AGG"}))
	require.False(t, component.IsAggregate(component.TypeThreadedPipe, nil))
}

func TestToDisplayPercent(t *testing.T) {
	require.Equal(t, 30, component.ToDisplayPercent(30, 100))
	require.Equal(t, 33, component.ToDisplayPercent(1, 3))
	require.Equal(t, 67, component.ToDisplayPercent(2, 3))
	require.Equal(t, 100, component.ToDisplayPercent(100, 100))
	require.Equal(t, 0, component.ToDisplayPercent(50, 0))
	require.Equal(t, 0, component.ToDisplayPercent(50, -1))
}

func TestToStoredLF(t *testing.T) {
	require.Equal(t, 30.0, component.ToStoredLF(30, 100))
	require.Equal(t, 17.0, component.ToStoredLF(33, 50)) // 16.5 rounds up
	require.Equal(t, 0.0, component.ToStoredLF(30, 0))
}

func TestLFRoundTripDrift(t *testing.T) {
	// Rounding in both directions is lossy on purpose: percent to LF and
	// back may land on a neighboring value, but never drifts further.
	totalLF := 37.0
	for pct := 0; pct <= 100; pct++ {
		lf := component.ToStoredLF(pct, totalLF)
		back := component.ToDisplayPercent(lf, totalLF)
		require.InDelta(t, pct, back, 2, "pct=%d lf=%f back=%d", pct, lf, back)
	}
}

func TestDisplayIdentity_Aggregate(t *testing.T) {
	comp := aggregatePipe(100)
	require.Equal(t, `2" • 100 LF`, component.DisplayIdentity(comp))
}

func TestDisplayIdentity_AggregateOriginalQtyFallback(t *testing.T) {
	comp := aggregatePipe(100)
	comp.Attributes.TotalLinearFeet = nil
	qty := 75.0
	comp.Attributes.OriginalQty = &qty
	require.Equal(t, `2" • 75 LF`, component.DisplayIdentity(comp))
}

func TestDisplayIdentity_AggregateNoFootage(t *testing.T) {
	comp := aggregatePipe(100)
	comp.Attributes.TotalLinearFeet = nil
	require.Equal(t, "TP-1401", component.DisplayIdentity(comp))
}

func TestDisplayIdentity_NonAggregate(t *testing.T) {
	comp := valveComponent()
	comp.Display = "V-101"
	require.Equal(t, "V-101", component.DisplayIdentity(comp))
}

func TestIdentityTooltip(t *testing.T) {
	comp := aggregatePipe(100)
	require.Equal(t, "Line numbers: 101, 205\nPipe ID: TP-1401_AGG",
		component.IdentityTooltip(comp))
}

func TestIdentityTooltip_NonAggregate(t *testing.T) {
	require.Empty(t, component.IdentityTooltip(valveComponent()))
}
