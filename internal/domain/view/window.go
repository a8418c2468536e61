package view

import "github.com/pipetally/pipetally/internal/domain/component"

// Height estimates per row shape, in pixels. A measured height always
// overrides the estimate once reported.
const (
	HeightDrawing       = 48
	HeightDiscreteRow   = 56
	HeightAggregateRow  = 72
	HeightPartialRow    = 112
	DefaultOverscan     = 10
	ConstrainedOverscan = 5
)

// EstimateHeight returns the default height estimate for a row. Component
// rows with any partial milestone get room for label plus input; aggregate
// runs use a fixed compact layout; discrete-only rows are shortest.
func EstimateHeight(row Row) int {
	if row.Type == RowDrawing {
		return HeightDrawing
	}
	comp := row.Component
	if comp == nil {
		return HeightDiscreteRow
	}
	if component.IsAggregate(comp.Type, comp.IdentityKey) {
		return HeightAggregateRow
	}
	for _, cfg := range comp.Template.Milestones {
		if cfg.IsPartial {
			return HeightPartialRow
		}
	}
	return HeightDiscreteRow
}

// Range is a half-open row index range [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Window computes the visible slice of a flattened row list with
// overscan, supporting dynamic remeasurement of rendered rows.
type Window struct {
	rows     []Row
	measured map[int]int
	overscan int

	expandedDrawingID string
}

// WindowOptions configures window construction.
type WindowOptions struct {
	// Mobile shrinks the overscan margin for constrained viewports.
	Mobile bool
}

// NewWindow creates a window over a flattened row list.
func NewWindow(rows []Row, opts WindowOptions) *Window {
	overscan := DefaultOverscan
	if opts.Mobile {
		overscan = ConstrainedOverscan
	}
	return &Window{
		rows:     rows,
		measured: make(map[int]int),
		overscan: overscan,
	}
}

// SetRows replaces the row list after a re-flatten. Measured heights are
// dropped since indices no longer correspond.
func (w *Window) SetRows(rows []Row) {
	w.rows = rows
	w.measured = make(map[int]int)
}

// Remeasure records the actual rendered height of one row, overriding its
// estimate in subsequent layout passes.
func (w *Window) Remeasure(index, height int) {
	if index < 0 || index >= len(w.rows) || height <= 0 {
		return
	}
	w.measured[index] = height
}

func (w *Window) heightAt(index int) int {
	if h, ok := w.measured[index]; ok {
		return h
	}
	return EstimateHeight(w.rows[index])
}

// OffsetOf returns the top offset of a row in the laid-out list.
func (w *Window) OffsetOf(index int) int {
	offset := 0
	for i := 0; i < index && i < len(w.rows); i++ {
		offset += w.heightAt(i)
	}
	return offset
}

// TotalHeight returns the full laid-out height of the row list.
func (w *Window) TotalHeight() int {
	return w.OffsetOf(len(w.rows))
}

// VisibleRange computes the row index range covering the viewport plus
// the overscan margin on both sides.
func (w *Window) VisibleRange(scrollTop, viewportHeight int) Range {
	if len(w.rows) == 0 {
		return Range{}
	}
	if scrollTop < 0 {
		scrollTop = 0
	}

	start := 0
	offset := 0
	for start < len(w.rows) && offset+w.heightAt(start) <= scrollTop {
		offset += w.heightAt(start)
		start++
	}

	end := start
	for end < len(w.rows) && offset < scrollTop+viewportHeight {
		offset += w.heightAt(end)
		end++
	}

	start -= w.overscan
	if start < 0 {
		start = 0
	}
	end += w.overscan
	if end > len(w.rows) {
		end = len(w.rows)
	}
	return Range{Start: start, End: end}
}

// ScrollToDrawingIndex returns the scroll offset that aligns the given
// drawing row (index among drawing rows only) to the top of the viewport.
// Used by search/jump features. Returns -1 when out of range.
func (w *Window) ScrollToDrawingIndex(drawingIndex int) int {
	seen := 0
	for i := range w.rows {
		if w.rows[i].Type != RowDrawing {
			continue
		}
		if seen == drawingIndex {
			return w.OffsetOf(i)
		}
		seen++
	}
	return -1
}

// ExpandTransition records an expanded-drawing change and reports whether
// the drawing row should be scrolled into view: only on an unset-to-set
// transition, and only when the row is not already fully visible.
// Collapsing never scrolls. The returned target is the row's top offset.
func (w *Window) ExpandTransition(next string, scrollTop, viewportHeight int) (target int, scroll bool) {
	prev := w.expandedDrawingID
	w.expandedDrawingID = next

	if prev != "" || next == "" {
		return 0, false
	}

	for i := range w.rows {
		if w.rows[i].Type == RowDrawing && w.rows[i].DrawingID == next {
			top := w.OffsetOf(i)
			bottom := top + w.heightAt(i)
			if top >= scrollTop && bottom <= scrollTop+viewportHeight {
				return 0, false
			}
			return top, true
		}
	}
	return 0, false
}

// ExpandedDrawingID returns the current accordion expansion state. It is
// owned by the table-level controller; row rendering treats it read-only.
func (w *Window) ExpandedDrawingID() string {
	return w.expandedDrawingID
}
