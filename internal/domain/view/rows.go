package view

import (
	"github.com/pipetally/pipetally/internal/domain/component"
	"github.com/pipetally/pipetally/internal/domain/drawing"
)

// RowType tags the two kinds of rows in the flattened table.
type RowType string

const (
	RowDrawing   RowType = "drawing"
	RowComponent RowType = "component"
)

// Row is one entry of the flattened accordion table. Exactly one of
// Drawing/Component is set, per Type.
type Row struct {
	Type      RowType              `json:"type"`
	Key       string               `json:"key"`
	Drawing   *drawing.Drawing     `json:"drawing,omitempty"`
	Component *component.Component `json:"component,omitempty"`
	DrawingID string               `json:"drawing_id"`
}

// Flatten converts the drawings plus accordion expansion state into a
// single ordered row list. One drawing row per drawing in input order;
// immediately after the expanded drawing's row come its component rows in
// their given order. At most one drawing contributes component rows per
// call, which enforces the accordion structurally. Flatten is a pure
// function of its three inputs.
func Flatten(drawings []drawing.Drawing, expandedDrawingID string, componentsByDrawing map[string][]component.Component) []Row {
	size := len(drawings)
	if expandedDrawingID != "" {
		size += len(componentsByDrawing[expandedDrawingID])
	}

	rows := make([]Row, 0, size)
	for i := range drawings {
		drw := &drawings[i]
		rows = append(rows, Row{
			Type:      RowDrawing,
			Key:       "drawing:" + drw.ID,
			Drawing:   drw,
			DrawingID: drw.ID,
		})
		if expandedDrawingID == "" || drw.ID != expandedDrawingID {
			continue
		}
		comps := componentsByDrawing[drw.ID]
		for j := range comps {
			comp := &comps[j]
			rows = append(rows, Row{
				Type:      RowComponent,
				Key:       "component:" + comp.ID,
				Component: comp,
				DrawingID: drw.ID,
			})
		}
	}
	return rows
}
