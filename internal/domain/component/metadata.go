package component

import (
	"fmt"

	"github.com/pipetally/pipetally/internal/domain/drawing"
)

// MetadataState classifies the relationship between a component metadata
// field and the same field on its parent drawing.
type MetadataState string

const (
	// MetadataInherited: the component carries no value of its own, or its
	// value matches the drawing's by id. Rendered plain.
	MetadataInherited MetadataState = "inherited"
	// MetadataOverride: both set but different by id. Rendered with a
	// warning affordance.
	MetadataOverride MetadataState = "override"
	// MetadataAssigned: set on the component while the drawing has none.
	MetadataAssigned MetadataState = "assigned"
)

// MetadataPlaceholder is rendered when neither side carries a value.
const MetadataPlaceholder = "—"

// Resolution is the display state of one metadata field.
type Resolution struct {
	State        MetadataState `json:"state"`
	DisplayValue string        `json:"display_value"`
	Tooltip      string        `json:"tooltip,omitempty"`
}

// ResolveMetadata classifies a metadata field's display state. It is a
// pure function of its inputs: total (no error paths) and idempotent.
func ResolveMetadata(field string, componentValue, drawingValue *drawing.Ref) Resolution {
	switch {
	case componentValue == nil && drawingValue == nil:
		return Resolution{State: MetadataInherited, DisplayValue: MetadataPlaceholder}
	case componentValue == nil:
		return Resolution{State: MetadataInherited, DisplayValue: drawingValue.Name}
	case drawingValue == nil:
		return Resolution{
			State:        MetadataAssigned,
			DisplayValue: componentValue.Name,
			Tooltip:      fmt.Sprintf("%s: %s (assigned to component)", field, componentValue.Name),
		}
	case componentValue.ID == drawingValue.ID:
		return Resolution{State: MetadataInherited, DisplayValue: componentValue.Name}
	default:
		return Resolution{
			State:        MetadataOverride,
			DisplayValue: componentValue.Name,
			Tooltip: fmt.Sprintf("%s: %s (overrides drawing's %s)",
				field, componentValue.Name, drawingValue.Name),
		}
	}
}

// ResolvedMetadata bundles the three resolvable fields of a component row.
type ResolvedMetadata struct {
	Area        Resolution `json:"area"`
	System      Resolution `json:"system"`
	TestPackage Resolution `json:"test_package"`
}

// ResolveAllMetadata resolves Area, System and TestPackage against the
// parent drawing in one pass.
func ResolveAllMetadata(c *Component, drw *drawing.Drawing) ResolvedMetadata {
	var area, system, testPackage *drawing.Ref
	if drw != nil {
		area, system, testPackage = drw.Area, drw.System, drw.TestPackage
	}
	return ResolvedMetadata{
		Area:        ResolveMetadata("Area", c.Area, area),
		System:      ResolveMetadata("System", c.System, system),
		TestPackage: ResolveMetadata("Test Package", c.TestPackage, testPackage),
	}
}
