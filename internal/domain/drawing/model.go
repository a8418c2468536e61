package drawing

import "time"

// Ref is an id+name pair for Area/System/TestPackage assignments.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Progress holds server-computed rollup figures for a drawing.
// These are derived from component milestone values and are read-only
// to callers; RecomputeProgress is the only writer.
type Progress struct {
	CompletedComponents int `json:"completed_components"`
	TotalComponents     int `json:"total_components"`
	AvgPercentComplete  int `json:"avg_percent_complete"`
}

// Drawing is a top-level grouping entity owning zero or more components.
type Drawing struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Number      string    `json:"number"`
	Title       string    `json:"title,omitempty"`
	Spec        string    `json:"spec,omitempty"`
	Area        *Ref      `json:"area,omitempty"`
	System      *Ref      `json:"system,omitempty"`
	TestPackage *Ref      `json:"test_package,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
