package activity

import "time"

// Type represents the kind of activity event.
type Type string

const (
	TypeMilestoneUpdated    Type = "milestone_updated"
	TypeMilestoneRolledBack Type = "milestone_rolled_back"
	TypeComponentCreated    Type = "component_created"
	TypeDrawingCreated      Type = "drawing_created"
	TypeQueueFlushed        Type = "queue_flushed"
)

// Entry represents an event in the activity log.
type Entry struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	DrawingID   string    `json:"drawing_id"`
	ComponentID *string   `json:"component_id,omitempty"`
	Milestone   string    `json:"milestone,omitempty"`
	Type        Type      `json:"type"`
	Summary     string    `json:"summary"`
	Details     string    `json:"details,omitempty"` // JSON string
	CreatedAt   time.Time `json:"created_at"`
}
