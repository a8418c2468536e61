package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	DrawingID   string
	ComponentID *string
	Type        *Type
	Limit       int
	Offset      int
}
