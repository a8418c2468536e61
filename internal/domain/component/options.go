package component

// SearchOptions provides filtering options for component search.
type SearchOptions struct {
	Types  []Type
	Limit  int
	Offset int
}
