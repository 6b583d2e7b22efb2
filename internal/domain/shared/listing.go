package shared

// ListOptions controls search, ordering and paging of list queries.
// A zero Limit returns every row.
type ListOptions struct {
	Search string
	SortBy string
	Desc   bool
	Limit  int
	Offset int
}

