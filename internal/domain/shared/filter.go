package shared

// Filter pages and orders a list query. Repositories ignore a SortBy they do
// not know and fall back to their own default.
type Filter struct {
	Page      int
	PageSize  int
	SortBy    string
	Ascending bool
	// Status narrows the list to one lifecycle state, empty means any
	Status string
}

// DefaultFilter is the first page of 20, newest first
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: 20, SortBy: "created_at"}
}

// Offset is the number of rows before the requested page
func (f Filter) Offset() int {
	if f.Page < 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
