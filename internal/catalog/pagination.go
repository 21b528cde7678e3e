package catalog

// Pagination describes where a list response sits within its result set
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	PrevPage    *int `json:"prevPage"`
	HasNextPage bool `json:"hasNextPage"`
	NextPage    *int `json:"nextPage"`
	TotalPages  int  `json:"totalPages"`
}

// SinglePage returns the synthetic pagination reported for results that are
// always delivered as one final page.
func SinglePage() *Pagination {
	return &Pagination{
		CurrentPage: 1,
		HasPrevPage: false,
		PrevPage:    nil,
		HasNextPage: false,
		NextPage:    nil,
		TotalPages:  1,
	}
}

// IsLast reports whether no page follows this one
func (p *Pagination) IsLast() bool {
	return p == nil || !p.HasNextPage
}
