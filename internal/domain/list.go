package domain

// ListOpts provides pagination for list queries forwarded upstream.
type ListOpts struct {
	Limit  int
	Offset int
}

// Pagination is the pagination block attached to every list response.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}
