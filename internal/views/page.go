// Package views composes read models for list and detail endpoints.
package views

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// ParsePage reads raw query values. Anything that is not a positive integer
// falls back to the default; limits above MaxLimit are clamped.
func ParsePage(page, limit string) Page {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginated is the list envelope every paged endpoint returns.
type Paginated[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func newPaginated[T any](docs []T, total int64, p Page) *Paginated[T] {
	if docs == nil {
		docs = []T{}
	}
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &Paginated[T]{
		Docs:        docs,
		TotalDocs:   total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  pages,
		HasNextPage: p.Page < pages,
		HasPrevPage: p.Page > 1,
	}
}
