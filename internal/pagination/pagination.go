package pagination

import (
	"math"
	"strings"
)

const MaxPageSize = 100

// Params is a 1-based page window plus an optional search text.
type Params struct {
	Page     int
	PageSize int
	Search   string
}

// Normalize clamps the window and trims the search text.
func (p Params) Normalize(defaultSize int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// Page is what every list operation returns.
type Page[T any] struct {
	Items       []T   `json:"data"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
}

func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		TotalPages:  TotalPages(total, p.PageSize),
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
	}
}
