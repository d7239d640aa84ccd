package utils

import (
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	ErrInvalidPage  = errors.New("page number must be an integer greater than 0")
	ErrInvalidLimit = errors.New("limit must be an integer between 1 and 100")
)

// PageParams is a validated page/limit pair shared by every list endpoint.
type PageParams struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination validates raw query values. Empty values take the defaults;
// anything else must be an integer in range or the request is rejected.
func ParsePagination(pageStr, limitStr string) (PageParams, error) {
	p := PageParams{Page: DefaultPage, Limit: DefaultLimit}
	if s := strings.TrimSpace(pageStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return PageParams{}, ErrInvalidPage
		}
		p.Page = n
	}
	if s := strings.TrimSpace(limitStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return PageParams{}, ErrInvalidLimit
		}
		p.Limit = n
	}
	return p, nil
}

// Validate checks an already-parsed pair against the same bounds.
func (p PageParams) Validate() error {
	if p.Page < 1 {
		return ErrInvalidPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

// PageMeta is the pagination envelope attached to list responses.
type PageMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page"`
	PrevPage     *int  `json:"prev_page"`
}

// NewPageMeta derives the metadata from the total size of the matching population.
func NewPageMeta(p PageParams, total int64) PageMeta {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	m := PageMeta{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
		HasNextPage:  p.Page < totalPages,
		HasPrevPage:  p.Page > 1,
	}
	if m.HasNextPage {
		next := p.Page + 1
		m.NextPage = &next
	}
	if m.HasPrevPage {
		prev := p.Page - 1
		m.PrevPage = &prev
	}
	return m
}
