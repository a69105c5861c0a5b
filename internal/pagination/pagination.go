// Package pagination defines the page request and page result shared by
// every list endpoint.
//
// QUERY PARAMETERS:
//
//	?sortBy=createdAt&sortDirection=desc&pageNumber=1&pageSize=10
//
// Anything missing or malformed falls back to its default. A bad query
// string never fails a request, it just gets the first page.
package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultSortBy        = "createdAt"
	DefaultSortDirection = Desc
	DefaultPageNumber    = 1
	DefaultPageSize      = 10
)

// Direction is the sort order of a page.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// PageRequest describes one page of a listing. Search terms are carried
// separately by each resource's filter since each resource searches
// different fields.
type PageRequest struct {
	SortBy        string
	SortDirection Direction
	PageNumber    int
	PageSize      int
}

// Normalize replaces every missing or invalid value with its default.
func (p PageRequest) Normalize() PageRequest {
	if strings.TrimSpace(p.SortBy) == "" {
		p.SortBy = DefaultSortBy
	}
	switch Direction(strings.ToLower(string(p.SortDirection))) {
	case Asc:
		p.SortDirection = Asc
	case Desc:
		p.SortDirection = Desc
	default:
		p.SortDirection = DefaultSortDirection
	}
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Skip returns the number of rows before the requested page. It saturates
// at math.MaxInt instead of wrapping, so a huge page lands past the end.
func (p PageRequest) Skip() int {
	if p.PageNumber <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.PageNumber-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.PageNumber - 1) * p.PageSize
}

// PageResult is the envelope returned by every paginated endpoint.
type PageResult[T any] struct {
	PagesCount int `json:"pagesCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

// NewResult builds a PageResult for the (already normalized) request.
// Items is never nil so the JSON body always carries "items": [].
func NewResult[T any](req PageRequest, total int, items []T) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		PagesCount: PagesCount(total, req.PageSize),
		Page:       req.PageNumber,
		PageSize:   req.PageSize,
		TotalCount: total,
		Items:      items,
	}
}

// Map converts the items of a page while keeping its counters. fn gets
// each item with its index on the page.
func Map[T, U any](page PageResult[T], fn func(int, T) U) PageResult[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(i, item)
	}
	return PageResult[U]{
		PagesCount: page.PagesCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		Items:      items,
	}
}

// PagesCount is ceil(total / size); zero rows means zero pages.
func PagesCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}

// FromRequest reads the paging parameters from the query string and
// normalizes them.
func FromRequest(r *http.Request) PageRequest {
	q := r.URL.Query()
	return PageRequest{
		SortBy:        q.Get("sortBy"),
		SortDirection: Direction(q.Get("sortDirection")),
		PageNumber:    parseIntParam(q.Get("pageNumber")),
		PageSize:      parseIntParam(q.Get("pageSize")),
	}.Normalize()
}

// parseIntParam returns 0 for anything that is not an integer so that
// Normalize substitutes the default.
func parseIntParam(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
