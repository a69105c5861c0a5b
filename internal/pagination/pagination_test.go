package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{
			name: "empty request gets every default",
			in:   PageRequest{},
			want: PageRequest{SortBy: "createdAt", SortDirection: Desc, PageNumber: 1, PageSize: 10},
		},
		{
			name: "zero page size falls back to ten",
			in:   PageRequest{SortBy: "name", SortDirection: Asc, PageNumber: 2, PageSize: 0},
			want: PageRequest{SortBy: "name", SortDirection: Asc, PageNumber: 2, PageSize: 10},
		},
		{
			name: "negative page number falls back to one",
			in:   PageRequest{PageNumber: -3, PageSize: 5},
			want: PageRequest{SortBy: "createdAt", SortDirection: Desc, PageNumber: 1, PageSize: 5},
		},
		{
			name: "unknown direction falls back to desc",
			in:   PageRequest{SortDirection: "sideways", PageNumber: 1, PageSize: 1},
			want: PageRequest{SortBy: "createdAt", SortDirection: Desc, PageNumber: 1, PageSize: 1},
		},
		{
			name: "direction is case insensitive",
			in:   PageRequest{SortDirection: "ASC"},
			want: PageRequest{SortBy: "createdAt", SortDirection: Asc, PageNumber: 1, PageSize: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, 0, PageRequest{PageNumber: 1, PageSize: 10}.Skip())
	assert.Equal(t, 20, PageRequest{PageNumber: 3, PageSize: 10}.Skip())
	assert.Equal(t, 0, PageRequest{PageNumber: 0, PageSize: 10}.Skip())
}

func TestSkip_SaturatesInsteadOfWrapping(t *testing.T) {
	tests := []PageRequest{
		{PageNumber: 4, PageSize: 1 << 62},
		{PageNumber: 1 << 62, PageSize: 10},
		{PageNumber: 1<<62 + 1, PageSize: 4},
		{PageNumber: math.MaxInt, PageSize: math.MaxInt},
	}
	for _, p := range tests {
		assert.Equal(t, math.MaxInt, p.Skip(), "Skip() for page %d of size %d", p.PageNumber, p.PageSize)
	}
	assert.Equal(t, 1<<62, PageRequest{PageNumber: 2, PageSize: 1 << 62}.Skip(), "largest product that still fits")
}

func TestPagesCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{total: 0, size: 10, want: 0},
		{total: 1, size: 10, want: 1},
		{total: 10, size: 10, want: 1},
		{total: 11, size: 10, want: 2},
		{total: 25, size: 3, want: 9},
		{total: 5, size: 0, want: 0},
		{total: 5, size: math.MaxInt, want: 1},
		{total: math.MaxInt, size: 2, want: math.MaxInt/2 + 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PagesCount(tt.total, tt.size), "PagesCount(%d, %d)", tt.total, tt.size)
	}
}

func TestNewResult(t *testing.T) {
	req := PageRequest{PageNumber: 2, PageSize: 3}.Normalize()

	got := NewResult[string](req, 7, nil)

	assert.Equal(t, 3, got.PagesCount)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 3, got.PageSize)
	assert.Equal(t, 7, got.TotalCount)
	assert.NotNil(t, got.Items, "items must encode as [] rather than null")
}

func TestMap(t *testing.T) {
	page := NewResult(PageRequest{}.Normalize(), 2, []int{1, 2})

	got := Map(page, func(_ int, n int) int { return n * 10 })

	assert.Equal(t, []int{10, 20}, got.Items)
	assert.Equal(t, page.TotalCount, got.TotalCount)
	assert.Equal(t, page.PagesCount, got.PagesCount)
}

func TestFromRequest(t *testing.T) {
	t.Run("reads every parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/blogs?sortBy=name&sortDirection=asc&pageNumber=3&pageSize=5", nil)
		assert.Equal(t, PageRequest{SortBy: "name", SortDirection: Asc, PageNumber: 3, PageSize: 5}, FromRequest(r))
	})

	t.Run("garbage falls back to defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/blogs?pageNumber=abc&pageSize=-1&sortDirection=up", nil)
		assert.Equal(t, PageRequest{SortBy: "createdAt", SortDirection: Desc, PageNumber: 1, PageSize: 10}, FromRequest(r))
	})
}
