package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryEncodingIsDeterministic(t *testing.T) {
	a := ListQuery{IncludeWatched: true, SortBy: SortByScore, Order: OrderDesc, Page: 3, PageSize: 50}
	b := ListQuery{IncludeWatched: true, SortBy: SortByScore, Order: OrderDesc, Page: 3, PageSize: 50}

	assert.Equal(t, a.Values("alice").Encode(), b.Values("alice").Encode())

	// Repeated encoding of the same value is stable too.
	first := a.Values("alice").Encode()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.Values("alice").Encode())
	}
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{IncludeWatched: false, SortBy: SortByTitle, Order: OrderAsc, Page: 2, PageSize: 10}
	v := q.Values("alice")

	assert.Equal(t, "false", v.Get("include_watched"))
	assert.Equal(t, "title", v.Get("sort_by"))
	assert.Equal(t, "asc", v.Get("order"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "alice", v.Get("user_id"))

	// Without a user the parameter is omitted entirely.
	assert.Empty(t, q.Values("").Get("user_id"))
}

func TestListQueryNormalize(t *testing.T) {
	q := ListQuery{}.Normalize()
	assert.Equal(t, SortByScore, q.SortBy)
	assert.Equal(t, OrderDesc, q.Order)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	q = ListQuery{Page: -3}.Normalize()
	assert.Equal(t, 1, q.Page)
}

func TestWithPageSizeResetsPage(t *testing.T) {
	q := ListQuery{Page: 7, PageSize: 25}

	resized := q.WithPageSize(50)
	assert.Equal(t, 50, resized.PageSize)
	assert.Equal(t, 1, resized.Page, "changing the window size must reset the page")

	same := q.WithPageSize(25)
	assert.Equal(t, 7, same.Page, "unchanged size keeps the page")
}

func TestResultWindowRange(t *testing.T) {
	tests := []struct {
		name       string
		window     ResultWindow
		wantFirst  int
		wantLast   int
		wantExpect int
	}{
		{
			name:       "middle page",
			window:     ResultWindow{TotalCount: 120, Page: 2, PageSize: 25},
			wantFirst:  26,
			wantLast:   50,
			wantExpect: 25,
		},
		{
			name:       "short final page",
			window:     ResultWindow{TotalCount: 120, Page: 5, PageSize: 25},
			wantFirst:  101,
			wantLast:   120,
			wantExpect: 20,
		},
		{
			name:       "page past the end",
			window:     ResultWindow{TotalCount: 10, Page: 3, PageSize: 25},
			wantFirst:  0,
			wantLast:   0,
			wantExpect: 0,
		},
		{
			name:       "empty list",
			window:     ResultWindow{TotalCount: 0, Page: 1, PageSize: 25},
			wantFirst:  0,
			wantLast:   0,
			wantExpect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := tt.window.Range()
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
			assert.Equal(t, tt.wantExpect, tt.window.ExpectedLen())
		})
	}
}

func TestHasMorePages(t *testing.T) {
	assert.True(t, ResultWindow{TotalCount: 120, Page: 2, PageSize: 25}.HasMorePages())
	assert.False(t, ResultWindow{TotalCount: 120, Page: 5, PageSize: 25}.HasMorePages())
}
