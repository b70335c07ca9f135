package api

import (
	"net/url"
	"strconv"
)

// SortKey selects the field a list window is ordered by
type SortKey string

const (
	SortByScore     SortKey = "match_score"
	SortByAddedAt   SortKey = "added_at"
	SortByTitle     SortKey = "title"
	SortByWatchedAt SortKey = "watched_at"
)

// SortOrder selects ascending or descending ordering
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// DefaultPageSize is the window size used when a query does not set one
const DefaultPageSize = 25

// ListQuery fully determines one list-items request. Two queries with equal
// field values encode to byte-identical request parameters.
type ListQuery struct {
	IncludeWatched bool
	SortBy         SortKey
	Order          SortOrder
	Page           int
	PageSize       int
}

// Normalize fills unset fields with their defaults
func (q ListQuery) Normalize() ListQuery {
	if q.SortBy == "" {
		q.SortBy = SortByScore
	}
	if q.Order == "" {
		q.Order = OrderDesc
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// WithPageSize returns the query resized to size. Changing the window size
// invalidates prior page offsets, so the page resets to 1.
func (q ListQuery) WithPageSize(size int) ListQuery {
	if size > 0 && size != q.PageSize {
		q.PageSize = size
		q.Page = 1
	}
	return q
}

// WithPage returns the query moved to page (minimum 1)
func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = max(1, page)
	return q
}

// Values encodes the query as request parameters. The encoding is a pure
// function of the query and user, and url.Values.Encode emits keys in
// sorted order, so identical queries produce identical request strings.
func (q ListQuery) Values(userID string) url.Values {
	q = q.Normalize()
	v := url.Values{}
	v.Set("include_watched", strconv.FormatBool(q.IncludeWatched))
	v.Set("sort_by", string(q.SortBy))
	v.Set("order", string(q.Order))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.PageSize))
	if userID != "" {
		v.Set("user_id", userID)
	}
	return v
}

// ResultWindow is one page of a recommendation list together with the
// reported total.
type ResultWindow struct {
	Items      []ListItem `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"limit"`
}

// Range returns the 1-based inclusive positions this window spans within
// the full list, or (0, 0) for a window past the end.
func (w ResultWindow) Range() (first, last int) {
	first = (w.Page-1)*w.PageSize + 1
	last = min(w.Page*w.PageSize, w.TotalCount)
	if first > last {
		return 0, 0
	}
	return first, last
}

// ExpectedLen returns how many items the reported total allows this window
// to hold. A server response disagreeing with this is a data-consistency
// warning, not a fatal error.
func (w ResultWindow) ExpectedLen() int {
	remaining := w.TotalCount - (w.Page-1)*w.PageSize
	return max(0, min(w.PageSize, remaining))
}

// HasMorePages reports whether a later page exists
func (w ResultWindow) HasMorePages() bool {
	return w.Page*w.PageSize < w.TotalCount
}
