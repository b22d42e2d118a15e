package store

// DefaultPageSize bounds list queries when no size is supplied.
const DefaultPageSize = 20

// MaxPageSize is the upper bound accepted for a page size.
const MaxPageSize = 100

// Page is a single page of results from a list or search query.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
}

// ClampPage normalizes page and size to the supported bounds: page is
// zero-based and never negative, size falls back to DefaultPageSize and
// is capped at MaxPageSize.
func ClampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
