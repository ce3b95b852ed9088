package domain

// DefaultPageSize is the page size used when none is specified.
const DefaultPageSize = 50

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 500

// PageRequest holds page/pageSize parameters for row listings.
type PageRequest struct {
	Page     int
	PageSize int
}

// Limit returns the effective page size, clamped to [1, MaxPageSize].
func (p PageRequest) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// Number returns the effective 1-based page number.
func (p PageRequest) Number() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// Offset returns the row offset for the requested page.
func (p PageRequest) Offset() int {
	return (p.Number() - 1) * p.Limit()
}

// Describe builds the pagination descriptor for a page over total rows.
// TotalPages is ceil(total/pageSize).
func (p PageRequest) Describe(total int64) Pagination {
	limit := int64(p.Limit())
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return Pagination{
		Total:      total,
		Page:       p.Number(),
		PageSize:   p.Limit(),
		TotalPages: pages,
	}
}
