package domain

// Page size bounds for the admin listings (agents, bookings).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PaginationParams is a 1-indexed page request passed from handlers to repos.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams applies defaults to optional ?page= and ?limit= values.
// Non-positive values fall back to the defaults; limit is capped at MaxPageLimit.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: DefaultPageLimit}
	if page != nil && *page > 0 {
		p.Page = *page
	}
	if limit != nil && *limit > 0 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	return p
}

// Offset is the SQL OFFSET for p.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total / Limit); zero when there are no rows.
func (p PaginationParams) TotalPages(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
