package pagination

// Page holds the classic page/limit pagination summary reported alongside
// offset-paginated listings (events, participants).
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPage normalizes page/limit and computes totals. Page numbers start
// at 1; non-positive limits fall back to def.
func NewPage(page, limit, def int, total int64) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the row offset for this page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
