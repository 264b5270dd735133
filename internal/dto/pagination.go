package dto

// PageQuery carries the page/limit query parameters of list endpoints.
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize applies the default page size and clamps invalid values.
func (p PageQuery) Normalize() PageQuery {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	return p
}

// Offset returns the number of rows to skip for the current page.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes the pagination section of list responses.
type PageMeta struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
}

// NewPageMeta computes pagination metadata for a total row count.
func NewPageMeta(total int64, page PageQuery) PageMeta {
	totalPages := int(total) / page.Limit
	if int(total)%page.Limit != 0 {
		totalPages++
	}
	return PageMeta{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page.Page,
		PerPage:     page.Limit,
	}
}
