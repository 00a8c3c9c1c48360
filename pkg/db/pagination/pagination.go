package pagination

import "gorm.io/gorm"

// Pagination is an offset-based page request.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"pageSize,default=20"`
}

// PageInfo describes the position of a page within the full result set.
type PageInfo struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Normalize clamps the request to sane bounds. maxPageSize is the server-side cap.
func (p Pagination) Normalize(defaultPageSize, maxPageSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Apply adds LIMIT/OFFSET to the statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Offset(p.Offset()).Limit(p.PageSize)
}

// BuildPageInfo computes page metadata for a total row count.
func BuildPageInfo(total int64, page Pagination) PageInfo {
	totalPages := int((total + int64(page.PageSize) - 1) / int64(page.PageSize))
	return PageInfo{
		Total:       total,
		Page:        page.Page,
		PageSize:    page.PageSize,
		TotalPages:  totalPages,
		HasNextPage: page.Page < totalPages,
		HasPrevPage: page.Page > 1,
	}
}
