package services

import "github.com/LVVS666/yatube-project/models"

// Page is a bounded slice of an ordered post listing together with its
// position metadata.
type Page struct {
	Items      []models.Post `json:"items"`
	Number     int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalItems int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
	HasNext    bool          `json:"has_next"`
	HasPrev    bool          `json:"has_prev"`
}

// clampPage normalizes a requested 1-indexed page number against the total
// item count. Requests beyond the last page fall back to the last valid page
// instead of erroring; an empty result set is served as page 1.
func clampPage(requested, pageSize int, total int64) (page, totalPages int) {
	totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	page = requested
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

func newPage(items []models.Post, page, pageSize int, total int64, totalPages int) Page {
	if items == nil {
		items = []models.Post{}
	}
	return Page{
		Items:      items,
		Number:     page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
