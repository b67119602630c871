package catalog

import "alcyxob/workout-tracker/internal/domain"

// Page is one page of a filtered catalog. Number is 1-based.
type Page struct {
	Items      []domain.Exercise `json:"items"`
	Number     int               `json:"page"`
	Size       int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
	TotalItems int               `json:"total_items"`
}

// PageCount is max(1, ceil(total/size)).
func PageCount(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage bounds page to [1, PageCount(total, size)].
func ClampPage(page, total, size int) int {
	if page < 1 {
		return 1
	}
	if last := PageCount(total, size); page > last {
		return last
	}
	return page
}

// Paginate slices items to the requested page, clamping out-of-range page
// numbers to the nearest valid page.
func Paginate(items []domain.Exercise, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = ClampPage(page, len(items), size)

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	pageItems := make([]domain.Exercise, end-start)
	copy(pageItems, items[start:end])

	return Page{
		Items:      pageItems,
		Number:     page,
		Size:       size,
		TotalPages: PageCount(len(items), size),
		TotalItems: len(items),
	}
}
