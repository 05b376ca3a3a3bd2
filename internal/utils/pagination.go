// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

// PageCount returns how many pages of perPage items are needed for total
// items. Zero items still take one page. A perPage <= 0 is treated as 1.
//
// Example:
//
//	utils.PageCount(0, 36)  // 1
//	utils.PageCount(36, 36) // 1
//	utils.PageCount(37, 36) // 2
func PageCount(total, perPage int) int {
	if perPage <= 0 {
		perPage = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// PageBounds returns the half-open [start, end) item range of the 1-based
// page. Pages past the end yield an empty range at total.
func PageBounds(page, perPage, total int) (start, end int) {
	if perPage <= 0 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}
	if total < 0 {
		total = 0
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end
}
