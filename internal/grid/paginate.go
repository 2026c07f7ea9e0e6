// The paginator: fixed-size page slicing with 1-based page numbers.

package grid

import "github.com/sitegrid/sitegrid/internal/schema"

// PageSize is the fixed number of rows per page.
const PageSize = 15

// Page is one slice of the filtered, sorted record sequence.
type Page struct {
	Records []schema.Record

	// Number is the effective 1-based page after clamping.
	Number     int
	TotalPages int

	// StartIndex and EndIndex are the 0-based half-open bounds of the slice
	// within the filtered sequence.
	StartIndex int
	EndIndex   int

	// TotalRecords is the filtered record count. Zero means the grid shows
	// its explicit no-records state rather than an empty page 1.
	TotalRecords int
}

// Paginate slices records into the requested page. Requests outside
// [1, totalPages] are clamped rather than rejected; an empty input yields
// totalPages 0 and an empty page 1.
func Paginate(records []schema.Record, pageSize, page int) Page {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Page{
		Records:      records[start:end],
		Number:       page,
		TotalPages:   totalPages,
		StartIndex:   start,
		EndIndex:     end,
		TotalRecords: total,
	}
}
