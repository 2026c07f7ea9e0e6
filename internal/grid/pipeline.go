// The predicate pipeline: search, per-column filters, and lookup filters
// combined with logical AND over an in-memory snapshot.

package grid

import (
	"strings"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// Filters maps column name to an active filter value. An absent or empty
// entry means no filter; the Blank sentinel matches null/absent/empty cells;
// any other value is an exact match against the cell's stringified value.
// For timestamp columns the value is a YEAR-MONTH bucket key.
type Filters map[string]string

// ApplyPredicates returns the records surviving the search term, column
// filters, and lookup filters, preserving relative order. The input slice is
// never mutated; the result is a fresh slice sharing the record values.
func ApplyPredicates(table *schema.Table, records []schema.Record, term string, filters, lookupFilters Filters) []schema.Record {
	result := make([]schema.Record, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(term))
	for _, r := range records {
		if needle != "" && !matchesSearch(table, r, needle) {
			continue
		}
		if !matchesFilters(table, r, filters) {
			continue
		}
		if !matchesLookups(table, r, lookupFilters) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// matchesSearch reports whether any searchable column contains the lowercased
// needle. Numeric columns match on their decimal string form.
func matchesSearch(table *schema.Table, r schema.Record, needle string) bool {
	for _, name := range table.SearchColumns() {
		if strings.Contains(strings.ToLower(Stringify(r[name])), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(table *schema.Table, r schema.Record, filters Filters) bool {
	for name, want := range filters {
		if want == "" {
			continue
		}
		col := table.Column(name)
		if col != nil && col.Type == schema.TypeTimestamp {
			if !matchesBucket(r[name], want) {
				return false
			}
			continue
		}
		if want == Blank {
			if !IsBlank(r[name]) {
				return false
			}
			continue
		}
		if Stringify(r[name]) != want {
			return false
		}
	}
	return true
}

// matchesBucket applies a year-month bucket filter to a timestamp cell.
// Unparsable timestamps are excluded from bucketing and only ever match the
// Blank sentinel when the cell is actually blank.
func matchesBucket(value any, want string) bool {
	if want == Blank {
		return IsBlank(value)
	}
	key, ok := BucketKey(value)
	return ok && key == want
}

// matchesLookups applies equality filters against view-projected lookup
// columns. The view guarantees a concrete value, so no blank sentinel.
func matchesLookups(table *schema.Table, r schema.Record, lookupFilters Filters) bool {
	for name, want := range lookupFilters {
		if want == "" || !table.IsLookup(name) {
			continue
		}
		if Stringify(r[name]) != want {
			return false
		}
	}
	return true
}
