// The comparator engine: optional single-key stable sort over a snapshot.

package grid

import (
	"cmp"
	"slices"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// SortDir is the sort direction.
type SortDir string

const (
	// SortAsc sorts ascending.
	SortAsc SortDir = "asc"
	// SortDesc sorts descending.
	SortDesc SortDir = "desc"
)

// Sort is the at-most-one active sort key.
type Sort struct {
	Column    string  `json:"column"`
	Direction SortDir `json:"direction"`
}

// ApplySort returns records ordered by the sort key, or the input unchanged
// when no sort is set. The sort is stable; equal keys keep their snapshot
// order. Nulls compare larger than any concrete value, so they land last
// ascending and first descending.
func ApplySort(records []schema.Record, s *Sort) []schema.Record {
	if s == nil || s.Column == "" {
		return records
	}
	out := make([]schema.Record, len(records))
	copy(out, records)
	slices.SortStableFunc(out, func(a, b schema.Record) int {
		c := compareCells(a[s.Column], b[s.Column])
		if s.Direction == SortDesc {
			return -c
		}
		return c
	})
	return out
}

// compareCells orders two raw cell values. Values are compared as the store
// delivered them: numbers numerically, everything else as strings. Timestamp
// columns therefore compare textually, which is chronologically correct only
// for uniform same-format representations (see DESIGN.md).
func compareCells(a, b any) int {
	aNil, bNil := a == nil, b == nil
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	}
	if fa, aOK := asNumber(a); aOK {
		if fb, bOK := asNumber(b); bOK {
			return cmp.Compare(fa, fb)
		}
	}
	return cmp.Compare(Stringify(a), Stringify(b))
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
