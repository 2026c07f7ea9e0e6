package grid

import (
	"reflect"
	"testing"

	"github.com/sitegrid/sitegrid/internal/schema"
)

func TestApplySort(t *testing.T) {
	records := []schema.Record{
		{"id": int64(1), "revision": int64(2), "drawing_no": "B-100"},
		{"id": int64(2), "revision": nil, "drawing_no": "A-200"},
		{"id": int64(3), "revision": int64(1), "drawing_no": "C-050"},
		{"id": int64(4), "revision": int64(2), "drawing_no": "A-100"},
	}

	t.Run("no sort returns input unchanged", func(t *testing.T) {
		got := ApplySort(records, nil)
		if !reflect.DeepEqual(ids(got), ids(records)) {
			t.Errorf("got %v, want input order", ids(got))
		}
	})

	t.Run("ascending numeric with nulls last", func(t *testing.T) {
		got := ApplySort(records, &Sort{Column: "revision", Direction: SortAsc})
		if want := []int64{3, 1, 4, 2}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("got %v, want %v", ids(got), want)
		}
	})

	t.Run("descending numeric with nulls first", func(t *testing.T) {
		got := ApplySort(records, &Sort{Column: "revision", Direction: SortDesc})
		if want := []int64{2, 1, 4, 3}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("got %v, want %v", ids(got), want)
		}
	})

	t.Run("string ordering", func(t *testing.T) {
		got := ApplySort(records, &Sort{Column: "drawing_no", Direction: SortAsc})
		if want := []int64{4, 2, 1, 3}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("got %v, want %v", ids(got), want)
		}
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		// ids 1 and 4 share revision 2 and must keep their snapshot order.
		got := ApplySort(records, &Sort{Column: "revision", Direction: SortAsc})
		if got[1]["id"].(int64) != 1 || got[2]["id"].(int64) != 4 {
			t.Errorf("equal keys reordered: %v", ids(got))
		}
	})

	t.Run("input not mutated", func(t *testing.T) {
		before := ids(records)
		ApplySort(records, &Sort{Column: "revision", Direction: SortAsc})
		if !reflect.DeepEqual(ids(records), before) {
			t.Error("input slice reordered in place")
		}
	})

	t.Run("mixed int and float compare numerically", func(t *testing.T) {
		mixed := []schema.Record{
			{"id": int64(1), "percent_complete": 10.5},
			{"id": int64(2), "percent_complete": int64(9)},
			{"id": int64(3), "percent_complete": 100.0},
		}
		got := ApplySort(mixed, &Sort{Column: "percent_complete", Direction: SortAsc})
		if want := []int64{2, 1, 3}; !reflect.DeepEqual(ids(got), want) {
			t.Errorf("got %v, want %v", ids(got), want)
		}
	})
}
