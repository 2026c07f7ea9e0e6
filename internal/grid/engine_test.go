// Tests for the grid engine's view state transitions, exercising the engine
// against an in-memory fake store.

package grid

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// fakeStore is an in-memory Store that records every call, so tests can
// assert which requests the engine actually issued.
type fakeStore struct {
	mu      sync.Mutex
	records map[int64]schema.Record
	nextID  int64

	fetchErr  error
	insertErr error
	updateErr error
	deleteErr error

	fetches int
	inserts []map[string]any
	updates []map[string]any
	deletes []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[int64]schema.Record{}, nextID: 1}
}

func (s *fakeStore) add(fields map[string]any) schema.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := schema.Record{"id": s.nextID}
	for k, v := range fields {
		rec[k] = v
	}
	s.records[s.nextID] = rec
	s.nextID++
	return rec.Clone()
}

func (s *fakeStore) FetchAll(ctx context.Context) ([]schema.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]schema.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i]["id"].(int64) > out[j]["id"].(int64) })
	return out, nil
}

func (s *fakeStore) Insert(ctx context.Context, fields map[string]any) (schema.Record, error) {
	s.mu.Lock()
	s.inserts = append(s.inserts, fields)
	if err := s.insertErr; err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()
	return s.add(fields), nil
}

func (s *fakeStore) UpdateByKey(ctx context.Context, id int64, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, fields)
	if s.updateErr != nil {
		return s.updateErr
	}
	rec, ok := s.records[id]
	if !ok {
		return errors.New("no such record")
	}
	for k, v := range fields {
		rec[k] = v
	}
	return nil
}

func (s *fakeStore) DeleteByKey(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.records, id)
	return nil
}

func newTestGrid(t *testing.T, n int) (*Grid, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	for i := 1; i <= n; i++ {
		store.add(map[string]any{
			"drawing_no": "A-" + string(rune('0'+i%10)) + "00",
			"title":      "Plan",
			"discipline": "ARCH",
			"revision":   int64(i),
			"status":     "IFC",
		})
	}
	g := New(&schema.Drawings, store)
	if err := g.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return g, store
}

func TestGridRefresh(t *testing.T) {
	t.Run("loads snapshot in store order", func(t *testing.T) {
		g, _ := newTestGrid(t, 3)
		view := g.CurrentView()
		if !view.Loaded {
			t.Error("view not marked loaded")
		}
		if want := []int64{3, 2, 1}; !equalIDs(view.Page.Records, want) {
			t.Errorf("got %v, want %v", ids(view.Page.Records), want)
		}
	})

	t.Run("failed fetch keeps previous snapshot", func(t *testing.T) {
		g, store := newTestGrid(t, 3)
		store.fetchErr = errors.New("connection reset")
		if err := g.Refresh(context.Background()); err == nil {
			t.Fatal("expected refresh error")
		}
		if got := g.CurrentView().Page.TotalRecords; got != 3 {
			t.Errorf("snapshot lost, %d records left", got)
		}
	})
}

func TestGridSearchAndFilters(t *testing.T) {
	g, _ := newTestGrid(t, 40)

	t.Run("search resets page", func(t *testing.T) {
		g.SetPage(3)
		view := g.SetSearch("plan")
		if view.Page.Number != 1 {
			t.Errorf("page = %d after search", view.Page.Number)
		}
		if view.Search != "plan" {
			t.Errorf("search = %q", view.Search)
		}
	})

	t.Run("filter resets page", func(t *testing.T) {
		g.SetSearch("")
		g.SetPage(2)
		view, err := g.SetFilter("status", "IFC")
		if err != nil {
			t.Fatalf("SetFilter: %v", err)
		}
		if view.Page.Number != 1 {
			t.Errorf("page = %d after filter", view.Page.Number)
		}
	})

	t.Run("unknown column rejected", func(t *testing.T) {
		if _, err := g.SetFilter("nonsense", "x"); !errors.Is(err, ErrUnknownColumn) {
			t.Errorf("err = %v, want ErrUnknownColumn", err)
		}
	})

	t.Run("clearing one filter uses empty value", func(t *testing.T) {
		view, err := g.SetFilter("status", "")
		if err != nil {
			t.Fatalf("SetFilter: %v", err)
		}
		if _, ok := view.Filters["status"]; ok {
			t.Error("status filter still present")
		}
	})

	t.Run("clear filters keeps sort", func(t *testing.T) {
		if _, err := g.ToggleSort("revision"); err != nil {
			t.Fatalf("ToggleSort: %v", err)
		}
		g.SetSearch("plan")
		view := g.ClearFilters()
		if view.Search != "" || len(view.Filters) != 0 || len(view.LookupFilters) != 0 {
			t.Errorf("filters survived clear: %+v", view)
		}
		if view.Sort == nil || view.Sort.Column != "revision" {
			t.Errorf("sort dropped by clear: %+v", view.Sort)
		}
	})
}

func TestGridToggleSort(t *testing.T) {
	g, _ := newTestGrid(t, 40)

	t.Run("new column sorts ascending", func(t *testing.T) {
		view, err := g.ToggleSort("revision")
		if err != nil {
			t.Fatalf("ToggleSort: %v", err)
		}
		if view.Sort.Direction != SortAsc {
			t.Errorf("direction = %s", view.Sort.Direction)
		}
		if got := view.Page.Records[0]["revision"].(int64); got != 1 {
			t.Errorf("first revision = %d", got)
		}
	})

	t.Run("same column flips", func(t *testing.T) {
		view, err := g.ToggleSort("revision")
		if err != nil {
			t.Fatalf("ToggleSort: %v", err)
		}
		if view.Sort.Direction != SortDesc {
			t.Errorf("direction = %s", view.Sort.Direction)
		}
	})

	t.Run("switching column resets to ascending", func(t *testing.T) {
		view, err := g.ToggleSort("drawing_no")
		if err != nil {
			t.Fatalf("ToggleSort: %v", err)
		}
		if view.Sort.Column != "drawing_no" || view.Sort.Direction != SortAsc {
			t.Errorf("sort = %+v", view.Sort)
		}
	})

	t.Run("sorting does not reset the page", func(t *testing.T) {
		g.SetPage(2)
		view, err := g.ToggleSort("revision")
		if err != nil {
			t.Fatalf("ToggleSort: %v", err)
		}
		if view.Page.Number != 2 {
			t.Errorf("page = %d after sort", view.Page.Number)
		}
	})

	t.Run("unknown column rejected", func(t *testing.T) {
		if _, err := g.ToggleSort("nope"); !errors.Is(err, ErrUnknownColumn) {
			t.Errorf("err = %v, want ErrUnknownColumn", err)
		}
	})
}

func TestGridSetPageClamps(t *testing.T) {
	g, _ := newTestGrid(t, 20)
	if view := g.SetPage(7); view.Page.Number != 2 {
		t.Errorf("page = %d, want clamp to 2", view.Page.Number)
	}
	if view := g.SetPage(-1); view.Page.Number != 1 {
		t.Errorf("page = %d, want 1", view.Page.Number)
	}
}

func equalIDs(records []schema.Record, want []int64) bool {
	if len(records) != len(want) {
		return false
	}
	for i, r := range records {
		if r["id"].(int64) != want[i] {
			return false
		}
	}
	return true
}

func TestViewRecordsDoNotAliasSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("returned view keeps its values across later commits", func(t *testing.T) {
		g, _ := newTestGrid(t, 1)
		before := g.CurrentView()
		if _, err := g.BeginEdit(1, "revision"); err != nil {
			t.Fatalf("BeginEdit: %v", err)
		}
		if _, notice, err := g.CommitEdit(ctx, "9"); err != nil || notice.Level != LevelSuccess {
			t.Fatalf("commit: notice=%+v err=%v", notice, err)
		}
		if got := before.Page.Records[0]["revision"]; got != int64(1) {
			t.Errorf("earlier view mutated, revision = %v", got)
		}
		if got := g.CurrentView().Page.Records[0]["revision"]; got != int64(9) {
			t.Errorf("fresh view revision = %v", got)
		}
	})

	// Readers iterate rows of previously returned views while commits patch
	// the snapshot; run with -race.
	t.Run("concurrent view reads and commits", func(t *testing.T) {
		g, _ := newTestGrid(t, 5)
		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				view := g.CurrentView()
				for _, r := range view.Page.Records {
					_ = r["revision"]
				}
			}
		}()
		for i := range 200 {
			id := int64(i%5 + 1)
			if _, err := g.BeginEdit(id, "revision"); err != nil {
				t.Fatalf("BeginEdit: %v", err)
			}
			if _, _, err := g.CommitEdit(ctx, strconv.Itoa(i)); err != nil {
				t.Fatalf("CommitEdit: %v", err)
			}
		}
		close(done)
		wg.Wait()
	})
}
