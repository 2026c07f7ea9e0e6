// Package grid implements the table view engine: an in-memory snapshot of
// one record table with search, per-column filters, date-bucket filters,
// single-key stable sort, fixed-size pagination, inline cell editing, and
// create/delete orchestration against a backing record store.
//
// One Grid instance serves one table. All derived views are recomputed from
// the snapshot on demand; mutations write through to the store and then
// patch the snapshot (or trigger a re-fetch after create) so the two stay
// consistent without re-fetching per edit.
package grid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// Store is the row-level CRUD contract the engine writes through to.
// FetchAll returns rows ordered by the table's order column, descending.
// Insert assigns the identifier and any defaulted columns server-side.
type Store interface {
	FetchAll(ctx context.Context) ([]schema.Record, error)
	Insert(ctx context.Context, fields map[string]any) (schema.Record, error)
	UpdateByKey(ctx context.Context, id int64, fields map[string]any) error
	DeleteByKey(ctx context.Context, id int64) error
}

// Cursor identifies the single cell currently open for editing.
type Cursor struct {
	RecordID int64  `json:"record_id"`
	Column   string `json:"column"`
	Pending  string `json:"pending"`
}

// View is the fully derived grid state handed to the presentation layer.
type View struct {
	Page          Page
	Search        string
	Filters       Filters
	LookupFilters Filters
	Sort          *Sort
	Editing       *Cursor
	ArmedID       int64
	Loaded        bool
}

var (
	// ErrUnknownColumn is returned when a filter, sort, or edit addresses a
	// column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoActiveEdit is returned when a commit arrives with no open cell.
	ErrNoActiveEdit = errors.New("no cell is being edited")
	// ErrRecordNotFound is returned when a row id is not in the snapshot.
	ErrRecordNotFound = errors.New("record not found")
)

// Grid is one table view engine instance. Methods are safe for concurrent
// use; the mutex stands in for the single event loop the grid historically
// ran on.
type Grid struct {
	table *schema.Table
	store Store

	mu       sync.Mutex
	snapshot []schema.Record
	loaded   bool

	search        string
	filters       Filters
	lookupFilters Filters
	sort          *Sort
	page          int

	editing *Cursor
	armedID int64
}

// New creates a grid over the given table and store. The snapshot is empty
// until the first Refresh.
func New(table *schema.Table, store Store) *Grid {
	return &Grid{
		table:         table,
		store:         store,
		filters:       Filters{},
		lookupFilters: Filters{},
		page:          1,
	}
}

// Table returns the grid's table descriptor.
func (g *Grid) Table() *schema.Table { return g.table }

// Refresh replaces the snapshot with a fresh fetch-all. Concurrent refreshes
// are not coalesced; the last fetch to complete wins. A failed fetch leaves
// the previous snapshot in place.
func (g *Grid) Refresh(ctx context.Context) error {
	records, err := g.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", g.table.Name, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snapshot = records
	g.loaded = true
	g.armedID = 0
	g.editing = nil
	return nil
}

// CurrentView derives the visible page from the snapshot through the
// predicate pipeline, comparator, and paginator.
func (g *Grid) CurrentView() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked()
}

func (g *Grid) viewLocked() View {
	filtered := ApplyPredicates(g.table, g.snapshot, g.search, g.filters, g.lookupFilters)
	sorted := ApplySort(filtered, g.sort)
	page := Paginate(sorted, PageSize, g.page)
	// The view escapes the mutex (handlers encode it after the call
	// returns), so its records must not alias the live snapshot maps that
	// CommitEdit patches in place.
	rows := make([]schema.Record, len(page.Records))
	for i, r := range page.Records {
		rows[i] = r.Clone()
	}
	page.Records = rows
	var editing *Cursor
	if g.editing != nil {
		c := *g.editing
		editing = &c
	}
	return View{
		Page:          page,
		Search:        g.search,
		Filters:       cloneFilters(g.filters),
		LookupFilters: cloneFilters(g.lookupFilters),
		Sort:          g.sort,
		Editing:       editing,
		ArmedID:       g.armedID,
		Loaded:        g.loaded,
	}
}

// SetSearch replaces the search term and resets the page to 1.
func (g *Grid) SetSearch(term string) View {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.search = term
	g.page = 1
	return g.viewLocked()
}

// SetFilter sets or clears (empty value) one column or lookup filter and
// resets the page to 1.
func (g *Grid) SetFilter(column, value string) (View, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.table.IsLookup(column):
		if value == "" {
			delete(g.lookupFilters, column)
		} else {
			g.lookupFilters[column] = value
		}
	case g.table.Column(column) != nil:
		if value == "" {
			delete(g.filters, column)
		} else {
			g.filters[column] = value
		}
	default:
		return View{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, g.table.Name, column)
	}
	g.page = 1
	return g.viewLocked(), nil
}

// ClearFilters drops every column and lookup filter and the search term,
// resetting the page to 1. The sort survives.
func (g *Grid) ClearFilters() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filters = Filters{}
	g.lookupFilters = Filters{}
	g.search = ""
	g.page = 1
	return g.viewLocked()
}

// ToggleSort applies the sort-toggle semantics: a new column sorts
// ascending, the current column flips direction. Sorting does not reset the
// page; the filtered set's composition is unchanged.
func (g *Grid) ToggleSort(column string) (View, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.table.Column(column) == nil && !g.table.IsLookup(column) {
		return View{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, g.table.Name, column)
	}
	if g.sort != nil && g.sort.Column == column {
		dir := SortAsc
		if g.sort.Direction == SortAsc {
			dir = SortDesc
		}
		g.sort = &Sort{Column: column, Direction: dir}
	} else {
		g.sort = &Sort{Column: column, Direction: SortAsc}
	}
	return g.viewLocked(), nil
}

// SetPage requests a 1-based page. Out-of-range requests are clamped by the
// paginator.
func (g *Grid) SetPage(page int) View {
	g.mu.Lock()
	defer g.mu.Unlock()
	if page < 1 {
		page = 1
	}
	g.page = page
	return g.viewLocked()
}

func (g *Grid) findLocked(id int64) schema.Record {
	for _, r := range g.snapshot {
		if rid, ok := r[g.table.IDColumn].(int64); ok && rid == id {
			return r
		}
	}
	return nil
}

func cloneFilters(f Filters) Filters {
	c := make(Filters, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}
