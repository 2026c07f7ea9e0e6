// The inline-edit controller: Idle -> Editing(record, column, pending) ->
// Idle. At most one cell is editable at a time across the whole grid.

package grid

import (
	"context"
	"fmt"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// BeginEdit opens a cell for editing, capturing its current value as the
// pending text. Opening a cell replaces any prior cursor and disarms a
// pending delete confirmation on any row.
func (g *Grid) BeginEdit(id int64, column string) (View, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	col := g.table.Column(column)
	if col == nil {
		return View{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, g.table.Name, column)
	}
	if !col.Mutable {
		return View{}, fmt.Errorf("%s.%s: %w", g.table.Name, column, schema.ErrNotMutable)
	}
	rec := g.findLocked(id)
	if rec == nil {
		return View{}, fmt.Errorf("%w: %s/%d", ErrRecordNotFound, g.table.Name, id)
	}
	g.editing = &Cursor{RecordID: id, Column: column, Pending: Stringify(rec[column])}
	g.armedID = 0
	return g.viewLocked(), nil
}

// CancelEdit abandons the pending value and returns to idle.
func (g *Grid) CancelEdit() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.editing = nil
	return g.viewLocked()
}

// CommitEdit coerces the submitted value for the open cell and issues a
// single-field update. On success exactly that field of that record is
// patched in the snapshot; on failure the snapshot is untouched and the
// notice carries the backend detail. Either way the cursor returns to idle
// and the edit is not retried.
func (g *Grid) CommitEdit(ctx context.Context, value string) (View, Notice, error) {
	g.mu.Lock()
	cur := g.editing
	g.editing = nil
	if cur == nil {
		g.mu.Unlock()
		return View{}, Notice{}, ErrNoActiveEdit
	}
	col := g.table.Column(cur.Column)
	coerced, err := col.CoerceEdit(value)
	if err != nil {
		v := g.viewLocked()
		g.mu.Unlock()
		return v, errorNotice(err.Error()), nil
	}
	g.mu.Unlock()

	// The store call runs outside the lock; other rows and tables may have
	// their own requests in flight.
	err = g.store.UpdateByKey(ctx, cur.RecordID, map[string]any{cur.Column: coerced})

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		return g.viewLocked(), errorNotice(fmt.Sprintf("failed to update %s: %v", cur.Column, err)), nil
	}
	if rec := g.findLocked(cur.RecordID); rec != nil {
		rec[cur.Column] = coerced
	}
	return g.viewLocked(), successNotice(fmt.Sprintf("%s updated", cur.Column)), nil
}
