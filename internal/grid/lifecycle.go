// The record lifecycle controller: structured-form create with a full
// re-fetch on success, and two-step armed delete with snapshot removal.

package grid

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// FieldErrors reports per-field validation failures that block a create
// submission before any store request is issued.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Create validates and coerces the structured form input and inserts a new
// record. Validation is field-local only: numeric fields must be empty or
// parse as numbers, closed vocabularies must match. Empty strings coerce to
// null. On success the grid re-fetches the whole table rather than appending
// locally, picking up the server-assigned identifier, defaults, and
// ordering.
func (g *Grid) Create(ctx context.Context, input map[string]string) (Notice, error) {
	fields := make(map[string]any, len(input))
	errs := FieldErrors{}
	for name, raw := range input {
		col := g.table.Column(name)
		if col == nil || col.Type == schema.TypeID {
			errs[name] = "unknown field"
			continue
		}
		v, err := col.CoerceInput(raw)
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		fields[name] = v
	}
	if len(errs) > 0 {
		return Notice{}, errs
	}

	if _, err := g.store.Insert(ctx, fields); err != nil {
		return errorNotice(fmt.Sprintf("failed to create record: %v", err)), nil
	}
	if err := g.Refresh(ctx); err != nil {
		// The row is stored; only the snapshot is stale. Surface the fetch
		// failure, the next refresh reconciles.
		return errorNotice(fmt.Sprintf("record created but reload failed: %v", err)), nil
	}
	return successNotice("record created"), nil
}

// Delete implements the confirm-in-place protocol. The first call on a row
// arms its confirmation and disarms any other row; the second call on the
// armed row executes the delete. On success the record is removed from the
// snapshot by identifier; on failure the row remains. The executed return
// reports whether a delete was issued (as opposed to arming).
func (g *Grid) Delete(ctx context.Context, id int64) (View, Notice, bool, error) {
	g.mu.Lock()
	if g.findLocked(id) == nil {
		g.mu.Unlock()
		return View{}, Notice{}, false, fmt.Errorf("%w: %s/%d", ErrRecordNotFound, g.table.Name, id)
	}
	if g.armedID != id {
		g.armedID = id
		v := g.viewLocked()
		g.mu.Unlock()
		return v, Notice{}, false, nil
	}
	g.armedID = 0
	g.mu.Unlock()

	err := g.store.DeleteByKey(ctx, id)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		return g.viewLocked(), errorNotice(fmt.Sprintf("failed to delete record: %v", err)), true, nil
	}
	g.removeLocked(id)
	return g.viewLocked(), successNotice("record deleted"), true, nil
}

func (g *Grid) removeLocked(id int64) {
	for i, r := range g.snapshot {
		if rid, ok := r[g.table.IDColumn].(int64); ok && rid == id {
			g.snapshot = append(g.snapshot[:i:i], g.snapshot[i+1:]...)
			return
		}
	}
}
