// Package store implements the row-level CRUD adapter over the embedded
// SQLite database, one adapter per record table. Reads select from the
// table's fetch source (the base table, or a denormalized view for
// activities); writes always target the base table by identifier.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sitegrid/sitegrid/internal/schema"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("record not found")

// Table is the record store adapter for one table.
type Table struct {
	db    *sql.DB
	table *schema.Table
}

// NewTable creates the adapter for the given table descriptor.
func NewTable(db *sql.DB, table *schema.Table) *Table {
	return &Table{db: db, table: table}
}

// fetchColumns is the select list: every schema column plus the view's
// lookup projections.
func (t *Table) fetchColumns() []string {
	cols := make([]string, 0, len(t.table.Columns)+len(t.table.LookupColumns))
	for i := range t.table.Columns {
		cols = append(cols, t.table.Columns[i].Name)
	}
	cols = append(cols, t.table.LookupColumns...)
	return cols
}

// FetchAll returns every row ordered by the table's order column descending.
func (t *Table) FetchAll(ctx context.Context) ([]schema.Record, error) {
	cols := t.fetchColumns()
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC",
		strings.Join(cols, ", "), t.table.FetchSource, t.table.OrderBy)
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.table.Name, err)
	}
	defer rows.Close()

	var records []schema.Record
	for rows.Next() {
		rec, err := scanRecord(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", t.table.Name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.table.Name, err)
	}
	return records, nil
}

// Insert stores a new row and returns it as read back through the fetch
// source, so server-assigned identifier and defaults are included.
func (t *Table) Insert(ctx context.Context, fields map[string]any) (schema.Record, error) {
	names := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i := range t.table.Columns {
		name := t.table.Columns[i].Name
		if v, ok := fields[name]; ok {
			names = append(names, name)
			args = append(args, v)
		}
	}
	var query string
	if len(names) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", t.table.Name)
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t.table.Name, strings.Join(names, ", "), placeholders(len(names)))
	}
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.table.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.table.Name, err)
	}
	return t.fetchOne(ctx, id)
}

// UpdateByKey updates the given columns of one row.
func (t *Table) UpdateByKey(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i := range t.table.Columns {
		name := t.table.Columns[i].Name
		if v, ok := fields[name]; ok {
			sets = append(sets, name+" = ?")
			args = append(args, v)
		}
	}
	if len(sets) != len(fields) {
		return fmt.Errorf("update %s: unknown column in update set", t.table.Name)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		t.table.Name, strings.Join(sets, ", "), t.table.IDColumn)
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s/%d: %w", t.table.Name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%d: %w", t.table.Name, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s/%d: %w", t.table.Name, id, ErrNotFound)
	}
	return nil
}

// DeleteByKey removes one row by identifier.
func (t *Table) DeleteByKey(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.table.Name, t.table.IDColumn)
	res, err := t.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s/%d: %w", t.table.Name, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%d: %w", t.table.Name, id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s/%d: %w", t.table.Name, id, ErrNotFound)
	}
	return nil
}

func (t *Table) fetchOne(ctx context.Context, id int64) (schema.Record, error) {
	cols := t.fetchColumns()
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		strings.Join(cols, ", "), t.table.FetchSource, t.table.IDColumn)
	rows, err := t.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("read %s/%d: %w", t.table.Name, id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("read %s/%d: %w", t.table.Name, id, err)
		}
		return nil, fmt.Errorf("read %s/%d: %w", t.table.Name, id, ErrNotFound)
	}
	return scanRecord(rows, cols)
}

func scanRecord(rows *sql.Rows, cols []string) (schema.Record, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	rec := make(schema.Record, len(cols))
	for i, name := range cols {
		switch v := values[i].(type) {
		case []byte:
			rec[name] = string(v)
		default:
			rec[name] = v
		}
	}
	return rec, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
