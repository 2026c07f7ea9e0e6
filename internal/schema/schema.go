// Package schema defines the declarative per-table descriptors that
// parameterize the generic table view engine: column types, editability,
// searchability, allowed value vocabularies, and edit-value coercion.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Record is one row of a table, keyed by column name. Values are the scalar
// forms produced by the store: nil, string, int64, float64, or bool.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ColumnType is the semantic type of a column's values.
type ColumnType string

const (
	// TypeID is the server-generated immutable row identifier.
	TypeID ColumnType = "id"
	// TypeText stores free text.
	TypeText ColumnType = "text"
	// TypeInt stores integer values.
	TypeInt ColumnType = "integer"
	// TypeDecimal stores decimal values.
	TypeDecimal ColumnType = "decimal"
	// TypeTimestamp stores timestamps as ISO8601-like text.
	TypeTimestamp ColumnType = "timestamp"
	// TypeCode stores short status/classification codes.
	TypeCode ColumnType = "code"
)

// Column describes one column and its grid capabilities.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`

	// Mutable marks the column editable through the inline-edit controller.
	// Identifier and display-only columns are never mutable.
	Mutable bool `json:"mutable"`

	// Searchable includes the column in the full-text search subset.
	Searchable bool `json:"searchable"`

	// AllowedValues constrains a mutable code column to a closed vocabulary.
	// Empty means free input.
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// ErrNotMutable is returned when an edit targets a display-only column.
var ErrNotMutable = errors.New("column is not editable")

// CoerceEdit converts a raw inline-edit string into the column's stored
// value. Display-only columns never accept edits.
func (c *Column) CoerceEdit(raw string) (any, error) {
	if !c.Mutable {
		return nil, ErrNotMutable
	}
	return c.CoerceInput(raw)
}

// CoerceInput converts a raw form string into the column's stored value.
// An empty string always coerces to nil, never to zero.
func (c *Column) CoerceInput(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch c.Type {
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number: %q", c.Name, raw)
		}
		return n, nil
	case TypeDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number: %q", c.Name, raw)
		}
		return f, nil
	case TypeCode:
		v := strings.ToUpper(raw)
		if len(c.AllowedValues) > 0 && !slices.Contains(c.AllowedValues, v) {
			return nil, fmt.Errorf("%s must be one of %s", c.Name, strings.Join(c.AllowedValues, ", "))
		}
		return v, nil
	default:
		// Text and timestamp values pass through as-is.
		return raw, nil
	}
}

// Table describes one record table served by the grid engine.
type Table struct {
	// Name identifies the table in the API and the database.
	Name string `json:"name"`

	// Title is the human-readable table name.
	Title string `json:"title"`

	// IDColumn is the immutable server-generated row key.
	IDColumn string `json:"id_column"`

	// FetchSource is the table or view FetchAll reads from. Writes always
	// target Name; the activities grid reads a denormalized view.
	FetchSource string `json:"-"`

	// OrderBy is the column FetchAll orders by, descending.
	OrderBy string `json:"-"`

	Columns []Column `json:"columns"`

	// LookupColumns are denormalized classification columns projected by the
	// fetch view. They accept equality filters only; the view guarantees a
	// concrete (possibly empty) value, so no blank sentinel applies.
	LookupColumns []string `json:"lookup_columns,omitempty"`
}

// Column returns the descriptor for the named column, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// SearchColumns returns the names of the full-text-searchable columns.
func (t *Table) SearchColumns() []string {
	var out []string
	for i := range t.Columns {
		if t.Columns[i].Searchable {
			out = append(out, t.Columns[i].Name)
		}
	}
	return out
}

// EditableColumns returns the names of the inline-editable columns.
func (t *Table) EditableColumns() []string {
	var out []string
	for i := range t.Columns {
		if t.Columns[i].Mutable {
			out = append(out, t.Columns[i].Name)
		}
	}
	return out
}

// IsLookup reports whether name is a view-projected lookup column.
func (t *Table) IsLookup(name string) bool {
	return slices.Contains(t.LookupColumns, name)
}

// WriteColumns returns the names of columns persisted in the base table,
// excluding the identifier and lookup projections.
func (t *Table) WriteColumns() []string {
	var out []string
	for i := range t.Columns {
		if t.Columns[i].Type == TypeID {
			continue
		}
		out = append(out, t.Columns[i].Name)
	}
	return out
}
