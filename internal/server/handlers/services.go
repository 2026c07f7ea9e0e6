// Package handlers implements the typed HTTP handlers for the grid API.
package handlers

import (
	"database/sql"

	"github.com/sitegrid/sitegrid/internal/grid"
	"github.com/sitegrid/sitegrid/internal/schema"
	"github.com/sitegrid/sitegrid/internal/store"
)

// GridSet holds one table view engine per served table.
type GridSet struct {
	grids map[string]*grid.Grid
}

// NewGridSet builds a grid over a store adapter for every table descriptor.
func NewGridSet(db *sql.DB) *GridSet {
	grids := make(map[string]*grid.Grid)
	for _, t := range schema.Tables() {
		grids[t.Name] = grid.New(t, store.NewTable(db, t))
	}
	return &GridSet{grids: grids}
}

// Get returns the engine for the named table, or nil.
func (s *GridSet) Get(name string) *grid.Grid {
	return s.grids[name]
}
