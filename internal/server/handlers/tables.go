// Table descriptor endpoint.

package handlers

import (
	"context"

	"github.com/sitegrid/sitegrid/internal/schema"
	"github.com/sitegrid/sitegrid/internal/server/dto"
)

// TablesHandler serves the table descriptors.
type TablesHandler struct{}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler() *TablesHandler {
	return &TablesHandler{}
}

// ListTables returns every served table's descriptor so clients can render
// grids without hardcoding table shapes.
func (h *TablesHandler) ListTables(ctx context.Context, req *dto.ListTablesRequest) (*dto.ListTablesResponse, error) {
	out := &dto.ListTablesResponse{}
	for _, t := range schema.Tables() {
		out.Tables = append(out.Tables, tableToDescriptor(t))
	}
	return out, nil
}
