package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sitegrid/sitegrid/internal/grid"
	"github.com/sitegrid/sitegrid/internal/schema"
	"github.com/sitegrid/sitegrid/internal/server/handlers"
)

// dumpTable prints the first page of a table's grid, the same page the API
// would serve, to stdout.
func dumpTable(grids *handlers.GridSet, name string) error {
	g := grids.Get(name)
	if g == nil {
		return fmt.Errorf("unknown table %q", name)
	}
	desc := schema.ByName(name)
	view := g.CurrentView()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	header := table.Row{}
	columns := make([]string, 0, len(desc.Columns)+len(desc.LookupColumns))
	for _, c := range desc.Columns {
		columns = append(columns, c.Name)
		header = append(header, c.Name)
	}
	for _, c := range desc.LookupColumns {
		columns = append(columns, c)
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, rec := range view.Page.Records {
		row := make(table.Row, 0, len(columns))
		for _, c := range columns {
			row = append(row, grid.Stringify(rec[c]))
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Printf("Page %d of %d (%d records)\n", view.Page.Number, view.Page.TotalPages, view.Page.TotalRecords)
	return nil
}
