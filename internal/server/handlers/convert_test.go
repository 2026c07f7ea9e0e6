package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sitegrid/sitegrid/internal/grid"
	"github.com/sitegrid/sitegrid/internal/schema"
	"github.com/sitegrid/sitegrid/internal/server/dto"
)

func TestGridErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want int
	}{
		{"field errors", grid.FieldErrors{"revision": "bad"}, http.StatusUnprocessableEntity},
		{"record not found", grid.ErrRecordNotFound, http.StatusNotFound},
		{"unknown column", grid.ErrUnknownColumn, http.StatusBadRequest},
		{"no active edit", grid.ErrNoActiveEdit, http.StatusBadRequest},
		{"not mutable", schema.ErrNotMutable, http.StatusBadRequest},
		{"store failure", errors.New("disk full"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ews dto.ErrorWithStatus
			if !errors.As(gridError(tt.in), &ews) {
				t.Fatal("not an API error")
			}
			if ews.StatusCode() != tt.want {
				t.Errorf("status = %d, want %d", ews.StatusCode(), tt.want)
			}
		})
	}
}

func TestTableToDescriptor(t *testing.T) {
	d := tableToDescriptor(&schema.Drawings)
	if d.Name != "drawings" || d.IDColumn != "id" {
		t.Errorf("descriptor = %+v", d)
	}
	var status *dto.ColumnDescriptor
	for i := range d.Columns {
		if d.Columns[i].Name == "status" {
			status = &d.Columns[i]
		}
	}
	if status == nil || !status.Mutable || len(status.AllowedValues) == 0 {
		t.Errorf("status column = %+v", status)
	}
}

func TestViewToResponse(t *testing.T) {
	v := grid.View{
		Page: grid.Page{
			Records:      []schema.Record{{"id": int64(1)}},
			Number:       1,
			TotalPages:   1,
			EndIndex:     1,
			TotalRecords: 1,
		},
		Sort:    &grid.Sort{Column: "revision", Direction: grid.SortDesc},
		Editing: &grid.Cursor{RecordID: 1, Column: "revision", Pending: "3"},
		Loaded:  true,
	}
	resp := viewToResponse(v)
	if len(resp.Rows) != 1 || resp.Rows[0]["id"] != int64(1) {
		t.Errorf("rows = %v", resp.Rows)
	}
	if resp.Sort == nil || resp.Sort.Direction != "desc" {
		t.Errorf("sort = %+v", resp.Sort)
	}
	if resp.Editing == nil || resp.Editing.Pending != "3" {
		t.Errorf("editing = %+v", resp.Editing)
	}
	if noticeToResponse(grid.Notice{}) != nil {
		t.Error("empty notice converted to non-nil")
	}
}
