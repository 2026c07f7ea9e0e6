// Conversions between engine state and API response types.

package handlers

import (
	"errors"

	"github.com/sitegrid/sitegrid/internal/grid"
	"github.com/sitegrid/sitegrid/internal/schema"
	"github.com/sitegrid/sitegrid/internal/server/dto"
)

func viewToResponse(v grid.View) *dto.GridResponse {
	rows := make([]map[string]any, len(v.Page.Records))
	for i, r := range v.Page.Records {
		rows[i] = map[string]any(r)
	}
	resp := &dto.GridResponse{
		Rows:          rows,
		Page:          v.Page.Number,
		TotalPages:    v.Page.TotalPages,
		StartIndex:    v.Page.StartIndex,
		EndIndex:      v.Page.EndIndex,
		TotalRecords:  v.Page.TotalRecords,
		Search:        v.Search,
		Filters:       v.Filters,
		LookupFilters: v.LookupFilters,
		ArmedID:       v.ArmedID,
		Loaded:        v.Loaded,
	}
	if v.Sort != nil {
		resp.Sort = &dto.SortState{Column: v.Sort.Column, Direction: string(v.Sort.Direction)}
	}
	if v.Editing != nil {
		resp.Editing = &dto.EditingCursor{
			RecordID: v.Editing.RecordID,
			Column:   v.Editing.Column,
			Pending:  v.Editing.Pending,
		}
	}
	return resp
}

func noticeToResponse(n grid.Notice) *dto.Notice {
	if n.Level == "" {
		return nil
	}
	return &dto.Notice{Level: string(n.Level), Message: n.Message}
}

func tableToDescriptor(t *schema.Table) dto.TableDescriptor {
	cols := make([]dto.ColumnDescriptor, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = dto.ColumnDescriptor{
			Name:          c.Name,
			Type:          string(c.Type),
			Mutable:       c.Mutable,
			Searchable:    c.Searchable,
			AllowedValues: c.AllowedValues,
		}
	}
	return dto.TableDescriptor{
		Name:          t.Name,
		Title:         t.Title,
		IDColumn:      t.IDColumn,
		Columns:       cols,
		LookupColumns: t.LookupColumns,
	}
}

// gridError maps engine errors to API errors.
func gridError(err error) error {
	var fieldErrs grid.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		return dto.FieldErrors(fieldErrs)
	case errors.Is(err, grid.ErrRecordNotFound):
		return dto.NotFound("record")
	case errors.Is(err, grid.ErrUnknownColumn):
		return dto.BadRequest(err.Error())
	case errors.Is(err, grid.ErrNoActiveEdit):
		return dto.BadRequest(err.Error())
	case errors.Is(err, schema.ErrNotMutable):
		return dto.BadRequest(err.Error())
	default:
		return dto.StoreError("record store request failed", err)
	}
}
