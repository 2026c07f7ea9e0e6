// Grid endpoints: view derivation, search/filter/sort/page state, inline
// edits, create, and armed delete. One generic handler parameterized by
// table name.

package handlers

import (
	"context"

	"github.com/sitegrid/sitegrid/internal/grid"
	"github.com/sitegrid/sitegrid/internal/server/dto"
)

// GridHandler handles grid-related HTTP requests.
type GridHandler struct {
	grids *GridSet
}

// NewGridHandler creates a new grid handler.
func NewGridHandler(grids *GridSet) *GridHandler {
	return &GridHandler{grids: grids}
}

func (h *GridHandler) grid(name string) (*grid.Grid, error) {
	g := h.grids.Get(name)
	if g == nil {
		return nil, dto.NotFound("table")
	}
	return g, nil
}

// GetGrid returns the current derived view.
func (h *GridHandler) GetGrid(ctx context.Context, req *dto.GetGridRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	return viewToResponse(g.CurrentView()), nil
}

// Refresh re-fetches the table snapshot wholesale.
func (h *GridHandler) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	if err := g.Refresh(ctx); err != nil {
		return nil, gridError(err)
	}
	return viewToResponse(g.CurrentView()), nil
}

// SetSearch replaces the search term, resetting the page to 1.
func (h *GridHandler) SetSearch(ctx context.Context, req *dto.SetSearchRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	return viewToResponse(g.SetSearch(req.Term)), nil
}

// SetFilter sets or clears one filter, resetting the page to 1.
func (h *GridHandler) SetFilter(ctx context.Context, req *dto.SetFilterRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	v, err := g.SetFilter(req.Column, req.Value)
	if err != nil {
		return nil, gridError(err)
	}
	return viewToResponse(v), nil
}

// ClearFilters drops every filter and the search term.
func (h *GridHandler) ClearFilters(ctx context.Context, req *dto.ClearFiltersRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	return viewToResponse(g.ClearFilters()), nil
}

// SetSort toggles the sort on a column.
func (h *GridHandler) SetSort(ctx context.Context, req *dto.SetSortRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	v, err := g.ToggleSort(req.Column)
	if err != nil {
		return nil, gridError(err)
	}
	return viewToResponse(v), nil
}

// SetPage requests a page; out-of-range requests clamp.
func (h *GridHandler) SetPage(ctx context.Context, req *dto.SetPageRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	return viewToResponse(g.SetPage(req.Page)), nil
}

// CreateRecord validates and inserts a new record, then re-fetches.
func (h *GridHandler) CreateRecord(ctx context.Context, req *dto.CreateRecordRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	notice, err := g.Create(ctx, req.Fields)
	if err != nil {
		return nil, gridError(err)
	}
	resp := viewToResponse(g.CurrentView())
	resp.Notice = noticeToResponse(notice)
	return resp, nil
}

// BeginEdit opens one cell for editing.
func (h *GridHandler) BeginEdit(ctx context.Context, req *dto.BeginEditRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	v, err := g.BeginEdit(req.ID, req.Column)
	if err != nil {
		return nil, gridError(err)
	}
	return viewToResponse(v), nil
}

// CommitEdit commits the pending edit.
func (h *GridHandler) CommitEdit(ctx context.Context, req *dto.CommitEditRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	v, notice, err := g.CommitEdit(ctx, req.Value)
	if err != nil {
		return nil, gridError(err)
	}
	resp := viewToResponse(v)
	resp.Notice = noticeToResponse(notice)
	return resp, nil
}

// CancelEdit abandons the pending edit.
func (h *GridHandler) CancelEdit(ctx context.Context, req *dto.CancelEditRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	return viewToResponse(g.CancelEdit()), nil
}

// DeleteRecord arms a row's confirmation, or on the armed row executes the
// delete.
func (h *GridHandler) DeleteRecord(ctx context.Context, req *dto.DeleteRequest) (*dto.GridResponse, error) {
	g, err := h.grid(req.Table)
	if err != nil {
		return nil, err
	}
	v, notice, _, err := g.Delete(ctx, req.ID)
	if err != nil {
		return nil, gridError(err)
	}
	resp := viewToResponse(v)
	resp.Notice = noticeToResponse(notice)
	return resp, nil
}
