// API request types. Fields tagged path/query are bound from the URL by the
// server's Wrap helpers; the rest decode from the JSON body.

package dto

import "errors"

var (
	errPasswordRequired = errors.New("password is required")
	errTableRequired    = errors.New("table is required")
	errColumnRequired   = errors.New("column is required")
	errIDRequired       = errors.New("record id is required")
	errFieldsRequired   = errors.New("fields are required")
)

// LoginRequest authenticates the operator.
type LoginRequest struct {
	Password string `json:"password"`
}

// Validate checks the request fields.
func (r *LoginRequest) Validate() error {
	if r.Password == "" {
		return errPasswordRequired
	}
	return nil
}

// ListTablesRequest lists the table descriptors.
type ListTablesRequest struct{}

// Validate checks the request fields.
func (r *ListTablesRequest) Validate() error { return nil }

// tableScoped is embedded by every request addressing one table.
type tableScoped struct {
	Table string `path:"table"`
}

func (r *tableScoped) Validate() error {
	if r.Table == "" {
		return errTableRequired
	}
	return nil
}

// TableName returns the addressed table.
func (r *tableScoped) TableName() string { return r.Table }

// GetGridRequest returns the current grid view.
type GetGridRequest struct {
	tableScoped
}

// RefreshRequest re-fetches the table snapshot.
type RefreshRequest struct {
	tableScoped
}

// SetSearchRequest replaces the search term.
type SetSearchRequest struct {
	tableScoped
	Term string `json:"term"`
}

// SetFilterRequest sets or clears one column or lookup filter. An empty
// value clears the filter.
type SetFilterRequest struct {
	tableScoped
	Column string `path:"column"`
	Value  string `json:"value"`
}

// Validate checks the request fields.
func (r *SetFilterRequest) Validate() error {
	if err := r.tableScoped.Validate(); err != nil {
		return err
	}
	if r.Column == "" {
		return errColumnRequired
	}
	return nil
}

// ClearFiltersRequest clears every filter and the search term.
type ClearFiltersRequest struct {
	tableScoped
}

// SetSortRequest toggles the sort on a column.
type SetSortRequest struct {
	tableScoped
	Column string `json:"column"`
}

// Validate checks the request fields.
func (r *SetSortRequest) Validate() error {
	if err := r.tableScoped.Validate(); err != nil {
		return err
	}
	if r.Column == "" {
		return errColumnRequired
	}
	return nil
}

// SetPageRequest requests a 1-based page. Out-of-range pages are clamped.
type SetPageRequest struct {
	tableScoped
	Page int `json:"page"`
}

// CreateRecordRequest submits the structured create form. Values are raw
// form strings; empty strings coerce to null.
type CreateRecordRequest struct {
	tableScoped
	Fields map[string]string `json:"fields"`
}

// Validate checks the request fields.
func (r *CreateRecordRequest) Validate() error {
	if err := r.tableScoped.Validate(); err != nil {
		return err
	}
	if len(r.Fields) == 0 {
		return errFieldsRequired
	}
	return nil
}

// recordScoped is embedded by requests addressing one row.
type recordScoped struct {
	tableScoped
	ID int64 `path:"id"`
}

func (r *recordScoped) Validate() error {
	if err := r.tableScoped.Validate(); err != nil {
		return err
	}
	if r.ID <= 0 {
		return errIDRequired
	}
	return nil
}

// RecordID returns the addressed row identifier.
func (r *recordScoped) RecordID() int64 { return r.ID }

// BeginEditRequest opens one cell for editing.
type BeginEditRequest struct {
	recordScoped
	Column string `json:"column"`
}

// Validate checks the request fields.
func (r *BeginEditRequest) Validate() error {
	if err := r.recordScoped.Validate(); err != nil {
		return err
	}
	if r.Column == "" {
		return errColumnRequired
	}
	return nil
}

// CommitEditRequest commits the pending edit with the submitted value.
type CommitEditRequest struct {
	recordScoped
	Value string `json:"value"`
}

// CancelEditRequest abandons the pending edit.
type CancelEditRequest struct {
	recordScoped
}

// DeleteRequest arms, or on a second call executes, a row delete.
type DeleteRequest struct {
	recordScoped
}

// HealthRequest checks service health.
type HealthRequest struct{}

// Validate checks the request fields.
func (r *HealthRequest) Validate() error { return nil }
