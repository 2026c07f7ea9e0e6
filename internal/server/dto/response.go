// API response types.

package dto

// LoginResponse carries the signed session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ColumnDescriptor describes one column's grid capabilities so a client can
// render without hardcoding table shapes.
type ColumnDescriptor struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Mutable       bool     `json:"mutable"`
	Searchable    bool     `json:"searchable"`
	AllowedValues []string `json:"allowed_values,omitempty"`
}

// TableDescriptor describes one table.
type TableDescriptor struct {
	Name          string             `json:"name"`
	Title         string             `json:"title"`
	IDColumn      string             `json:"id_column"`
	Columns       []ColumnDescriptor `json:"columns"`
	LookupColumns []string           `json:"lookup_columns,omitempty"`
}

// ListTablesResponse lists every served table.
type ListTablesResponse struct {
	Tables []TableDescriptor `json:"tables"`
}

// SortState is the active sort key, if any.
type SortState struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// EditingCursor is the cell currently open for editing, if any.
type EditingCursor struct {
	RecordID int64  `json:"record_id"`
	Column   string `json:"column"`
	Pending  string `json:"pending"`
}

// Notice is a transient user-facing notification attached to a mutation
// response.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// GridResponse is the derived grid view returned by every grid endpoint.
type GridResponse struct {
	Rows         []map[string]any `json:"rows"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"total_pages"`
	StartIndex   int              `json:"start_index"`
	EndIndex     int              `json:"end_index"`
	TotalRecords int              `json:"total_records"`

	Search        string            `json:"search,omitempty"`
	Filters       map[string]string `json:"filters,omitempty"`
	LookupFilters map[string]string `json:"lookup_filters,omitempty"`
	Sort          *SortState        `json:"sort,omitempty"`
	Editing       *EditingCursor    `json:"editing,omitempty"`
	ArmedID       int64             `json:"armed_id,omitempty"`
	Loaded        bool              `json:"loaded"`

	Notice *Notice `json:"notice,omitempty"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
