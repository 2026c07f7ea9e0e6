// The four record tables served by the grid, as descriptor data. Editable
// whitelists and status vocabularies deliberately differ per table: drawings
// and inspections constrain status-like codes to a closed set, rfis and
// activities accept free text.

package schema

// Drawings is the drawing register.
var Drawings = Table{
	Name:        "drawings",
	Title:       "Drawing Register",
	IDColumn:    "id",
	FetchSource: "drawings",
	OrderBy:     "id",
	Columns: []Column{
		{Name: "id", Type: TypeID},
		{Name: "drawing_no", Type: TypeText, Searchable: true},
		{Name: "title", Type: TypeText, Searchable: true},
		{Name: "discipline", Type: TypeCode, Searchable: true},
		{Name: "revision", Type: TypeInt, Mutable: true, Searchable: true},
		{Name: "status", Type: TypeCode, Mutable: true, AllowedValues: []string{"PRELIM", "IFR", "IFC", "AB", "VOID"}},
		{Name: "issued_at", Type: TypeTimestamp, Mutable: true},
		{Name: "created_at", Type: TypeTimestamp},
	},
}

// RFIs is the request-for-information log.
var RFIs = Table{
	Name:        "rfis",
	Title:       "RFI Log",
	IDColumn:    "id",
	FetchSource: "rfis",
	OrderBy:     "id",
	Columns: []Column{
		{Name: "id", Type: TypeID},
		{Name: "rfi_no", Type: TypeText, Searchable: true},
		{Name: "subject", Type: TypeText, Searchable: true},
		{Name: "discipline", Type: TypeCode, Searchable: true},
		{Name: "status", Type: TypeText, Mutable: true},
		{Name: "raised_at", Type: TypeTimestamp},
		{Name: "answered_at", Type: TypeTimestamp, Mutable: true},
		{Name: "created_at", Type: TypeTimestamp},
	},
}

// Inspections is the inspection-request register.
var Inspections = Table{
	Name:        "inspections",
	Title:       "Inspection Requests",
	IDColumn:    "id",
	FetchSource: "inspections",
	OrderBy:     "id",
	Columns: []Column{
		{Name: "id", Type: TypeID},
		{Name: "ir_no", Type: TypeText, Searchable: true},
		{Name: "description", Type: TypeText, Searchable: true},
		{Name: "discipline", Type: TypeCode, Searchable: true},
		{Name: "progress_pct", Type: TypeDecimal, Mutable: true},
		{Name: "result", Type: TypeCode, Mutable: true, AllowedValues: []string{"PASS", "FAIL", "HOLD", "REINSPECT"}},
		{Name: "inspected_at", Type: TypeTimestamp},
		{Name: "created_at", Type: TypeTimestamp},
	},
}

// Activities is the work-activity schedule. Reads go through the
// activity_detail view which joins the zone/level/trade lookups; writes
// target the base table.
var Activities = Table{
	Name:        "activities",
	Title:       "Work Activities",
	IDColumn:    "id",
	FetchSource: "activity_detail",
	OrderBy:     "id",
	Columns: []Column{
		{Name: "id", Type: TypeID},
		{Name: "activity_code", Type: TypeText, Searchable: true},
		{Name: "description", Type: TypeText, Searchable: true},
		{Name: "status", Type: TypeText, Mutable: true},
		{Name: "percent_complete", Type: TypeDecimal, Mutable: true},
		{Name: "zone_id", Type: TypeInt},
		{Name: "level_id", Type: TypeInt},
		{Name: "trade_id", Type: TypeInt},
		{Name: "start_at", Type: TypeTimestamp},
		{Name: "finish_at", Type: TypeTimestamp},
		{Name: "created_at", Type: TypeTimestamp},
	},
	LookupColumns: []string{"zone_name", "level_name", "trade_name"},
}

// Tables lists every table descriptor in display order.
func Tables() []*Table {
	return []*Table{&Drawings, &RFIs, &Inspections, &Activities}
}

// ByName returns the descriptor for the named table, or nil.
func ByName(name string) *Table {
	for _, t := range Tables() {
		if t.Name == name {
			return t
		}
	}
	return nil
}
