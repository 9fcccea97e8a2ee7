package core

import "strings"

// FieldType is the declared kind of a column. Every Value written into a
// column is stamped with the column's FieldType.
type FieldType int

const (
	FieldText FieldType = iota
	FieldStatus
	FieldPriority
	FieldDate
	FieldNumber
)

// String returns the lowercase name used in JSON payloads.
func (t FieldType) String() string {
	switch t {
	case FieldStatus:
		return "status"
	case FieldPriority:
		return "priority"
	case FieldDate:
		return "date"
	case FieldNumber:
		return "number"
	default:
		return "text"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names are text.
func (t *FieldType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "status":
		*t = FieldStatus
	case "priority":
		*t = FieldPriority
	case "date":
		*t = FieldDate
	case "number":
		*t = FieldNumber
	default:
		*t = FieldText
	}
	return nil
}

// Status is the workflow state of a job request.
type Status string

const (
	StatusNeedToStart Status = "need-to-start"
	StatusInProgress  Status = "in-progress"
	StatusComplete    Status = "complete"
	StatusBlocked     Status = "blocked"
)

// Statuses lists every valid Status in display order.
var Statuses = []Status{StatusNeedToStart, StatusInProgress, StatusComplete, StatusBlocked}

// Priority is the urgency of a job request.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every valid Priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Value is a single cell. Text always holds the raw string form; Kind tells
// the view pipeline which comparator and filter rule apply.
type Value struct {
	Kind FieldType `json:"kind"`
	Text string    `json:"text"`
}

// String returns the stringified cell value used for filtering and search.
func (v Value) String() string { return v.Text }

// IsEmpty reports whether the cell holds no text.
func (v Value) IsEmpty() bool { return v.Text == "" }

// TextValue builds a free-text cell.
func TextValue(s string) Value { return Value{Kind: FieldText, Text: s} }

// StatusValue builds a status cell.
func StatusValue(s Status) Value { return Value{Kind: FieldStatus, Text: string(s)} }

// PriorityValue builds a priority cell.
func PriorityValue(p Priority) Value { return Value{Kind: FieldPriority, Text: string(p)} }

// DateValue builds a date cell. The text is expected in DD-MM-YYYY form but
// is stored as given.
func DateValue(s string) Value { return Value{Kind: FieldDate, Text: s} }

// NumberValue builds a numeric-as-text cell, e.g. "1,200".
func NumberValue(s string) Value { return Value{Kind: FieldNumber, Text: s} }

// ColumnOrigin distinguishes fixed columns from user-added ones.
type ColumnOrigin int

const (
	BuiltIn ColumnOrigin = iota
	Custom
)

// MarshalText implements encoding.TextMarshaler.
func (o ColumnOrigin) MarshalText() ([]byte, error) {
	if o == Custom {
		return []byte("custom"), nil
	}
	return []byte("builtin"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *ColumnOrigin) UnmarshalText(b []byte) error {
	if string(b) == "custom" {
		*o = Custom
	} else {
		*o = BuiltIn
	}
	return nil
}

// Column is the metadata for one field. Width is tracked separately by the
// registry.
type Column struct {
	Key    string       `json:"key"`
	Label  string       `json:"label"`
	Origin ColumnOrigin `json:"origin"`
	Type   FieldType    `json:"type"`
}

// IsBuiltIn reports whether the column is one of the fixed columns.
func (c Column) IsBuiltIn() bool { return c.Origin == BuiltIn }

// Row is a single record. ID is assigned once and never changes.
type Row struct {
	ID     int              `json:"id"`
	Fields map[string]Value `json:"fields"`
}

// Get returns the value for key, or an empty Value if absent.
func (r Row) Get(key string) Value {
	return r.Fields[key]
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	fields := make(map[string]Value, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{ID: r.ID, Fields: fields}
}

// CellRef addresses one cell by stable identity. Column indices are derived
// per render from the visible columns and are never stored.
type CellRef struct {
	RowID int    `json:"rowId"`
	Field string `json:"field"`
}

// SortOrder is the direction of the view sort.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc", "desc" and treats anything else as none.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return SortAsc
	case "desc":
		return SortDesc
	default:
		return SortNone
	}
}

// ViewMode controls row density in the renderer.
type ViewMode string

const (
	ViewCompact  ViewMode = "compact"
	ViewNormal   ViewMode = "normal"
	ViewExpanded ViewMode = "expanded"
)

// ParseViewMode returns the matching ViewMode, defaulting to normal.
func ParseViewMode(s string) ViewMode {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewCompact:
		return ViewCompact
	case ViewExpanded:
		return ViewExpanded
	default:
		return ViewNormal
	}
}

// RowHeight is the suggested pixel height of a row in this mode.
func (m ViewMode) RowHeight() int {
	switch m {
	case ViewCompact:
		return 28
	case ViewExpanded:
		return 56
	default:
		return 40
	}
}

// ViewSpec is the caller-supplied view configuration. It is passed by value
// and never retained by the engine.
type ViewSpec struct {
	HiddenFields []string  `json:"hiddenFields,omitempty"`
	SortField    string    `json:"sortField,omitempty"`
	SortOrder    SortOrder `json:"sortOrder,omitempty"`
	FilterField  string    `json:"filterField,omitempty"`
	FilterValue  string    `json:"filterValue,omitempty"`
	FilterExpr   string    `json:"filterExpr,omitempty"` // govaluate expression, ANDed with the field filter
	SearchTerm   string    `json:"searchTerm,omitempty"`
	ViewMode     ViewMode  `json:"viewMode,omitempty"`
}

// IsHidden reports whether key is in the hidden set.
func (v ViewSpec) IsHidden(key string) bool {
	for _, h := range v.HiddenFields {
		if h == key {
			return true
		}
	}
	return false
}

// hiddenSet converts HiddenFields to a lookup set.
func (v ViewSpec) hiddenSet() map[string]bool {
	set := make(map[string]bool, len(v.HiddenFields))
	for _, h := range v.HiddenFields {
		set[h] = true
	}
	return set
}
