package core

import (
	"errors"
	"reflect"
	"testing"
)

// makeRows builds rows directly, bypassing a Grid. Field kinds come from
// the built-in registry so comparators behave as they would in a grid.
func makeRows(fields ...map[string]string) []Row {
	kinds := map[string]FieldType{}
	for _, b := range builtInColumns {
		kinds[b.col.Key] = b.col.Type
	}
	rows := make([]Row, len(fields))
	for i, f := range fields {
		r := Row{ID: i + 1, Fields: map[string]Value{}}
		for k, v := range f {
			r.Fields[k] = Value{Kind: kinds[k], Text: v}
		}
		rows[i] = r
	}
	return rows
}

// ============================================================================
// Sort Tests
// ============================================================================

func TestDeriveView_Sort(t *testing.T) {
	tests := []struct {
		name  string
		rows  []Row
		field string
		order SortOrder
		want  []int
	}{
		{
			name:  "numbers with grouping commas",
			rows:  makeRows(map[string]string{"estValue": "1,200"}, map[string]string{"estValue": "300"}),
			field: "estValue",
			order: SortAsc,
			want:  []int{2, 1},
		},
		{
			name: "priority descending",
			rows: makeRows(
				map[string]string{"priority": "Low"},
				map[string]string{"priority": "High"},
				map[string]string{"priority": "Medium"},
			),
			field: "priority",
			order: SortDesc,
			want:  []int{2, 3, 1},
		},
		{
			name: "unknown priority ranks below low",
			rows: makeRows(
				map[string]string{"priority": "urgent"},
				map[string]string{"priority": "Low"},
			),
			field: "priority",
			order: SortAsc,
			want:  []int{1, 2},
		},
		{
			name: "dates are calendar ordered",
			rows: makeRows(
				map[string]string{"dueDate": "01-02-2024"},
				map[string]string{"dueDate": "15-01-2024"},
				map[string]string{"dueDate": "02-01-2023"},
			),
			field: "dueDate",
			order: SortAsc,
			want:  []int{3, 2, 1},
		},
		{
			name: "unparsable date sorts first",
			rows: makeRows(
				map[string]string{"submitted": "01-01-2024"},
				map[string]string{"submitted": "someday"},
			),
			field: "submitted",
			order: SortAsc,
			want:  []int{2, 1},
		},
		{
			name: "text ignores case",
			rows: makeRows(
				map[string]string{"submitter": "bob"},
				map[string]string{"submitter": "Alice"},
				map[string]string{"submitter": "carol"},
			),
			field: "submitter",
			order: SortAsc,
			want:  []int{2, 1, 3},
		},
		{
			name:  "no order leaves input order",
			rows:  makeRows(map[string]string{"estValue": "9"}, map[string]string{"estValue": "1"}),
			field: "estValue",
			order: SortNone,
			want:  []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := DeriveView(tt.rows, ViewSpec{SortField: tt.field, SortOrder: tt.order})
			if err != nil {
				t.Fatal(err)
			}
			if got := rowIDs(view); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveView_SortIsStable(t *testing.T) {
	rows := makeRows(
		map[string]string{"priority": "High", "jobRequest": "a"},
		map[string]string{"priority": "Low", "jobRequest": "b"},
		map[string]string{"priority": "High", "jobRequest": "c"},
		map[string]string{"priority": "Low", "jobRequest": "d"},
		map[string]string{"priority": "High", "jobRequest": "e"},
	)

	asc, _ := DeriveView(rows, ViewSpec{SortField: "priority", SortOrder: SortAsc})
	if got := rowIDs(asc); !reflect.DeepEqual(got, []int{2, 4, 1, 3, 5}) {
		t.Errorf("asc = %v", got)
	}
	desc, _ := DeriveView(rows, ViewSpec{SortField: "priority", SortOrder: SortDesc})
	if got := rowIDs(desc); !reflect.DeepEqual(got, []int{1, 3, 5, 2, 4}) {
		t.Errorf("desc = %v", got)
	}
}

// ============================================================================
// Filter Tests
// ============================================================================

func TestDeriveView_Filter(t *testing.T) {
	rows := makeRows(
		map[string]string{"status": "in-progress", "submitter": "Aisha Patel", "dueDate": "01-02-2024"},
		map[string]string{"status": "complete", "submitter": "Ben", "dueDate": "01-02-2024"},
		map[string]string{"status": "complete", "submitter": "Patrick", "dueDate": "11-02-2024"},
		map[string]string{"status": "blocked", "submitter": "Cleo", "dueDate": "01-02-2025"},
	)

	tests := []struct {
		name  string
		field string
		value string
		want  []int
	}{
		{name: "status contains", field: "status", value: "complete", want: []int{2, 3}},
		{name: "text contains ignoring case", field: "submitter", value: "PAT", want: []int{1, 3}},
		{name: "date must equal", field: "dueDate", value: "01-02-2024", want: []int{1, 2}},
		{name: "date prefix does not match", field: "dueDate", value: "01-02", want: []int{}},
		{name: "empty value is identity", field: "status", value: "", want: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := DeriveView(rows, ViewSpec{FilterField: tt.field, FilterValue: tt.value})
			if err != nil {
				t.Fatal(err)
			}
			if got := rowIDs(view); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveView_FilterThenSort(t *testing.T) {
	rows := makeRows(
		map[string]string{"status": "complete", "estValue": "500"},
		map[string]string{"status": "blocked", "estValue": "1"},
		map[string]string{"status": "complete", "estValue": "2,000"},
		map[string]string{"status": "complete", "estValue": "50"},
	)
	spec := ViewSpec{FilterField: "status", FilterValue: "complete", SortField: "estValue", SortOrder: SortDesc}

	view, err := DeriveView(rows, spec)
	if err != nil {
		t.Fatal(err)
	}
	if got := rowIDs(view); !reflect.DeepEqual(got, []int{3, 1, 4}) {
		t.Errorf("ids = %v, want [3 1 4]", got)
	}
	for _, r := range view {
		if r.Get("status").Text != "complete" {
			t.Errorf("row %d violates filter", r.ID)
		}
	}
}

func TestDeriveView_FilterExpr(t *testing.T) {
	rows := makeRows(
		map[string]string{"status": "complete", "estValue": "1,500"},
		map[string]string{"status": "complete", "estValue": "200"},
		map[string]string{"status": "blocked", "estValue": "9,000"},
	)

	view, err := DeriveView(rows, ViewSpec{FilterExpr: "estValue > 1000 && status == 'complete'"})
	if err != nil {
		t.Fatal(err)
	}
	if got := rowIDs(view); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("ids = %v, want [1]", got)
	}

	// Rows missing a referenced parameter evaluate to false rather than failing.
	view, err = DeriveView(rows, ViewSpec{FilterExpr: "region == 'EU'"})
	if err != nil {
		t.Fatal(err)
	}
	if len(view) != 0 {
		t.Errorf("got %d rows, want 0", len(view))
	}

	if _, err := DeriveView(rows, ViewSpec{FilterExpr: "estValue >"}); !errors.Is(err, ErrInvalidFilterExpr) {
		t.Errorf("err = %v, want ErrInvalidFilterExpr", err)
	}
}

func TestDeriveView_FilterExprRowID(t *testing.T) {
	rows := makeRows(
		map[string]string{"status": "complete"},
		map[string]string{"status": "blocked"},
		map[string]string{"status": "complete"},
	)
	// A custom "ID" column derives the key id.
	rows[0].Fields["id"] = TextValue("JOB-7")
	rows[1].Fields["id"] = TextValue("JOB-2")
	rows[2].Fields["id"] = TextValue("JOB-7")

	tests := []struct {
		name string
		expr string
		want []int
	}{
		{"column named id wins", "id == 'JOB-7'", []int{1, 3}},
		{"row id by reserved name", "[row id] >= 2", []int{2, 3}},
		{"both together", "id == 'JOB-7' && [row id] > 1", []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := DeriveView(rows, ViewSpec{FilterExpr: tt.expr})
			if err != nil {
				t.Fatal(err)
			}
			if got := rowIDs(view); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}

	// Without such a column, id still reaches the row id.
	plain := makeRows(map[string]string{}, map[string]string{})
	view, err := DeriveView(plain, ViewSpec{FilterExpr: "id == 2"})
	if err != nil {
		t.Fatal(err)
	}
	if got := rowIDs(view); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("ids = %v, want [2]", got)
	}
}

// ============================================================================
// Purity Tests
// ============================================================================

func TestDeriveView_DeterministicAndPure(t *testing.T) {
	rows := makeRows(
		map[string]string{"submitter": "b", "estValue": "3"},
		map[string]string{"submitter": "a", "estValue": "3"},
		map[string]string{"submitter": "c", "estValue": "1"},
	)
	snapshot := make([]Row, len(rows))
	for i, r := range rows {
		snapshot[i] = r.Clone()
	}
	spec := ViewSpec{SortField: "estValue", SortOrder: SortAsc, FilterField: "submitter", FilterValue: ""}

	first, _ := DeriveView(rows, spec)
	second, _ := DeriveView(rows, spec)
	if !reflect.DeepEqual(first, second) {
		t.Error("DeriveView is not deterministic")
	}
	if !reflect.DeepEqual(rows, snapshot) {
		t.Error("DeriveView modified its input")
	}

	first[0].Fields["submitter"] = Value{Text: "mutated"}
	if rows[2].Get("submitter").Text != "c" {
		t.Error("view rows share storage with input rows")
	}
}
