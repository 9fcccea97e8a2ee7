package core

import (
	"errors"
	"reflect"
	"testing"
)

// ============================================================================
// Click / Toggle Tests
// ============================================================================

func TestClick_SelectsSingle(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, nil, nil)
	cell := CellRef{RowID: ids[1], Field: "submitter"}

	if err := g.Click(cell); err != nil {
		t.Fatal(err)
	}
	st := g.Selection()
	if st.Mode != ModeSingle || st.Selected == nil || *st.Selected != cell {
		t.Errorf("state = %+v, want single %v", st, cell)
	}

	if err := g.Click(CellRef{RowID: 99, Field: "submitter"}); !errors.Is(err, ErrRowNotFound) {
		t.Errorf("err = %v, want ErrRowNotFound", err)
	}
	if err := g.Click(CellRef{RowID: ids[0], Field: "nope"}); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("err = %v, want ErrFieldNotFound", err)
	}
	if g.Selection().Mode != ModeSingle {
		t.Error("failed click changed the selection")
	}
}

func TestToggleSelect(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, nil, nil)
	a := CellRef{RowID: ids[0], Field: "status"}
	b := CellRef{RowID: ids[1], Field: "status"}

	g.Click(a)
	g.ToggleSelect(b)
	st := g.Selection()
	if st.Mode != ModeMulti || st.Selected != nil {
		t.Fatalf("state = %+v, want multi without single", st)
	}
	if !reflect.DeepEqual(st.Multi, []CellRef{b}) {
		t.Errorf("multi = %v, want [%v]", st.Multi, b)
	}

	g.ToggleSelect(a)
	if got := g.Selection().Multi; !reflect.DeepEqual(got, []CellRef{b, a}) {
		t.Errorf("multi = %v", got)
	}

	g.ToggleSelect(b)
	g.ToggleSelect(a)
	if g.Selection().Mode != ModeIdle {
		t.Errorf("mode = %v, want idle after emptying the set", g.Selection().Mode)
	}

	g.ToggleSelect(a)
	g.Click(b)
	if st := g.Selection(); st.Mode != ModeSingle || len(st.Multi) != 0 {
		t.Errorf("click should replace multi-select, got %+v", st)
	}
}

// ============================================================================
// Edit Lifecycle Tests
// ============================================================================

func TestEdit_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		draft *string
		want  string
	}{
		{name: "unchanged draft keeps value", draft: nil, want: "Logo"},
		{name: "new draft is written exactly", draft: ptr("  New Logo "), want: "  New Logo "},
		{name: "empty draft clears", draft: ptr(""), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t)
			ids := seedRows(t, g, map[string]string{"jobRequest": "Logo"})
			cell := CellRef{RowID: ids[0], Field: "jobRequest"}

			if err := g.BeginEdit(cell); err != nil {
				t.Fatal(err)
			}
			if st := g.Selection(); st.Edit == nil || st.Edit.Draft != "Logo" {
				t.Fatalf("edit = %+v, want draft Logo", st.Edit)
			}
			if tt.draft != nil {
				if err := g.UpdateDraft(*tt.draft); err != nil {
					t.Fatal(err)
				}
			}
			if err := g.CommitEdit(); err != nil {
				t.Fatal(err)
			}

			r, _ := g.Row(ids[0])
			if got := r.Get("jobRequest").Text; got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
			if st := g.Selection(); st.Mode != ModeSingle || *st.Selected != cell {
				t.Errorf("state after commit = %+v, want single on edited cell", st)
			}
		})
	}
}

func TestEdit_Cancel(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, map[string]string{"jobRequest": "Logo"})
	cell := CellRef{RowID: ids[0], Field: "jobRequest"}

	g.BeginEdit(cell)
	g.UpdateDraft("discard me")
	if err := g.CancelEdit(); err != nil {
		t.Fatal(err)
	}
	if r, _ := g.Row(ids[0]); r.Get("jobRequest").Text != "Logo" {
		t.Error("cancel wrote the draft")
	}
	if st := g.Selection(); st.Mode != ModeSingle || *st.Selected != cell {
		t.Errorf("state = %+v, want single on same cell", st)
	}
}

func TestEdit_NoActiveEdit(t *testing.T) {
	g := newTestGrid(t)
	if err := g.CommitEdit(); !errors.Is(err, ErrNoActiveEdit) {
		t.Errorf("CommitEdit err = %v", err)
	}
	if err := g.CancelEdit(); !errors.Is(err, ErrNoActiveEdit) {
		t.Errorf("CancelEdit err = %v", err)
	}
	if err := g.UpdateDraft("x"); !errors.Is(err, ErrNoActiveEdit) {
		t.Errorf("UpdateDraft err = %v", err)
	}
}

func TestEdit_ClickCommitsActiveEdit(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, nil, nil)
	edited := CellRef{RowID: ids[0], Field: "assigned"}
	other := CellRef{RowID: ids[1], Field: "assigned"}

	g.BeginEdit(edited)
	g.UpdateDraft("Dana")
	g.Click(other)

	if r, _ := g.Row(ids[0]); r.Get("assigned").Text != "Dana" {
		t.Error("click did not commit the active edit")
	}
	if st := g.Selection(); *st.Selected != other {
		t.Errorf("selected = %v, want %v", st.Selected, other)
	}
}

func TestEdit_DoubleClickOtherCellCommits(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, map[string]string{"assigned": "Eve"})
	first := CellRef{RowID: ids[0], Field: "jobRequest"}
	second := CellRef{RowID: ids[0], Field: "assigned"}

	g.DoubleClick(first)
	g.UpdateDraft("Banner")
	g.DoubleClick(first) // same cell keeps the draft
	if st := g.Selection(); st.Edit.Draft != "Banner" {
		t.Errorf("draft = %q, want Banner", st.Edit.Draft)
	}

	g.DoubleClick(second)
	if r, _ := g.Row(ids[0]); r.Get("jobRequest").Text != "Banner" {
		t.Error("previous edit not committed")
	}
	if st := g.Selection(); st.Edit == nil || st.Edit.Cell != second || st.Edit.Draft != "Eve" {
		t.Errorf("edit = %+v, want second cell with current value", st.Edit)
	}
}

// ============================================================================
// Invalidation Tests
// ============================================================================

func TestInvalidation(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(g *Grid, ids []int, col string)
		mutate func(g *Grid, ids []int, col string)
		want   Mode
	}{
		{
			name:   "deleting edited row drops edit",
			setup:  func(g *Grid, ids []int, col string) { g.BeginEdit(CellRef{ids[0], col}) },
			mutate: func(g *Grid, ids []int, col string) { g.DeleteRow(ids[0]) },
			want:   ModeIdle,
		},
		{
			name:   "deleting edited column drops edit",
			setup:  func(g *Grid, ids []int, col string) { g.BeginEdit(CellRef{ids[0], col}) },
			mutate: func(g *Grid, ids []int, col string) { g.RemoveColumn(col) },
			want:   ModeIdle,
		},
		{
			name:   "deleting selected row drops selection",
			setup:  func(g *Grid, ids []int, col string) { g.Click(CellRef{ids[1], "status"}) },
			mutate: func(g *Grid, ids []int, col string) { g.DeleteRow(ids[1]) },
			want:   ModeIdle,
		},
		{
			name:   "deleting another row keeps selection",
			setup:  func(g *Grid, ids []int, col string) { g.Click(CellRef{ids[1], "status"}) },
			mutate: func(g *Grid, ids []int, col string) { g.DeleteRow(ids[0]) },
			want:   ModeSingle,
		},
		{
			name: "deleting a multi member drops the set",
			setup: func(g *Grid, ids []int, col string) {
				g.ToggleSelect(CellRef{ids[0], "status"})
				g.ToggleSelect(CellRef{ids[1], col})
			},
			mutate: func(g *Grid, ids []int, col string) { g.RemoveColumn(col) },
			want:   ModeIdle,
		},
		{
			name:   "failed column delete keeps edit",
			setup:  func(g *Grid, ids []int, col string) { g.BeginEdit(CellRef{ids[0], "status"}) },
			mutate: func(g *Grid, ids []int, col string) { g.RemoveColumn("status") },
			want:   ModeEditing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t)
			ids := seedRows(t, g, nil, nil)
			col, err := g.AddColumn("Notes", -1)
			if err != nil {
				t.Fatal(err)
			}
			tt.setup(g, ids, col)
			tt.mutate(g, ids, col)

			st := g.Selection()
			if st.Mode != tt.want {
				t.Fatalf("mode = %v, want %v", st.Mode, tt.want)
			}
			if st.Mode == ModeIdle && (st.Selected != nil || st.Edit != nil || len(st.Multi) != 0) {
				t.Errorf("idle state carries references: %+v", st)
			}
		})
	}
}

// ============================================================================
// Select All Tests
// ============================================================================

func TestSelectAll_UsesVisibleView(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g,
		map[string]string{"status": "complete"},
		map[string]string{"status": "blocked"},
		map[string]string{"status": "complete"},
	)
	spec := ViewSpec{FilterField: "status", FilterValue: "complete"}
	for _, k := range BuiltInKeys() {
		if k != "status" && k != "priority" {
			spec.HiddenFields = append(spec.HiddenFields, k)
		}
	}

	if err := g.SelectAll(spec); err != nil {
		t.Fatal(err)
	}
	st := g.Selection()
	want := []CellRef{{1, "status"}, {1, "priority"}, {3, "status"}, {3, "priority"}}
	if st.Mode != ModeMulti || !reflect.DeepEqual(st.Multi, want) {
		t.Errorf("state = %+v, want multi %v", st, want)
	}

	if err := g.SelectAll(ViewSpec{FilterField: "status", FilterValue: "nothing"}); err != nil {
		t.Fatal(err)
	}
	if g.Selection().Mode != ModeIdle {
		t.Error("select all over an empty view should be idle")
	}
}

// ============================================================================
// Batch Tests
// ============================================================================

func selectRows(t *testing.T, g *Grid, cells ...CellRef) {
	t.Helper()
	for _, c := range cells {
		if err := g.ToggleSelect(c); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBatchDelete(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, nil, nil, nil, nil)
	selectRows(t, g,
		CellRef{ids[2], "status"}, CellRef{ids[2], "priority"},
		CellRef{ids[0], "url"},
	)

	if n := g.BatchDelete(); n != 2 {
		t.Errorf("deleted = %d, want 2 distinct rows", n)
	}
	if got := rowIDs(g.Rows()); !reflect.DeepEqual(got, []int{ids[1], ids[3]}) {
		t.Errorf("remaining = %v", got)
	}
	if g.Selection().Mode != ModeIdle {
		t.Error("batch did not return to idle")
	}
}

func TestBatchDuplicate(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g,
		map[string]string{"jobRequest": "a"},
		map[string]string{"jobRequest": "b"},
		map[string]string{"jobRequest": "c"},
	)
	selectRows(t, g, CellRef{ids[2], "status"}, CellRef{ids[0], "status"}, CellRef{ids[0], "url"})

	created, err := g.BatchDuplicate()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(created, []int{4, 5}) {
		t.Errorf("created = %v, want [4 5]", created)
	}
	if got := rowIDs(g.Rows()); !reflect.DeepEqual(got, []int{1, 4, 2, 3, 5}) {
		t.Errorf("order = %v", got)
	}
	if r, _ := g.Row(5); r.Get("jobRequest").Text != "c" {
		t.Errorf("row 5 = %+v, want copy of c", r.Fields)
	}
	if g.Selection().Mode != ModeIdle {
		t.Error("batch did not return to idle")
	}
}

func TestBatchClear(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g,
		map[string]string{"jobRequest": "a"},
		map[string]string{"jobRequest": "b"},
	)
	selectRows(t, g, CellRef{ids[1], "url"})

	n, err := g.BatchClear()
	if err != nil || n != 1 {
		t.Fatalf("BatchClear = %d, %v", n, err)
	}
	if r, _ := g.Row(ids[1]); r.Get("jobRequest").Text != "" || r.Get("status").Text != "" {
		t.Errorf("row not cleared: %+v", r.Fields)
	}
	if r, _ := g.Row(ids[0]); r.Get("jobRequest").Text != "a" {
		t.Error("unselected row cleared")
	}
}

func TestBatch_WithoutMultiSelectIsNoop(t *testing.T) {
	g := newTestGrid(t)
	ids := seedRows(t, g, nil)
	g.Click(CellRef{ids[0], "status"})

	if n := g.BatchDelete(); n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
	if g.RowCount() != 1 {
		t.Error("row deleted without multi-select")
	}
}

func ptr(s string) *string { return &s }
