package core

import (
	"reflect"
	"testing"
)

// onlyFields hides every built-in column except keep.
func onlyFields(keep ...string) ViewSpec {
	want := map[string]bool{}
	for _, k := range keep {
		want[k] = true
	}
	var spec ViewSpec
	for _, k := range BuiltInKeys() {
		if !want[k] {
			spec.HiddenFields = append(spec.HiddenFields, k)
		}
	}
	return spec
}

func TestNavigate(t *testing.T) {
	spec := onlyFields("jobRequest", "status", "priority")

	tests := []struct {
		name    string
		start   CellRef
		dir     Direction
		want    CellRef
		changed bool
	}{
		{name: "down", start: CellRef{1, "status"}, dir: DirDown, want: CellRef{2, "status"}, changed: true},
		{name: "up", start: CellRef{2, "status"}, dir: DirUp, want: CellRef{1, "status"}, changed: true},
		{name: "up at top clamps", start: CellRef{1, "status"}, dir: DirUp, want: CellRef{1, "status"}},
		{name: "right skips hidden", start: CellRef{1, "status"}, dir: DirRight, want: CellRef{1, "priority"}, changed: true},
		{name: "left", start: CellRef{1, "status"}, dir: DirLeft, want: CellRef{1, "jobRequest"}, changed: true},
		{name: "left at first clamps", start: CellRef{1, "jobRequest"}, dir: DirLeft, want: CellRef{1, "jobRequest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t)
			seedRows(t, g, nil, nil)
			g.Click(tt.start)

			changed, err := g.Navigate(tt.dir, spec)
			if err != nil {
				t.Fatal(err)
			}
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if got := *g.Selection().Selected; got != tt.want {
				t.Errorf("selected = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNavigate_FollowsViewOrder(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g,
		map[string]string{"estValue": "30"},
		map[string]string{"estValue": "10"},
		map[string]string{"estValue": "20"},
	)
	spec := ViewSpec{SortField: "estValue", SortOrder: SortAsc}
	g.Click(CellRef{2, "estValue"})

	g.Navigate(DirDown, spec)
	if got := g.Selection().Selected.RowID; got != 3 {
		t.Errorf("row = %d, want 3 (next in sorted view)", got)
	}
}

func TestNavigate_PastLastRowInsertsRow(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g, nil, nil)
	g.Click(CellRef{2, "status"})

	changed, err := g.Navigate(DirDown, ViewSpec{})
	if err != nil || !changed {
		t.Fatalf("Navigate = %v, %v", changed, err)
	}
	if g.RowCount() != 3 {
		t.Errorf("row count = %d, want 3", g.RowCount())
	}
	if got := *g.Selection().Selected; got != (CellRef{3, "status"}) {
		t.Errorf("selected = %v, want new row", got)
	}
}

func TestNavigate_PastLastColumnInsertsColumn(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g, nil)
	g.AddColumn("Column 1", -1)
	g.Click(CellRef{1, "column1"})

	changed, err := g.Navigate(DirRight, ViewSpec{})
	if err != nil || !changed {
		t.Fatalf("Navigate = %v, %v", changed, err)
	}
	sel := g.Selection().Selected
	if sel.Field != "column2" {
		t.Errorf("selected field = %q, want column2", sel.Field)
	}
	c, ok := g.Column("column2")
	if !ok || c.Label != "Column 2" {
		t.Errorf("auto column = %+v, %v", c, ok)
	}
	if r, _ := g.Row(1); r.Get("column2").Kind != FieldText {
		t.Error("auto column not backfilled")
	}
}

func TestNavigate_OutsideViewIsNoop(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g, map[string]string{"status": "blocked"}, nil)
	g.Click(CellRef{1, "status"})

	changed, _ := g.Navigate(DirDown, ViewSpec{FilterField: "status", FilterValue: "need"})
	if changed {
		t.Error("navigation from a filtered-out row moved the selection")
	}
}

func TestHandleKey(t *testing.T) {
	t.Run("enter edits then commits", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, map[string]string{"submitter": "Ana"})
		g.Click(CellRef{1, "submitter"})

		g.HandleKey(KeyEvent{Key: KeyEnter}, ViewSpec{})
		if g.Selection().Mode != ModeEditing {
			t.Fatal("Enter did not begin editing")
		}
		g.UpdateDraft("Ann")
		g.HandleKey(KeyEvent{Key: KeyEnter}, ViewSpec{})
		if r, _ := g.Row(1); r.Get("submitter").Text != "Ann" {
			t.Error("Enter did not commit")
		}
		if g.Selection().Mode != ModeSingle {
			t.Error("commit should leave the cell selected")
		}
	})

	t.Run("escape cancels edit then deselects", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, map[string]string{"submitter": "Ana"})
		g.BeginEdit(CellRef{1, "submitter"})
		g.UpdateDraft("zzz")

		g.HandleKey(KeyEvent{Key: KeyEscape}, ViewSpec{})
		if r, _ := g.Row(1); r.Get("submitter").Text != "Ana" {
			t.Error("Escape wrote the draft")
		}
		if g.Selection().Mode != ModeSingle {
			t.Fatal("Escape during edit should keep the selection")
		}
		g.HandleKey(KeyEvent{Key: KeyEscape}, ViewSpec{})
		if g.Selection().Mode != ModeIdle {
			t.Error("Escape while selected should deselect")
		}
	})

	t.Run("tab commits edit", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, nil)
		g.BeginEdit(CellRef{1, "url"})
		g.UpdateDraft("https://example.com")
		g.HandleKey(KeyEvent{Key: KeyTab}, ViewSpec{})
		if r, _ := g.Row(1); r.Get("url").Text != "https://example.com" {
			t.Error("Tab did not commit")
		}
	})

	// Committing never moves the selection or grows the grid, even from the
	// last row and the last column.
	for _, key := range []string{KeyEnter, KeyTab} {
		t.Run(key+" commit stays on the edited cell", func(t *testing.T) {
			g := newTestGrid(t)
			seedRows(t, g, nil)
			cols := g.VisibleColumns(nil)
			last := CellRef{1, cols[len(cols)-1].Key}
			rows, width := g.RowCount(), len(cols)

			g.BeginEdit(last)
			g.UpdateDraft("x")
			g.HandleKey(KeyEvent{Key: key}, ViewSpec{})

			sel := g.Selection()
			if sel.Mode != ModeSingle || sel.Selected == nil || *sel.Selected != last {
				t.Errorf("selection after commit = %+v, want %v", sel, last)
			}
			if g.RowCount() != rows || len(g.VisibleColumns(nil)) != width {
				t.Errorf("grid grew to %d rows, %d columns", g.RowCount(), len(g.VisibleColumns(nil)))
			}
		})
	}

	t.Run("delete clears cell", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, map[string]string{"submitter": "Ana"})
		g.Click(CellRef{1, "submitter"})

		g.HandleKey(KeyEvent{Key: KeyDelete}, ViewSpec{})
		if r, _ := g.Row(1); r.Get("submitter").Text != "" {
			t.Error("Delete did not clear the cell")
		}
		if g.Selection().Mode != ModeSingle {
			t.Error("clearing a cell should keep the selection")
		}
	})

	t.Run("delete with row modifier deletes row", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, nil, nil)
		g.Click(CellRef{1, "submitter"})

		changed, _ := g.HandleKey(KeyEvent{Key: KeyDelete, RowModifier: true}, ViewSpec{})
		if !changed || g.RowCount() != 1 {
			t.Errorf("changed = %v, rows = %d", changed, g.RowCount())
		}
		if g.Selection().Mode != ModeIdle {
			t.Error("row delete should return to idle")
		}
	})

	t.Run("arrows ignored while editing", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, nil, nil)
		g.BeginEdit(CellRef{1, "url"})

		changed, _ := g.HandleKey(KeyEvent{Key: KeyArrowDown}, ViewSpec{})
		if changed || g.Selection().Mode != ModeEditing {
			t.Error("arrow key leaked out of the text input")
		}
	})

	t.Run("keys ignored while idle", func(t *testing.T) {
		g := newTestGrid(t)
		seedRows(t, g, nil)
		for _, k := range []string{KeyArrowDown, KeyEnter, KeyDelete, KeyTab} {
			if changed, _ := g.HandleKey(KeyEvent{Key: k}, ViewSpec{}); changed {
				t.Errorf("%s changed idle state", k)
			}
		}
		if !reflect.DeepEqual(g.Selection(), SelectionState{Mode: ModeIdle}) {
			t.Errorf("state = %+v", g.Selection())
		}
	})
}
