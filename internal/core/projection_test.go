package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestProject(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g,
		map[string]string{"submitter": "Aisha Patel", "status": "complete", "estValue": "2,000"},
		map[string]string{"submitter": "Ben", "status": "blocked"},
		map[string]string{"submitter": "Pat", "status": "complete", "estValue": "10"},
	)
	g.AddColumn("Region", -1)
	g.Click(CellRef{RowID: 3, Field: "submitter"})

	spec := ViewSpec{
		HiddenFields: []string{"url", "assigned"},
		FilterField:  "status",
		FilterValue:  "complete",
		SortField:    "estValue",
		SortOrder:    SortAsc,
		SearchTerm:   "PAT",
		ViewMode:     ViewCompact,
	}
	p, err := g.Project(spec)
	if err != nil {
		t.Fatal(err)
	}

	if p.TotalRows != 3 || len(p.Rows) != 2 {
		t.Fatalf("total = %d, visible = %d", p.TotalRows, len(p.Rows))
	}
	if p.Rows[0].ID != 3 || p.Rows[1].ID != 1 {
		t.Errorf("row order = [%d %d], want [3 1]", p.Rows[0].ID, p.Rows[1].ID)
	}
	if p.MatchCount != 2 {
		t.Errorf("match count = %d, want 2", p.MatchCount)
	}
	if p.RowHeight != 28 || p.ViewMode != ViewCompact {
		t.Errorf("view mode = %s/%d", p.ViewMode, p.RowHeight)
	}

	wantCells := len(g.Columns()) - 2
	if n := len(p.Rows[0].Cells); n != wantCells {
		t.Errorf("cells per row = %d, want %d", n, wantCells)
	}
	for _, c := range p.Rows[0].Cells {
		if c.Field == "url" || c.Field == "assigned" {
			t.Errorf("hidden field %q projected", c.Field)
		}
		if c.Field == "submitter" && (!c.Match || !c.Selected) {
			t.Errorf("submitter cell = %+v, want match and selected", c)
		}
	}

	var region, url HeaderColumn
	for _, h := range p.Columns {
		switch h.Key {
		case "region":
			region = h
		case "url":
			url = h
		}
	}
	if !region.Visible || region.Index != wantCells-1 || region.Origin != Custom || region.Width != DefaultColumnWidth {
		t.Errorf("region header = %+v", region)
	}
	if url.Visible || url.Index != -1 {
		t.Errorf("url header = %+v, want hidden", url)
	}

	sel := p.Selection.Selected
	if sel == nil || sel.RowIndex != 0 || sel.ColumnIndex != 3 {
		t.Errorf("selection = %+v, want row 0 column 3", sel)
	}
}

func TestProject_DefaultsAndErrors(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g, nil)

	p, err := g.Project(ViewSpec{})
	if err != nil {
		t.Fatal(err)
	}
	if p.ViewMode != ViewNormal || p.RowHeight != 40 {
		t.Errorf("default view mode = %s/%d", p.ViewMode, p.RowHeight)
	}
	if p.Selection.Mode != ModeIdle {
		t.Errorf("mode = %v", p.Selection.Mode)
	}

	if _, err := g.Project(ViewSpec{FilterExpr: "(("}); !errors.Is(err, ErrInvalidFilterExpr) {
		t.Errorf("err = %v, want ErrInvalidFilterExpr", err)
	}
}

func TestProject_JSON(t *testing.T) {
	g := newTestGrid(t)
	seedRows(t, g, nil)
	g.BeginEdit(CellRef{RowID: 1, Field: "status"})

	p, err := g.Project(ViewSpec{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Columns []struct {
			Origin string `json:"origin"`
			Type   string `json:"type"`
		} `json:"columns"`
		Selection struct {
			Mode string `json:"mode"`
			Edit struct {
				Draft string `json:"draft"`
			} `json:"edit"`
		} `json:"selection"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Selection.Mode != "editing" || decoded.Selection.Edit.Draft != "need-to-start" {
		t.Errorf("selection = %+v", decoded.Selection)
	}
	if decoded.Columns[2].Origin != "builtin" || decoded.Columns[2].Type != "status" {
		t.Errorf("status column = %+v", decoded.Columns[2])
	}

	// Clients decode frames back into Projection.
	var back Projection
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("decode projection: %v", err)
	}
	if back.Selection.Mode != ModeEditing || back.Columns[2].Type != FieldStatus || back.Columns[2].Origin != BuiltIn {
		t.Errorf("decoded projection = %+v / %+v", back.Selection, back.Columns[2])
	}
}
