package core

import (
	"reflect"
	"testing"
)

func TestAnnotate(t *testing.T) {
	view := makeRows(
		map[string]string{"submitter": "Aisha Patel", "jobRequest": "Patio design"},
		map[string]string{"submitter": "Ben", "jobRequest": "Logo"},
		map[string]string{"submitter": "Pat", "jobRequest": "Site"},
	)
	fields := []string{"jobRequest", "submitter"}

	tests := []struct {
		name      string
		term      string
		fields    []string
		wantCount int
		wantCells []CellRef
	}{
		{
			name:      "case-insensitive substring",
			term:      "pat",
			fields:    fields,
			wantCount: 3,
			wantCells: []CellRef{{1, "jobRequest"}, {1, "submitter"}, {3, "submitter"}},
		},
		{
			name:      "hidden fields are not searched",
			term:      "pat",
			fields:    []string{"submitter"},
			wantCount: 2,
			wantCells: []CellRef{{1, "submitter"}, {3, "submitter"}},
		},
		{name: "empty term", term: "", fields: fields, wantCount: 0},
		{name: "whitespace term", term: "   ", fields: fields, wantCount: 0},
		{name: "no match", term: "zzz", fields: fields, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Annotate(view, tt.fields, tt.term)
			if a.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", a.Count, tt.wantCount)
			}
			if got := a.Matches(); len(tt.wantCells) > 0 && !reflect.DeepEqual(got, tt.wantCells) {
				t.Errorf("Matches = %v, want %v", got, tt.wantCells)
			}
			for _, c := range tt.wantCells {
				if !a.IsMatch(c.RowID, c.Field) {
					t.Errorf("IsMatch(%d, %q) = false", c.RowID, c.Field)
				}
			}
		})
	}
}

func TestAnnotate_SinglePatelExample(t *testing.T) {
	view := makeRows(map[string]string{"submitter": "Aisha Patel"})
	a := Annotate(view, []string{"submitter"}, "pat")
	if !a.IsMatch(1, "submitter") {
		t.Error(`"pat" should match "Aisha Patel"`)
	}
	if a.IsMatch(1, "jobRequest") {
		t.Error("unrelated field reported as match")
	}
}

func TestAnnotations_NextPrev(t *testing.T) {
	view := makeRows(
		map[string]string{"submitter": "x1"},
		map[string]string{"submitter": "y"},
		map[string]string{"submitter": "x2"},
		map[string]string{"submitter": "x3"},
	)
	a := Annotate(view, []string{"submitter"}, "x")
	m1, m3, m4 := CellRef{1, "submitter"}, CellRef{3, "submitter"}, CellRef{4, "submitter"}

	tests := []struct {
		name string
		from CellRef
		next CellRef
		prev CellRef
	}{
		{name: "from first match", from: m1, next: m3, prev: m4},
		{name: "from middle match", from: m3, next: m4, prev: m1},
		{name: "from last wraps", from: m4, next: m1, prev: m3},
		{name: "from non-match", from: CellRef{2, "submitter"}, next: m1, prev: m4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := a.NextMatch(tt.from); !ok || got != tt.next {
				t.Errorf("NextMatch = %v, %v; want %v", got, ok, tt.next)
			}
			if got, ok := a.PrevMatch(tt.from); !ok || got != tt.prev {
				t.Errorf("PrevMatch = %v, %v; want %v", got, ok, tt.prev)
			}
		})
	}

	empty := Annotate(view, []string{"submitter"}, "")
	if _, ok := empty.NextMatch(m1); ok {
		t.Error("NextMatch on empty annotations returned ok")
	}
	if _, ok := empty.PrevMatch(m1); ok {
		t.Error("PrevMatch on empty annotations returned ok")
	}
}
