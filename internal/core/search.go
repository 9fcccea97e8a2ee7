package core

import "strings"

// Annotations is the search result over a derived view: which visible cells
// contain the term, and how many there are.
type Annotations struct {
	Term    string
	Count   int
	matches []CellRef
	set     map[CellRef]struct{}
}

// Annotate computes per-cell matches of term over the visible fields of an
// already-derived view. Matching is case-insensitive containment on the
// cell text. A blank term matches nothing. Count counts cells, not rows.
func Annotate(view []Row, visibleFields []string, term string) Annotations {
	a := Annotations{Term: term, set: map[CellRef]struct{}{}}
	if strings.TrimSpace(term) == "" {
		return a
	}
	needle := strings.ToLower(term)
	for _, row := range view {
		for _, f := range visibleFields {
			if strings.Contains(strings.ToLower(row.Get(f).Text), needle) {
				ref := CellRef{RowID: row.ID, Field: f}
				a.matches = append(a.matches, ref)
				a.set[ref] = struct{}{}
			}
		}
	}
	a.Count = len(a.matches)
	return a
}

// IsMatch reports whether the cell matched the search term.
func (a Annotations) IsMatch(rowID int, field string) bool {
	_, ok := a.set[CellRef{RowID: rowID, Field: field}]
	return ok
}

// Matches returns matched cells in view order: rows top to bottom, fields
// left to right.
func (a Annotations) Matches() []CellRef {
	out := make([]CellRef, len(a.matches))
	copy(out, a.matches)
	return out
}

// NextMatch returns the first match after from, wrapping around. If from is
// not itself a match, the search starts at the top. ok is false when there
// are no matches.
func (a Annotations) NextMatch(from CellRef) (CellRef, bool) {
	n := len(a.matches)
	if n == 0 {
		return CellRef{}, false
	}
	start := 0
	if i := a.position(from); i >= 0 {
		start = i + 1
	}
	return a.matches[start%n], true
}

// PrevMatch returns the match before from, wrapping around. If from is not
// a match, the last match is returned.
func (a Annotations) PrevMatch(from CellRef) (CellRef, bool) {
	n := len(a.matches)
	if n == 0 {
		return CellRef{}, false
	}
	i := a.position(from)
	if i < 0 {
		return a.matches[n-1], true
	}
	return a.matches[(i-1+n)%n], true
}

func (a Annotations) position(ref CellRef) int {
	for i, m := range a.matches {
		if m == ref {
			return i
		}
	}
	return -1
}
