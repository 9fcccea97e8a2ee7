package core

import "fmt"

// Mode is the state of the selection/edit state machine.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSingle
	ModeMulti
	ModeEditing
)

// String returns the lowercase state name.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names are idle.
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "single":
		*m = ModeSingle
	case "multi":
		*m = ModeMulti
	case "editing":
		*m = ModeEditing
	default:
		*m = ModeIdle
	}
	return nil
}

// EditSession is the single in-flight edit.
type EditSession struct {
	Cell  CellRef `json:"cell"`
	Draft string  `json:"draft"`
}

// SelectionState is a snapshot of the state machine. Exactly one of
// Selected, Multi, Edit is populated, according to Mode.
type SelectionState struct {
	Mode     Mode         `json:"mode"`
	Selected *CellRef     `json:"selected,omitempty"`
	Multi    []CellRef    `json:"multi,omitempty"`
	Edit     *EditSession `json:"edit,omitempty"`
}

// selection is the live state. cell is the selected cell in ModeSingle and
// the edited cell in ModeEditing. multi keeps toggle order.
type selection struct {
	mode  Mode
	cell  CellRef
	multi []CellRef
	draft string
}

func (s *selection) reset() {
	*s = selection{}
}

func (s *selection) indexOf(ref CellRef) int {
	for i, m := range s.multi {
		if m == ref {
			return i
		}
	}
	return -1
}

// Selection returns a snapshot of the current state.
func (g *Grid) Selection() SelectionState {
	st := SelectionState{Mode: g.sel.mode}
	switch g.sel.mode {
	case ModeSingle:
		c := g.sel.cell
		st.Selected = &c
	case ModeMulti:
		st.Multi = make([]CellRef, len(g.sel.multi))
		copy(st.Multi, g.sel.multi)
	case ModeEditing:
		st.Edit = &EditSession{Cell: g.sel.cell, Draft: g.sel.draft}
	}
	return st
}

// Click selects a single cell, committing any active edit first.
func (g *Grid) Click(ref CellRef) error {
	if err := g.checkCell(ref); err != nil {
		return err
	}
	if err := g.commitActive(); err != nil {
		return err
	}
	g.sel = selection{mode: ModeSingle, cell: ref}
	return nil
}

// ToggleSelect adds or removes ref from the multi-select set. Entering
// multi-select clears a single selection; an empty set returns to Idle.
func (g *Grid) ToggleSelect(ref CellRef) error {
	if err := g.checkCell(ref); err != nil {
		return err
	}
	if err := g.commitActive(); err != nil {
		return err
	}
	if g.sel.mode != ModeMulti {
		g.sel = selection{mode: ModeMulti}
	}
	if i := g.sel.indexOf(ref); i >= 0 {
		g.sel.multi = append(g.sel.multi[:i], g.sel.multi[i+1:]...)
	} else {
		g.sel.multi = append(g.sel.multi, ref)
	}
	if len(g.sel.multi) == 0 {
		g.sel.reset()
	}
	return nil
}

// BeginEdit opens an edit on ref with the current value as draft. An edit
// on a different cell is committed first; beginning an edit on the cell
// already being edited keeps its draft.
func (g *Grid) BeginEdit(ref CellRef) error {
	if err := g.checkCell(ref); err != nil {
		return err
	}
	if g.sel.mode == ModeEditing {
		if g.sel.cell == ref {
			return nil
		}
		if err := g.commitActive(); err != nil {
			return err
		}
	}
	row, _ := g.rows.Get(ref.RowID)
	g.sel = selection{mode: ModeEditing, cell: ref, draft: row.Get(ref.Field).Text}
	return nil
}

// DoubleClick is the pointer gesture for BeginEdit.
func (g *Grid) DoubleClick(ref CellRef) error { return g.BeginEdit(ref) }

// UpdateDraft replaces the draft of the active edit.
func (g *Grid) UpdateDraft(text string) error {
	if g.sel.mode != ModeEditing {
		return ErrNoActiveEdit
	}
	g.sel.draft = text
	return nil
}

// CommitEdit writes the draft back to the row and keeps the cell selected.
func (g *Grid) CommitEdit() error {
	if g.sel.mode != ModeEditing {
		return ErrNoActiveEdit
	}
	return g.commitActive()
}

// CancelEdit discards the draft and keeps the cell selected.
func (g *Grid) CancelEdit() error {
	if g.sel.mode != ModeEditing {
		return ErrNoActiveEdit
	}
	g.sel = selection{mode: ModeSingle, cell: g.sel.cell}
	return nil
}

// ClearSelection returns to Idle, discarding any draft.
func (g *Grid) ClearSelection() {
	g.sel.reset()
}

// commitActive commits the active edit, if any.
func (g *Grid) commitActive() error {
	if g.sel.mode != ModeEditing {
		return nil
	}
	cell := g.sel.cell
	if err := g.SetField(cell.RowID, cell.Field, g.sel.draft); err != nil {
		g.sel.reset()
		return fmt.Errorf("commit edit: %w", err)
	}
	g.logger.Debug("edit committed", "row_id", cell.RowID, "field", cell.Field)
	g.sel = selection{mode: ModeSingle, cell: cell}
	return nil
}

// SelectAll puts every visible cell of the derived view into the
// multi-select set. An empty view returns to Idle.
func (g *Grid) SelectAll(spec ViewSpec) error {
	view, err := g.View(spec)
	if err != nil {
		return err
	}
	if err := g.commitActive(); err != nil {
		return err
	}
	cols := g.cols.VisibleColumns(spec.HiddenFields)
	g.sel.reset()
	for _, r := range view {
		for _, c := range cols {
			g.sel.multi = append(g.sel.multi, CellRef{RowID: r.ID, Field: c.Key})
		}
	}
	if len(g.sel.multi) > 0 {
		g.sel.mode = ModeMulti
	}
	return nil
}

// invalidate drops the selection or edit when any referenced cell matches
// gone. The draft of a dropped edit is discarded.
func (g *Grid) invalidate(gone func(CellRef) bool) {
	switch g.sel.mode {
	case ModeSingle, ModeEditing:
		if gone(g.sel.cell) {
			g.sel.reset()
		}
	case ModeMulti:
		for _, m := range g.sel.multi {
			if gone(m) {
				g.sel.reset()
				return
			}
		}
	}
}
