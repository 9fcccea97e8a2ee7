package core

// Direction is an arrow-key move.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Key names follow the browser KeyboardEvent.key values.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyTab        = "Tab"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyDelete     = "Delete"
	KeyBackspace  = "Backspace"
)

// KeyEvent is a key press not captured by a text input. RowModifier is the
// modifier that turns Delete into a row delete.
type KeyEvent struct {
	Key         string `json:"key"`
	RowModifier bool   `json:"rowModifier,omitempty"`
}

var arrowKeys = map[string]Direction{
	KeyArrowUp:    DirUp,
	KeyArrowDown:  DirDown,
	KeyArrowLeft:  DirLeft,
	KeyArrowRight: DirRight,
	KeyTab:        DirRight,
}

// HandleKey applies a key event to the state machine and reports whether it
// changed anything.
//
//	Editing:  Enter/Tab commit, Escape cancels.
//	Single:   arrows and Tab move, Enter edits, Escape deselects,
//	          Delete clears the cell, Delete+RowModifier deletes the row.
//	Multi:    Escape deselects.
func (g *Grid) HandleKey(ev KeyEvent, spec ViewSpec) (bool, error) {
	switch g.sel.mode {
	case ModeEditing:
		switch ev.Key {
		case KeyEnter, KeyTab:
			return true, g.CommitEdit()
		case KeyEscape:
			return true, g.CancelEdit()
		}
	case ModeSingle:
		cell := g.sel.cell
		if dir, ok := arrowKeys[ev.Key]; ok {
			return g.Navigate(dir, spec)
		}
		switch ev.Key {
		case KeyEnter:
			return true, g.BeginEdit(cell)
		case KeyEscape:
			g.sel.reset()
			return true, nil
		case KeyDelete, KeyBackspace:
			if ev.RowModifier {
				return g.DeleteRow(cell.RowID), nil
			}
			return true, g.ClearCell(cell.RowID, cell.Field)
		}
	case ModeMulti:
		if ev.Key == KeyEscape {
			g.sel.reset()
			return true, nil
		}
	}
	return false, nil
}

// Navigate moves the single selection by one cell within the derived view.
// Moving down past the last row appends a row; moving right past the last
// visible column appends a column. Moving up or left at the edge is a
// no-op, as is navigating from a cell that is not in the view.
func (g *Grid) Navigate(dir Direction, spec ViewSpec) (bool, error) {
	if g.sel.mode != ModeSingle {
		return false, nil
	}
	view, err := g.View(spec)
	if err != nil {
		return false, err
	}
	cols := g.cols.VisibleColumns(spec.HiddenFields)
	cell := g.sel.cell

	ri := -1
	for i, r := range view {
		if r.ID == cell.RowID {
			ri = i
			break
		}
	}
	ci := -1
	for i, c := range cols {
		if c.Key == cell.Field {
			ci = i
			break
		}
	}
	if ri < 0 || ci < 0 {
		return false, nil
	}

	switch dir {
	case DirUp:
		if ri == 0 {
			return false, nil
		}
		cell.RowID = view[ri-1].ID
	case DirDown:
		if ri == len(view)-1 {
			cell.RowID = g.InsertRow(-1)
		} else {
			cell.RowID = view[ri+1].ID
		}
	case DirLeft:
		if ci == 0 {
			return false, nil
		}
		cell.Field = cols[ci-1].Key
	case DirRight:
		if ci == len(cols)-1 {
			key, err := g.AddColumn(g.cols.nextAutoLabel(), -1)
			if err != nil {
				return false, err
			}
			cell.Field = key
		} else {
			cell.Field = cols[ci+1].Key
		}
	default:
		return false, nil
	}
	g.sel = selection{mode: ModeSingle, cell: cell}
	return true, nil
}
