package core

import "fmt"

// MenuAction names a context-menu command.
type MenuAction string

const (
	MenuAddRowAbove    MenuAction = "addRowAbove"
	MenuAddRowBelow    MenuAction = "addRowBelow"
	MenuAddColumnLeft  MenuAction = "addColumnLeft"
	MenuAddColumnRight MenuAction = "addColumnRight"
	MenuDeleteRow      MenuAction = "deleteRow"
	MenuDeleteColumn   MenuAction = "deleteColumn"
	MenuDuplicateRow   MenuAction = "duplicateRow"
	MenuClearCell      MenuAction = "clearCell"
	MenuClearRow       MenuAction = "clearRow"
	MenuClearColumn    MenuAction = "clearColumn"
)

// MenuActions lists every action in menu order.
var MenuActions = []MenuAction{
	MenuAddRowAbove, MenuAddRowBelow, MenuAddColumnLeft, MenuAddColumnRight,
	MenuDeleteRow, MenuDeleteColumn, MenuDuplicateRow,
	MenuClearCell, MenuClearRow, MenuClearColumn,
}

// MenuTarget is the cell the menu was opened on, captured when it opened.
// RowID 0 means a column header; an empty Field means a row header.
type MenuTarget struct {
	RowID int    `json:"rowId"`
	Field string `json:"field"`
}

// MenuResult reports what a menu action produced.
type MenuResult struct {
	Action MenuAction `json:"action"`
	RowID  int        `json:"rowId,omitempty"` // new row for add/duplicate
	Field  string     `json:"field,omitempty"` // new column for add
}

// ResolveMenuTarget converts view positions into a MenuTarget. A negative
// rowIndex or columnIndex leaves that part of the target empty.
func ResolveMenuTarget(view []Row, cols []Column, rowIndex, columnIndex int) (MenuTarget, error) {
	var t MenuTarget
	if rowIndex >= 0 {
		if rowIndex >= len(view) {
			return t, fmt.Errorf("%w: row %d", ErrIndexOutOfRange, rowIndex)
		}
		t.RowID = view[rowIndex].ID
	}
	if columnIndex >= 0 {
		if columnIndex >= len(cols) {
			return t, fmt.Errorf("%w: column %d", ErrIndexOutOfRange, columnIndex)
		}
		t.Field = cols[columnIndex].Key
	}
	return t, nil
}

// ApplyMenuAction routes a context-menu action to the matching row or
// column operation. The target is the menu's captured cell, not the current
// selection.
func (g *Grid) ApplyMenuAction(action MenuAction, t MenuTarget) (MenuResult, error) {
	res := MenuResult{Action: action}
	switch action {
	case MenuAddRowAbove, MenuAddRowBelow:
		pos := g.rows.Position(t.RowID)
		if pos < 0 {
			return res, fmt.Errorf("%w: %d", ErrRowNotFound, t.RowID)
		}
		if action == MenuAddRowBelow {
			pos++
		}
		res.RowID = g.InsertRow(pos)

	case MenuAddColumnLeft, MenuAddColumnRight:
		idx := g.cols.Index(t.Field)
		if idx < 0 {
			return res, fmt.Errorf("%w: %s", ErrFieldNotFound, t.Field)
		}
		if action == MenuAddColumnRight {
			idx++
		}
		key, err := g.AddColumn(g.cols.nextAutoLabel(), max(idx, g.cols.BuiltInCount()))
		if err != nil {
			return res, err
		}
		res.Field = key

	case MenuDeleteRow:
		g.DeleteRow(t.RowID)

	case MenuDeleteColumn:
		if err := g.RemoveColumn(t.Field); err != nil {
			return res, err
		}

	case MenuDuplicateRow:
		id, err := g.DuplicateRow(t.RowID)
		if err != nil {
			return res, err
		}
		res.RowID = id

	case MenuClearCell:
		if err := g.ClearCell(t.RowID, t.Field); err != nil {
			return res, err
		}

	case MenuClearRow:
		if err := g.ClearRow(t.RowID); err != nil {
			return res, err
		}

	case MenuClearColumn:
		if err := g.ClearField(t.Field); err != nil {
			return res, err
		}

	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownMenuAction, action)
	}
	g.logger.Debug("menu action applied", "action", action, "row_id", t.RowID, "field", t.Field)
	return res, nil
}
