package session

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

// ErrUnknownCommand is returned for an unrecognized Command.Type.
var ErrUnknownCommand = errors.New("unknown command")

// ErrMenuClosed is returned by a menu action when no target was captured.
var ErrMenuClosed = errors.New("context menu is not open")

// Command types accepted by Apply.
const (
	CmdClick          = "click"
	CmdToggle         = "toggle"
	CmdBeginEdit      = "beginEdit"
	CmdUpdateDraft    = "updateDraft"
	CmdCommitEdit     = "commitEdit"
	CmdCancelEdit     = "cancelEdit"
	CmdClearSelection = "clearSelection"
	CmdSelectAll      = "selectAll"
	CmdKey            = "key"
	CmdSearchNext     = "searchNext"
	CmdSearchPrev     = "searchPrev"

	CmdInsertRow    = "insertRow"
	CmdDeleteRow    = "deleteRow"
	CmdDuplicateRow = "duplicateRow"
	CmdSetField     = "setField"
	CmdClearRow     = "clearRow"
	CmdClearCell    = "clearCell"

	CmdAddColumn    = "addColumn"
	CmdRemoveColumn = "removeColumn"
	CmdRenameColumn = "renameColumn"
	CmdResizeColumn = "resizeColumn"
	CmdClearColumn  = "clearColumn"

	CmdBatchDelete    = "batchDelete"
	CmdBatchDuplicate = "batchDuplicate"
	CmdBatchClear     = "batchClear"

	CmdOpenMenu  = "openMenu"
	CmdMenu      = "menu"
	CmdCloseMenu = "closeMenu"

	CmdSetView = "setView"
)

// Command is the single wire shape for every user interaction. Only the
// fields relevant to Type are read. Cells are addressed by RowID and Field;
// RowIndex and ColumnIndex are view positions used by the context menu.
type Command struct {
	Type        string          `json:"type"`
	RowID       int             `json:"rowId,omitempty"`
	Field       string          `json:"field,omitempty"`
	Text        string          `json:"text,omitempty"`
	Position    *int            `json:"position,omitempty"`
	Width       int             `json:"width,omitempty"`
	Key         *core.KeyEvent  `json:"key,omitempty"`
	Action      core.MenuAction `json:"action,omitempty"`
	RowIndex    *int            `json:"rowIndex,omitempty"`
	ColumnIndex *int            `json:"columnIndex,omitempty"`
	Spec        *core.ViewSpec  `json:"spec,omitempty"`
}

func (c Command) cell() core.CellRef {
	return core.CellRef{RowID: c.RowID, Field: c.Field}
}

func (c Command) position() int {
	if c.Position == nil {
		return -1
	}
	return *c.Position
}

func indexOr(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

// Result reports what a command did, followed by the re-derived projection.
type Result struct {
	Changed    bool             `json:"changed"`
	RowID      int              `json:"rowId,omitempty"`
	RowIDs     []int            `json:"rowIds,omitempty"`
	Field      string           `json:"field,omitempty"`
	Count      int              `json:"count,omitempty"`
	Width      int              `json:"width,omitempty"`
	Match      *core.CellRef    `json:"match,omitempty"`
	Menu       *core.MenuTarget `json:"menu,omitempty"`
	Projection *core.Projection `json:"projection"`
}

// Apply executes one command against the session and returns the outcome
// together with a fresh projection. Errors wrap the engine sentinel with
// the command type.
func (s *Session) Apply(cmd Command) (*Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	s.lastSeen = s.now()
	res, err := s.apply(cmd)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", cmd.Type, err)
	}
	p, err := s.grid.Project(s.spec)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	res.Projection = p

	if res.Changed {
		s.notify()
	}
	return res, nil
}

// apply dispatches cmd. The caller holds s.mu.
func (s *Session) apply(cmd Command) (*Result, error) {
	g := s.grid
	res := &Result{Changed: true}
	var err error

	switch cmd.Type {
	// Selection and editing
	case CmdClick:
		err = g.Click(cmd.cell())
	case CmdToggle:
		err = g.ToggleSelect(cmd.cell())
	case CmdBeginEdit:
		err = g.BeginEdit(cmd.cell())
	case CmdUpdateDraft:
		err = g.UpdateDraft(cmd.Text)
	case CmdCommitEdit:
		err = g.CommitEdit()
	case CmdCancelEdit:
		err = g.CancelEdit()
	case CmdClearSelection:
		g.ClearSelection()
	case CmdSelectAll:
		err = g.SelectAll(s.spec)
	case CmdKey:
		if cmd.Key == nil {
			return nil, fmt.Errorf("%w: key event missing", ErrUnknownCommand)
		}
		res.Changed, err = g.HandleKey(*cmd.Key, s.spec)
	case CmdSearchNext, CmdSearchPrev:
		res.Match, err = s.jumpToMatch(cmd.Type == CmdSearchNext)
		res.Changed = res.Match != nil

	// Rows
	case CmdInsertRow:
		res.RowID = g.InsertRow(cmd.position())
	case CmdDeleteRow:
		res.Changed = g.DeleteRow(cmd.RowID)
	case CmdDuplicateRow:
		res.RowID, err = g.DuplicateRow(cmd.RowID)
	case CmdSetField:
		err = g.SetField(cmd.RowID, cmd.Field, cmd.Text)
	case CmdClearRow:
		err = g.ClearRow(cmd.RowID)
	case CmdClearCell:
		err = g.ClearCell(cmd.RowID, cmd.Field)

	// Columns
	case CmdAddColumn:
		res.Field, err = g.AddColumn(cmd.Text, cmd.position())
	case CmdRemoveColumn:
		err = g.RemoveColumn(cmd.Field)
	case CmdRenameColumn:
		err = g.RenameColumn(cmd.Field, cmd.Text)
	case CmdResizeColumn:
		res.Width, err = g.SetColumnWidth(cmd.Field, cmd.Width)
	case CmdClearColumn:
		err = g.ClearField(cmd.Field)

	// Batch
	case CmdBatchDelete:
		res.Count = g.BatchDelete()
	case CmdBatchDuplicate:
		res.RowIDs, err = g.BatchDuplicate()
		res.Count = len(res.RowIDs)
	case CmdBatchClear:
		res.Count, err = g.BatchClear()

	// Context menu
	case CmdOpenMenu:
		var t core.MenuTarget
		t, err = s.resolveMenuTarget(cmd)
		if err == nil {
			s.menu = &t
			res.Menu = &t
		}
	case CmdCloseMenu:
		s.menu = nil
	case CmdMenu:
		err = s.applyMenu(cmd, res)

	// View
	case CmdSetView:
		if cmd.Spec == nil {
			return nil, fmt.Errorf("%w: view spec missing", ErrUnknownCommand)
		}
		spec := *cmd.Spec
		spec.ViewMode = core.ParseViewMode(string(spec.ViewMode))
		if _, err := core.NewPipeline(spec); err != nil {
			return nil, err
		}
		s.spec = spec

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	if err != nil {
		return nil, err
	}
	return res, nil
}

// resolveMenuTarget turns the command's view positions into a target. A
// command that names RowID/Field directly is used as is.
func (s *Session) resolveMenuTarget(cmd Command) (core.MenuTarget, error) {
	if cmd.RowIndex == nil && cmd.ColumnIndex == nil {
		return core.MenuTarget{RowID: cmd.RowID, Field: cmd.Field}, nil
	}
	view, err := s.grid.View(s.spec)
	if err != nil {
		return core.MenuTarget{}, err
	}
	cols := s.grid.VisibleColumns(s.spec.HiddenFields)
	return core.ResolveMenuTarget(view, cols, indexOr(cmd.RowIndex), indexOr(cmd.ColumnIndex))
}

// applyMenu runs a menu action against the captured target, or against the
// positions in cmd when they are given. The menu closes afterwards.
func (s *Session) applyMenu(cmd Command, res *Result) error {
	var target core.MenuTarget
	switch {
	case cmd.RowIndex != nil || cmd.ColumnIndex != nil:
		t, err := s.resolveMenuTarget(cmd)
		if err != nil {
			return err
		}
		target = t
	case s.menu != nil:
		target = *s.menu
	default:
		return ErrMenuClosed
	}

	out, err := s.grid.ApplyMenuAction(cmd.Action, target)
	if err != nil {
		return err
	}
	s.menu = nil
	res.RowID = out.RowID
	res.Field = out.Field
	res.Menu = &target
	return nil
}

// jumpToMatch selects the next or previous search match relative to the
// current selection.
func (s *Session) jumpToMatch(forward bool) (*core.CellRef, error) {
	view, err := s.grid.View(s.spec)
	if err != nil {
		return nil, err
	}
	cols := s.grid.VisibleColumns(s.spec.HiddenFields)
	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = c.Key
	}
	ann := core.Annotate(view, fields, s.spec.SearchTerm)

	var from core.CellRef
	if st := s.grid.Selection(); st.Selected != nil {
		from = *st.Selected
	}
	next, ok := ann.PrevMatch(from)
	if forward {
		next, ok = ann.NextMatch(from)
	}
	if !ok {
		return nil, nil
	}
	if err := s.grid.Click(next); err != nil {
		return nil, err
	}
	return &next, nil
}
