package core

import (
	"fmt"
	"log/slog"
	"time"
)

// Options configures a Grid. Zero values select the defaults.
type Options struct {
	MinColumnWidth     int
	DefaultColumnWidth int
	Now                func() time.Time // clock for the submitted date; defaults to time.Now
	Logger             *slog.Logger     // defaults to slog.Default()
}

// Grid is the tabular data engine: column registry, row store, and the
// selection/edit state machine. A Grid is not safe for concurrent use; the
// caller serializes every call.
type Grid struct {
	cols   *Registry
	rows   *RowStore
	sel    selection
	now    func() time.Time
	logger *slog.Logger
}

// NewGrid returns an empty grid with the built-in columns.
func NewGrid(opts Options) *Grid {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Grid{
		cols:   NewRegistry(opts.MinColumnWidth, opts.DefaultColumnWidth),
		rows:   NewRowStore(),
		now:    now,
		logger: logger,
	}
}

// ============================================================================
// Read access
// ============================================================================

// Columns returns every column in registry order.
func (g *Grid) Columns() []Column { return g.cols.Columns() }

// Column returns the column for key.
func (g *Grid) Column(key string) (Column, bool) { return g.cols.Lookup(key) }

// VisibleColumns returns the non-hidden columns in registry order.
func (g *Grid) VisibleColumns(hidden []string) []Column { return g.cols.VisibleColumns(hidden) }

// ColumnWidth returns the width of key, or 0 if absent.
func (g *Grid) ColumnWidth(key string) int { return g.cols.Width(key) }

// Rows returns copies of every row in store order.
func (g *Grid) Rows() []Row { return g.rows.Rows() }

// Row returns a copy of the row with id.
func (g *Grid) Row(id int) (Row, bool) { return g.rows.Get(id) }

// RowCount returns the number of rows in the store.
func (g *Grid) RowCount() int { return g.rows.Len() }

// View derives the processed view for spec.
func (g *Grid) View(spec ViewSpec) ([]Row, error) {
	return DeriveView(g.rows.Rows(), spec)
}

// ============================================================================
// Column operations
// ============================================================================

// AddColumn adds a custom column derived from label and returns its key.
// position is a registry index; negative or past-the-end appends. Positions
// inside the built-in range are rejected with ErrProtectedColumn. Every
// existing row is backfilled with an empty value.
func (g *Grid) AddColumn(label string, position int) (string, error) {
	col, pos, err := g.cols.prepareAdd(label, position)
	if err != nil {
		return "", err
	}
	g.cols.insert(col, pos)
	g.rows.backfill(col.Key, col.Type)
	g.logger.Debug("column added", "field", col.Key, "label", col.Label, "position", pos)
	return col.Key, nil
}

// RemoveColumn removes a custom column from the registry, from width
// tracking, and from every row. Any selection or edit that references the
// column is dropped first.
func (g *Grid) RemoveColumn(key string) error {
	pos, err := g.cols.prepareRemove(key)
	if err != nil {
		return err
	}
	g.invalidate(func(c CellRef) bool { return c.Field == key })
	g.cols.remove(pos)
	g.rows.dropField(key)
	g.logger.Debug("column removed", "field", key)
	return nil
}

// RenameColumn changes the label of a custom column. The field key is
// unchanged.
func (g *Grid) RenameColumn(key, label string) error {
	if err := g.cols.rename(key, label); err != nil {
		return err
	}
	g.logger.Debug("column renamed", "field", key, "label", label)
	return nil
}

// SetColumnWidth stores a new width for key, clamped to the minimum width,
// and returns the stored value.
func (g *Grid) SetColumnWidth(key string, width int) (int, error) {
	return g.cols.setWidth(key, width)
}

// ClearField sets key to empty on every row.
func (g *Grid) ClearField(key string) error {
	col, ok := g.cols.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	g.rows.clearField(key, col.Type)
	g.logger.Debug("column cleared", "field", key)
	return nil
}

// ============================================================================
// Row operations
// ============================================================================

// InsertRow creates a row with default values and returns its id. A
// negative or past-the-end position appends.
func (g *Grid) InsertRow(position int) int {
	id := g.rows.nextID()
	pos := g.rows.insertAt(defaultRow(id, g.cols.columns, g.now()), position)
	g.logger.Debug("row inserted", "row_id", id, "position", pos)
	return id
}

// DeleteRow removes the row with id. It is a no-op when the row does not
// exist and reports whether a row was removed.
func (g *Grid) DeleteRow(id int) bool {
	pos := g.rows.Position(id)
	if pos < 0 {
		return false
	}
	g.invalidate(func(c CellRef) bool { return c.RowID == id })
	g.rows.removeAt(pos)
	g.logger.Debug("row deleted", "row_id", id)
	return true
}

// DuplicateRow copies every field of the row into a new row placed directly
// after it and returns the new id.
func (g *Grid) DuplicateRow(id int) (int, error) {
	src, err := g.rows.row(id)
	if err != nil {
		return 0, err
	}
	dup := src.Clone()
	dup.ID = g.rows.nextID()
	g.rows.insertAt(&dup, g.rows.Position(id)+1)
	g.logger.Debug("row duplicated", "row_id", id, "new_row_id", dup.ID)
	return dup.ID, nil
}

// SetField writes text into one cell. The value takes the column's kind.
func (g *Grid) SetField(id int, key, text string) error {
	row, err := g.rows.row(id)
	if err != nil {
		return err
	}
	col, ok := g.cols.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	row.Fields[key] = Value{Kind: col.Type, Text: text}
	return nil
}

// ClearCell sets one cell to empty.
func (g *Grid) ClearCell(id int, key string) error {
	return g.SetField(id, key, "")
}

// ClearRow sets every field of the row to empty. The id is kept.
func (g *Grid) ClearRow(id int) error {
	row, err := g.rows.row(id)
	if err != nil {
		return err
	}
	for _, c := range g.cols.columns {
		row.Fields[c.Key] = Value{Kind: c.Type}
	}
	g.logger.Debug("row cleared", "row_id", id)
	return nil
}

// checkCell verifies that both the row and the column of ref exist.
func (g *Grid) checkCell(ref CellRef) error {
	if g.rows.Position(ref.RowID) < 0 {
		return fmt.Errorf("%w: %d", ErrRowNotFound, ref.RowID)
	}
	if _, ok := g.cols.Lookup(ref.Field); !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, ref.Field)
	}
	return nil
}
