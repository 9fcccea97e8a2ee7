package exchange

import (
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

// table is the flat form both writers consume.
type table struct {
	header  []string
	widths  []int
	records [][]string
}

// Export writes the grid to w. ScopeView writes the rows of spec's derived
// view restricted to its visible columns; ScopeAll ignores spec and writes
// every row and column. Headers are column labels.
func Export(w io.Writer, g *core.Grid, spec core.ViewSpec, format Format, scope Scope) error {
	t, err := buildTable(g, spec, scope)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, t)
	case FormatXLSX:
		return writeXLSX(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func buildTable(g *core.Grid, spec core.ViewSpec, scope Scope) (*table, error) {
	var (
		cols []core.Column
		rows []core.Row
	)
	if scope == ScopeAll {
		cols = g.Columns()
		rows = g.Rows()
	} else {
		view, err := g.View(spec)
		if err != nil {
			return nil, err
		}
		cols = g.VisibleColumns(spec.HiddenFields)
		rows = view
	}

	t := &table{
		header:  make([]string, len(cols)),
		widths:  make([]int, len(cols)),
		records: make([][]string, len(rows)),
	}
	for i, c := range cols {
		t.header[i] = c.Label
		t.widths[i] = g.ColumnWidth(c.Key)
	}
	for i, r := range rows {
		rec := make([]string, len(cols))
		for j, c := range cols {
			rec[j] = r.Get(c.Key).Text
		}
		t.records[i] = rec
	}
	return t, nil
}

// Filename returns a download name such as "grid-2024-03-15.csv".
func Filename(format Format, now time.Time) string {
	return "grid-" + now.Format("2006-01-02") + format.Extension()
}
