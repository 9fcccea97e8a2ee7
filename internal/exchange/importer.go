package exchange

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

// Import defaults applied when Options fields are zero.
const (
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
	DefaultMaxRows           = 50000
)

// maxHeaderSearchRows is how far down the file the header row may start.
const maxHeaderSearchRows = 20

// contextCheckInterval is how often the row loop checks for cancellation.
const contextCheckInterval = 500

// Options limits an import.
type Options struct {
	MaxFileSize int64
	MaxRows     int
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	return o
}

// ImportResult summarizes a completed import.
type ImportResult struct {
	Format         Format        `json:"format"`
	Rows           int           `json:"rows"`
	FirstRowID     int           `json:"firstRowId,omitempty"`
	AddedColumns   []string      `json:"addedColumns,omitempty"`
	IgnoredHeaders []string      `json:"ignoredHeaders,omitempty"`
	SkippedRows    int           `json:"skippedRows"`
	Duration       time.Duration `json:"duration"`
}

// headerMapping is where one file column goes.
type headerMapping struct {
	index int    // position in the record
	key   string // existing field key, or "" for a new column
	label string // label for a new column
}

// Import reads a CSV or XLSX file and appends its records to g.
//
// The first non-empty row within the first maxHeaderSearchRows is the
// header. Each header is matched case-insensitively against existing keys
// and labels; the rest become custom columns appended after the existing
// ones. Empty records are skipped. Values are cleaned and normalized for
// their column's type.
//
// Every limit is checked before g is touched. If the import fails or ctx is
// cancelled after that, the rows and columns added so far are removed again
// and g is left as it was.
func Import(ctx context.Context, g *core.Grid, r io.Reader, format Format, opts Options) (*ImportResult, error) {
	start := time.Now()
	opts = opts.withDefaults()

	data, err := readLimited(r, opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	headerIdx := findHeaderRow(records)
	if headerIdx < 0 {
		return nil, ErrEmptyFile
	}
	header := records[headerIdx]

	var body [][]string
	skipped := 0
	for _, rec := range records[headerIdx+1:] {
		if isEmptyRow(rec) {
			skipped++
			continue
		}
		body = append(body, rec)
	}
	if len(body) > opts.MaxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, len(body), opts.MaxRows)
	}

	mappings, ignored := mapHeaders(g.Columns(), header)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &ImportResult{
		Format:         format,
		IgnoredHeaders: ignored,
		SkippedRows:    skipped,
	}

	// New columns first, so every row is created with all fields present.
	for i := range mappings {
		m := &mappings[i]
		if m.key != "" {
			continue
		}
		key, err := g.AddColumn(m.label, -1)
		if err != nil {
			res.IgnoredHeaders = append(res.IgnoredHeaders, m.label)
			m.index = -1
			continue
		}
		m.key = key
		res.AddedColumns = append(res.AddedColumns, key)
	}

	types := make(map[string]core.FieldType, len(mappings))
	for _, c := range g.Columns() {
		types[c.Key] = c.Type
	}

	inserted := make([]int, 0, len(body))
	for i, rec := range body {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				rollback(g, inserted, res.AddedColumns)
				return nil, fmt.Errorf("import cancelled after %d rows: %w", len(inserted), err)
			}
		}

		id := g.InsertRow(-1)
		inserted = append(inserted, id)
		for _, m := range mappings {
			if m.index < 0 || m.index >= len(rec) {
				continue
			}
			if err := g.SetField(id, m.key, core.NormalizeValue(types[m.key], rec[m.index])); err != nil {
				rollback(g, inserted, res.AddedColumns)
				return nil, fmt.Errorf("import row %d: %w", i+1, err)
			}
		}
	}
	if len(inserted) > 0 {
		res.FirstRowID = inserted[0]
	}
	res.Rows = len(inserted)

	res.Duration = time.Since(start)
	return res, nil
}

// mapHeaders resolves each header cell to an existing column or a new
// one. Blank headers and repeats of an already mapped column are ignored.
func mapHeaders(cols []core.Column, header []string) ([]headerMapping, []string) {
	var (
		mappings []headerMapping
		ignored  []string
		used     = make(map[string]bool)
	)

	for i, h := range header {
		label := core.CleanCell(h)
		if label == "" {
			continue
		}

		key := matchColumn(cols, label)
		claim := key
		if key == "" {
			claim = strings.ToLower(core.DeriveFieldKey(label))
		}
		if used[claim] {
			ignored = append(ignored, label)
			continue
		}
		used[claim] = true

		mappings = append(mappings, headerMapping{index: i, key: key, label: label})
	}
	return mappings, ignored
}

// matchColumn returns the key of the column whose key or label equals
// label, ignoring case and whitespace.
func matchColumn(cols []core.Column, label string) string {
	derived := core.DeriveFieldKey(label)
	for _, c := range cols {
		if strings.EqualFold(c.Key, derived) || strings.EqualFold(c.Label, label) {
			return c.Key
		}
	}
	return ""
}

func findHeaderRow(records [][]string) int {
	limit := min(len(records), maxHeaderSearchRows)
	for i := 0; i < limit; i++ {
		if !isEmptyRow(records[i]) {
			return i
		}
	}
	return -1
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// readLimited reads all of r, failing with ErrFileTooLarge past limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}

// rollback undoes a partial import: rows first, then the columns it added.
func rollback(g *core.Grid, rows []int, columns []string) {
	for i := len(rows) - 1; i >= 0; i-- {
		g.DeleteRow(rows[i])
	}
	for i := len(columns) - 1; i >= 0; i-- {
		_ = g.RemoveColumn(columns[i])
	}
}
