// Package exchange moves grid data in and out of files.
//
// Two formats are supported, CSV and XLSX. Import reads a header row, maps
// each header onto an existing column by key or label (unknown headers
// become custom columns), then appends one row per record. Export writes
// either the whole store or the current derived view.
//
// The package only talks to the grid through core.Grid's public
// operations; it has no access to engine internals.
package exchange

import (
	"errors"
	"path/filepath"
	"strings"
)

// Import/export errors. The messages are matched by core.MapError.
var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrInvalidFile       = errors.New("invalid import file")
	ErrTooManyRows       = errors.New("too many rows")
	ErrEmptyFile         = errors.New("empty file")
	ErrNoFile            = errors.New("no file provided")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format is a file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// DetectFormat picks the format from a file name's extension.
func DetectFormat(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// ContentType returns the MIME type for downloads.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Scope selects what Export writes.
type Scope string

const (
	// ScopeView writes the derived view: filtered, sorted, visible columns.
	ScopeView Scope = "view"
	// ScopeAll writes every row in store order and every column.
	ScopeAll Scope = "all"
)

// ParseScope returns ScopeAll for "all" and ScopeView otherwise.
func ParseScope(s string) Scope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeAll)) {
		return ScopeAll
	}
	return ScopeView
}
