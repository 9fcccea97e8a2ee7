package core

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultMinColumnWidth is used when Options.MinColumnWidth is not positive.
const DefaultMinColumnWidth = 60

// DefaultColumnWidth is the width given to new custom columns when
// Options.DefaultColumnWidth is not positive.
const DefaultColumnWidth = 150

// builtInColumns are the fixed columns every grid starts with, in order.
var builtInColumns = []struct {
	col   Column
	width int
}{
	{Column{Key: "jobRequest", Label: "Job Request", Type: FieldText}, 240},
	{Column{Key: "submitted", Label: "Submitted", Type: FieldDate}, 120},
	{Column{Key: "status", Label: "Status", Type: FieldStatus}, 140},
	{Column{Key: "submitter", Label: "Submitter", Type: FieldText}, 150},
	{Column{Key: "url", Label: "URL", Type: FieldText}, 200},
	{Column{Key: "assigned", Label: "Assigned", Type: FieldText}, 150},
	{Column{Key: "priority", Label: "Priority", Type: FieldPriority}, 110},
	{Column{Key: "dueDate", Label: "Due Date", Type: FieldDate}, 120},
	{Column{Key: "estValue", Label: "Est. Value", Type: FieldNumber}, 120},
}

// BuiltInKeys returns the field keys of the fixed columns in registry order.
func BuiltInKeys() []string {
	keys := make([]string, len(builtInColumns))
	for i, b := range builtInColumns {
		keys[i] = b.col.Key
	}
	return keys
}

// Registry tracks column metadata and column widths. The two slices are
// always the same length and index-aligned; built-ins occupy the prefix.
type Registry struct {
	columns  []Column
	widths   []int
	minWidth int
	defWidth int
}

// NewRegistry returns a registry holding only the built-in columns.
func NewRegistry(minWidth, defaultWidth int) *Registry {
	if minWidth <= 0 {
		minWidth = DefaultMinColumnWidth
	}
	if defaultWidth < minWidth {
		defaultWidth = max(DefaultColumnWidth, minWidth)
	}
	r := &Registry{
		columns:  make([]Column, 0, len(builtInColumns)),
		widths:   make([]int, 0, len(builtInColumns)),
		minWidth: minWidth,
		defWidth: defaultWidth,
	}
	for _, b := range builtInColumns {
		c := b.col
		c.Origin = BuiltIn
		r.columns = append(r.columns, c)
		r.widths = append(r.widths, max(b.width, minWidth))
	}
	return r
}

// DeriveFieldKey converts a label to a field key: lowercased with all
// whitespace removed.
func DeriveFieldKey(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Len returns the number of columns.
func (r *Registry) Len() int { return len(r.columns) }

// BuiltInCount returns the number of fixed columns.
func (r *Registry) BuiltInCount() int {
	n := 0
	for _, c := range r.columns {
		if c.IsBuiltIn() {
			n++
		}
	}
	return n
}

// Columns returns a copy of all columns in registry order.
func (r *Registry) Columns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Keys returns every field key in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.columns))
	for i, c := range r.columns {
		keys[i] = c.Key
	}
	return keys
}

// Lookup returns the column for key.
func (r *Registry) Lookup(key string) (Column, bool) {
	i := r.indexOf(key)
	if i < 0 {
		return Column{}, false
	}
	return r.columns[i], true
}

// Index returns the registry position of key, or -1.
func (r *Registry) Index(key string) int { return r.indexOf(key) }

// Width returns the width of key, or 0 if absent.
func (r *Registry) Width(key string) int {
	i := r.indexOf(key)
	if i < 0 {
		return 0
	}
	return r.widths[i]
}

// MinWidth returns the smallest width a column may have.
func (r *Registry) MinWidth() int { return r.minWidth }

// VisibleColumns returns the columns whose key is not hidden, in registry
// order.
func (r *Registry) VisibleColumns(hidden []string) []Column {
	set := make(map[string]bool, len(hidden))
	for _, h := range hidden {
		set[h] = true
	}
	out := make([]Column, 0, len(r.columns))
	for _, c := range r.columns {
		if !set[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

func (r *Registry) indexOf(key string) int {
	for i, c := range r.columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// collides reports whether key matches an existing key, ignoring case.
func (r *Registry) collides(key string) bool {
	for _, c := range r.columns {
		if strings.EqualFold(c.Key, key) {
			return true
		}
	}
	return false
}

// prepareAdd validates a new custom column and resolves its insert position
// without changing the registry. position < 0 or past the end appends.
func (r *Registry) prepareAdd(label string, position int) (Column, int, error) {
	label = strings.TrimSpace(label)
	key := DeriveFieldKey(label)
	if key == "" {
		return Column{}, 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if r.collides(key) {
		return Column{}, 0, fmt.Errorf("%w: %s", ErrDuplicateFieldKey, key)
	}
	if position < 0 || position > len(r.columns) {
		position = len(r.columns)
	}
	if position < r.BuiltInCount() {
		return Column{}, 0, fmt.Errorf("%w: position %d is inside the built-in range", ErrProtectedColumn, position)
	}
	return Column{Key: key, Label: label, Origin: Custom, Type: FieldText}, position, nil
}

// insert places col at position with the default width.
func (r *Registry) insert(col Column, position int) {
	r.columns = append(r.columns, Column{})
	copy(r.columns[position+1:], r.columns[position:])
	r.columns[position] = col

	r.widths = append(r.widths, 0)
	copy(r.widths[position+1:], r.widths[position:])
	r.widths[position] = r.defWidth
}

// prepareRemove validates removal of key and returns its position.
func (r *Registry) prepareRemove(key string) (int, error) {
	i := r.indexOf(key)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	if r.columns[i].IsBuiltIn() {
		return 0, fmt.Errorf("%w: %s", ErrProtectedColumn, key)
	}
	return i, nil
}

// remove deletes the column at position together with its width.
func (r *Registry) remove(position int) {
	r.columns = append(r.columns[:position], r.columns[position+1:]...)
	r.widths = append(r.widths[:position], r.widths[position+1:]...)
}

// rename changes the label of a custom column. The key never changes.
func (r *Registry) rename(key, label string) error {
	i := r.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	if r.columns[i].IsBuiltIn() {
		return fmt.Errorf("%w: %s", ErrProtectedColumn, key)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	r.columns[i].Label = label
	return nil
}

// setWidth stores width for key, clamped to the minimum.
func (r *Registry) setWidth(key string, width int) (int, error) {
	i := r.indexOf(key)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrFieldNotFound, key)
	}
	r.widths[i] = max(width, r.minWidth)
	return r.widths[i], nil
}

// nextAutoLabel returns the first "Column N" label whose key is free.
func (r *Registry) nextAutoLabel() string {
	for n := 1; ; n++ {
		label := fmt.Sprintf("Column %d", n)
		if !r.collides(DeriveFieldKey(label)) {
			return label
		}
	}
}
