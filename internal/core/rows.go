package core

import (
	"fmt"
	"time"
)

// DateLayout is the DD-MM-YYYY layout used for date fields.
const DateLayout = "02-01-2006"

// RowStore is the ordered collection of rows. Position controls iteration
// order only; identity is the row id.
type RowStore struct {
	rows []*Row
}

// NewRowStore returns an empty store.
func NewRowStore() *RowStore {
	return &RowStore{}
}

// Len returns the number of rows.
func (s *RowStore) Len() int { return len(s.rows) }

// Rows returns deep copies of every row in store order.
func (s *RowStore) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Clone()
	}
	return out
}

// Get returns a copy of the row with id.
func (s *RowStore) Get(id int) (Row, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Row{}, false
	}
	return s.rows[i].Clone(), true
}

// Position returns the store index of id, or -1.
func (s *RowStore) Position(id int) int { return s.indexOf(id) }

// IDs returns the row ids in store order.
func (s *RowStore) IDs() []int {
	ids := make([]int, len(s.rows))
	for i, r := range s.rows {
		ids[i] = r.ID
	}
	return ids
}

func (s *RowStore) indexOf(id int) int {
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns max(existing ids) + 1, or 1 for an empty store.
func (s *RowStore) nextID() int {
	maxID := 0
	for _, r := range s.rows {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}

// insertAt places row at position, clamping out-of-range positions to the
// end.
func (s *RowStore) insertAt(row *Row, position int) int {
	if position < 0 || position > len(s.rows) {
		position = len(s.rows)
	}
	s.rows = append(s.rows, nil)
	copy(s.rows[position+1:], s.rows[position:])
	s.rows[position] = row
	return position
}

// removeAt deletes the row at position.
func (s *RowStore) removeAt(position int) {
	copy(s.rows[position:], s.rows[position+1:])
	s.rows[len(s.rows)-1] = nil
	s.rows = s.rows[:len(s.rows)-1]
}

// row returns the live row for id.
func (s *RowStore) row(id int) (*Row, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, id)
	}
	return s.rows[i], nil
}

// backfill adds an empty value for key on every row.
func (s *RowStore) backfill(key string, kind FieldType) {
	for _, r := range s.rows {
		if _, ok := r.Fields[key]; !ok {
			r.Fields[key] = Value{Kind: kind}
		}
	}
}

// dropField removes key from every row.
func (s *RowStore) dropField(key string) {
	for _, r := range s.rows {
		delete(r.Fields, key)
	}
}

// clearField sets key to empty on every row.
func (s *RowStore) clearField(key string, kind FieldType) {
	for _, r := range s.rows {
		r.Fields[key] = Value{Kind: kind}
	}
}

// defaultRow builds a new row with default values for every column.
func defaultRow(id int, cols []Column, now time.Time) *Row {
	fields := make(map[string]Value, len(cols))
	for _, c := range cols {
		v := Value{Kind: c.Type}
		switch c.Key {
		case "status":
			v.Text = string(StatusNeedToStart)
		case "priority":
			v.Text = string(PriorityMedium)
		case "submitted":
			v.Text = now.Format(DateLayout)
		}
		fields[c.Key] = v
	}
	return &Row{ID: id, Fields: fields}
}
