package core

// selectedRowIDs returns the distinct row ids of the multi-select set in
// store order. Cells whose row has gone are skipped.
func (g *Grid) selectedRowIDs() []int {
	if g.sel.mode != ModeMulti {
		return nil
	}
	want := make(map[int]bool, len(g.sel.multi))
	for _, c := range g.sel.multi {
		want[c.RowID] = true
	}
	var ids []int
	for _, id := range g.rows.IDs() {
		if want[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// BatchDelete deletes every row touched by the multi-selection and returns
// to Idle. It returns the number of rows deleted.
func (g *Grid) BatchDelete() int {
	ids := g.selectedRowIDs()
	g.sel.reset()
	for _, id := range ids {
		g.DeleteRow(id)
	}
	g.logger.Debug("batch delete", "rows", len(ids))
	return len(ids)
}

// BatchDuplicate duplicates every row touched by the multi-selection. Each
// copy is placed after its source and receives the next id above the
// current maximum. Returns the new ids in creation order.
func (g *Grid) BatchDuplicate() ([]int, error) {
	ids := g.selectedRowIDs()
	g.sel.reset()
	created := make([]int, 0, len(ids))
	for _, id := range ids {
		newID, err := g.DuplicateRow(id)
		if err != nil {
			return created, err
		}
		created = append(created, newID)
	}
	g.logger.Debug("batch duplicate", "rows", len(created))
	return created, nil
}

// BatchClear empties every field of every row touched by the
// multi-selection and returns to Idle.
func (g *Grid) BatchClear() (int, error) {
	ids := g.selectedRowIDs()
	g.sel.reset()
	for _, id := range ids {
		if err := g.ClearRow(id); err != nil {
			return 0, err
		}
	}
	g.logger.Debug("batch clear", "rows", len(ids))
	return len(ids), nil
}
