package core

// HeaderColumn is column metadata for header rendering. Index is the
// position among visible columns, or -1 when the column is hidden.
type HeaderColumn struct {
	Key     string       `json:"key"`
	Label   string       `json:"label"`
	Origin  ColumnOrigin `json:"origin"`
	Type    FieldType    `json:"type"`
	Width   int          `json:"width"`
	Visible bool         `json:"visible"`
	Index   int          `json:"index"`
}

// ProjectedCell is one visible cell of the derived view.
type ProjectedCell struct {
	Field    string `json:"field"`
	Value    Value  `json:"value"`
	Match    bool   `json:"match,omitempty"`
	Selected bool   `json:"selected,omitempty"`
	Editing  bool   `json:"editing,omitempty"`
}

// ProjectedRow is one row of the derived view restricted to visible fields.
type ProjectedRow struct {
	ID    int             `json:"id"`
	Cells []ProjectedCell `json:"cells"`
}

// CellPosition locates a cell in the rendered grid. Indices are -1 when
// the cell is filtered out or hidden.
type CellPosition struct {
	CellRef
	RowIndex    int `json:"rowIndex"`
	ColumnIndex int `json:"columnIndex"`
}

// SelectionView is the selection state with view positions attached.
type SelectionView struct {
	Mode     Mode           `json:"mode"`
	Selected *CellPosition  `json:"selected,omitempty"`
	Multi    []CellPosition `json:"multi,omitempty"`
	Edit     *EditSession   `json:"edit,omitempty"`
}

// Projection is everything a renderer needs for one frame.
type Projection struct {
	Columns    []HeaderColumn `json:"columns"`
	Rows       []ProjectedRow `json:"rows"`
	TotalRows  int            `json:"totalRows"`
	MatchCount int            `json:"matchCount"`
	Matches    []CellRef      `json:"matches,omitempty"`
	Selection  SelectionView  `json:"selection"`
	ViewMode   ViewMode       `json:"viewMode"`
	RowHeight  int            `json:"rowHeight"`
	Spec       ViewSpec       `json:"spec"`
}

// Project derives the view for spec and annotates it with search matches
// and selection state. It reads but never changes the grid.
func (g *Grid) Project(spec ViewSpec) (*Projection, error) {
	view, err := g.View(spec)
	if err != nil {
		return nil, err
	}
	spec.ViewMode = ParseViewMode(string(spec.ViewMode))

	visible := g.cols.VisibleColumns(spec.HiddenFields)
	fields := make([]string, len(visible))
	colIndex := make(map[string]int, len(visible))
	for i, c := range visible {
		fields[i] = c.Key
		colIndex[c.Key] = i
	}
	rowIndex := make(map[int]int, len(view))
	for i, r := range view {
		rowIndex[r.ID] = i
	}

	hidden := spec.hiddenSet()
	headers := make([]HeaderColumn, 0, g.cols.Len())
	for i, c := range g.cols.columns {
		idx := -1
		if !hidden[c.Key] {
			idx = colIndex[c.Key]
		}
		headers = append(headers, HeaderColumn{
			Key:     c.Key,
			Label:   c.Label,
			Origin:  c.Origin,
			Type:    c.Type,
			Width:   g.cols.widths[i],
			Visible: idx >= 0,
			Index:   idx,
		})
	}

	ann := Annotate(view, fields, spec.SearchTerm)
	state := g.Selection()
	inMulti := make(map[CellRef]bool, len(state.Multi))
	for _, m := range state.Multi {
		inMulti[m] = true
	}

	rows := make([]ProjectedRow, len(view))
	for i, r := range view {
		cells := make([]ProjectedCell, len(fields))
		for j, f := range fields {
			ref := CellRef{RowID: r.ID, Field: f}
			cells[j] = ProjectedCell{
				Field:    f,
				Value:    r.Get(f),
				Match:    ann.IsMatch(r.ID, f),
				Selected: inMulti[ref] || (state.Selected != nil && *state.Selected == ref),
				Editing:  state.Edit != nil && state.Edit.Cell == ref,
			}
		}
		rows[i] = ProjectedRow{ID: r.ID, Cells: cells}
	}

	locate := func(ref CellRef) CellPosition {
		pos := CellPosition{CellRef: ref, RowIndex: -1, ColumnIndex: -1}
		if i, ok := rowIndex[ref.RowID]; ok {
			pos.RowIndex = i
		}
		if i, ok := colIndex[ref.Field]; ok {
			pos.ColumnIndex = i
		}
		return pos
	}
	sv := SelectionView{Mode: state.Mode, Edit: state.Edit}
	if state.Selected != nil {
		p := locate(*state.Selected)
		sv.Selected = &p
	}
	for _, m := range state.Multi {
		sv.Multi = append(sv.Multi, locate(m))
	}

	return &Projection{
		Columns:    headers,
		Rows:       rows,
		TotalRows:  g.rows.Len(),
		MatchCount: ann.Count,
		Matches:    ann.Matches(),
		Selection:  sv,
		ViewMode:   spec.ViewMode,
		RowHeight:  spec.ViewMode.RowHeight(),
		Spec:       spec,
	}, nil
}
