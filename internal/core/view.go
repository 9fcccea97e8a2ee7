package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
)

// Pipeline derives the processed view from a row set: filter, then a
// stable sort. A Pipeline is immutable and may be reused across row sets.
type Pipeline struct {
	spec ViewSpec
	expr *govaluate.EvaluableExpression
}

// NewPipeline compiles spec. It fails only when FilterExpr does not parse.
func NewPipeline(spec ViewSpec) (*Pipeline, error) {
	p := &Pipeline{spec: spec}
	if strings.TrimSpace(spec.FilterExpr) != "" {
		expr, err := govaluate.NewEvaluableExpression(spec.FilterExpr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilterExpr, err)
		}
		p.expr = expr
	}
	return p, nil
}

// DeriveView filters and sorts rows according to spec. The result is a new
// slice of copies; rows is never modified. Identical inputs always produce
// identical output.
func DeriveView(rows []Row, spec ViewSpec) ([]Row, error) {
	p, err := NewPipeline(spec)
	if err != nil {
		return nil, err
	}
	return p.Derive(rows), nil
}

// Derive applies the pipeline to rows.
func (p *Pipeline) Derive(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if p.Matches(r) {
			out = append(out, r.Clone())
		}
	}

	field, order := p.spec.SortField, p.spec.SortOrder
	if field == "" || order == SortNone {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(out[i].Get(field), out[j].Get(field))
		if order == SortDesc {
			c = -c
		}
		return c < 0
	})
	return out
}

// Matches reports whether row passes the filter stage.
func (p *Pipeline) Matches(row Row) bool {
	if p.spec.FilterField != "" && p.spec.FilterValue != "" {
		if !matchFilter(row.Get(p.spec.FilterField), p.spec.FilterValue) {
			return false
		}
	}
	if p.expr != nil {
		result, err := p.expr.Evaluate(exprParams(row))
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// matchFilter applies the per-kind filter rule: dates must equal the filter
// value, everything else must contain it. Both ignore case.
func matchFilter(v Value, want string) bool {
	if v.Kind == FieldDate {
		return strings.EqualFold(v.Text, want)
	}
	return strings.Contains(strings.ToLower(v.Text), strings.ToLower(want))
}

// rowIDParam names the row id in filter expressions, written [row id].
// Field keys never contain whitespace, so no column can take it.
const rowIDParam = "row id"

// exprParams exposes a row to govaluate. Numbers are float64 so that
// comparisons like estValue > 1000 work; everything else is a string.
// The row id is also available as plain id unless a column owns that key.
func exprParams(row Row) map[string]interface{} {
	params := make(map[string]interface{}, len(row.Fields)+2)
	for k, v := range row.Fields {
		if v.Kind == FieldNumber {
			params[k] = ParseNumber(v.Text)
			continue
		}
		params[k] = v.Text
	}
	params[rowIDParam] = float64(row.ID)
	if _, taken := params["id"]; !taken {
		params["id"] = float64(row.ID)
	}
	return params
}

// Compare orders two cells of the same column and returns -1, 0 or 1.
// The comparator is chosen by kind:
//   - date: calendar order of DD-MM-YYYY
//   - number: numeric after stripping grouping commas
//   - priority: High > Medium > Low > anything else
//   - otherwise: case-insensitive lexical order
func Compare(a, b Value) int {
	kind := a.Kind
	if kind == FieldText {
		kind = b.Kind
	}
	switch kind {
	case FieldDate:
		return dateKey(a.Text).Compare(dateKey(b.Text))
	case FieldNumber:
		return cmpFloat(ParseNumber(a.Text), ParseNumber(b.Text))
	case FieldPriority:
		return cmpInt(PriorityRank(a.Text), PriorityRank(b.Text))
	default:
		return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
