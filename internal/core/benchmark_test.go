package core

import (
	"fmt"
	"testing"
	"time"
)

// benchGrid builds a grid with n rows of varied values.
func benchGrid(b *testing.B, n int) *Grid {
	b.Helper()
	g := NewGrid(Options{Now: func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }})
	statuses := []string{"need-to-start", "in-progress", "complete", "blocked"}
	priorities := []string{"Low", "Medium", "High", "Urgent"}
	for i := 0; i < n; i++ {
		id := g.InsertRow(-1)
		_ = g.SetField(id, "jobRequest", fmt.Sprintf("Request %d", i))
		_ = g.SetField(id, "status", statuses[i%len(statuses)])
		_ = g.SetField(id, "priority", priorities[i%len(priorities)])
		_ = g.SetField(id, "estValue", fmt.Sprintf("%d", (i*37)%10000))
		_ = g.SetField(id, "dueDate", fmt.Sprintf("%02d-%02d-2024", i%28+1, i%12+1))
	}
	return g
}

// ============================================================================
// Conversion Benchmarks
// ============================================================================

// BenchmarkParseNumber covers the numeric sort path.
func BenchmarkParseNumber(b *testing.B) {
	testCases := []string{"123", "-456.78", "1,234,567.89", "  999.99  ", "n/a"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseNumber(tc)
		}
	}
}

// BenchmarkParseDate covers the date sort path.
func BenchmarkParseDate(b *testing.B) {
	testCases := []string{"15-01-2024", "01-12-2023", "", "not a date"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			ParseDate(tc)
		}
	}
}

// BenchmarkNormalizeValue is the per-cell cost of an import.
func BenchmarkNormalizeValue(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NormalizeValue(FieldStatus, " In Progress ")
		NormalizeValue(FieldPriority, "high")
		NormalizeValue(FieldText, "\u00a0Logo refresh\u200b")
	}
}

// ============================================================================
// View Benchmarks
// ============================================================================

func BenchmarkDeriveView_Sort(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("rows=%d", n), func(b *testing.B) {
			rows := benchGrid(b, n).Rows()
			spec := ViewSpec{SortField: "estValue", SortOrder: SortDesc}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := DeriveView(rows, spec); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDeriveView_FilterExpr(b *testing.B) {
	rows := benchGrid(b, 1000).Rows()
	spec := ViewSpec{FilterExpr: "estValue > 5000 && priority == 'High'"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DeriveView(rows, spec); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnnotate(b *testing.B) {
	g := benchGrid(b, 1000)
	rows := g.Rows()
	var fields []string
	for _, c := range g.Columns() {
		fields = append(fields, c.Key)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Annotate(rows, fields, "request 9")
	}
}

// BenchmarkProject is the cost of one rendered frame.
func BenchmarkProject(b *testing.B) {
	g := benchGrid(b, 1000)
	spec := ViewSpec{SortField: "dueDate", SortOrder: SortAsc, SearchTerm: "high"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := g.Project(spec); err != nil {
			b.Fatal(err)
		}
	}
}
