package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

func testProjection() *core.Projection {
	return &core.Projection{
		Columns: []core.HeaderColumn{
			{Key: "jobRequest", Label: "Job Request", Origin: core.BuiltIn, Width: 180, Visible: true},
			{Key: "notes", Label: "Notes", Origin: core.Custom, Width: 120, Visible: false},
		},
		Rows: []core.ProjectedRow{
			{ID: 7, Cells: []core.ProjectedCell{
				{Field: "jobRequest", Value: core.TextValue("<b>Logo</b>"), Selected: true, Match: true},
			}},
		},
		TotalRows:  1,
		MatchCount: 1,
		RowHeight:  32,
		Spec:       core.ViewSpec{SearchTerm: `"logo"`, ViewMode: core.ViewNormal},
	}
}

// =============================================================================
// Grid
// =============================================================================

func TestGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := Grid(testProjection()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	tests := []struct {
		name string
		want string
	}{
		{"table attributes", `<table id="grid" class="grid" data-row-height="32" data-matches="1">`},
		{"header", `<th data-field="jobRequest" data-origin="builtin" style="width:180px;">Job Request <span class="resize"></span></th>`},
		{"row", `<tr data-row="7" style="height:32px;"><td class="row-num">1</td>`},
		{"cell classes", `<td class="cell selected match" data-field="jobRequest">`},
		{"escaped value", `&lt;b&gt;Logo&lt;/b&gt;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(html, tt.want) {
				t.Errorf("missing %s in %s", tt.want, html)
			}
		})
	}

	if strings.Contains(html, `data-field="notes"`) {
		t.Error("hidden column was rendered")
	}
}

func TestToolbar(t *testing.T) {
	var buf bytes.Buffer
	if err := Toolbar(testProjection().Spec).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	if !strings.Contains(html, `value="&#34;logo&#34;"`) {
		t.Errorf("search term not escaped: %s", html)
	}
	if !strings.Contains(html, `<option value="normal" selected>normal</option>`) {
		t.Errorf("current view mode not selected: %s", html)
	}
	if strings.Count(html, " selected") != 1 {
		t.Errorf("want exactly one selected option: %s", html)
	}
}

func TestGridPage(t *testing.T) {
	var buf bytes.Buffer
	if err := GridPage("a&b", testProjection()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{"<!doctype html>", `<main id="app" data-session="a&amp;b">`, `id="view-mode"`, `<table id="grid"`, `/static/grid.js`} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %s", want)
		}
	}
}

// =============================================================================
// ErrorAlert
// =============================================================================

func TestErrorAlert(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		hasNext bool
	}{
		{"with action", "Try again in a few minutes.", true},
		{"without action", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ErrorAlert("Too <many> sessions", tt.action, "SES002").Render(context.Background(), &buf); err != nil {
				t.Fatalf("Render: %v", err)
			}
			html := buf.String()

			if !strings.Contains(html, `data-code="SES002"`) || !strings.Contains(html, "Error code: SES002") {
				t.Errorf("code missing: %s", html)
			}
			if !strings.Contains(html, "Too &lt;many&gt; sessions") {
				t.Errorf("message not escaped: %s", html)
			}
			if got := strings.Contains(html, "alert-action"); got != tt.hasNext {
				t.Errorf("action rendered = %v, want %v", got, tt.hasNext)
			}
		})
	}
}
