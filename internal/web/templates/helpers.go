// Package templates renders the server-side HTML for the grid editor.
//
// The first frame is rendered here so the page is usable before the
// websocket connects; grid.js re-renders from projections after that.
// Components live in grid.templ; run `templ generate` after editing it.
package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/gridsheet/internal/core"
)

var viewModes = []core.ViewMode{core.ViewCompact, core.ViewNormal, core.ViewExpanded}

func origin(o core.ColumnOrigin) string {
	b, _ := o.MarshalText()
	return string(b)
}

func columnWidth(px int) templ.SafeCSS {
	return templ.SafeCSS("width:" + strconv.Itoa(px) + "px;")
}

func rowHeight(px int) templ.SafeCSS {
	return templ.SafeCSS("height:" + strconv.Itoa(px) + "px;")
}
