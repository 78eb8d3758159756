// Package templates holds the server-rendered components for the estimate
// application. Components implement templ.Component and are composed by the
// handlers: full pages for regular requests, bare content fragments for HTMX
// partial swaps.
package templates

import (
	"fmt"
	"html"
	"io"
)

// ActiveWork identifies the work selected in the header switcher.
type ActiveWork struct {
	ID      string
	WorksID string
	Name    string
}

// WorkSelectorItem is one entry in the header work dropdown.
type WorkSelectorItem struct {
	ID       string
	WorksID  string
	Name     string
	IsActive bool
}

// HeaderData feeds the top bar with the work switcher.
type HeaderData struct {
	ActiveWork *ActiveWork
	Works      []WorkSelectorItem
}

// SidebarData feeds the navigation sidebar.
type SidebarData struct {
	ActiveWork   *ActiveWork
	ActivePath   string
	SubworkCount int
	ItemCount    int
	SSRRateCount int
}

func esc(s string) string {
	return html.EscapeString(s)
}

func writef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
