package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Page wraps a content component in the full HTML document shell: head,
// header with work switcher, sidebar navigation and the toast listener.
func Page(title string, content templ.Component, header HeaderData, sidebar SidebarData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<!DOCTYPE html><html lang="en" data-theme="light"><head>`)
		writef(w, `<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		writef(w, `<title>%s — Estimate Creation</title>`, esc(title))
		writef(w, `<script src="https://unpkg.com/htmx.org@1.9.12"></script>`)
		writef(w, `<link href="https://cdn.jsdelivr.net/npm/daisyui@4.12.14/dist/full.min.css" rel="stylesheet" type="text/css">`)
		writef(w, `<script src="https://cdn.tailwindcss.com"></script>`)
		writef(w, `<link rel="stylesheet" href="/static/css/app.css">`)
		writef(w, `</head><body class="min-h-screen bg-base-200">`)

		if err := Header(header).Render(ctx, w); err != nil {
			return err
		}

		writef(w, `<div class="flex">`)
		if err := Sidebar(sidebar).Render(ctx, w); err != nil {
			return err
		}

		writef(w, `<main id="main-content" class="flex-1 p-6">`)
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		writef(w, `</main></div>`)

		// Toast container + HX-Trigger / flash-cookie listener
		writef(w, `<div id="toast-container" class="toast toast-end"></div>`)
		writef(w, `<script src="/static/js/toast.js"></script>`)
		writef(w, `</body></html>`)
		return nil
	})
}

// Header renders the top bar with the active-work switcher.
func Header(data HeaderData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<header class="navbar bg-base-100 shadow-sm px-6">`)
		writef(w, `<div class="flex-1"><a href="/works" class="text-xl font-semibold">Estimate Creation</a></div>`)

		writef(w, `<div class="flex-none"><div class="dropdown dropdown-end">`)
		if data.ActiveWork != nil {
			writef(w, `<label tabindex="0" class="btn btn-ghost" id="active-work-label">%s — %s</label>`,
				esc(data.ActiveWork.WorksID), esc(data.ActiveWork.Name))
		} else {
			writef(w, `<label tabindex="0" class="btn btn-ghost" id="active-work-label">Select Work</label>`)
		}
		writef(w, `<ul tabindex="0" class="dropdown-content menu bg-base-100 rounded-box shadow w-80 p-2 z-10">`)
		for _, item := range data.Works {
			active := ""
			if item.IsActive {
				active = ` class="active"`
			}
			writef(w, `<li><button hx-post="/works/%s/activate" hx-swap="none"%s>%s — %s</button></li>`,
				esc(item.ID), active, esc(item.WorksID), esc(item.Name))
		}
		writef(w, `<li><a href="/works/create">+ New Work</a></li>`)
		writef(w, `</ul></div></div></header>`)
		return nil
	})
}

// Sidebar renders the navigation for the active work.
func Sidebar(data SidebarData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<aside class="w-64 min-h-screen bg-base-100 shadow-sm p-4">`)
		writef(w, `<ul class="menu">`)

		navLink(w, data.ActivePath, "/works", "Works")
		if data.ActiveWork != nil {
			base := "/works/" + data.ActiveWork.ID
			navLink(w, data.ActivePath, base, "Estimate")
			if data.SubworkCount > 0 {
				writef(w, `<li class="menu-title">%d subworks · %d items</li>`, data.SubworkCount, data.ItemCount)
			}
			navLink(w, data.ActivePath, base+"/recap", "Recap Sheet")
			navLink(w, data.ActivePath, base+"/export/pdf", "Download PDF")
			navLink(w, data.ActivePath, base+"/export/excel", "Download Excel")
		}
		navLink(w, data.ActivePath, "/ssr-rates/import", "SSR Rate Import")
		if data.SSRRateCount > 0 {
			writef(w, `<li class="menu-title">%d SSR rates loaded</li>`, data.SSRRateCount)
		}

		writef(w, `</ul></aside>`)
		return nil
	})
}

func navLink(w io.Writer, activePath, href, label string) {
	class := ""
	if activePath == href || (href != "/works" && strings.HasPrefix(activePath, href+"/")) {
		class = ` class="active"`
	}
	writef(w, `<li><a href="%s"%s>%s</a></li>`, esc(href), class, esc(label))
}
