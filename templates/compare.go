package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// CompareOption is one selectable work in the comparison picker.
type CompareOption struct {
	ID       string
	WorksID  string
	Name     string
	Selected bool
}

// CompareSubworkRow is one subwork line inside a comparison column.
type CompareSubworkRow struct {
	SubworksID string
	Name       string
	Part       string
	Amount     string
}

// CompareColumn is one work rendered side by side with the others.
type CompareColumn struct {
	ID               string
	WorksID          string
	Name             string
	Status           string
	StatusBadgeClass string
	TotalCost        string
	SubworkTotal     string
	Subworks         []CompareSubworkRow
}

// CompareData feeds the work comparison page.
type CompareData struct {
	Options []CompareOption
	Columns []CompareColumn
	MaxPick int
}

// CompareContent renders the picker plus the side-by-side columns.
func CompareContent(data CompareData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="compare-view">`)
		writef(w, `<h1 class="text-2xl font-bold mb-4">Compare Works</h1>`)

		writef(w, `<form method="get" action="/works/compare" class="card bg-base-100 p-4 mb-4">`)
		writef(w, `<p class="text-sm text-base-content/60 mb-2">Pick up to %d works to compare.</p>`, data.MaxPick)
		writef(w, `<div class="flex flex-wrap gap-4">`)
		for _, opt := range data.Options {
			checked := ""
			if opt.Selected {
				checked = " checked"
			}
			writef(w, `<label class="label cursor-pointer gap-2"><input type="checkbox" name="work" value="%s" class="checkbox checkbox-sm"%s><span class="font-mono">%s</span> %s</label>`,
				esc(opt.ID), checked, esc(opt.WorksID), esc(opt.Name))
		}
		writef(w, `</div>`)
		writef(w, `<div class="mt-2"><button type="submit" class="btn btn-primary btn-sm">Compare</button></div>`)
		writef(w, `</form>`)

		if len(data.Columns) == 0 {
			writef(w, `<p class="text-base-content/60">No works selected.</p></div>`)
			return nil
		}

		writef(w, `<div class="grid gap-4" style="grid-template-columns: repeat(%d, minmax(0, 1fr))">`, len(data.Columns))
		for _, col := range data.Columns {
			writef(w, `<div class="card bg-base-100 p-4">`)
			writef(w, `<h2 class="font-bold">%s</h2>`, esc(col.Name))
			writef(w, `<p class="font-mono text-base-content/70">%s <span class="badge %s">%s</span></p>`,
				esc(col.WorksID), esc(col.StatusBadgeClass), esc(col.Status))
			writef(w, `<table class="table table-sm mt-2"><thead><tr><th>Subwork</th><th>Part</th><th class="text-right">Amount</th></tr></thead><tbody>`)
			for _, sw := range col.Subworks {
				writef(w, `<tr><td>%s</td><td>%s</td><td class="text-right font-mono">%s</td></tr>`,
					esc(sw.Name), esc(sw.Part), esc(sw.Amount))
			}
			writef(w, `</tbody><tfoot><tr class="font-bold"><td colspan="2">Subwork Total</td><td class="text-right font-mono">%s</td></tr></tfoot></table>`,
				esc(col.SubworkTotal))
			writef(w, `<p class="mt-2 text-right"><span class="text-sm text-base-content/60">Estimated Cost</span> <span class="font-mono font-bold">%s</span></p>`,
				esc(col.TotalCost))
			writef(w, `</div>`)
		}
		writef(w, `</div>`)

		writef(w, `</div>`)
		return nil
	})
}

// ComparePage renders the full comparison page.
func ComparePage(data CompareData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page("Compare Works", CompareContent(data), header, sidebar)
}
