package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// SubworkFormData feeds the create/edit subwork form. A non-empty ID means edit.
type SubworkFormData struct {
	WorkID      string
	ID          string
	SubworksID  string
	Name        string
	Part        string
	Unit        string
	PartOptions []string
	Errors      map[string]string
}

// SubworkFormContent renders the subwork form fragment.
func SubworkFormContent(data SubworkFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		action := "/works/" + data.WorkID + "/subworks"
		title := "New Subwork"
		if data.ID != "" {
			action = "/works/" + data.WorkID + "/subworks/" + data.ID + "/save"
			title = "Edit Subwork " + data.SubworksID
		}

		writef(w, `<div id="subwork-form" class="max-w-2xl">`)
		writef(w, `<h1 class="text-2xl font-bold mb-4">%s</h1>`, esc(title))
		writef(w, `<form hx-post="%s" hx-target="#subwork-form" hx-swap="outerHTML" class="card bg-base-100 p-6 space-y-4">`, esc(action))

		formField(w, "subworks_name", "Name of Subwork", data.Name, data.Errors)
		selectField(w, "part", "Recap Part", data.Part, data.PartOptions, data.Errors)
		formField(w, "unit", "Unit Multiplier", data.Unit, data.Errors)

		writef(w, `<div class="flex gap-2 justify-end">`)
		writef(w, `<a href="/works/%s" class="btn btn-ghost">Cancel</a>`, esc(data.WorkID))
		writef(w, `<button type="submit" class="btn btn-primary">Save</button>`)
		writef(w, `</div></form></div>`)
		return nil
	})
}

// SubworkFormPage renders the full subwork form page.
func SubworkFormPage(data SubworkFormData, header HeaderData, sidebar SidebarData) templ.Component {
	title := "New Subwork"
	if data.ID != "" {
		title = "Edit Subwork"
	}
	return Page(title, SubworkFormContent(data), header, sidebar)
}

// ItemRow is one priced item on the subwork detail page.
type ItemRow struct {
	ID          string
	SrNo        int
	Description string
	Unit        string
	Rate        string
	Quantity    string
	Amount      string
}

// SubworkViewData feeds the subwork detail page.
type SubworkViewData struct {
	WorkID      string
	ID          string
	SubworksID  string
	Name        string
	Part        string
	TotalAmount string
	Items       []ItemRow
}

// SubworkViewContent renders the subwork detail fragment with its item table.
func SubworkViewContent(data SubworkViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="subwork-view">`)
		writef(w, `<div class="flex justify-between items-start mb-4"><div>`)
		writef(w, `<h1 class="text-2xl font-bold">%s</h1>`, esc(data.Name))
		writef(w, `<p class="font-mono text-base-content/70">%s · %s</p>`, esc(data.SubworksID), esc(data.Part))
		writef(w, `</div><div class="text-right">`)
		writef(w, `<p class="text-sm text-base-content/60">Subwork Total</p>`)
		writef(w, `<p class="text-2xl font-mono font-bold">%s</p>`, esc(data.TotalAmount))
		writef(w, `</div></div>`)

		writef(w, `<div class="flex justify-between items-center mb-2">`)
		writef(w, `<h2 class="text-xl font-semibold">Items</h2>`)
		writef(w, `<a href="/works/%s/subworks/%s/items/create" class="btn btn-primary btn-sm">Add Item</a></div>`,
			esc(data.WorkID), esc(data.ID))

		if len(data.Items) == 0 {
			writef(w, `<p class="text-base-content/60">No items yet.</p></div>`)
			return nil
		}

		writef(w, `<table class="table bg-base-100"><thead><tr>`)
		writef(w, `<th>Sr</th><th>Description of Item</th><th>Unit</th><th class="text-right">Rate</th><th class="text-right">Quantity</th><th class="text-right">Amount</th><th></th>`)
		writef(w, `</tr></thead><tbody>`)
		for _, item := range data.Items {
			writef(w, `<tr id="item-row-%s">`, esc(item.ID))
			writef(w, `<td>%d</td>`, item.SrNo)
			writef(w, `<td><a href="/works/%s/subworks/%s/items/%s" class="link">%s</a></td>`,
				esc(data.WorkID), esc(data.ID), esc(item.ID), esc(item.Description))
			writef(w, `<td>%s</td>`, esc(item.Unit))
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(item.Rate))
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(item.Quantity))
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(item.Amount))
			writef(w, `<td class="text-right">`)
			writef(w, `<a href="/works/%s/subworks/%s/items/%s/edit" class="btn btn-ghost btn-xs">Edit</a>`,
				esc(data.WorkID), esc(data.ID), esc(item.ID))
			writef(w, `<button class="btn btn-ghost btn-xs text-error" hx-delete="/works/%s/subworks/%s/items/%s" hx-confirm="Delete this item?" hx-target="#item-row-%s" hx-swap="outerHTML">Delete</button>`,
				esc(data.WorkID), esc(data.ID), esc(item.ID), esc(item.ID))
			writef(w, `</td></tr>`)
		}
		writef(w, `</tbody></table></div>`)
		return nil
	})
}

// SubworkViewPage renders the full subwork detail page.
func SubworkViewPage(data SubworkViewData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page(data.SubworksID, SubworkViewContent(data), header, sidebar)
}
