package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ItemFormData feeds the create/edit item form. The SSR search box suggests
// rate-list entries and prefills rate/unit on selection.
type ItemFormData struct {
	WorkID      string
	SubworkID   string
	ID          string
	Description string
	Unit        string
	Rate        string
	Category    string
	UnitOptions []string
	Errors      map[string]string
}

// ItemFormContent renders the item form fragment with the SSR suggestion box.
func ItemFormContent(data ItemFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := "/works/" + data.WorkID + "/subworks/" + data.SubworkID
		action := base + "/items"
		title := "New Item"
		if data.ID != "" {
			action = base + "/items/" + data.ID + "/save"
			title = "Edit Item"
		}

		writef(w, `<div id="item-form" class="max-w-2xl">`)
		writef(w, `<h1 class="text-2xl font-bold mb-4">%s</h1>`, esc(title))
		writef(w, `<form hx-post="%s" hx-target="#item-form" hx-swap="outerHTML" class="card bg-base-100 p-6 space-y-4">`, esc(action))

		writef(w, `<label class="form-control"><span class="label-text">Description of Item</span>`)
		writef(w, `<textarea name="description_of_item" class="textarea textarea-bordered" rows="2" id="item-description" hx-post="/api/ssr-search" hx-trigger="keyup changed delay:400ms" hx-target="#ssr-suggestions" hx-swap="innerHTML">%s</textarea>`,
			esc(data.Description))
		if msg, ok := data.Errors["description_of_item"]; ok {
			writef(w, `<span class="label-text-alt text-error">%s</span>`, esc(msg))
		}
		writef(w, `</label>`)
		writef(w, `<div id="ssr-suggestions"></div>`)

		selectField(w, "ssr_unit", "SSR Unit", data.Unit, data.UnitOptions, data.Errors)
		formField(w, "ssr_rate", "SSR Rate", data.Rate, data.Errors)
		formField(w, "category", "Category", data.Category, data.Errors)

		writef(w, `<div class="flex gap-2 justify-end">`)
		writef(w, `<a href="%s" class="btn btn-ghost">Cancel</a>`, esc(base))
		writef(w, `<button type="submit" class="btn btn-primary">Save</button>`)
		writef(w, `</div></form></div>`)
		return nil
	})
}

// ItemFormPage renders the full item form page.
func ItemFormPage(data ItemFormData, header HeaderData, sidebar SidebarData) templ.Component {
	title := "New Item"
	if data.ID != "" {
		title = "Edit Item"
	}
	return Page(title, ItemFormContent(data), header, sidebar)
}

// MeasurementRow is one measurement line in the item editor.
type MeasurementRow struct {
	ID               string
	SrNo             int
	Description      string
	NoOfUnits        string
	Length           string
	Width            string
	Height           string
	Unit             string
	IsDeduction      bool
	IsManualQuantity bool
	ManualQuantity   string
	SelectedRateID   string
	Quantity         string
	LineAmount       string
}

// RateGroupRow is one per-rate roll-up line in the segregated panel.
type RateGroupRow struct {
	Description string
	Rate        string
	Unit        string
	Quantity    string
	Amount      string
}

// RateOptionRow is one selectable rate for new measurements.
type RateOptionRow struct {
	ID          string
	Description string
	Rate        string
}

// LeadRow is one material lead-charge line for an item.
type LeadRow struct {
	ID             string
	Material       string
	DistanceKm     string
	InitialCharges string
	LeadCharges    string
	NetCharges     string
}

// MaterialRow is one material requirement line for an item.
type MaterialRow struct {
	ID        string
	Name      string
	Quantity  string
	Unit      string
	Rate      string
	TotalCost string
}

// ItemEditorData feeds the measurement editor for one item.
type ItemEditorData struct {
	WorkID          string
	SubworkID       string
	ItemID          string
	ItemDescription string
	ItemUnit        string
	Rate            string
	TotalQuantity   string
	TotalAmount     string
	Measurements    []MeasurementRow
	RateGroups      []RateGroupRow
	RateOptions     []RateOptionRow
	Leads           []LeadRow
	Materials       []MaterialRow
}

// MeasurementsSection renders the measurement table partial. Every
// measurement mutation re-renders this fragment with fresh totals.
func MeasurementsSection(data ItemEditorData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base := "/works/" + data.WorkID + "/subworks/" + data.SubworkID + "/items/" + data.ItemID

		writef(w, `<div id="measurements-section">`)
		writef(w, `<table class="table table-sm bg-base-100"><thead><tr>`)
		writef(w, `<th>Sr</th><th>Description</th><th class="text-right">Units</th><th class="text-right">Length</th><th class="text-right">Width</th><th class="text-right">Height</th><th class="text-right">Quantity</th><th class="text-right">Amount</th><th></th>`)
		writef(w, `</tr></thead><tbody>`)
		for _, m := range data.Measurements {
			rowClass := ""
			if m.IsDeduction {
				rowClass = ` class="text-error"`
			}
			// Each row carries its own named inputs; the save button posts
			// them via hx-include="closest tr", so no nested form is needed.
			writef(w, `<tr%s>`, rowClass)
			writef(w, `<td>%d</td>`, m.SrNo)
			if m.IsDeduction {
				writef(w, `<td><span class="mr-1">Deduct:</span><input type="text" name="description_of_items" value="%s" class="input input-ghost input-xs"><input type="hidden" name="is_deduction" value="true"></td>`, esc(m.Description))
			} else {
				writef(w, `<td><input type="text" name="description_of_items" value="%s" class="input input-ghost input-xs w-full"></td>`, esc(m.Description))
			}
			if m.IsManualQuantity {
				writef(w, `<td colspan="4" class="text-right italic">manual <input type="text" name="manual_quantity" value="%s" class="input input-ghost input-xs w-20 text-right font-mono"><input type="hidden" name="is_manual_quantity" value="true"></td>`, esc(m.ManualQuantity))
			} else {
				for _, d := range []struct{ name, val string }{
					{"no_of_units", m.NoOfUnits}, {"length", m.Length}, {"width_breadth", m.Width}, {"height_depth", m.Height},
				} {
					writef(w, `<td class="text-right"><input type="text" name="%s" value="%s" class="input input-ghost input-xs w-16 text-right font-mono"></td>`, d.name, esc(d.val))
				}
			}
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(m.Quantity))
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(m.LineAmount))
			writef(w, `<td class="text-right whitespace-nowrap">`)
			if m.SelectedRateID != "" {
				writef(w, `<input type="hidden" name="selected_rate" value="%s">`, esc(m.SelectedRateID))
			}
			writef(w, `<button class="btn btn-ghost btn-xs" hx-post="%s/measurements/%s/save" hx-include="closest tr" hx-target="#measurements-section" hx-swap="outerHTML" title="Save changes">✓</button>`,
				esc(base), esc(m.ID))
			writef(w, `<button class="btn btn-ghost btn-xs text-error" hx-delete="%s/measurements/%s" hx-target="#measurements-section" hx-swap="outerHTML">✕</button>`,
				esc(base), esc(m.ID))
			writef(w, `</td></tr>`)
		}
		writef(w, `</tbody><tfoot><tr class="font-bold">`)
		writef(w, `<td colspan="6" class="text-right">Total</td>`)
		writef(w, `<td class="text-right font-mono">%s</td>`, esc(data.TotalQuantity))
		writef(w, `<td class="text-right font-mono">%s</td><td></td>`, esc(data.TotalAmount))
		writef(w, `</tr></tfoot></table>`)

		// Add-measurement row
		writef(w, `<form hx-post="%s/measurements" hx-target="#measurements-section" hx-swap="outerHTML" class="grid grid-cols-8 gap-2 mt-2 items-end">`, esc(base))
		writef(w, `<input type="text" name="description_of_items" placeholder="Description" class="input input-bordered input-sm col-span-2">`)
		for _, f := range []struct{ name, ph string }{
			{"no_of_units", "Units"}, {"length", "Length"}, {"width_breadth", "Width"}, {"height_depth", "Height"},
		} {
			writef(w, `<input type="text" name="%s" placeholder="%s" class="input input-bordered input-sm">`, f.name, f.ph)
		}
		if len(data.RateOptions) > 0 {
			writef(w, `<select name="selected_rate" class="select select-bordered select-sm">`)
			writef(w, `<option value="">Base rate %s</option>`, esc(data.Rate))
			for _, opt := range data.RateOptions {
				writef(w, `<option value="%s">%s (%s)</option>`, esc(opt.ID), esc(opt.Description), esc(opt.Rate))
			}
			writef(w, `</select>`)
		} else {
			writef(w, `<span></span>`)
		}
		writef(w, `<div class="flex gap-1 items-center">`)
		writef(w, `<label class="label cursor-pointer gap-1"><input type="checkbox" name="is_deduction" value="true" class="checkbox checkbox-xs">Deduct</label>`)
		writef(w, `<button type="submit" class="btn btn-primary btn-sm">Add</button>`)
		writef(w, `</div></form>`)

		// Per-rate breakdown
		if len(data.RateGroups) > 0 {
			writef(w, `<h3 class="text-lg font-semibold mt-4">Quantity by Rate</h3>`)
			writef(w, `<table class="table table-sm bg-base-100"><thead><tr>`)
			writef(w, `<th>Rate Description</th><th class="text-right">Rate</th><th>Unit</th><th class="text-right">Quantity</th><th class="text-right">Amount</th>`)
			writef(w, `</tr></thead><tbody>`)
			for _, g := range data.RateGroups {
				writef(w, `<tr><td>%s</td><td class="text-right font-mono">%s</td><td>%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td></tr>`,
					esc(g.Description), esc(g.Rate), esc(g.Unit), esc(g.Quantity), esc(g.Amount))
			}
			writef(w, `</tbody></table>`)
		}

		writef(w, `</div>`)
		return nil
	})
}

// ItemEditorContent renders the item editor fragment: item summary plus the
// measurements section.
func ItemEditorContent(data ItemEditorData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="item-editor">`)
		writef(w, `<div class="mb-4">`)
		writef(w, `<h1 class="text-2xl font-bold">%s</h1>`, esc(data.ItemDescription))
		writef(w, `<p class="text-base-content/70">Rate %s per %s</p>`, esc(data.Rate), esc(data.ItemUnit))
		writef(w, `</div>`)
		if err := MeasurementsSection(data).Render(ctx, w); err != nil {
			return err
		}
		leadsSection(w, data)
		materialsSection(w, data)
		writef(w, `</div>`)
		return nil
	})
}

func leadsSection(w io.Writer, data ItemEditorData) {
	base := "/works/" + data.WorkID + "/subworks/" + data.SubworkID + "/items/" + data.ItemID

	writef(w, `<h3 class="text-lg font-semibold mt-6">Lead Charges</h3>`)
	writef(w, `<table class="table table-sm bg-base-100"><thead><tr>`)
	writef(w, `<th>Material</th><th class="text-right">Distance (km)</th><th class="text-right">Initial</th><th class="text-right">Lead</th><th class="text-right">Net</th><th></th>`)
	writef(w, `</tr></thead><tbody>`)
	for _, l := range data.Leads {
		writef(w, `<tr><td>%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td>`,
			esc(l.Material), esc(l.DistanceKm), esc(l.InitialCharges), esc(l.LeadCharges), esc(l.NetCharges))
		writef(w, `<td class="text-right"><button class="btn btn-ghost btn-xs text-error" hx-delete="%s/leads/%s" hx-target="#item-editor" hx-swap="outerHTML">✕</button></td></tr>`,
			esc(base), esc(l.ID))
	}
	writef(w, `</tbody></table>`)
	writef(w, `<form hx-post="%s/leads" hx-target="#item-editor" hx-swap="outerHTML" class="grid grid-cols-5 gap-2 mt-2">`, esc(base))
	writef(w, `<input type="text" name="material" placeholder="Material" class="input input-bordered input-sm">`)
	writef(w, `<input type="text" name="lead_distance_km" placeholder="Distance km" class="input input-bordered input-sm">`)
	writef(w, `<input type="text" name="initial_lead_charges" placeholder="Initial charges" class="input input-bordered input-sm">`)
	writef(w, `<input type="text" name="lead_charges" placeholder="Lead charges" class="input input-bordered input-sm">`)
	writef(w, `<button type="submit" class="btn btn-primary btn-sm">Add</button>`)
	writef(w, `</form>`)
}

func materialsSection(w io.Writer, data ItemEditorData) {
	base := "/works/" + data.WorkID + "/subworks/" + data.SubworkID + "/items/" + data.ItemID

	writef(w, `<h3 class="text-lg font-semibold mt-6">Materials</h3>`)
	writef(w, `<table class="table table-sm bg-base-100"><thead><tr>`)
	writef(w, `<th>Material</th><th class="text-right">Quantity</th><th>Unit</th><th class="text-right">Rate</th><th class="text-right">Cost</th><th></th>`)
	writef(w, `</tr></thead><tbody>`)
	for _, m := range data.Materials {
		writef(w, `<tr><td>%s</td><td class="text-right font-mono">%s</td><td>%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td>`,
			esc(m.Name), esc(m.Quantity), esc(m.Unit), esc(m.Rate), esc(m.TotalCost))
		writef(w, `<td class="text-right"><button class="btn btn-ghost btn-xs text-error" hx-delete="%s/materials/%s" hx-target="#item-editor" hx-swap="outerHTML">✕</button></td></tr>`,
			esc(base), esc(m.ID))
	}
	writef(w, `</tbody></table>`)
	writef(w, `<form hx-post="%s/materials" hx-target="#item-editor" hx-swap="outerHTML" class="grid grid-cols-5 gap-2 mt-2">`, esc(base))
	writef(w, `<input type="text" name="material_name" placeholder="Material" class="input input-bordered input-sm">`)
	writef(w, `<input type="text" name="quantity" placeholder="Quantity" class="input input-bordered input-sm">`)
	writef(w, `<input type="text" name="unit" placeholder="Unit" class="input input-bordered input-sm">`)
	writef(w, `<input type="text" name="rate" placeholder="Rate" class="input input-bordered input-sm">`)
	writef(w, `<button type="submit" class="btn btn-primary btn-sm">Add</button>`)
	writef(w, `</form>`)
}

// ItemEditorPage renders the full item editor page.
func ItemEditorPage(data ItemEditorData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page("Measurements", ItemEditorContent(data), header, sidebar)
}

// SSRSuggestionItem is one entry in the search suggestion dropdown.
type SSRSuggestionItem struct {
	SrNo        string
	Description string
	Unit        string
	Rate        string
	MatchType   string
}

// SSRSuggestionList renders the suggestion dropdown fragment under the item
// description box. Selecting an entry prefills the rate and unit inputs.
func SSRSuggestionList(items []SSRSuggestionItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(items) == 0 {
			return nil
		}
		writef(w, `<ul class="menu bg-base-100 rounded-box shadow">`)
		for _, item := range items {
			writef(w, `<li><button type="button" onclick="document.querySelector('[name=ssr_rate]').value='%s';document.querySelector('[name=ssr_unit]').value='%s';">`,
				esc(item.Rate), esc(item.Unit))
			writef(w, `<span class="font-mono">%s</span> %s <span class="badge badge-ghost">%s · %s/%s</span>`,
				esc(item.SrNo), esc(item.Description), esc(item.MatchType), esc(item.Rate), esc(item.Unit))
			writef(w, `</button></li>`)
		}
		writef(w, `</ul>`)
		return nil
	})
}
