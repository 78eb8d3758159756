package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// RecapEntryRow is one subwork line inside a recap part.
type RecapEntryRow struct {
	SubworksID string
	Name       string
	Unit       string
	Amount     string
	Primary    string
	Secondary  string
}

// RecapTaxRow is one tax line under a part subtotal.
type RecapTaxRow struct {
	ID         string
	Name       string
	Percentage string
	ApplyTo    string
	Enabled    bool
	Amount     string
}

// RecapPartView is one of the two recap parts.
type RecapPartView struct {
	Label        string
	Entries      []RecapEntryRow
	Subtotal     string
	Taxes        []RecapTaxRow
	Total        string
	PrimaryTotal string
	SecondTotal  string
}

// RecapData feeds the recapitulation sheet page.
type RecapData struct {
	WorkID        string
	WorksID       string
	WorkName      string
	PartA         RecapPartView
	PartB         RecapPartView
	WorksTotal    string
	Contingencies string
	Inspection    string
	DPRCharges    string
	GrandTotal    string
	AmountInWords string
	AllTaxes      []RecapTaxRow
	ApplyOptions  []string
	SubworkUnits  []SubworkUnitRow
}

// SubworkUnitRow is one editable unit-multiplier line.
type SubworkUnitRow struct {
	ID         string
	SubworksID string
	Name       string
	Unit       string
}

func recapPart(w io.Writer, part RecapPartView) {
	writef(w, `<h2 class="text-xl font-semibold mt-6">%s</h2>`, esc(part.Label))
	writef(w, `<table class="table table-sm bg-base-100"><thead><tr>`)
	writef(w, `<th>Subwork</th><th>Description</th><th class="text-right">Unit</th><th class="text-right">Amount</th><th class="text-right">Primary</th><th class="text-right">Secondary</th>`)
	writef(w, `</tr></thead><tbody>`)
	for _, e := range part.Entries {
		writef(w, `<tr><td class="font-mono">%s</td><td>%s</td><td class="text-right">%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td></tr>`,
			esc(e.SubworksID), esc(e.Name), esc(e.Unit), esc(e.Amount), esc(e.Primary), esc(e.Secondary))
	}
	writef(w, `<tr class="font-semibold"><td colspan="3" class="text-right">Subtotal</td><td class="text-right font-mono">%s</td><td></td><td></td></tr>`, esc(part.Subtotal))
	for _, t := range part.Taxes {
		if !t.Enabled {
			continue
		}
		writef(w, `<tr><td colspan="3" class="text-right">Add %s%% %s</td><td class="text-right font-mono">%s</td><td></td><td></td></tr>`,
			esc(t.Percentage), esc(t.Name), esc(t.Amount))
	}
	writef(w, `<tr class="font-bold"><td colspan="3" class="text-right">Total %s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td><td class="text-right font-mono">%s</td></tr>`,
		esc(part.Label), esc(part.Total), esc(part.PrimaryTotal), esc(part.SecondTotal))
	writef(w, `</tbody></table>`)
}

// RecapContent renders the recapitulation sheet fragment.
func RecapContent(data RecapData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="recap-sheet">`)
		writef(w, `<h1 class="text-2xl font-bold">Recapitulation Sheet</h1>`)
		writef(w, `<p class="text-base-content/70 font-mono">%s — %s</p>`, esc(data.WorksID), esc(data.WorkName))

		recapPart(w, data.PartA)
		recapPart(w, data.PartB)

		writef(w, `<table class="table table-sm bg-base-100 mt-6"><tbody>`)
		writef(w, `<tr class="font-semibold"><td class="text-right">Total of Works</td><td class="text-right font-mono w-48">%s</td></tr>`, esc(data.WorksTotal))
		writef(w, `<tr><td class="text-right">Contingencies</td><td class="text-right font-mono">%s</td></tr>`, esc(data.Contingencies))
		writef(w, `<tr><td class="text-right">Inspection Charges</td><td class="text-right font-mono">%s</td></tr>`, esc(data.Inspection))
		writef(w, `<tr><td class="text-right">DPR Preparation Charges</td><td class="text-right font-mono">%s</td></tr>`, esc(data.DPRCharges))
		writef(w, `<tr class="font-bold text-lg"><td class="text-right">Gross Total Estimated Amount</td><td class="text-right font-mono">%s</td></tr>`, esc(data.GrandTotal))
		writef(w, `</tbody></table>`)
		writef(w, `<p class="italic mt-2">Amount in Words: %s</p>`, esc(data.AmountInWords))

		// Tax editor
		writef(w, `<h2 class="text-xl font-semibold mt-8">Taxes</h2>`)
		writef(w, `<form hx-post="/works/%s/recap/taxes" hx-target="#recap-sheet" hx-swap="outerHTML">`, esc(data.WorkID))
		writef(w, `<table class="table table-sm bg-base-100"><thead><tr><th>On</th><th>Name</th><th class="text-right">%%</th><th>Applies To</th></tr></thead><tbody>`)
		for _, t := range data.AllTaxes {
			checked := ""
			if t.Enabled {
				checked = " checked"
			}
			writef(w, `<tr>`)
			writef(w, `<td><input type="checkbox" name="enabled_%s" value="true" class="checkbox checkbox-sm"%s></td>`, esc(t.ID), checked)
			writef(w, `<td><input type="text" name="name_%s" value="%s" class="input input-bordered input-sm"></td>`, esc(t.ID), esc(t.Name))
			writef(w, `<td><input type="text" name="percentage_%s" value="%s" class="input input-bordered input-sm w-24 text-right"></td>`, esc(t.ID), esc(t.Percentage))
			writef(w, `<td><select name="apply_to_%s" class="select select-bordered select-sm">`, esc(t.ID))
			for _, opt := range data.ApplyOptions {
				sel := ""
				if opt == t.ApplyTo {
					sel = " selected"
				}
				writef(w, `<option value="%s"%s>%s</option>`, esc(opt), sel, esc(opt))
			}
			writef(w, `</select></td></tr>`)
		}
		writef(w, `</tbody></table>`)

		// Unit multipliers
		if len(data.SubworkUnits) > 0 {
			writef(w, `<h2 class="text-xl font-semibold mt-6">Subwork Units</h2>`)
			writef(w, `<table class="table table-sm bg-base-100"><thead><tr><th>Subwork</th><th>Name</th><th class="text-right">Unit</th></tr></thead><tbody>`)
			for _, s := range data.SubworkUnits {
				writef(w, `<tr><td class="font-mono">%s</td><td>%s</td>`, esc(s.SubworksID), esc(s.Name))
				writef(w, `<td><input type="text" name="unit_%s" value="%s" class="input input-bordered input-sm w-24 text-right"></td></tr>`, esc(s.ID), esc(s.Unit))
			}
			writef(w, `</tbody></table>`)
		}

		writef(w, `<div class="flex justify-end mt-4"><button type="submit" class="btn btn-primary">Save and Recalculate</button></div>`)
		writef(w, `</form>`)
		writef(w, `</div>`)
		return nil
	})
}

// RecapPage renders the full recap sheet page.
func RecapPage(data RecapData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page("Recap Sheet", RecapContent(data), header, sidebar)
}
