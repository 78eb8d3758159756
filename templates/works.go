package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// WorkListItem is one row of the works index table.
type WorkListItem struct {
	ID               string
	WorksID          string
	Name             string
	Type             string
	Division         string
	FundHead         string
	Status           string
	StatusBadgeClass string
	SubworkCount     int
	TotalCost        string
	CreatedDate      string
}

// WorkListData feeds the works index page.
type WorkListData struct {
	Items        []WorkListItem
	TotalCount   int
	PendingCount int
	TotalAmount  string
}

// WorkListContent renders the works table fragment with a stats strip.
func WorkListContent(data WorkListData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="work-list">`)
		writef(w, `<div class="flex justify-between items-center mb-4">`)
		writef(w, `<h1 class="text-2xl font-bold">Works</h1>`)
		writef(w, `<div class="flex gap-2">`)
		writef(w, `<a href="/works/compare" class="btn btn-ghost">Compare</a>`)
		writef(w, `<a href="/works/create" class="btn btn-primary">New Work</a>`)
		writef(w, `</div></div>`)

		writef(w, `<div class="stats shadow bg-base-100 mb-4">`)
		writef(w, `<div class="stat"><div class="stat-title">Total Works</div><div class="stat-value">%d</div></div>`, data.TotalCount)
		writef(w, `<div class="stat"><div class="stat-title">Pending Approval</div><div class="stat-value text-warning">%d</div></div>`, data.PendingCount)
		writef(w, `<div class="stat"><div class="stat-title">Total Estimated Amount</div><div class="stat-value text-lg font-mono">%s</div></div>`, esc(data.TotalAmount))
		writef(w, `</div>`)

		if len(data.Items) == 0 {
			writef(w, `<p class="text-base-content/60">No works yet. Create the first estimate to get started.</p></div>`)
			return nil
		}

		writef(w, `<table class="table bg-base-100"><thead><tr>`)
		writef(w, `<th>Works ID</th><th>Name of Work</th><th>Type</th><th>Division</th><th>Fund Head</th><th>Status</th><th>Subworks</th><th class="text-right">Estimated Cost</th><th>Created</th><th></th>`)
		writef(w, `</tr></thead><tbody>`)
		for _, item := range data.Items {
			writef(w, `<tr id="work-row-%s">`, esc(item.ID))
			writef(w, `<td class="font-mono">%s</td>`, esc(item.WorksID))
			writef(w, `<td><a href="/works/%s" class="link">%s</a></td>`, esc(item.ID), esc(item.Name))
			writef(w, `<td>%s</td><td>%s</td><td>%s</td>`, esc(item.Type), esc(item.Division), esc(item.FundHead))
			writef(w, `<td><span class="badge %s">%s</span></td>`, esc(item.StatusBadgeClass), esc(item.Status))
			writef(w, `<td>%d</td>`, item.SubworkCount)
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(item.TotalCost))
			writef(w, `<td>%s</td>`, esc(item.CreatedDate))
			writef(w, `<td class="text-right">`)
			writef(w, `<a href="/works/%s/edit" class="btn btn-ghost btn-xs">Edit</a>`, esc(item.ID))
			writef(w, `<button class="btn btn-ghost btn-xs text-error" hx-delete="/works/%s" hx-confirm="Delete work %s and all its subworks?" hx-target="#work-row-%s" hx-swap="outerHTML">Delete</button>`,
				esc(item.ID), esc(item.WorksID), esc(item.ID))
			writef(w, `</td></tr>`)
		}
		writef(w, `</tbody></table></div>`)
		return nil
	})
}

// WorkListPage renders the full works index page.
func WorkListPage(data WorkListData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page("Works", WorkListContent(data), header, sidebar)
}

// WorkFormData feeds the create/edit work form. A non-empty ID means edit.
type WorkFormData struct {
	ID            string
	WorksID       string
	WorkName      string
	Type          string
	Division      string
	SubDivision   string
	FundHead      string
	Status        string
	SSR           string
	TypeOptions   []string
	StatusOptions []string
	Errors        map[string]string
}

// WorkFormContent renders the work form fragment.
func WorkFormContent(data WorkFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		action := "/works"
		title := "New Work"
		if data.ID != "" {
			action = "/works/" + data.ID + "/save"
			title = "Edit Work " + data.WorksID
		}

		writef(w, `<div id="work-form" class="max-w-2xl">`)
		writef(w, `<h1 class="text-2xl font-bold mb-4">%s</h1>`, esc(title))
		writef(w, `<form hx-post="%s" hx-target="#work-form" hx-swap="outerHTML" class="card bg-base-100 p-6 space-y-4">`, esc(action))

		formField(w, "work_name", "Name of Work", data.WorkName, data.Errors)
		selectField(w, "type", "Sanction Type", data.Type, data.TypeOptions, data.Errors)
		formField(w, "division", "Division", data.Division, data.Errors)
		formField(w, "sub_division", "Sub Division", data.SubDivision, data.Errors)
		formField(w, "fund_head", "Fund Head", data.FundHead, data.Errors)
		formField(w, "ssr", "SSR Year", data.SSR, data.Errors)
		if data.ID != "" {
			selectField(w, "status", "Status", data.Status, data.StatusOptions, data.Errors)
		}

		writef(w, `<div class="flex gap-2 justify-end">`)
		writef(w, `<a href="/works" class="btn btn-ghost">Cancel</a>`)
		writef(w, `<button type="submit" class="btn btn-primary">Save</button>`)
		writef(w, `</div></form></div>`)
		return nil
	})
}

// WorkFormPage renders the full work form page.
func WorkFormPage(data WorkFormData, header HeaderData, sidebar SidebarData) templ.Component {
	title := "New Work"
	if data.ID != "" {
		title = "Edit Work"
	}
	return Page(title, WorkFormContent(data), header, sidebar)
}

// SubworkRow is one subwork line on the work detail page.
type SubworkRow struct {
	ID          string
	SubworksID  string
	Name        string
	Part        string
	Unit        string
	ItemCount   int
	TotalAmount string
}

// WorkViewData feeds the work detail page.
type WorkViewData struct {
	ID               string
	WorksID          string
	WorkName         string
	Type             string
	Division         string
	SubDivision      string
	FundHead         string
	Status           string
	StatusBadgeClass string
	SSR              string
	CreatedDate      string
	TotalCost        string
	Subworks         []SubworkRow
}

// WorkViewContent renders the work detail fragment with its subwork table.
func WorkViewContent(data WorkViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="work-view">`)
		writef(w, `<div class="flex justify-between items-start mb-4"><div>`)
		writef(w, `<h1 class="text-2xl font-bold">%s</h1>`, esc(data.WorkName))
		writef(w, `<p class="font-mono text-base-content/70">%s · %s · SSR %s <span class="badge %s">%s</span></p>`,
			esc(data.WorksID), esc(data.Type), esc(data.SSR), esc(data.StatusBadgeClass), esc(data.Status))
		writef(w, `<p class="text-base-content/70">%s / %s · %s</p>`,
			esc(data.Division), esc(data.SubDivision), esc(data.FundHead))
		writef(w, `</div><div class="text-right">`)
		writef(w, `<p class="text-sm text-base-content/60">Total Estimated Cost</p>`)
		writef(w, `<p class="text-2xl font-mono font-bold">%s</p>`, esc(data.TotalCost))
		writef(w, `<div class="mt-2 flex gap-2 justify-end">`)
		writef(w, `<a href="/works/%s/recap" class="btn btn-sm">Recap Sheet</a>`, esc(data.ID))
		writef(w, `<a href="/works/%s/export/pdf" class="btn btn-sm">PDF</a>`, esc(data.ID))
		writef(w, `<a href="/works/%s/export/excel" class="btn btn-sm">Excel</a>`, esc(data.ID))
		writef(w, `</div></div></div>`)

		writef(w, `<div class="flex justify-between items-center mb-2">`)
		writef(w, `<h2 class="text-xl font-semibold">Subworks</h2>`)
		writef(w, `<a href="/works/%s/subworks/create" class="btn btn-primary btn-sm">Add Subwork</a></div>`, esc(data.ID))

		if len(data.Subworks) == 0 {
			writef(w, `<p class="text-base-content/60">No subworks yet.</p></div>`)
			return nil
		}

		writef(w, `<table class="table bg-base-100"><thead><tr>`)
		writef(w, `<th>Subwork ID</th><th>Name</th><th>Part</th><th>Unit</th><th>Items</th><th class="text-right">Amount</th><th></th>`)
		writef(w, `</tr></thead><tbody>`)
		for _, sw := range data.Subworks {
			writef(w, `<tr id="subwork-row-%s">`, esc(sw.ID))
			writef(w, `<td class="font-mono">%s</td>`, esc(sw.SubworksID))
			writef(w, `<td><a href="/works/%s/subworks/%s" class="link">%s</a></td>`, esc(data.ID), esc(sw.ID), esc(sw.Name))
			writef(w, `<td>%s</td><td>%s</td><td>%d</td>`, esc(sw.Part), esc(sw.Unit), sw.ItemCount)
			writef(w, `<td class="text-right font-mono">%s</td>`, esc(sw.TotalAmount))
			writef(w, `<td class="text-right">`)
			writef(w, `<a href="/works/%s/subworks/%s/edit" class="btn btn-ghost btn-xs">Edit</a>`, esc(data.ID), esc(sw.ID))
			writef(w, `<button class="btn btn-ghost btn-xs text-error" hx-delete="/works/%s/subworks/%s" hx-confirm="Delete subwork %s?" hx-target="#subwork-row-%s" hx-swap="outerHTML">Delete</button>`,
				esc(data.ID), esc(sw.ID), esc(sw.SubworksID), esc(sw.ID))
			writef(w, `</td></tr>`)
		}
		writef(w, `</tbody></table></div>`)
		return nil
	})
}

// WorkViewPage renders the full work detail page.
func WorkViewPage(data WorkViewData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page(data.WorksID, WorkViewContent(data), header, sidebar)
}

func formField(w io.Writer, name, label, value string, errors map[string]string) {
	writef(w, `<label class="form-control"><span class="label-text">%s</span>`, esc(label))
	writef(w, `<input type="text" name="%s" value="%s" class="input input-bordered">`, esc(name), esc(value))
	if msg, ok := errors[name]; ok {
		writef(w, `<span class="label-text-alt text-error">%s</span>`, esc(msg))
	}
	writef(w, `</label>`)
}

func selectField(w io.Writer, name, label, value string, options []string, errors map[string]string) {
	writef(w, `<label class="form-control"><span class="label-text">%s</span>`, esc(label))
	writef(w, `<select name="%s" class="select select-bordered">`, esc(name))
	for _, opt := range options {
		selected := ""
		if opt == value {
			selected = " selected"
		}
		writef(w, `<option value="%s"%s>%s</option>`, esc(opt), selected, esc(opt))
	}
	writef(w, `</select>`)
	if msg, ok := errors[name]; ok {
		writef(w, `<span class="label-text-alt text-error">%s</span>`, esc(msg))
	}
	writef(w, `</label>`)
}
