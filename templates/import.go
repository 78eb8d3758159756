package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"estimatecreation/services"
)

// SSRImportData feeds the rate-list upload form.
type SSRImportData struct {
	RateCount int
}

// SSRImportContent renders the upload form fragment.
func SSRImportContent(data SSRImportData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div id="ssr-import" class="max-w-2xl">`)
		writef(w, `<h1 class="text-2xl font-bold mb-2">Import SSR Rates</h1>`)
		writef(w, `<p class="text-base-content/70 mb-4">%d rates currently loaded. Rows matching an existing Sr No update that rate in place.</p>`, data.RateCount)

		writef(w, `<div class="card bg-base-100 p-6 space-y-4">`)
		writef(w, `<a href="/ssr-rates/import/template" class="btn btn-outline btn-sm w-fit">Download Template</a>`)
		writef(w, `<form hx-post="/ssr-rates/import" hx-target="#import-results" hx-swap="innerHTML" enctype="multipart/form-data" class="space-y-4">`)
		writef(w, `<input type="file" name="file" accept=".csv,.xlsx" class="file-input file-input-bordered w-full">`)
		writef(w, `<button type="submit" class="btn btn-primary">Validate File</button>`)
		writef(w, `</form>`)
		writef(w, `<div id="import-results"></div>`)
		writef(w, `</div></div>`)
		return nil
	})
}

// SSRImportPage renders the full import page.
func SSRImportPage(data SSRImportData, header HeaderData, sidebar SidebarData) templ.Component {
	return Page("Import SSR Rates", SSRImportContent(data), header, sidebar)
}

// SSRValidationResults renders the outcome of a file validation as an HTMX
// partial. When every row is valid it offers the commit button carrying the
// parsed rows as hidden JSON.
func SSRValidationResults(result *services.ValidationResult, parsedRowsJSON, errorsJSON string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if result.ErrorRows == 0 {
			writef(w, `<div class="alert alert-success mt-2">`)
			writef(w, `<span>%d rows validated successfully.</span>`, result.ValidRows)
			writef(w, `</div>`)
			writef(w, `<form hx-post="/ssr-rates/import/commit" hx-target="#import-results" hx-swap="innerHTML" class="mt-2">`)
			writef(w, `<input type="hidden" name="parsed_rows_json" value="%s">`, esc(parsedRowsJSON))
			writef(w, `<button type="submit" class="btn btn-primary">Import %d Rates</button>`, result.ValidRows)
			writef(w, `</form>`)
			return nil
		}

		writef(w, `<div class="alert alert-error mt-2">`)
		writef(w, `<span>%d of %d rows have errors. Fix them and re-upload.</span>`, result.ErrorRows, result.TotalRows)
		writef(w, `</div>`)
		writef(w, `<table class="table table-sm mt-2"><thead><tr><th>Row</th><th>Field</th><th>Error</th></tr></thead><tbody>`)
		shown := result.Errors
		if len(shown) > 20 {
			shown = shown[:20]
		}
		for _, e := range shown {
			writef(w, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`, e.Row, esc(e.Field), esc(e.Message))
		}
		writef(w, `</tbody></table>`)
		if len(result.Errors) > 20 {
			writef(w, `<p class="text-sm text-base-content/70">Showing first 20 of %d errors.</p>`, len(result.Errors))
		}
		writef(w, `<form method="post" action="/ssr-rates/import/errors" class="mt-2">`)
		writef(w, `<input type="hidden" name="errors_json" value="%s">`, esc(errorsJSON))
		writef(w, `<button type="submit" class="btn btn-outline btn-sm">Download Error Report</button>`)
		writef(w, `</form>`)
		return nil
	})
}

// SSRImportSuccess renders the confirmation after a committed import.
func SSRImportSuccess(result *services.ImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div class="alert alert-success mt-2">`)
		writef(w, `<span>Imported %d new rates, updated %d existing rates.</span>`, result.Imported, result.Updated)
		writef(w, `</div>`)
		writef(w, `<a href="/ssr-rates/import" class="btn btn-ghost btn-sm mt-2">Import Another File</a>`)
		return nil
	})
}

// SSRImportFailure renders the outcome of a commit that was rolled back.
func SSRImportFailure(result *services.ImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		writef(w, `<div class="alert alert-error mt-2">`)
		if result.RolledBack {
			writef(w, `<span>Import failed on %d rows and was rolled back. No rates were changed.</span>`, result.Failed)
		} else {
			writef(w, `<span>Import failed on %d rows.</span>`, result.Failed)
		}
		writef(w, `</div>`)
		writef(w, `<table class="table table-sm mt-2"><thead><tr><th>Row</th><th>Field</th><th>Error</th></tr></thead><tbody>`)
		for _, e := range result.Errors {
			writef(w, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`, e.Row, esc(e.Field), esc(e.Message))
		}
		writef(w, `</tbody></table>`)
		return nil
	})
}
