package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// HandleSSRTemplateDownload serves the pre-formatted import template.
// Route: GET /ssr-rates/import/template
func HandleSSRTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateSSRTemplate()
		if err != nil {
			log.Printf("ssr_template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("SSR_Rates_Template_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleSSRImportPage renders the upload form.
// Route: GET /ssr-rates/import
func HandleSSRImportPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rateCount := 0
		if col, err := app.FindCollectionByNameOrId("ssr_rates"); err == nil {
			if rates, err := app.FindAllRecords(col); err == nil {
				rateCount = len(rates)
			}
		}

		data := templates.SSRImportData{RateCount: rateCount}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.SSRImportContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.SSRImportPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleSSRValidate receives a file upload, validates it, and returns the
// validation results as an HTMX partial.
// Route: POST /ssr-rates/import
func HandleSSRValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Max 10MB
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateSSRFile(file, header.Filename)
		if err != nil {
			log.Printf("ssr_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		// Serialize parsed rows for the commit form
		var parsedRowsJSON string
		if result.ErrorRows == 0 {
			b, err := json.Marshal(result.ParsedRows)
			if err != nil {
				log.Printf("ssr_validate: marshal parsed rows: %v", err)
			} else {
				parsedRowsJSON = string(b)
			}
		}

		var errorsJSON string
		if len(result.Errors) > 0 {
			if b, err := json.Marshal(result.Errors); err == nil {
				errorsJSON = string(b)
			}
		}

		component := templates.SSRValidationResults(result, parsedRowsJSON, errorsJSON)
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleSSRErrorReport downloads the validation error report as an Excel file.
// Route: POST /ssr-rates/import/errors
func HandleSSRErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		errorsJSON := e.Request.FormValue("errors_json")
		var validationErrors []services.ValidationError
		if err := json.Unmarshal([]byte(errorsJSON), &validationErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(validationErrors)
		if err != nil {
			log.Printf("ssr_error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("SSR_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleSSRImportCommit re-validates and upserts the uploaded rate rows.
// Route: POST /ssr-rates/import/commit
func HandleSSRImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		parsedJSON := e.Request.FormValue("parsed_rows_json")
		if parsedJSON == "" {
			return ErrorToast(e, http.StatusBadRequest,
				"File data missing. Please re-upload and try again.")
		}

		var parsedRows []map[string]string
		if err := json.Unmarshal([]byte(parsedJSON), &parsedRows); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid parsed data")
		}

		importResult, err := services.CommitSSRImport(app, parsedRows)
		if err != nil {
			log.Printf("ssr_import_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if importResult.Failed > 0 {
			component := templates.SSRImportFailure(importResult)
			return component.Render(e.Request.Context(), e.Response)
		}

		SetToast(e, "success", fmt.Sprintf("%d rates imported, %d updated",
			importResult.Imported, importResult.Updated))
		component := templates.SSRImportSuccess(importResult)
		return component.Render(e.Request.Context(), e.Response)
	}
}
