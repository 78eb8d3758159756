package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

func workFormFromRecord(rec *core.Record) templates.WorkFormData {
	return templates.WorkFormData{
		ID:            rec.Id,
		WorksID:       rec.GetString("works_id"),
		WorkName:      rec.GetString("work_name"),
		Type:          rec.GetString("type"),
		Division:      rec.GetString("division"),
		SubDivision:   rec.GetString("sub_division"),
		FundHead:      rec.GetString("fund_head"),
		Status:        rec.GetString("status"),
		SSR:           rec.GetString("ssr"),
		TypeOptions:   services.WorkTypeOptions,
		StatusOptions: services.WorkStatusOptions,
		Errors:        make(map[string]string),
	}
}

// HandleWorkEdit renders the edit form for an existing work.
// Route: GET /works/{id}/edit
func HandleWorkEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		data := workFormFromRecord(rec)
		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.WorkFormContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.WorkFormPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleWorkUpdate saves edits to an existing work. The works ID and sanction
// type are fixed at creation; only the descriptive fields and status change.
// Route: POST /works/{id}/save
func HandleWorkUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := workFormFromRecord(rec)
		data.WorkName = strings.TrimSpace(e.Request.FormValue("work_name"))
		data.Division = strings.TrimSpace(e.Request.FormValue("division"))
		data.SubDivision = strings.TrimSpace(e.Request.FormValue("sub_division"))
		data.FundHead = strings.TrimSpace(e.Request.FormValue("fund_head"))
		data.SSR = strings.TrimSpace(e.Request.FormValue("ssr"))

		status := strings.TrimSpace(e.Request.FormValue("status"))
		for _, s := range services.WorkStatusOptions {
			if status == s {
				data.Status = status
				break
			}
		}

		if data.WorkName == "" {
			data.Errors["work_name"] = "Name of work is required"
		}
		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return templates.WorkFormContent(data).Render(e.Request.Context(), e.Response)
		}

		rec.Set("work_name", data.WorkName)
		rec.Set("division", data.Division)
		rec.Set("sub_division", data.SubDivision)
		rec.Set("fund_head", data.FundHead)
		rec.Set("ssr", data.SSR)
		rec.Set("status", data.Status)

		if err := app.Save(rec); err != nil {
			log.Printf("work_edit: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Work updated")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/works/"+rec.Id)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/works/"+rec.Id)
	}
}
