package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/collections"
	"estimatecreation/services"
	"estimatecreation/templates"
)

// HandleWorkCreate renders the blank work form.
// Route: GET /works/create
func HandleWorkCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.WorkFormData{
			Type:          services.WorkTypeOptions[0],
			Status:        "draft",
			SSR:           "2024-25",
			TypeOptions:   services.WorkTypeOptions,
			StatusOptions: services.WorkStatusOptions,
			Errors:        make(map[string]string),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.WorkFormContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.WorkFormPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleWorkSave creates a new work with a generated works ID and its default
// recap tax rows.
// Route: POST /works
func HandleWorkSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := templates.WorkFormData{
			WorkName:      strings.TrimSpace(e.Request.FormValue("work_name")),
			Type:          strings.TrimSpace(e.Request.FormValue("type")),
			Division:      strings.TrimSpace(e.Request.FormValue("division")),
			SubDivision:   strings.TrimSpace(e.Request.FormValue("sub_division")),
			FundHead:      strings.TrimSpace(e.Request.FormValue("fund_head")),
			SSR:           strings.TrimSpace(e.Request.FormValue("ssr")),
			Status:        "draft",
			TypeOptions:   services.WorkTypeOptions,
			StatusOptions: services.WorkStatusOptions,
			Errors:        make(map[string]string),
		}

		if data.WorkName == "" {
			data.Errors["work_name"] = "Name of work is required"
		}
		validType := false
		for _, t := range services.WorkTypeOptions {
			if data.Type == t {
				validType = true
				break
			}
		}
		if !validType {
			data.Errors["type"] = "Select a sanction type"
		}

		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return templates.WorkFormContent(data).Render(e.Request.Context(), e.Response)
		}

		worksID, err := services.GenerateWorksID(app, data.Type, time.Now())
		if err != nil {
			log.Printf("work_create: generate works id: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		worksCol, err := app.FindCollectionByNameOrId("works")
		if err != nil {
			log.Printf("work_create: works collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(worksCol)
		record.Set("works_id", worksID)
		record.Set("work_name", data.WorkName)
		record.Set("type", data.Type)
		record.Set("division", data.Division)
		record.Set("sub_division", data.SubDivision)
		record.Set("fund_head", data.FundHead)
		record.Set("ssr", data.SSR)
		record.Set("status", "draft")
		record.Set("total_estimated_cost", 0)

		if err := app.Save(record); err != nil {
			log.Printf("work_create: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := collections.CreateDefaultTaxes(app, record.Id); err != nil {
			log.Printf("work_create: default taxes: %v", err)
		}

		SetToast(e, "success", "Work "+worksID+" created")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/works/"+record.Id)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/works/"+record.Id)
	}
}
