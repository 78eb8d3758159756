package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// HandleSubworkCreate renders the blank subwork form.
// Route: GET /works/{workId}/subworks/create
func HandleSubworkCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		if _, err := app.FindRecordById("works", workID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		data := templates.SubworkFormData{
			WorkID:      workID,
			Part:        "part_b",
			Unit:        "1",
			PartOptions: services.PartOptions,
			Errors:      make(map[string]string),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.SubworkFormContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.SubworkFormPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// parseSubworkForm reads and validates the shared subwork form fields.
func parseSubworkForm(e *core.RequestEvent, data *templates.SubworkFormData) float64 {
	data.Name = strings.TrimSpace(e.Request.FormValue("subworks_name"))
	data.Part = strings.TrimSpace(e.Request.FormValue("part"))
	data.Unit = strings.TrimSpace(e.Request.FormValue("unit"))

	if data.Name == "" {
		data.Errors["subworks_name"] = "Name of subwork is required"
	}

	validPart := false
	for _, p := range services.PartOptions {
		if data.Part == p {
			validPart = true
			break
		}
	}
	if !validPart {
		data.Errors["part"] = "Select a recap part"
	}

	unit := 1.0
	if data.Unit != "" {
		parsed, err := strconv.ParseFloat(data.Unit, 64)
		if err != nil || parsed < 0 {
			data.Errors["unit"] = "Unit multiplier must be a non-negative number"
		} else {
			unit = parsed
		}
	}
	return unit
}

// HandleSubworkSave creates a new subwork with a generated subworks ID.
// Route: POST /works/{workId}/subworks
func HandleSubworkSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		work, err := app.FindRecordById("works", workID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := templates.SubworkFormData{
			WorkID:      workID,
			PartOptions: services.PartOptions,
			Errors:      make(map[string]string),
		}
		unit := parseSubworkForm(e, &data)

		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return templates.SubworkFormContent(data).Render(e.Request.Context(), e.Response)
		}

		subworksID, err := services.GenerateSubworksID(app, workID, work.GetString("works_id"))
		if err != nil {
			log.Printf("subwork_create: generate subworks id: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		subworkCol, err := app.FindCollectionByNameOrId("subworks")
		if err != nil {
			log.Printf("subwork_create: collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		existing, _ := app.FindRecordsByFilter(
			"subworks", "work = {:wid}", "", 0, 0,
			map[string]any{"wid": workID},
		)

		record := core.NewRecord(subworkCol)
		record.Set("work", workID)
		record.Set("subworks_id", subworksID)
		record.Set("subworks_name", data.Name)
		record.Set("part", data.Part)
		record.Set("unit", unit)
		record.Set("sort_order", len(existing)+1)

		if err := app.Save(record); err != nil {
			log.Printf("subwork_create: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Subwork "+subworksID+" created")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/works/"+workID+"/subworks/"+record.Id)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/works/"+workID+"/subworks/"+record.Id)
	}
}

// HandleSubworkView renders the subwork detail page with its item table.
// Route: GET /works/{workId}/subworks/{id}
func HandleSubworkView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		rec, err := app.FindRecordById("subworks", e.Request.PathValue("id"))
		if err != nil || rec.GetString("work") != workID {
			return ErrorToast(e, http.StatusNotFound, "Subwork not found")
		}

		items, err := app.FindRecordsByFilter(
			"subwork_items", "subwork = {:sid}", "sr_no", 0, 0,
			map[string]any{"sid": rec.Id},
		)
		if err != nil {
			items = nil
		}

		var rows []templates.ItemRow
		var amounts []float64
		for _, item := range items {
			amount := item.GetFloat("total_item_amount")
			amounts = append(amounts, amount)
			rows = append(rows, templates.ItemRow{
				ID:          item.Id,
				SrNo:        int(item.GetFloat("sr_no")),
				Description: item.GetString("description_of_item"),
				Unit:        item.GetString("ssr_unit"),
				Rate:        services.FormatINR(item.GetFloat("ssr_rate")),
				Quantity:    services.FormatQuantity(item.GetFloat("ssr_quantity")),
				Amount:      services.FormatINR(amount),
			})
		}

		data := templates.SubworkViewData{
			WorkID:      workID,
			ID:          rec.Id,
			SubworksID:  rec.GetString("subworks_id"),
			Name:        rec.GetString("subworks_name"),
			Part:        rec.GetString("part"),
			TotalAmount: services.FormatINR(services.SumItemAmounts(amounts)),
			Items:       rows,
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.SubworkViewContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.SubworkViewPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleSubworkEdit renders the edit form for an existing subwork.
// Route: GET /works/{workId}/subworks/{id}/edit
func HandleSubworkEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		rec, err := app.FindRecordById("subworks", e.Request.PathValue("id"))
		if err != nil || rec.GetString("work") != workID {
			return ErrorToast(e, http.StatusNotFound, "Subwork not found")
		}

		data := templates.SubworkFormData{
			WorkID:      workID,
			ID:          rec.Id,
			SubworksID:  rec.GetString("subworks_id"),
			Name:        rec.GetString("subworks_name"),
			Part:        rec.GetString("part"),
			Unit:        services.FormatQuantity(rec.GetFloat("unit")),
			PartOptions: services.PartOptions,
			Errors:      make(map[string]string),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.SubworkFormContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.SubworkFormPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleSubworkUpdate saves edits to an existing subwork and recalculates the
// work total since part or unit changes shift the recap.
// Route: POST /works/{workId}/subworks/{id}/save
func HandleSubworkUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		rec, err := app.FindRecordById("subworks", e.Request.PathValue("id"))
		if err != nil || rec.GetString("work") != workID {
			return ErrorToast(e, http.StatusNotFound, "Subwork not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := templates.SubworkFormData{
			WorkID:      workID,
			ID:          rec.Id,
			SubworksID:  rec.GetString("subworks_id"),
			PartOptions: services.PartOptions,
			Errors:      make(map[string]string),
		}
		unit := parseSubworkForm(e, &data)

		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return templates.SubworkFormContent(data).Render(e.Request.Context(), e.Response)
		}

		rec.Set("subworks_name", data.Name)
		rec.Set("part", data.Part)
		rec.Set("unit", unit)

		if err := app.Save(rec); err != nil {
			log.Printf("subwork_edit: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Subwork updated")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/works/"+workID+"/subworks/"+rec.Id)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/works/"+workID+"/subworks/"+rec.Id)
	}
}

// HandleSubworkDelete removes a subwork and refreshes the work total.
// Route: DELETE /works/{workId}/subworks/{id}
func HandleSubworkDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		rec, err := app.FindRecordById("subworks", e.Request.PathValue("id"))
		if err != nil || rec.GetString("work") != workID {
			return ErrorToast(e, http.StatusNotFound, "Subwork not found")
		}

		subworksID := rec.GetString("subworks_id")
		if err := app.Delete(rec); err != nil {
			log.Printf("subwork_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := RecalcWorkTotal(app, workID); err != nil {
			log.Printf("subwork_delete: recalc work total: %v", err)
		}

		SetToast(e, "success", "Subwork "+subworksID+" deleted")
		return e.String(http.StatusOK, "")
	}
}
