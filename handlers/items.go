package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// findSubworkItem loads an item and checks it belongs to the routed subwork.
func findSubworkItem(app *pocketbase.PocketBase, subworkID, itemID string) (*core.Record, error) {
	item, err := app.FindRecordById("subwork_items", itemID)
	if err != nil {
		return nil, err
	}
	if item.GetString("subwork") != subworkID {
		return nil, sql.ErrNoRows
	}
	return item, nil
}

// HandleItemCreate renders the blank item form.
// Route: GET /works/{workId}/subworks/{subworkId}/items/create
func HandleItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		if _, err := app.FindRecordById("subworks", subworkID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Subwork not found")
		}

		data := templates.ItemFormData{
			WorkID:      workID,
			SubworkID:   subworkID,
			Unit:        services.UnitOptions[0],
			UnitOptions: services.UnitOptions,
			Errors:      make(map[string]string),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.ItemFormContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.ItemFormPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

func parseItemForm(e *core.RequestEvent, data *templates.ItemFormData) float64 {
	data.Description = strings.TrimSpace(e.Request.FormValue("description_of_item"))
	data.Unit = strings.TrimSpace(e.Request.FormValue("ssr_unit"))
	data.Rate = strings.TrimSpace(e.Request.FormValue("ssr_rate"))
	data.Category = strings.TrimSpace(e.Request.FormValue("category"))

	if data.Description == "" {
		data.Errors["description_of_item"] = "Item description is required"
	}

	var rate float64
	if data.Rate == "" {
		data.Errors["ssr_rate"] = "SSR rate is required"
	} else {
		parsed, err := strconv.ParseFloat(data.Rate, 64)
		if err != nil || parsed < 0 {
			data.Errors["ssr_rate"] = "Rate must be a non-negative number"
		} else {
			rate = parsed
		}
	}
	return rate
}

// HandleItemSave creates a new subwork item.
// Route: POST /works/{workId}/subworks/{subworkId}/items
func HandleItemSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		if _, err := app.FindRecordById("subworks", subworkID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Subwork not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := templates.ItemFormData{
			WorkID:      workID,
			SubworkID:   subworkID,
			UnitOptions: services.UnitOptions,
			Errors:      make(map[string]string),
		}
		rate := parseItemForm(e, &data)

		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return templates.ItemFormContent(data).Render(e.Request.Context(), e.Response)
		}

		itemCol, err := app.FindCollectionByNameOrId("subwork_items")
		if err != nil {
			log.Printf("item_create: collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		existing, _ := app.FindRecordsByFilter(
			"subwork_items", "subwork = {:sid}", "", 0, 0,
			map[string]any{"sid": subworkID},
		)

		record := core.NewRecord(itemCol)
		record.Set("subwork", subworkID)
		record.Set("sr_no", len(existing)+1)
		record.Set("description_of_item", data.Description)
		record.Set("ssr_unit", data.Unit)
		record.Set("ssr_rate", rate)
		record.Set("ssr_quantity", 0)
		record.Set("total_item_amount", 0)
		record.Set("category", data.Category)

		if err := app.Save(record); err != nil {
			log.Printf("item_create: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item added")

		editorURL := "/works/" + workID + "/subworks/" + subworkID + "/items/" + record.Id
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", editorURL)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, editorURL)
	}
}

// HandleItemEdit renders the edit form for an existing item.
// Route: GET /works/{workId}/subworks/{subworkId}/items/{id}/edit
func HandleItemEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		data := templates.ItemFormData{
			WorkID:      workID,
			SubworkID:   subworkID,
			ID:          item.Id,
			Description: item.GetString("description_of_item"),
			Unit:        item.GetString("ssr_unit"),
			Rate:        strconv.FormatFloat(item.GetFloat("ssr_rate"), 'f', -1, 64),
			Category:    item.GetString("category"),
			UnitOptions: services.UnitOptions,
			Errors:      make(map[string]string),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.ItemFormContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.ItemFormPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleItemUpdate saves edits to an item. A rate change flows through the
// item and work roll-ups so the cached totals stay consistent.
// Route: POST /works/{workId}/subworks/{subworkId}/items/{id}/save
func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		data := templates.ItemFormData{
			WorkID:      workID,
			SubworkID:   subworkID,
			ID:          item.Id,
			UnitOptions: services.UnitOptions,
			Errors:      make(map[string]string),
		}
		rate := parseItemForm(e, &data)

		if len(data.Errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return templates.ItemFormContent(data).Render(e.Request.Context(), e.Response)
		}

		item.Set("description_of_item", data.Description)
		item.Set("ssr_unit", data.Unit)
		item.Set("ssr_rate", rate)
		item.Set("category", data.Category)

		if err := app.Save(item); err != nil {
			log.Printf("item_edit: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := RecalcItemTotals(app, item); err != nil {
			log.Printf("item_edit: recalc totals: %v", err)
		}
		if err := RecalcWorkTotal(app, workID); err != nil {
			log.Printf("item_edit: recalc work total: %v", err)
		}

		SetToast(e, "success", "Item updated")

		editorURL := "/works/" + workID + "/subworks/" + subworkID + "/items/" + item.Id
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", editorURL)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, editorURL)
	}
}

// HandleItemDelete removes an item and refreshes the work total.
// Route: DELETE /works/{workId}/subworks/{subworkId}/items/{id}
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		if err := app.Delete(item); err != nil {
			log.Printf("item_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := RecalcWorkTotal(app, workID); err != nil {
			log.Printf("item_delete: recalc work total: %v", err)
		}

		SetToast(e, "success", "Item deleted")
		return e.String(http.StatusOK, "")
	}
}

// HandleItemView renders the measurement editor for one item.
// Route: GET /works/{workId}/subworks/{subworkId}/items/{id}
func HandleItemView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		data, err := buildItemEditorData(app, workID, subworkID, item)
		if err != nil {
			log.Printf("item_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.ItemEditorContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.ItemEditorPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// buildItemEditorData assembles everything the measurement editor shows for
// one item: the measurement rows, the per-rate breakdown and the lead and
// material tables.
func buildItemEditorData(app *pocketbase.PocketBase, workID, subworkID string, item *core.Record) (templates.ItemEditorData, error) {
	rate := item.GetFloat("ssr_rate")

	measurements, err := loadMeasurements(app, item.Id)
	if err != nil {
		return templates.ItemEditorData{}, err
	}

	rateRecords, err := app.FindRecordsByFilter(
		"item_rates", "item = {:itemId}", "sort_order", 0, 0,
		map[string]any{"itemId": item.Id},
	)
	if err != nil {
		rateRecords = nil
	}

	base := services.RateOption{
		ID:          "",
		Description: item.GetString("description_of_item"),
		Rate:        rate,
		Unit:        item.GetString("ssr_unit"),
	}
	var options []services.RateOption
	var optionRows []templates.RateOptionRow
	for _, r := range rateRecords {
		options = append(options, services.RateOption{
			ID:          r.Id,
			Description: r.GetString("description"),
			Rate:        r.GetFloat("rate"),
			Unit:        r.GetString("unit"),
		})
		optionRows = append(optionRows, templates.RateOptionRow{
			ID:          r.Id,
			Description: r.GetString("description"),
			Rate:        services.FormatINR(r.GetFloat("rate")),
		})
	}

	var rows []templates.MeasurementRow
	var rated []services.RatedMeasurement
	for _, m := range measurements {
		in := measurementInput(m)
		rated = append(rated, services.RatedMeasurement{
			MeasurementInput: in,
			RateID:           m.GetString("selected_rate"),
		})
		rows = append(rows, templates.MeasurementRow{
			ID:               m.Id,
			SrNo:             int(m.GetFloat("measurement_sr_no")),
			Description:      m.GetString("description_of_items"),
			NoOfUnits:        services.FormatQuantity(m.GetFloat("no_of_units")),
			Length:           services.FormatQuantity(m.GetFloat("length")),
			Width:            services.FormatQuantity(m.GetFloat("width_breadth")),
			Height:           services.FormatQuantity(m.GetFloat("height_depth")),
			Unit:             m.GetString("unit"),
			IsDeduction:      m.GetBool("is_deduction"),
			IsManualQuantity: m.GetBool("is_manual_quantity"),
			ManualQuantity:   services.FormatQuantity(m.GetFloat("manual_quantity")),
			SelectedRateID:   m.GetString("selected_rate"),
			Quantity:         services.FormatQuantity(m.GetFloat("calculated_quantity")),
			LineAmount:       services.FormatINR(m.GetFloat("line_amount")),
		})
	}

	var groupRows []templates.RateGroupRow
	for _, g := range services.GroupByRate(rated, base, options) {
		groupRows = append(groupRows, templates.RateGroupRow{
			Description: g.Description,
			Rate:        services.FormatINR(g.Rate),
			Unit:        g.Unit,
			Quantity:    services.FormatQuantity(g.TotalQuantity),
			Amount:      services.FormatINR(g.TotalAmount),
		})
	}

	leads, err := app.FindRecordsByFilter(
		"item_leads", "item = {:itemId}", "", 0, 0,
		map[string]any{"itemId": item.Id},
	)
	if err != nil {
		leads = nil
	}
	var leadRows []templates.LeadRow
	for _, l := range leads {
		leadRows = append(leadRows, templates.LeadRow{
			ID:             l.Id,
			Material:       l.GetString("material"),
			DistanceKm:     services.FormatQuantity(l.GetFloat("lead_distance_km")),
			InitialCharges: services.FormatINR(l.GetFloat("initial_lead_charges")),
			LeadCharges:    services.FormatINR(l.GetFloat("lead_charges")),
			NetCharges:     services.FormatINR(l.GetFloat("net_lead_charges")),
		})
	}

	materials, err := app.FindRecordsByFilter(
		"item_materials", "item = {:itemId}", "", 0, 0,
		map[string]any{"itemId": item.Id},
	)
	if err != nil {
		materials = nil
	}
	var materialRows []templates.MaterialRow
	for _, m := range materials {
		materialRows = append(materialRows, templates.MaterialRow{
			ID:        m.Id,
			Name:      m.GetString("material_name"),
			Quantity:  services.FormatQuantity(m.GetFloat("quantity")),
			Unit:      m.GetString("unit"),
			Rate:      services.FormatINR(m.GetFloat("rate")),
			TotalCost: services.FormatINR(m.GetFloat("total_material_cost")),
		})
	}

	return templates.ItemEditorData{
		WorkID:          workID,
		SubworkID:       subworkID,
		ItemID:          item.Id,
		ItemDescription: item.GetString("description_of_item"),
		ItemUnit:        item.GetString("ssr_unit"),
		Rate:            services.FormatINR(rate),
		TotalQuantity:   services.FormatQuantity(item.GetFloat("ssr_quantity")),
		TotalAmount:     services.FormatINR(item.GetFloat("total_item_amount")),
		Measurements:    rows,
		RateGroups:      groupRows,
		RateOptions:     optionRows,
		Leads:           leadRows,
		Materials:       materialRows,
	}, nil
}
