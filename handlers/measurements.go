package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/templates"
)

// parseFloatField parses an optional numeric form value, recording an error
// for non-numeric or negative input.
func parseFloatField(e *core.RequestEvent, name string, errors map[string]string) float64 {
	raw := strings.TrimSpace(e.Request.FormValue(name))
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errors[name] = "must be a number"
		return 0
	}
	if parsed < 0 {
		errors[name] = "must not be negative"
		return 0
	}
	return parsed
}

// renderMeasurementsSection rebuilds the editor data and renders the
// measurement partial, the target of every measurement mutation.
func renderMeasurementsSection(app *pocketbase.PocketBase, e *core.RequestEvent, workID, subworkID string, item *core.Record) error {
	data, err := buildItemEditorData(app, workID, subworkID, item)
	if err != nil {
		log.Printf("measurements: rebuild editor data: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return templates.MeasurementsSection(data).Render(e.Request.Context(), e.Response)
}

// HandleMeasurementAdd records a new measurement line and flows the change
// through the item and work roll-ups before re-rendering the table.
// Route: POST /works/{workId}/subworks/{subworkId}/items/{itemId}/measurements
func HandleMeasurementAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		errors := make(map[string]string)
		noOfUnits := parseFloatField(e, "no_of_units", errors)
		length := parseFloatField(e, "length", errors)
		width := parseFloatField(e, "width_breadth", errors)
		height := parseFloatField(e, "height_depth", errors)
		manualQty := parseFloatField(e, "manual_quantity", errors)
		isDeduction := e.Request.FormValue("is_deduction") == "true"
		isManual := e.Request.FormValue("is_manual_quantity") == "true"

		if len(errors) > 0 {
			return ErrorToast(e, http.StatusBadRequest, "Dimensions must be non-negative numbers")
		}
		if isManual && manualQty == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Manual quantity requires a value")
		}

		selectedRate := strings.TrimSpace(e.Request.FormValue("selected_rate"))
		if selectedRate != "" {
			rateRec, err := app.FindRecordById("item_rates", selectedRate)
			if err != nil || rateRec.GetString("item") != item.Id {
				return ErrorToast(e, http.StatusBadRequest, "Selected rate does not belong to this item")
			}
		}

		measurementCol, err := app.FindCollectionByNameOrId("item_measurements")
		if err != nil {
			log.Printf("measurement_add: collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		existing, _ := loadMeasurements(app, item.Id)
		nextSrNo := 1
		for _, m := range existing {
			if sr := int(m.GetFloat("measurement_sr_no")); sr >= nextSrNo {
				nextSrNo = sr + 1
			}
		}

		record := core.NewRecord(measurementCol)
		record.Set("item", item.Id)
		record.Set("measurement_sr_no", nextSrNo)
		record.Set("description_of_items", strings.TrimSpace(e.Request.FormValue("description_of_items")))
		record.Set("no_of_units", noOfUnits)
		record.Set("length", length)
		record.Set("width_breadth", width)
		record.Set("height_depth", height)
		record.Set("unit", item.GetString("ssr_unit"))
		record.Set("is_deduction", isDeduction)
		record.Set("is_manual_quantity", isManual)
		record.Set("manual_quantity", manualQty)
		if selectedRate != "" {
			record.Set("selected_rate", selectedRate)
		}

		if err := app.Save(record); err != nil {
			log.Printf("measurement_add: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := RecalcItemTotals(app, item); err != nil {
			log.Printf("measurement_add: recalc item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if err := RecalcWorkTotal(app, workID); err != nil {
			log.Printf("measurement_add: recalc work: %v", err)
		}

		return renderMeasurementsSection(app, e, workID, subworkID, item)
	}
}

// HandleMeasurementUpdate rewrites an existing measurement line in place and
// re-rolls the item and work totals. The serial number is never reassigned.
// Route: POST /works/{workId}/subworks/{subworkId}/items/{itemId}/measurements/{id}/save
func HandleMeasurementUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		measurement, err := app.FindRecordById("item_measurements", e.Request.PathValue("id"))
		if err != nil || measurement.GetString("item") != item.Id {
			return ErrorToast(e, http.StatusNotFound, "Measurement not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		errors := make(map[string]string)
		noOfUnits := parseFloatField(e, "no_of_units", errors)
		length := parseFloatField(e, "length", errors)
		width := parseFloatField(e, "width_breadth", errors)
		height := parseFloatField(e, "height_depth", errors)
		manualQty := parseFloatField(e, "manual_quantity", errors)
		isDeduction := e.Request.FormValue("is_deduction") == "true"
		isManual := e.Request.FormValue("is_manual_quantity") == "true"

		if len(errors) > 0 {
			return ErrorToast(e, http.StatusBadRequest, "Dimensions must be non-negative numbers")
		}
		if isManual && manualQty == 0 {
			return ErrorToast(e, http.StatusBadRequest, "Manual quantity requires a value")
		}

		selectedRate := strings.TrimSpace(e.Request.FormValue("selected_rate"))
		if selectedRate != "" {
			rateRec, err := app.FindRecordById("item_rates", selectedRate)
			if err != nil || rateRec.GetString("item") != item.Id {
				return ErrorToast(e, http.StatusBadRequest, "Selected rate does not belong to this item")
			}
		}

		measurement.Set("description_of_items", strings.TrimSpace(e.Request.FormValue("description_of_items")))
		measurement.Set("no_of_units", noOfUnits)
		measurement.Set("length", length)
		measurement.Set("width_breadth", width)
		measurement.Set("height_depth", height)
		measurement.Set("is_deduction", isDeduction)
		measurement.Set("is_manual_quantity", isManual)
		measurement.Set("manual_quantity", manualQty)
		measurement.Set("selected_rate", selectedRate)

		if err := app.Save(measurement); err != nil {
			log.Printf("measurement_update: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := RecalcItemTotals(app, item); err != nil {
			log.Printf("measurement_update: recalc item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if err := RecalcWorkTotal(app, workID); err != nil {
			log.Printf("measurement_update: recalc work: %v", err)
		}

		return renderMeasurementsSection(app, e, workID, subworkID, item)
	}
}

// HandleMeasurementDelete removes a measurement line and re-rolls the item.
// Route: DELETE /works/{workId}/subworks/{subworkId}/items/{itemId}/measurements/{id}
func HandleMeasurementDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		measurement, err := app.FindRecordById("item_measurements", e.Request.PathValue("id"))
		if err != nil || measurement.GetString("item") != item.Id {
			return ErrorToast(e, http.StatusNotFound, "Measurement not found")
		}

		if err := app.Delete(measurement); err != nil {
			log.Printf("measurement_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := RecalcItemTotals(app, item); err != nil {
			log.Printf("measurement_delete: recalc item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if err := RecalcWorkTotal(app, workID); err != nil {
			log.Printf("measurement_delete: recalc work: %v", err)
		}

		return renderMeasurementsSection(app, e, workID, subworkID, item)
	}
}
