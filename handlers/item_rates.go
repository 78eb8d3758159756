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

// renderItemEditor rebuilds the full item editor fragment after a rate, lead
// or material mutation.
func renderItemEditor(app *pocketbase.PocketBase, e *core.RequestEvent, workID, subworkID string, item *core.Record) error {
	data, err := buildItemEditorData(app, workID, subworkID, item)
	if err != nil {
		log.Printf("item_editor: rebuild data: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
	return templates.ItemEditorContent(data).Render(e.Request.Context(), e.Response)
}

// HandleItemRateAdd adds an alternate rate option for an item's measurements.
// Route: POST /works/{workId}/subworks/{subworkId}/items/{itemId}/rates
func HandleItemRateAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		description := strings.TrimSpace(e.Request.FormValue("description"))
		rateRaw := strings.TrimSpace(e.Request.FormValue("rate"))
		rate, err := strconv.ParseFloat(rateRaw, 64)
		if err != nil || rate < 0 {
			return ErrorToast(e, http.StatusBadRequest, "Rate must be a non-negative number")
		}

		rateCol, err := app.FindCollectionByNameOrId("item_rates")
		if err != nil {
			log.Printf("item_rate_add: collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		existing, _ := app.FindRecordsByFilter(
			"item_rates", "item = {:itemId}", "", 0, 0,
			map[string]any{"itemId": item.Id},
		)

		record := core.NewRecord(rateCol)
		record.Set("item", item.Id)
		record.Set("description", description)
		record.Set("rate", rate)
		record.Set("unit", strings.TrimSpace(e.Request.FormValue("unit")))
		record.Set("sort_order", len(existing)+1)

		if err := app.Save(record); err != nil {
			log.Printf("item_rate_add: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return renderItemEditor(app, e, workID, subworkID, item)
	}
}

// HandleItemRateDelete removes a rate option. Measurements that referenced it
// fall back to the item's base SSR rate in the per-rate breakdown.
// Route: DELETE /works/{workId}/subworks/{subworkId}/items/{itemId}/rates/{id}
func HandleItemRateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		rateRec, err := app.FindRecordById("item_rates", e.Request.PathValue("id"))
		if err != nil || rateRec.GetString("item") != item.Id {
			return ErrorToast(e, http.StatusNotFound, "Rate not found")
		}

		if err := app.Delete(rateRec); err != nil {
			log.Printf("item_rate_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return renderItemEditor(app, e, workID, subworkID, item)
	}
}
