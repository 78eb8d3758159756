package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleItemMaterialAdd records a material requirement line for an item. The
// total cost is quantity times rate.
// Route: POST /works/{workId}/subworks/{subworkId}/items/{itemId}/materials
func HandleItemMaterialAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		name := strings.TrimSpace(e.Request.FormValue("material_name"))
		if name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Material name is required")
		}

		errors := make(map[string]string)
		quantity := parseFloatField(e, "quantity", errors)
		rate := parseFloatField(e, "rate", errors)
		if len(errors) > 0 {
			return ErrorToast(e, http.StatusBadRequest, "Quantity and rate must be non-negative numbers")
		}

		materialCol, err := app.FindCollectionByNameOrId("item_materials")
		if err != nil {
			log.Printf("item_material_add: collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(materialCol)
		record.Set("item", item.Id)
		record.Set("material_name", name)
		record.Set("quantity", quantity)
		record.Set("unit", strings.TrimSpace(e.Request.FormValue("unit")))
		record.Set("rate", rate)
		record.Set("total_material_cost", quantity*rate)

		if err := app.Save(record); err != nil {
			log.Printf("item_material_add: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return renderItemEditor(app, e, workID, subworkID, item)
	}
}

// HandleItemMaterialDelete removes a material requirement line.
// Route: DELETE /works/{workId}/subworks/{subworkId}/items/{itemId}/materials/{id}
func HandleItemMaterialDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		material, err := app.FindRecordById("item_materials", e.Request.PathValue("id"))
		if err != nil || material.GetString("item") != item.Id {
			return ErrorToast(e, http.StatusNotFound, "Material not found")
		}

		if err := app.Delete(material); err != nil {
			log.Printf("item_material_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return renderItemEditor(app, e, workID, subworkID, item)
	}
}
