package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleItemLeadAdd records a material lead-charge line. Net charges are the
// lead charges minus the initial lead already priced into the SSR rate.
// Route: POST /works/{workId}/subworks/{subworkId}/items/{itemId}/leads
func HandleItemLeadAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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

		material := strings.TrimSpace(e.Request.FormValue("material"))
		if material == "" {
			return ErrorToast(e, http.StatusBadRequest, "Material name is required")
		}

		errors := make(map[string]string)
		distance := parseFloatField(e, "lead_distance_km", errors)
		initialCharges := parseFloatField(e, "initial_lead_charges", errors)
		leadCharges := parseFloatField(e, "lead_charges", errors)
		if len(errors) > 0 {
			return ErrorToast(e, http.StatusBadRequest, "Charges must be non-negative numbers")
		}

		netCharges := leadCharges - initialCharges
		if netCharges < 0 {
			netCharges = 0
		}

		leadCol, err := app.FindCollectionByNameOrId("item_leads")
		if err != nil {
			log.Printf("item_lead_add: collection missing: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(leadCol)
		record.Set("item", item.Id)
		record.Set("material", material)
		record.Set("lead_distance_km", distance)
		record.Set("initial_lead_charges", initialCharges)
		record.Set("lead_charges", leadCharges)
		record.Set("net_lead_charges", netCharges)

		if err := app.Save(record); err != nil {
			log.Printf("item_lead_add: save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return renderItemEditor(app, e, workID, subworkID, item)
	}
}

// HandleItemLeadDelete removes a lead-charge line.
// Route: DELETE /works/{workId}/subworks/{subworkId}/items/{itemId}/leads/{id}
func HandleItemLeadDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("workId")
		subworkID := e.Request.PathValue("subworkId")
		item, err := findSubworkItem(app, subworkID, e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		lead, err := app.FindRecordById("item_leads", e.Request.PathValue("id"))
		if err != nil || lead.GetString("item") != item.Id {
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}

		if err := app.Delete(lead); err != nil {
			log.Printf("item_lead_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return renderItemEditor(app, e, workID, subworkID, item)
	}
}
