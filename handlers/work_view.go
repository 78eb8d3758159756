package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// HandleWorkView renders the work detail page with its subwork table.
// Route: GET /works/{id}
func HandleWorkView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		subworks, err := app.FindRecordsByFilter(
			"subworks", "work = {:wid}", "sort_order", 0, 0,
			map[string]any{"wid": rec.Id},
		)
		if err != nil {
			subworks = nil
		}

		var rows []templates.SubworkRow
		for _, sw := range subworks {
			total, itemCount, err := subworkItemsTotal(app, sw.Id)
			if err != nil {
				total, itemCount = 0, 0
			}
			rows = append(rows, templates.SubworkRow{
				ID:          sw.Id,
				SubworksID:  sw.GetString("subworks_id"),
				Name:        sw.GetString("subworks_name"),
				Part:        sw.GetString("part"),
				Unit:        services.FormatQuantity(sw.GetFloat("unit")),
				ItemCount:   itemCount,
				TotalAmount: services.FormatINR(total),
			})
		}

		createdDate := ""
		if dt := rec.GetDateTime("created"); !dt.IsZero() {
			createdDate = dt.Time().Format("02 Jan 2006")
		}

		status := rec.GetString("status")
		data := templates.WorkViewData{
			ID:               rec.Id,
			WorksID:          rec.GetString("works_id"),
			WorkName:         rec.GetString("work_name"),
			Type:             rec.GetString("type"),
			Division:         rec.GetString("division"),
			SubDivision:      rec.GetString("sub_division"),
			FundHead:         rec.GetString("fund_head"),
			Status:           status,
			StatusBadgeClass: statusBadgeClass(status),
			SSR:              rec.GetString("ssr"),
			CreatedDate:      createdDate,
			TotalCost:        services.FormatINR(rec.GetFloat("total_estimated_cost")),
			Subworks:         rows,
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.WorkViewContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.WorkViewPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}
