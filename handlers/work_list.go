package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// statusBadgeClass maps a work status to its daisyUI badge class.
func statusBadgeClass(status string) string {
	switch status {
	case "approved", "completed":
		return "badge-success"
	case "in_progress":
		return "badge-info"
	case "pending":
		return "badge-warning"
	case "rejected":
		return "badge-error"
	default:
		return "badge-ghost"
	}
}

// HandleWorkList renders the works index page.
// Route: GET /works
func HandleWorkList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		worksCol, err := app.FindCollectionByNameOrId("works")
		if err != nil {
			log.Printf("work_list: works collection missing: %v", err)
			return e.String(http.StatusInternalServerError, "works collection not found")
		}

		records, err := app.FindRecordsByFilter(worksCol, "id != ''", "-created", 0, 0)
		if err != nil {
			records = nil
		}

		var items []templates.WorkListItem
		pendingCount := 0
		totalAmount := 0.0
		for _, rec := range records {
			subworks, _ := app.FindRecordsByFilter(
				"subworks", "work = {:wid}", "", 0, 0,
				map[string]any{"wid": rec.Id},
			)

			createdDate := ""
			if dt := rec.GetDateTime("created"); !dt.IsZero() {
				createdDate = dt.Time().Format("02 Jan 2006")
			}

			status := rec.GetString("status")
			if status == "pending" {
				pendingCount++
			}
			totalAmount += rec.GetFloat("total_estimated_cost")
			items = append(items, templates.WorkListItem{
				ID:               rec.Id,
				WorksID:          rec.GetString("works_id"),
				Name:             rec.GetString("work_name"),
				Type:             rec.GetString("type"),
				Division:         rec.GetString("division"),
				FundHead:         rec.GetString("fund_head"),
				Status:           status,
				StatusBadgeClass: statusBadgeClass(status),
				SubworkCount:     len(subworks),
				TotalCost:        services.FormatINR(rec.GetFloat("total_estimated_cost")),
				CreatedDate:      createdDate,
			})
		}

		data := templates.WorkListData{
			Items:        items,
			TotalCount:   len(items),
			PendingCount: pendingCount,
			TotalAmount:  services.FormatINR(totalAmount),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.WorkListContent(data).Render(e.Request.Context(), e.Response)
		}

		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.WorkListPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}
