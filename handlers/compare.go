package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// maxCompareWorks caps how many works render side by side.
const maxCompareWorks = 3

// HandleWorkCompare renders the side-by-side work comparison page. Selected
// work ids arrive as repeated "work" query parameters; anything past the cap
// is ignored.
// Route: GET /works/compare
func HandleWorkCompare(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		worksCol, err := app.FindCollectionByNameOrId("works")
		if err != nil {
			log.Printf("compare: works collection missing: %v", err)
			return e.String(http.StatusInternalServerError, "works collection not found")
		}

		records, err := app.FindRecordsByFilter(worksCol, "id != ''", "-created", 0, 0)
		if err != nil {
			records = nil
		}

		selected := e.Request.URL.Query()["work"]
		if len(selected) > maxCompareWorks {
			selected = selected[:maxCompareWorks]
		}
		isSelected := make(map[string]bool, len(selected))
		for _, id := range selected {
			isSelected[id] = true
		}

		data := templates.CompareData{MaxPick: maxCompareWorks}
		for _, rec := range records {
			data.Options = append(data.Options, templates.CompareOption{
				ID:       rec.Id,
				WorksID:  rec.GetString("works_id"),
				Name:     rec.GetString("work_name"),
				Selected: isSelected[rec.Id],
			})

			if !isSelected[rec.Id] {
				continue
			}

			col := templates.CompareColumn{
				ID:               rec.Id,
				WorksID:          rec.GetString("works_id"),
				Name:             rec.GetString("work_name"),
				Status:           rec.GetString("status"),
				StatusBadgeClass: statusBadgeClass(rec.GetString("status")),
				TotalCost:        services.FormatINR(rec.GetFloat("total_estimated_cost")),
			}

			subworks, _ := app.FindRecordsByFilter(
				"subworks", "work = {:wid}", "subworks_id", 0, 0,
				map[string]any{"wid": rec.Id},
			)
			subworkSum := 0.0
			for _, sw := range subworks {
				amount, _, err := subworkItemsTotal(app, sw.Id)
				if err != nil {
					log.Printf("compare: subwork total for %s: %v", sw.Id, err)
					continue
				}
				subworkSum += amount
				col.Subworks = append(col.Subworks, templates.CompareSubworkRow{
					SubworksID: sw.GetString("subworks_id"),
					Name:       sw.GetString("subworks_name"),
					Part:       sw.GetString("part"),
					Amount:     services.FormatINR(amount),
				})
			}
			col.SubworkTotal = services.FormatINR(subworkSum)

			data.Columns = append(data.Columns, col)
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.CompareContent(data).Render(e.Request.Context(), e.Response)
		}

		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.ComparePage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}
