package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"

	"estimatecreation/templates"
)

// BuildSidebarData constructs the SidebarData from the current request
// context. It reads the active work from middleware context and queries the
// subwork and item counts shown next to the navigation links.
func BuildSidebarData(r *http.Request, app *pocketbase.PocketBase) templates.SidebarData {
	activeWork := GetActiveWork(r)

	data := templates.SidebarData{
		ActiveWork: activeWork,
		ActivePath: r.URL.Path,
	}

	ssrCol, _ := app.FindCollectionByNameOrId("ssr_rates")
	if ssrCol != nil {
		rates, _ := app.FindAllRecords(ssrCol)
		data.SSRRateCount = len(rates)
	}

	if activeWork == nil {
		return data
	}

	subworkCol, _ := app.FindCollectionByNameOrId("subworks")
	if subworkCol != nil {
		subworks, _ := app.FindRecordsByFilter(subworkCol, "work = {:wid}", "", 0, 0,
			map[string]any{"wid": activeWork.ID})
		data.SubworkCount = len(subworks)

		itemCol, _ := app.FindCollectionByNameOrId("subwork_items")
		if itemCol != nil {
			for _, sw := range subworks {
				items, err := app.FindRecordsByFilter(itemCol, "subwork = {:sid}", "", 0, 0,
					map[string]any{"sid": sw.Id})
				if err == nil {
					data.ItemCount += len(items)
				}
			}
		}
	}

	return data
}
