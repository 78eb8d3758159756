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

// ssrRateRow is the raw ssr_rates projection used by the search endpoint.
type ssrRateRow struct {
	ID          string  `db:"id"`
	SrNo        string  `db:"sr_no"`
	Description string  `db:"description"`
	Unit        string  `db:"unit"`
	Rate2023    float64 `db:"rate_2023_24"`
	Rate2024    float64 `db:"rate_2024_25"`
	Section     string  `db:"section"`
	PageNumber  float64 `db:"page_number"`
	Keywords    string  `db:"keywords"`
}

// loadSSRItems reads the full rate list for in-memory scoring.
func loadSSRItems(app *pocketbase.PocketBase) ([]services.SSRItem, error) {
	var rows []ssrRateRow
	err := app.DB().
		Select("id", "sr_no", "description", "unit", "rate_2023_24", "rate_2024_25", "section", "page_number", "keywords").
		From("ssr_rates").
		OrderBy("sr_no").
		All(&rows)
	if err != nil {
		return nil, err
	}

	items := make([]services.SSRItem, 0, len(rows))
	for _, row := range rows {
		var keywords []string
		for _, kw := range strings.Split(row.Keywords, ",") {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		items = append(items, services.SSRItem{
			ID:          row.ID,
			SrNo:        row.SrNo,
			Description: row.Description,
			Unit:        row.Unit,
			Rate2023:    row.Rate2023,
			Rate2024:    row.Rate2024,
			Section:     row.Section,
			PageNumber:  int(row.PageNumber),
			Keywords:    keywords,
		})
	}
	return items, nil
}

// HandleSSRSearch ranks rate-list entries against a free-text query. HTMX
// requests get the suggestion dropdown fragment; everything else gets JSON.
// Route: POST /api/ssr-search
func HandleSSRSearch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		query := strings.TrimSpace(e.Request.FormValue("q"))
		if query == "" {
			query = strings.TrimSpace(e.Request.FormValue("description_of_item"))
		}

		maxResults := services.DefaultMaxResults
		if raw := e.Request.FormValue("max_results"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				maxResults = parsed
			}
		}

		items, err := loadSSRItems(app)
		if err != nil {
			log.Printf("ssr_search: load rates: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		suggestions := services.SearchSSRItems(items, query, maxResults)

		if e.Request.Header.Get("HX-Request") == "true" {
			var rows []templates.SSRSuggestionItem
			for _, s := range suggestions {
				rows = append(rows, templates.SSRSuggestionItem{
					SrNo:        s.Item.SrNo,
					Description: s.Item.Description,
					Unit:        s.Item.Unit,
					Rate:        strconv.FormatFloat(s.Item.Rate2024, 'f', 2, 64),
					MatchType:   s.MatchType,
				})
			}
			return templates.SSRSuggestionList(rows).Render(e.Request.Context(), e.Response)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"query":       query,
			"suggestions": suggestions,
			"count":       len(suggestions),
		})
	}
}
