package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
	"estimatecreation/templates"
)

// buildRecapInput assembles the recap calculator input from the persisted
// subwork totals and the work's enabled tax rows.
func buildRecapInput(app *pocketbase.PocketBase, workID string) (services.RecapInput, []*core.Record, []*core.Record, error) {
	subworks, err := app.FindRecordsByFilter(
		"subworks", "work = {:wid}", "sort_order", 0, 0,
		map[string]any{"wid": workID},
	)
	if err != nil {
		return services.RecapInput{}, nil, nil, err
	}

	input := services.RecapInput{
		Share:   services.DefaultShareRatio,
		Charges: services.DefaultCharges,
	}

	for _, sw := range subworks {
		total, itemCount, err := subworkItemsTotal(app, sw.Id)
		if err != nil {
			return services.RecapInput{}, nil, nil, err
		}
		line := services.RecapLine{
			SubworkID:   sw.GetString("subworks_id"),
			SubworkName: sw.GetString("subworks_name"),
			ItemCount:   itemCount,
			Unit:        sw.GetFloat("unit"),
			ItemsAmount: total,
		}
		if sw.GetString("part") == "part_a" {
			input.PartA = append(input.PartA, line)
		} else {
			input.PartB = append(input.PartB, line)
		}
	}

	taxes, err := app.FindRecordsByFilter(
		"recap_taxes", "work = {:wid}", "sort_order", 0, 0,
		map[string]any{"wid": workID},
	)
	if err != nil {
		return services.RecapInput{}, nil, nil, err
	}
	for _, tax := range taxes {
		if !tax.GetBool("enabled") {
			continue
		}
		input.Taxes = append(input.Taxes, services.TaxEntry{
			ID:         tax.Id,
			Name:       tax.GetString("name"),
			Percentage: tax.GetFloat("percentage"),
			AppliesTo:  services.TaxScope(tax.GetString("apply_to")),
		})
	}

	return input, subworks, taxes, nil
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func recapPartView(label string, part services.RecapPart) templates.RecapPartView {
	view := templates.RecapPartView{
		Label:        label,
		Subtotal:     services.FormatINR(part.Subtotal.Amount),
		Total:        services.FormatINR(part.Total.Amount),
		PrimaryTotal: services.FormatINR(part.Total.Primary),
		SecondTotal:  services.FormatINR(part.Total.Secondary),
	}
	for _, entry := range part.Entries {
		view.Entries = append(view.Entries, templates.RecapEntryRow{
			SubworksID: entry.SubworkID,
			Name:       entry.SubworkName,
			Unit:       services.FormatQuantity(entry.Unit),
			Amount:     services.FormatINR(entry.Amount),
			Primary:    services.FormatINR(entry.Primary),
			Secondary:  services.FormatINR(entry.Secondary),
		})
	}
	for _, tax := range part.Taxes {
		view.Taxes = append(view.Taxes, templates.RecapTaxRow{
			ID:         tax.ID,
			Name:       tax.Name,
			Percentage: formatPercent(tax.Percentage),
			ApplyTo:    string(tax.AppliesTo),
			Enabled:    true,
			Amount:     services.FormatINR(tax.Amount),
		})
	}
	return view
}

// buildRecapData computes the recap sheet and formats it for display.
func buildRecapData(app *pocketbase.PocketBase, work *core.Record) (templates.RecapData, *services.RecapCalculation, error) {
	input, subworks, taxRecords, err := buildRecapInput(app, work.Id)
	if err != nil {
		return templates.RecapData{}, nil, err
	}

	calc, err := services.ComputeRecap(input)
	if err != nil {
		return templates.RecapData{}, nil, err
	}

	data := templates.RecapData{
		WorkID:        work.Id,
		WorksID:       work.GetString("works_id"),
		WorkName:      work.GetString("work_name"),
		PartA:         recapPartView("Part A", calc.PartA),
		PartB:         recapPartView("Part B", calc.PartB),
		WorksTotal:    services.FormatINR(calc.PartA.Total.Amount + calc.PartB.Total.Amount),
		Contingencies: services.FormatINR(calc.Contingencies.Amount),
		Inspection:    services.FormatINR(calc.InspectionCharges.Amount),
		DPRCharges:    services.FormatINR(calc.DPRCharges.Amount),
		GrandTotal:    services.FormatINR(calc.GrandTotal.Amount),
		AmountInWords: services.AmountToWords(calc.GrandTotal.Amount),
		ApplyOptions:  services.TaxScopeOptions,
	}

	for _, tax := range taxRecords {
		data.AllTaxes = append(data.AllTaxes, templates.RecapTaxRow{
			ID:         tax.Id,
			Name:       tax.GetString("name"),
			Percentage: formatPercent(tax.GetFloat("percentage")),
			ApplyTo:    tax.GetString("apply_to"),
			Enabled:    tax.GetBool("enabled"),
		})
	}
	for _, sw := range subworks {
		data.SubworkUnits = append(data.SubworkUnits, templates.SubworkUnitRow{
			ID:         sw.Id,
			SubworksID: sw.GetString("subworks_id"),
			Name:       sw.GetString("subworks_name"),
			Unit:       services.FormatQuantity(sw.GetFloat("unit")),
		})
	}

	return data, calc, nil
}

// HandleRecapView renders the recapitulation sheet.
// Route: GET /works/{id}/recap
func HandleRecapView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		data, _, err := buildRecapData(app, work)
		if err != nil {
			log.Printf("recap_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.RecapContent(data).Render(e.Request.Context(), e.Response)
		}
		headerData := GetHeaderData(e.Request)
		sidebarData := GetSidebarData(e.Request)
		return templates.RecapPage(data, headerData, sidebarData).Render(e.Request.Context(), e.Response)
	}
}

// HandleRecapSave updates the work's tax rows and subwork unit multipliers,
// recomputes the recap sheet and persists the snapshot on the work record.
// Route: POST /works/{id}/recap/taxes
func HandleRecapSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		work, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		taxes, err := app.FindRecordsByFilter(
			"recap_taxes", "work = {:wid}", "sort_order", 0, 0,
			map[string]any{"wid": work.Id},
		)
		if err != nil {
			log.Printf("recap_save: load taxes: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		for _, tax := range taxes {
			name := strings.TrimSpace(e.Request.FormValue("name_" + tax.Id))
			if name == "" {
				name = tax.GetString("name")
			}

			percentage := tax.GetFloat("percentage")
			if raw := strings.TrimSpace(e.Request.FormValue("percentage_" + tax.Id)); raw != "" {
				parsed, err := strconv.ParseFloat(raw, 64)
				if err != nil || parsed < 0 {
					return ErrorToast(e, http.StatusBadRequest, "Tax percentage must be a non-negative number")
				}
				percentage = parsed
			}

			applyTo := tax.GetString("apply_to")
			if raw := e.Request.FormValue("apply_to_" + tax.Id); raw != "" {
				for _, opt := range services.TaxScopeOptions {
					if raw == opt {
						applyTo = raw
						break
					}
				}
			}

			tax.Set("name", name)
			tax.Set("percentage", percentage)
			tax.Set("apply_to", applyTo)
			tax.Set("enabled", e.Request.FormValue("enabled_"+tax.Id) == "true")
			if err := app.Save(tax); err != nil {
				log.Printf("recap_save: save tax %s: %v", tax.Id, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		subworks, err := app.FindRecordsByFilter(
			"subworks", "work = {:wid}", "sort_order", 0, 0,
			map[string]any{"wid": work.Id},
		)
		if err != nil {
			log.Printf("recap_save: load subworks: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		for _, sw := range subworks {
			raw := strings.TrimSpace(e.Request.FormValue("unit_" + sw.Id))
			if raw == "" {
				continue
			}
			unit, err := strconv.ParseFloat(raw, 64)
			if err != nil || unit < 0 {
				return ErrorToast(e, http.StatusBadRequest, "Unit multiplier must be a non-negative number")
			}
			if unit != sw.GetFloat("unit") {
				sw.Set("unit", unit)
				if err := app.Save(sw); err != nil {
					log.Printf("recap_save: save subwork %s: %v", sw.Id, err)
					return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
				}
			}
		}

		data, calc, err := buildRecapData(app, work)
		if err != nil {
			log.Printf("recap_save: recompute: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// Persist the snapshot for exports and the works index
		if snapshot, err := json.Marshal(calc); err == nil {
			work.Set("recap_json", string(snapshot))
			if err := app.Save(work); err != nil {
				log.Printf("recap_save: save snapshot: %v", err)
			}
		}

		SetToast(e, "success", "Recap sheet updated")
		return templates.RecapContent(data).Render(e.Request.Context(), e.Response)
	}
}
