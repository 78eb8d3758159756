package collections

import (
	"errors"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"estimatecreation/services"
)

// MigrateStaleItemTotals recomputes the cached ssr_quantity and
// total_item_amount columns for every subwork item whose cache has drifted
// from its measurement rows. Older databases written before the single
// recompute call-site was enforced can carry stale values.
// Safe to call on every startup -- items that verify clean are left alone.
func MigrateStaleItemTotals(app *pocketbase.PocketBase) error {
	itemsCol, err := app.FindCollectionByNameOrId("subwork_items")
	if err != nil {
		return fmt.Errorf("migrate totals: could not find subwork_items collection: %w", err)
	}

	items, err := app.FindAllRecords(itemsCol)
	if err != nil {
		return fmt.Errorf("migrate totals: could not query items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	repaired := 0
	for _, item := range items {
		measurements, err := app.FindRecordsByFilter(
			"item_measurements",
			"item = {:item}",
			"measurement_sr_no",
			0,
			0,
			map[string]any{"item": item.Id},
		)
		if err != nil {
			log.Printf("migrate totals: query measurements for item %s: %v\n", item.Id, err)
			continue
		}

		var inputs []services.MeasurementInput
		for _, m := range measurements {
			inputs = append(inputs, services.MeasurementInput{
				NoOfUnits:        m.GetFloat("no_of_units"),
				Length:           m.GetFloat("length"),
				Width:            m.GetFloat("width_breadth"),
				Height:           m.GetFloat("height_depth"),
				IsDeduction:      m.GetBool("is_deduction"),
				IsManualQuantity: m.GetBool("is_manual_quantity"),
				ManualQuantity:   m.GetFloat("manual_quantity"),
			})
		}

		rate := item.GetFloat("ssr_rate")
		verifyErr := services.VerifyItemAggregate(
			item.Id,
			item.GetFloat("ssr_quantity"),
			item.GetFloat("total_item_amount"),
			inputs,
			rate,
		)
		if verifyErr == nil {
			continue
		}

		var drift *services.InconsistentStateError
		if !errors.As(verifyErr, &drift) {
			log.Printf("migrate totals: item %s: %v\n", item.Id, verifyErr)
			continue
		}

		totals, err := services.AggregateItem(inputs, rate)
		if err != nil {
			log.Printf("migrate totals: recompute item %s: %v\n", item.Id, err)
			continue
		}

		item.Set("ssr_quantity", totals.TotalQuantity)
		item.Set("total_item_amount", totals.TotalAmount)
		if err := app.Save(item); err != nil {
			log.Printf("migrate totals: save item %s: %v\n", item.Id, err)
			continue
		}

		log.Printf("migrate totals: repaired item %s (%s: %.6f -> %.6f)\n",
			item.Id, drift.Field, drift.Cached, drift.Recomputed)
		repaired++
	}

	if repaired > 0 {
		log.Printf("migrate totals: repaired %d stale item(s).\n", repaired)
	}
	return nil
}
