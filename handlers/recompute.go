package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
)

// measurementInput converts a stored measurement record into the calculator's
// input shape.
func measurementInput(rec *core.Record) services.MeasurementInput {
	return services.MeasurementInput{
		NoOfUnits:        rec.GetFloat("no_of_units"),
		Length:           rec.GetFloat("length"),
		Width:            rec.GetFloat("width_breadth"),
		Height:           rec.GetFloat("height_depth"),
		IsDeduction:      rec.GetBool("is_deduction"),
		IsManualQuantity: rec.GetBool("is_manual_quantity"),
		ManualQuantity:   rec.GetFloat("manual_quantity"),
	}
}

// loadMeasurements returns an item's measurement records in sr-no order.
func loadMeasurements(app *pocketbase.PocketBase, itemID string) ([]*core.Record, error) {
	return app.FindRecordsByFilter(
		"item_measurements",
		"item = {:itemId}",
		"measurement_sr_no", 0, 0,
		map[string]any{"itemId": itemID},
	)
}

// RecalcItemTotals recomputes an item's cached quantity and amount from its
// full measurement set and saves the item. Every measurement mutation must
// call this before the item is read again; it also refreshes each
// measurement's stored calculated_quantity and line_amount so the editor rows
// stay in step with the aggregate.
func RecalcItemTotals(app *pocketbase.PocketBase, item *core.Record) error {
	measurements, err := loadMeasurements(app, item.Id)
	if err != nil {
		return fmt.Errorf("load measurements for item %s: %w", item.Id, err)
	}

	rate := item.GetFloat("ssr_rate")
	inputs := make([]services.MeasurementInput, 0, len(measurements))
	for _, m := range measurements {
		in := measurementInput(m)
		inputs = append(inputs, in)

		result := services.ComputeMeasurement(in, rate)
		if m.GetFloat("calculated_quantity") != result.CalculatedQuantity ||
			m.GetFloat("line_amount") != result.LineAmount {
			m.Set("calculated_quantity", result.CalculatedQuantity)
			m.Set("line_amount", result.LineAmount)
			if err := app.Save(m); err != nil {
				return fmt.Errorf("save measurement %s: %w", m.Id, err)
			}
		}
	}

	totals, err := services.AggregateItem(inputs, rate)
	if err != nil {
		return fmt.Errorf("aggregate item %s: %w", item.Id, err)
	}

	item.Set("ssr_quantity", totals.TotalQuantity)
	item.Set("total_item_amount", totals.TotalAmount)
	if err := app.Save(item); err != nil {
		return fmt.Errorf("save item %s: %w", item.Id, err)
	}
	return nil
}

// RecalcWorkTotal re-sums the cached item amounts of every subwork under a
// work into total_estimated_cost.
func RecalcWorkTotal(app *pocketbase.PocketBase, workID string) error {
	work, err := app.FindRecordById("works", workID)
	if err != nil {
		return fmt.Errorf("work %s not found: %w", workID, err)
	}

	subworks, err := app.FindRecordsByFilter(
		"subworks", "work = {:wid}", "sort_order", 0, 0,
		map[string]any{"wid": workID},
	)
	if err != nil {
		return fmt.Errorf("load subworks for work %s: %w", workID, err)
	}

	var amounts []float64
	for _, sw := range subworks {
		items, err := app.FindRecordsByFilter(
			"subwork_items", "subwork = {:sid}", "sr_no", 0, 0,
			map[string]any{"sid": sw.Id},
		)
		if err != nil {
			return fmt.Errorf("load items for subwork %s: %w", sw.Id, err)
		}
		for _, item := range items {
			amounts = append(amounts, item.GetFloat("total_item_amount"))
		}
	}

	work.Set("total_estimated_cost", services.SumItemAmounts(amounts))
	if err := app.Save(work); err != nil {
		return fmt.Errorf("save work %s: %w", workID, err)
	}
	return nil
}

// subworkItemsTotal sums the cached amounts of one subwork's items.
func subworkItemsTotal(app *pocketbase.PocketBase, subworkID string) (float64, int, error) {
	items, err := app.FindRecordsByFilter(
		"subwork_items", "subwork = {:sid}", "sr_no", 0, 0,
		map[string]any{"sid": subworkID},
	)
	if err != nil {
		return 0, 0, err
	}
	var amounts []float64
	for _, item := range items {
		amounts = append(amounts, item.GetFloat("total_item_amount"))
	}
	return services.SumItemAmounts(amounts), len(items), nil
}
