// Package services provides the estimate roll-up and recap calculation
// functions along with export and formatting helpers.
package services

import "math"

// aggregateTolerance is the maximum drift allowed between a cached item
// aggregate and a fresh recomputation before it counts as inconsistent.
const aggregateTolerance = 1e-6

// MeasurementInput holds the raw physical dimensions of a single measurement
// entry recorded against a subwork item.
type MeasurementInput struct {
	NoOfUnits        float64
	Length           float64
	Width            float64
	Height           float64
	IsDeduction      bool
	IsManualQuantity bool
	ManualQuantity   float64
}

// MeasurementResult is the derived quantity and amount for one measurement.
type MeasurementResult struct {
	CalculatedQuantity float64
	LineAmount         float64
}

// ItemTotals is the aggregate quantity and amount for a subwork item.
type ItemTotals struct {
	TotalQuantity float64
	TotalAmount   float64
}

// dimension treats an unset (zero) dimension as a multiplicative identity so
// that a measurement recorded with only some dimensions (a bare count, or
// count x length for linear work) still produces the expected quantity.
func dimension(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// ComputeMeasurement derives a measurement's quantity and line amount from
// its dimensions and the applicable rate. A deduction entry (an opening
// deducted from wall area, for example) yields a negative quantity. When the
// manual-quantity flag is set the recorded quantity replaces the computed
// product. Non-finite inputs propagate; callers validate before invoking.
func ComputeMeasurement(m MeasurementInput, rate float64) MeasurementResult {
	var qty float64
	if m.IsManualQuantity {
		qty = m.ManualQuantity
	} else {
		qty = dimension(m.NoOfUnits) * dimension(m.Length) * dimension(m.Width) * dimension(m.Height)
	}

	if m.IsDeduction {
		qty = -qty
	}

	return MeasurementResult{
		CalculatedQuantity: qty,
		LineAmount:         qty * rate,
	}
}

// AggregateItem recomputes an item's total quantity and amount from its
// complete measurement set. This is the single source of truth for the
// cached ssr_quantity / total_item_amount columns: every measurement
// mutation must flow back through this function before the item is read
// again. Rates are supplied by the caller and must be non-negative; negative
// results come only from deduction entries.
func AggregateItem(ms []MeasurementInput, rate float64) (ItemTotals, error) {
	if rate < 0 {
		return ItemTotals{}, &InvalidInputError{Field: "rate", Message: "rate must not be negative"}
	}

	var totalQty float64
	for _, m := range ms {
		totalQty += ComputeMeasurement(m, rate).CalculatedQuantity
	}

	return ItemTotals{
		TotalQuantity: totalQty,
		TotalAmount:   totalQty * rate,
	}, nil
}

// SumItemAmounts totals item amounts in input order so repeated runs over the
// same data produce identical results.
func SumItemAmounts(amounts []float64) float64 {
	var total float64
	for _, a := range amounts {
		total += a
	}
	return total
}

// VerifyItemAggregate checks a persisted item aggregate against a fresh
// recomputation and reports drift as an InconsistentStateError. Used as a
// consistency self-check before exports and in tests; it never mutates.
func VerifyItemAggregate(itemID string, cachedQty, cachedAmount float64, ms []MeasurementInput, rate float64) error {
	fresh, err := AggregateItem(ms, rate)
	if err != nil {
		return err
	}

	if math.Abs(fresh.TotalQuantity-cachedQty) > aggregateTolerance {
		return &InconsistentStateError{
			ItemID:     itemID,
			Field:      "ssr_quantity",
			Cached:     cachedQty,
			Recomputed: fresh.TotalQuantity,
		}
	}
	if math.Abs(fresh.TotalAmount-cachedAmount) > aggregateTolerance {
		return &InconsistentStateError{
			ItemID:     itemID,
			Field:      "total_item_amount",
			Cached:     cachedAmount,
			Recomputed: fresh.TotalAmount,
		}
	}
	return nil
}

// RatedMeasurement pairs a measurement with the item rate it was recorded
// against. An empty RateID means the item's base SSR rate.
type RatedMeasurement struct {
	MeasurementInput
	RateID string
}

// RateOption describes one selectable rate for an item.
type RateOption struct {
	ID          string
	Description string
	Rate        float64
	Unit        string
}

// RateGroup is the per-rate quantity/amount breakdown shown in the item
// measurement editor (the segregated SSR panel).
type RateGroup struct {
	RateID        string
	Description   string
	Rate          float64
	Unit          string
	TotalQuantity float64
	TotalAmount   float64
}

// GroupByRate rolls measurements up per selected rate. Measurements whose
// RateID matches no option fall back to the base rate. Groups that net to a
// zero or negative quantity are dropped, matching the editor display.
func GroupByRate(ms []RatedMeasurement, base RateOption, options []RateOption) []RateGroup {
	byID := make(map[string]RateOption, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt
	}

	groups := make(map[string]*RateGroup)
	var order []string

	for _, m := range ms {
		opt := base
		if m.RateID != "" {
			if found, ok := byID[m.RateID]; ok {
				opt = found
			}
		}

		g, ok := groups[opt.ID]
		if !ok {
			g = &RateGroup{
				RateID:      opt.ID,
				Description: opt.Description,
				Rate:        opt.Rate,
				Unit:        opt.Unit,
			}
			groups[opt.ID] = g
			order = append(order, opt.ID)
		}

		g.TotalQuantity += ComputeMeasurement(m.MeasurementInput, opt.Rate).CalculatedQuantity
	}

	var result []RateGroup
	for _, id := range order {
		g := groups[id]
		if g.TotalQuantity <= 0 {
			continue
		}
		g.TotalAmount = g.TotalQuantity * g.Rate
		result = append(result, *g)
	}
	return result
}
