package services

import (
	"errors"
	"math"
	"testing"
)

func TestComputeMeasurement(t *testing.T) {
	tests := []struct {
		name      string
		input     MeasurementInput
		rate      float64
		wantQty   float64
		wantTotal float64
	}{
		{
			"all dimensions",
			MeasurementInput{NoOfUnits: 2, Length: 10, Width: 3, Height: 0.5},
			100, 30, 3000,
		},
		{
			"zero dimensions act as identity",
			MeasurementInput{NoOfUnits: 1, Length: 10, Width: 2},
			50, 20, 1000,
		},
		{
			"bare count",
			MeasurementInput{NoOfUnits: 6},
			250, 6, 1500,
		},
		{
			"deduction negates",
			MeasurementInput{NoOfUnits: 1, Length: 2, Width: 1.5, IsDeduction: true},
			100, -3, -300,
		},
		{
			"manual quantity overrides dimensions",
			MeasurementInput{NoOfUnits: 4, Length: 9, Width: 9, IsManualQuantity: true, ManualQuantity: 12.5},
			80, 12.5, 1000,
		},
		{
			"manual quantity deduction",
			MeasurementInput{IsManualQuantity: true, ManualQuantity: 5, IsDeduction: true},
			10, -5, -50,
		},
		{
			"fractional dimensions",
			MeasurementInput{NoOfUnits: 1, Length: 2.5, Width: 0.3, Height: 0.1},
			1000, 0.075, 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeMeasurement(tt.input, tt.rate)
			if !closeTo(got.CalculatedQuantity, tt.wantQty) {
				t.Errorf("CalculatedQuantity = %v, want %v", got.CalculatedQuantity, tt.wantQty)
			}
			if !closeTo(got.LineAmount, tt.wantTotal) {
				t.Errorf("LineAmount = %v, want %v", got.LineAmount, tt.wantTotal)
			}
		})
	}
}

func TestComputeMeasurementIdempotent(t *testing.T) {
	m := MeasurementInput{NoOfUnits: 3, Length: 4.2, Width: 1.1, Height: 0.45}
	first := ComputeMeasurement(m, 733.5)
	for i := 0; i < 10; i++ {
		again := ComputeMeasurement(m, 733.5)
		if again != first {
			t.Fatalf("run %d produced %+v, want %+v", i, again, first)
		}
	}
}

func TestAggregateItem(t *testing.T) {
	tests := []struct {
		name       string
		ms         []MeasurementInput
		rate       float64
		wantQty    float64
		wantAmount float64
	}{
		{
			"sum of additions",
			[]MeasurementInput{
				{NoOfUnits: 1, Length: 10, Width: 2},
				{NoOfUnits: 1, Length: 5, Width: 2},
			},
			100, 30, 3000,
		},
		{
			"deduction nets against additions",
			[]MeasurementInput{
				{NoOfUnits: 1, Length: 10, Width: 3},
				{NoOfUnits: 2, Length: 1.2, Width: 1.5, IsDeduction: true},
			},
			200, 26.4, 5280,
		},
		{
			"equal addition and deduction net to zero",
			[]MeasurementInput{
				{NoOfUnits: 2, Length: 3, Width: 4},
				{NoOfUnits: 2, Length: 3, Width: 4, IsDeduction: true},
			},
			500, 0, 0,
		},
		{
			"no measurements",
			nil,
			100, 0, 0,
		},
		{
			"zero rate",
			[]MeasurementInput{{NoOfUnits: 5}},
			0, 5, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AggregateItem(tt.ms, tt.rate)
			if err != nil {
				t.Fatalf("AggregateItem() error = %v", err)
			}
			if !closeTo(got.TotalQuantity, tt.wantQty) {
				t.Errorf("TotalQuantity = %v, want %v", got.TotalQuantity, tt.wantQty)
			}
			if !closeTo(got.TotalAmount, tt.wantAmount) {
				t.Errorf("TotalAmount = %v, want %v", got.TotalAmount, tt.wantAmount)
			}
		})
	}
}

func TestAggregateItemNegativeRate(t *testing.T) {
	_, err := AggregateItem([]MeasurementInput{{NoOfUnits: 1}}, -10)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("AggregateItem() error = %v, want *InvalidInputError", err)
	}
	if invalid.Field != "rate" {
		t.Errorf("Field = %q, want %q", invalid.Field, "rate")
	}
}

func TestSumItemAmounts(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []float64{1234.56}, 1234.56},
		{"mixed signs", []float64{1000, -250, 500}, 1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SumItemAmounts(tt.amounts); !closeTo(got, tt.want) {
				t.Errorf("SumItemAmounts(%v) = %v, want %v", tt.amounts, got, tt.want)
			}
		})
	}
}

func TestSumItemAmountsAdditive(t *testing.T) {
	amounts := []float64{1250.75, -320.5, 4800, 99.99, 0, 1533.26}
	whole := SumItemAmounts(amounts)

	splits := []struct {
		name string
		at   int
	}{
		{"split after first", 1},
		{"split mid", 3},
		{"split before last", 5},
	}

	for _, tt := range splits {
		t.Run(tt.name, func(t *testing.T) {
			parts := SumItemAmounts(amounts[:tt.at]) + SumItemAmounts(amounts[tt.at:])
			if !closeTo(parts, whole) {
				t.Errorf("partitioned sum = %v, whole sum = %v", parts, whole)
			}
		})
	}
}

func TestVerifyItemAggregate(t *testing.T) {
	ms := []MeasurementInput{
		{NoOfUnits: 1, Length: 10, Width: 2},
		{NoOfUnits: 1, Length: 1, Width: 1, IsDeduction: true},
	}
	rate := 150.0 // qty 19, amount 2850

	if err := VerifyItemAggregate("item1", 19, 2850, ms, rate); err != nil {
		t.Fatalf("consistent aggregate flagged: %v", err)
	}

	err := VerifyItemAggregate("item1", 20, 3000, ms, rate)
	var inconsistent *InconsistentStateError
	if !errors.As(err, &inconsistent) {
		t.Fatalf("VerifyItemAggregate() error = %v, want *InconsistentStateError", err)
	}
	if inconsistent.Field != "ssr_quantity" {
		t.Errorf("Field = %q, want %q", inconsistent.Field, "ssr_quantity")
	}
	if inconsistent.ItemID != "item1" {
		t.Errorf("ItemID = %q, want %q", inconsistent.ItemID, "item1")
	}

	// Quantity matches, amount drifted.
	err = VerifyItemAggregate("item2", 19, 9999, ms, rate)
	if !errors.As(err, &inconsistent) {
		t.Fatalf("VerifyItemAggregate() error = %v, want *InconsistentStateError", err)
	}
	if inconsistent.Field != "total_item_amount" {
		t.Errorf("Field = %q, want %q", inconsistent.Field, "total_item_amount")
	}
}

func TestGroupByRate(t *testing.T) {
	base := RateOption{ID: "base", Description: "Base SSR", Rate: 100, Unit: "Cum"}
	premium := RateOption{ID: "alt1", Description: "Premium mix", Rate: 150, Unit: "Cum"}

	ms := []RatedMeasurement{
		{MeasurementInput: MeasurementInput{NoOfUnits: 1, Length: 10}},
		{MeasurementInput: MeasurementInput{NoOfUnits: 1, Length: 5}, RateID: "alt1"},
		{MeasurementInput: MeasurementInput{NoOfUnits: 1, Length: 2}, RateID: "unknown"},
		{MeasurementInput: MeasurementInput{NoOfUnits: 1, Length: 3}, RateID: "alt1"},
	}

	groups := GroupByRate(ms, base, []RateOption{premium})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Base group first (insertion order), absorbing the unknown rate id.
	if groups[0].RateID != "base" {
		t.Errorf("groups[0].RateID = %q, want %q", groups[0].RateID, "base")
	}
	if !closeTo(groups[0].TotalQuantity, 12) {
		t.Errorf("base quantity = %v, want 12", groups[0].TotalQuantity)
	}
	if !closeTo(groups[0].TotalAmount, 1200) {
		t.Errorf("base amount = %v, want 1200", groups[0].TotalAmount)
	}

	if groups[1].RateID != "alt1" {
		t.Errorf("groups[1].RateID = %q, want %q", groups[1].RateID, "alt1")
	}
	if !closeTo(groups[1].TotalQuantity, 8) {
		t.Errorf("alt quantity = %v, want 8", groups[1].TotalQuantity)
	}
	if !closeTo(groups[1].TotalAmount, 1200) {
		t.Errorf("alt amount = %v, want 1200", groups[1].TotalAmount)
	}
}

func TestGroupByRateDropsNetZeroGroups(t *testing.T) {
	base := RateOption{ID: "base", Rate: 100}
	ms := []RatedMeasurement{
		{MeasurementInput: MeasurementInput{NoOfUnits: 4}},
		{MeasurementInput: MeasurementInput{NoOfUnits: 4, IsDeduction: true}},
	}

	groups := GroupByRate(ms, base, nil)
	if len(groups) != 0 {
		t.Fatalf("got %d groups, want 0", len(groups))
	}
}

// closeTo compares floats with a tolerance suited to currency math.
func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
