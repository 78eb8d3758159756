package services

import (
	"errors"
	"testing"
)

func TestComputeRecapSingleSubwork(t *testing.T) {
	input := RecapInput{
		PartB: []RecapLine{
			{SubworkID: "sw1", SubworkName: "CC Road", ItemCount: 4, Unit: 1, ItemsAmount: 13000},
		},
		Share:   DefaultShareRatio,
		Charges: ChargeConfig{},
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	total := recap.PartB.Total
	if !closeTo(total.Amount, 13000) {
		t.Errorf("PartB total = %v, want 13000", total.Amount)
	}
	if !closeTo(total.Primary, 9100) {
		t.Errorf("primary share = %v, want 9100", total.Primary)
	}
	if !closeTo(total.Secondary, 3900) {
		t.Errorf("secondary share = %v, want 3900", total.Secondary)
	}
}

func TestComputeRecapTaxesApplyInParallel(t *testing.T) {
	// 18% + 0.5% both off the base 1000, never compounded: 1000 + 180 + 5.
	input := RecapInput{
		PartB: []RecapLine{
			{SubworkID: "sw1", ItemsAmount: 1000},
		},
		Taxes: []TaxEntry{
			{ID: "gst", Name: "GST", Percentage: 18, AppliesTo: TaxScopePartB},
			{ID: "cess", Name: "Labour Cess", Percentage: 0.5, AppliesTo: TaxScopePartB},
		},
		Share: DefaultShareRatio,
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	if !closeTo(recap.PartB.Subtotal.Amount, 1000) {
		t.Errorf("subtotal = %v, want 1000", recap.PartB.Subtotal.Amount)
	}
	if len(recap.PartB.Taxes) != 2 {
		t.Fatalf("got %d tax lines, want 2", len(recap.PartB.Taxes))
	}
	if !closeTo(recap.PartB.Taxes[0].Amount, 180) {
		t.Errorf("GST = %v, want 180", recap.PartB.Taxes[0].Amount)
	}
	if !closeTo(recap.PartB.Taxes[1].Amount, 5) {
		t.Errorf("cess = %v, want 5", recap.PartB.Taxes[1].Amount)
	}
	if !closeTo(recap.PartB.Total.Amount, 1185) {
		t.Errorf("PartB total = %v, want 1185", recap.PartB.Total.Amount)
	}
}

func TestComputeRecapTaxScopes(t *testing.T) {
	input := RecapInput{
		PartA: []RecapLine{{SubworkID: "a1", ItemsAmount: 1000}},
		PartB: []RecapLine{{SubworkID: "b1", ItemsAmount: 2000}},
		Taxes: []TaxEntry{
			{Name: "A only", Percentage: 10, AppliesTo: TaxScopePartA},
			{Name: "B only", Percentage: 10, AppliesTo: TaxScopePartB},
			{Name: "Both", Percentage: 5, AppliesTo: TaxScopeBoth},
		},
		Share: DefaultShareRatio,
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	// Part A: 1000 + 100 + 50
	if !closeTo(recap.PartA.Total.Amount, 1150) {
		t.Errorf("PartA total = %v, want 1150", recap.PartA.Total.Amount)
	}
	if len(recap.PartA.Taxes) != 2 {
		t.Errorf("PartA tax lines = %d, want 2", len(recap.PartA.Taxes))
	}
	// Part B: 2000 + 200 + 100
	if !closeTo(recap.PartB.Total.Amount, 2300) {
		t.Errorf("PartB total = %v, want 2300", recap.PartB.Total.Amount)
	}
}

func TestComputeRecapUnitMultiplier(t *testing.T) {
	input := RecapInput{
		PartB: []RecapLine{
			{SubworkID: "sw1", Unit: 3, ItemsAmount: 500},
			{SubworkID: "sw2", Unit: 0, ItemsAmount: 800}, // unset unit counts once
		},
		Share: DefaultShareRatio,
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	if !closeTo(recap.PartB.Subtotal.Amount, 2300) {
		t.Errorf("subtotal = %v, want 2300", recap.PartB.Subtotal.Amount)
	}
	if !closeTo(recap.PartB.Entries[0].Amount, 1500) {
		t.Errorf("entry 0 amount = %v, want 1500", recap.PartB.Entries[0].Amount)
	}
	if recap.PartB.Entries[1].Unit != 1 {
		t.Errorf("entry 1 unit = %v, want 1", recap.PartB.Entries[1].Unit)
	}
	if !closeTo(recap.PartB.Entries[1].PerUnit, 800) {
		t.Errorf("entry 1 per-unit = %v, want 800", recap.PartB.Entries[1].PerUnit)
	}
}

func TestComputeRecapCharges(t *testing.T) {
	input := RecapInput{
		PartB:   []RecapLine{{SubworkID: "sw1", ItemsAmount: 3000000}},
		Share:   DefaultShareRatio,
		Charges: DefaultCharges,
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	if !closeTo(recap.Contingencies.Amount, 15000) {
		t.Errorf("contingencies = %v, want 15000", recap.Contingencies.Amount)
	}
	if !closeTo(recap.InspectionCharges.Amount, 15000) {
		t.Errorf("inspection = %v, want 15000", recap.InspectionCharges.Amount)
	}
	// 5% of 30 lakh is 1.5 lakh, capped at 1 lakh.
	if !closeTo(recap.DPRCharges.Amount, 100000) {
		t.Errorf("DPR charges = %v, want 100000", recap.DPRCharges.Amount)
	}
	if !closeTo(recap.DPRCharges.Primary, 100000) || !closeTo(recap.DPRCharges.Secondary, 0) {
		t.Errorf("DPR split = %v/%v, want 100000/0", recap.DPRCharges.Primary, recap.DPRCharges.Secondary)
	}
	if !closeTo(recap.GrandTotal.Amount, 3130000) {
		t.Errorf("grand total = %v, want 3130000", recap.GrandTotal.Amount)
	}
}

func TestComputeRecapDPRBelowCap(t *testing.T) {
	input := RecapInput{
		PartB:   []RecapLine{{SubworkID: "sw1", ItemsAmount: 100000}},
		Share:   DefaultShareRatio,
		Charges: DefaultCharges,
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	if !closeTo(recap.DPRCharges.Amount, 5000) {
		t.Errorf("DPR charges = %v, want 5000", recap.DPRCharges.Amount)
	}
}

func TestComputeRecapSplitReconstructsAmount(t *testing.T) {
	// An awkward amount whose 70% share is not exactly representable.
	input := RecapInput{
		PartB: []RecapLine{{SubworkID: "sw1", ItemsAmount: 333333.33}},
		Share: DefaultShareRatio,
	}

	recap, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}

	total := recap.PartB.Total
	if total.Primary+total.Secondary != total.Amount {
		t.Errorf("shares %v + %v do not reconstruct %v", total.Primary, total.Secondary, total.Amount)
	}
}

func TestComputeRecapValidation(t *testing.T) {
	tests := []struct {
		name  string
		input RecapInput
	}{
		{
			"negative share",
			RecapInput{Share: ShareRatio{Primary: -0.1, Secondary: 1.1}},
		},
		{
			"shares not summing to one",
			RecapInput{Share: ShareRatio{Primary: 0.6, Secondary: 0.3}},
		},
		{
			"negative tax percentage",
			RecapInput{
				Share: DefaultShareRatio,
				Taxes: []TaxEntry{{Name: "GST", Percentage: -18, AppliesTo: TaxScopePartB}},
			},
		},
		{
			"negative subwork amount",
			RecapInput{
				Share: DefaultShareRatio,
				PartB: []RecapLine{{SubworkID: "sw1", ItemsAmount: -50}},
			},
		},
		{
			"negative unit multiplier",
			RecapInput{
				Share: DefaultShareRatio,
				PartB: []RecapLine{{SubworkID: "sw1", Unit: -2, ItemsAmount: 100}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeRecap(tt.input)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("ComputeRecap() error = %v, want *InvalidInputError", err)
			}
		})
	}
}

func TestComputeRecapDeterministic(t *testing.T) {
	input := RecapInput{
		PartA: []RecapLine{{SubworkID: "a1", Unit: 2, ItemsAmount: 4321.09}},
		PartB: []RecapLine{
			{SubworkID: "b1", ItemsAmount: 98765.43},
			{SubworkID: "b2", Unit: 3, ItemsAmount: 1111.11},
		},
		Taxes: []TaxEntry{
			{Name: "GST", Percentage: 18, AppliesTo: TaxScopeBoth},
			{Name: "Cess", Percentage: 1, AppliesTo: TaxScopePartB},
		},
		Share:   DefaultShareRatio,
		Charges: DefaultCharges,
	}

	first, err := ComputeRecap(input)
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := ComputeRecap(input)
		if err != nil {
			t.Fatalf("run %d error = %v", i, err)
		}
		if again.GrandTotal != first.GrandTotal {
			t.Fatalf("run %d grand total %+v, want %+v", i, again.GrandTotal, first.GrandTotal)
		}
	}
}
