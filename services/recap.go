package services

import (
	"fmt"
	"math"
)

// shareRatioTolerance bounds how far Primary+Secondary may drift from 1.0
// before the ratio is rejected as a configuration error.
const shareRatioTolerance = 1e-9

// TaxScope selects which recap part a tax entry applies to.
type TaxScope string

const (
	TaxScopePartA TaxScope = "part_a"
	TaxScopePartB TaxScope = "part_b"
	TaxScopeBoth  TaxScope = "both"
)

// TaxEntry is one percentage surcharge configured on the recap sheet.
type TaxEntry struct {
	ID         string
	Name       string
	Percentage float64
	AppliesTo  TaxScope
}

// ShareRatio is the fund-share split applied to every monetary recap line.
type ShareRatio struct {
	Primary   float64
	Secondary float64
}

// DefaultShareRatio is the standard 70/30 government fund split.
var DefaultShareRatio = ShareRatio{Primary: 0.7, Secondary: 0.3}

// ChargeConfig holds the fixed-formula charges layered on the construction
// part total.
type ChargeConfig struct {
	ContingencyPercent float64
	InspectionPercent  float64
	DPRPercent         float64
	DPRCap             float64
}

// DefaultCharges per the recap sheet: 0.5% contingencies, 0.5% inspection,
// DPR charges 5% capped at one lakh.
var DefaultCharges = ChargeConfig{
	ContingencyPercent: 0.5,
	InspectionPercent:  0.5,
	DPRPercent:         5,
	DPRCap:             100000,
}

// RecapLine is one subwork row feeding a recap part.
type RecapLine struct {
	SubworkID   string
	SubworkName string
	ItemCount   int
	Unit        float64
	ItemsAmount float64
}

// RecapInput is everything the recap calculator needs; it carries no state
// and can be rebuilt from the persisted rows at any time.
type RecapInput struct {
	PartA   []RecapLine
	PartB   []RecapLine
	Taxes   []TaxEntry
	Share   ShareRatio
	Charges ChargeConfig
}

// SplitAmount is a monetary value with its fund-share split. Primary plus
// Secondary always reconstructs Amount exactly.
type SplitAmount struct {
	Amount    float64
	Primary   float64
	Secondary float64
}

// RecapEntry is one computed subwork row of a recap part.
type RecapEntry struct {
	SubworkID   string
	SubworkName string
	ItemCount   int
	Unit        float64
	PerUnit     float64
	SplitAmount
}

// RecapTaxLine is one applied tax row.
type RecapTaxLine struct {
	TaxEntry
	SplitAmount
}

// RecapPart is the computed breakdown of one funding part.
type RecapPart struct {
	Entries  []RecapEntry
	Subtotal SplitAmount
	Taxes    []RecapTaxLine
	Total    SplitAmount
}

// RecapCalculation is the full recap sheet, reproducible deterministically
// from the subwork item totals and the active tax/charge configuration.
type RecapCalculation struct {
	PartA             RecapPart
	PartB             RecapPart
	Contingencies     SplitAmount
	InspectionCharges SplitAmount
	DPRCharges        SplitAmount
	GrandTotal        SplitAmount
}

// split applies the fund-share ratio. Secondary is derived by subtraction so
// the two shares always sum back to the amount with no drift.
func split(amount float64, share ShareRatio) SplitAmount {
	primary := amount * share.Primary
	return SplitAmount{
		Amount:    amount,
		Primary:   primary,
		Secondary: amount - primary,
	}
}

// ComputeRecap builds the recapitulation breakdown for a work. Taxes apply in
// parallel off each part's unmodified subtotal (never compounded on each
// other); contingency, inspection and DPR charges apply once against the
// Part B total. DPR charges are borne entirely by the primary fund share.
func ComputeRecap(input RecapInput) (*RecapCalculation, error) {
	if err := validateShareRatio(input.Share); err != nil {
		return nil, err
	}
	for _, tax := range input.Taxes {
		if tax.Percentage < 0 {
			return nil, &InvalidInputError{
				Field:   "tax " + tax.Name,
				Message: "percentage must not be negative",
			}
		}
	}

	partA, err := computePart(input.PartA, input.Taxes, TaxScopePartA, input.Share)
	if err != nil {
		return nil, err
	}
	partB, err := computePart(input.PartB, input.Taxes, TaxScopePartB, input.Share)
	if err != nil {
		return nil, err
	}

	charges := input.Charges
	contingencies := partB.Total.Amount * charges.ContingencyPercent / 100
	inspection := partB.Total.Amount * charges.InspectionPercent / 100
	dpr := math.Min(partB.Total.Amount*charges.DPRPercent/100, charges.DPRCap)

	grandTotal := partA.Total.Amount + partB.Total.Amount + contingencies + inspection + dpr

	return &RecapCalculation{
		PartA:             partA,
		PartB:             partB,
		Contingencies:     split(contingencies, input.Share),
		InspectionCharges: split(inspection, input.Share),
		DPRCharges:        SplitAmount{Amount: dpr, Primary: dpr, Secondary: 0},
		GrandTotal:        split(grandTotal, input.Share),
	}, nil
}

// computePart totals one funding part and applies its taxes in parallel off
// the base subtotal.
func computePart(lines []RecapLine, taxes []TaxEntry, scope TaxScope, share ShareRatio) (RecapPart, error) {
	var part RecapPart
	var subtotal float64

	for _, line := range lines {
		if line.ItemsAmount < 0 {
			return RecapPart{}, &InvalidInputError{
				Field:   "subwork " + line.SubworkID,
				Message: fmt.Sprintf("negative subtotal %.2f", line.ItemsAmount),
			}
		}
		if line.Unit < 0 {
			return RecapPart{}, &InvalidInputError{
				Field:   "subwork " + line.SubworkID,
				Message: "unit multiplier must not be negative",
			}
		}

		unit := line.Unit
		if unit == 0 {
			unit = 1
		}
		amount := unit * line.ItemsAmount
		subtotal += amount

		part.Entries = append(part.Entries, RecapEntry{
			SubworkID:   line.SubworkID,
			SubworkName: line.SubworkName,
			ItemCount:   line.ItemCount,
			Unit:        unit,
			PerUnit:     line.ItemsAmount,
			SplitAmount: split(amount, share),
		})
	}

	part.Subtotal = split(subtotal, share)

	total := subtotal
	for _, tax := range taxes {
		if tax.AppliesTo != scope && tax.AppliesTo != TaxScopeBoth {
			continue
		}
		taxAmount := subtotal * tax.Percentage / 100
		total += taxAmount
		part.Taxes = append(part.Taxes, RecapTaxLine{
			TaxEntry:    tax,
			SplitAmount: split(taxAmount, share),
		})
	}

	part.Total = split(total, share)
	return part, nil
}

func validateShareRatio(share ShareRatio) error {
	if share.Primary < 0 || share.Secondary < 0 {
		return &InvalidInputError{Field: "share_ratio", Message: "shares must not be negative"}
	}
	if math.Abs(share.Primary+share.Secondary-1) > shareRatioTolerance {
		return &InvalidInputError{
			Field:   "share_ratio",
			Message: fmt.Sprintf("shares must sum to 1.0, got %.4f", share.Primary+share.Secondary),
		}
	}
	return nil
}
