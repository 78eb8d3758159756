package services

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func exportFixture() EstimateExportData {
	return EstimateExportData{
		WorksID:     "TS-25-26-007",
		WorkName:    "Construction of CC Road at Ward 4",
		WorkType:    "Technical Sanction",
		Division:    "Public Works Division",
		SubDivision: "Sub Division 2",
		FundHead:    "15th Finance",
		SSR:         "2024-25",
		CreatedDate: "2026-01-15",
		Subworks: []ExportSubwork{
			{
				SubworksID:   "TS-25-26-007/SW-1",
				SubworksName: "CC Road",
				Part:         "Part B",
				TotalAmount:  5280,
				Items: []ExportItemRow{
					{
						SrNo:        1,
						Description: "Providing and laying cement concrete M-15",
						Quantity:    26.4,
						Unit:        "Cum",
						Rate:        200,
						Amount:      5280,
						Measurements: []ExportMeasurementRow{
							{SrNo: 1, Description: "Main slab", NoOfUnits: 1, Length: 10, Width: 3, Quantity: 30},
							{SrNo: 2, Description: "Openings", NoOfUnits: 2, Length: 1.2, Width: 1.5, Quantity: -3.6, IsDeduction: true},
						},
					},
				},
			},
		},
	}
}

func TestGenerateEstimateExcel_Basic(t *testing.T) {
	result, err := GenerateEstimateExcel(exportFixture())
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateEstimateExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "1. CC Road" {
		t.Errorf("expected sheet ['1. CC Road'], got %v", sheets)
	}

	title, _ := f.GetCellValue(sheets[0], "A1")
	if !strings.Contains(title, "TS-25-26-007") {
		t.Errorf("title cell = %q, want works id included", title)
	}

	// Item row on 5, measurements on 6 and 7
	desc, _ := f.GetCellValue(sheets[0], "B5")
	if !strings.Contains(desc, "cement concrete") {
		t.Errorf("item description = %q", desc)
	}
	dedDesc, _ := f.GetCellValue(sheets[0], "B7")
	if !strings.Contains(dedDesc, "Deduct:") {
		t.Errorf("deduction row = %q, want Deduct prefix", dedDesc)
	}
}

func TestGenerateEstimateExcel_WithRecap(t *testing.T) {
	data := exportFixture()
	recap, err := ComputeRecap(RecapInput{
		PartB:   []RecapLine{{SubworkID: "sw1", SubworkName: "CC Road", ItemsAmount: 5280}},
		Taxes:   []TaxEntry{{Name: "GST", Percentage: 18, AppliesTo: TaxScopePartB}},
		Share:   DefaultShareRatio,
		Charges: DefaultCharges,
	})
	if err != nil {
		t.Fatalf("ComputeRecap() error = %v", err)
	}
	data.Recap = recap

	result, err := GenerateEstimateExcel(data)
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	found := false
	for _, s := range f.GetSheetList() {
		if s == "Recap" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Recap sheet missing, sheets: %v", f.GetSheetList())
	}

	rows, err := f.GetRows("Recap")
	if err != nil {
		t.Fatalf("GetRows(Recap) error = %v", err)
	}
	var flat []string
	for _, row := range rows {
		flat = append(flat, strings.Join(row, " | "))
	}
	joined := strings.Join(flat, "\n")
	for _, want := range []string{"Add 18% GST", "Gross Total Estimated Amount", "Amount in Words:"} {
		if !strings.Contains(joined, want) {
			t.Errorf("recap sheet missing %q", want)
		}
	}
}

func TestGenerateEstimateExcel_MultipleSubworks(t *testing.T) {
	data := exportFixture()
	data.Subworks = append(data.Subworks, ExportSubwork{
		SubworksID:   "TS-25-26-007/SW-2",
		SubworksName: "Drainage line with a very long descriptive name exceeding limits",
		TotalAmount:  900,
	})

	result, err := GenerateEstimateExcel(data)
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %v", sheets)
	}
	if len(sheets[1]) > 31 {
		t.Errorf("sheet name %q exceeds 31 characters", sheets[1])
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"normal text", "normal text"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1234", "'+1234"},
		{"-deduct", "'-deduct"},
		{"@cmd", "'@cmd"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.expect {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
