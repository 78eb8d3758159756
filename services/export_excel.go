package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateEstimateExcel creates a measurement-book style workbook for the
// given estimate: one sheet per subwork with item and measurement rows, plus
// a recap sheet when a recap calculation is present. Returns the file
// contents as a byte slice.
func GenerateEstimateExcel(data EstimateExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	measurementStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create measurement style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	styles := excelStyles{
		header:      headerStyle,
		item:        itemStyle,
		measurement: measurementStyle,
		total:       totalStyle,
	}

	for i, sw := range data.Subworks {
		sheetName := sheetNameFor(sw, i)
		if i == 0 {
			defaultSheet := f.GetSheetName(0)
			if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return nil, fmt.Errorf("new sheet %q: %w", sheetName, err)
			}
		}
		if err := writeSubworkSheet(f, sheetName, data, sw, styles); err != nil {
			return nil, err
		}
	}

	if data.Recap != nil {
		if err := writeRecapSheet(f, data, styles); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

type excelStyles struct {
	header      int
	item        int
	measurement int
	total       int
}

// sheetNameFor builds a unique, excel-legal (max 31 chars) sheet name.
func sheetNameFor(sw ExportSubwork, index int) string {
	name := sw.SubworksName
	if name == "" {
		name = fmt.Sprintf("Subwork %d", index+1)
	}
	name = fmt.Sprintf("%d. %s", index+1, name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func writeSubworkSheet(f *excelize.File, sheetName string, data EstimateExportData, sw ExportSubwork, styles excelStyles) error {
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 42, 8, 10, 10, 10, 14, 16}
	for i, colRef := range columns {
		if err := f.SetColWidth(sheetName, colRef, colRef, widths[i]); err != nil {
			return fmt.Errorf("set col width %s: %w", colRef, err)
		}
	}

	// Title rows
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(fmt.Sprintf("%s — %s", data.WorksID, data.WorkName)))

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return fmt.Errorf("merge subtitle: %w", err)
	}
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell(fmt.Sprintf("%s — %s", sw.SubworksID, sw.SubworksName)))

	// Column headers on row 4
	headers := []string{"Sr", "Description", "Units", "Length", "Width", "Height", "Quantity", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s4", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", styles.header)

	rowNum := 5
	for _, item := range sw.Items {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, "A"+rowStr, item.SrNo)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(item.Description))
		f.SetCellValue(sheetName, "G"+rowStr, item.Quantity)
		f.SetCellValue(sheetName, "H"+rowStr, FormatINR(item.Amount))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.item)
		rowNum++

		for _, meas := range item.Measurements {
			rowStr = fmt.Sprintf("%d", rowNum)
			desc := meas.Description
			if meas.IsDeduction {
				desc = "Deduct: " + desc
			}
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell("  "+desc))
			f.SetCellValue(sheetName, "C"+rowStr, meas.NoOfUnits)
			f.SetCellValue(sheetName, "D"+rowStr, meas.Length)
			f.SetCellValue(sheetName, "E"+rowStr, meas.Width)
			f.SetCellValue(sheetName, "F"+rowStr, meas.Height)
			f.SetCellValue(sheetName, "G"+rowStr, meas.Quantity)
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.measurement)
			rowNum++
		}
	}

	// Subwork total
	rowNum++
	totalRow := fmt.Sprintf("%d", rowNum)
	f.SetCellValue(sheetName, "G"+totalRow, "Subwork Total:")
	f.SetCellStyle(sheetName, "G"+totalRow, "G"+totalRow, styles.total)
	f.SetCellValue(sheetName, "H"+totalRow, FormatINR(sw.TotalAmount))
	f.SetCellStyle(sheetName, "H"+totalRow, "H"+totalRow, styles.total)

	return nil
}

func writeRecapSheet(f *excelize.File, data EstimateExportData, styles excelStyles) error {
	const sheetName = "Recap"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("new recap sheet: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 44, 16, 16, 16}
	for i, colRef := range columns {
		if err := f.SetColWidth(sheetName, colRef, colRef, widths[i]); err != nil {
			return fmt.Errorf("set recap col width: %w", err)
		}
	}

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge recap title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "ESTIMATE RECAP SHEET")

	headers := []string{"Sr", "Description", "Amount", "70% Share", "30% Share"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s3", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A3", lastCol+"3", styles.header)

	rowNum := 4
	writeMoneyRow := func(label string, amount SplitAmount, styleID int) {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, "B"+rowStr, label)
		f.SetCellValue(sheetName, "C"+rowStr, FormatINR(amount.Amount))
		f.SetCellValue(sheetName, "D"+rowStr, FormatINR(amount.Primary))
		f.SetCellValue(sheetName, "E"+rowStr, FormatINR(amount.Secondary))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styleID)
		rowNum++
	}

	writePart := func(title string, part RecapPart) {
		rowStr := fmt.Sprintf("%d", rowNum)
		f.SetCellValue(sheetName, "A"+rowStr, title)
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.item)
		rowNum++

		for i, entry := range part.Entries {
			rowStr = fmt.Sprintf("%d", rowNum)
			f.SetCellValue(sheetName, "A"+rowStr, i+1)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(entry.SubworkName))
			f.SetCellValue(sheetName, "C"+rowStr, FormatINR(entry.Amount))
			f.SetCellValue(sheetName, "D"+rowStr, FormatINR(entry.Primary))
			f.SetCellValue(sheetName, "E"+rowStr, FormatINR(entry.Secondary))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.measurement)
			rowNum++
		}

		writeMoneyRow("Subtotal", part.Subtotal, styles.measurement)
		for _, tax := range part.Taxes {
			writeMoneyRow(fmt.Sprintf("Add %g%% %s", tax.Percentage, tax.Name), tax.SplitAmount, styles.measurement)
		}
		writeMoneyRow("Part Total", part.Total, styles.item)
	}

	recap := data.Recap
	writePart("PART-A: Purchasing Items including GST & all Taxes", recap.PartA)
	writePart("PART-B: Construction works for E-Tendering", recap.PartB)

	writeMoneyRow("Add 0.5% Contingencies", recap.Contingencies, styles.measurement)
	writeMoneyRow("Add 0.5% Inspection Charges", recap.InspectionCharges, styles.measurement)
	writeMoneyRow("DPR charges 5% or 1 Lakh whichever is less", recap.DPRCharges, styles.measurement)
	writeMoneyRow("Gross Total Estimated Amount", recap.GrandTotal, styles.item)

	rowNum++
	rowStr := fmt.Sprintf("%d", rowNum)
	if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
		return fmt.Errorf("merge amount in words: %w", err)
	}
	f.SetCellValue(sheetName, "A"+rowStr, "Amount in Words: "+AmountToWords(recap.GrandTotal.Amount))

	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
