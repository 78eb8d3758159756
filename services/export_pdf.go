package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateEstimatePDF creates the full estimate report (cover header, one
// table per subwork with measurement detail, recap sheet, amount in words)
// using maroto/v2 and returns the raw PDF bytes.
func GenerateEstimatePDF(data EstimateExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addEstimateHeader(m, data)

	for _, sw := range data.Subworks {
		addSubworkTable(m, sw)
	}

	if data.Recap != nil {
		addRecapSheet(m, data)
		addAmountInWords(m, data.Recap.GrandTotal.Amount)
	}

	addEstimateFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addEstimateHeader adds the office header lines and the work identity block.
func addEstimateHeader(m core.Maroto, data EstimateExportData) {
	for i, headerLine := range data.HeaderLines {
		size := 14.0
		style := fontstyle.Bold
		if i > 0 {
			size = 10
			style = fontstyle.Normal
		}
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(headerLine, props.Text{
						Size:  size,
						Style: style,
						Align: align.Center,
					}),
				),
			),
		)
	}

	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("%s — %s", data.WorksID, data.WorkName), props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(4).Add(
				text.New(fmt.Sprintf("Division: %s", data.Division), props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("SSR: %s", data.SSR), props.Text{
					Size:  8,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(4).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  8,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(4),
	)
}

// addSubworkTable renders one subwork's item table with measurement rows
// indented beneath each item.
func addSubworkTable(m core.Maroto, sw ExportSubwork) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("%s — %s", sw.SubworksID, sw.SubworksName), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)

	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New("Sr", headerText)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Description of Item", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Quantity", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Unit", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Rate", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(&headerCell),
		),
	)

	for _, item := range sw.Items {
		m.AddRows(
			row.New(6).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", item.SrNo), props.Text{Size: 7, Align: align.Center})),
				col.New(4).Add(text.New(item.Description, props.Text{Size: 7, Align: align.Left})),
				col.New(2).Add(text.New(FormatQuantity(item.Quantity), props.Text{Size: 7, Align: align.Right})),
				col.New(1).Add(text.New(item.Unit, props.Text{Size: 7, Align: align.Center})),
				col.New(2).Add(text.New(FormatINR(item.Rate), props.Text{Size: 7, Align: align.Right})),
				col.New(2).Add(text.New(FormatINR(item.Amount), props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right})),
			),
		)

		for _, meas := range item.Measurements {
			desc := meas.Description
			if meas.IsDeduction {
				desc = "Deduct: " + desc
			}
			dims := fmt.Sprintf("%g × %g × %g × %g", meas.NoOfUnits, meas.Length, meas.Width, meas.Height)
			m.AddRows(
				row.New(5).Add(
					col.New(1),
					col.New(4).Add(text.New(desc, props.Text{Size: 6, Align: align.Left, Color: &props.Color{Red: 90, Green: 90, Blue: 90}})),
					col.New(2).Add(text.New(dims, props.Text{Size: 6, Align: align.Right, Color: &props.Color{Red: 90, Green: 90, Blue: 90}})),
					col.New(1).Add(text.New(meas.Unit, props.Text{Size: 6, Align: align.Center, Color: &props.Color{Red: 90, Green: 90, Blue: 90}})),
					col.New(2).Add(text.New(FormatQuantity(meas.Quantity), props.Text{Size: 6, Align: align.Right, Color: &props.Color{Red: 90, Green: 90, Blue: 90}})),
					col.New(2),
				),
			)
		}
	}

	m.AddRows(
		row.New(7).Add(
			col.New(8).Add(text.New("Subwork Total", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
			col.New(4).Add(text.New(FormatINR(sw.TotalAmount), props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
		),
		row.New(3),
	)
}

// addRecapSheet renders the recapitulation breakdown: subwork rows per part,
// tax rows, the additional charges block, and the grand total with fund-share
// columns.
func addRecapSheet(m core.Maroto, data EstimateExportData) {
	recap := data.Recap

	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New("ESTIMATE RECAP SHEET", props.Text{
					Size:  12,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	addRecapPart(m, "PART-A: Purchasing Items including GST & all Taxes", recap.PartA)
	addRecapPart(m, "PART-B: Construction works for E-Tendering", recap.PartB)

	addRecapMoneyRow(m, "Add 0.5% Contingencies", recap.Contingencies, false)
	addRecapMoneyRow(m, "Add 0.5% Inspection Charges", recap.InspectionCharges, false)
	addRecapMoneyRow(m, "DPR charges 5% or 1 Lakh whichever is less", recap.DPRCharges, false)
	addRecapMoneyRow(m, "Gross Total Estimated Amount", recap.GrandTotal, true)
}

func addRecapPart(m core.Maroto, title string, part RecapPart) {
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New(title, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}),
			),
		).WithStyle(&props.Cell{BackgroundColor: &props.Color{Red: 222, Green: 226, Blue: 230}}),
	)

	for i, entry := range part.Entries {
		m.AddRows(
			row.New(6).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), props.Text{Size: 7, Align: align.Center})),
				col.New(5).Add(text.New(entry.SubworkName, props.Text{Size: 7, Align: align.Left})),
				col.New(2).Add(text.New(FormatINR(entry.Amount), props.Text{Size: 7, Align: align.Right})),
				col.New(2).Add(text.New(FormatINR(entry.Primary), props.Text{Size: 7, Align: align.Right})),
				col.New(2).Add(text.New(FormatINR(entry.Secondary), props.Text{Size: 7, Align: align.Right})),
			),
		)
	}

	addRecapMoneyRow(m, "Subtotal", part.Subtotal, false)
	for _, tax := range part.Taxes {
		addRecapMoneyRow(m, fmt.Sprintf("Add %g%% %s", tax.Percentage, tax.Name), tax.SplitAmount, false)
	}
	addRecapMoneyRow(m, "Part Total", part.Total, true)
}

func addRecapMoneyRow(m core.Maroto, label string, amount SplitAmount, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 7, Style: style, Align: align.Right})),
			col.New(2).Add(text.New(FormatINR(amount.Amount), props.Text{Size: 7, Style: style, Align: align.Right})),
			col.New(2).Add(text.New(FormatINR(amount.Primary), props.Text{Size: 7, Style: style, Align: align.Right})),
			col.New(2).Add(text.New(FormatINR(amount.Secondary), props.Text{Size: 7, Style: style, Align: align.Right})),
		),
	)
}

// addAmountInWords prints the grand total spelled out below the recap table.
func addAmountInWords(m core.Maroto, amount float64) {
	m.AddRows(
		row.New(4),
		row.New(7).Add(
			col.New(12).Add(
				text.New("Amount in Words: "+AmountToWords(amount), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Left,
				}),
			),
		),
	)
}

// addEstimateFooter adds the signature footer lines.
func addEstimateFooter(m core.Maroto, data EstimateExportData) {
	m.AddRows(row.New(6).Add(col.New(12).Add(line.New())))
	for _, footerLine := range data.FooterLines {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(
					text.New(footerLine, props.Text{
						Size:  7,
						Align: align.Center,
						Color: &props.Color{Red: 100, Green: 100, Blue: 100},
					}),
				),
			),
		)
	}
}
