package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/services"
)

// estimateHeaderLines are the office lines printed at the top of every
// exported estimate.
var estimateHeaderLines = []string{
	"Public Works Department",
	"Detailed Estimate for Construction Works",
}

// estimateFooterLines are the signature blocks at the foot of the report.
var estimateFooterLines = []string{
	"Prepared By: Junior Engineer",
	"Checked By: Sub Divisional Officer",
	"Approved By: Executive Engineer",
}

// buildEstimateExportData fetches a work with its full subwork, item and
// measurement detail plus the computed recap sheet.
func buildEstimateExportData(app *pocketbase.PocketBase, workID string) (services.EstimateExportData, error) {
	work, err := app.FindRecordById("works", workID)
	if err != nil {
		return services.EstimateExportData{}, fmt.Errorf("work not found: %w", err)
	}

	subworks, err := app.FindRecordsByFilter(
		"subworks", "work = {:wid}", "sort_order", 0, 0,
		map[string]any{"wid": workID},
	)
	if err != nil {
		subworks = nil
	}

	var exportSubworks []services.ExportSubwork
	for _, sw := range subworks {
		items, err := app.FindRecordsByFilter(
			"subwork_items", "subwork = {:sid}", "sr_no", 0, 0,
			map[string]any{"sid": sw.Id},
		)
		if err != nil {
			items = nil
		}

		exportSW := services.ExportSubwork{
			SubworksID:   sw.GetString("subworks_id"),
			SubworksName: sw.GetString("subworks_name"),
			Part:         sw.GetString("part"),
		}

		for _, item := range items {
			itemRow := services.ExportItemRow{
				SrNo:        int(item.GetFloat("sr_no")),
				Description: item.GetString("description_of_item"),
				Quantity:    item.GetFloat("ssr_quantity"),
				Unit:        item.GetString("ssr_unit"),
				Rate:        item.GetFloat("ssr_rate"),
				Amount:      item.GetFloat("total_item_amount"),
			}

			measurements, err := loadMeasurements(app, item.Id)
			if err != nil {
				measurements = nil
			}
			for _, m := range measurements {
				itemRow.Measurements = append(itemRow.Measurements, services.ExportMeasurementRow{
					SrNo:        int(m.GetFloat("measurement_sr_no")),
					Description: m.GetString("description_of_items"),
					NoOfUnits:   m.GetFloat("no_of_units"),
					Length:      m.GetFloat("length"),
					Width:       m.GetFloat("width_breadth"),
					Height:      m.GetFloat("height_depth"),
					Quantity:    m.GetFloat("calculated_quantity"),
					Unit:        m.GetString("unit"),
					LineAmount:  m.GetFloat("line_amount"),
					IsDeduction: m.GetBool("is_deduction"),
				})
			}

			exportSW.Items = append(exportSW.Items, itemRow)
			exportSW.TotalAmount += itemRow.Amount
		}

		exportSubworks = append(exportSubworks, exportSW)
	}

	input, _, _, err := buildRecapInput(app, workID)
	if err != nil {
		return services.EstimateExportData{}, fmt.Errorf("build recap input: %w", err)
	}
	recap, err := services.ComputeRecap(input)
	if err != nil {
		return services.EstimateExportData{}, fmt.Errorf("compute recap: %w", err)
	}

	createdDate := ""
	if dt := work.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	return services.EstimateExportData{
		WorksID:     work.GetString("works_id"),
		WorkName:    work.GetString("work_name"),
		WorkType:    work.GetString("type"),
		Division:    work.GetString("division"),
		SubDivision: work.GetString("sub_division"),
		FundHead:    work.GetString("fund_head"),
		SSR:         work.GetString("ssr"),
		CreatedDate: createdDate,
		HeaderLines: estimateHeaderLines,
		FooterLines: estimateFooterLines,
		Subworks:    exportSubworks,
		Recap:       recap,
	}, nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleEstimateExportPDF generates and downloads the estimate report as PDF.
// Route: GET /works/{id}/export/pdf
func HandleEstimateExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("id")
		data, err := buildEstimateExportData(app, workID)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return e.String(http.StatusNotFound, "Work not found")
		}

		pdfBytes, err := services.GenerateEstimatePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Estimate_%s_%d.pdf", sanitizeFilename(data.WorksID), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleEstimateExportExcel generates and downloads the estimate workbook.
// Route: GET /works/{id}/export/excel
func HandleEstimateExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("id")
		data, err := buildEstimateExportData(app, workID)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return e.String(http.StatusNotFound, "Work not found")
		}

		xlsxBytes, err := services.GenerateEstimateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Estimate_%s_%d.xlsx", sanitizeFilename(data.WorksID), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
