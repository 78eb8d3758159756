package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

const importBatchSize = 100

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []ValidationError   `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// ImportResult holds the outcome of a batch import operation.
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Imported   int              `json:"imported"`
	Updated    int              `json:"updated"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	RolledBack bool             `json:"rolled_back"`
}

// ImportRowError represents a failure to insert a specific row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	dataRows := allRows[1:]
	return headers, dataRows, nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file multipart.File) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := rows[0]
	dataRows := rows[1:]
	return headers, dataRows, nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields))
	for _, f := range fields {
		normalized := strings.ToLower(strings.TrimSpace(f.Label))
		labelToKey[normalized] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that our template adds for required fields
		norm = strings.TrimSuffix(norm, " *")
		norm = strings.TrimSpace(norm)

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateSSRFile parses and validates an uploaded SSR rate list file.
func ValidateSSRFile(file multipart.File, fileName string) (*ValidationResult, error) {
	fields := SSRTemplateFields()

	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(file)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(file)
	} else {
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, fields)

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ValidationResult{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]map[string]string, 0, len(dataRows)),
	}

	seenSrNo := make(map[string]int)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		var rowErrors []ValidationError

		for colIdx, key := range columnKeys {
			if key == "" {
				continue
			}
			value := ""
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			rowData[key] = value
		}

		for _, f := range fields {
			if f.Required && rowData[f.Key] == "" {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   f.Label,
					Message: fmt.Sprintf("%s is required", f.Label),
				})
			}
		}

		rowErrors = append(rowErrors, validateSSRFieldFormats(rowNum, rowData)...)

		if sr := rowData["sr_no"]; sr != "" {
			if firstRow, dup := seenSrNo[sr]; dup {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Sr No",
					Message: fmt.Sprintf("Duplicate Sr No %q, first seen on row %d", sr, firstRow),
				})
			} else {
				seenSrNo[sr] = rowNum
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
		}
		result.ParsedRows = append(result.ParsedRows, rowData)
	}

	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows

	return result, nil
}

// validateSSRFieldFormats checks format-specific rules for non-empty values.
func validateSSRFieldFormats(rowNum int, data map[string]string) []ValidationError {
	var errs []ValidationError

	for key, label := range map[string]string{
		"rate_2023_24": "Rate 2023-24",
		"rate_2024_25": "Rate 2024-25",
	} {
		v := data[key]
		if v == "" {
			continue
		}
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, ValidationError{Row: rowNum, Field: label, Message: fmt.Sprintf("%s must be a number", label)})
		} else if rate < 0 {
			errs = append(errs, ValidationError{Row: rowNum, Field: label, Message: fmt.Sprintf("%s must not be negative", label)})
		}
	}

	if v := data["page_number"]; v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Page No", Message: "Page No must be a whole number"})
		}
	}

	return errs
}

// CommitSSRImport re-validates and batch-upserts parsed SSR rows into
// PocketBase. Rows whose sr_no already exists update the existing record.
//
// Strategy: Process in chunks. Within each chunk, if any save fails,
// roll back the entire chunk and record errors. Continue with next chunk.
func CommitSSRImport(app *pocketbase.PocketBase, parsedRows []map[string]string) (*ImportResult, error) {
	// 1. Re-validate all rows before committing
	revalidationErrors := revalidateSSRRows(parsedRows)
	if len(revalidationErrors) > 0 {
		errorRowSet := make(map[int]bool)
		for _, e := range revalidationErrors {
			errorRowSet[e.Row] = true
		}
		return &ImportResult{
			TotalRows:  len(parsedRows),
			Imported:   0,
			Failed:     len(errorRowSet),
			Errors:     toImportRowErrors(revalidationErrors),
			RolledBack: true,
		}, nil
	}

	// 2. Build sr_no -> record id lookup for upserts
	existing, err := buildSrNoLookup(app)
	if err != nil {
		return nil, fmt.Errorf("build sr_no lookup: %w", err)
	}

	col, err := app.FindCollectionByNameOrId("ssr_rates")
	if err != nil {
		return nil, fmt.Errorf("ssr_rates collection not found: %w", err)
	}

	result := &ImportResult{
		TotalRows: len(parsedRows),
	}

	for chunkStart := 0; chunkStart < len(parsedRows); chunkStart += importBatchSize {
		chunkEnd := chunkStart + importBatchSize
		if chunkEnd > len(parsedRows) {
			chunkEnd = len(parsedRows)
		}
		chunk := parsedRows[chunkStart:chunkEnd]

		inserted, updated, chunkErrors := upsertChunk(app, col, chunk, chunkStart, existing)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk) // entire chunk failed
			result.RolledBack = true
		} else {
			result.Imported += inserted
			result.Updated += updated
		}
	}

	return result, nil
}

// upsertChunk saves a batch of rows within a RunInTransaction block.
// If any row fails, the entire chunk is rolled back and errors are returned.
func upsertChunk(
	app *pocketbase.PocketBase,
	col *core.Collection,
	rows []map[string]string,
	startOffset int,
	existing map[string]string,
) (inserted, updated int, chunkErrors []ImportRowError) {
	err := app.RunInTransaction(func(txApp core.App) error {
		for i, rowData := range rows {
			rowNum := startOffset + i + 2 // 1-indexed + header row

			var record *core.Record
			if id, ok := existing[rowData["sr_no"]]; ok {
				var findErr error
				record, findErr = txApp.FindRecordById("ssr_rates", id)
				if findErr != nil {
					chunkErrors = append(chunkErrors, ImportRowError{
						Row:     rowNum,
						Field:   "Sr No",
						Message: fmt.Sprintf("Failed to load existing record: %s", findErr.Error()),
					})
					return fmt.Errorf("load existing record at row %d: %w", rowNum, findErr)
				}
				updated++
			} else {
				record = core.NewRecord(col)
				inserted++
			}

			record.Set("sr_no", rowData["sr_no"])
			record.Set("description", rowData["description"])
			record.Set("unit", rowData["unit"])
			record.Set("section", rowData["section"])
			record.Set("keywords", rowData["keywords"])
			if v := rowData["rate_2023_24"]; v != "" {
				rate, _ := strconv.ParseFloat(v, 64)
				record.Set("rate_2023_24", rate)
			}
			if v := rowData["rate_2024_25"]; v != "" {
				rate, _ := strconv.ParseFloat(v, 64)
				record.Set("rate_2024_25", rate)
			}
			if v := rowData["page_number"]; v != "" {
				page, _ := strconv.Atoi(v)
				record.Set("page_number", page)
			}

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportRowError{
					Row:     rowNum,
					Field:   "",
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("ssr_import: chunk upsert rolled back: %v", err)
		inserted, updated = 0, 0
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportRowError{
				Row:     startOffset + 2,
				Field:   "",
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
	}

	return inserted, updated, chunkErrors
}

// revalidateSSRRows re-runs row validation on already-parsed data. This
// catches stale confirmations where the upload was validated, held, and
// committed later.
func revalidateSSRRows(parsedRows []map[string]string) []ValidationError {
	fields := SSRTemplateFields()

	var allErrors []ValidationError
	seenSrNo := make(map[string]int)

	for rowIdx, rowData := range parsedRows {
		rowNum := rowIdx + 2

		for _, f := range fields {
			if f.Required && rowData[f.Key] == "" {
				allErrors = append(allErrors, ValidationError{
					Row:     rowNum,
					Field:   f.Label,
					Message: fmt.Sprintf("%s is required", f.Label),
				})
			}
		}

		allErrors = append(allErrors, validateSSRFieldFormats(rowNum, rowData)...)

		if sr := rowData["sr_no"]; sr != "" {
			if firstRow, dup := seenSrNo[sr]; dup {
				allErrors = append(allErrors, ValidationError{
					Row:     rowNum,
					Field:   "Sr No",
					Message: fmt.Sprintf("Duplicate Sr No %q, first seen on row %d", sr, firstRow),
				})
			} else {
				seenSrNo[sr] = rowNum
			}
		}
	}

	return allErrors
}

// buildSrNoLookup maps existing ssr_rates sr_no values to record ids.
func buildSrNoLookup(app *pocketbase.PocketBase) (map[string]string, error) {
	records, err := app.FindRecordsByFilter("ssr_rates", "id != ''", "", 0, 0)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]string, len(records))
	for _, r := range records {
		lookup[r.GetString("sr_no")] = r.Id
	}
	return lookup, nil
}

func toImportRowErrors(errs []ValidationError) []ImportRowError {
	out := make([]ImportRowError, len(errs))
	for i, e := range errs {
		out[i] = ImportRowError{Row: e.Row, Field: e.Field, Message: e.Message}
	}
	return out
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
