package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	year := t.Year()
	month := t.Month()

	var startYear int
	if month >= time.April {
		startYear = year
	} else {
		startYear = year - 1
	}
	endYear := startYear + 1

	return fmt.Sprintf("%02d-%02d", startYear%100, endYear%100)
}

// formatWorksID constructs a work identifier from its components.
// workType is the short code for the sanction type (TS / AA).
func formatWorksID(workType, fiscalYear string, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", workType, fiscalYear, sequence)
}

// WorkTypeCode maps a sanction type to the short code used in works IDs.
func WorkTypeCode(workType string) string {
	if workType == "Administrative Approval" {
		return "AA"
	}
	return "TS"
}

// GenerateWorksID creates the next works identifier for a sanction type.
// Format: {type_code}-{fiscal_year}-{sequence}, e.g. "TS-25-26-007".
// The sequence is 3-digit zero-padded, per type per fiscal year.
func GenerateWorksID(app *pocketbase.PocketBase, workType string, now time.Time) (string, error) {
	code := WorkTypeCode(workType)
	fiscalYear := GetFiscalYear(now)

	prefix := fmt.Sprintf("%s-%s-", code, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"works",
		"works_id ~ {:prefix}",
		"", 0, 0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		// Collection missing or empty, start at 1
		existing = nil
	}

	return formatWorksID(code, fiscalYear, len(existing)+1), nil
}

// GenerateSubworksID creates the next subwork identifier under a work.
// Format: {works_id}/SW-{sequence}, e.g. "TS-25-26-007/SW-3".
func GenerateSubworksID(app *pocketbase.PocketBase, workRecordID, worksID string) (string, error) {
	existing, err := app.FindRecordsByFilter(
		"subworks",
		"work = {:workId}",
		"", 0, 0,
		map[string]any{"workId": workRecordID},
	)
	if err != nil {
		existing = nil
	}

	return fmt.Sprintf("%s/SW-%d", worksID, len(existing)+1), nil
}
