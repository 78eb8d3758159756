// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestWork creates a work record with the given name and returns it.
func CreateTestWork(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("works")
	if err != nil {
		t.Fatalf("failed to find works collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("works_id", "TS-25-26-001")
	record.Set("work_name", name)
	record.Set("type", "Technical Sanction")
	record.Set("status", "draft")
	record.Set("ssr", "2024-25")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work: %v", err)
	}

	return record
}

// CreateTestSubwork creates a subwork record under a work and returns it.
func CreateTestSubwork(t *testing.T, app *pocketbase.PocketBase, workID, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("subworks")
	if err != nil {
		t.Fatalf("failed to find subworks collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work", workID)
	record.Set("subworks_id", "TS-25-26-001/SW-1")
	record.Set("subworks_name", name)
	record.Set("part", "part_b")
	record.Set("unit", 1)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test subwork: %v", err)
	}

	return record
}

// CreateTestItem creates a subwork item with the given rate and returns it.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, subworkID, description string, rate float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("subwork_items")
	if err != nil {
		t.Fatalf("failed to find subwork_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("subwork", subworkID)
	record.Set("sr_no", 1)
	record.Set("description_of_item", description)
	record.Set("ssr_unit", "Cum")
	record.Set("ssr_rate", rate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestMeasurement creates a measurement row under an item and returns it.
// Cached quantity columns are left unset; handlers recompute them.
func CreateTestMeasurement(t *testing.T, app *pocketbase.PocketBase, itemID, description string, units, length, width, height float64, isDeduction bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("item_measurements")
	if err != nil {
		t.Fatalf("failed to find item_measurements collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", itemID)
	record.Set("measurement_sr_no", 1)
	record.Set("description_of_items", description)
	record.Set("no_of_units", units)
	record.Set("length", length)
	record.Set("width_breadth", width)
	record.Set("height_depth", height)
	record.Set("unit", "Cum")
	record.Set("is_deduction", isDeduction)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test measurement: %v", err)
	}

	return record
}

// CreateTestSSRRate creates an ssr_rates record and returns it.
func CreateTestSSRRate(t *testing.T, app *pocketbase.PocketBase, srNo, description, unit string, rate float64, keywords string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("ssr_rates")
	if err != nil {
		t.Fatalf("failed to find ssr_rates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("sr_no", srNo)
	record.Set("description", description)
	record.Set("unit", unit)
	record.Set("rate_2024_25", rate)
	record.Set("section", "CONCRETE")
	record.Set("keywords", keywords)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test ssr rate: %v", err)
	}

	return record
}

// CreateTestTax creates a recap_taxes record for a work and returns it.
func CreateTestTax(t *testing.T, app *pocketbase.PocketBase, workID, name string, percentage float64, applyTo string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("recap_taxes")
	if err != nil {
		t.Fatalf("failed to find recap_taxes collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("work", workID)
	record.Set("name", name)
	record.Set("percentage", percentage)
	record.Set("apply_to", applyTo)
	record.Set("enabled", true)
	record.Set("sort_order", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test tax: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
