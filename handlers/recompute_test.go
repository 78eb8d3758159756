package handlers

import (
	"math"
	"testing"

	"estimatecreation/testhelpers"
)

func TestRecalcItemTotals_ComputesFromMeasurements(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	subwork := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, subwork.Id, "Excavation in hard soil", 100)

	// 2.5 x 4 x 2 = 20 Cum
	testhelpers.CreateTestMeasurement(t, app, item.Id, "Trench", 1, 2.5, 4, 2, false)

	if err := RecalcItemTotals(app, item); err != nil {
		t.Fatalf("RecalcItemTotals returned error: %v", err)
	}

	if got := item.GetFloat("ssr_quantity"); math.Abs(got-20) > 1e-9 {
		t.Errorf("expected ssr_quantity 20, got %v", got)
	}
	if got := item.GetFloat("total_item_amount"); math.Abs(got-2000) > 1e-9 {
		t.Errorf("expected total_item_amount 2000, got %v", got)
	}
}

func TestRecalcItemTotals_NetsDeductions(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "School Building")
	subwork := testhelpers.CreateTestSubwork(t, app, work.Id, "Masonry")
	item := testhelpers.CreateTestItem(t, app, subwork.Id, "Brickwork in CM 1:6", 50)

	// 10 x 3 = 30, minus a 1.2 x 2.1 opening = 2.52
	testhelpers.CreateTestMeasurement(t, app, item.Id, "Wall", 1, 10, 0, 3, false)
	testhelpers.CreateTestMeasurement(t, app, item.Id, "Door opening", 1, 1.2, 0, 2.1, true)

	if err := RecalcItemTotals(app, item); err != nil {
		t.Fatalf("RecalcItemTotals returned error: %v", err)
	}

	wantQty := 30.0 - 2.52
	if got := item.GetFloat("ssr_quantity"); math.Abs(got-wantQty) > 1e-9 {
		t.Errorf("expected ssr_quantity %v, got %v", wantQty, got)
	}
	if got := item.GetFloat("total_item_amount"); math.Abs(got-wantQty*50) > 1e-9 {
		t.Errorf("expected total_item_amount %v, got %v", wantQty*50, got)
	}
}

func TestRecalcItemTotals_RefreshesMeasurementCache(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Road Work")
	subwork := testhelpers.CreateTestSubwork(t, app, work.Id, "WBM")
	item := testhelpers.CreateTestItem(t, app, subwork.Id, "Metalling", 200)

	m := testhelpers.CreateTestMeasurement(t, app, item.Id, "Stretch", 1, 5, 3, 0, false)
	m.Set("calculated_quantity", 999)
	m.Set("line_amount", 999)
	if err := app.Save(m); err != nil {
		t.Fatalf("failed to corrupt measurement cache: %v", err)
	}

	if err := RecalcItemTotals(app, item); err != nil {
		t.Fatalf("RecalcItemTotals returned error: %v", err)
	}

	fresh, err := app.FindRecordById("item_measurements", m.Id)
	if err != nil {
		t.Fatalf("failed to reload measurement: %v", err)
	}
	if got := fresh.GetFloat("calculated_quantity"); math.Abs(got-15) > 1e-9 {
		t.Errorf("expected calculated_quantity 15, got %v", got)
	}
	if got := fresh.GetFloat("line_amount"); math.Abs(got-3000) > 1e-9 {
		t.Errorf("expected line_amount 3000, got %v", got)
	}
}

func TestRecalcWorkTotal_SumsAcrossSubworks(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Anganwadi Building")

	swA := testhelpers.CreateTestSubwork(t, app, work.Id, "Civil Work")
	swB := testhelpers.CreateTestSubwork(t, app, work.Id, "Electrification")

	itemA := testhelpers.CreateTestItem(t, app, swA.Id, "PCC 1:4:8", 100)
	itemA.Set("total_item_amount", 4000)
	if err := app.Save(itemA); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}
	itemB := testhelpers.CreateTestItem(t, app, swB.Id, "Wiring point", 350)
	itemB.Set("total_item_amount", 1500)
	if err := app.Save(itemB); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}

	if err := RecalcWorkTotal(app, work.Id); err != nil {
		t.Fatalf("RecalcWorkTotal returned error: %v", err)
	}

	fresh, err := app.FindRecordById("works", work.Id)
	if err != nil {
		t.Fatalf("failed to reload work: %v", err)
	}
	if got := fresh.GetFloat("total_estimated_cost"); math.Abs(got-5500) > 1e-9 {
		t.Errorf("expected total_estimated_cost 5500, got %v", got)
	}
}

func TestSubworkItemsTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Culvert")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Foundation")

	first := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 80)
	first.Set("total_item_amount", 1200)
	if err := app.Save(first); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}
	second := testhelpers.CreateTestItem(t, app, sw.Id, "PCC bed", 4500)
	second.Set("total_item_amount", 2250)
	if err := app.Save(second); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}

	total, count, err := subworkItemsTotal(app, sw.Id)
	if err != nil {
		t.Fatalf("subworkItemsTotal returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 items, got %d", count)
	}
	if math.Abs(total-3450) > 1e-9 {
		t.Errorf("expected total 3450, got %v", total)
	}
}
