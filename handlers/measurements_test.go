package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"estimatecreation/testhelpers"
)

func TestHandleMeasurementAdd_RecomputesItemAndWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation in hard soil", 100)

	form := url.Values{}
	form.Set("description_of_items", "Trench")
	form.Set("no_of_units", "1")
	form.Set("length", "2.5")
	form.Set("width_breadth", "4")
	form.Set("height_depth", "2")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementAdd(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	freshItem, err := app.FindRecordById("subwork_items", item.Id)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if got := freshItem.GetFloat("ssr_quantity"); math.Abs(got-20) > 1e-9 {
		t.Errorf("expected ssr_quantity 20, got %v", got)
	}
	if got := freshItem.GetFloat("total_item_amount"); math.Abs(got-2000) > 1e-9 {
		t.Errorf("expected total_item_amount 2000, got %v", got)
	}

	freshWork, err := app.FindRecordById("works", work.Id)
	if err != nil {
		t.Fatalf("failed to reload work: %v", err)
	}
	if got := freshWork.GetFloat("total_estimated_cost"); math.Abs(got-2000) > 1e-9 {
		t.Errorf("expected total_estimated_cost 2000, got %v", got)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "measurements-section", "Trench")
}

func TestHandleMeasurementAdd_RejectsNonNumericDimension(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 100)

	form := url.Values{}
	form.Set("description_of_items", "Bad entry")
	form.Set("length", "abc")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementAdd(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	measurements, err := app.FindAllRecords("item_measurements")
	if err != nil {
		t.Fatalf("failed to load measurements: %v", err)
	}
	if len(measurements) != 0 {
		t.Errorf("expected no measurement to be created, got %d", len(measurements))
	}
}

func TestHandleMeasurementAdd_ManualQuantityRequiresValue(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 100)

	form := url.Values{}
	form.Set("description_of_items", "Lump sum")
	form.Set("is_manual_quantity", "true")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementAdd(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for manual quantity without value, got %d", rec.Code)
	}
}

func TestHandleMeasurementAdd_DeductionReducesTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "School Building")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Masonry")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Brickwork", 50)
	testhelpers.CreateTestMeasurement(t, app, item.Id, "Wall", 1, 10, 0, 3, false)

	form := url.Values{}
	form.Set("description_of_items", "Door opening")
	form.Set("length", "1.2")
	form.Set("height_depth", "2.1")
	form.Set("is_deduction", "true")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementAdd(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	freshItem, err := app.FindRecordById("subwork_items", item.Id)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	wantQty := 30.0 - 2.52
	if got := freshItem.GetFloat("ssr_quantity"); math.Abs(got-wantQty) > 1e-9 {
		t.Errorf("expected ssr_quantity %v, got %v", wantQty, got)
	}
}

func TestHandleMeasurementUpdate_RecomputesItemAndWork(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation in hard soil", 100)
	m := testhelpers.CreateTestMeasurement(t, app, item.Id, "Trench", 1, 2.5, 4, 2, false)

	if err := RecalcItemTotals(app, item); err != nil {
		t.Fatalf("RecalcItemTotals returned error: %v", err)
	}
	if err := RecalcWorkTotal(app, work.Id); err != nil {
		t.Fatalf("RecalcWorkTotal returned error: %v", err)
	}

	form := url.Values{}
	form.Set("description_of_items", "Trench revised")
	form.Set("no_of_units", "2")
	form.Set("length", "5")
	form.Set("width_breadth", "3")
	form.Set("height_depth", "1")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements/"+m.Id+"/save",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	req.SetPathValue("id", m.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	fresh, err := app.FindRecordById("item_measurements", m.Id)
	if err != nil {
		t.Fatalf("failed to reload measurement: %v", err)
	}
	if got := fresh.GetString("description_of_items"); got != "Trench revised" {
		t.Errorf("expected updated description, got %q", got)
	}
	if got := fresh.GetFloat("calculated_quantity"); math.Abs(got-30) > 1e-9 {
		t.Errorf("expected calculated_quantity 30, got %v", got)
	}

	freshItem, err := app.FindRecordById("subwork_items", item.Id)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if got := freshItem.GetFloat("ssr_quantity"); math.Abs(got-30) > 1e-9 {
		t.Errorf("expected ssr_quantity 30, got %v", got)
	}
	if got := freshItem.GetFloat("total_item_amount"); math.Abs(got-3000) > 1e-9 {
		t.Errorf("expected total_item_amount 3000, got %v", got)
	}

	freshWork, err := app.FindRecordById("works", work.Id)
	if err != nil {
		t.Fatalf("failed to reload work: %v", err)
	}
	if got := freshWork.GetFloat("total_estimated_cost"); math.Abs(got-3000) > 1e-9 {
		t.Errorf("expected total_estimated_cost 3000, got %v", got)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "measurements-section", "Trench revised")
}

func TestHandleMeasurementUpdate_RejectsNonNumericDimension(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 100)
	m := testhelpers.CreateTestMeasurement(t, app, item.Id, "Trench", 1, 2.5, 4, 2, false)

	form := url.Values{}
	form.Set("description_of_items", "Bad edit")
	form.Set("length", "abc")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements/"+m.Id+"/save",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	req.SetPathValue("id", m.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	fresh, err := app.FindRecordById("item_measurements", m.Id)
	if err != nil {
		t.Fatalf("failed to reload measurement: %v", err)
	}
	if got := fresh.GetString("description_of_items"); got != "Trench" {
		t.Errorf("expected original description to survive, got %q", got)
	}
}

func TestHandleMeasurementUpdate_WrongItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	itemA := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 100)
	itemB := testhelpers.CreateTestItem(t, app, sw.Id, "Backfilling", 40)
	m := testhelpers.CreateTestMeasurement(t, app, itemA.Id, "Trench", 1, 2, 2, 2, false)

	form := url.Values{}
	form.Set("description_of_items", "Hijacked")
	form.Set("length", "9")

	req := httptest.NewRequest(http.MethodPost,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+itemB.Id+"/measurements/"+m.Id+"/save",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", itemB.Id)
	req.SetPathValue("id", m.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementUpdate(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for measurement under another item, got %d", rec.Code)
	}

	fresh, err := app.FindRecordById("item_measurements", m.Id)
	if err != nil {
		t.Fatalf("failed to reload measurement: %v", err)
	}
	if got := fresh.GetString("description_of_items"); got != "Trench" {
		t.Errorf("expected measurement to be untouched, got %q", got)
	}
}

func TestHandleMeasurementDelete_Recomputes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 100)
	m := testhelpers.CreateTestMeasurement(t, app, item.Id, "Trench", 1, 2.5, 4, 2, false)

	if err := RecalcItemTotals(app, item); err != nil {
		t.Fatalf("RecalcItemTotals returned error: %v", err)
	}
	if err := RecalcWorkTotal(app, work.Id); err != nil {
		t.Fatalf("RecalcWorkTotal returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+item.Id+"/measurements/"+m.Id, nil)
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", item.Id)
	req.SetPathValue("id", m.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementDelete(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	freshItem, err := app.FindRecordById("subwork_items", item.Id)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if got := freshItem.GetFloat("ssr_quantity"); got != 0 {
		t.Errorf("expected ssr_quantity 0 after delete, got %v", got)
	}

	freshWork, err := app.FindRecordById("works", work.Id)
	if err != nil {
		t.Fatalf("failed to reload work: %v", err)
	}
	if got := freshWork.GetFloat("total_estimated_cost"); got != 0 {
		t.Errorf("expected total_estimated_cost 0 after delete, got %v", got)
	}
}

func TestHandleMeasurementDelete_WrongItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Earthwork")
	itemA := testhelpers.CreateTestItem(t, app, sw.Id, "Excavation", 100)
	itemB := testhelpers.CreateTestItem(t, app, sw.Id, "Backfilling", 40)
	m := testhelpers.CreateTestMeasurement(t, app, itemA.Id, "Trench", 1, 2, 2, 2, false)

	req := httptest.NewRequest(http.MethodDelete,
		"/works/"+work.Id+"/subworks/"+sw.Id+"/items/"+itemB.Id+"/measurements/"+m.Id, nil)
	req.SetPathValue("workId", work.Id)
	req.SetPathValue("subworkId", sw.Id)
	req.SetPathValue("itemId", itemB.Id)
	req.SetPathValue("id", m.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleMeasurementDelete(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for measurement under another item, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("item_measurements", m.Id); err != nil {
		t.Error("expected measurement to survive")
	}
}
