package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"estimatecreation/testhelpers"
)

func TestHandleRecapView_ComputesTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Construction of Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Civil Work")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Brickwork", 50)
	item.Set("total_item_amount", 10000)
	if err := app.Save(item); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/works/"+work.Id+"/recap", nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRecapView(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	// Part B 10,000 + 0.5% contingencies + 0.5% inspection + 5% DPR = 10,600
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Gross Total Estimated Amount",
		"₹10,600.00",
		"Amount in Words:",
	)
}

func TestHandleRecapView_AppliesEnabledTaxes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Construction of Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Civil Work")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Brickwork", 50)
	item.Set("total_item_amount", 10000)
	if err := app.Save(item); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}
	testhelpers.CreateTestTax(t, app, work.Id, "GST", 18, "both")

	req := httptest.NewRequest(http.MethodGet, "/works/"+work.Id+"/recap", nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRecapView(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	// 18% GST on the 10,000 Part B subtotal
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"GST",
		"₹1,800.00",
	)
}

func TestHandleRecapSave_UpdatesTaxAndPersistsSnapshot(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Construction of Compound Wall")
	sw := testhelpers.CreateTestSubwork(t, app, work.Id, "Civil Work")
	item := testhelpers.CreateTestItem(t, app, sw.Id, "Brickwork", 50)
	item.Set("total_item_amount", 10000)
	if err := app.Save(item); err != nil {
		t.Fatalf("failed to save item: %v", err)
	}
	tax := testhelpers.CreateTestTax(t, app, work.Id, "GST", 18, "both")

	form := url.Values{}
	form.Set("enabled_"+tax.Id, "true")
	form.Set("name_"+tax.Id, "GST")
	form.Set("percentage_"+tax.Id, "12")
	form.Set("apply_to_"+tax.Id, "part_b")
	form.Set("unit_"+sw.Id, "2")

	req := httptest.NewRequest(http.MethodPost, "/works/"+work.Id+"/recap/taxes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRecapSave(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	freshTax, err := app.FindRecordById("recap_taxes", tax.Id)
	if err != nil {
		t.Fatalf("failed to reload tax: %v", err)
	}
	if got := freshTax.GetFloat("percentage"); got != 12 {
		t.Errorf("expected percentage 12, got %v", got)
	}
	if got := freshTax.GetString("apply_to"); got != "part_b" {
		t.Errorf("expected apply_to part_b, got %q", got)
	}

	freshSw, err := app.FindRecordById("subworks", sw.Id)
	if err != nil {
		t.Fatalf("failed to reload subwork: %v", err)
	}
	if got := freshSw.GetFloat("unit"); got != 2 {
		t.Errorf("expected unit multiplier 2, got %v", got)
	}

	freshWork, err := app.FindRecordById("works", work.Id)
	if err != nil {
		t.Fatalf("failed to reload work: %v", err)
	}
	if freshWork.GetString("recap_json") == "" {
		t.Error("expected recap_json snapshot to be persisted")
	}
}

func TestHandleRecapSave_DisablesTax(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Construction of Compound Wall")
	tax := testhelpers.CreateTestTax(t, app, work.Id, "GST", 18, "both")

	// Checkbox absent from the form means the tax is switched off
	form := url.Values{}
	form.Set("name_"+tax.Id, "GST")

	req := httptest.NewRequest(http.MethodPost, "/works/"+work.Id+"/recap/taxes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRecapSave(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	freshTax, err := app.FindRecordById("recap_taxes", tax.Id)
	if err != nil {
		t.Fatalf("failed to reload tax: %v", err)
	}
	if freshTax.GetBool("enabled") {
		t.Error("expected tax to be disabled when the checkbox is absent")
	}
}

func TestHandleRecapSave_RejectsNegativePercentage(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Construction of Compound Wall")
	tax := testhelpers.CreateTestTax(t, app, work.Id, "GST", 18, "both")

	form := url.Values{}
	form.Set("enabled_"+tax.Id, "true")
	form.Set("percentage_"+tax.Id, "-5")

	req := httptest.NewRequest(http.MethodPost, "/works/"+work.Id+"/recap/taxes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", work.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRecapSave(app)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	freshTax, err := app.FindRecordById("recap_taxes", tax.Id)
	if err != nil {
		t.Fatalf("failed to reload tax: %v", err)
	}
	if got := freshTax.GetFloat("percentage"); got != 18 {
		t.Errorf("expected percentage untouched at 18, got %v", got)
	}
}
