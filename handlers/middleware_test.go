package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"estimatecreation/templates"
	"estimatecreation/testhelpers"
)

func TestGetActiveWork_FromContext(t *testing.T) {
	expected := &templates.ActiveWork{ID: "test123", WorksID: "TS-25-26-001", Name: "Test Work"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ActiveWorkKey, expected)
	req = req.WithContext(ctx)

	got := GetActiveWork(req)
	if got == nil {
		t.Fatal("expected active work, got nil")
	}
	if got.ID != expected.ID {
		t.Errorf("expected ID %q, got %q", expected.ID, got.ID)
	}
}

func TestGetActiveWork_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetActiveWork(req)
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestGetHeaderData_FromContext(t *testing.T) {
	expected := templates.HeaderData{
		ActiveWork: &templates.ActiveWork{ID: "w1", Name: "Work"},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), HeaderDataKey, expected)
	req = req.WithContext(ctx)

	got := GetHeaderData(req)
	if got.ActiveWork == nil {
		t.Fatal("expected active work in header data")
	}
	if got.ActiveWork.ID != "w1" {
		t.Errorf("expected ID 'w1', got %q", got.ActiveWork.ID)
	}
}

func TestGetSidebarData_FromContext(t *testing.T) {
	expected := templates.SidebarData{
		ActiveWork:   &templates.ActiveWork{ID: "w1", Name: "Test"},
		ActivePath:   "/works",
		SubworkCount: 3,
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), SidebarDataKey, expected)
	req = req.WithContext(ctx)

	got := GetSidebarData(req)
	if got.ActiveWork == nil || got.ActiveWork.ID != "w1" {
		t.Error("expected active work with ID w1")
	}
	if got.SubworkCount != 3 {
		t.Errorf("expected SubworkCount 3, got %d", got.SubworkCount)
	}
}

func TestGetSidebarData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetSidebarData(req)
	if got.ActiveWork != nil {
		t.Error("expected nil active work in empty sidebar data")
	}
}

func TestActiveWorkMiddleware_WithCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Cookie MW Work")

	middleware := ActiveWorkMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_work", Value: work.Id})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	// e.Next() with no handler chain set is a no-op in PocketBase
	_ = middleware(e)

	activeWork := GetActiveWork(e.Request)
	if activeWork == nil {
		t.Fatal("expected active work in context after middleware")
	}
	if activeWork.Name != "Cookie MW Work" {
		t.Errorf("expected 'Cookie MW Work', got %q", activeWork.Name)
	}
	if activeWork.WorksID != "TS-25-26-001" {
		t.Errorf("expected works ID in context, got %q", activeWork.WorksID)
	}

	headerData := GetHeaderData(e.Request)
	if headerData.ActiveWork == nil {
		t.Error("expected active work in header data")
	}
	if len(headerData.Works) != 1 {
		t.Errorf("expected 1 work in selector, got %d", len(headerData.Works))
	}
}

func TestActiveWorkMiddleware_InvalidCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	middleware := ActiveWorkMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_work", Value: "nonexistent_id"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	_ = middleware(e)

	if got := GetActiveWork(e.Request); got != nil {
		t.Error("expected nil active work for invalid cookie")
	}
}

func TestBuildSidebarData_CountsSubworksAndItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	work := testhelpers.CreateTestWork(t, app, "Sidebar Work")
	subwork := testhelpers.CreateTestSubwork(t, app, work.Id, "CC Road")
	testhelpers.CreateTestItem(t, app, subwork.Id, "Excavation", 100)
	testhelpers.CreateTestItem(t, app, subwork.Id, "Concrete", 5000)

	req := httptest.NewRequest(http.MethodGet, "/works", nil)
	ctx := context.WithValue(req.Context(), ActiveWorkKey,
		&templates.ActiveWork{ID: work.Id, WorksID: "TS-25-26-001", Name: "Sidebar Work"})
	req = req.WithContext(ctx)

	data := BuildSidebarData(req, app)
	if data.SubworkCount != 1 {
		t.Errorf("expected 1 subwork, got %d", data.SubworkCount)
	}
	if data.ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", data.ItemCount)
	}
	if data.ActivePath != "/works" {
		t.Errorf("expected active path '/works', got %q", data.ActivePath)
	}
}
