package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/templates"
)

type contextKey string

const ActiveWorkKey contextKey = "activeWork"
const HeaderDataKey contextKey = "headerData"
const SidebarDataKey contextKey = "sidebarData"

// GetActiveWork extracts the active work from the request context.
func GetActiveWork(r *http.Request) *templates.ActiveWork {
	if val, ok := r.Context().Value(ActiveWorkKey).(*templates.ActiveWork); ok {
		return val
	}
	return nil
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{}
}

// ActiveWorkMiddleware reads the "active_work" cookie, loads the work record,
// builds HeaderData with the full work list, and stores both in the request
// context so handlers and templates can use them.
func ActiveWorkMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var activeWork *templates.ActiveWork

		cookie, err := e.Request.Cookie("active_work")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("works", cookie.Value)
			if err == nil {
				activeWork = &templates.ActiveWork{
					ID:      rec.Id,
					WorksID: rec.GetString("works_id"),
					Name:    rec.GetString("work_name"),
				}
			} else {
				log.Printf("middleware: active work %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_work",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		// Build full work list for the header dropdown
		worksCol, _ := app.FindCollectionByNameOrId("works")
		var selectorItems []templates.WorkSelectorItem
		if worksCol != nil {
			records, _ := app.FindAllRecords(worksCol)
			for _, rec := range records {
				isActive := activeWork != nil && rec.Id == activeWork.ID
				selectorItems = append(selectorItems, templates.WorkSelectorItem{
					ID:       rec.Id,
					WorksID:  rec.GetString("works_id"),
					Name:     rec.GetString("work_name"),
					IsActive: isActive,
				})
			}
		}

		headerData := templates.HeaderData{
			ActiveWork: activeWork,
			Works:      selectorItems,
		}

		ctx := context.WithValue(e.Request.Context(), ActiveWorkKey, activeWork)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		// Sidebar data needs the active work in context first
		sidebarData := BuildSidebarData(e.Request, app)
		ctx = context.WithValue(e.Request.Context(), SidebarDataKey, sidebarData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
