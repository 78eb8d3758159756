package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleWorkActivate sets the active work cookie and returns a full page
// redirect via HX-Redirect so the entire shell (header + sidebar) re-renders.
// Route: POST /works/{id}/activate
func HandleWorkActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		workID := e.Request.PathValue("id")

		rec, err := app.FindRecordById("works", workID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		// 30-day expiry, HttpOnly
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_work",
			Value:    workID,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, "success", "Work "+rec.GetString("works_id")+" activated")

		e.Response.Header().Set("HX-Redirect", "/works/"+workID)
		return e.String(200, "OK")
	}
}

// HandleWorkDeactivate clears the active work cookie and redirects to /works.
// Route: POST /works/deactivate
func HandleWorkDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		http.SetCookie(e.Response, &http.Cookie{
			Name:   "active_work",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		SetToast(e, "success", "Work deactivated")

		e.Response.Header().Set("HX-Redirect", "/works")
		return e.String(200, "OK")
	}
}
