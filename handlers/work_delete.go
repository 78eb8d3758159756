package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleWorkDelete removes a work. Subworks, items, measurements and recap
// taxes go with it through cascade deletes on their relation fields.
// Route: DELETE /works/{id}
func HandleWorkDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("works", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Work not found")
		}

		worksID := rec.GetString("works_id")
		if err := app.Delete(rec); err != nil {
			log.Printf("work_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// Clear the active-work cookie if it pointed at the deleted work
		if active := GetActiveWork(e.Request); active != nil && active.ID == rec.Id {
			http.SetCookie(e.Response, &http.Cookie{
				Name:   "active_work",
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
		}

		SetToast(e, "success", "Work "+worksID+" deleted")
		return e.String(http.StatusOK, "")
	}
}
