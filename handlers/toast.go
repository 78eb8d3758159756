package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

const flashToastCookie = "flash_toast"

// SetToast queues a showToast event on the response. For HTMX requests the
// event rides the HX-Trigger header, merged into any triggers a handler
// already queued; a short-lived flash cookie carries the same payload across
// full-page redirects, where response headers are lost.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	triggers := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			log.Printf("toast: discarding malformed HX-Trigger %q: %v", existing, err)
			triggers = map[string]any{}
		}
	}
	triggers["showToast"] = payload

	if data, err := json.Marshal(triggers); err != nil {
		log.Printf("toast: marshal HX-Trigger: %v", err)
	} else {
		e.Response.Header().Set("HX-Trigger", string(data))
	}

	if cookieVal, err := json.Marshal(payload); err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     flashToastCookie,
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // replayed by static/js/toast.js
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast reports a failure as a toast without letting HTMX swap the raw
// error text into the page: HX-Reswap none discards the body while the
// HX-Trigger event still fires.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
