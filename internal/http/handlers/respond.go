// Package handlers contains the HTTP handlers behind the widget, my-bookings
// and page-chrome endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anasteisha/salon-booking/internal/salonapi"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError surfaces the salon API's detail message verbatim behind
// a 502; transport-level failures get a generic message.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *salonapi.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusBadGateway, apiErr.Detail)
		return
	}
	writeError(w, http.StatusBadGateway, "salon service is unavailable, please try again")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// visitorID identifies the browser across visits; the widget sends it in a
// header, page links may carry it as a query parameter. Empty is fine.
func visitorID(r *http.Request) string {
	if id := r.Header.Get("X-Visitor-Id"); id != "" {
		return id
	}
	return r.URL.Query().Get("visitor_id")
}
