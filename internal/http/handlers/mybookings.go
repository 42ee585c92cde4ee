package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anasteisha/salon-booking/internal/mybookings"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// MyBookingsHandler serves the appointment self-service page.
type MyBookingsHandler struct {
	manager *mybookings.Manager
	logger  *logging.Logger
}

// NewMyBookingsHandler creates the self-service handler.
func NewMyBookingsHandler(manager *mybookings.Manager, logger *logging.Logger) *MyBookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &MyBookingsHandler{manager: manager, logger: logger.WithComponent("mybookings")}
}

// Search looks up appointments by phone, partitioned upcoming/past.
func (h *MyBookingsHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.manager.Search(r.Context(), r.URL.Query().Get("phone"), visitorID(r))
	if err != nil {
		if errors.Is(err, mybookings.ErrPhoneTooShort) {
			writeError(w, http.StatusUnprocessableEntity, "enter the full phone number")
			return
		}
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Cancel cancels one appointment.
func (h *MyBookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}
	var req struct {
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.manager.Cancel(r.Context(), id, req.Phone); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Reschedule moves one appointment to a new date and time.
func (h *MyBookingsHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.appointmentID(w, r)
	if !ok {
		return
	}
	var req struct {
		Phone   string `json:"phone"`
		NewDate string `json:"new_date"`
		NewTime string `json:"new_time"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewDate == "" || req.NewTime == "" {
		writeError(w, http.StatusUnprocessableEntity, "new date and time are required")
		return
	}
	if err := h.manager.Reschedule(r.Context(), id, req.Phone, req.NewDate, req.NewTime); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rescheduled"})
}

// Schedule returns the bucketed slots for a date, for the reschedule picker.
func (h *MyBookingsHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.ScheduleFor(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *MyBookingsHandler) appointmentID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return 0, false
	}
	return id, true
}
