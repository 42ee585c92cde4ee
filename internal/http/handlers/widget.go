package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anasteisha/salon-booking/internal/booking"
	"github.com/anasteisha/salon-booking/internal/calendar"
	"github.com/anasteisha/salon-booking/internal/catalog"
	"github.com/anasteisha/salon-booking/internal/observability/metrics"
	"github.com/anasteisha/salon-booking/internal/prefs"
	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/internal/session"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// ScheduleAPI fetches day availability for the widget's calendar step.
type ScheduleAPI interface {
	DaySchedule(ctx context.Context, date string, serviceID int) (*salonapi.DaySchedule, error)
}

// WidgetHandler drives the booking widget sessions.
type WidgetHandler struct {
	registry    *session.Registry
	catalog     *catalog.Loader
	schedules   ScheduleAPI
	submitter   *booking.Submitter
	prefs       prefs.Store
	metrics     *metrics.BookingMetrics
	logger      *logging.Logger
	horizonDays int
	now         func() time.Time
}

// NewWidgetHandler creates the widget handler.
func NewWidgetHandler(
	registry *session.Registry,
	loader *catalog.Loader,
	schedules ScheduleAPI,
	submitter *booking.Submitter,
	store prefs.Store,
	m *metrics.BookingMetrics,
	horizonDays int,
	logger *logging.Logger,
) *WidgetHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WidgetHandler{
		registry:    registry,
		catalog:     loader,
		schedules:   schedules,
		submitter:   submitter,
		prefs:       store,
		metrics:     m,
		logger:      logger.WithComponent("widget"),
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

type sessionSnapshot struct {
	SessionID  string            `json:"session_id"`
	Variant    string            `json:"variant"`
	Step       int               `json:"step"`
	TotalSteps int               `json:"total_steps"`
	Service    *salonapi.Service `json:"service,omitempty"`
	Date       string            `json:"date,omitempty"`
	Time       string            `json:"time,omitempty"`
	Submitted  bool              `json:"submitted"`
}

func snapshot(s *session.Session) sessionSnapshot {
	var snap sessionSnapshot
	_ = s.WithFlow(func(f *booking.Flow) error {
		snap = sessionSnapshot{
			SessionID:  s.ID,
			Variant:    string(f.Variant),
			Step:       f.Step,
			TotalSteps: f.TotalSteps(),
			Service:    f.Service,
			Date:       f.Date,
			Time:       f.Time,
			Submitted:  f.Submitted,
		}
		return nil
	})
	return snap
}

// CreateSession starts a widget session and returns everything step 1 needs.
func (h *WidgetHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variant   string `json:"variant"`
		VisitorID string `json:"visitor_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = visitorID(r)
	}

	s, err := h.registry.Create(booking.Variant(req.Variant), req.VisitorID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "variant must be \"appointment\" or \"request\"")
		return
	}
	h.metrics.ObserveSessionStarted(req.Variant)

	resp := struct {
		sessionSnapshot
		Services   []catalog.Service `json:"services"`
		ClientName string            `json:"client_name,omitempty"`
	}{
		sessionSnapshot: snapshot(s),
		Services:        h.catalog.Load(r.Context()),
	}

	// Welcome-back banner data for returning clients.
	if req.VisitorID != "" && h.prefs != nil {
		if p, err := h.prefs.Profile(r.Context(), req.VisitorID); err == nil && p != nil {
			resp.ClientName = p.Name
		}
	}

	writeJSON(w, http.StatusCreated, resp)
}

// GetSession returns the current state snapshot.
func (h *WidgetHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshot(s))
}

// SelectService stores the chosen service and auto-advances from step 1.
func (h *WidgetHandler) SelectService(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ServiceID int `json:"service_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	svc := catalog.Find(h.catalog.Load(r.Context()), req.ServiceID)
	if svc == nil {
		writeError(w, http.StatusNotFound, "unknown service")
		return
	}

	if err := s.WithFlow(func(f *booking.Flow) error { return f.SelectService(*svc) }); err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(s))
}

// Calendar returns the month grid for the current month.
func (h *WidgetHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, calendar.Month(h.now(), h.horizonDays))
}

// SelectDate sets the date and returns the day's bucketed slots. When the
// schedule cannot be fetched the session is left untouched so the visitor
// can retry the same day.
func (h *WidgetHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !calendar.Selectable(req.Date, h.now(), h.horizonDays) {
		writeError(w, http.StatusUnprocessableEntity, "date is not available for booking")
		return
	}

	var serviceID int
	err := s.WithFlow(func(f *booking.Flow) error {
		if f.Variant != booking.VariantAppointment {
			return booking.ErrWrongStep
		}
		if f.Service == nil {
			return booking.ErrServiceRequired
		}
		serviceID = f.Service.ID
		return nil
	})
	if err != nil {
		h.writeFlowError(w, err)
		return
	}

	start := time.Now()
	schedule, err := h.schedules.DaySchedule(r.Context(), req.Date, serviceID)
	h.metrics.ObserveUpstreamLatency("day_schedule", time.Since(start).Seconds())
	if err != nil {
		h.logger.Warn("failed to load day schedule", "date", req.Date, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not load available times, please try again")
		return
	}

	if err := s.WithFlow(func(f *booking.Flow) error { return f.SelectDate(req.Date) }); err != nil {
		h.writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		sessionSnapshot
		Schedule calendar.ScheduleView `json:"schedule"`
	}{snapshot(s), calendar.View(schedule)})
}

// SelectTime sets the slot time.
func (h *WidgetHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Time string `json:"time"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.WithFlow(func(f *booking.Flow) error { return f.SelectTime(req.Time) }); err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(s))
}

// Advance moves the wizard forward when the current step validates.
func (h *WidgetHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.WithFlow(func(f *booking.Flow) error { return f.Advance() }); err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(s))
}

// Back moves the wizard one step towards the start, keeping selections.
func (h *WidgetHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.WithFlow(func(f *booking.Flow) error { return f.Back() }); err != nil {
		h.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(s))
}

// Submit performs the terminal step. A successful submission ends the
// session; a failed appointment submission keeps it open for a retry.
func (h *WidgetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var sub booking.Submission
	if !decodeJSON(w, r, &sub) {
		return
	}

	visitor := s.VisitorID
	if visitor == "" {
		visitor = visitorID(r)
	}

	var (
		conf    *booking.Confirmation
		variant string
	)
	err := s.WithFlow(func(f *booking.Flow) error {
		variant = string(f.Variant)
		var err error
		conf, err = h.submitter.Submit(r.Context(), f, sub, visitor)
		return err
	})
	if err != nil {
		h.metrics.ObserveSubmission(variant, "error")
		h.writeFlowError(w, err)
		return
	}

	status := "ok"
	if conf.AppointmentID == 0 && conf.RequestID == 0 {
		status = "soft_fail"
	}
	h.metrics.ObserveSubmission(variant, status)

	h.registry.Remove(s.ID)
	writeJSON(w, http.StatusOK, conf)
}

func (h *WidgetHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return nil, false
	}
	return s, true
}

func (h *WidgetHandler) writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrContactRequired),
		errors.Is(err, booking.ErrBadPreference):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrServiceRequired),
		errors.Is(err, booking.ErrDateTimeRequired),
		errors.Is(err, booking.ErrWrongStep),
		errors.Is(err, booking.ErrAlreadyDone):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeUpstreamError(w, err)
	}
}
