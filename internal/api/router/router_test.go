package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anasteisha/salon-booking/internal/booking"
	"github.com/anasteisha/salon-booking/internal/calendar"
	"github.com/anasteisha/salon-booking/internal/catalog"
	"github.com/anasteisha/salon-booking/internal/http/handlers"
	"github.com/anasteisha/salon-booking/internal/mybookings"
	"github.com/anasteisha/salon-booking/internal/observability/metrics"
	"github.com/anasteisha/salon-booking/internal/prefs"
	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/internal/session"
)

type stubSalonAPI struct {
	services    []salonapi.Service
	servicesErr error

	schedule    *salonapi.DaySchedule
	scheduleErr error

	appointmentID  int
	appointmentErr error
	bookingID      int
	bookingErr     error
	bookings       []salonapi.BookingRequest

	appointments []salonapi.Appointment
	cancelled    []int
	rescheduled  []int

	reviews    []salonapi.Review
	reviewsErr error
	submitted  []string
}

func (s *stubSalonAPI) Services(context.Context) ([]salonapi.Service, error) {
	return s.services, s.servicesErr
}

func (s *stubSalonAPI) DaySchedule(_ context.Context, _ string, _ int) (*salonapi.DaySchedule, error) {
	return s.schedule, s.scheduleErr
}

func (s *stubSalonAPI) CreateAppointment(_ context.Context, _ salonapi.CreateAppointmentRequest) (*salonapi.CreateAppointmentResponse, error) {
	if s.appointmentErr != nil {
		return nil, s.appointmentErr
	}
	return &salonapi.CreateAppointmentResponse{ID: s.appointmentID}, nil
}

func (s *stubSalonAPI) CreateBookingRequest(_ context.Context, req salonapi.BookingRequest) (*salonapi.BookingRequestResponse, error) {
	s.bookings = append(s.bookings, req)
	if s.bookingErr != nil {
		return nil, s.bookingErr
	}
	return &salonapi.BookingRequestResponse{ID: s.bookingID}, nil
}

func (s *stubSalonAPI) MyAppointments(context.Context, string) ([]salonapi.Appointment, error) {
	return s.appointments, nil
}

func (s *stubSalonAPI) CancelAppointment(_ context.Context, id int, _ string) error {
	s.cancelled = append(s.cancelled, id)
	return nil
}

func (s *stubSalonAPI) RescheduleAppointment(_ context.Context, id int, _, _, _ string) error {
	s.rescheduled = append(s.rescheduled, id)
	return nil
}

func (s *stubSalonAPI) Reviews(context.Context) ([]salonapi.Review, error) {
	return s.reviews, s.reviewsErr
}

func (s *stubSalonAPI) SubmitReview(context.Context, salonapi.ReviewSubmission) error {
	s.submitted = append(s.submitted, "review")
	return nil
}

func (s *stubSalonAPI) SubmitConsultation(context.Context, salonapi.ConsultationRequest) error {
	s.submitted = append(s.submitted, "consultation")
	return nil
}

func (s *stubSalonAPI) SubmitSupport(context.Context, salonapi.SupportRequest) error {
	s.submitted = append(s.submitted, "support")
	return nil
}

func (s *stubSalonAPI) SubmitProblem(context.Context, salonapi.ProblemReport) error {
	s.submitted = append(s.submitted, "problem")
	return nil
}

func (s *stubSalonAPI) SubmitContactBooking(context.Context, salonapi.ContactBooking) error {
	s.submitted = append(s.submitted, "contact-booking")
	return nil
}

type testEnv struct {
	handler http.Handler
	api     *stubSalonAPI
	store   *prefs.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := &stubSalonAPI{
		services: []salonapi.Service{
			{ID: 1, Name: "Маникюр", Price: 1500, DurationMinutes: 60, Category: "nails"},
			{ID: 2, Name: "Педикюр", Price: 2000, DurationMinutes: 90, Category: "nails"},
		},
		schedule: &salonapi.DaySchedule{
			IsWorkingDay: true,
			Slots: []salonapi.Slot{
				{Time: "10:00", Available: true},
				{Time: "14:00", Available: true},
				{Time: "18:00", Available: false},
			},
		},
		appointmentID: 77,
		bookingID:     8,
	}
	store := prefs.NewMemoryStore()
	registry := session.NewRegistry(30*time.Minute, nil)
	loader := catalog.NewLoader(api, nil)
	m := metrics.NewBookingMetrics(prometheus.NewRegistry(), func() float64 {
		return float64(registry.Len())
	})

	handler := New(&Config{
		Widget: handlers.NewWidgetHandler(
			registry, loader, api, booking.NewSubmitter(api, store, nil),
			store, m, 30, nil,
		),
		MyBookings:     handlers.NewMyBookingsHandler(mybookings.NewManager(api, store, 0, nil), nil),
		Pages:          handlers.NewPagesHandler(api, loader, nil),
		Prefs:          handlers.NewPrefsHandler(store, nil),
		MetricsHandler: http.NotFoundHandler(),
	})

	return &testEnv{handler: handler, api: api, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(calendar.DateFormat)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestWidget_FullAppointmentFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{
		"variant": "appointment", "visitor_id": "v-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[struct {
		SessionID  string            `json:"session_id"`
		Step       int               `json:"step"`
		TotalSteps int               `json:"total_steps"`
		Services   []salonapi.Service `json:"services"`
	}](t, rec)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, 1, created.Step)
	assert.Equal(t, 3, created.TotalSteps)
	require.Len(t, created.Services, 2)
	assert.NotEmpty(t, created.Services[0].Description, "catalog is enriched")

	base := "/widget/sessions/" + created.SessionID

	rec = env.do(t, http.MethodPost, base+"/service", map[string]int{"service_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(2), snap["step"], "service selection auto-advances")

	rec = env.do(t, http.MethodGet, base+"/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grid := decodeBody[calendar.Grid](t, rec)
	assert.NotEmpty(t, grid.Days)

	rec = env.do(t, http.MethodPost, base+"/date", map[string]string{"date": tomorrow()})
	require.Equal(t, http.StatusOK, rec.Code)
	dateResp := decodeBody[struct {
		Date     string                `json:"date"`
		Time     string                `json:"time"`
		Schedule calendar.ScheduleView `json:"schedule"`
	}](t, rec)
	assert.Equal(t, tomorrow(), dateResp.Date)
	assert.Equal(t, calendar.ScheduleSlots, dateResp.Schedule.Kind)
	require.Len(t, dateResp.Schedule.Buckets, 2, "unavailable slots are hidden")

	rec = env.do(t, http.MethodPost, base+"/time", map[string]string{"time": "14:00"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(3), snap["step"])

	rec = env.do(t, http.MethodPost, base+"/submit", map[string]any{
		"name": "Анна", "phone": "89001234567", "remember": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	conf := decodeBody[booking.Confirmation](t, rec)
	assert.Equal(t, 77, conf.AppointmentID)
	assert.Equal(t, "Маникюр", conf.ServiceName)
	assert.Equal(t, 1500, conf.Price)
	assert.Equal(t, "14:00", conf.Time)

	// A successful submission ends the session.
	rec = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Remembered profile is now available.
	p, err := env.store.Profile(context.Background(), "v-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "79001234567", p.Phone)
}

func TestWidget_WelcomeBackName(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.SaveProfile(context.Background(), "v-2", prefs.Profile{Name: "Ольга", Phone: "79000000000"}))

	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{
		"variant": "request", "visitor_id": "v-2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Ольга", created["client_name"])
}

func TestWidget_UnknownVariant(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{"variant": "walk-in"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWidget_AdvanceGated(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{"variant": "appointment"})
	created := decodeBody[map[string]any](t, rec)
	base := fmt.Sprintf("/widget/sessions/%v", created["session_id"])

	for i := 0; i < 3; i++ {
		rec = env.do(t, http.MethodPost, base+"/advance", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	}

	rec = env.do(t, http.MethodGet, base, nil)
	snap := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(1), snap["step"], "failed advances leave the step unchanged")
}

func TestWidget_ScheduleUnavailableLeavesSessionUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.api.scheduleErr = errors.New("timeout")

	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{"variant": "appointment"})
	created := decodeBody[map[string]any](t, rec)
	base := fmt.Sprintf("/widget/sessions/%v", created["session_id"])

	env.do(t, http.MethodPost, base+"/service", map[string]int{"service_id": 1})
	rec = env.do(t, http.MethodPost, base+"/date", map[string]string{"date": tomorrow()})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodGet, base, nil)
	snap := decodeBody[map[string]any](t, rec)
	assert.Nil(t, snap["date"], "date is not stored when slots cannot be shown")
}

func TestWidget_DateOutsideHorizon(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{"variant": "appointment"})
	created := decodeBody[map[string]any](t, rec)
	base := fmt.Sprintf("/widget/sessions/%v", created["session_id"])

	env.do(t, http.MethodPost, base+"/service", map[string]int{"service_id": 1})
	farOut := time.Now().AddDate(0, 0, 60).Format(calendar.DateFormat)
	rec = env.do(t, http.MethodPost, base+"/date", map[string]string{"date": farOut})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWidget_RequestVariantSoftSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.api.bookingErr = errors.New("upstream down")

	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{
		"variant": "request", "visitor_id": "v-3",
	})
	created := decodeBody[map[string]any](t, rec)
	base := fmt.Sprintf("/widget/sessions/%v", created["session_id"])

	env.do(t, http.MethodPost, base+"/service", map[string]int{"service_id": 2})
	rec = env.do(t, http.MethodPost, base+"/submit", map[string]any{
		"name": "Мария", "phone": "89005556677", "time_preference": "evening",
	})
	require.Equal(t, http.StatusOK, rec.Code, "request variant confirms despite upstream failure")
	conf := decodeBody[booking.Confirmation](t, rec)
	assert.Equal(t, "Педикюр", conf.ServiceName)
	assert.Zero(t, conf.RequestID)
	require.Len(t, env.api.bookings, 1)

	p, err := env.store.Profile(context.Background(), "v-3")
	require.NoError(t, err)
	require.NotNil(t, p, "request variant always remembers the client")
}

func TestWidget_SubmitAppointmentFailureIsRetryable(t *testing.T) {
	env := newTestEnv(t)
	env.api.appointmentErr = &salonapi.APIError{StatusCode: 409, Detail: "Это время уже занято"}

	rec := env.do(t, http.MethodPost, "/widget/sessions", map[string]string{"variant": "appointment"})
	created := decodeBody[map[string]any](t, rec)
	base := fmt.Sprintf("/widget/sessions/%v", created["session_id"])

	env.do(t, http.MethodPost, base+"/service", map[string]int{"service_id": 1})
	env.do(t, http.MethodPost, base+"/date", map[string]string{"date": tomorrow()})
	env.do(t, http.MethodPost, base+"/time", map[string]string{"time": "10:00"})
	env.do(t, http.MethodPost, base+"/advance", nil)

	rec = env.do(t, http.MethodPost, base+"/submit", map[string]any{
		"name": "Анна", "phone": "89001234567",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Это время уже занято", body["error"], "upstream detail surfaced verbatim")

	// Session survives for a retry.
	rec = env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, snap["submitted"])
}

func TestMyBookings_Search(t *testing.T) {
	env := newTestEnv(t)
	futureDate := time.Now().AddDate(0, 0, 5).Format(calendar.DateFormat)
	env.api.appointments = []salonapi.Appointment{
		{ID: 1, Status: salonapi.StatusConfirmed, Date: futureDate},
		{ID: 2, Status: salonapi.StatusCompleted, Date: "2024-01-10"},
	}

	rec := env.do(t, http.MethodGet, "/my-bookings/?phone=89001234567", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[mybookings.SearchResult](t, rec)
	require.Len(t, result.Upcoming, 1)
	require.Len(t, result.Past, 1)
	assert.Equal(t, 1, result.Upcoming[0].ID)
}

func TestMyBookings_ShortPhone(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/my-bookings/?phone=8900", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMyBookings_CancelAndReschedule(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/my-bookings/5/cancel", map[string]string{"phone": "89001234567"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{5}, env.api.cancelled)

	rec = env.do(t, http.MethodPost, "/my-bookings/5/reschedule", map[string]string{
		"phone": "89001234567", "new_date": tomorrow(), "new_time": "11:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{5}, env.api.rescheduled)

	rec = env.do(t, http.MethodPost, "/my-bookings/5/reschedule", map[string]string{"phone": "89001234567"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/my-bookings/abc/cancel", map[string]string{"phone": "89001234567"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMyBookings_ScheduleForDate(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/my-bookings/schedule/"+tomorrow(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[calendar.ScheduleView](t, rec)
	assert.Equal(t, calendar.ScheduleSlots, view.Kind)
}

func TestServices_FallbackOnUpstreamError(t *testing.T) {
	env := newTestEnv(t)
	env.api.servicesErr = errors.New("down")

	rec := env.do(t, http.MethodGet, "/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	services := decodeBody[[]salonapi.Service](t, rec)
	assert.Len(t, services, 9, "built-in catalog covers the outage")
}

func TestReviews_TextFirst(t *testing.T) {
	env := newTestEnv(t)
	env.api.reviews = []salonapi.Review{
		{Name: "A", Rating: 5},
		{Name: "B", ReviewText: "Отлично!", Rating: 5},
		{Name: "C", Rating: 4},
		{Name: "D", ReviewText: "Супер", Rating: 5},
	}

	rec := env.do(t, http.MethodGet, "/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decodeBody[[]salonapi.Review](t, rec)
	require.Len(t, reviews, 4)
	assert.Equal(t, []string{"B", "D", "A", "C"}, []string{reviews[0].Name, reviews[1].Name, reviews[2].Name, reviews[3].Name})
}

func TestForms_ValidationAndForwarding(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/reviews", map[string]any{"name": "Анна", "rating": 6})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/reviews", map[string]any{"name": "Анна", "rating": 5, "review_text": "Хорошо"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/consultation", map[string]any{"service_id": 1, "service_name": "Маникюр", "phone": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/support", map[string]any{"name": "Анна", "message": "???", "page_url": "/"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/support", map[string]any{"name": "Анна", "message": "Сайт не открывается", "page_url": "/"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/problem", map[string]any{"message": "", "page_url": "/"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/contact-booking", map[string]any{
		"name": "Анна", "phone": "89001234567", "service": "Маникюр",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, []string{"review", "support", "contact-booking"}, env.api.submitted)
}

func TestPrefs_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/prefs/v-9/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "light", got["theme"])
	assert.Equal(t, true, got["show_welcome"])

	rec = env.do(t, http.MethodPut, "/prefs/v-9/theme", map[string]string{"theme": "dark"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/prefs/v-9/theme", map[string]string{"theme": "blue"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/prefs/v-9/welcome-dismissed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/prefs/v-9/", nil)
	got = decodeBody[map[string]any](t, rec)
	assert.Equal(t, "dark", got["theme"])
	assert.Equal(t, false, got["show_welcome"])

	rec = env.do(t, http.MethodDelete, "/prefs/v-9/", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/prefs/v-9/", nil)
	got = decodeBody[map[string]any](t, rec)
	assert.Equal(t, "light", got["theme"])
}
