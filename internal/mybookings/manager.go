// Package mybookings implements appointment self-service: phone lookup with
// upcoming/past partitioning, cancellation and rescheduling.
package mybookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anasteisha/salon-booking/internal/calendar"
	"github.com/anasteisha/salon-booking/internal/phone"
	"github.com/anasteisha/salon-booking/internal/prefs"
	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// MinFormattedPhoneLen is the minimum length of the formatted search phone
// before a lookup is allowed. Shorter input never reaches the upstream.
const MinFormattedPhoneLen = 14

// ErrPhoneTooShort rejects lookups with an incomplete phone number.
var ErrPhoneTooShort = errors.New("mybookings: phone number is incomplete")

// StatusLabels maps appointment statuses to their display names.
var StatusLabels = map[string]string{
	salonapi.StatusPending:   "Ожидает подтверждения",
	salonapi.StatusConfirmed: "Подтверждена",
	salonapi.StatusCompleted: "Завершена",
	salonapi.StatusCancelled: "Отменена",
	salonapi.StatusNoShow:    "Неявка",
}

// AppointmentsAPI is the slice of the salon API self-service needs.
type AppointmentsAPI interface {
	MyAppointments(ctx context.Context, phone string) ([]salonapi.Appointment, error)
	CancelAppointment(ctx context.Context, id int, phone string) error
	RescheduleAppointment(ctx context.Context, id int, phone, newDate, newTime string) error
	DaySchedule(ctx context.Context, date string, serviceID int) (*salonapi.DaySchedule, error)
}

// AppointmentView is an appointment enriched with its status label.
type AppointmentView struct {
	salonapi.Appointment
	StatusLabel string `json:"status_label"`
}

// SearchResult partitions a client's appointments, upcoming first.
type SearchResult struct {
	Upcoming []AppointmentView `json:"upcoming"`
	Past     []AppointmentView `json:"past"`
}

// Manager drives the my-bookings page.
type Manager struct {
	api         AppointmentsAPI
	prefs       prefs.Store
	logger      *logging.Logger
	minPhoneLen int
	now         func() time.Time
}

// NewManager creates a Manager. A non-positive minPhoneLen falls back to
// MinFormattedPhoneLen.
func NewManager(api AppointmentsAPI, store prefs.Store, minPhoneLen int, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Default()
	}
	if minPhoneLen <= 0 {
		minPhoneLen = MinFormattedPhoneLen
	}
	return &Manager{
		api:         api,
		prefs:       store,
		logger:      logger.WithComponent("mybookings"),
		minPhoneLen: minPhoneLen,
		now:         time.Now,
	}
}

// Search looks up appointments by phone and splits them into upcoming and
// past. The raw input is rejected locally when its formatted form is shorter
// than MinFormattedPhoneLen. On success the search phone is remembered for
// the visitor.
func (m *Manager) Search(ctx context.Context, rawPhone, visitorID string) (*SearchResult, error) {
	formatted := phone.Format(rawPhone)
	if len([]rune(formatted)) < m.minPhoneLen {
		return nil, ErrPhoneTooShort
	}

	appointments, err := m.api.MyAppointments(ctx, phone.Normalize(rawPhone))
	if err != nil {
		return nil, fmt.Errorf("mybookings: search: %w", err)
	}

	if visitorID != "" && m.prefs != nil {
		if err := m.prefs.SaveSearchPhone(ctx, visitorID, formatted); err != nil {
			m.logger.Warn("failed to remember search phone", "error", err)
		}
	}

	result := &SearchResult{Upcoming: []AppointmentView{}, Past: []AppointmentView{}}
	today := midnight(m.now())
	for _, a := range appointments {
		view := AppointmentView{Appointment: a, StatusLabel: StatusLabels[a.Status]}
		if isUpcoming(a, today) {
			result.Upcoming = append(result.Upcoming, view)
		} else {
			result.Past = append(result.Past, view)
		}
	}
	return result, nil
}

// Cancel requests cancellation of one appointment.
func (m *Manager) Cancel(ctx context.Context, id int, rawPhone string) error {
	if err := m.api.CancelAppointment(ctx, id, phone.Normalize(rawPhone)); err != nil {
		return fmt.Errorf("mybookings: cancel %d: %w", id, err)
	}
	return nil
}

// Reschedule moves one appointment to a new date and time.
func (m *Manager) Reschedule(ctx context.Context, id int, rawPhone, newDate, newTime string) error {
	if err := m.api.RescheduleAppointment(ctx, id, phone.Normalize(rawPhone), newDate, newTime); err != nil {
		return fmt.Errorf("mybookings: reschedule %d: %w", id, err)
	}
	return nil
}

// ScheduleFor returns the bucketed slot view for a date without a service
// filter, for the reschedule slot picker.
func (m *Manager) ScheduleFor(ctx context.Context, date string) (calendar.ScheduleView, error) {
	schedule, err := m.api.DaySchedule(ctx, date, 0)
	if err != nil {
		return calendar.ScheduleView{}, fmt.Errorf("mybookings: schedule for %s: %w", date, err)
	}
	return calendar.View(schedule), nil
}

// isUpcoming: still actionable (pending or confirmed) and not in the past.
func isUpcoming(a salonapi.Appointment, today time.Time) bool {
	if a.Status != salonapi.StatusPending && a.Status != salonapi.StatusConfirmed {
		return false
	}
	date, err := time.ParseInLocation(calendar.DateFormat, a.Date, today.Location())
	if err != nil {
		return false
	}
	return !date.Before(today)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
