package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/anasteisha/salon-booking/internal/phone"
	"github.com/anasteisha/salon-booking/internal/prefs"
	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// SubmitAPI is the slice of the salon API a submission needs.
type SubmitAPI interface {
	CreateAppointment(ctx context.Context, req salonapi.CreateAppointmentRequest) (*salonapi.CreateAppointmentResponse, error)
	CreateBookingRequest(ctx context.Context, req salonapi.BookingRequest) (*salonapi.BookingRequestResponse, error)
}

// Submission carries the contact-step form fields. Remember and the
// request-variant fields are ignored by the variant that does not use them.
type Submission struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	Notes          string `json:"notes,omitempty"`
	TimePreference string `json:"time_preference,omitempty"`
	Comment        string `json:"comment,omitempty"`
	Remember       bool   `json:"remember,omitempty"`
}

// Confirmation is what the widget shows after a completed flow.
type Confirmation struct {
	AppointmentID   int    `json:"appointment_id,omitempty"`
	RequestID       int    `json:"request_id,omitempty"`
	ServiceName     string `json:"service_name"`
	Price           int    `json:"price"`
	Date            string `json:"date,omitempty"`
	Time            string `json:"time,omitempty"`
	TimePreference  string `json:"time_preference,omitempty"`
	PreferenceLabel string `json:"preference_label,omitempty"`
}

// Submitter performs the terminal step of a flow against the upstream API
// and persists the visitor profile.
type Submitter struct {
	api    SubmitAPI
	prefs  prefs.Store
	logger *logging.Logger
}

// NewSubmitter creates a Submitter.
func NewSubmitter(api SubmitAPI, store prefs.Store, logger *logging.Logger) *Submitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{api: api, prefs: store, logger: logger.WithComponent("booking")}
}

// Submit validates the contact step and performs exactly one upstream call.
//
// The two variants fail differently on purpose: a fixed appointment that did
// not reach the server must not pretend to exist, so the error propagates and
// the flow stays open for a retry. A call-back request is fulfilled by a
// human either way, so the visitor gets a confirmation even when the
// upstream write fails; the failure is only logged.
func (s *Submitter) Submit(ctx context.Context, flow *Flow, sub Submission, visitorID string) (*Confirmation, error) {
	if err := flow.ReadyToSubmit(); err != nil {
		return nil, err
	}
	if err := ValidateContact(sub.Name, sub.Phone); err != nil {
		return nil, err
	}
	if flow.Variant == VariantRequest {
		if err := ValidatePreference(sub.TimePreference); err != nil {
			return nil, err
		}
	}

	sub.Name = strings.TrimSpace(sub.Name)
	sub.Phone = phone.Normalize(sub.Phone)

	if flow.Variant == VariantAppointment {
		return s.submitAppointment(ctx, flow, sub, visitorID)
	}
	return s.submitRequest(ctx, flow, sub, visitorID)
}

func (s *Submitter) submitAppointment(ctx context.Context, flow *Flow, sub Submission, visitorID string) (*Confirmation, error) {
	resp, err := s.api.CreateAppointment(ctx, salonapi.CreateAppointmentRequest{
		ServiceID:       flow.Service.ID,
		AppointmentDate: flow.Date,
		AppointmentTime: flow.Time,
		ClientName:      sub.Name,
		ClientPhone:     sub.Phone,
		ClientEmail:     sub.Email,
		Notes:           sub.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("booking: create appointment: %w", err)
	}

	if sub.Remember {
		s.rememberProfile(ctx, visitorID, sub)
	}
	flow.Submitted = true

	return &Confirmation{
		AppointmentID: resp.ID,
		ServiceName:   flow.Service.Name,
		Price:         flow.Service.Price,
		Date:          flow.Date,
		Time:          flow.Time,
	}, nil
}

func (s *Submitter) submitRequest(ctx context.Context, flow *Flow, sub Submission, visitorID string) (*Confirmation, error) {
	s.rememberProfile(ctx, visitorID, sub)

	conf := &Confirmation{
		ServiceName:     flow.Service.Name,
		Price:           flow.Service.Price,
		TimePreference:  sub.TimePreference,
		PreferenceLabel: PreferenceLabels[sub.TimePreference],
	}

	resp, err := s.api.CreateBookingRequest(ctx, salonapi.BookingRequest{
		ServiceID:      flow.Service.ID,
		ServiceName:    flow.Service.Name,
		ClientName:     sub.Name,
		ClientPhone:    sub.Phone,
		TimePreference: sub.TimePreference,
		Comment:        sub.Comment,
	})
	if err != nil {
		s.logger.Warn("booking request not delivered, confirming anyway",
			"service_id", flow.Service.ID, "error", err)
	} else {
		conf.RequestID = resp.ID
	}
	flow.Submitted = true
	return conf, nil
}

// rememberProfile persists the client profile best-effort; a failed write
// never blocks a booking.
func (s *Submitter) rememberProfile(ctx context.Context, visitorID string, sub Submission) {
	if visitorID == "" || s.prefs == nil {
		return
	}
	err := s.prefs.SaveProfile(ctx, visitorID, prefs.Profile{
		Name:  sub.Name,
		Phone: sub.Phone,
		Email: sub.Email,
	})
	if err != nil {
		s.logger.Warn("failed to remember client profile", "error", err)
	}
}
