// Package booking drives the widget's step flow: an ordered wizard over
// service selection, optional date/time selection and contact entry, plus the
// final submission to the upstream API.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anasteisha/salon-booking/internal/phone"
	"github.com/anasteisha/salon-booking/internal/salonapi"
)

// Variant picks the wizard shape. The appointment variant books an exact
// date and slot over three steps; the request variant collects a time-of-day
// preference over two steps and the salon calls back to finalize.
type Variant string

const (
	VariantAppointment Variant = "appointment"
	VariantRequest     Variant = "request"
)

// Time-of-day preferences accepted by the request variant.
const (
	PreferenceMorning   = "morning"
	PreferenceAfternoon = "afternoon"
	PreferenceEvening   = "evening"
	PreferenceAny       = "any"
)

// PreferenceLabels maps request-variant preferences to their display ranges.
var PreferenceLabels = map[string]string{
	PreferenceMorning:   "Утро (9:00 - 12:00)",
	PreferenceAfternoon: "День (12:00 - 17:00)",
	PreferenceEvening:   "Вечер (17:00 - 21:00)",
	PreferenceAny:       "Любое время",
}

// Flow validation errors. Handlers translate these into 409/422 responses.
var (
	ErrUnknownVariant   = errors.New("booking: unknown variant")
	ErrServiceRequired  = errors.New("booking: select a service first")
	ErrDateTimeRequired = errors.New("booking: select a date and time first")
	ErrContactRequired  = errors.New("booking: name and a valid phone are required")
	ErrBadPreference    = errors.New("booking: unknown time preference")
	ErrWrongStep        = errors.New("booking: action not available at this step")
	ErrAlreadyDone      = errors.New("booking: flow already submitted")
)

// Flow is the mutable wizard state for one widget instance. It is not safe
// for concurrent use; the session registry serializes access.
type Flow struct {
	Variant   Variant
	Step      int
	Service   *salonapi.Service
	Date      string
	Time      string
	Submitted bool
}

// NewFlow starts a wizard at step 1.
func NewFlow(variant Variant) (*Flow, error) {
	switch variant {
	case VariantAppointment, VariantRequest:
		return &Flow{Variant: variant, Step: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// TotalSteps is 3 for the appointment variant, 2 for the request variant.
func (f *Flow) TotalSteps() int {
	if f.Variant == VariantAppointment {
		return 3
	}
	return 2
}

// contactStep is the final step index where contact entry happens.
func (f *Flow) contactStep() int { return f.TotalSteps() }

// SelectService stores the service and auto-advances from step 1.
func (f *Flow) SelectService(svc salonapi.Service) error {
	if f.Submitted {
		return ErrAlreadyDone
	}
	f.Service = &svc
	if f.Step == 1 {
		f.Step = 2
	}
	return nil
}

// SelectDate sets the date and clears any previously selected time, since
// the old slot may not exist on the new day. Appointment variant only.
func (f *Flow) SelectDate(date string) error {
	if f.Submitted {
		return ErrAlreadyDone
	}
	if f.Variant != VariantAppointment {
		return ErrWrongStep
	}
	if f.Service == nil {
		return ErrServiceRequired
	}
	f.Date = date
	f.Time = ""
	return nil
}

// SelectTime sets the slot time. Appointment variant only, requires a date.
func (f *Flow) SelectTime(t string) error {
	if f.Submitted {
		return ErrAlreadyDone
	}
	if f.Variant != VariantAppointment {
		return ErrWrongStep
	}
	if f.Date == "" {
		return ErrDateTimeRequired
	}
	f.Time = t
	return nil
}

// Advance moves to the next step when the current one validates. On a
// validation failure the step and all selections are left untouched, so
// repeated invalid attempts are idempotent.
func (f *Flow) Advance() error {
	if f.Submitted {
		return ErrAlreadyDone
	}
	if f.Step >= f.contactStep() {
		return ErrWrongStep
	}
	if err := f.validateStep(f.Step); err != nil {
		return err
	}
	f.Step++
	return nil
}

// Back moves one step towards the start, preserving every selection.
func (f *Flow) Back() error {
	if f.Submitted {
		return ErrAlreadyDone
	}
	if f.Step <= 1 {
		return ErrWrongStep
	}
	f.Step--
	return nil
}

// validateStep gates forward navigation out of the given step.
func (f *Flow) validateStep(step int) error {
	switch {
	case step == 1 && f.Service == nil:
		return ErrServiceRequired
	case step == 2 && f.Variant == VariantAppointment && (f.Date == "" || f.Time == ""):
		return ErrDateTimeRequired
	}
	return nil
}

// ReadyToSubmit reports whether the flow sits on the contact step with every
// earlier step satisfied.
func (f *Flow) ReadyToSubmit() error {
	if f.Submitted {
		return ErrAlreadyDone
	}
	if f.Step != f.contactStep() {
		return ErrWrongStep
	}
	for s := 1; s < f.contactStep(); s++ {
		if err := f.validateStep(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateContact checks the final-step contact fields without touching the
// upstream: a non-empty name and a full 11-digit RU phone.
func ValidateContact(name, rawPhone string) error {
	if strings.TrimSpace(name) == "" || !phone.Valid(rawPhone) {
		return ErrContactRequired
	}
	return nil
}

// ValidatePreference checks the request-variant time-of-day preference.
func ValidatePreference(pref string) error {
	if _, ok := PreferenceLabels[pref]; !ok {
		return fmt.Errorf("%w: %q", ErrBadPreference, pref)
	}
	return nil
}
