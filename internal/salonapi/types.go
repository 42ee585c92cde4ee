// Package salonapi contains the typed client for the salon's external
// booking/review API and the wire types it exchanges.
package salonapi

// Service is a sellable salon procedure.
type Service struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
}

// Slot is a single bookable time-of-day unit on one date.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySchedule is the availability picture for one calendar date.
type DaySchedule struct {
	IsWorkingDay bool   `json:"is_working_day"`
	Slots        []Slot `json:"slots"`
}

// Appointment lifecycle statuses as reported by the API.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment is a read-only projection of a scheduled booking.
type Appointment struct {
	ID              int    `json:"id"`
	ServiceName     string `json:"service_name"`
	DurationMinutes int    `json:"duration_minutes"`
	TotalPrice      int    `json:"total_price"`
	Date            string `json:"appointment_date"`
	Time            string `json:"appointment_time"`
	Status          string `json:"status"`
	CanCancel       bool   `json:"can_cancel"`
	CanReschedule   bool   `json:"can_reschedule"`
	CreatedAt       string `json:"created_at"`
}

// CreateAppointmentRequest is the payload for a fixed date/time booking.
type CreateAppointmentRequest struct {
	ServiceID       int    `json:"service_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	ClientName      string `json:"client_name"`
	ClientPhone     string `json:"client_phone"`
	ClientEmail     string `json:"client_email,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// CreateAppointmentResponse carries the new appointment id.
type CreateAppointmentResponse struct {
	ID int `json:"id"`
}

// BookingRequest is a loosely-scheduled lead: the salon calls the client back
// to agree on an exact time.
type BookingRequest struct {
	ServiceID      int    `json:"service_id"`
	ServiceName    string `json:"service_name"`
	ClientName     string `json:"client_name"`
	ClientPhone    string `json:"client_phone"`
	TimePreference string `json:"time_preference"`
	Comment        string `json:"comment,omitempty"`
}

// BookingRequestResponse carries the new request id.
type BookingRequestResponse struct {
	ID int `json:"id"`
}

// Review is a published client review.
type Review struct {
	Name       string `json:"name"`
	ReviewText string `json:"review_text"`
	Rating     int    `json:"rating"`
	CreatedAt  string `json:"created_at"`
}

// ReviewSubmission is a new review from the site form.
type ReviewSubmission struct {
	Name       string `json:"name"`
	ReviewText string `json:"review_text,omitempty"`
	Rating     int    `json:"rating"`
}

// ConsultationRequest asks the salon to call back about a service.
type ConsultationRequest struct {
	ServiceName string `json:"service_name"`
	ServiceID   int    `json:"service_id"`
	Phone       string `json:"phone"`
}

// SupportRequest is a message from the site support form.
type SupportRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
	PageURL string `json:"page_url"`
}

// ProblemReport is a bug/problem report from the site feedback form.
type ProblemReport struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
	PageURL string `json:"page_url"`
}

// ContactBooking is the legacy flat contact form on the landing page.
type ContactBooking struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message,omitempty"`
}
