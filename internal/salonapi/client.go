package salonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anasteisha/salon-booking/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the salon API. Detail carries the
// server-supplied message verbatim so the UI can surface it unchanged.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("salonapi: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("salonapi: status %d", e.StatusCode)
}

// Client wraps REST calls to the salon's booking/review API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

// NewClient constructs a salon API client.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// Services lists the sellable services.
func (c *Client) Services(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.doJSON(ctx, http.MethodGet, "/api/services", nil, &services); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// DaySchedule returns the availability for one date. A serviceID of 0 omits
// the service filter (used by the reschedule picker).
func (c *Client) DaySchedule(ctx context.Context, date string, serviceID int) (*DaySchedule, error) {
	path := "/api/schedule/" + url.PathEscape(date)
	if serviceID > 0 {
		path += "?service_id=" + strconv.Itoa(serviceID)
	}
	var schedule DaySchedule
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &schedule); err != nil {
		return nil, fmt.Errorf("day schedule: %w", err)
	}
	return &schedule, nil
}

// CreateAppointment books a fixed date/time appointment.
func (c *Client) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	var resp CreateAppointmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/appointments", req, &resp); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &resp, nil
}

// MyAppointments looks up a client's appointments by phone number.
func (c *Client) MyAppointments(ctx context.Context, phone string) ([]Appointment, error) {
	path := "/api/appointments/my?phone=" + url.QueryEscape(phone)
	var appointments []Appointment
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &appointments); err != nil {
		return nil, fmt.Errorf("my appointments: %w", err)
	}
	return appointments, nil
}

// CancelAppointment sets an appointment's status to cancelled. The search
// phone scopes the update and acts as the capability token.
func (c *Client) CancelAppointment(ctx context.Context, id int, phone string) error {
	path := fmt.Sprintf("/api/appointments/%d?phone=%s", id, url.QueryEscape(phone))
	body := map[string]string{"status": StatusCancelled}
	if err := c.doJSON(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	return nil
}

// RescheduleAppointment moves an appointment to a new date and time.
func (c *Client) RescheduleAppointment(ctx context.Context, id int, phone, newDate, newTime string) error {
	path := fmt.Sprintf("/api/appointments/%d?phone=%s", id, url.QueryEscape(phone))
	body := map[string]string{"new_date": newDate, "new_time": newTime}
	if err := c.doJSON(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("reschedule appointment: %w", err)
	}
	return nil
}

// CreateBookingRequest submits a loosely-scheduled booking lead.
func (c *Client) CreateBookingRequest(ctx context.Context, req BookingRequest) (*BookingRequestResponse, error) {
	var resp BookingRequestResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/booking-requests", req, &resp); err != nil {
		return nil, fmt.Errorf("create booking request: %w", err)
	}
	return &resp, nil
}

// Reviews lists published reviews.
func (c *Client) Reviews(ctx context.Context) ([]Review, error) {
	var reviews []Review
	if err := c.doJSON(ctx, http.MethodGet, "/api/reviews", nil, &reviews); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// SubmitReview posts a new review.
func (c *Client) SubmitReview(ctx context.Context, req ReviewSubmission) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/review", req, nil); err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	return nil
}

// SubmitConsultation asks for a callback about a service.
func (c *Client) SubmitConsultation(ctx context.Context, req ConsultationRequest) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/consultation", req, nil); err != nil {
		return fmt.Errorf("submit consultation: %w", err)
	}
	return nil
}

// SubmitSupport posts a support form message.
func (c *Client) SubmitSupport(ctx context.Context, req SupportRequest) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/support", req, nil); err != nil {
		return fmt.Errorf("submit support: %w", err)
	}
	return nil
}

// SubmitProblem posts a problem report.
func (c *Client) SubmitProblem(ctx context.Context, req ProblemReport) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/problem", req, nil); err != nil {
		return fmt.Errorf("submit problem: %w", err)
	}
	return nil
}

// SubmitContactBooking forwards the legacy landing-page contact form.
func (c *Client) SubmitContactBooking(ctx context.Context, req ContactBooking) error {
	if err := c.doJSON(ctx, http.MethodPost, "/api/booking", req, nil); err != nil {
		return fmt.Errorf("submit contact booking: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := extractDetail(respBody)
		c.logger.Warn("salon API non-2xx response", "status", resp.StatusCode, "path", path, "detail", detail)
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractDetail pulls the {"detail": "..."} message from an error body,
// falling back to the raw body truncated for logs.
func extractDetail(body []byte) string {
	var wrapped struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Detail != "" {
		return wrapped.Detail
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}
