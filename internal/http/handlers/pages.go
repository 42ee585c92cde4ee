package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/anasteisha/salon-booking/internal/catalog"
	"github.com/anasteisha/salon-booking/internal/phone"
	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// PagesAPI is the slice of the salon API behind the page-chrome endpoints.
type PagesAPI interface {
	Reviews(ctx context.Context) ([]salonapi.Review, error)
	SubmitReview(ctx context.Context, req salonapi.ReviewSubmission) error
	SubmitConsultation(ctx context.Context, req salonapi.ConsultationRequest) error
	SubmitSupport(ctx context.Context, req salonapi.SupportRequest) error
	SubmitProblem(ctx context.Context, req salonapi.ProblemReport) error
	SubmitContactBooking(ctx context.Context, req salonapi.ContactBooking) error
}

// PagesHandler serves the catalog, reviews and the one-shot page forms.
type PagesHandler struct {
	api     PagesAPI
	catalog *catalog.Loader
	logger  *logging.Logger
}

// NewPagesHandler creates the page-chrome handler.
func NewPagesHandler(api PagesAPI, loader *catalog.Loader, logger *logging.Logger) *PagesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &PagesHandler{api: api, catalog: loader, logger: logger.WithComponent("pages")}
}

// Services returns the enriched catalog; the loader falls back internally,
// so this endpoint never fails.
func (h *PagesHandler) Services(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Load(r.Context()))
}

// Reviews lists published reviews, reviews with text before bare ratings,
// otherwise in the order the API returned them.
func (h *PagesHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.api.Reviews(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].ReviewText != "" && reviews[j].ReviewText == ""
	})
	writeJSON(w, http.StatusOK, reviews)
}

// SubmitReview accepts a new review from the site form.
func (h *PagesHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req salonapi.ReviewSubmission
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusUnprocessableEntity, "rating must be between 1 and 5")
		return
	}
	if err := h.api.SubmitReview(r.Context(), req); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}

// SubmitConsultation asks the salon to call back about a service.
func (h *PagesHandler) SubmitConsultation(w http.ResponseWriter, r *http.Request) {
	var req salonapi.ConsultationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !phone.Valid(req.Phone) {
		writeError(w, http.StatusUnprocessableEntity, "enter the full phone number")
		return
	}
	req.Phone = phone.Normalize(req.Phone)
	if err := h.api.SubmitConsultation(r.Context(), req); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}

// SubmitSupport accepts a support-form message.
func (h *PagesHandler) SubmitSupport(w http.ResponseWriter, r *http.Request) {
	var req salonapi.SupportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if len([]rune(req.Message)) < 5 {
		writeError(w, http.StatusUnprocessableEntity, "message is too short")
		return
	}
	if err := h.api.SubmitSupport(r.Context(), req); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}

// SubmitProblem accepts a problem report.
func (h *PagesHandler) SubmitProblem(w http.ResponseWriter, r *http.Request) {
	var req salonapi.ProblemReport
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "message is required")
		return
	}
	if err := h.api.SubmitProblem(r.Context(), req); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}

// SubmitContactBooking forwards the legacy flat contact form.
func (h *PagesHandler) SubmitContactBooking(w http.ResponseWriter, r *http.Request) {
	var req salonapi.ContactBooking
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Service == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and service are required")
		return
	}
	if !phone.Valid(req.Phone) {
		writeError(w, http.StatusUnprocessableEntity, "enter the full phone number")
		return
	}
	req.Phone = phone.Normalize(req.Phone)
	if err := h.api.SubmitContactBooking(r.Context(), req); err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}
