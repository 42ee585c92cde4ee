// Package router assembles the chi route tree for the booking service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anasteisha/salon-booking/internal/http/handlers"
	httpmiddleware "github.com/anasteisha/salon-booking/internal/http/middleware"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Widget             *handlers.WidgetHandler
	MyBookings         *handlers.MyBookingsHandler
	Pages              *handlers.PagesHandler
	Prefs              *handlers.PrefsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP limit on the public form endpoints; zero disables limiting.
	FormRatePerSecond float64
	FormBurst         int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/widget/sessions", func(r chi.Router) {
		r.Post("/", cfg.Widget.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cfg.Widget.GetSession)
			r.Post("/service", cfg.Widget.SelectService)
			r.Get("/calendar", cfg.Widget.Calendar)
			r.Post("/date", cfg.Widget.SelectDate)
			r.Post("/time", cfg.Widget.SelectTime)
			r.Post("/advance", cfg.Widget.Advance)
			r.Post("/back", cfg.Widget.Back)
			r.Post("/submit", cfg.Widget.Submit)
		})
	})

	r.Route("/my-bookings", func(r chi.Router) {
		r.Get("/", cfg.MyBookings.Search)
		r.Get("/schedule/{date}", cfg.MyBookings.Schedule)
		r.Post("/{id}/cancel", cfg.MyBookings.Cancel)
		r.Post("/{id}/reschedule", cfg.MyBookings.Reschedule)
	})

	r.Get("/services", cfg.Pages.Services)
	r.Get("/reviews", cfg.Pages.Reviews)

	// One-shot public forms, rate limited per IP.
	r.Group(func(forms chi.Router) {
		if cfg.FormRatePerSecond > 0 {
			forms.Use(httpmiddleware.RateLimit(cfg.FormRatePerSecond, cfg.FormBurst))
		}
		forms.Post("/reviews", cfg.Pages.SubmitReview)
		forms.Post("/consultation", cfg.Pages.SubmitConsultation)
		forms.Post("/support", cfg.Pages.SubmitSupport)
		forms.Post("/problem", cfg.Pages.SubmitProblem)
		forms.Post("/contact-booking", cfg.Pages.SubmitContactBooking)
	})

	r.Route("/prefs/{visitor}", func(r chi.Router) {
		r.Get("/", cfg.Prefs.Get)
		r.Put("/theme", cfg.Prefs.SetTheme)
		r.Post("/welcome-dismissed", cfg.Prefs.DismissWelcome)
		r.Delete("/", cfg.Prefs.Clear)
	})

	return r
}
