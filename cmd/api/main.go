package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/anasteisha/salon-booking/internal/api/router"
	"github.com/anasteisha/salon-booking/internal/booking"
	"github.com/anasteisha/salon-booking/internal/catalog"
	appconfig "github.com/anasteisha/salon-booking/internal/config"
	"github.com/anasteisha/salon-booking/internal/http/handlers"
	"github.com/anasteisha/salon-booking/internal/mybookings"
	"github.com/anasteisha/salon-booking/internal/observability/metrics"
	"github.com/anasteisha/salon-booking/internal/prefs"
	"github.com/anasteisha/salon-booking/internal/salonapi"
	"github.com/anasteisha/salon-booking/internal/session"
	"github.com/anasteisha/salon-booking/pkg/logging"
)

func main() {
	// Best-effort .env for local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting salon-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	apiClient := salonapi.NewClient(cfg.SalonAPIBaseURL, cfg.SalonAPITimeout, logger)
	loader := catalog.NewLoader(apiClient, logger)

	var prefsStore prefs.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		prefsStore = prefs.NewRedisStore(redis.NewClient(opts), cfg.PrefsTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, visitor preferences will not survive restarts")
		prefsStore = prefs.NewMemoryStore()
	}

	registry := session.NewRegistry(cfg.SessionTTL, logger)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer, func() float64 {
		return float64(registry.Len())
	})

	submitter := booking.NewSubmitter(apiClient, prefsStore, logger)
	manager := mybookings.NewManager(apiClient, prefsStore, cfg.MinSearchPhoneLen, logger)

	routerCfg := &router.Config{
		Logger: logger,
		Widget: handlers.NewWidgetHandler(
			registry, loader, apiClient, submitter, prefsStore,
			bookingMetrics, cfg.BookingHorizonDays, logger,
		),
		MyBookings:         handlers.NewMyBookingsHandler(manager, logger),
		Pages:              handlers.NewPagesHandler(apiClient, loader, logger),
		Prefs:              handlers.NewPrefsHandler(prefsStore, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		FormRatePerSecond:  cfg.FormRatePerSecond,
		FormBurst:          cfg.FormBurst,
	}
	r := router.New(routerCfg)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	registry.StartSweeper(sweepCtx, 5*time.Minute)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
