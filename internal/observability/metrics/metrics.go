package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for widget and self-service flows.
type BookingMetrics struct {
	sessionsStarted  *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	activeSessions   prometheus.GaugeFunc
}

func NewBookingMetrics(reg prometheus.Registerer, activeSessions func() float64) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "widget",
			Name:      "sessions_started_total",
			Help:      "Total widget sessions started",
		}, []string{"variant"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salon",
			Subsystem: "widget",
			Name:      "submissions_total",
			Help:      "Total booking submissions",
		}, []string{"variant", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salon",
			Subsystem: "upstream",
			Name:      "request_latency_seconds",
			Help:      "Latency of calls to the salon API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.submissionsTotal, m.upstreamLatency)
	if activeSessions != nil {
		m.activeSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "salon",
			Subsystem: "widget",
			Name:      "active_sessions",
			Help:      "Live widget sessions",
		}, activeSessions)
		reg.MustRegister(m.activeSessions)
	}
	return m
}

func (m *BookingMetrics) ObserveSessionStarted(variant string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(variant).Inc()
}

func (m *BookingMetrics) ObserveSubmission(variant, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(variant, status).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(operation).Observe(seconds)
}
