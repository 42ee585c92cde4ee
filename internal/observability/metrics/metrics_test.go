package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	m := NewBookingMetrics(prometheus.NewRegistry(), func() float64 { return 3 })
	m.ObserveSessionStarted("appointment")
	m.ObserveSubmission("appointment", "ok")
	m.ObserveUpstreamLatency("create_appointment", 0.5)
}

func TestBookingMetricsWithoutGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg, nil)
	m.ObserveSubmission("request", "soft_fail")
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveSessionStarted("appointment")
	m.ObserveSubmission("request", "ok")
	m.ObserveUpstreamLatency("services", 0.1)
}
