package identity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh triggers recorded by Metrics.
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerOnDemand  = "on_demand"
)

// ResultSuccess labels successful calls; failures are labelled with the
// error Kind.
const ResultSuccess = "success"

// Metrics holds the client-side Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Refreshes       *prometheus.CounterVec
	RefreshDuration *prometheus.HistogramVec
	Operations      *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil. Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idtoolkit_client_refreshes_total",
				Help: "Token refresh attempts by trigger and result",
			},
			[]string{"trigger", "result"},
		),
		RefreshDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idtoolkit_client_refresh_duration_seconds",
				Help:    "Token refresh round trip duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idtoolkit_client_operations_total",
				Help: "Backend operations by name and result",
			},
			[]string{"operation", "result"},
		),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "idtoolkit_client_active_sessions",
			Help: "Sessions created and not yet closed",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Refreshes, m.RefreshDuration, m.Operations, m.ActiveSessions)
	}
	return m
}

func resultLabel(err error) string {
	if err == nil {
		return ResultSuccess
	}
	return KindOf(err).String()
}

func (m *Metrics) recordRefresh(trigger string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(trigger, resultLabel(err)).Inc()
	m.RefreshDuration.WithLabelValues(trigger).Observe(took.Seconds())
}

func (m *Metrics) recordOperation(op string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}
