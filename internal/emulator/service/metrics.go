package service

import (
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the emulator hands out. A nil *Metrics records nothing.
type Metrics struct {
	TokensIssued *prometheus.CounterVec
	OobCodesSent *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TokensIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idtoolkit_emulator_tokens_issued_total",
				Help: "ID tokens issued by sign-in provider",
			},
			[]string{"sign_in_provider"},
		),
		OobCodesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idtoolkit_emulator_oob_codes_total",
				Help: "Out-of-band codes issued by request type",
			},
			[]string{"request_type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.TokensIssued, m.OobCodesSent)
	}
	return m
}

func (m *Metrics) tokenIssued(provider string) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(provider).Inc()
}

func (m *Metrics) oobCodeSent(t domain.OobRequestType) {
	if m == nil {
		return
	}
	m.OobCodesSent.WithLabelValues(string(t)).Inc()
}
