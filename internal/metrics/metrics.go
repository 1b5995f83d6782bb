package metrics

import (
	domain "philagro/backend/internal/domain/auth"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks authentication and access decisions. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	loginAttempts  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "philagro",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "philagro",
			Name:      "access_decisions_total",
			Help:      "Access guard decisions by decision and reason.",
		}, []string{"decision", "reason"}),
	}
	reg.MustRegister(m.loginAttempts, m.guardDecisions)
	return m
}

// Login result labels.
const (
	LoginSuccess            = "success"
	LoginInvalidInput       = "invalid_input"
	LoginInvalidCredentials = "invalid_credentials"
	LoginAccountDisabled    = "account_disabled"
	LoginError              = "error"
)

// ObserveLogin counts a login attempt.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// ObserveDecision counts a guard outcome.
func (m *Metrics) ObserveDecision(outcome domain.Outcome) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(string(outcome.Decision), string(outcome.Reason)).Inc()
}
