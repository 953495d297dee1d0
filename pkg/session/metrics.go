package session

import (
	"time"

	"github.com/aretw0/gobarber/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of a Manager.
// A nil *Metrics records nothing.
type Metrics struct {
	transitions    *prometheus.CounterVec
	signInDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg (if not nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gobarber",
				Subsystem: "session",
				Name:      "events_total",
				Help:      "Total number of session lifecycle events",
			},
			[]string{"event"},
		),
		signInDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "gobarber",
				Subsystem: "session",
				Name:      "sign_in_request_duration_seconds",
				Help:      "Duration of the sign-in API call",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.transitions, m.signInDuration)
	}
	return m
}

func (m *Metrics) transition(ev domain.EventType) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(ev)).Inc()
}

func (m *Metrics) observeSignIn(d time.Duration) {
	if m == nil {
		return
	}
	m.signInDuration.Observe(d.Seconds())
}
