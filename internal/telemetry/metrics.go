// Package telemetry exposes Prometheus counters for the coordinator's
// metrics-callback seam.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector aggregates horoscope client counters into a Prometheus
// registry. Metric names emitted by the coordinator and clients map onto
// the counters below; unknown names are counted under a catch-all vector
// so new emit sites never silently drop data.
type Collector struct {
	attempts       prometheus.Counter
	successes      prometheus.Counter
	rotations      prometheus.Counter
	failures       prometheus.Counter
	exhausted      prometheus.Counter
	tokenRefreshes prometheus.Counter
	other          *prometheus.CounterVec
}

// NewCollector builds a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "horoscope_attempts_total",
			Help: "Prediction attempts issued, across all clients.",
		}),
		successes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "horoscope_successes_total",
			Help: "Prediction calls that returned a result.",
		}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "horoscope_rotations_total",
			Help: "Credential rotations triggered by block signals.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "horoscope_failures_total",
			Help: "Prediction calls that failed terminally.",
		}),
		exhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "horoscope_exhausted_total",
			Help: "Calls that found every configured credential blocked.",
		}),
		tokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "horoscope_token_refresh_failures_total",
			Help: "Failed OAuth token refreshes.",
		}),
		other: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "horoscope_events_total",
			Help: "Remaining client events, labeled by event name.",
		}, []string{"event"}),
	}

	reg.MustRegister(c.attempts, c.successes, c.rotations, c.failures,
		c.exhausted, c.tokenRefreshes, c.other)
	return c
}

// Record routes a named counter increment to its Prometheus counter. Its
// signature matches the coordinator's metrics callback.
func (c *Collector) Record(metric string, value float64) {
	switch metric {
	case "astrology_attempt":
		c.attempts.Add(value)
	case "astrology_success":
		c.successes.Add(value)
	case "astrology_rotation":
		c.rotations.Add(value)
	case "astrology_failure":
		c.failures.Add(value)
	case "astrology_exhausted":
		c.exhausted.Add(value)
	case "prokerala_auth_failure":
		c.tokenRefreshes.Add(value)
	default:
		c.other.WithLabelValues(metric).Add(value)
	}
}
