package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Record("astrology_attempt", 1)
	c.Record("astrology_attempt", 1)
	c.Record("astrology_rotation", 1)
	c.Record("astrology_success", 1)
	c.Record("prokerala_auth_failure", 1)
	c.Record("prokerala_request", 1)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.attempts))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.rotations))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.successes))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.tokenRefreshes))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.other.WithLabelValues("prokerala_request")))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.exhausted))
}
