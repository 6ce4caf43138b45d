package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}
	m.Counter("x", 1)
	m.Gauge("x", 1)
	m.Timing("x", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counters by tags", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter(MetricCacheHit, 1, T("signal", "mood"))
		m.Counter(MetricCacheHit, 1, T("signal", "mood"))
		m.Counter(MetricCacheHit, 1, T("signal", "social"))

		assert.Equal(t, int64(2), m.GetCounter(MetricCacheHit, T("signal", "mood")))
		assert.Equal(t, int64(1), m.GetCounter(MetricCacheHit, T("signal", "social")))
		assert.Zero(t, m.GetCounter(MetricCacheHit))
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("c", 1, T("b", "2"), T("a", "1"))

		assert.Equal(t, int64(1), m.GetCounter("c", T("a", "1"), T("b", "2")))
	})

	t.Run("gauge and timings", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Gauge("g", 1.5)
		m.Gauge("g", 2.5)
		m.Timing("t", time.Millisecond)
		m.Timing("t", 2*time.Millisecond)

		assert.Equal(t, 2.5, m.GetGauge("g"))
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, m.GetTimings("t"))
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter("c", 3)

		snap := m.Snapshot()
		snap["c"] = 99
		assert.Equal(t, int64(3), m.GetCounter("c"))
	})
}

func TestHealthRegistry(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	t.Run("empty is healthy", func(t *testing.T) {
		assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().Check(context.Background()).Status)
	})

	t.Run("optional failure degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingChecker("database", true, ok))
		r.Register("redis", PingChecker("redis", false, fail))

		health := r.Check(context.Background())
		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Equal(t, "redis: down", health.Checks["redis"].Message)
	})

	t.Run("critical failure is unhealthy and served as 503", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("redis", PingChecker("redis", false, fail))
		r.Register("database", PingChecker("database", true, fail))

		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body OverallHealth
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, HealthStatusUnhealthy, body.Status)
		assert.Len(t, body.Checks, 2)
	})
}
