package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestCollectorRecords verifies counters and gauges move as events are
// recorded, using an isolated registry.
func TestCollectorRecords(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.RecordTick(90*time.Second, 3*time.Millisecond)
	c.RecordTick(89*time.Second, 3*time.Millisecond)
	c.RecordBell("first")
	c.RecordBell("first")
	c.RecordBell("third")
	c.RecordPlayFailure()

	require.Equal(t, 2.0, testutil.ToFloat64(c.ticks))
	require.Equal(t, 2.0, testutil.ToFloat64(c.bells.WithLabelValues("first")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.bells.WithLabelValues("third")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.playFailures))
	require.Equal(t, 89.0, testutil.ToFloat64(c.remaining))
	require.InDelta(t, 0.003, testutil.ToFloat64(c.drift), 1e-9)
}

// TestNewCollectorDefaultRegistry verifies the nil-registerer fallback
// registers without panicking on a fresh default registry.
func TestNewCollectorDefaultRegistry(t *testing.T) {
	original := prometheus.DefaultRegisterer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = original
	})

	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	require.NotPanics(t, func() {
		NewCollector(nil)
	})
}
