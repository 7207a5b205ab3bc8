package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// readHeaderTimeout bounds how long the metrics server waits for
// request headers.
const readHeaderTimeout = 5 * time.Second

// Collector registers and updates the timer's Prometheus metrics.
type Collector struct {
	// ticks counts frame recomputes.
	ticks prometheus.Counter
	// bells counts fired bells, labeled by bell kind.
	bells *prometheus.CounterVec
	// playFailures counts contained audio playback errors.
	playFailures prometheus.Counter
	// remaining tracks the current remaining time in seconds.
	remaining prometheus.Gauge
	// drift tracks the last sampled precision drift in seconds.
	drift prometheus.Gauge
}

// NewCollector creates and registers the metric set. A nil registerer
// falls back to the default Prometheus registry.
func NewCollector(registerer prometheus.Registerer) *Collector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	c := &Collector{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "speech_timer_ticks_total",
			Help: "Total number of frame recomputes",
		}),
		bells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "speech_timer_bells_total",
			Help: "Total number of fired bells by kind",
		}, []string{"kind"}),
		playFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "speech_timer_play_failures_total",
			Help: "Total number of contained audio playback failures",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "speech_timer_remaining_seconds",
			Help: "Current remaining time in seconds",
		}),
		drift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "speech_timer_drift_seconds",
			Help: "Last sampled precision drift in seconds",
		}),
	}

	registerer.MustRegister(c.ticks, c.bells, c.playFailures, c.remaining, c.drift)

	return c
}

// RecordTick records one frame recompute and the observed remaining
// time and drift.
func (c *Collector) RecordTick(remaining, drift time.Duration) {
	c.ticks.Inc()
	c.remaining.Set(remaining.Seconds())
	c.drift.Set(drift.Seconds())
}

// RecordBell records one fired bell.
func (c *Collector) RecordBell(kind string) {
	c.bells.WithLabelValues(kind).Inc()
}

// RecordPlayFailure records one contained playback error.
func (c *Collector) RecordPlayFailure() {
	c.playFailures.Inc()
}

// Serve exposes /metrics on the provided address until the context is
// canceled.
func Serve(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Shut the server down when the context ends.
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), readHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
