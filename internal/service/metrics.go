package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver counts use cases and records their durations in a
// private Prometheus registry.
type MetricsObserver struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsObserver creates an observer with its own registry.
func NewMetricsObserver() *MetricsObserver {
	m := &MetricsObserver{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loadboard",
			Name:      "use_case_total",
			Help:      "Service use cases executed, by name and outcome.",
		}, []string{"use_case", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loadboard",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"use_case"}),
	}
	m.registry.MustRegister(m.calls, m.duration)
	return m
}

func (m *MetricsObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	m.calls.WithLabelValues(event.Name, strconv.FormatBool(event.Success)).Inc()
	m.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// Gatherer exposes the registry.
func (m *MetricsObserver) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile dumps the current metrics in the node-exporter textfile
// format. The file is replaced atomically.
func (m *MetricsObserver) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
