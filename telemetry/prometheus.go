package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusTracker counts events in the audience_events_total counter,
// labelled by event kind, event name, audience and error type.
type PrometheusTracker struct {
	events *prometheus.CounterVec
}

// NewPrometheusTracker creates a PrometheusTracker and registers its counter
// with reg. If reg is nil, the default Prometheus registerer is used.
func NewPrometheusTracker(reg prometheus.Registerer) (*PrometheusTracker, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "audience",
			Name:      "events_total",
			Help:      "Total number of audience events tracked",
		},
		[]string{"kind", "name", "audience", "error_type"},
	)

	if err := reg.Register(events); err != nil {
		return nil, fmt.Errorf("registering audience_events_total: %w", err)
	}
	return &PrometheusTracker{events: events}, nil
}

// Track records the event.
func (t *PrometheusTracker) Track(_ context.Context, kind string, payload map[string]any) error {
	l := eventLabels(kind, payload)
	c, err := t.events.GetMetricWithLabelValues(l.kind, l.name, l.audience, l.errorType)
	if err != nil {
		return err
	}
	c.Inc()
	return nil
}
