package telemetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTelTracker records events with OpenTelemetry.
//
// Every event increments the audience.events counter. If the context carries
// a recording span, the event is also added to the span.
type OTelTracker struct {
	events metric.Int64Counter
}

type otelOptions struct {
	meterProvider metric.MeterProvider
}

// OTelOption configures an OTelTracker.
type OTelOption func(o *otelOptions)

// WithMeterProvider sets the meter provider the counter is created with.
// Default: the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(o *otelOptions) {
		o.meterProvider = mp
	}
}

// NewOTelTracker creates an OTelTracker.
//
// Without WithMeterProvider the tracker uses the global OTel meter provider.
// Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewOTelTracker(opts ...OTelOption) (*OTelTracker, error) {
	o := otelOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}

	events, err := o.meterProvider.Meter("audience").Int64Counter("audience.events",
		metric.WithDescription("Number of audience events tracked"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating audience.events counter: %w", err)
	}
	return &OTelTracker{events: events}, nil
}

// Track records the event.
func (t *OTelTracker) Track(ctx context.Context, kind string, payload map[string]any) error {
	l := eventLabels(kind, payload)
	attrs := []attribute.KeyValue{
		attribute.String("event.kind", l.kind),
		attribute.String("event.name", l.name),
		attribute.String("audience", l.audience),
		attribute.String("error.type", l.errorType),
	}

	t.events.Add(ctx, 1, metric.WithAttributes(attrs...))

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	attrs = append(attrs, attribute.String("event.id", uuid.NewString()))
	if expr, ok := payload["expression"].(string); ok {
		attrs = append(attrs, attribute.String("audience.expression", expr))
	}
	span.AddEvent(kind, trace.WithAttributes(attrs...))
	return nil
}
