package audience

import "context"

// Tracker records telemetry events.
type Tracker interface {
	// Track records an event of the given kind. The payload is a JSON-like
	// object. A failure to record the event is returned to the caller, who
	// decides whether it matters.
	Track(ctx context.Context, kind string, payload map[string]any) error
}

const (
	// EventOccurred is the kind of event recorded when an audience times out.
	EventOccurred = "eventOccurred"

	// AudienceTimeout is the name of the event recorded when the evaluator
	// times out evaluating an audience.
	AudienceTimeout = "audienceTimeout"
)

// TrackerFunc adapts an ordinary function to the Tracker interface.
type TrackerFunc func(ctx context.Context, kind string, payload map[string]any) error

func (f TrackerFunc) Track(ctx context.Context, kind string, payload map[string]any) error {
	return f(ctx, kind, payload)
}

type nopTracker struct{}

func (nopTracker) Track(context.Context, string, map[string]any) error { return nil }
