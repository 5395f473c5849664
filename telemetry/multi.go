package telemetry

import (
	"context"
	"errors"

	"github.com/ezachrisen/audience"
)

type multiTracker []audience.Tracker

// Multi returns a tracker that sends every event to each of the trackers,
// in order. All trackers see the event even if some fail; the errors are
// joined.
func Multi(trackers ...audience.Tracker) audience.Tracker {
	return multiTracker(trackers)
}

func (m multiTracker) Track(ctx context.Context, kind string, payload map[string]any) error {
	var errs []error
	for _, t := range m {
		if err := t.Track(ctx, kind, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ audience.Tracker = (*OTelTracker)(nil)
	_ audience.Tracker = (*PrometheusTracker)(nil)
	_ audience.Tracker = multiTracker(nil)
)
