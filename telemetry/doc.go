// Package telemetry provides audience.Tracker implementations that record
// audience events as OpenTelemetry metrics and span events, or as Prometheus
// counters.
//
// Use Multi to send events to more than one backend.
package telemetry
