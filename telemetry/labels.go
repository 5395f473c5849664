package telemetry

// labels are the dimensions recorded for every event.
type labels struct {
	kind      string
	name      string
	audience  string
	errorType string
}

// eventLabels extracts the labels from an event payload. Missing fields
// are recorded as empty strings.
func eventLabels(kind string, payload map[string]any) labels {
	l := labels{kind: kind}
	l.name, _ = payload["name"].(string)
	l.audience, _ = payload["audience"].(string)
	if details, ok := payload["details"].(map[string]any); ok {
		l.errorType, _ = details["errorType"].(string)
	}
	return l
}
