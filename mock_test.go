package audience_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ezachrisen/audience"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// -------------------------------------------------- MOCK EVALUATOR
// mockEvaluator is used for testing.
// It returns a fixed result or error and captures the expressions and
// options it was called with.
type mockEvaluator struct {
	mu     sync.Mutex
	calls  []evaluation
	result any
	err    error
}

type evaluation struct {
	expr string
	opts audience.Options
}

func newMockEvaluator(result any, err error) *mockEvaluator {
	return &mockEvaluator{result: result, err: err}
}

func (m *mockEvaluator) Evaluate(_ context.Context, expr string, opts audience.Options) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, evaluation{expr: expr, opts: opts})
	return m.result, m.err
}

func (m *mockEvaluator) Calls() []evaluation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]evaluation(nil), m.calls...)
}

// -------------------------------------------------- MOCK TRACKER
// mockTracker records the events it receives and returns err.
// Every call is also sent on the tracked channel.
type mockTracker struct {
	err     error
	tracked chan trackedEvent
}

type trackedEvent struct {
	kind    string
	payload map[string]any
	ctxErr  error
}

func newMockTracker(err error) *mockTracker {
	return &mockTracker{err: err, tracked: make(chan trackedEvent, 10)}
}

func (m *mockTracker) Track(ctx context.Context, kind string, payload map[string]any) error {
	m.tracked <- trackedEvent{kind: kind, payload: payload, ctxErr: ctx.Err()}
	return m.err
}

// next waits for the next tracked event.
func (m *mockTracker) next(t *testing.T) trackedEvent {
	t.Helper()
	select {
	case e := <-m.tracked:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tracked event")
		return trackedEvent{}
	}
}

// none fails if an event is tracked within a short time.
func (m *mockTracker) none(t *testing.T) {
	t.Helper()
	select {
	case e := <-m.tracked:
		t.Fatalf("unexpected tracked event %s: %v", e.kind, e.payload)
	case <-time.After(50 * time.Millisecond):
	}
}

// newObservedLogger returns a Logger whose messages can be inspected.
func newObservedLogger() (audience.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return audience.NewZapLogger(zap.New(core)), logs
}

// messages returns the messages logged at the level.
func messages(logs *observer.ObservedLogs, level zapcore.Level) []string {
	var m []string
	for _, e := range logs.All() {
		if e.Level == level {
			m = append(m, e.Message)
		}
	}
	return m
}

// waitForMessage polls until msg is logged at the level, or fails after 2 seconds.
func waitForMessage(t *testing.T, logs *observer.ObservedLogs, level zapcore.Level, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, m := range messages(logs, level) {
			if m == msg {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("message %q was not logged at level %s; got %v", msg, level, logs.All())
}
