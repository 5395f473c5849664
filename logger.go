package audience

import "go.uber.org/zap"

// Logger receives the messages the Resolver produces while evaluating
// audiences. Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger returns a Logger that writes to l.
// A nil l discards all messages.
func NewZapLogger(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{l: l.Named("audience")}
}

func (z zapLogger) Debug(msg string) { z.l.Debug(msg) }
func (z zapLogger) Info(msg string)  { z.l.Info(msg) }
func (z zapLogger) Warn(msg string)  { z.l.Warn(msg) }
func (z zapLogger) Error(msg string) { z.l.Error(msg) }
