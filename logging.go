package attrs

import "time"

// ChangeLogEvent describes one mutation dispatch for logging.
type ChangeLogEvent struct {
	Verb     Verb
	Key      string
	Engine   string
	Expr     string
	Duration time.Duration
	Err      error
}

// ChangeLogger records mutation dispatch events.
type ChangeLogger interface {
	LogChange(ChangeLogEvent)
}

// ChangeLoggerFunc adapts a function to ChangeLogger.
type ChangeLoggerFunc func(ChangeLogEvent)

// LogChange implements ChangeLogger.
func (f ChangeLoggerFunc) LogChange(event ChangeLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopChangeLogger struct{}

func (noopChangeLogger) LogChange(ChangeLogEvent) {}

// WithChangeLogger attaches a change logger to the wrapper.
func WithChangeLogger(logger ChangeLogger) Option {
	return func(cfg *observableConfig) {
		if logger == nil {
			cfg.logger = noopChangeLogger{}
			return
		}
		cfg.logger = logger
	}
}
