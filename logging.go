package choices

import "time"

// LogEvent describes a collaborator call or a notable controller decision.
type LogEvent struct {
	Controller string
	Op         string
	Search     string
	Engine     string
	Expr       string
	Offset     int
	Limit      int
	IDs        int
	RequestID  uint64
	Duration   time.Duration
	Stale      bool
	Shared     bool
	Err        error
}

// Logger records controller events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// WithLogger attaches a logger to the controller.
func WithLogger(logger Logger) ControllerOption {
	return func(cfg *controllerConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
