package choices

import "go.uber.org/zap"

// NewZapLogger adapts a zap logger. Failures log at error level, stale
// results at warn and everything else at debug.
func NewZapLogger(logger *zap.Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return zapLogger{logger: logger.Named("choices")}
}

type zapLogger struct {
	logger *zap.Logger
}

func (z zapLogger) Log(event LogEvent) {
	fields := []zap.Field{
		zap.String("controller", event.Controller),
		zap.String("op", event.Op),
		zap.Duration("duration", event.Duration),
	}
	if event.Search != "" {
		fields = append(fields, zap.String("search", event.Search))
	}
	if event.Limit > 0 {
		fields = append(fields, zap.Int("offset", event.Offset), zap.Int("limit", event.Limit))
	}
	if event.Engine != "" {
		fields = append(fields, zap.String("engine", event.Engine), zap.String("expr", event.Expr))
	}
	if event.IDs > 0 {
		fields = append(fields, zap.Int("ids", event.IDs))
	}
	if event.Shared {
		fields = append(fields, zap.Bool("shared", true))
	}
	if event.RequestID > 0 {
		fields = append(fields, zap.Uint64("request_id", event.RequestID))
	}

	switch {
	case event.Err != nil:
		z.logger.Error("choices operation failed", append(fields, zap.Error(event.Err), zap.Bool("stale", event.Stale))...)
	case event.Stale:
		z.logger.Warn("choices result discarded", fields...)
	default:
		z.logger.Debug("choices operation", fields...)
	}
}
