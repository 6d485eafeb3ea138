package logging

import (
	"github.com/rs/zerolog"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
)

// ContextLogger lets application handlers log through zerolog without
// importing it. Request-scoped fields such as the request id are carried
// by the wrapped logger.
type ContextLogger struct {
	log zerolog.Logger
}

var _ common.HandlerLogger = (*ContextLogger)(nil)

// NewContextLogger wraps a zerolog logger
func NewContextLogger(log zerolog.Logger) *ContextLogger {
	return &ContextLogger{log: log}
}

// Log writes message at level with metadata as fields
func (l *ContextLogger) Log(level, message string, metadata map[string]interface{}) {
	var ev *zerolog.Event
	switch level {
	case common.LevelDebug:
		ev = l.log.Debug()
	case common.LevelWarn:
		ev = l.log.Warn()
	case common.LevelError:
		ev = l.log.Error()
	default:
		ev = l.log.Info()
	}
	if len(metadata) > 0 {
		ev = ev.Fields(metadata)
	}
	ev.Msg(message)
}
