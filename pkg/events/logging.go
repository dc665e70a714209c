package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/ghuser/volunteerhub/pkg/logger"
)

// watermillLogger feeds Watermill's internal logs into logger.Logger. Trace
// output is folded into debug.
type watermillLogger struct{ log logger.Logger }

var _ watermill.LoggerAdapter = (*watermillLogger)(nil)

func (w *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.log.Error(msg, append(logArgs(fields), "error", err)...)
}

func (w *watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.log.Info(msg, logArgs(fields)...)
}

func (w *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, logArgs(fields)...)
}

func (w *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, logArgs(fields)...)
}

func (w *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: w.log.With(logArgs(fields)...)}
}

func logArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
