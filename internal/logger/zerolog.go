package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologAdapter writes Logger calls as zerolog events carrying a
// "component" field.
type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerolog(writer io.Writer, level zerolog.Level) *ZerologAdapter {
	return &ZerologAdapter{
		logger: zerolog.New(writer).Level(level).With().Timestamp().Logger(),
	}
}

// New logs to stderr, human readable unless useJSON is set.
func New(level LogLevel, useJSON bool) *ZerologAdapter {
	var out io.Writer = os.Stderr
	if !useJSON {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return NewZerolog(out, level.zerolog())
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	emit(z.logger.Info(), component, fields, message)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	emit(z.logger.Error().Err(err), component, fields, "operation failed")
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	emit(z.logger.Warn(), component, fields, message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	emit(z.logger.Debug(), component, fields, message)
}

// emit is a no-op for events below the logger's level, which zerolog
// returns as nil.
func emit(event *zerolog.Event, component string, fields map[string]interface{}, message string) {
	event.Str("component", component).Fields(fields).Msg(message)
}
