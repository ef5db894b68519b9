package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// parseLevel converts a string log level to a zerolog level. Unknown names
// fall back to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Setup returns a console logger writing to w at the given level.
func Setup(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).Level(parseLevel(level)).With().Timestamp().Logger()
}

// SetupMulti fans out to several writers, e.g. stderr and a log file.
func SetupMulti(level string, writers ...io.Writer) zerolog.Logger {
	outs := make([]io.Writer, len(writers))
	for i, w := range writers {
		outs[i] = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(zerolog.MultiLevelWriter(outs...)).
		Level(parseLevel(level)).With().Timestamp().Logger()
}
