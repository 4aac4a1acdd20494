// Package zlog adapts zerolog to the kratos log.Logger interface.
package zlog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/rs/zerolog"
)

var _ log.Logger = (*Logger)(nil)

// Logger writes kratos key/value records as zerolog events.
type Logger struct {
	zl zerolog.Logger
}

// New returns a Logger writing to w. format "console" gives human readable
// output; anything else is JSON.
func New(w io.Writer, format string) *Logger {
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return &Logger{zl: zerolog.New(w)}
}

// Log implements log.Logger.
func (l *Logger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	event := l.zl.WithLevel(zerologLevel(level))
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		switch v := keyvals[i+1].(type) {
		case error:
			event = event.AnErr(key, v)
		case fmt.Stringer:
			event = event.Stringer(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	event.Send()
	return nil
}

func zerologLevel(level log.Level) zerolog.Level {
	switch level {
	case log.LevelDebug:
		return zerolog.DebugLevel
	case log.LevelInfo:
		return zerolog.InfoLevel
	case log.LevelWarn:
		return zerolog.WarnLevel
	case log.LevelError:
		return zerolog.ErrorLevel
	case log.LevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.NoLevel
	}
}

// NewLogger builds the process logger: zerolog output, the standard kratos
// fields, filtered at level.
func NewLogger(w io.Writer, format, level, id, name, version string) log.Logger {
	logger := log.With(New(w, format),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", name,
		"service.version", version,
	)
	return log.NewFilter(logger, log.FilterLevel(log.ParseLevel(level)))
}
