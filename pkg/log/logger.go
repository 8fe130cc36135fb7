// Package log configures zerolog for the analysis binary and hands out
// per-component loggers.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var root = zerolog.New(consoleWriter(os.Stderr)).With().Timestamp().Logger()

// Setup sets the global log level. Valid levels are debug, info, warn and
// error.
func Setup(level string) error {
	lv, err := toLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lv)
	return nil
}

// SetOutput redirects all loggers, mainly for tests.
func SetOutput(w io.Writer) {
	root = zerolog.New(w).With().Timestamp().Logger()
}

// Component returns a logger tagged with a pipeline component name.
func Component(name string) zerolog.Logger {
	return root.With().Str("component", name).Logger()
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
}

func toLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}
