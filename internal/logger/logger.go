// Package logger configures the process-wide zerolog logger.  Handlers and
// background workers obtain child loggers through With so that every line
// carries a component field.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the root logger for the application.  Init must be called once
// at startup before any child loggers are created.
var Logger zerolog.Logger

// Init configures the global level and output format from LOG_LEVEL and
// LOG_JSON.  Console output with timestamps is the default; JSON output is
// intended for production log shipping.
func Init() {
	level := zerolog.InfoLevel
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("LOG_JSON") == "true" {
		Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// With returns a child logger tagged with the given component name.
func With(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
