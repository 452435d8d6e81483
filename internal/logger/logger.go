// Package logger builds the zerolog logger shared by the server and its
// startup tasks.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"medtrack/m/internal/config"
)

// New returns a logger writing to stdout.
func New(cfg config.LogConfig, env string) zerolog.Logger {
	return NewWithWriter(os.Stdout, cfg, env)
}

// NewWithWriter returns a logger writing to w. The console format is meant
// for local development, json for everything else.
func NewWithWriter(w io.Writer, cfg config.LogConfig, env string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "medtrack").
		Str("env", env).
		Logger()
}
