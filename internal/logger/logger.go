// Package logger builds the structured logger shared by flybydb's
// components.
package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Config selects level, format and destination.
type Config struct {
	Level  string // debug, info, warn or error; empty means info
	JSON   bool
	Output io.Writer
}

// New returns a logger for cfg. Unknown levels fall back to info.
func New(cfg Config) *charmlog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	level, err := charmlog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = charmlog.InfoLevel
	}

	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "flybydb",
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return l
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *charmlog.Logger {
	return charmlog.NewWithOptions(io.Discard, charmlog.Options{Level: charmlog.FatalLevel})
}
