// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Output formats accepted by Setup
const (
	FormatText = "text"
	FormatJSON = "json"
)

// logLevels maps log level names to slog.Level values.
var logLevels = map[string]slog.Level{
	"trace":   slog.LevelDebug,
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel resolves a level name, case-insensitively
func ParseLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

// Setup builds a logger for w and installs it as the slog default.
func Setup(w io.Writer, level, format string, noColor bool) (*slog.Logger, error) {
	logLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var logger *slog.Logger
	switch strings.ToLower(format) {
	case "", FormatText:
		logger = NewTextLogger(w, logLevel, noColor)
	case FormatJSON:
		logger = NewJSONLogger(w, logLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	slog.SetDefault(logger)
	return logger, nil
}

// NewTextLogger returns a tint logger, colored only when w is a terminal
func NewTextLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	if f, ok := w.(*os.File); ok {
		noColor = noColor || !isatty.IsTerminal(f.Fd()) || os.Getenv("NO_COLOR") != ""
		w = colorable.NewColorable(f)
	} else {
		noColor = true
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}))
}

// NewJSONLogger returns a JSON logger; source locations are added at debug level
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
	}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
