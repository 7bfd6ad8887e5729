// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure New.
type Options struct {
	Level string
	// NoColor disables level colouring in the console encoder.
	NoColor bool
	// Out receives the log lines. Defaults to stderr.
	Out io.Writer
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %q (expected debug, info, warn or error)", s)
}

// New returns a console logger without timestamps or caller information.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	enc := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		NameKey:          "logger",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if opts.NoColor {
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(out), lvl)
	return zap.New(core), nil
}

// GWTLogLevel maps the logger's enabled level to a GWT -logLevel value.
func GWTLogLevel(log *zap.Logger) string {
	switch {
	case log.Core().Enabled(zapcore.DebugLevel):
		return "DEBUG"
	case log.Core().Enabled(zapcore.InfoLevel):
		return "INFO"
	case log.Core().Enabled(zapcore.WarnLevel):
		return "WARN"
	}
	return "ERROR"
}
