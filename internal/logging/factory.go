// Package logging builds the zap loggers used by ecrtool.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported logging granularities.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported logger output encodings.
type Format string

const (
	FormatStructured Format = "structured"
	FormatConsole    Format = "console"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var encodings = map[Format]string{
	FormatStructured: "json",
	FormatConsole:    "console",
}

// ValidLevel reports whether level is supported.
func ValidLevel(level Level) bool {
	_, ok := levels[level]
	return ok
}

// ValidFormat reports whether format is supported.
func ValidFormat(format Format) bool {
	_, ok := encodings[format]
	return ok
}

// Factory builds zap.Logger instances with consistent configuration.
type Factory struct {
	// OutputPaths overrides the production default of stderr.
	OutputPaths []string
}

// NewFactory constructs a factory writing to stderr.
func NewFactory() *Factory {
	return &Factory{}
}

// CreateLogger produces a zap.Logger honoring the requested level and format.
func (f *Factory) CreateLogger(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}

	encoding, ok := encodings[format]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = encoding
	cfg.DisableStacktrace = true
	if format == FormatConsole {
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if len(f.OutputPaths) > 0 {
		cfg.OutputPaths = f.OutputPaths
	}

	return cfg.Build()
}
