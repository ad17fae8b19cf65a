// Package logging builds the process logger.
//
// Components log through github.com/go-logr/logr. The sink is zap, encoded as
// JSON, or as human-readable console output when writing to a terminal.
package logging

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Options configures New.
type Options struct {
	// Level is a zap level name: debug, info, warn or error.
	Level  string
	Format Format
}

// New returns a logger writing to out. The returned function flushes
// buffered entries and should be deferred by the caller.
func New(out *os.File, opts Options) (logr.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return logr.Discard(), func() {}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	encoder, err := newEncoder(out, opts.Format)
	if err != nil {
		return logr.Discard(), func() {}, err
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(out), zap.NewAtomicLevelAt(level))
	zl := zap.New(core, zap.AddCaller())

	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}

func newEncoder(out *os.File, format Format) (zapcore.Encoder, error) {
	switch format {
	case FormatJSON:
		return zapcore.NewJSONEncoder(productionEncoderConfig()), nil
	case FormatConsole:
		return zapcore.NewConsoleEncoder(consoleEncoderConfig()), nil
	case FormatAuto, "":
		if isTerminal(out) {
			return zapcore.NewConsoleEncoder(consoleEncoderConfig()), nil
		}
		return zapcore.NewJSONEncoder(productionEncoderConfig()), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (expected auto, json or console)", format)
	}
}

func productionEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
