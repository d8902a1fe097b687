// Package logging builds the zap logger shared by the viewer packages.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the level, destination and encoding.
type Options struct {
	Level  string // debug, info, warn, error
	File   string // empty logs to stderr
	Format string // json or console
}

// Validate reports an unknown level or format.
func (o Options) Validate() error {
	_, err := o.level()
	if err != nil {
		return err
	}
	switch o.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("log format %q: want json or console", o.Format)
}

func (o Options) level() (zapcore.Level, error) {
	if o.Level == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(o.Level))
	if err != nil {
		return level, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	level, _ := opts.level()

	config := zap.NewProductionConfig()
	if opts.Format != "json" {
		config = zap.NewDevelopmentConfig()
		config.Development = false
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.Sampling = nil
	if opts.File != "" {
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ForTerminal is New for commands that own the terminal: without a log
// file nothing is written, so log lines never tear the rendered frame.
func ForTerminal(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewNop(), nil
	}
	return New(opts)
}
