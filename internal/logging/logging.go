// Package logging builds the logr.Logger used across the planner.
//
// The planner logs through the logr interface backed by zap, so library
// packages stay decoupled from the concrete logging implementation.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Development switches to a human-readable console encoder with
	// debug-level output enabled.
	Development bool

	// Verbosity maps to logr V-levels; 0 logs only top-level run
	// summaries.
	Verbosity int
}

// New constructs a zap-backed logr.Logger.
func New(opts Options) (logr.Logger, error) {
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// logr V-levels are inverted zap levels.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-opts.Verbosity))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}
