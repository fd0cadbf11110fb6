package rtsim

import "log/slog"

// Config holds run settings.
type Config struct {
	Logger *slog.Logger
	// MaxTicks bounds the run. Zero sizes the budget to exactly one
	// presentation plus the lead-in.
	MaxTicks int
	// LeadIn is the number of idle ticks before the stimulus is applied.
	LeadIn int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a silent configuration with an automatic tick budget.
func DefaultConfig() Config {
	return Config{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// WithMaxTicks caps the number of simulated ticks.
func WithMaxTicks(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxTicks = n
		}
	}
}

// WithLeadIn delays the stimulus by n idle ticks.
func WithLeadIn(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.LeadIn = n
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
