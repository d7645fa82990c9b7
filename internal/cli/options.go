package cli

import (
	"time"

	"github.com/aretw0/tropelink/internal/config"
)

// Options carries command line overrides. Nil or empty fields keep the configured value.
type Options struct {
	ConfigPath    string
	Debug         bool
	Policy        string
	MaxExpansions *int
	Delay         *time.Duration
	Graph         string
	CacheBackend  string
	Format        string
	// Quiet keeps info logs off stderr while a report is printed.
	Quiet bool
}

// LoadConfig reads the configuration file and environment, then applies flag overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Policy != "" {
		cfg.Policy = opts.Policy
	}
	if opts.MaxExpansions != nil {
		cfg.MaxExpansions = *opts.MaxExpansions
	}
	if opts.Delay != nil {
		cfg.Wiki.Delay = *opts.Delay
	}
	if opts.Graph != "" {
		cfg.Graph = opts.Graph
	}
	if opts.CacheBackend != "" {
		cfg.Cache.Backend = opts.CacheBackend
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
