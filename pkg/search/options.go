package search

import (
	"log/slog"

	"github.com/aretw0/tropelink/pkg/domain"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithPolicy sets the frontier removal policy (default: breadth-first).
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.SearchHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxExpansions caps how many entities a single search may expand. Zero means unlimited.
func WithMaxExpansions(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxExpansions = n
		}
	}
}
