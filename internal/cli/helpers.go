package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/aretw0/tropelink/internal/logging"
	"github.com/aretw0/tropelink/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Debug forces debug level; otherwise the configured level applies, raised to warnings when quiet.
// Logs go to Stderr.
func createLogger(debug, quiet bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	if quiet && lvl < slog.LevelWarn {
		lvl = slog.LevelWarn
	}
	return logging.New(lvl)
}

func createDebugHooks(logger *slog.Logger) domain.SearchHooks {
	return domain.SearchHooks{
		OnSearchStart: func(ctx context.Context, e *domain.SearchEvent) {
			logger.Debug("Search Start", "source", e.Source, "target", e.Target)
		},
		OnExpand: func(ctx context.Context, e *domain.ExpandEvent) {
			if e.Err != nil {
				logger.Debug("Expand (Error)", "entity", e.Entity, "depth", e.Depth, "err", e.Err)
				return
			}
			logger.Debug("Expand", "entity", e.Entity, "depth", e.Depth, "neighbors", e.Neighbors, "duration", e.Duration)
		},
		OnSearchEnd: func(ctx context.Context, e *domain.SearchEvent) {
			logger.Debug("Search End", "outcome", e.Outcome, "explored", e.Explored, "duration", e.Duration)
		},
	}
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f any) bool {
	file, ok := f.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// isInterrupted reports a user interruption: a cancelled run or a prompt whose input ended.
// Transport errors such as a dropped connection are failures, not interruptions.
func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrPromptClosed)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
