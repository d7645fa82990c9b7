package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyFrontier is returned when Remove is called on a frontier with no nodes.
// The engine checks Empty first, so seeing it means a broken caller.
var ErrEmptyFrontier = errors.New("empty frontier")

// ErrInvalidEndpoint is returned when a source or target does not denote a real entity.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// ErrLookupFailure marks errors raised while discovering the neighbors of an entity.
var ErrLookupFailure = errors.New("neighbor lookup failed")

// ErrSearchLimit is returned when a search expands more entities than allowed.
var ErrSearchLimit = errors.New("search expansion limit reached")

// ErrNotFound is returned by caches and stores when a key is absent.
var ErrNotFound = errors.New("not found")

// LookupError wraps a failed neighbor discovery for a given entity.
type LookupError struct {
	Entity string
	URL    string
	Err    error
}

func (e *LookupError) Error() string {
	if e.URL != "" && e.URL != e.Entity {
		return fmt.Sprintf("lookup %s (%s): %v", e.Entity, e.URL, e.Err)
	}
	return fmt.Sprintf("lookup %s: %v", e.Entity, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrLookupFailure) match any LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookupFailure
}

// NewLookupError builds a LookupError, reusing err if it already is one.
func NewLookupError(entity string, err error) error {
	var le *LookupError
	if errors.As(err, &le) {
		return err
	}
	return &LookupError{Entity: entity, Err: err}
}

// EndpointError names which endpoint of a search failed validation.
type EndpointError struct {
	Role  string // "source" or "target"
	Input string
	Err   error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Role, e.Input, e.Err)
}

func (e *EndpointError) Unwrap() error { return e.Err }
