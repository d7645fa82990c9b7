// Package redis provides a shared neighbor cache backed by Redis, so that several
// processes (or successive requests of a long running server) reuse discovered edges.
package redis
