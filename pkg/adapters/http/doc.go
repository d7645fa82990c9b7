// Package http exposes connection searches over a small JSON API built on chi.
package http
