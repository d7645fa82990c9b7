// Package cache memoizes neighbor lookups in front of any ports.NeighborSource.
//
// The backing store is any ports.NeighborCache: memory.Store for a single run,
// redis.NeighborStore to share discovered edges between processes.
package cache
