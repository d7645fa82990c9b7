// Package search implements the uninformed graph search at the core of tropelink.
//
// The graph is implicit: edges are revealed one entity at a time by a ports.NeighborSource.
// The Engine seeds a Frontier with the source entity, expands nodes one by one, skips
// entities already explored or waiting in the frontier, and stops as soon as the target
// is generated as a child. The chain is then rebuilt by walking parent links.
//
// Two frontier policies are available. PolicyBreadthFirst (the default) guarantees the
// returned chain is a shortest one. PolicyDepthFirst only guarantees that a chain is
// found when one exists.
package search
