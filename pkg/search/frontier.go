package search

import (
	"fmt"
	"strings"

	"github.com/aretw0/tropelink/pkg/domain"
)

// Policy selects the order in which frontier nodes are removed.
type Policy string

const (
	// PolicyBreadthFirst removes the oldest node first (queue). Finds shortest paths.
	PolicyBreadthFirst Policy = "bfs"
	// PolicyDepthFirst removes the newest node first (stack). Finds a path, not necessarily the shortest.
	PolicyDepthFirst Policy = "dfs"
)

// ParsePolicy accepts "bfs"/"breadth-first"/"queue" and "dfs"/"depth-first"/"stack".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bfs", "breadth-first", "queue":
		return PolicyBreadthFirst, nil
	case "dfs", "depth-first", "stack":
		return PolicyDepthFirst, nil
	default:
		return "", fmt.Errorf("unknown frontier policy %q (expected bfs or dfs)", s)
	}
}

// Frontier is the ordered collection of discovered but unexplored nodes.
// Duplicate states are not rejected here; the engine checks ContainsState before adding.
type Frontier interface {
	Add(node *domain.Node)
	Remove() (*domain.Node, error)
	ContainsState(state string) bool
	Empty() bool
	Len() int
}

// NewFrontier returns an empty frontier for the given policy.
func NewFrontier(p Policy) Frontier {
	if p == PolicyDepthFirst {
		return NewStackFrontier()
	}
	return NewQueueFrontier()
}

// index counts held nodes per state so membership is O(1).
type index map[string]int

func (ix index) add(state string) { ix[state]++ }

func (ix index) remove(state string) {
	if ix[state] <= 1 {
		delete(ix, state)
		return
	}
	ix[state]--
}

// StackFrontier removes the most recently added node first.
type StackFrontier struct {
	nodes  []*domain.Node
	states index
}

// NewStackFrontier creates an empty LIFO frontier.
func NewStackFrontier() *StackFrontier {
	return &StackFrontier{states: make(index)}
}

func (f *StackFrontier) Add(node *domain.Node) {
	f.nodes = append(f.nodes, node)
	f.states.add(node.State)
}

func (f *StackFrontier) Remove() (*domain.Node, error) {
	if len(f.nodes) == 0 {
		return nil, domain.ErrEmptyFrontier
	}
	last := len(f.nodes) - 1
	node := f.nodes[last]
	f.nodes[last] = nil
	f.nodes = f.nodes[:last]
	f.states.remove(node.State)
	return node, nil
}

func (f *StackFrontier) ContainsState(state string) bool {
	_, ok := f.states[state]
	return ok
}

func (f *StackFrontier) Empty() bool { return len(f.nodes) == 0 }

func (f *StackFrontier) Len() int { return len(f.nodes) }

// QueueFrontier removes the earliest added node first.
type QueueFrontier struct {
	nodes  []*domain.Node
	head   int
	states index
}

// NewQueueFrontier creates an empty FIFO frontier.
func NewQueueFrontier() *QueueFrontier {
	return &QueueFrontier{states: make(index)}
}

func (f *QueueFrontier) Add(node *domain.Node) {
	f.nodes = append(f.nodes, node)
	f.states.add(node.State)
}

func (f *QueueFrontier) Remove() (*domain.Node, error) {
	if f.Empty() {
		return nil, domain.ErrEmptyFrontier
	}
	node := f.nodes[f.head]
	f.nodes[f.head] = nil
	f.head++
	// Compact once the consumed prefix dominates the backing array.
	if f.head > 64 && f.head*2 >= len(f.nodes) {
		f.nodes = append([]*domain.Node(nil), f.nodes[f.head:]...)
		f.head = 0
	}
	f.states.remove(node.State)
	return node, nil
}

func (f *QueueFrontier) ContainsState(state string) bool {
	_, ok := f.states[state]
	return ok
}

func (f *QueueFrontier) Empty() bool { return f.head >= len(f.nodes) }

func (f *QueueFrontier) Len() int { return len(f.nodes) - f.head }
