package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/tropelink/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Graph implements ports.NeighborSource, ports.EndpointValidator and ports.NameResolver
// over an explicit edge list held in memory. It records how often each entity is expanded,
// which makes it the reference collaborator for engine tests and offline runs.
// Safe for concurrent use.
type Graph struct {
	mu       sync.RWMutex
	edges    map[string][]domain.Edge
	names    map[string]string
	failures map[string]error
	calls    map[string]int
	total    int
	failAt   int
	failErr  error
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		edges:    make(map[string][]domain.Edge),
		names:    make(map[string]string),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// AddEdge adds a directed edge from -> to labelled with relation.
func (g *Graph) AddEdge(from, relation, to string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[from] = append(g.edges[from], domain.Edge{Relation: relation, Entity: to})
	if _, ok := g.edges[to]; !ok {
		g.edges[to] = nil
	}
	return g
}

// AddLink adds edges in both directions, which is how shared relations behave.
func (g *Graph) AddLink(a, relation, b string) *Graph {
	g.AddEdge(a, relation, b)
	return g.AddEdge(b, relation, a)
}

// SetName registers a display name for an identifier.
func (g *Graph) SetName(id, name string) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.names[id] = name
	return g
}

// FailOn makes every lookup of entity fail with err.
func (g *Graph) FailOn(entity string, err error) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[entity] = err
	return g
}

// FailOnCall makes the n-th lookup (1-based, across all entities) fail with err.
func (g *Graph) FailOnCall(n int, err error) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failAt = n
	g.failErr = err
	return g
}

// Neighbors returns the deduplicated outgoing edges of entity.
func (g *Graph) Neighbors(ctx context.Context, entity string) ([]domain.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.calls[entity]++
	g.total++
	call := g.total
	failErr, failing := g.failures[entity]
	if !failing && g.failAt > 0 && call == g.failAt {
		failErr, failing = g.failErr, true
	}
	edges := append([]domain.Edge(nil), g.edges[entity]...)
	g.mu.Unlock()

	if failing {
		return nil, &domain.LookupError{Entity: entity, Err: failErr}
	}
	return domain.DedupeEdges(entity, edges), nil
}

// Calls returns how many times entity was passed to Neighbors.
func (g *Graph) Calls(entity string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.calls[entity]
}

// TotalCalls returns the number of Neighbors calls across all entities.
func (g *Graph) TotalCalls() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.total
}

// Validate accepts any identifier that appears in the graph, ignoring surrounding whitespace.
func (g *Graph) Validate(ctx context.Context, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.edges[id]; ok {
		return id, nil
	}
	if _, ok := g.names[id]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q is not in the graph", domain.ErrInvalidEndpoint, raw)
}

// DisplayName returns the registered name, falling back to the identifier itself.
func (g *Graph) DisplayName(ctx context.Context, id string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if name, ok := g.names[id]; ok {
		return name, nil
	}
	return id, nil
}

// Entities returns all known identifiers in sorted order.
func (g *Graph) Entities() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.edges))
	for k := range g.edges {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}

// EdgeSpec is one edge of a graph file.
type EdgeSpec struct {
	From     string `yaml:"from" json:"from"`
	Relation string `yaml:"relation" json:"relation"`
	To       string `yaml:"to" json:"to"`
	Directed bool   `yaml:"directed" json:"directed"`
}

// GraphFile represents the structure of a graph YAML file.
type GraphFile struct {
	Edges []EdgeSpec        `yaml:"edges" json:"edges"`
	Names map[string]string `yaml:"names" json:"names"`
}

// LoadGraph reads a YAML (or JSON, which is valid YAML) edge list.
// Edges are bidirectional unless marked directed.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	var file GraphFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse graph file: %w", err)
	}

	g := NewGraph()
	for i, e := range file.Edges {
		if e.From == "" || e.To == "" || e.Relation == "" {
			return nil, fmt.Errorf("graph file edge %d: from, relation and to are required", i)
		}
		if e.Directed {
			g.AddEdge(e.From, e.Relation, e.To)
		} else {
			g.AddLink(e.From, e.Relation, e.To)
		}
	}
	for id, name := range file.Names {
		g.SetName(id, name)
	}
	return g, nil
}
