package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

// Engine finds chains of relations between entities of a graph that is only known
// through a NeighborSource. An Engine holds no per-search state and is safe to share;
// each Search call owns its own frontier and explored set.
type Engine struct {
	source        ports.NeighborSource
	policy        Policy
	logger        *slog.Logger
	hooks         domain.SearchHooks
	maxExpansions int
}

// New creates a search engine over the given neighbor source.
func New(source ports.NeighborSource, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		policy: PolicyBreadthFirst,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the frontier policy in use.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Search looks for a chain of relations from source to target.
//
// Under the breadth-first policy the returned chain is a shortest one. Under the
// depth-first policy it is only the first chain the exploration happens to reach.
// "No path" and "same entity" are successful outcomes reported in the Path;
// an error means the search could not complete (lookup failure, cancellation, limit).
func (e *Engine) Search(ctx context.Context, source, target string) (*domain.Path, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: source and target must be non-empty", domain.ErrInvalidEndpoint)
	}

	started := time.Now()
	e.fireStart(ctx, source, target)

	path, err := e.search(ctx, source, target)

	ev := &domain.SearchEvent{
		Source:   source,
		Target:   target,
		Duration: time.Since(started),
		Err:      err,
	}
	if path != nil {
		ev.Outcome = path.Outcome
		ev.Explored = path.Explored
	}
	if e.hooks.OnSearchEnd != nil {
		e.hooks.OnSearchEnd(ctx, ev)
	}

	if err != nil {
		e.logger.Warn("Search failed", "source", source, "target", target, "error", err)
		return nil, err
	}
	e.logger.Info("Search finished",
		"source", source,
		"target", target,
		"outcome", path.Outcome,
		"degrees", path.Degrees(),
		"explored", path.Explored,
		"policy", e.policy,
	)
	return path, nil
}

func (e *Engine) search(ctx context.Context, source, target string) (*domain.Path, error) {
	if source == target {
		return &domain.Path{Source: source, Target: target, Outcome: domain.OutcomeSameEntity}, nil
	}

	frontier := NewFrontier(e.policy)
	frontier.Add(domain.NewRootNode(source))
	explored := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if frontier.Empty() {
			return &domain.Path{
				Source:   source,
				Target:   target,
				Outcome:  domain.OutcomeNoPath,
				Explored: len(explored),
			}, nil
		}

		if e.maxExpansions > 0 && len(explored) >= e.maxExpansions {
			return nil, fmt.Errorf("%w: %d entities explored", domain.ErrSearchLimit, len(explored))
		}

		node, err := frontier.Remove()
		if err != nil {
			return nil, fmt.Errorf("removing frontier node: %w", err)
		}
		explored[node.State] = struct{}{}

		edges, err := e.expand(ctx, node)
		if err != nil {
			return nil, err
		}

		for _, edge := range edges {
			if _, seen := explored[edge.Entity]; seen || frontier.ContainsState(edge.Entity) {
				continue
			}

			child := domain.NewNode(edge.Entity, node, edge.Relation)
			if child.State == target {
				return &domain.Path{
					Source:   source,
					Target:   target,
					Outcome:  domain.OutcomeFound,
					Steps:    reconstruct(child),
					Explored: len(explored),
				}, nil
			}
			frontier.Add(child)
		}
	}
}

// expand asks the neighbor source for the edges of node and reports the call through hooks.
func (e *Engine) expand(ctx context.Context, node *domain.Node) ([]domain.Edge, error) {
	depth := node.Depth()
	e.logger.Debug("Expanding entity", "entity", node.State, "depth", depth)

	started := time.Now()
	edges, err := e.source.Neighbors(ctx, node.State)

	if e.hooks.OnExpand != nil {
		e.hooks.OnExpand(ctx, &domain.ExpandEvent{
			Entity:    node.State,
			Depth:     depth,
			Neighbors: len(edges),
			Duration:  time.Since(started),
			Err:       err,
		})
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("expanding %s: %w", node.State, domain.NewLookupError(node.State, err))
	}
	return edges, nil
}

func (e *Engine) fireStart(ctx context.Context, source, target string) {
	if e.hooks.OnSearchStart != nil {
		e.hooks.OnSearchStart(ctx, &domain.SearchEvent{Source: source, Target: target})
	}
}

// reconstruct walks parent links from the goal node back to the root and returns the
// steps in source-to-target order.
func reconstruct(goal *domain.Node) []domain.Step {
	var steps []domain.Step
	for cur := goal; cur.Parent != nil; cur = cur.Parent {
		steps = append(steps, domain.Step{Relation: cur.Action, Entity: cur.State})
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
