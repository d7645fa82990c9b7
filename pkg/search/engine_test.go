package search_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/tropelink/pkg/adapters/memory"
	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertGenuineChain checks that every consecutive pair of the path is an edge of g.
func assertGenuineChain(t *testing.T, g *memory.Graph, path *domain.Path) {
	t.Helper()
	prev := path.Source
	for _, step := range path.Steps {
		edges, err := g.Neighbors(context.Background(), prev)
		require.NoError(t, err)
		assert.Contains(t, edges, domain.Edge{Relation: step.Relation, Entity: step.Entity},
			"%s -[%s]-> %s is not an edge", prev, step.Relation, step.Entity)
		prev = step.Entity
	}
	assert.Equal(t, path.Target, prev)
}

func TestEngine_SameEntity(t *testing.T) {
	g := memory.NewGraph().AddLink("S", "r", "A")
	engine := search.New(g)

	path, err := engine.Search(context.Background(), "S", "S")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSameEntity, path.Outcome)
	assert.Empty(t, path.Steps)
	assert.Equal(t, 0, g.TotalCalls(), "same-entity search must not touch the neighbor source")
}

func TestEngine_PrefersDirectEdge(t *testing.T) {
	// S -r1-> A -r2-> T and S -r3-> T: breadth-first must answer the single hop.
	g := memory.NewGraph().
		AddEdge("S", "r1", "A").
		AddEdge("A", "r2", "T").
		AddEdge("S", "r3", "T")

	path, err := search.New(g).Search(context.Background(), "S", "T")
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeFound, path.Outcome)
	assert.Equal(t, []domain.Step{{Relation: "r3", Entity: "T"}}, path.Steps)
}

func TestEngine_NoPath(t *testing.T) {
	g := memory.NewGraph().
		AddLink("S", "r1", "A").
		AddLink("A", "r2", "B").
		AddLink("T", "r3", "C")

	for _, policy := range []search.Policy{search.PolicyBreadthFirst, search.PolicyDepthFirst} {
		t.Run(string(policy), func(t *testing.T) {
			path, err := search.New(g, search.WithPolicy(policy)).Search(context.Background(), "S", "T")
			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeNoPath, path.Outcome)
			assert.Nil(t, path.Steps)
			assert.Equal(t, 3, path.Explored)
		})
	}
}

func TestEngine_EachEntityExpandedOnce(t *testing.T) {
	// Dense graph: many edges point at the same entities through different relations.
	g := memory.NewGraph()
	hub := []string{"A", "B", "C", "D"}
	for i, x := range hub {
		g.AddLink("S", fmt.Sprintf("s%d", i), x)
		for j, y := range hub {
			if x != y {
				g.AddLink(x, fmt.Sprintf("h%d%d", i, j), y)
			}
		}
	}
	g.AddLink("D", "last", "E")
	g.AddLink("E", "end", "T")

	path, err := search.New(g).Search(context.Background(), "S", "T")
	require.NoError(t, err)
	require.True(t, path.Found())
	assert.Equal(t, 3, path.Degrees())

	for _, e := range g.Entities() {
		assert.LessOrEqual(t, g.Calls(e), 1, "entity %s expanded more than once", e)
	}
}

func TestEngine_ShortestOnGrid(t *testing.T) {
	// 5x5 undirected grid, corner to corner: diameter 8.
	g := memory.NewGraph()
	id := func(x, y int) string { return fmt.Sprintf("%d,%d", x, y) }
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			if x < 4 {
				g.AddLink(id(x, y), "h", id(x+1, y))
			}
			if y < 4 {
				g.AddLink(id(x, y), "v", id(x, y+1))
			}
		}
	}

	engine := search.New(g)
	first, err := engine.Search(context.Background(), id(0, 0), id(4, 4))
	require.NoError(t, err)
	assert.Equal(t, 8, first.Degrees())
	assertGenuineChain(t, g, first)

	// Same graph, same length on every run.
	second, err := engine.Search(context.Background(), id(0, 0), id(4, 4))
	require.NoError(t, err)
	assert.Equal(t, first.Degrees(), second.Degrees())
}

func TestEngine_DepthFirstFindsAPath(t *testing.T) {
	// Depth-first only promises a path; it may be longer than the shortest one.
	g := memory.NewGraph().
		AddEdge("S", "a", "A").
		AddEdge("S", "z", "Z").
		AddEdge("Z", "z1", "Z1").
		AddEdge("Z1", "z2", "T").
		AddEdge("A", "a1", "T")

	path, err := search.New(g, search.WithPolicy(search.PolicyDepthFirst)).Search(context.Background(), "S", "T")
	require.NoError(t, err)
	require.True(t, path.Found())
	assertGenuineChain(t, g, path)
	assert.GreaterOrEqual(t, path.Degrees(), 2)

	bfs, err := search.New(g).Search(context.Background(), "S", "T")
	require.NoError(t, err)
	assert.Equal(t, 2, bfs.Degrees())
	assert.LessOrEqual(t, bfs.Degrees(), path.Degrees())
}

func TestEngine_LookupFailurePropagates(t *testing.T) {
	boom := errors.New("remote unavailable")
	g := memory.NewGraph().
		AddLink("S", "r1", "A").
		AddLink("A", "r2", "B").
		AddLink("B", "r3", "T").
		FailOnCall(2, boom)

	path, err := search.New(g).Search(context.Background(), "S", "T")

	assert.Nil(t, path, "no partial path on failure")
	assert.ErrorIs(t, err, domain.ErrLookupFailure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, g.TotalCalls())
}

func TestEngine_Cancellation(t *testing.T) {
	g := memory.NewGraph().AddLink("S", "r", "A").AddLink("A", "r", "T")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, err := search.New(g).Search(ctx, "S", "T")
	assert.Nil(t, path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, g.TotalCalls())
}

func TestEngine_MaxExpansions(t *testing.T) {
	g := memory.NewGraph()
	for i := 0; i < 10; i++ {
		g.AddLink(fmt.Sprintf("n%d", i), "next", fmt.Sprintf("n%d", i+1))
	}

	_, err := search.New(g, search.WithMaxExpansions(3)).Search(context.Background(), "n0", "n10")
	assert.ErrorIs(t, err, domain.ErrSearchLimit)
	assert.Equal(t, 3, g.TotalCalls())

	path, err := search.New(g, search.WithMaxExpansions(0)).Search(context.Background(), "n0", "n10")
	require.NoError(t, err)
	assert.Equal(t, 10, path.Degrees())
}

func TestEngine_InvalidEndpoints(t *testing.T) {
	engine := search.New(memory.NewGraph())

	_, err := engine.Search(context.Background(), "", "T")
	assert.ErrorIs(t, err, domain.ErrInvalidEndpoint)
	_, err = engine.Search(context.Background(), "S", "")
	assert.ErrorIs(t, err, domain.ErrInvalidEndpoint)
}

func TestEngine_Hooks(t *testing.T) {
	g := memory.NewGraph().AddLink("S", "r1", "A").AddLink("A", "r2", "T")

	var starts, ends int
	var expanded []string
	var final *domain.SearchEvent
	hooks := domain.SearchHooks{
		OnSearchStart: func(ctx context.Context, ev *domain.SearchEvent) { starts++ },
		OnExpand: func(ctx context.Context, ev *domain.ExpandEvent) {
			expanded = append(expanded, fmt.Sprintf("%s@%d", ev.Entity, ev.Depth))
		},
		OnSearchEnd: func(ctx context.Context, ev *domain.SearchEvent) {
			ends++
			final = ev
		},
	}

	path, err := search.New(g, search.WithHooks(hooks)).Search(context.Background(), "S", "T")
	require.NoError(t, err)

	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assert.Equal(t, []string{"S@0", "A@1"}, expanded)
	require.NotNil(t, final)
	assert.Equal(t, domain.OutcomeFound, final.Outcome)
	assert.Equal(t, path.Explored, final.Explored)
	assert.Equal(t, search.PolicyBreadthFirst, search.New(g).Policy())
}
