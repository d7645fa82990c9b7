package tvtropes

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/tropelink/pkg/domain"
)

// Source implements ports.NeighborSource over the wiki.
//
// The neighbors of a work are found in two hops: the tropes listed on the work page
// (and on its subpages), then the works listed on each trope page (and on its subpages).
// Trope pages are fetched concurrently, bounded by Config.Concurrency, and the result is
// only returned once every page has been read.
type Source struct {
	fetcher *Fetcher
	base    *url.URL
	logger  *slog.Logger
}

// NewSource creates a Source that downloads pages through fetcher.
func NewSource(fetcher *Fetcher) *Source {
	base, _ := url.Parse(fetcher.cfg.BaseURL) // validated by NewFetcher
	return &Source{
		fetcher: fetcher,
		base:    base,
		logger:  fetcher.logger,
	}
}

// Neighbors returns every (trope, work) pair sharing a trope with entity.
func (s *Source) Neighbors(ctx context.Context, entity string) ([]domain.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewLookupError(entity, err)
	}
	started := time.Now()

	work, err := s.fetcher.Fetch(ctx, entity)
	if err != nil {
		return nil, &domain.LookupError{Entity: entity, URL: entity, Err: err}
	}

	relations, err := s.relationsOf(ctx, entity, work)
	if err != nil {
		return nil, err
	}

	edges, err := s.edgesOf(ctx, entity, relations)
	if err != nil {
		return nil, err
	}

	out := domain.DedupeEdges(entity, edges)
	s.logger.Debug("Expanded work",
		"entity", entity,
		"relations", len(relations),
		"edges", len(out),
		"elapsed", time.Since(started),
	)
	return out, nil
}

// relationsOf collects the trope pages listed on the work page and its subpages.
func (s *Source) relationsOf(ctx context.Context, entity string, work *Page) ([]string, error) {
	var mu sync.Mutex
	set := make(map[string]bool)
	add := func(links []string) {
		mu.Lock()
		defer mu.Unlock()
		for _, l := range links {
			set[l] = true
		}
	}
	add(RelationLinks(s.base, work.Doc))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetcher.cfg.Concurrency)
	for _, sub := range SubpageLinks(s.base, work.Doc) {
		if sub == work.URL {
			continue
		}
		g.Go(func() error {
			page, err := s.fetcher.Fetch(gctx, sub)
			if err != nil {
				return &domain.LookupError{Entity: entity, URL: sub, Err: err}
			}
			add(RelationLinks(s.base, page.Doc))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	relations := make([]string, 0, len(set))
	for r := range set {
		relations = append(relations, r)
	}
	sort.Strings(relations)
	return relations, nil
}

// edgesOf reads every trope page concurrently and pairs it with the works it lists.
func (s *Source) edgesOf(ctx context.Context, entity string, relations []string) ([]domain.Edge, error) {
	var mu sync.Mutex
	var edges []domain.Edge

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetcher.cfg.Concurrency)
	for _, relation := range relations {
		g.Go(func() error {
			works, err := s.worksOf(gctx, relation)
			if err != nil {
				return &domain.LookupError{Entity: entity, URL: relation, Err: err}
			}
			mu.Lock()
			defer mu.Unlock()
			for _, w := range works {
				edges = append(edges, domain.Edge{Relation: relation, Entity: w})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return edges, nil
}

// worksOf lists the works featuring a trope, following the trope's subpages sequentially.
func (s *Source) worksOf(ctx context.Context, relation string) ([]string, error) {
	page, err := s.fetcher.Fetch(ctx, relation)
	if err != nil {
		return nil, err
	}
	title := CompactTitle(page.Doc)
	works := EntityLinks(s.base, page.Doc, title)

	for _, sub := range SubpageLinks(s.base, page.Doc) {
		subpage, err := s.fetcher.Fetch(ctx, sub)
		if err != nil {
			return nil, err
		}
		works = append(works, EntityLinks(s.base, subpage.Doc, title)...)
	}
	return works, nil
}
