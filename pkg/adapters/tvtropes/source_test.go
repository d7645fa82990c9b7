package tvtropes

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports/tests"
)

func TestSource_Neighbors(t *testing.T) {
	wiki := newFakeWiki()
	f, srv := newTestFetcher(t, wiki)
	source := NewSource(f)

	u := func(p string) string { return srv.URL + p }

	got, err := source.Neighbors(context.Background(), u(pathAlpha))
	require.NoError(t, err)
	assert.Equal(t, []domain.Edge{
		{Relation: u(pathChosen), Entity: u(pathBeta)},
		{Relation: u(pathChosen), Entity: u(pathGamma)},
		{Relation: u(pathHeist), Entity: u(pathDelta)},
		{Relation: u(pathTimeTravel), Entity: u(pathBeta)},
	}, got)

	// Second lookup is served from the page cache.
	_, err = source.Neighbors(context.Background(), u(pathAlpha))
	require.NoError(t, err)
	assert.Equal(t, 1, wiki.hitsFor(pathChosen))
	assert.Equal(t, 1, wiki.hitsFor(pathChosenFilm))
	assert.Zero(t, wiki.hitsFor(pathCreator))
}

func TestSource_Contract(t *testing.T) {
	wiki := newFakeWiki()
	f, srv := newTestFetcher(t, wiki)
	u := func(p string) string { return srv.URL + p }

	tests.NeighborSourceContractTest(t, NewSource(f), map[string][]domain.Edge{
		u(pathDelta): {
			{Relation: u(pathHeist), Entity: u(pathAlpha)},
		},
		u(pathGamma): {
			{Relation: u(pathChosen), Entity: u(pathAlpha)},
			{Relation: u(pathChosen), Entity: u(pathBeta)},
		},
	})
}

func TestSource_LookupFailure(t *testing.T) {
	wiki := newFakeWiki()
	wiki.failFirst(pathTimeTravel, http.StatusForbidden)
	f, srv := newTestFetcher(t, wiki)

	_, err := NewSource(f).Neighbors(context.Background(), srv.URL+pathAlpha)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLookupFailure))

	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, srv.URL+pathAlpha, lookupErr.Entity)
	assert.Equal(t, srv.URL+pathTimeTravel, lookupErr.URL)
}

func TestSource_MissingWork(t *testing.T) {
	wiki := newFakeWiki()
	f, srv := newTestFetcher(t, wiki)

	_, err := NewSource(f).Neighbors(context.Background(), srv.URL+"/pmwiki/pmwiki.php/Film/Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLookupFailure)
	assert.True(t, IsNotFound(err))
}
