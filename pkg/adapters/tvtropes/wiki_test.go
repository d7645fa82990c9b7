package tvtropes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeWiki serves a handful of pages shaped like the real wiki and counts hits per path.
type fakeWiki struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
	// failures maps a path to the statuses returned before the page is served.
	failures map[string][]int
}

func page(title string, links ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s - TV Tropes</title></head><body><ul>", title)
	for _, l := range links {
		fmt.Fprintf(&b, `<li><a class="twikilink" href="%s">link</a></li>`, l)
	}
	b.WriteString(`</ul><p><a class="twikilink" href="/pmwiki/pmwiki.php/Film/Outside">not in a list</a></p></body></html>`)
	return b.String()
}

const (
	pathAlpha       = "/pmwiki/pmwiki.php/Series/Alpha"
	pathAlphaTropes = "/pmwiki/pmwiki.php/Alpha/TropesAToM"
	pathBeta        = "/pmwiki/pmwiki.php/Film/Beta"
	pathGamma       = "/pmwiki/pmwiki.php/Film/Gamma"
	pathDelta       = "/pmwiki/pmwiki.php/Film/Delta"
	pathChosen      = "/pmwiki/pmwiki.php/Main/ChosenOne"
	pathChosenFilm  = "/pmwiki/pmwiki.php/ChosenOne/Film"
	pathTimeTravel  = "/pmwiki/pmwiki.php/Main/TimeTravel"
	pathHeist       = "/pmwiki/pmwiki.php/Main/Heist"
	pathCreator     = "/pmwiki/pmwiki.php/Creator/Someone"
)

func newFakeWiki() *fakeWiki {
	return &fakeWiki{
		hits:     make(map[string]int),
		failures: make(map[string][]int),
		pages: map[string]string{
			pathAlpha:       page("Alpha (Series)", pathChosen, pathTimeTravel, pathCreator, pathAlphaTropes, pathAlpha),
			pathAlphaTropes: page("Alpha / Tropes A To M", pathHeist),
			pathBeta:        page("Beta (Film)", pathChosen, pathTimeTravel),
			pathGamma:       page("Gamma (Film)", pathChosen),
			pathDelta:       page("Delta (Film)", pathHeist),
			pathChosen:      page("Chosen One", pathAlpha, pathBeta+"#Comments", "/pmwiki/pmwiki.php/Main/Hero", pathCreator, pathChosenFilm),
			pathChosenFilm:  page("Chosen One / Film", pathGamma, pathChosen),
			pathTimeTravel:  page("Time Travel", pathAlpha, pathBeta+"?from=x"),
			pathHeist:       page("Heist", pathAlpha, pathDelta),
		},
	}
}

func (w *fakeWiki) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.mu.Lock()
	w.hits[r.URL.Path]++
	var status int
	if queue := w.failures[r.URL.Path]; len(queue) > 0 {
		status, w.failures[r.URL.Path] = queue[0], queue[1:]
	}
	body, ok := w.pages[r.URL.Path]
	w.mu.Unlock()

	switch {
	case status != 0:
		http.Error(rw, "try again", status)
	case !ok:
		http.NotFound(rw, r)
	default:
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = rw.Write([]byte(body))
	}
}

func (w *fakeWiki) failFirst(path string, statuses ...int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[path] = statuses
}

func (w *fakeWiki) hitsFor(path string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hits[path]
}

// newTestFetcher starts the fake wiki and returns a fast Fetcher pointed at it.
func newTestFetcher(t *testing.T, wiki *fakeWiki) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(wiki)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Delay = 0
	cfg.RetryBackoff = time.Millisecond
	cfg.MaxRetries = 3

	f, err := NewFetcher(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return f, srv
}
