package tvtropes

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestTitle(t *testing.T) {
	cases := map[string]string{
		"Firefly (Series) - TV Tropes":      "Firefly",
		"Chosen One - TV Tropes":            "Chosen One",
		"  Plain title  ":                   "Plain title",
		"Alpha / Tropes A To M - TV Tropes": "Alpha / Tropes A To M",
	}
	for in, want := range cases {
		doc := parseDoc(t, "<html><head><title>"+in+"</title></head></html>")
		assert.Equal(t, want, Title(doc), in)
	}
	assert.Equal(t, "", Title(parseDoc(t, "<html></html>")))
}

func TestLinks(t *testing.T) {
	base, _ := url.Parse("https://tvtropes.org")
	doc := parseDoc(t, page("Chosen One",
		"/pmwiki/pmwiki.php/Series/Alpha",
		"/pmwiki/pmwiki.php/Film/Beta#Comments",
		"https://tvtropes.org/pmwiki/pmwiki.php/Film/Beta",
		"/pmwiki/pmwiki.php/Main/Hero",
		"/pmwiki/pmwiki.php/Creator/Someone",
		"/pmwiki/pmwiki.php/ChosenOne/Film",
	))

	t.Run("Relations", func(t *testing.T) {
		assert.Equal(t, []string{"https://tvtropes.org/pmwiki/pmwiki.php/Main/Hero"}, RelationLinks(base, doc))
	})

	t.Run("Entities", func(t *testing.T) {
		assert.Equal(t, []string{
			"https://tvtropes.org/pmwiki/pmwiki.php/ChosenOne/Film",
			"https://tvtropes.org/pmwiki/pmwiki.php/Film/Beta",
			"https://tvtropes.org/pmwiki/pmwiki.php/Series/Alpha",
		}, EntityLinks(base, doc, ""))
	})

	t.Run("Entities Exclude Subpages", func(t *testing.T) {
		assert.Equal(t, []string{
			"https://tvtropes.org/pmwiki/pmwiki.php/Film/Beta",
			"https://tvtropes.org/pmwiki/pmwiki.php/Series/Alpha",
		}, EntityLinks(base, doc, CompactTitle(doc)))
	})

	t.Run("Subpages", func(t *testing.T) {
		assert.Equal(t, []string{"https://tvtropes.org/pmwiki/pmwiki.php/ChosenOne/Film"}, SubpageLinks(base, doc))
	})

	t.Run("Outside Lists Ignored", func(t *testing.T) {
		for _, l := range EntityLinks(base, doc, "") {
			assert.NotContains(t, l, "Outside")
		}
	})
}
