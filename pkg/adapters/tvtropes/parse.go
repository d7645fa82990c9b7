package tvtropes

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkSelector matches wiki links inside list items, where works and tropes are enumerated.
const linkSelector = "ul li a[class='twikilink']"

const (
	mainNamespace    = "/Main/"
	creatorNamespace = "/Creator/"
	titleSuffix      = " - TV Tropes"
)

// Title extracts the display title of a page: the <title> text without the site suffix
// and without any parenthesised qualifier, e.g. "Firefly (Series) - TV Tropes" -> "Firefly".
func Title(doc *goquery.Document) string {
	title := doc.Find("title").First().Text()
	title, _, _ = strings.Cut(title, titleSuffix)
	title, _, _ = strings.Cut(title, "(")
	return strings.TrimSpace(title)
}

// CompactTitle is the title as it appears inside subpage URLs.
func CompactTitle(doc *goquery.Document) string {
	return strings.ReplaceAll(Title(doc), " ", "")
}

// RelationLinks returns the absolute URLs of trope pages linked from the list items of doc.
func RelationLinks(base *url.URL, doc *goquery.Document) []string {
	return collect(base, doc, func(href string) bool {
		return strings.Contains(href, mainNamespace)
	})
}

// EntityLinks returns the absolute URLs of work pages linked from the list items of doc.
// Trope and creator pages are excluded, as are links whose path contains exclude
// (the compact title of the page being read, which marks its own subpages).
func EntityLinks(base *url.URL, doc *goquery.Document, exclude string) []string {
	return collect(base, doc, func(href string) bool {
		if strings.Contains(href, mainNamespace) || strings.Contains(href, creatorNamespace) {
			return false
		}
		return exclude == "" || !strings.Contains(href, "/"+exclude+"/")
	})
}

// SubpageLinks returns the absolute URLs of pages split off from doc. A subpage lives
// under a path segment equal to the page title without spaces, e.g. ".../Firefly/TropesAToM".
func SubpageLinks(base *url.URL, doc *goquery.Document) []string {
	title := CompactTitle(doc)
	if title == "" {
		return nil
	}
	return collect(base, doc, func(href string) bool {
		return !strings.Contains(href, mainNamespace) && strings.Contains(href, "/"+title+"/")
	})
}

// collect resolves matching hrefs against base and returns them deduplicated and sorted.
func collect(base *url.URL, doc *goquery.Document, keep func(href string) bool) []string {
	seen := make(map[string]bool)
	doc.Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" || !keep(href) {
			return
		}
		if abs, ok := resolve(base, href); ok {
			seen[abs] = true
		}
	})
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// resolve turns href into a canonical absolute URL (no query, no fragment).
func resolve(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	abs.RawQuery = ""
	abs.Fragment = ""
	return abs.String(), true
}
