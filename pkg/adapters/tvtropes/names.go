package tvtropes

import "context"

// Names implements ports.NameResolver using page titles.
type Names struct {
	fetcher *Fetcher
}

// NewNames creates a resolver sharing fetcher's page cache.
func NewNames(fetcher *Fetcher) *Names {
	return &Names{fetcher: fetcher}
}

// DisplayName returns the title of the page at id, or id itself if the page has no title.
func (n *Names) DisplayName(ctx context.Context, id string) (string, error) {
	page, err := n.fetcher.Fetch(ctx, id)
	if err != nil {
		return "", err
	}
	if title := Title(page.Doc); title != "" {
		return title, nil
	}
	return id, nil
}
