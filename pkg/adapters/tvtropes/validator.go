package tvtropes

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/tropelink/pkg/domain"
)

// Validator implements ports.EndpointValidator: it accepts wiki URLs of works that exist.
type Validator struct {
	fetcher  *Fetcher
	base     *url.URL
	validate *validator.Validate
}

// NewValidator creates a Validator that checks existence through fetcher.
func NewValidator(fetcher *Fetcher) *Validator {
	base, _ := url.Parse(fetcher.cfg.BaseURL)
	return &Validator{
		fetcher:  fetcher,
		base:     base,
		validate: validator.New(),
	}
}

// Validate returns the canonical URL of raw: the wiki's scheme and host, no query and no fragment.
// raw must be a URL on the wiki host under /pmwiki, must not be a trope page and must answer 200.
func (v *Validator) Validate(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := v.validate.Var(raw, "required,url"); err != nil {
		return "", fmt.Errorf("%w: %q is not a URL", domain.ErrInvalidEndpoint, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidEndpoint, err)
	}
	if !sameHost(u.Host, v.base.Host) || !strings.Contains(u.Path, "/pmwiki") {
		return "", fmt.Errorf("%w: %q is not a %s wiki page", domain.ErrInvalidEndpoint, raw, v.base.Host)
	}
	if strings.Contains(u.Path, mainNamespace) {
		return "", fmt.Errorf("%w: %q is a trope page, not a work", domain.ErrInvalidEndpoint, raw)
	}

	u.Scheme = v.base.Scheme
	u.Host = v.base.Host
	u.RawQuery = ""
	u.Fragment = ""
	canonical := u.String()

	if _, err := v.fetcher.Fetch(ctx, canonical); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidEndpoint, err)
	}
	return canonical, nil
}

// sameHost compares hosts ignoring case and a leading "www.".
func sameHost(a, b string) bool {
	norm := func(h string) string {
		return strings.TrimPrefix(strings.ToLower(h), "www.")
	}
	return norm(a) == norm(b)
}
