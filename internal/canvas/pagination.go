package canvas

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Pager walks a paginated Canvas collection by following the response Link
// header (rel="next") until the server stops offering a next page. It is a
// lazy, finite iterator: each call to Next fetches exactly one page. Reset
// rewinds it to the first page so the same listing can be replayed.
type Pager struct {
	client   *Client
	firstURL string
	nextURL  string
	started  bool
}

// NewPager creates a pager over the given collection path. The query is
// encoded into the first page URL; subsequent pages come verbatim from the
// server's Link header, which already carries the query parameters.
func (c *Client) NewPager(path string, query url.Values) *Pager {
	return &Pager{
		client:   c,
		firstURL: c.URL(path, query),
	}
}

// Next fetches the next page and decodes it into out (a pointer to a
// slice). It returns false once all pages have been consumed.
func (p *Pager) Next(ctx context.Context, out interface{}) (bool, error) {
	target := p.nextURL
	if !p.started {
		target = p.firstURL
		p.started = true
	}
	if target == "" {
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	_, link, err := p.client.roundTrip(req, out)
	if err != nil {
		return false, err
	}

	p.nextURL = parseNextLink(link)

	if p.client.metrics != nil {
		p.client.metrics.RecordPageFetch(ctx, serviceFromPath(req.URL.Path))
	}

	return true, nil
}

// Reset rewinds the pager to the first page.
func (p *Pager) Reset() {
	p.started = false
	p.nextURL = ""
}

// parseNextLink extracts the rel="next" URL from a Link header as defined
// by RFC 8288, e.g.
//
//	<https://canvas.example.edu/api/v1/calendar_events?page=2>; rel="next",
//	<https://canvas.example.edu/api/v1/calendar_events?page=7>; rel="last"
//
// It returns "" when there is no next page.
func parseNextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}

		target := strings.TrimSpace(section[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}

		for _, param := range section[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="next"` || param == "rel=next" {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
