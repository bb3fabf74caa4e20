package cookies

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"cookierisk/internal/services"
)

const maxVisitBody = 4 << 20

// HTTPSource visits the page and collects the cookies the site sets.
type HTTPSource struct {
	pageURL   string
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
}

// HTTPOption customizes an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithTransport overrides the round tripper used for visits.
func WithTransport(rt http.RoundTripper) HTTPOption {
	return func(s *HTTPSource) {
		if rt != nil {
			s.transport = rt
		}
	}
}

// WithVisitUserAgent sets the User-Agent header sent to the page.
func WithVisitUserAgent(agent string) HTTPOption {
	return func(s *HTTPSource) {
		if agent != "" {
			s.userAgent = agent
		}
	}
}

// NewHTTPSource constructs a live-visit source. The page URL is supplied per
// call through WithPage or by Cookies deriving it from host.
func NewHTTPSource(timeout time.Duration, opts ...HTTPOption) *HTTPSource {
	source := &HTTPSource{timeout: timeout, userAgent: "cookierisk/dev"}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

func (s *HTTPSource) Name() string { return "http" }

// WithPage returns a copy of s that visits pageURL instead of https://<host>/.
func (s *HTTPSource) WithPage(pageURL string) *HTTPSource {
	clone := *s
	clone.pageURL = pageURL
	return &clone
}

// Cookies fetches the page, following redirects, and returns the cookies the
// jar accepted for host.
func (s *HTTPSource) Cookies(ctx context.Context, host string) ([]Cookie, error) {
	target := s.pageURL
	if target == "" {
		target = "https://" + host + "/"
	}
	pageURL, err := url.Parse(target)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "visit page", "", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "create cookie jar", "", err)
	}
	client := &http.Client{Jar: jar, Timeout: s.timeout, Transport: s.transport}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "visit page", "", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "visit page", pageURL.String(), err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxVisitBody))
	_ = resp.Body.Close()

	visited := []*url.URL{pageURL}
	if resp.Request != nil && resp.Request.URL != nil && resp.Request.URL.String() != pageURL.String() {
		visited = append(visited, resp.Request.URL)
	}

	seen := make(map[string]bool)
	var all []Cookie
	for _, u := range visited {
		for _, c := range jar.Cookies(u) {
			key := u.Hostname() + "\x00" + c.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, Cookie{
				Name:   c.Name,
				Value:  c.Value,
				Domain: u.Hostname(),
				Path:   "/",
			})
		}
	}
	matched := Filter(all, host)
	sortCookies(matched)
	return matched, nil
}
