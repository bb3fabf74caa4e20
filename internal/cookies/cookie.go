package cookies

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"cookierisk/internal/services"
)

const component = "cookies"

// Cookie is one stored cookie.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	Expires  time.Time
}

// Source reads the cookies that belong to host.
type Source interface {
	Name() string
	Cookies(ctx context.Context, host string) ([]Cookie, error)
}

// HostFromURL returns the lower-cased hostname of an absolute page URL.
func HostFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", services.Wrap(services.ErrExtraction, component, "parse url", "no page url", nil)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, component, "parse url", "", err)
	}
	host := strings.ToLower(parsed.Hostname())
	if parsed.Scheme == "" || host == "" {
		return "", services.Wrap(services.ErrExtraction, component, "parse url", "url has no host: "+raw, nil)
	}
	return host, nil
}

// MatchDomain reports whether a cookie stored for domain belongs to host:
// the domain, with any leading dot removed, equals host or is a subdomain of it.
func MatchDomain(domain, host string) bool {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "."))
	host = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(host), "."))
	if domain == "" || host == "" {
		return false
	}
	return domain == host || strings.HasSuffix(domain, "."+host)
}

// Filter keeps the cookies whose domain matches host, preserving order.
func Filter(all []Cookie, host string) []Cookie {
	matched := make([]Cookie, 0, len(all))
	for _, cookie := range all {
		if MatchDomain(cookie.Domain, host) {
			matched = append(matched, cookie)
		}
	}
	return matched
}

// sortCookies orders cookies by domain, then path, then name.
func sortCookies(list []Cookie) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Name < b.Name
	})
}
