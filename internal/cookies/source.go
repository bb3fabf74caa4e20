package cookies

import (
	"cookierisk/internal/config"
	"cookierisk/internal/services"
)

// NewSource selects the cookie backend named by cfg.Cookies.Source.
func NewSource(cfg *config.Config) (Source, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new source", "config is nil", nil)
	}
	switch cfg.Cookies.Source {
	case config.SourceFirefox:
		return NewFirefoxSource(cfg.Cookies.Path), nil
	case config.SourceNetscape:
		return NewNetscapeSource(cfg.Cookies.Path), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.CookieHTTPTimeout(), WithVisitUserAgent(cfg.Scoring.UserAgent)), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, component, "new source", "unknown cookie source "+cfg.Cookies.Source, nil)
	}
}

// ForPage adapts source to a specific page visit when it needs the full URL.
func ForPage(source Source, pageURL string) Source {
	if visit, ok := source.(*HTTPSource); ok {
		return visit.WithPage(pageURL)
	}
	return source
}
