package testsupport

import (
	"path/filepath"
	"testing"

	"cookierisk/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Cookies are read from a Netscape file inside the temp directory so tests
// never touch a real browser profile.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scoring.TimeoutSeconds = 5
	cfgVal.Scoring.UserAgent = "cookierisk/test"
	cfgVal.Cookies.Source = config.SourceNetscape
	cfgVal.Cookies.Path = filepath.Join(base, "cookies.txt")
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEndpoint sets the configured scoring endpoint.
func WithEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scoring.Endpoint = url
	}
}

// WithCookies writes a cookies.txt fixture holding the given cookies and
// points the config at it.
func WithCookies(cookies ...Cookie) ConfigOption {
	return func(b *configBuilder) {
		WriteCookiesTxt(b.t, b.cfg.Cookies.Path, cookies...)
	}
}

// WithTimeoutSeconds overrides the per-request scoring deadline.
func WithTimeoutSeconds(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scoring.TimeoutSeconds = seconds
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
