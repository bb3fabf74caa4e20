package cookies

import (
	"errors"
	"testing"

	"cookierisk/internal/config"
	"cookierisk/internal/services"
)

func TestNewSourceSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cases := map[string]string{
		config.SourceFirefox:  "firefox",
		config.SourceNetscape: "netscape",
		config.SourceHTTP:     "http",
	}
	for source, want := range cases {
		cfg.Cookies.Source = source
		got, err := NewSource(&cfg)
		if err != nil {
			t.Fatalf("NewSource(%s) returned error: %v", source, err)
		}
		if got.Name() != want {
			t.Fatalf("NewSource(%s) = %s", source, got.Name())
		}
	}

	cfg.Cookies.Source = "safari"
	if _, err := NewSource(&cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestForPageOnlyAffectsHTTPSource(t *testing.T) {
	netscape := NewNetscapeSource("cookies.txt")
	if ForPage(netscape, "https://example.com/") != Source(netscape) {
		t.Fatal("ForPage should return file sources unchanged")
	}
	visit := NewHTTPSource(0)
	adapted, ok := ForPage(visit, "https://example.com/a").(*HTTPSource)
	if !ok || adapted.pageURL != "https://example.com/a" || visit.pageURL != "" {
		t.Fatalf("unexpected adapted source %+v", adapted)
	}
}
