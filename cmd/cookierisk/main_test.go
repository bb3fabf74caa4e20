package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cookierisk/internal/services"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.Wrap(services.ErrInputFormat, "pipeline", "parse batch", "", nil), 2},
		{fmt.Errorf("%w (set one)", services.Wrap(services.ErrNoEndpoint, "pipeline", "predict", "", nil)), 2},
		{services.Wrap(services.ErrConfiguration, "scoring", "validate endpoint", "missing host", nil), 2},
		{services.Wrap(services.ErrExtraction, "pipeline", "read cookies", "", nil), 1},
		{errors.New("boom"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestEncodeJSONKeepsPadTokenUnescaped(t *testing.T) {
	out, _, err := runCLI(t, []string{"encode", "--json", "--vocab", "<a&b>"}, "")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	requireContains(t, out, `"<PAD>"`)
	requireContains(t, out, `"<a&b>"`)
	if strings.Contains(out, `\u003c`) {
		t.Fatalf("expected unescaped output, got %q", out)
	}
}
