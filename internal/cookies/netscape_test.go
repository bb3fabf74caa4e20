package cookies

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cookierisk/internal/services"
)

const cookiesTxt = "# Netscape HTTP Cookie File\n" +
	"# This is a generated file! Do not edit.\n" +
	"\n" +
	".example.com\tTRUE\t/\tFALSE\t1999999999\t_ga\tGA1.2.1\n" +
	"#HttpOnly_example.com\tFALSE\t/\tTRUE\t0\tsession\tabc\tdef\n" +
	"other.org\tFALSE\t/\tFALSE\t0\ttrack\tzzz\n" +
	"malformed line without tabs\n" +
	"www.example.com\tFALSE\t/app\tFALSE\t0\tempty\n"

func TestParseNetscape(t *testing.T) {
	cookies, err := ParseNetscape(strings.NewReader(cookiesTxt))
	if err != nil {
		t.Fatalf("ParseNetscape returned error: %v", err)
	}
	want := []Cookie{
		{Name: "_ga", Value: "GA1.2.1", Domain: ".example.com", Path: "/"},
		{Name: "session", Value: "abc\tdef", Domain: "example.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "track", Value: "zzz", Domain: "other.org", Path: "/"},
		{Name: "empty", Value: "", Domain: "www.example.com", Path: "/app"},
	}
	if diff := cmp.Diff(want, cookies, cmpopts.IgnoreFields(Cookie{}, "Expires")); diff != "" {
		t.Fatalf("cookies mismatch (-want +got):\n%s", diff)
	}
	if cookies[0].Expires.Unix() != 1999999999 {
		t.Fatalf("unexpected expiry %v", cookies[0].Expires)
	}
	if !cookies[1].Expires.IsZero() {
		t.Fatalf("session cookie should have zero expiry, got %v", cookies[1].Expires)
	}
}

func TestNetscapeSourceFiltersByHost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte(cookiesTxt), 0o600); err != nil {
		t.Fatalf("write cookies.txt: %v", err)
	}
	cookies, err := NewNetscapeSource(path).Cookies(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Cookies returned error: %v", err)
	}
	var names []string
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"_ga", "session", "empty"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNetscapeSourceMissingFile(t *testing.T) {
	_, err := NewNetscapeSource(filepath.Join(t.TempDir(), "missing.txt")).Cookies(context.Background(), "example.com")
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	_, err = NewNetscapeSource("").Cookies(context.Background(), "example.com")
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error for unset path, got %v", err)
	}
}
