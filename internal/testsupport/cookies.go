package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Cookie is a fixture row for a cookies.txt file.
type Cookie struct {
	Domain string
	Name   string
	Value  string
}

// WriteCookiesTxt writes cookies in Netscape format to path.
func WriteCookiesTxt(t testing.TB, path string, cookies ...Cookie) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var b strings.Builder
	b.WriteString("# Netscape HTTP Cookie File\n")
	for _, c := range cookies {
		sub := "FALSE"
		if strings.HasPrefix(c.Domain, ".") {
			sub = "TRUE"
		}
		b.WriteString(strings.Join([]string{c.Domain, sub, "/", "FALSE", "0", c.Name, c.Value}, "\t"))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
