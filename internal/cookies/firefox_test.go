package cookies

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"cookierisk/internal/services"
)

func writeFirefoxFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, firefoxCookiesFile)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE moz_cookies (
			id INTEGER PRIMARY KEY,
			originAttributes TEXT NOT NULL DEFAULT '',
			name TEXT, value TEXT, host TEXT, path TEXT,
			expiry INTEGER, lastAccessed INTEGER, creationTime INTEGER,
			isSecure INTEGER, isHttpOnly INTEGER
		)`,
		`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES
			('_ga', 'GA1.2.1', '.example.com', '/', 1999999999, 0, 0),
			('sid', 'xyzxy', 'login.example.com', '/', 1999999999000, 1, 1),
			('other', 'nope', '.other.org', '/', 0, 0, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("prepare fixture: %v", err)
		}
	}
	return path
}

func TestFirefoxSourceReadsMatchingCookies(t *testing.T) {
	dir := t.TempDir()
	path := writeFirefoxFixture(t, dir)

	for _, location := range []string{path, dir} {
		cookies, err := NewFirefoxSource(location).Cookies(context.Background(), "example.com")
		if err != nil {
			t.Fatalf("Cookies(%s) returned error: %v", location, err)
		}
		if len(cookies) != 2 {
			t.Fatalf("expected 2 cookies, got %+v", cookies)
		}
		if cookies[0].Name != "_ga" || cookies[0].Value != "GA1.2.1" {
			t.Fatalf("unexpected first cookie %+v", cookies[0])
		}
		sid := cookies[1]
		if sid.Name != "sid" || !sid.Secure || !sid.HTTPOnly {
			t.Fatalf("unexpected second cookie %+v", sid)
		}
		if sid.Expires.Unix() != 1999999999 {
			t.Fatalf("millisecond expiry not normalised: %v", sid.Expires)
		}
	}
}

func TestFirefoxSourceMissingDatabase(t *testing.T) {
	_, err := NewFirefoxSource(filepath.Join(t.TempDir(), "nope.sqlite")).Cookies(context.Background(), "example.com")
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}
