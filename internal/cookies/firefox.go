package cookies

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cookierisk/internal/services"
)

const firefoxCookiesFile = "cookies.sqlite"

// FirefoxSource reads cookies from a Firefox profile's cookies.sqlite.
type FirefoxSource struct {
	path string
}

// NewFirefoxSource accepts either the cookies.sqlite path or the profile
// directory containing it.
func NewFirefoxSource(path string) *FirefoxSource {
	return &FirefoxSource{path: path}
}

func (s *FirefoxSource) Name() string { return "firefox" }

// Cookies opens the database read-only so a running browser keeps its lock.
func (s *FirefoxSource) Cookies(ctx context.Context, host string) ([]Cookie, error) {
	dbPath, err := s.resolve()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", readOnlyDSN(dbPath))
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "open firefox cookies", dbPath, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name, value, host, path, expiry, isSecure, isHttpOnly
		FROM moz_cookies ORDER BY id`)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "query firefox cookies", dbPath, err)
	}
	defer rows.Close()

	var all []Cookie
	for rows.Next() {
		var (
			cookie           Cookie
			expiry           sql.NullInt64
			secure, httpOnly sql.NullInt64
		)
		if err := rows.Scan(&cookie.Name, &cookie.Value, &cookie.Domain, &cookie.Path, &expiry, &secure, &httpOnly); err != nil {
			return nil, services.Wrap(services.ErrExtraction, component, "scan firefox cookie", "", err)
		}
		cookie.Secure = secure.Int64 != 0
		cookie.HTTPOnly = httpOnly.Int64 != 0
		if expiry.Valid && expiry.Int64 > 0 {
			cookie.Expires = expiryTime(expiry.Int64)
		}
		all = append(all, cookie)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "read firefox cookies", "", err)
	}
	return Filter(all, host), nil
}

func (s *FirefoxSource) resolve() (string, error) {
	path := s.path
	if path == "" {
		discovered, err := DiscoverFirefoxCookies()
		if err != nil {
			return "", err
		}
		path = discovered
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, component, "stat firefox cookies", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, firefoxCookiesFile)
		if _, err := os.Stat(path); err != nil {
			return "", services.Wrap(services.ErrExtraction, component, "stat firefox cookies", path, err)
		}
	}
	return path, nil
}

// DiscoverFirefoxCookies returns the most recently modified cookies.sqlite
// among the user's Firefox profiles.
func DiscoverFirefoxCookies() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, component, "discover firefox profile", "", err)
	}
	patterns := []string{
		filepath.Join(home, ".mozilla", "firefox", "*", firefoxCookiesFile),
		filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles", "*", firefoxCookiesFile),
	}
	var (
		best     string
		bestTime time.Time
	)
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(pattern)
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if best == "" || info.ModTime().After(bestTime) {
				best, bestTime = match, info.ModTime()
			}
		}
	}
	if best == "" {
		return "", services.Wrap(services.ErrExtraction, component, "discover firefox profile", "no cookies.sqlite found; set cookies.path", nil)
	}
	return best, nil
}

func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return fmt.Sprintf("%s?mode=ro&immutable=1", u.String())
}

// expiryTime accepts seconds or, as newer Firefox versions store, milliseconds.
func expiryTime(value int64) time.Time {
	if value > 1e11 {
		return time.UnixMilli(value).UTC()
	}
	return time.Unix(value, 0).UTC()
}
