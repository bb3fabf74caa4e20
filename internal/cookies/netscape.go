package cookies

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"cookierisk/internal/services"
)

const httpOnlyPrefix = "#HttpOnly_"

// NetscapeSource reads a Netscape/curl cookies.txt export.
type NetscapeSource struct {
	path string
}

// NewNetscapeSource reads cookies from the file at path.
func NewNetscapeSource(path string) *NetscapeSource {
	return &NetscapeSource{path: path}
}

func (s *NetscapeSource) Name() string { return "netscape" }

func (s *NetscapeSource) Cookies(ctx context.Context, host string) ([]Cookie, error) {
	if s.path == "" {
		return nil, services.Wrap(services.ErrExtraction, component, "open cookies.txt", "cookies.path is not set", nil)
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "open cookies.txt", s.path, err)
	}
	defer file.Close()

	all, err := ParseNetscape(file)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "parse cookies.txt", s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, services.Wrap(services.ErrExtraction, component, "parse cookies.txt", "", err)
	}
	return Filter(all, host), nil
}

// ParseNetscape parses the tab separated cookies.txt format. Lines prefixed
// with #HttpOnly_ are cookies; other # lines and blank lines are skipped, as
// are lines with too few fields.
func ParseNetscape(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			line = strings.TrimPrefix(line, httpOnlyPrefix)
			httpOnly = true
		} else if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 6 {
			continue
		}
		cookie := Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			HTTPOnly: httpOnly,
		}
		if len(fields) > 6 {
			cookie.Value = strings.Join(fields[6:], "\t")
		}
		if expiry, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expiry > 0 {
			cookie.Expires = time.Unix(expiry, 0).UTC()
		}
		cookies = append(cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}
