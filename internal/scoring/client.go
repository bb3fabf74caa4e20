package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cookierisk/internal/services"
)

const (
	component        = "scoring"
	defaultUserAgent = "cookierisk/dev"
	maxBodyBytes     = 1 << 20
	maxErrorSnippet  = 200
)

// Client posts encoded sequences to a scoring endpoint.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option customizes the scoring client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// NewClient constructs a scoring client. Per-request deadlines come from the
// caller's context, so the default HTTP client carries no timeout of its own.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return services.Wrap(services.ErrNoEndpoint, component, "validate endpoint", "", nil)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, "validate endpoint", "parse url", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return services.Wrap(services.ErrConfiguration, component, "validate endpoint", fmt.Sprintf("unsupported scheme %q", parsed.Scheme), nil)
	}
	if parsed.Host == "" {
		return services.Wrap(services.ErrConfiguration, component, "validate endpoint", "missing host", nil)
	}
	return nil
}

// Score posts one sequence and returns the validated prediction.
func (c *Client) Score(ctx context.Context, endpoint string, sequence []int) (Prediction, error) {
	var empty Prediction
	if sequence == nil {
		sequence = []int{}
	}
	encoded, err := json.Marshal(Request{Sequence: sequence})
	if err != nil {
		return empty, services.Wrap(services.ErrTransport, component, "encode request", "", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return empty, services.Wrap(services.ErrTransport, component, "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, services.Wrap(services.ErrTransport, component, "post", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return empty, services.Wrap(services.ErrTransport, component, "read body", "", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return empty, services.Wrap(services.ErrTransport, component, "post", statusMessage(resp.StatusCode, body), nil)
	}

	var raw rawPrediction
	if err := json.Unmarshal(body, &raw); err != nil {
		return empty, services.Wrap(services.ErrResponseShape, component, "decode response", "", err)
	}
	prediction, err := raw.prediction()
	if err != nil {
		return empty, services.Wrap(services.ErrResponseShape, component, "validate response", "", err)
	}
	return prediction, nil
}

func statusMessage(code int, body []byte) string {
	msg := fmt.Sprintf("http error: %d", code)
	snippet := strings.TrimSpace(string(body))
	if snippet == "" {
		return msg
	}
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet] + "..."
	}
	return msg + ": " + snippet
}
