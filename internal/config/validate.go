package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateCookies(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.TimeoutSeconds <= 0 {
		return errors.New("scoring.timeout_seconds must be positive")
	}
	if c.Scoring.MaxConcurrency < 0 {
		return errors.New("scoring.max_concurrency must be >= 0")
	}
	if c.Scoring.Endpoint == "" {
		return nil
	}
	parsed, err := url.Parse(c.Scoring.Endpoint)
	if err != nil {
		return fmt.Errorf("scoring.endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scoring.endpoint must be an http or https URL, got %q", c.Scoring.Endpoint)
	}
	if parsed.Host == "" {
		return fmt.Errorf("scoring.endpoint is missing a host: %q", c.Scoring.Endpoint)
	}
	return nil
}

func (c *Config) validateCookies() error {
	switch c.Cookies.Source {
	case SourceFirefox, SourceNetscape, SourceHTTP:
	default:
		return fmt.Errorf("cookies.source must be one of %s, %s, %s (got %q)", SourceFirefox, SourceNetscape, SourceHTTP, c.Cookies.Source)
	}
	if c.Cookies.HTTPTimeoutSeconds <= 0 {
		return errors.New("cookies.http_timeout_seconds must be positive")
	}
	return nil
}
