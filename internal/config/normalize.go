package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScoring()
	if err := c.normalizeCookies(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScoring() {
	c.Scoring.Endpoint = strings.TrimSpace(c.Scoring.Endpoint)
	if c.Scoring.Endpoint == "" {
		if value, ok := os.LookupEnv(endpointEnvVar); ok {
			c.Scoring.Endpoint = strings.TrimSpace(value)
		}
	}
	if c.Scoring.TimeoutSeconds <= 0 {
		c.Scoring.TimeoutSeconds = defaultScoringTimeout
	}
	if c.Scoring.MaxConcurrency < 0 {
		c.Scoring.MaxConcurrency = 0
	}
	c.Scoring.UserAgent = strings.TrimSpace(c.Scoring.UserAgent)
	if c.Scoring.UserAgent == "" {
		c.Scoring.UserAgent = defaultScoringUserAgent
	}
}

func (c *Config) normalizeCookies() error {
	c.Cookies.Source = strings.ToLower(strings.TrimSpace(c.Cookies.Source))
	if c.Cookies.Source == "" {
		c.Cookies.Source = defaultCookieSource
	}
	if strings.TrimSpace(c.Cookies.Path) != "" {
		var err error
		if c.Cookies.Path, err = expandPath(strings.TrimSpace(c.Cookies.Path)); err != nil {
			return fmt.Errorf("cookies.path: %w", err)
		}
	}
	if c.Cookies.HTTPTimeoutSeconds <= 0 {
		c.Cookies.HTTPTimeoutSeconds = defaultCookieHTTPTimeout
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv(apiTokenEnvVar); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
