package config

const (
	defaultConfigPath        = "~/.config/cookierisk/config.toml"
	defaultStateDir          = "~/.local/share/cookierisk"
	defaultLogDir            = "~/.local/share/cookierisk/logs"
	defaultScoringTimeout    = 10
	defaultScoringUserAgent  = "cookierisk/dev"
	defaultCookieSource      = SourceFirefox
	defaultCookieHTTPTimeout = 15
	defaultAPIBind           = "127.0.0.1:7491"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	endpointEnvVar           = "COOKIERISK_ENDPOINT"
	apiTokenEnvVar           = "COOKIERISK_API_TOKEN"
)

// Cookie source identifiers accepted by cookies.source.
const (
	SourceFirefox  = "firefox"
	SourceNetscape = "netscape"
	SourceHTTP     = "http"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Scoring: Scoring{
			TimeoutSeconds: defaultScoringTimeout,
			UserAgent:      defaultScoringUserAgent,
		},
		Cookies: Cookies{
			Source:             defaultCookieSource,
			HTTPTimeoutSeconds: defaultCookieHTTPTimeout,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
