package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cookierisk/internal/config"
	"cookierisk/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	scorer     *testsupport.Scorer
	configPath string
	baseDir    string
}

var fixtureCookies = []testsupport.Cookie{
	{Domain: ".example.com", Name: "sid", Value: "abc"},
	{Domain: "example.com", Name: "theme", Value: "dark"},
	{Domain: ".other.org", Name: "tracker", Value: "zzz"},
}

// setupCLITestEnv writes a config pointing at a cookies.txt fixture. When
// withEndpoint is set the config also names a fake scorer.
func setupCLITestEnv(t *testing.T, withEndpoint bool) *cliTestEnv {
	t.Helper()

	t.Setenv("COOKIERISK_ENDPOINT", "")
	t.Setenv("COOKIERISK_API_TOKEN", "")

	scorer := testsupport.NewScorer(t, nil)
	opts := []testsupport.ConfigOption{testsupport.WithCookies(fixtureCookies...)}
	if withEndpoint {
		opts = append(opts, testsupport.WithEndpoint(scorer.URL))
	}
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "cookierisk", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		scorer:     scorer,
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, nil)
}

func runCLIWithInput(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
