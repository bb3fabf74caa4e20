package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cookierisk/internal/config"
	"cookierisk/internal/cookies"
	"cookierisk/internal/dispatch"
	"cookierisk/internal/logging"
	"cookierisk/internal/pipeline"
	"cookierisk/internal/scoring"
	"cookierisk/internal/state"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// log returns the process logger, falling back to a no-op logger when the
// log directory is unusable.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// session bundles the store and orchestrator a command works with.
type session struct {
	cfg   *config.Config
	store *state.Store
	orch  *pipeline.Orchestrator
}

func (s *session) Close() error {
	return s.store.Close()
}

// openSession opens the state store and restores the orchestrator. cfg may be
// a modified copy of the loaded configuration.
func (c *commandContext) openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	if cfg == nil {
		loaded, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	logger := c.log()

	store, err := state.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	source, err := cookies.NewSource(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	client := scoring.NewClient(scoring.WithUserAgent(cfg.Scoring.UserAgent))
	dispatcher := dispatch.NewDispatcher(client, dispatch.Options{
		Timeout:        cfg.ScoringTimeout(),
		MaxConcurrency: cfg.Scoring.MaxConcurrency,
		Logger:         logger,
	})
	orch := pipeline.New(pipeline.Options{
		Store:            store,
		Source:           source,
		Dispatcher:       dispatcher,
		FallbackEndpoint: cfg.Scoring.Endpoint,
		Logger:           logger,
	})
	if err := orch.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: store, orch: orch}, nil
}

func (c *commandContext) withSession(cmd *cobra.Command, fn func(*session) error) error {
	sess, err := c.openSession(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
