package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cookierisk/internal/api"
	"cookierisk/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local HTTP API",
		Long: `Serve extract, predict, clear and endpoint actions over HTTP on api.bind.
Only one server may run per state directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if v := strings.TrimSpace(bind); v != "" {
				cfg.API.Bind = v
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := ctx.openSession(runCtx, &cfg)
			if err != nil {
				return err
			}
			defer sess.Close()

			logger := ctx.log()
			server := api.NewServer(&cfg, sess.orch, logger)
			if err := server.Start(runCtx); err != nil {
				return err
			}
			defer server.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", server.Addr())
			<-runCtx.Done()
			logger.Info("shutdown requested", logging.String("reason", context.Cause(runCtx).Error()))
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address override (host:port)")
	return cmd
}
