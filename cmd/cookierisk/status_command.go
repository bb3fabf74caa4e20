package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cookierisk/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored endpoint and cookies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				snap := sess.orch.Snapshot()
				if jsonOutput {
					return writeJSON(cmd, api.FromSnapshot(snap))
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("cookierisk", colorize) {
					fmt.Fprintln(out, line)
				}

				for _, line := range sessionStatusLines(snap, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Cookie source", statusInfo, sess.cfg.Cookies.Source, colorize))
				fmt.Fprintln(out, renderStatusLine("State DB", statusInfo, sess.store.Path(), colorize))
				if ctx.configPath != "" {
					fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath+" (exists: "+yesNo(ctx.configSeen)+")", colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
