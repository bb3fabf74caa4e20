package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cookierisk/internal/pipeline"
)

func newEndpointCommand(ctx *commandContext) *cobra.Command {
	endpointCmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Manage the scoring endpoint URL",
	}

	endpointCmd.AddCommand(&cobra.Command{
		Use:   "set <url>",
		Short: "Save the scoring endpoint URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				if err := sess.orch.SaveEndpoint(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), pipeline.StatusEndpointSet)
				return nil
			})
		},
	})

	endpointCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the scoring endpoint URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				url := sess.orch.Endpoint()
				if url == "" {
					fmt.Fprintln(cmd.OutOrStdout(), pipeline.StatusNoEndpoint)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	})

	return endpointCmd
}
