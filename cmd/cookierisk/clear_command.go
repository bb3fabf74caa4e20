package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cookierisk/internal/pipeline"
)

func newClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored cookie values",
		Long: `Remove the stored cookie values and the pending batch. The saved scoring
endpoint is kept unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				if err := sess.orch.Clear(cmd.Context()); err != nil {
					return err
				}
				if all {
					if err := sess.store.Clear(cmd.Context()); err != nil {
						return fmt.Errorf("clear saved endpoint: %w", err)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), pipeline.StatusCleared)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Also forget the saved scoring endpoint")
	return cmd
}
