package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cookierisk/internal/api"
	"cookierisk/internal/config"
	"cookierisk/internal/dispatch"
	"cookierisk/internal/pipeline"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var fileFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract <page-url>",
		Short: "Read and store the cookies for a page's host",
		Long: `Read the cookies belonging to the page's host from the configured cookie
source, store their raw values and print the encoded batch. The batch is the
editable JSON that "cookierisk predict --input" accepts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *loaded
			if v := strings.ToLower(strings.TrimSpace(sourceFlag)); v != "" {
				cfg.Cookies.Source = v
			}
			if v := strings.TrimSpace(fileFlag); v != "" {
				expanded, err := config.ExpandPath(v)
				if err != nil {
					return fmt.Errorf("resolve cookie file: %w", err)
				}
				cfg.Cookies.Path = expanded
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sess, err := ctx.openSession(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			defer sess.Close()

			batch, extractErr := sess.orch.Extract(cmd.Context(), args[0])
			snap := sess.orch.Snapshot()
			if jsonOutput {
				if batch == nil {
					batch = []dispatch.Item{}
				}
				payload := api.ExtractResponse{Status: snap.Status, Count: len(batch), Batch: batch}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
				return extractErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, snap.Status)
			if extractErr != nil {
				return extractErr
			}
			data, err := pipeline.MarshalBatch(batch)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Cookie source override (firefox, netscape, http)")
	cmd.Flags().StringVar(&fileFlag, "file", "", "cookies.sqlite or cookies.txt path override")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
