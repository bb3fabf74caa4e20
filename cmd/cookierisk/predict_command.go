package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cookierisk/internal/api"
	"cookierisk/internal/dispatch"
	"cookierisk/internal/pipeline"
	"cookierisk/internal/report"
	"cookierisk/internal/services"
)

func newPredictCommand(ctx *commandContext) *cobra.Command {
	var inputPath string
	var endpoint string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score the stored cookies against the scoring endpoint",
		Long: `Send every cookie of the pending batch to the scoring endpoint and show one
row per cookie. A cookie whose request fails shows its error instead of a
risk level; the other cookies are unaffected.

Use --input to score an edited batch ("-" reads it from stdin).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(sess *session) error {
				var batch []dispatch.Item
				if path := strings.TrimSpace(inputPath); path != "" {
					data, err := readInput(cmd, path)
					if err != nil {
						return err
					}
					batch, err = sess.orch.ParseBatch(data)
					if err != nil {
						fmt.Fprintln(cmd.OutOrStdout(), pipeline.StatusBadInput)
						return err
					}
				}
				if url := strings.TrimSpace(endpoint); url != "" {
					if err := sess.orch.SaveEndpoint(cmd.Context(), url); err != nil {
						return err
					}
				}

				outcomes, err := sess.orch.Predict(cmd.Context(), batch)
				snap := sess.orch.Snapshot()
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), snap.Status)
					if errors.Is(err, services.ErrNoEndpoint) {
						return fmt.Errorf("%w (set one with `cookierisk endpoint set <url>`)", err)
					}
					return err
				}

				if jsonOutput {
					succeeded, failed := dispatch.Summary(outcomes)
					return writeJSON(cmd, api.PredictResponse{
						Status:    snap.Status,
						RunID:     snap.RunID,
						Succeeded: succeeded,
						Failed:    failed,
						Outcomes:  api.FromOutcomes(outcomes),
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, report.Outcomes(outcomes, report.Options{Colorize: shouldColorize(out)}))
				fmt.Fprintf(out, "%s (%s)\n", snap.Status, report.Summary(outcomes))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Edited batch JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Save this scoring endpoint before predicting")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return data, nil
}
