package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cookierisk/internal/report"
	"cookierisk/internal/sequence"
)

type encodeOutput struct {
	Value      string          `json:"value"`
	Length     int             `json:"length"`
	Sequence   []int           `json:"sequence"`
	Padded     []int           `json:"padded,omitempty"`
	Vocabulary []vocabularyRow `json:"vocabulary,omitempty"`
}

type vocabularyRow struct {
	Char  string `json:"char"`
	Index int    `json:"index"`
}

func newEncodeCommand() *cobra.Command {
	var padded bool
	var vocab bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "encode <value>",
		Short:       "Encode a single cookie value",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]
			result := encodeOutput{
				Value:    value,
				Sequence: sequence.Encode(value),
			}
			result.Length = len(result.Sequence)
			if padded {
				result.Padded = sequence.Padded(value)
			}
			if vocab {
				result.Vocabulary = append(result.Vocabulary, vocabularyRow{Char: sequence.PadToken, Index: sequence.PadIndex})
				for _, entry := range sequence.BuildVocabulary(value).Entries() {
					result.Vocabulary = append(result.Vocabulary, vocabularyRow{Char: strconv.QuoteRune(entry.Char), Index: entry.Index})
				}
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			shown := result.Sequence
			if padded {
				shown = result.Padded
			}
			data, err := json.Marshal(shown)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			if vocab {
				rows := make([][]string, 0, len(result.Vocabulary))
				for _, row := range result.Vocabulary {
					rows = append(rows, []string{row.Char, strconv.Itoa(row.Index)})
				}
				fmt.Fprintln(out, report.RenderTable([]string{"Char", "Index"}, rows, []report.Alignment{report.AlignLeft, report.AlignRight}))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&padded, "padded", false, "Show the fixed-length sequence including padding")
	cmd.Flags().BoolVar(&vocab, "vocab", false, "Show the per-value vocabulary")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
