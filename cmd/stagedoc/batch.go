package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/stagedoc/internal/prompts"
)

func newBatchCmd(load systemLoader) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "batch <locator>...",
		Short: "Analyze one image per stage and print the composite document",
		Long: fmt.Sprintf(
			"Analyze exactly %d images, one per stage %d through %d in order, and print the composite markdown document.",
			prompts.StageCount(), prompts.FirstStage, prompts.LastStage,
		),
		Args: cobra.ExactArgs(prompts.StageCount()),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, release, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			result, err := sys.AnalyzeBatch(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			_, err = fmt.Fprintln(out, result.Result)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full batch result as JSON")

	return cmd
}
