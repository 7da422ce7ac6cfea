package main

import (
	"errors"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/stagedoc/internal/analysis"
)

func newImageCmd(load systemLoader) *cobra.Command {
	var req analysis.ImageRequest

	cmd := &cobra.Command{
		Use:   "image [locator]",
		Short: "Extract text from one image and describe it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Locator = args[0]
			}
			if req.Locator == "" && req.Container == "" {
				return errors.New("a locator argument or --container and --key are required")
			}

			sys, release, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			result, err := sys.AnalyzeImage(cmd.Context(), req)
			if err != nil {
				return err
			}

			md := markdown.NewMarkdown(cmd.OutOrStdout())
			md.H2("Extracted Text")
			md.PlainText("")
			md.CodeBlocks(markdown.SyntaxHighlight("text"), result.ExtractedText)
			md.PlainText("")
			md.H2("Description")
			md.PlainText("")
			md.PlainText(result.Description)
			return md.Build()
		},
	}

	cmd.Flags().StringVar(&req.Container, "container", "", "bucket or container name")
	cmd.Flags().StringVar(&req.Key, "key", "", "object key within the container")
	cmd.MarkFlagsRequiredTogether("container", "key")

	return cmd
}
