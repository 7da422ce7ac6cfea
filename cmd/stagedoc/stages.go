package main

import (
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/stagedoc/internal/prompts"
)

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stage registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, prompts.StageCount())
			for _, s := range prompts.Stages() {
				rows = append(rows, []string{strconv.Itoa(s.Stage), s.Description})
			}

			md := markdown.NewMarkdown(cmd.OutOrStdout())
			md.Table(markdown.TableSet{
				Header: []string{"Stage", "Description"},
				Rows:   rows,
			})
			return md.Build()
		},
	}
}
