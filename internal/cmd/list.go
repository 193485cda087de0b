package cmd

import (
	"fmt"

	"github.com/mdindex/mdindex/internal/cli"
	"github.com/mdindex/mdindex/internal/pipeline"
	"github.com/spf13/cobra"
)

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [path]",
		Aliases: []string{"ls"},
		Short:   "List sections and code blocks",
		Long: `Print the section inventory of every markdown document: heading, level,
line span and contained code block count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := cli.NewProcessor(pipeline.Options{}, opts.pattern)
			if err != nil {
				return err
			}

			results, err := proc.ProcessPath(target(args))
			if err != nil {
				return err
			}

			cli.RenderInventory(cmd.OutOrStdout(), results)

			var failed int
			for _, res := range results {
				if res.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d document(s) failed", failed)
			}
			return nil
		},
	}

	return cmd
}
