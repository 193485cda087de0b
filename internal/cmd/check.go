package cmd

import (
	"fmt"

	"github.com/mdindex/mdindex/internal/cli"
	"github.com/mdindex/mdindex/internal/pipeline"
	"github.com/spf13/cobra"
)

func checkCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:     "check [path]",
		Aliases: []string{"c"},
		Short:   "Validate markdown documents",
		Long: `Parse every markdown document and report findings. An unterminated code
fence fails the offending document; duplicate headings, fences without a
language tag and heading level jumps are warnings. Documents fail
independently: one bad file never stops the rest of the batch.`,
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

			failed := cli.RenderFindings(cmd.OutOrStdout(), results)

			var warnings int
			for _, res := range results {
				if res.Err == nil {
					warnings += len(res.Report.Warnings)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "checked %d document(s): %d failed, %d warning(s)\n",
				len(results), failed, warnings)

			if failed > 0 {
				return fmt.Errorf("%d document(s) failed", failed)
			}
			if strict && warnings > 0 {
				return fmt.Errorf("%d warning(s) in strict mode", warnings)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")

	return cmd
}
