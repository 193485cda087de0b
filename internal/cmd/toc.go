package cmd

import (
	"fmt"

	"github.com/mdindex/mdindex/internal/cli"
	"github.com/mdindex/mdindex/internal/pipeline"
	"github.com/spf13/cobra"
)

func tocCmd(opts *options) *cobra.Command {
	var (
		write    bool
		noBackup bool
	)

	cmd := &cobra.Command{
		Use:     "toc [path]",
		Aliases: []string{"t"},
		Short:   "Render or update tables of contents",
		Long: `Render a table of contents for each markdown document, built from its
heading index. With --write, the region between <!-- toc --> and
<!-- /toc --> markers is updated in place; files without markers are left
untouched. A timestamped .bak copy is created before any rewrite unless
--no-backup is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := cli.NewProcessor(pipeline.Options{
				WriteTOC: write,
				NoBackup: noBackup,
			}, opts.pattern)
			if err != nil {
				return err
			}

			results, err := proc.ProcessPath(target(args))
			if err != nil {
				return err
			}

			var failed int
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", res.Path, res.Err)
					continue
				}

				switch {
				case write && res.Report.Updated:
					fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", res.Path)
				case write:
					fmt.Fprintf(cmd.OutOrStdout(), "skipped %s (no toc markers)\n", res.Path)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", res.Path, res.Report.TOC)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d document(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "update <!-- toc --> regions in place")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "skip the .bak copy before rewriting files")

	return cmd
}
