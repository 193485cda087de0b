package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	pattern string
	debug   bool
}

// Execute runs the CLI with the given arguments and output streams.
func Execute(args []string, stdout, stderr io.Writer) {
	root := rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "mdindex",
		Short:        "Index and validate a corpus of markdown notes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.debug {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.pattern, "pattern", "p", "", "glob filter on relative file paths, e.g. '**/orm/*.md'")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(tocCmd(opts))
	cmd.AddCommand(checkCmd(opts))
	cmd.AddCommand(listCmd(opts))

	return cmd
}

// target returns the path to process, defaulting to the working directory.
func target(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
