// Package commands provides the CLI commands for the tsreflect tool.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the tsreflect command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool
	opts := &compileOptions{pipelineOptions: pipelineOptions{verbose: &verbose}}

	rootCmd := &cobra.Command{
		Use:   "tsreflect [file.ts...]",
		Short: "Compile TypeScript type declarations into runtime type descriptors",
		Long: `tsreflect replaces TypeScript interfaces, classes and type aliases with
runtime type descriptors built on a reflection library.

Usage:
  tsreflect [file.ts...]             Compile files to stdout (shorthand)
  tsreflect compile -o out.js a.ts   Compile with explicit output
  tsreflect check src/*.ts           Report declarations that cannot be reflected
  tsreflect version                  Print version

Options are read from tsreflect.json at the project root and may be
overridden by flags.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			for _, arg := range args {
				if !isSourceFile(arg) {
					return fmt.Errorf("unknown command %q for \"tsreflect\"\nRun 'tsreflect --help' for usage", arg)
				}
			}
			return runCompile(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every emitted declaration to stderr")
	opts.bind(rootCmd)

	rootCmd.AddCommand(newCompileCmd(&verbose))
	rootCmd.AddCommand(newCheckCmd(&verbose))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func isSourceFile(path string) bool {
	return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
