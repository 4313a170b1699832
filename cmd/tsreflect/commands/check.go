package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"martianoff/tsreflect/internal/config"
	"martianoff/tsreflect/tsrerr"
)

func newCheckCmd(verbose *bool) *cobra.Command {
	opts := &pipelineOptions{verbose: verbose}
	cmd := &cobra.Command{
		Use:   "check [file.ts...]",
		Short: "Report declarations that cannot be compiled",
		Long: `Compile every declaration of each file without writing output and list
the ones that fail. Exits non-zero if any declaration fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, opts *pipelineOptions, inputs []string) error {
	out := cmd.OutOrStdout()
	failures := 0
	for _, input := range inputs {
		content, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		res, err := opts.run(cmd, input, content, func(cfg *config.Config) {
			cfg.ContinueOnError = true
		})
		if err == nil {
			fmt.Fprintf(out, "ok\t%s\t%d declarations\n", input, len(res.File.Declarations))
			continue
		}

		var multi *tsrerr.MultiError
		if !errors.As(err, &multi) {
			failures++
			fmt.Fprintf(out, "FAIL\t%s\t%v\n", input, err)
			continue
		}
		for _, e := range multi.Errors {
			failures++
			fmt.Fprintf(out, "FAIL\t%s\t%v\n", input, e)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d declaration(s) failed", failures)
	}
	return nil
}
