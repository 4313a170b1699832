package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"martianoff/tsreflect/internal/transpiler"
	"martianoff/tsreflect/internal/transpiler/generator"
)

type compileOptions struct {
	pipelineOptions

	output string
	outDir string
	format string
}

func (o *compileOptions) bind(cmd *cobra.Command) {
	o.pipelineOptions.bind(cmd)
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "Path to the output file (single input only)")
	f.StringVar(&o.outDir, "out-dir", "", "Directory to write one output file per input into")
	f.StringVarP(&o.format, "format", "f", "js", "Output format: js or json (descriptor manifest)")
}

func newCompileCmd(verbose *bool) *cobra.Command {
	opts := &compileOptions{pipelineOptions: pipelineOptions{verbose: verbose}}
	cmd := &cobra.Command{
		Use:   "compile [file.ts...]",
		Short: "Compile type declarations to runtime descriptors",
		Long: `Compile the interfaces, classes and type aliases of TypeScript files
to runtime type descriptors.

Examples:
  tsreflect compile user.ts                    # Output to stdout
  tsreflect compile user.ts -o user.js         # Output to file
  tsreflect compile src/*.ts --out-dir gen     # One file per input
  tsreflect compile user.ts --format json      # Descriptor manifest
  tsreflect compile user.ts --strict --lib-module @acme/reflect`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runCompile(cmd *cobra.Command, opts *compileOptions, inputs []string) error {
	if len(inputs) == 0 {
		return errors.New("no input file specified\nUsage: tsreflect compile [file.ts...]")
	}
	if opts.output != "" && len(inputs) > 1 {
		return errors.New("--output takes a single input; use --out-dir for several")
	}
	if opts.format != "js" && opts.format != "json" {
		return fmt.Errorf("unknown format %q: want js or json", opts.format)
	}

	var failed []error
	for _, input := range inputs {
		if err := compileFile(cmd, opts, input); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", input, err))
		}
	}
	return errors.Join(failed...)
}

// compileFile writes whatever was produced for input and then reports the
// declarations that failed, if any.
func compileFile(cmd *cobra.Command, opts *compileOptions, input string) error {
	content, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	res, runErr := opts.run(cmd, input, content, nil)
	if res == nil {
		return runErr
	}

	out, err := render(res, opts.format)
	if err != nil {
		return err
	}
	if err := opts.write(cmd, input, out); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return runErr
}

func render(res *transpiler.Result, format string) ([]byte, error) {
	if format != "json" {
		return []byte(res.Code), nil
	}
	m, err := generator.BuildManifest(res.File.Path, res.Program)
	if err != nil {
		return nil, err
	}
	data, err := generator.ManifestJSON(m)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (o *compileOptions) write(cmd *cobra.Command, input string, out []byte) error {
	switch {
	case o.output != "":
		return os.WriteFile(o.output, out, 0o644)
	case o.outDir != "":
		if err := os.MkdirAll(o.outDir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(o.outDir, outputName(input, o.format)), out, 0o644)
	default:
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
}

// outputName maps src/user.ts to user.js, or user.json for manifests.
func outputName(input, format string) string {
	base := filepath.Base(input)
	for _, ext := range []string{".d.ts", ".tsx", ".ts"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	if format == "json" {
		return base + ".json"
	}
	return base + ".js"
}
