package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"martianoff/tsreflect/internal/config"
	"martianoff/tsreflect/internal/transpiler"
	"martianoff/tsreflect/internal/transpiler/analyzer"
	"martianoff/tsreflect/internal/transpiler/generator"
	"martianoff/tsreflect/internal/transpiler/module"
	"martianoff/tsreflect/internal/transpiler/transformer"
)

// pipelineOptions are the flags shared by every command that runs the
// compiler. Flags left unset fall back to tsreflect.json, then to defaults.
type pipelineOptions struct {
	verbose *bool

	configPath      string
	search          []string
	strict          bool
	lib             string
	namespace       string
	libModule       string
	continueOnError bool
	declareAmbient  bool
	declarations    []string
}

func (o *pipelineOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Path to tsreflect.json (default: found at the project root)")
	f.StringSliceVarP(&o.search, "search", "s", nil, "Extra directories to look up declaration files in")
	f.BoolVar(&o.strict, "strict", false, "Assume strictNullChecks; do not wrap descriptors in nullable")
	f.StringVar(&o.lib, "lib", "", "Local name of the descriptor library (default \"t\")")
	f.StringVar(&o.namespace, "namespace", "", "Prefix of generated identifiers (default \"_\")")
	f.StringVar(&o.libModule, "lib-module", "", "Module the descriptor library is imported from")
	f.BoolVar(&o.continueOnError, "continue-on-error", false, "Skip failing declarations and report them at the end")
	f.BoolVar(&o.declareAmbient, "declare-ambient", false, "Register ambient declarations with the library")
	f.StringSliceVarP(&o.declarations, "declarations", "d", nil, "Declaration files (.d.ts) visible to every input")
}

// resolveConfig loads the configuration that applies to input: the file
// given by --config, else tsreflect.json at the project root, else the
// defaults. Flags set on the command line win.
func (o *pipelineOptions) resolveConfig(cmd *cobra.Command, input string) (*config.Config, *module.Resolver, error) {
	resolver := module.NewResolver(input, o.search)

	var (
		cfg *config.Config
		err error
	)
	switch path, found := resolver.ConfigPath(); {
	case o.configPath != "":
		cfg, err = config.Load(o.configPath)
	case found:
		cfg, err = config.Load(path)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, nil, err
	}

	f := cmd.Flags()
	if f.Changed("strict") {
		cfg.StrictNullChecks = o.strict
	}
	if f.Changed("lib") {
		cfg.Lib = o.lib
	}
	if f.Changed("namespace") {
		cfg.Namespace = o.namespace
	}
	if f.Changed("lib-module") {
		cfg.LibModule = o.libModule
	}
	if f.Changed("continue-on-error") {
		cfg.ContinueOnError = o.continueOnError
	}
	if f.Changed("declare-ambient") {
		cfg.DeclareAmbient = o.declareAmbient
	}
	cfg.Declarations = append(cfg.Declarations, o.declarations...)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, resolver, nil
}

// newTranspiler wires the pipeline for one configuration.
func newTranspiler(ctx context.Context, cfg *config.Config, resolver *module.Resolver, logger *slog.Logger) (*transpiler.ReflectTranspiler, error) {
	p := transpiler.NewTreeSitterParser()

	files := make([]string, 0, len(cfg.Declarations))
	for _, ref := range cfg.Declarations {
		path, err := resolver.ResolveDeclarationFile(ref)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	base, err := analyzer.LoadBaseDeclarations(ctx, p, files, resolver.SearchPaths())
	if err != nil {
		return nil, err
	}
	if len(base) > 0 {
		logger.Debug("loaded declarations", slog.Int("files", len(base)))
	}

	return transpiler.NewReflectTranspiler(
		p,
		analyzer.NewReflectAnalyzer(logger, base...),
		transformer.NewTransformer(cfg.TransformerOptions(logger)),
		generator.NewJSCodeGenerator(),
	), nil
}

// run compiles one file. The result is returned whenever a program was
// produced, even if some declarations failed.
func (o *pipelineOptions) run(cmd *cobra.Command, input string, content []byte, force func(*config.Config)) (*transpiler.Result, error) {
	cfg, resolver, err := o.resolveConfig(cmd, input)
	if err != nil {
		return nil, err
	}
	if force != nil {
		force(cfg)
	}
	logger := newLogger(cmd.ErrOrStderr(), *o.verbose)
	tr, err := newTranspiler(cmd.Context(), cfg, resolver, logger)
	if err != nil {
		return nil, err
	}
	res, err := tr.Run(cmd.Context(), content, input)
	if err != nil && res == nil {
		return nil, fmt.Errorf("transpilation failed: %w", err)
	}
	return res, err
}
