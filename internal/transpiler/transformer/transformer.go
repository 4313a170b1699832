// Package transformer replaces the type declarations of a file with
// statements that bind each declared name to its runtime descriptor.
package transformer

import (
	"log/slog"

	"martianoff/tsreflect/internal/transpiler"
	"martianoff/tsreflect/internal/transpiler/compiler"
	"martianoff/tsreflect/internal/transpiler/declctx"
	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/registry"
	"martianoff/tsreflect/internal/transpiler/typeast"
	"martianoff/tsreflect/tsrerr"
)

// DefaultLibModule is the module the descriptor library is imported from.
const DefaultLibModule = "ts-runtime/lib"

// Options configures a transformer.
type Options struct {
	StrictNullChecks bool
	Lib              string
	Namespace        string
	LibModule        string

	// ContinueOnError skips declarations that fail to compile and reports
	// them together once the file is done.
	ContinueOnError bool

	// DeclareAmbient emits `declare` declarations as `_t.declare(...)`
	// statements instead of dropping them.
	DeclareAmbient bool

	Logger *slog.Logger

	// Registry supplies the descriptor libraries. When nil the runtime
	// library is registered under the configured binding.
	Registry *registry.LibraryRegistry
}

type reflectTransformer struct {
	opts   Options
	logger *slog.Logger
}

// NewTransformer creates a new transpiler.ASTTransformer.
func NewTransformer(opts Options) transpiler.ASTTransformer {
	if opts.LibModule == "" {
		opts.LibModule = DefaultLibModule
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &reflectTransformer{opts: opts, logger: logger}
}

func (t *reflectTransformer) compilerOptions() compiler.Options {
	return compiler.Options{
		StrictNullChecks: t.opts.StrictNullChecks,
		Lib:              t.opts.Lib,
		Namespace:        t.opts.Namespace,
	}
}

// fileRegistry returns a registry holding the configured libraries and no
// reservations, so names reserved for one file never leak into another.
func (t *reflectTransformer) fileRegistry() *registry.LibraryRegistry {
	reg := registry.NewRegistry()
	if t.opts.Registry == nil {
		reg.Register(registry.RuntimeLibraryInfo(t.compilerOptions().Binding(), t.opts.LibModule))
		return reg
	}
	for _, info := range t.opts.Registry.Libraries() {
		reg.Register(*info)
	}
	return reg
}

// Transform implements transpiler.ASTTransformer. Declarations are emitted
// in source order, one binding per declared name at the position of its
// first declaration.
func (t *reflectTransformer) Transform(file *typeast.File, oracle declctx.Oracle) (*jsast.Program, error) {
	decls := declctx.New(oracle, t.opts.Namespace)
	reg := t.fileRegistry()
	c, err := compiler.New(decls, t.compilerOptions(), reg)
	if err != nil {
		return nil, err
	}
	t.reserve(reg, decls, file)

	t.logger.Debug("start",
		slog.String("file", file.Path),
		slog.Int("declarations", len(file.Declarations)))

	prog := &jsast.Program{Stmts: []jsast.Stmt{
		&jsast.ImportNamespace{Name: c.Binding(), Module: t.opts.LibModule},
	}}

	var errs []error
	emitted := make(map[string]bool)
	for _, d := range file.Declarations {
		name := d.DeclName()
		if emitted[name] {
			t.logger.Debug("skip",
				slog.String("name", name),
				slog.String("reason", "merged into first declaration"),
				slog.String("pos", d.Pos().String()))
			continue
		}
		emitted[name] = true

		primary := oracle.Primary(name)
		if primary == nil {
			primary = d
		}
		stmts, err := t.declaration(c, decls, reg, primary, exported(oracle.Declarations(name), d))
		if err != nil {
			err = &tsrerr.DeclarationError{Name: name, Err: err}
			if !t.opts.ContinueOnError {
				return nil, err
			}
			t.logger.Warn("skip",
				slog.String("name", name),
				slog.String("reason", "compile failed"),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		prog.Stmts = append(prog.Stmts, stmts...)
	}

	t.logger.Debug("end",
		slog.String("file", file.Path),
		slog.Int("statements", len(prog.Stmts)),
		slog.Int("errors", len(errs)))

	if len(errs) > 0 {
		return prog, &tsrerr.MultiError{Errors: errs}
	}
	return prog, nil
}

// reserve records the identifiers the generated code introduces.
func (t *reflectTransformer) reserve(reg *registry.LibraryRegistry, decls *declctx.Context, file *typeast.File) {
	reg.Reserve("function self-reference", decls.FunctionSelfName())
	for _, d := range file.Declarations {
		if class, ok := d.(*typeast.ClassDecl); ok && len(class.TypeParams) > 0 && !class.Ambient {
			reg.Reserve("type parameter symbol", decls.TypeParametersSymbol(class.Name))
		}
	}
}

func exported(merged []typeast.Declaration, fallback typeast.Declaration) bool {
	if fallback.IsExported() {
		return true
	}
	for _, d := range merged {
		if d.IsExported() {
			return true
		}
	}
	return false
}

var _ transpiler.ASTTransformer = (*reflectTransformer)(nil)
