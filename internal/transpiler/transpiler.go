package transpiler

import (
	"context"

	"martianoff/tsreflect/internal/transpiler/declctx"
	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/typeast"
)

// TypeScriptParser defines the interface for parsing TypeScript source into
// type-annotation trees.
type TypeScriptParser interface {
	Parse(ctx context.Context, input []byte, path string) (*typeast.File, error)
}

// Analyzer answers the semantic questions the compiler asks about one file.
type Analyzer interface {
	Analyze(file *typeast.File) (declctx.Oracle, error)
}

// ASTTransformer replaces the type declarations of a file with descriptor
// statements. A transformer running in continue-on-error mode returns the
// program together with the collected failures.
type ASTTransformer interface {
	Transform(file *typeast.File, oracle declctx.Oracle) (*jsast.Program, error)
}

// CodeGenerator generates JavaScript source code from a program.
type CodeGenerator interface {
	Generate(prog *jsast.Program) (string, error)
}

// Transpiler defines the high-level interface for the TypeScript to descriptor conversion.
type Transpiler interface {
	Transpile(ctx context.Context, input []byte, path string) (string, error)
}

// Result is the output of one pipeline run.
type Result struct {
	File    *typeast.File
	Program *jsast.Program
	Code    string
}

// ReflectTranspiler orchestrates the transpilation process.
type ReflectTranspiler struct {
	parser      TypeScriptParser
	analyzer    Analyzer
	transformer ASTTransformer
	generator   CodeGenerator
}

// NewReflectTranspiler creates a new instance of ReflectTranspiler with its dependencies.
func NewReflectTranspiler(
	parser TypeScriptParser,
	analyzer Analyzer,
	transformer ASTTransformer,
	generator CodeGenerator,
) *ReflectTranspiler {
	return &ReflectTranspiler{
		parser:      parser,
		analyzer:    analyzer,
		transformer: transformer,
		generator:   generator,
	}
}

// Transpile executes the full transpilation pipeline.
func (t *ReflectTranspiler) Transpile(ctx context.Context, input []byte, path string) (string, error) {
	res, err := t.Run(ctx, input, path)
	if res == nil {
		return "", err
	}
	return res.Code, err
}

// Run executes the pipeline and keeps the intermediate trees. When the
// transformer reports failures but still produced a program, the program is
// generated and returned along with the error.
func (t *ReflectTranspiler) Run(ctx context.Context, input []byte, path string) (*Result, error) {
	file, err := t.parser.Parse(ctx, input, path)
	if err != nil {
		return nil, err
	}

	oracle, err := t.analyzer.Analyze(file)
	if err != nil {
		return nil, err
	}

	prog, transformErr := t.transformer.Transform(file, oracle)
	if prog == nil {
		return nil, transformErr
	}

	code, err := t.generator.Generate(prog)
	if err != nil {
		return nil, err
	}
	return &Result{File: file, Program: prog, Code: code}, transformErr
}

var _ Transpiler = (*ReflectTranspiler)(nil)
