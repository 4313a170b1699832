// Package compiler translates type-annotation nodes into descriptor
// expressions against the runtime type-description library.
package compiler

import (
	"fmt"
	"strings"

	"martianoff/tsreflect/internal/transpiler/declctx"
	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/registry"
	"martianoff/tsreflect/internal/transpiler/typeast"
	"martianoff/tsreflect/tsrerr"
)

// ReflectionContext tells the compiler where an annotation appears.
type ReflectionContext int

const (
	None ReflectionContext = iota
	// Return marks the outermost annotation of a return position. Bare type
	// parameters there are emitted as the flowing value itself.
	Return
)

func (rc ReflectionContext) String() string {
	if rc == Return {
		return "return"
	}
	return "none"
}

// Options configures descriptor emission.
type Options struct {
	StrictNullChecks bool
	Lib              string
	Namespace        string
}

// Binding is the local identifier of the descriptor library.
func (o Options) Binding() string {
	return o.Namespace + o.Lib
}

// Compiler holds configuration only; it is safe to reuse across
// declarations but not to share between goroutines with different contexts.
type Compiler struct {
	opts    Options
	binding string
	decls   *declctx.Context
}

var _ typeast.Visitor[ReflectionContext, jsast.Expr] = (*Compiler)(nil)

// New creates a Compiler. The library registered under the options' binding
// must export every constructor the compiler emits.
func New(decls *declctx.Context, opts Options, reg *registry.LibraryRegistry) (*Compiler, error) {
	if opts.Lib == "" {
		return nil, tsrerr.NewConfigError("lib", "must not be empty")
	}
	binding := opts.Binding()
	if reg != nil {
		if missing := reg.Missing(binding, registry.RuntimeConstructors); len(missing) > 0 {
			return nil, tsrerr.NewConfigError("lib",
				fmt.Sprintf("library %q lacks descriptor constructors: %s", binding, strings.Join(missing, ", ")))
		}
	}
	return &Compiler{opts: opts, binding: binding, decls: decls}, nil
}

// Binding returns the library identifier used as callee prefix.
func (c *Compiler) Binding() string {
	return c.binding
}

// Compile maps node to a descriptor expression. A nil node compiles to the
// any descriptor. A nil expression with a nil error means the node has no
// reflection and must be omitted by the caller.
func (c *Compiler) Compile(node typeast.Node, rc ReflectionContext) (jsast.Expr, error) {
	if node == nil {
		return c.Lib("any"), nil
	}
	return typeast.Accept[ReflectionContext, jsast.Expr](node, c, rc)
}

// Lib builds a call to a library constructor.
func (c *Compiler) Lib(name string, args ...jsast.Expr) *jsast.Call {
	return jsast.MethodCall(jsast.Id(c.binding), name, args...)
}

// Assert builds `desc.assert(args...)`.
func (c *Compiler) Assert(desc jsast.Expr, args ...jsast.Expr) jsast.Expr {
	return jsast.MethodCall(desc, "assert", args...)
}

// TypeDeclaration compiles node into `const name = <descriptor>`.
func (c *Compiler) TypeDeclaration(name string, node typeast.Node) (*jsast.VarDecl, error) {
	desc, err := c.Compile(node, None)
	if err != nil {
		return nil, err
	}
	return &jsast.VarDecl{Kind: jsast.Const, Name: name, Init: desc}, nil
}

func (c *Compiler) nullable(e jsast.Expr) jsast.Expr {
	if c.opts.StrictNullChecks {
		return e
	}
	return c.Lib("nullable", e)
}

// compileAll compiles nested annotations. Nested positions never inherit
// the return context.
func (c *Compiler) compileAll(nodes []typeast.Node) ([]jsast.Expr, error) {
	out := make([]jsast.Expr, 0, len(nodes))
	for _, n := range nodes {
		e, err := c.Compile(n, None)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Compiler) VisitParenthesized(n *typeast.Parenthesized, rc ReflectionContext) (jsast.Expr, error) {
	return c.Compile(n.Type, rc)
}

func (c *Compiler) VisitKeyword(n *typeast.Keyword, _ ReflectionContext) (jsast.Expr, error) {
	switch n.Keyword {
	case typeast.Any, typeast.Void, typeast.Null:
		return c.Lib(string(n.Keyword)), nil
	case typeast.Undefined:
		return c.nullable(c.Lib("undef")), nil
	case typeast.Number, typeast.Boolean, typeast.String, typeast.Symbol, typeast.Object:
		return c.nullable(c.Lib(string(n.Keyword))), nil
	}
	return nil, unsupported(tsrerr.NewUnsupportedConstruct, n.Keyword.Syntax(), n.Pos())
}

func (c *Compiler) VisitThis(_ *typeast.ThisType, _ ReflectionContext) (jsast.Expr, error) {
	return c.nullable(c.Lib("this", &jsast.This{})), nil
}

func (c *Compiler) VisitLiteral(n *typeast.Literal, _ ReflectionContext) (jsast.Expr, error) {
	switch n.Literal {
	case typeast.BooleanLiteral:
		return c.nullable(c.Lib("boolean", &jsast.BoolLit{Value: n.Text == "true"})), nil
	case typeast.StringLiteral:
		return c.nullable(c.Lib("string", jsast.Str(typeast.Unquote(n.Text)))), nil
	case typeast.NumericLiteral:
		return c.nullable(c.Lib("number", &jsast.NumberLit{Text: n.Text})), nil
	}
	syntax := n.Syntax
	if syntax == "" {
		syntax = n.Text
	}
	return nil, unsupported(tsrerr.NewUnsupportedLiteral, syntax, n.Pos())
}

func (c *Compiler) VisitArray(n *typeast.ArrayType, _ ReflectionContext) (jsast.Expr, error) {
	elem, err := c.Compile(n.Elem, None)
	if err != nil {
		return nil, err
	}
	return c.nullable(c.Lib("array", elem)), nil
}

func (c *Compiler) VisitTuple(n *typeast.TupleType, _ ReflectionContext) (jsast.Expr, error) {
	elems, err := c.compileAll(n.Elems)
	if err != nil {
		return nil, err
	}
	return c.nullable(c.Lib("tuple", elems...)), nil
}

func (c *Compiler) VisitUnion(n *typeast.UnionType, _ ReflectionContext) (jsast.Expr, error) {
	types, err := c.compileAll(n.Types)
	if err != nil {
		return nil, err
	}
	return c.nullable(c.Lib("union", types...)), nil
}

func (c *Compiler) VisitIntersection(n *typeast.IntersectionType, _ ReflectionContext) (jsast.Expr, error) {
	types, err := c.compileAll(n.Types)
	if err != nil {
		return nil, err
	}
	return c.nullable(c.Lib("intersection", types...)), nil
}

func (c *Compiler) VisitTypeQuery(n *typeast.TypeQuery, _ ReflectionContext) (jsast.Expr, error) {
	return c.nullable(c.Lib("typeOf", &jsast.Raw{Text: n.Expr})), nil
}

func (c *Compiler) VisitTypeLiteral(n *typeast.TypeLiteral, _ ReflectionContext) (jsast.Expr, error) {
	members, err := c.members(n.Members)
	if err != nil {
		return nil, err
	}
	return c.nullable(c.Lib("object", members...)), nil
}

func (c *Compiler) VisitUnsupported(n *typeast.Unsupported, _ ReflectionContext) (jsast.Expr, error) {
	return nil, unsupported(tsrerr.NewUnsupportedConstruct, n.Syntax, n.Pos())
}

func unsupported(newErr func(kind string, line, column int) *tsrerr.UnsupportedError, kind string, pos typeast.Pos) error {
	return newErr(kind, pos.Line, pos.Column)
}
