package transformer

import (
	"log/slog"

	"martianoff/tsreflect/internal/transpiler/compiler"
	"martianoff/tsreflect/internal/transpiler/declctx"
	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/registry"
	"martianoff/tsreflect/internal/transpiler/typeast"
)

// declaration builds the statements that replace d.
//
//	const _BoxTypeParametersSymbol = Symbol("BoxTypeParameters");
//	export let Box = _t.class("Box", ...);
//
// Ambient declarations have no binding of their own; they are registered
// with the library by name or dropped.
func (t *reflectTransformer) declaration(
	c *compiler.Compiler,
	decls *declctx.Context,
	reg *registry.LibraryRegistry,
	d typeast.Declaration,
	export bool,
) ([]jsast.Stmt, error) {
	name := d.DeclName()
	if d.IsAmbient() {
		if !t.opts.DeclareAmbient {
			t.logger.Debug("skip",
				slog.String("name", name),
				slog.String("reason", "ambient"))
			return nil, nil
		}
		desc, err := c.Compile(d, compiler.None)
		if err != nil {
			return nil, err
		}
		t.logger.Debug("declaration", slog.String("name", name), slog.Bool("ambient", true))
		return []jsast.Stmt{&jsast.ExprStmt{X: c.Lib("declare", desc)}}, nil
	}

	if err := reg.CheckConflict(name); err != nil {
		return nil, err
	}

	desc, err := c.Compile(d, compiler.None)
	if err != nil {
		return nil, err
	}

	var stmts []jsast.Stmt
	if class, ok := d.(*typeast.ClassDecl); ok && len(class.TypeParams) > 0 {
		stmts = append(stmts, &jsast.VarDecl{
			Kind: jsast.Const,
			Name: decls.TypeParametersSymbol(name),
			Init: &jsast.Call{Callee: jsast.Id("Symbol"), Args: []jsast.Expr{jsast.Str(name + "TypeParameters")}},
		})
	}
	stmts = append(stmts, &jsast.VarDecl{Kind: jsast.Let, Name: name, Init: desc, Export: export})

	t.logger.Debug("declaration",
		slog.String("name", name),
		slog.String("kind", d.Kind().String()),
		slog.Bool("exported", export))
	return stmts, nil
}
