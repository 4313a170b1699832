package compiler

import (
	"strings"

	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/typeast"
)

func (c *Compiler) VisitTypeReference(n *typeast.TypeReference, rc ReflectionContext) (jsast.Expr, error) {
	args, err := c.compileAll(n.Args)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(n.Name, "array") {
		return c.nullable(c.Lib("array", args...)), nil
	}

	if owner, ofClass, ok := c.decls.TypeParameterOf(n); ok {
		switch {
		case ofClass:
			// this[_BoxTypeParametersSymbol].T
			slot := &jsast.PropertyAccess{
				X: &jsast.ElementAccess{
					X:     &jsast.This{},
					Index: jsast.Id(c.decls.TypeParametersSymbol(owner)),
				},
				Name: n.Name,
			}
			return c.nullable(c.Lib("flowInto", slot)), nil
		case rc == Return:
			return jsast.Id(n.Name), nil
		default:
			return c.nullable(c.Lib("flowInto", append([]jsast.Expr{jsast.Id(n.Name)}, args...)...)), nil
		}
	}

	return c.nullable(c.Lib("ref", append([]jsast.Expr{c.refBinding(n)}, args...)...)), nil
}

// refBinding is the expression reading the descriptor ref names: a name literal
// for ambient declarations, a tdz guard for bindings initialized later.
func (c *Compiler) refBinding(ref *typeast.TypeReference) jsast.Expr {
	switch {
	case c.decls.IsAmbient(ref):
		return jsast.Str(ref.Name)
	case !c.decls.IsDeclaredBefore(ref):
		return c.tdz(ref.Name)
	default:
		return jsast.Id(ref.Name)
	}
}

// tdz defers reading name until the guard is first evaluated.
func (c *Compiler) tdz(name string) jsast.Expr {
	return c.Lib("tdz", &jsast.Arrow{Body: jsast.Id(name)}, jsast.Str(name))
}
