package compiler

import (
	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/typeast"
	"martianoff/tsreflect/tsrerr"
)

func (c *Compiler) VisitFunctionType(n *typeast.FunctionType, _ ReflectionContext) (jsast.Expr, error) {
	return c.function(n.TypeParams, n.Params, n.Return)
}

// function builds `function(param..., return(...))`. Generic signatures move
// the arguments into a block that first binds each type parameter on the
// descriptor under construction.
func (c *Compiler) function(typeParams []*typeast.TypeParameter, params []*typeast.Parameter, ret typeast.Node) (jsast.Expr, error) {
	args := make([]jsast.Expr, 0, len(params)+1)
	for _, p := range params {
		e, err := c.parameter(p)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}

	r, err := c.Compile(ret, Return)
	if err != nil {
		return nil, err
	}
	args = append(args, c.Lib("return", r))

	if len(typeParams) > 0 {
		self := c.decls.FunctionSelfName()
		block, err := c.typeParameterBlock(self, typeParams, &jsast.ArrayLit{Elems: args})
		if err != nil {
			return nil, err
		}
		args = []jsast.Expr{&jsast.Arrow{Params: []string{self}, Block: block}}
	}
	return c.nullable(c.Lib("function", args...)), nil
}

func (c *Compiler) parameter(p *typeast.Parameter) (jsast.Expr, error) {
	name, err := c.propertyName(p.Name)
	if err != nil {
		return nil, err
	}

	var desc jsast.Expr
	if p.SkipReflection && p.Name != nil && p.Name.Name == typeast.IdentifierName {
		desc = jsast.Id(c.decls.ParameterTypeName(p.Name.Text))
	} else if desc, err = c.Compile(p.Type, None); err != nil {
		return nil, err
	}

	if p.Rest {
		return c.Lib("rest", name, desc), nil
	}
	args := []jsast.Expr{name, desc}
	if p.Optional {
		args = append(args, &jsast.BoolLit{Value: true})
	}
	return c.Lib("param", args...), nil
}

// typeParameterBlock declares each type parameter as a local bound through
// self.typeParameter(...) and returns result.
func (c *Compiler) typeParameterBlock(self string, typeParams []*typeast.TypeParameter, result jsast.Expr) (*jsast.Block, error) {
	block := &jsast.Block{}
	for _, tp := range typeParams {
		decl, err := c.typeParameter(jsast.Id(self), tp)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, &jsast.VarDecl{Kind: jsast.Const, Name: tp.Name, Init: decl})
	}
	block.Stmts = append(block.Stmts, &jsast.Return{X: result})
	return block, nil
}

// typeParameter builds `owner.typeParameter("T"[, constraint][, default])`.
// A default without a constraint keeps its position with `void 0`.
func (c *Compiler) typeParameter(owner jsast.Expr, tp *typeast.TypeParameter) (jsast.Expr, error) {
	args := []jsast.Expr{jsast.Str(tp.Name)}
	if tp.Constraint != nil {
		e, err := c.Compile(tp.Constraint, None)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	if tp.Default != nil {
		if tp.Constraint == nil {
			args = append(args, &jsast.VoidZero{})
		}
		e, err := c.Compile(tp.Default, None)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return jsast.MethodCall(owner, "typeParameter", args...), nil
}

func (c *Compiler) VisitMember(m *typeast.Member, _ ReflectionContext) (jsast.Expr, error) {
	switch m.MemberKind {
	case typeast.ConstructorMember:
		return nil, nil
	case typeast.PropertyMember:
		name, err := c.propertyName(m.Name)
		if err != nil {
			return nil, err
		}
		t, err := c.Compile(m.Type, None)
		if err != nil {
			return nil, err
		}
		args := []jsast.Expr{name, t}
		if m.Optional {
			args = append(args, &jsast.BoolLit{Value: true})
		}
		return c.Lib(c.propertyKind(m), args...), nil
	case typeast.MethodMember, typeast.GetAccessor, typeast.SetAccessor:
		name, err := c.propertyName(m.Name)
		if err != nil {
			return nil, err
		}
		fn, err := c.function(m.TypeParams, m.Params, m.Type)
		if err != nil {
			return nil, err
		}
		return c.Lib(c.propertyKind(m), name, fn), nil
	case typeast.CallSignature, typeast.ConstructSignature:
		fn, err := c.function(m.TypeParams, m.Params, m.Type)
		if err != nil {
			return nil, err
		}
		return c.Lib("callProperty", fn), nil
	case typeast.IndexSignature:
		if len(m.Params) != 1 {
			return nil, unsupported(tsrerr.NewUnsupportedConstruct, m.MemberKind.String(), m.Pos())
		}
		key := m.Params[0]
		name, err := c.propertyName(key.Name)
		if err != nil {
			return nil, err
		}
		keyType, err := c.Compile(key.Type, None)
		if err != nil {
			return nil, err
		}
		valueType, err := c.Compile(m.Type, None)
		if err != nil {
			return nil, err
		}
		return c.Lib("indexer", name, keyType, valueType), nil
	}
	return nil, unsupported(tsrerr.NewUnsupportedConstruct, m.MemberKind.String(), m.Pos())
}

func (c *Compiler) propertyKind(m *typeast.Member) string {
	if m.Static {
		return "staticProperty"
	}
	return "property"
}

// propertyName turns a member or parameter name into a literal, or into
// the source expression for computed names.
func (c *Compiler) propertyName(n *typeast.PropertyName) (jsast.Expr, error) {
	if n == nil {
		return nil, tsrerr.NewUnsupportedName("MissingName", 0, 0)
	}
	switch n.Name {
	case typeast.IdentifierName:
		return jsast.Str(n.Text), nil
	case typeast.StringLiteralName:
		return jsast.Str(typeast.Unquote(n.Text)), nil
	case typeast.NumericLiteralName:
		return &jsast.NumberLit{Text: n.Text}, nil
	case typeast.ComputedName:
		return &jsast.Raw{Text: n.Text}, nil
	}
	syntax := n.Syntax
	if syntax == "" {
		syntax = "BindingPattern"
	}
	return nil, tsrerr.NewUnsupportedName(syntax, n.At.Line, n.At.Column)
}
