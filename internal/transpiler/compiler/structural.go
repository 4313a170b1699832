package compiler

import (
	"martianoff/tsreflect/internal/transpiler/jsast"
	"martianoff/tsreflect/internal/transpiler/merger"
	"martianoff/tsreflect/internal/transpiler/typeast"
)

func (c *Compiler) VisitInterface(n *typeast.InterfaceDecl, _ ReflectionContext) (jsast.Expr, error) {
	members, err := c.members(c.decls.Members(n))
	if err != nil {
		return nil, err
	}
	args := []jsast.Expr{c.Lib("object", members...)}
	return c.declaration("type", n, args)
}

func (c *Compiler) VisitClass(n *typeast.ClassDecl, _ ReflectionContext) (jsast.Expr, error) {
	var index, statics []*typeast.Member
	for _, m := range n.Members {
		switch {
		case m.Static:
			statics = append(statics, m)
		case m.MemberKind == typeast.IndexSignature:
			index = append(index, m)
		}
	}
	all := make([]*typeast.Member, 0, len(index)+len(statics))
	all = append(all, index...)
	all = append(all, c.decls.Members(n)...)
	all = append(all, statics...)

	members, err := c.members(all)
	if err != nil {
		return nil, err
	}
	var body jsast.Expr = c.Lib("object", members...)

	if len(n.Implements) > 0 {
		parts := make([]jsast.Expr, 0, len(n.Implements)+1)
		for _, ref := range n.Implements {
			parts = append(parts, c.refBinding(ref))
		}
		body = c.Lib("intersect", append(parts, body)...)
	}

	args := []jsast.Expr{body}
	if n.Extends != nil {
		args = append([]jsast.Expr{c.Lib("extends", c.refBinding(n.Extends))}, args...)
	}
	return c.declaration("class", n, args)
}

func (c *Compiler) VisitTypeAlias(n *typeast.TypeAliasDecl, _ ReflectionContext) (jsast.Expr, error) {
	desc, err := c.Compile(n.Type, None)
	if err != nil {
		return nil, err
	}
	if len(n.TypeParams) > 0 {
		block, err := c.typeParameterBlock(n.Name, n.TypeParams, desc)
		if err != nil {
			return nil, err
		}
		desc = &jsast.Arrow{Params: []string{n.Name}, Block: block}
	} else if c.decls.HasSelfReference(n) {
		desc = &jsast.Arrow{Params: []string{n.Name}, Body: desc}
	}
	return c.Lib("type", jsast.Str(n.Name), desc), nil
}

// declaration builds `kind("Name", args...)`, moving args into a
// self-reference block when the declaration is generic or mentions itself.
func (c *Compiler) declaration(kind string, decl typeast.Declaration, args []jsast.Expr) (jsast.Expr, error) {
	name := decl.DeclName()
	if tps := decl.DeclTypeParams(); len(tps) > 0 {
		block, err := c.typeParameterBlock(name, tps, &jsast.ArrayLit{Elems: args})
		if err != nil {
			return nil, err
		}
		args = []jsast.Expr{&jsast.Arrow{Params: []string{name}, Block: block}}
	} else if c.decls.HasSelfReference(decl) {
		args = []jsast.Expr{&jsast.Arrow{Params: []string{name}, Body: &jsast.ArrayLit{Elems: args}}}
	}
	return c.Lib(kind, append([]jsast.Expr{jsast.Str(name)}, args...)...), nil
}

// members merges overloads and compiles each member, dropping those without
// a reflection.
func (c *Compiler) members(ms []*typeast.Member) ([]jsast.Expr, error) {
	merged := merger.Merge(ms)
	out := make([]jsast.Expr, 0, len(merged))
	for _, m := range merged {
		e, err := c.Compile(m, None)
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}
