package typeast

import (
	"fmt"

	"martianoff/tsreflect/tsrerr"
)

// Visitor has one method per node variant. Implementations are checked for
// exhaustiveness at compile time by asserting they satisfy this interface.
type Visitor[C, R any] interface {
	VisitParenthesized(n *Parenthesized, c C) (R, error)
	VisitKeyword(n *Keyword, c C) (R, error)
	VisitThis(n *ThisType, c C) (R, error)
	VisitLiteral(n *Literal, c C) (R, error)
	VisitArray(n *ArrayType, c C) (R, error)
	VisitTuple(n *TupleType, c C) (R, error)
	VisitUnion(n *UnionType, c C) (R, error)
	VisitIntersection(n *IntersectionType, c C) (R, error)
	VisitTypeReference(n *TypeReference, c C) (R, error)
	VisitFunctionType(n *FunctionType, c C) (R, error)
	VisitTypeLiteral(n *TypeLiteral, c C) (R, error)
	VisitTypeQuery(n *TypeQuery, c C) (R, error)
	VisitInterface(n *InterfaceDecl, c C) (R, error)
	VisitClass(n *ClassDecl, c C) (R, error)
	VisitTypeAlias(n *TypeAliasDecl, c C) (R, error)
	VisitMember(n *Member, c C) (R, error)
	VisitUnsupported(n *Unsupported, c C) (R, error)
}

// Accept dispatches n to the matching visitor method.
func Accept[C, R any](n Node, v Visitor[C, R], c C) (R, error) {
	switch n := n.(type) {
	case *Parenthesized:
		return v.VisitParenthesized(n, c)
	case *Keyword:
		return v.VisitKeyword(n, c)
	case *ThisType:
		return v.VisitThis(n, c)
	case *Literal:
		return v.VisitLiteral(n, c)
	case *ArrayType:
		return v.VisitArray(n, c)
	case *TupleType:
		return v.VisitTuple(n, c)
	case *UnionType:
		return v.VisitUnion(n, c)
	case *IntersectionType:
		return v.VisitIntersection(n, c)
	case *TypeReference:
		return v.VisitTypeReference(n, c)
	case *FunctionType:
		return v.VisitFunctionType(n, c)
	case *TypeLiteral:
		return v.VisitTypeLiteral(n, c)
	case *TypeQuery:
		return v.VisitTypeQuery(n, c)
	case *InterfaceDecl:
		return v.VisitInterface(n, c)
	case *ClassDecl:
		return v.VisitClass(n, c)
	case *TypeAliasDecl:
		return v.VisitTypeAlias(n, c)
	case *Member:
		return v.VisitMember(n, c)
	case *Unsupported:
		return v.VisitUnsupported(n, c)
	}
	var zero R
	pos := n.Pos()
	return zero, tsrerr.NewUnsupportedConstruct(fmt.Sprintf("%T", n), pos.Line, pos.Column)
}

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children are skipped when f returns false. Type parameters,
// parameters and heritage references are visited as part of their owner.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Parenthesized:
		Inspect(n.Type, f)
	case *ArrayType:
		Inspect(n.Elem, f)
	case *TupleType:
		inspectAll(n.Elems, f)
	case *UnionType:
		inspectAll(n.Types, f)
	case *IntersectionType:
		inspectAll(n.Types, f)
	case *TypeReference:
		inspectAll(n.Args, f)
	case *FunctionType:
		inspectTypeParams(n.TypeParams, f)
		inspectParams(n.Params, f)
		Inspect(n.Return, f)
	case *TypeLiteral:
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *Member:
		inspectTypeParams(n.TypeParams, f)
		inspectParams(n.Params, f)
		Inspect(n.Type, f)
	case *InterfaceDecl:
		inspectTypeParams(n.TypeParams, f)
		for _, ref := range n.Extends {
			Inspect(ref, f)
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *ClassDecl:
		inspectTypeParams(n.TypeParams, f)
		if n.Extends != nil {
			Inspect(n.Extends, f)
		}
		for _, ref := range n.Implements {
			Inspect(ref, f)
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *TypeAliasDecl:
		inspectTypeParams(n.TypeParams, f)
		Inspect(n.Type, f)
	}
}

func inspectAll(nodes []Node, f func(Node) bool) {
	for _, n := range nodes {
		Inspect(n, f)
	}
}

func inspectTypeParams(tps []*TypeParameter, f func(Node) bool) {
	for _, tp := range tps {
		Inspect(tp.Constraint, f)
		Inspect(tp.Default, f)
	}
}

func inspectParams(params []*Parameter, f func(Node) bool) {
	for _, p := range params {
		Inspect(p.Type, f)
	}
}
