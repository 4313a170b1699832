package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tsreflect/internal/transpiler/typeast"
)

var keywords = map[string]typeast.KeywordKind{
	"any":       typeast.Any,
	"number":    typeast.Number,
	"boolean":   typeast.Boolean,
	"string":    typeast.String,
	"symbol":    typeast.Symbol,
	"object":    typeast.Object,
	"void":      typeast.Void,
	"null":      typeast.Null,
	"undefined": typeast.Undefined,
}

// unsupportedKinds names the grammar nodes without a descriptor form.
var unsupportedKinds = map[string]string{
	"lookup_type":          "IndexedAccessType",
	"index_type_query":     "TypeOperator",
	"readonly_type":        "TypeOperator",
	"conditional_type":     "ConditionalType",
	"infer_type":           "InferType",
	"type_predicate":       "TypePredicate",
	"asserts":              "TypePredicate",
	"optional_type":        "OptionalType",
	"rest_type":            "RestType",
	"existential_type":     "JSDocAllType",
	"flow_maybe_type":      "JSDocNullableType",
	"template_type":        "TemplateLiteralType",
	"mapped_type_clause":   "MappedType",
	"import_type":          "ImportType",
	"abstract_constructor": "ConstructorType",
}

// typeNode converts a type syntax node.
func (b *builder) typeNode(n *sitter.Node) typeast.Node {
	base := b.base(n)
	switch n.Type() {
	case "predefined_type":
		text := b.text(n)
		if k, ok := keywords[text]; ok {
			return &typeast.Keyword{Base: base, Keyword: k}
		}
		return &typeast.Unsupported{Base: base, Syntax: typeast.KeywordKind(text).Syntax(), Text: text}
	case "literal_type":
		return b.literal(n)
	case "template_literal_type":
		return &typeast.Literal{Base: base, Literal: typeast.OtherLiteral, Text: b.text(n), Syntax: "TemplateLiteralType"}
	case "this_type", "this":
		return &typeast.ThisType{Base: base}
	case "type_identifier", "nested_type_identifier", "identifier":
		return &typeast.TypeReference{Base: base, Name: b.text(n)}
	case "generic_type":
		ref := &typeast.TypeReference{Base: base}
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "type_arguments":
				ref.Args = b.typeArguments(c)
			default:
				if ref.Name == "" {
					ref.Name = b.text(c)
				}
			}
		}
		return ref
	case "array_type":
		children := namedChildren(n)
		if len(children) == 0 {
			break
		}
		return &typeast.ArrayType{Base: base, Elem: b.typeNode(children[0])}
	case "tuple_type":
		t := &typeast.TupleType{Base: base}
		for _, c := range namedChildren(n) {
			t.Elems = append(t.Elems, b.tupleElement(c))
		}
		return t
	case "union_type":
		return &typeast.UnionType{Base: base, Types: b.flatten(n, "union_type")}
	case "intersection_type":
		return &typeast.IntersectionType{Base: base, Types: b.flatten(n, "intersection_type")}
	case "parenthesized_type":
		return &typeast.Parenthesized{Base: base, Type: b.innerType(n)}
	case "function_type", "constructor_type":
		return b.functionType(n)
	case "object_type":
		if isMapped(n) {
			return &typeast.Unsupported{Base: base, Syntax: "MappedType", Text: b.text(n)}
		}
		return &typeast.TypeLiteral{Base: base, Members: b.objectMembers(n)}
	case "type_query":
		expr := strings.TrimSpace(strings.TrimPrefix(b.text(n), "typeof"))
		return &typeast.TypeQuery{Base: base, Expr: expr}
	case "type_annotation":
		return b.innerType(n)
	}
	syntax, ok := unsupportedKinds[n.Type()]
	if !ok {
		syntax = n.Type()
	}
	return &typeast.Unsupported{Base: base, Syntax: syntax, Text: b.text(n)}
}

func (b *builder) literal(n *sitter.Node) typeast.Node {
	base := b.base(n)
	children := namedChildren(n)
	if len(children) == 0 {
		// null and undefined may surface as anonymous tokens
		if k, ok := keywords[b.text(n)]; ok {
			return &typeast.Keyword{Base: base, Keyword: k}
		}
		return &typeast.Literal{Base: base, Literal: typeast.OtherLiteral, Text: b.text(n), Syntax: "LiteralType"}
	}
	c := children[0]
	text := b.text(c)
	switch c.Type() {
	case "null":
		return &typeast.Keyword{Base: base, Keyword: typeast.Null}
	case "undefined":
		return &typeast.Keyword{Base: base, Keyword: typeast.Undefined}
	case "true", "false":
		return &typeast.Literal{Base: base, Literal: typeast.BooleanLiteral, Text: text}
	case "string":
		return &typeast.Literal{Base: base, Literal: typeast.StringLiteral, Text: text}
	case "number":
		return &typeast.Literal{Base: base, Literal: typeast.NumericLiteral, Text: text}
	case "unary_expression":
		if operand := namedChildren(c); len(operand) == 1 && operand[0].Type() == "number" {
			return &typeast.Literal{Base: base, Literal: typeast.NumericLiteral, Text: strings.ReplaceAll(text, " ", "")}
		}
		return &typeast.Literal{Base: base, Literal: typeast.OtherLiteral, Text: text, Syntax: "PrefixUnaryExpression"}
	case "template_string":
		return &typeast.Literal{Base: base, Literal: typeast.OtherLiteral, Text: text, Syntax: "NoSubstitutionTemplateLiteral"}
	}
	return &typeast.Literal{Base: base, Literal: typeast.OtherLiteral, Text: text, Syntax: c.Type()}
}

// flatten collects the operands of a left-nested binary type operator.
func (b *builder) flatten(n *sitter.Node, kind string) []typeast.Node {
	var out []typeast.Node
	for _, c := range namedChildren(n) {
		if c.Type() == kind {
			out = append(out, b.flatten(c, kind)...)
			continue
		}
		out = append(out, b.typeNode(c))
	}
	return out
}

// tupleElement unwraps a labeled tuple member. Optional and rest members have
// no descriptor and are reported as unsupported.
func (b *builder) tupleElement(n *sitter.Node) typeast.Node {
	switch n.Type() {
	case "optional_tuple_parameter", "optional_parameter":
		return &typeast.Unsupported{Base: b.base(n), Syntax: "OptionalType", Text: b.text(n)}
	case "tuple_parameter", "required_parameter", "labeled_tuple_type_member":
		children := namedChildren(n)
		for _, c := range children {
			if c.Type() == "rest_pattern" {
				return &typeast.Unsupported{Base: b.base(n), Syntax: "RestType", Text: b.text(n)}
			}
		}
		if hasToken(n, "?") {
			return &typeast.Unsupported{Base: b.base(n), Syntax: "OptionalType", Text: b.text(n)}
		}
		for _, c := range children {
			if c.Type() == "type_annotation" {
				return b.innerType(c)
			}
		}
		if len(children) > 0 {
			return b.typeNode(children[len(children)-1])
		}
	}
	return b.typeNode(n)
}

func (b *builder) functionType(n *sitter.Node) typeast.Node {
	f := &typeast.FunctionType{Base: b.base(n), Constructor: n.Type() == "constructor_type"}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "type_parameters":
			f.TypeParams = b.typeParameters(c)
		case "formal_parameters":
			f.Params = b.parameters(c)
		}
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		f.Return = b.returnType(ret)
	} else if t := n.ChildByFieldName("type"); t != nil {
		f.Return = b.returnType(t)
	} else if children := namedChildren(n); len(children) > 0 {
		last := children[len(children)-1]
		if last.Type() != "formal_parameters" && last.Type() != "type_parameters" {
			f.Return = b.returnType(last)
		}
	}
	return f
}

func isMapped(n *sitter.Node) bool {
	for _, c := range namedChildren(n) {
		if c.Type() != "index_signature" {
			continue
		}
		for _, part := range namedChildren(c) {
			if part.Type() == "mapped_type_clause" {
				return true
			}
		}
	}
	return false
}
