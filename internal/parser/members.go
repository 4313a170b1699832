package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"martianoff/tsreflect/internal/transpiler/typeast"
)

// objectMembers converts the members of an interface body or object type.
func (b *builder) objectMembers(n *sitter.Node) []*typeast.Member {
	var members []*typeast.Member
	for _, c := range namedChildren(n) {
		if m := b.member(c); m != nil {
			members = append(members, m)
		}
	}
	return members
}

// classMembers converts a class body. Decorators and static blocks are
// ignored.
func (b *builder) classMembers(n *sitter.Node) []*typeast.Member {
	var members []*typeast.Member
	for _, c := range namedChildren(n) {
		if m := b.member(c); m != nil {
			members = append(members, m)
		}
	}
	return members
}

func (b *builder) member(n *sitter.Node) *typeast.Member {
	switch n.Type() {
	case "property_signature", "public_field_definition":
		return b.property(n)
	case "method_signature", "method_definition", "abstract_method_signature":
		return b.method(n)
	case "call_signature":
		m := &typeast.Member{Base: b.base(n), MemberKind: typeast.CallSignature}
		b.signature(n, m)
		return m
	case "construct_signature":
		m := &typeast.Member{Base: b.base(n), MemberKind: typeast.ConstructSignature}
		b.signature(n, m)
		return m
	case "index_signature":
		return b.indexSignature(n)
	}
	return nil
}

func (b *builder) property(n *sitter.Node) *typeast.Member {
	m := &typeast.Member{Base: b.base(n), MemberKind: typeast.PropertyMember}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			m.Static = true
		case "?":
			m.Optional = true
		case "type_annotation":
			m.Type = b.innerType(c)
		default:
			if m.Name == nil && isPropertyName(c) {
				m.Name = b.propertyName(c)
			}
		}
	}
	return m
}

func (b *builder) method(n *sitter.Node) *typeast.Member {
	m := &typeast.Member{Base: b.base(n), MemberKind: typeast.MethodMember}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			m.Static = true
		case "get":
			if m.Name == nil {
				m.MemberKind = typeast.GetAccessor
			}
		case "set":
			if m.Name == nil {
				m.MemberKind = typeast.SetAccessor
			}
		case "?":
			m.Optional = true
		default:
			if m.Name == nil && isPropertyName(c) {
				m.Name = b.propertyName(c)
			}
		}
	}
	if m.Name != nil && m.Name.Name == typeast.IdentifierName && m.Name.Text == "constructor" && !m.Static {
		m.MemberKind = typeast.ConstructorMember
	}
	b.signature(n, m)
	return m
}

// signature fills type parameters, parameters and the return type of m.
func (b *builder) signature(n *sitter.Node, m *typeast.Member) {
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "type_parameters":
			m.TypeParams = b.typeParameters(c)
		case "formal_parameters":
			m.Params = b.parameters(c)
		case "call_signature":
			// some grammar versions nest the signature of methods
			b.signature(c, m)
		}
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		m.Type = b.returnType(ret)
	} else if t := n.ChildByFieldName("type"); t != nil {
		m.Type = b.returnType(t)
	}
}

func (b *builder) returnType(n *sitter.Node) typeast.Node {
	switch n.Type() {
	case "type_annotation":
		return b.innerType(n)
	case "asserts_annotation", "type_predicate_annotation", "asserts", "type_predicate":
		return &typeast.Unsupported{Base: b.base(n), Syntax: "TypePredicate", Text: b.text(n)}
	}
	return b.typeNode(n)
}

func (b *builder) indexSignature(n *sitter.Node) *typeast.Member {
	m := &typeast.Member{Base: b.base(n), MemberKind: typeast.IndexSignature}
	key := &typeast.Parameter{}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "identifier":
			key.Name = &typeast.PropertyName{At: position(c), Name: typeast.IdentifierName, Text: b.text(c)}
		case "type_annotation", "omitting_type_annotation", "adding_type_annotation", "opting_type_annotation":
			m.Type = b.innerType(c)
		case "mapped_type_clause":
			return nil
		default:
			if key.Name != nil && key.Type == nil {
				key.Type = b.typeNode(c)
			}
		}
	}
	m.Params = []*typeast.Parameter{key}
	return m
}

func (b *builder) parameters(n *sitter.Node) []*typeast.Parameter {
	var params []*typeast.Parameter
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "required_parameter", "optional_parameter":
			params = append(params, b.parameter(c))
		}
	}
	return params
}

func (b *builder) parameter(n *sitter.Node) *typeast.Parameter {
	p := &typeast.Parameter{Optional: n.Type() == "optional_parameter"}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "identifier", "this":
			p.Name = &typeast.PropertyName{At: position(c), Name: typeast.IdentifierName, Text: b.text(c)}
		case "rest_pattern":
			p.Rest = true
			p.Name = b.bindingName(c)
		case "object_pattern":
			p.Name = &typeast.PropertyName{At: position(c), Name: typeast.PatternName, Text: b.text(c), Syntax: "ObjectBindingPattern"}
		case "array_pattern":
			p.Name = &typeast.PropertyName{At: position(c), Name: typeast.PatternName, Text: b.text(c), Syntax: "ArrayBindingPattern"}
		case "type_annotation":
			p.Type = b.innerType(c)
		}
	}
	return p
}

func (b *builder) bindingName(rest *sitter.Node) *typeast.PropertyName {
	for _, c := range namedChildren(rest) {
		switch c.Type() {
		case "identifier":
			return &typeast.PropertyName{At: position(c), Name: typeast.IdentifierName, Text: b.text(c)}
		case "object_pattern":
			return &typeast.PropertyName{At: position(c), Name: typeast.PatternName, Text: b.text(c), Syntax: "ObjectBindingPattern"}
		case "array_pattern":
			return &typeast.PropertyName{At: position(c), Name: typeast.PatternName, Text: b.text(c), Syntax: "ArrayBindingPattern"}
		}
	}
	return &typeast.PropertyName{At: position(rest), Name: typeast.PatternName, Text: b.text(rest), Syntax: "RestPattern"}
}

func isPropertyName(n *sitter.Node) bool {
	switch n.Type() {
	case "property_identifier", "private_property_identifier", "identifier", "string", "number", "computed_property_name":
		return true
	}
	return false
}

func (b *builder) propertyName(n *sitter.Node) *typeast.PropertyName {
	name := &typeast.PropertyName{At: position(n), Text: b.text(n)}
	switch n.Type() {
	case "string":
		name.Name = typeast.StringLiteralName
	case "number":
		name.Name = typeast.NumericLiteralName
	case "computed_property_name":
		name.Name = typeast.ComputedName
		if inner := namedChildren(n); len(inner) > 0 {
			name.Text = b.text(inner[0])
		}
	default:
		name.Name = typeast.IdentifierName
	}
	return name
}
