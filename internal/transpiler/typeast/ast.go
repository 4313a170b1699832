// Package typeast holds the TypeScript type-annotation tree consumed by the
// descriptor compiler. Nodes are produced once by the frontend and never
// mutated afterwards; pointer identity is the key for semantic lookups.
package typeast

import "fmt"

// Pos locates a node in its source file. Offset is a byte offset, Line and
// Column are 1-based. The zero Pos is an unknown position.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind enumerates every node variant the compiler dispatches on.
type Kind int

const (
	KindParenthesized Kind = iota
	KindKeyword
	KindThis
	KindLiteral
	KindArray
	KindTuple
	KindUnion
	KindIntersection
	KindTypeReference
	KindFunction
	KindConstructor
	KindTypeLiteral
	KindTypeQuery
	KindInterface
	KindClass
	KindTypeAlias
	KindMember
	KindUnsupported
)

var kindNames = [...]string{
	KindParenthesized: "ParenthesizedType",
	KindKeyword:       "KeywordType",
	KindThis:          "ThisType",
	KindLiteral:       "LiteralType",
	KindArray:         "ArrayType",
	KindTuple:         "TupleType",
	KindUnion:         "UnionType",
	KindIntersection:  "IntersectionType",
	KindTypeReference: "TypeReference",
	KindFunction:      "FunctionType",
	KindConstructor:   "ConstructorType",
	KindTypeLiteral:   "TypeLiteral",
	KindTypeQuery:     "TypeQuery",
	KindInterface:     "InterfaceDeclaration",
	KindClass:         "ClassDeclaration",
	KindTypeAlias:     "TypeAliasDeclaration",
	KindMember:        "Member",
	KindUnsupported:   "Unsupported",
}

// Kinds lists all node kinds in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range kindNames {
		ks[i] = Kind(i)
	}
	return ks
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a type-annotation node. The set of implementations is closed.
type Node interface {
	Kind() Kind
	Pos() Pos
	// String renders the node as TypeScript source. Two nodes with the same
	// rendering denote the same type for merging purposes.
	String() string
	typeNode()
}

// Base carries the source position shared by all nodes.
type Base struct {
	At Pos
}

func (b Base) Pos() Pos { return b.At }
func (Base) typeNode()  {}

type Parenthesized struct {
	Base
	Type Node
}

// KeywordKind names a predefined type keyword.
type KeywordKind string

const (
	Any       KeywordKind = "any"
	Number    KeywordKind = "number"
	Boolean   KeywordKind = "boolean"
	String    KeywordKind = "string"
	Symbol    KeywordKind = "symbol"
	Object    KeywordKind = "object"
	Void      KeywordKind = "void"
	Null      KeywordKind = "null"
	Undefined KeywordKind = "undefined"
)

type Keyword struct {
	Base
	Keyword KeywordKind
}

type ThisType struct {
	Base
}

// LiteralKind distinguishes the literal types that have a runtime form.
type LiteralKind int

const (
	OtherLiteral LiteralKind = iota
	BooleanLiteral
	StringLiteral
	NumericLiteral
)

// Literal is a literal type. Text is the raw source text, quotes included for
// strings. Syntax names the source kind for literals without a runtime form.
type Literal struct {
	Base
	Literal LiteralKind
	Text    string
	Syntax  string
}

type ArrayType struct {
	Base
	Elem Node
}

type TupleType struct {
	Base
	Elems []Node
}

type UnionType struct {
	Base
	Types []Node
}

type IntersectionType struct {
	Base
	Types []Node
}

// TypeReference names a declared type, a type parameter or a global type,
// optionally applied to type arguments. Qualified names keep their dots.
type TypeReference struct {
	Base
	Name string
	Args []Node
}

// FunctionType covers function types and, with Constructor set, constructor
// types (`new (...) => T`).
type FunctionType struct {
	Base
	Constructor bool
	TypeParams  []*TypeParameter
	Params      []*Parameter
	Return      Node
}

type TypeLiteral struct {
	Base
	Members []*Member
}

// TypeQuery is `typeof Expr`.
type TypeQuery struct {
	Base
	Expr string
}

// Unsupported stands in for syntax without a descriptor form, such as
// mapped, indexed access or conditional types.
type Unsupported struct {
	Base
	Syntax string
	Text   string
}

func (*Parenthesized) Kind() Kind    { return KindParenthesized }
func (*Keyword) Kind() Kind          { return KindKeyword }
func (*ThisType) Kind() Kind         { return KindThis }
func (*Literal) Kind() Kind          { return KindLiteral }
func (*ArrayType) Kind() Kind        { return KindArray }
func (*TupleType) Kind() Kind        { return KindTuple }
func (*UnionType) Kind() Kind        { return KindUnion }
func (*IntersectionType) Kind() Kind { return KindIntersection }
func (*TypeReference) Kind() Kind    { return KindTypeReference }
func (*TypeLiteral) Kind() Kind      { return KindTypeLiteral }
func (*TypeQuery) Kind() Kind        { return KindTypeQuery }
func (*Unsupported) Kind() Kind      { return KindUnsupported }

func (f *FunctionType) Kind() Kind {
	if f.Constructor {
		return KindConstructor
	}
	return KindFunction
}

// TypeParameter is a generic type parameter with optional constraint and default.
type TypeParameter struct {
	At         Pos
	Name       string
	Constraint Node
	Default    Node
}

// Parameter is one entry of a signature's parameter list.
type Parameter struct {
	Name     *PropertyName
	Type     Node
	Optional bool
	Rest     bool
	// SkipReflection marks a parameter whose descriptor was declared
	// separately; the compiler references that variable instead.
	SkipReflection bool
}

// NameKind classifies member and parameter names.
type NameKind int

const (
	IdentifierName NameKind = iota
	StringLiteralName
	NumericLiteralName
	ComputedName
	// PatternName covers destructuring patterns and anything else that has
	// no literal or expression form.
	PatternName
)

// PropertyName is the name of a member or parameter. Text holds raw source:
// quotes are kept for string literals and brackets are dropped for computed
// names.
type PropertyName struct {
	At     Pos
	Name   NameKind
	Text   string
	Syntax string
}

// Ident returns an identifier name.
func Ident(name string) *PropertyName {
	return &PropertyName{Name: IdentifierName, Text: name}
}

// Key is the merge key of the name: string literal names compare equal to
// identifiers with the same text.
func (n *PropertyName) Key() string {
	if n == nil {
		return ""
	}
	switch n.Name {
	case StringLiteralName:
		return Unquote(n.Text)
	case ComputedName:
		return "[" + n.Text + "]"
	default:
		return n.Text
	}
}

// MemberKind classifies a member of an interface, class or type literal.
type MemberKind int

const (
	PropertyMember MemberKind = iota
	MethodMember
	GetAccessor
	SetAccessor
	IndexSignature
	CallSignature
	ConstructSignature
	ConstructorMember
)

var memberKindNames = [...]string{
	PropertyMember:     "PropertySignature",
	MethodMember:       "MethodSignature",
	GetAccessor:        "GetAccessor",
	SetAccessor:        "SetAccessor",
	IndexSignature:     "IndexSignature",
	CallSignature:      "CallSignature",
	ConstructSignature: "ConstructSignature",
	ConstructorMember:  "Constructor",
}

func (k MemberKind) String() string {
	if k >= 0 && int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return fmt.Sprintf("MemberKind(%d)", int(k))
}

// IsSignature reports whether members of this kind carry a parameter list.
func (k MemberKind) IsSignature() bool {
	switch k {
	case MethodMember, GetAccessor, SetAccessor, CallSignature, ConstructSignature, ConstructorMember:
		return true
	}
	return false
}

// Member is a member element. Type is the declared type for properties and
// index signatures and the return type for signatures; nil when absent.
type Member struct {
	Base
	MemberKind MemberKind
	Name       *PropertyName
	Optional   bool
	Static     bool
	TypeParams []*TypeParameter
	Params     []*Parameter
	Type       Node
}

func (*Member) Kind() Kind { return KindMember }

// Declaration is a named source of a type: an interface, a class or a type alias.
type Declaration interface {
	Node
	DeclName() string
	DeclTypeParams() []*TypeParameter
	// IsAmbient reports a `declare` declaration, which has no runtime binding.
	IsAmbient() bool
	IsExported() bool
}

type InterfaceDecl struct {
	Base
	Name       string
	TypeParams []*TypeParameter
	Extends    []*TypeReference
	Members    []*Member
	Ambient    bool
	Exported   bool
}

type ClassDecl struct {
	Base
	Name       string
	TypeParams []*TypeParameter
	Extends    *TypeReference
	Implements []*TypeReference
	Members    []*Member
	Ambient    bool
	Exported   bool
	Abstract   bool
}

type TypeAliasDecl struct {
	Base
	Name       string
	TypeParams []*TypeParameter
	Type       Node
	Ambient    bool
	Exported   bool
}

func (*InterfaceDecl) Kind() Kind { return KindInterface }
func (*ClassDecl) Kind() Kind     { return KindClass }
func (*TypeAliasDecl) Kind() Kind { return KindTypeAlias }

func (d *InterfaceDecl) DeclName() string                 { return d.Name }
func (d *InterfaceDecl) DeclTypeParams() []*TypeParameter { return d.TypeParams }
func (d *InterfaceDecl) IsAmbient() bool                  { return d.Ambient }
func (d *InterfaceDecl) IsExported() bool                 { return d.Exported }

func (d *ClassDecl) DeclName() string                 { return d.Name }
func (d *ClassDecl) DeclTypeParams() []*TypeParameter { return d.TypeParams }
func (d *ClassDecl) IsAmbient() bool                  { return d.Ambient }
func (d *ClassDecl) IsExported() bool                 { return d.Exported }

func (d *TypeAliasDecl) DeclName() string                 { return d.Name }
func (d *TypeAliasDecl) DeclTypeParams() []*TypeParameter { return d.TypeParams }
func (d *TypeAliasDecl) IsAmbient() bool                  { return d.Ambient }
func (d *TypeAliasDecl) IsExported() bool                 { return d.Exported }

// File is one parsed source file. Declarations are in source order.
type File struct {
	Path         string
	Declarations []Declaration
}

// Unquote strips the quotes of a JavaScript string literal and resolves its
// escapes. Text that is not quoted is returned unchanged.
func Unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	q := text[0]
	if (q != '"' && q != '\'' && q != '`') || text[len(text)-1] != q {
		return text
	}
	return unescape(text[1 : len(text)-1])
}
