package typeast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kw(k KeywordKind) *Keyword { return &Keyword{Keyword: k} }

func ref(name string, args ...Node) *TypeReference {
	return &TypeReference{Name: name, Args: args}
}

func TestNodeString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"keyword", kw(Number), "number"},
		{"this", &ThisType{}, "this"},
		{"string literal", &Literal{Literal: StringLiteral, Text: `"foo"`}, `"foo"`},
		{"array", &ArrayType{Elem: kw(String)}, "string[]"},
		{"array of union", &ArrayType{Elem: &UnionType{Types: []Node{kw(String), kw(Number)}}}, "(string | number)[]"},
		{"tuple", &TupleType{Elems: []Node{kw(String), kw(Number)}}, "[string, number]"},
		{"intersection", &IntersectionType{Types: []Node{ref("A"), ref("B")}}, "A & B"},
		{"generic reference", ref("Map", kw(String), ref("T")), "Map<string, T>"},
		{"parenthesized", &Parenthesized{Type: kw(Any)}, "(any)"},
		{"type query", &TypeQuery{Expr: "x.y"}, "typeof x.y"},
		{
			"function",
			&FunctionType{
				TypeParams: []*TypeParameter{{Name: "T", Constraint: kw(Object)}},
				Params: []*Parameter{
					{Name: Ident("a"), Type: ref("T")},
					{Name: Ident("rest"), Type: &ArrayType{Elem: kw(Number)}, Rest: true},
				},
				Return: kw(Void),
			},
			"<T extends object>(a: T, ...rest: number[]) => void",
		},
		{
			"constructor type",
			&FunctionType{Constructor: true, Return: ref("Foo")},
			"new () => Foo",
		},
		{
			"type literal",
			&TypeLiteral{Members: []*Member{
				{MemberKind: PropertyMember, Name: Ident("a"), Optional: true, Type: kw(String)},
				{MemberKind: MethodMember, Name: Ident("f"), Type: kw(Void)},
			}},
			"{ a?: string; f(): void }",
		},
		{"empty type literal", &TypeLiteral{}, "{}"},
		{"unsupported", &Unsupported{Syntax: "MappedType", Text: "{ [K in T]: K }"}, "{ [K in T]: K }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.String())
		})
	}
}

func TestMemberString(t *testing.T) {
	index := &Member{
		MemberKind: IndexSignature,
		Params:     []*Parameter{{Name: Ident("key"), Type: kw(String)}},
		Type:       kw(Number),
	}
	assert.Equal(t, "[key: string]: number", index.String())

	getter := &Member{MemberKind: GetAccessor, Name: Ident("x"), Static: true, Type: kw(Number)}
	assert.Equal(t, "static get x(): number", getter.String())

	call := &Member{MemberKind: CallSignature, Params: []*Parameter{{Name: Ident("a"), Optional: true}}}
	assert.Equal(t, "(a?)", call.String())

	computed := &Member{MemberKind: PropertyMember, Name: &PropertyName{Name: ComputedName, Text: "Symbol.iterator"}}
	assert.Equal(t, "[Symbol.iterator]", computed.String())
}

func TestKindsAreNamed(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, int(KindUnsupported)+1)
	for _, k := range kinds {
		assert.NotContains(t, k.String(), "Kind(")
	}
	assert.Equal(t, KindConstructor, (&FunctionType{Constructor: true}).Kind())
	assert.Equal(t, KindFunction, (&FunctionType{}).Kind())
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "foo", Unquote(`"foo"`))
	assert.Equal(t, "it's", Unquote(`'it\'s'`))
	assert.Equal(t, "a\nb", Unquote(`"a\nb"`))
	assert.Equal(t, "é", Unquote(`"é"`))
	assert.Equal(t, "plain", Unquote("plain"))
	assert.Equal(t, `"`, Unquote(`"`))
}

func TestKeywordSyntax(t *testing.T) {
	assert.Equal(t, "NumberKeyword", Number.Syntax())
	assert.Equal(t, "UniqueSymbolKeyword", KeywordKind("unique symbol").Syntax())
	assert.Equal(t, "BigintKeyword", KeywordKind("bigint").Syntax())
	assert.Equal(t, "Keyword", KeywordKind("").Syntax())
}

func TestUnquoteEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"code point", `"a\u{1F600}\n"`, "a\U0001F600\n"},
		{"short code point", `"\u{41}"`, "A"},
		{"four digits", `"\u00e9"`, "é"},
		{"surrogate pair", `"\uD83D\uDE00"`, "\U0001F600"},
		{"lone surrogate", `"\uD83Dx"`, "\uFFFDx"},
		{"hex", `"\x41\x7e"`, "A~"},
		{"bad hex", `"\xZZ"`, "xZZ"},
		{"bad code point", `"\u{110000}"`, "u{110000}"},
		{"empty braces", `"\u{}"`, "u{}"},
		{"line continuation", "\"a\\\nb\"", "ab"},
		{"crlf continuation", "\"a\\\r\nb\"", "ab"},
		{"separator continuation", "\"a\\\u2028b\"", "ab"},
		{"carriage return", `"a\rb"`, "a\rb"},
		{"identity escape", `"\q\\"`, `q\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unquote(tt.in))
		})
	}
}

func TestPropertyNameKey(t *testing.T) {
	assert.Equal(t, "a", Ident("a").Key())
	assert.Equal(t, "a", (&PropertyName{Name: StringLiteralName, Text: `'a'`}).Key())
	assert.Equal(t, "[Symbol.iterator]", (&PropertyName{Name: ComputedName, Text: "Symbol.iterator"}).Key())
	var missing *PropertyName
	assert.Equal(t, "", missing.Key())
}

func TestInspect(t *testing.T) {
	decl := &InterfaceDecl{
		Name:       "Box",
		TypeParams: []*TypeParameter{{Name: "T", Default: ref("Def")}},
		Extends:    []*TypeReference{ref("Base", ref("Arg"))},
		Members: []*Member{
			{MemberKind: PropertyMember, Name: Ident("v"), Type: &ArrayType{Elem: ref("T")}},
			{
				MemberKind: MethodMember,
				Name:       Ident("m"),
				Params:     []*Parameter{{Name: Ident("p"), Type: ref("P")}},
				Type:       &UnionType{Types: []Node{ref("R"), kw(Null)}},
			},
		},
	}

	var names []string
	Inspect(decl, func(n Node) bool {
		if r, ok := n.(*TypeReference); ok {
			names = append(names, r.Name)
		}
		return true
	})
	assert.Equal(t, []string{"Def", "Base", "Arg", "T", "P", "R"}, names)

	var visited int
	Inspect(decl, func(n Node) bool {
		visited++
		_, isMember := n.(*Member)
		return !isMember
	})
	// decl, Def, Base, Arg and the two members
	assert.Equal(t, 6, visited)
}
