package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/tsreflect/internal/transpiler/typeast"
	"martianoff/tsreflect/tsrerr"
)

func parse(t *testing.T, src string) *typeast.File {
	t.Helper()
	f, err := NewTreeSitterParser().Parse(context.Background(), []byte(src), "test.ts")
	require.NoError(t, err)
	return f
}

// aliasType parses `type A = <src>;` and returns the aliased type.
func aliasType(t *testing.T, src string) typeast.Node {
	t.Helper()
	f := parse(t, "type A = "+src+";")
	require.Len(t, f.Declarations, 1)
	alias, ok := f.Declarations[0].(*typeast.TypeAliasDecl)
	require.True(t, ok)
	return alias.Type
}

func TestTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind typeast.Kind
		want string
	}{
		{"number keyword", "number", typeast.KindKeyword, "number"},
		{"void keyword", "void", typeast.KindKeyword, "void"},
		{"null literal", "null", typeast.KindKeyword, "null"},
		{"undefined literal", "undefined", typeast.KindKeyword, "undefined"},
		{"string literal", `"ok"`, typeast.KindLiteral, `"ok"`},
		{"numeric literal", "42", typeast.KindLiteral, "42"},
		{"boolean literal", "true", typeast.KindLiteral, "true"},
		{"reference", "Foo", typeast.KindTypeReference, "Foo"},
		{"generic reference", "Map<string, Foo>", typeast.KindTypeReference, "Map<string, Foo>"},
		{"qualified reference", "ns.Foo", typeast.KindTypeReference, "ns.Foo"},
		{"array", "string[]", typeast.KindArray, "string[]"},
		{"tuple", "[string, number]", typeast.KindTuple, "[string, number]"},
		{"union", "string | number | null", typeast.KindUnion, "string | number | null"},
		{"intersection", "A & B & C", typeast.KindIntersection, "A & B & C"},
		{"parenthesized", "(string)", typeast.KindParenthesized, "(string)"},
		{"type query", "typeof foo", typeast.KindTypeQuery, "typeof foo"},
		{"this", "this", typeast.KindThis, "this"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := aliasType(t, tt.src)
			require.NotNil(t, n)
			assert.Equal(t, tt.kind, n.Kind())
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		syntax string
	}{
		{"unknown", "unknown", "UnknownKeyword"},
		{"never", "never", "NeverKeyword"},
		{"unique symbol", "unique symbol", "UniqueSymbolKeyword"},
		{"indexed access", "Foo['a']", "IndexedAccessType"},
		{"keyof", "keyof Foo", "TypeOperator"},
		{"conditional", "T extends string ? 1 : 2", "ConditionalType"},
		{"mapped", "{ [K in Keys]: string }", "MappedType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := aliasType(t, tt.src)
			u, ok := n.(*typeast.Unsupported)
			require.True(t, ok, "got %T", n)
			assert.Equal(t, tt.syntax, u.Syntax)
		})
	}
}

func TestTupleMembers(t *testing.T) {
	n := aliasType(t, "[a: string, b?: number, ...c: boolean[]]")
	tuple, ok := n.(*typeast.TupleType)
	require.True(t, ok, "got %T", n)
	require.Len(t, tuple.Elems, 3)

	assert.Equal(t, "string", tuple.Elems[0].String())
	for i, syntax := range map[int]string{1: "OptionalType", 2: "RestType"} {
		u, ok := tuple.Elems[i].(*typeast.Unsupported)
		require.True(t, ok, "element %d: got %T", i, tuple.Elems[i])
		assert.Equal(t, syntax, u.Syntax)
	}

	n = aliasType(t, "[string, number?]")
	tuple, ok = n.(*typeast.TupleType)
	require.True(t, ok, "got %T", n)
	require.Len(t, tuple.Elems, 2)
	u, ok := tuple.Elems[1].(*typeast.Unsupported)
	require.True(t, ok, "got %T", tuple.Elems[1])
	assert.Equal(t, "OptionalType", u.Syntax)

	n = aliasType(t, "[cb: (x?: number) => void]")
	tuple, ok = n.(*typeast.TupleType)
	require.True(t, ok, "got %T", n)
	require.Len(t, tuple.Elems, 1)
	assert.IsType(t, &typeast.FunctionType{}, tuple.Elems[0])
}

func TestFunctionType(t *testing.T) {
	n := aliasType(t, "<T extends object>(a: T, b?: string, ...rest: number[]) => void")
	fn, ok := n.(*typeast.FunctionType)
	require.True(t, ok)

	require.Len(t, fn.TypeParams, 1)
	assert.Equal(t, "T", fn.TypeParams[0].Name)
	assert.Equal(t, "object", fn.TypeParams[0].Constraint.String())

	require.Len(t, fn.Params, 3)
	assert.Equal(t, "a", fn.Params[0].Name.Text)
	assert.Equal(t, "T", fn.Params[0].Type.String())
	assert.True(t, fn.Params[1].Optional)
	assert.True(t, fn.Params[2].Rest)
	assert.Equal(t, "rest", fn.Params[2].Name.Text)
	assert.Equal(t, "number[]", fn.Params[2].Type.String())
	assert.Equal(t, "void", fn.Return.String())
	assert.False(t, fn.Constructor)
}

func TestConstructorType(t *testing.T) {
	n := aliasType(t, "new (x: number) => Foo")
	fn, ok := n.(*typeast.FunctionType)
	require.True(t, ok)
	assert.True(t, fn.Constructor)
	assert.Equal(t, "Foo", fn.Return.String())
}

func TestInterface(t *testing.T) {
	f := parse(t, `
export interface Shape<T = number> extends Base, Named {
  id: string;
  size?: T;
  "quoted": boolean;
  area(): number;
  (x: number): string;
  new (x: number): Shape;
  [key: string]: any;
}
`)
	require.Len(t, f.Declarations, 1)
	iface, ok := f.Declarations[0].(*typeast.InterfaceDecl)
	require.True(t, ok)
	assert.Equal(t, "Shape", iface.Name)
	assert.True(t, iface.Exported)
	assert.False(t, iface.Ambient)

	require.Len(t, iface.TypeParams, 1)
	assert.Nil(t, iface.TypeParams[0].Constraint)
	assert.Equal(t, "number", iface.TypeParams[0].Default.String())

	require.Len(t, iface.Extends, 2)
	assert.Equal(t, "Base", iface.Extends[0].Name)
	assert.Equal(t, "Named", iface.Extends[1].Name)

	kinds := make([]typeast.MemberKind, 0, len(iface.Members))
	for _, m := range iface.Members {
		kinds = append(kinds, m.MemberKind)
	}
	assert.Equal(t, []typeast.MemberKind{
		typeast.PropertyMember,
		typeast.PropertyMember,
		typeast.PropertyMember,
		typeast.MethodMember,
		typeast.CallSignature,
		typeast.ConstructSignature,
		typeast.IndexSignature,
	}, kinds)

	assert.False(t, iface.Members[0].Optional)
	assert.True(t, iface.Members[1].Optional)
	assert.Equal(t, typeast.StringLiteralName, iface.Members[2].Name.Name)
	assert.Equal(t, "quoted", iface.Members[2].Name.Key())
	assert.Equal(t, "number", iface.Members[3].Type.String())

	index := iface.Members[6]
	require.Len(t, index.Params, 1)
	assert.Equal(t, "key", index.Params[0].Name.Text)
	assert.Equal(t, "string", index.Params[0].Type.String())
	assert.Equal(t, "any", index.Type.String())
}

func TestClass(t *testing.T) {
	f := parse(t, `
export class Box<T> extends Base implements Sized, Named {
  value: T;
  static count: number;
  constructor(v: T) { this.value = v; }
  get size(): number { return 1; }
  set size(v: number) {}
  map<U>(f: (v: T) => U): Box<U> { return null; }
}
`)
	require.Len(t, f.Declarations, 1)
	class, ok := f.Declarations[0].(*typeast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "Box", class.Name)
	assert.True(t, class.Exported)
	require.NotNil(t, class.Extends)
	assert.Equal(t, "Base", class.Extends.Name)
	require.Len(t, class.Implements, 2)
	assert.Equal(t, "Sized", class.Implements[0].Name)

	require.Len(t, class.Members, 6)
	assert.Equal(t, typeast.PropertyMember, class.Members[0].MemberKind)
	assert.True(t, class.Members[1].Static)
	assert.Equal(t, typeast.ConstructorMember, class.Members[2].MemberKind)
	assert.Equal(t, typeast.GetAccessor, class.Members[3].MemberKind)
	assert.Equal(t, typeast.SetAccessor, class.Members[4].MemberKind)
	assert.Nil(t, class.Members[4].Type)

	m := class.Members[5]
	assert.Equal(t, typeast.MethodMember, m.MemberKind)
	require.Len(t, m.TypeParams, 1)
	assert.Equal(t, "U", m.TypeParams[0].Name)
	assert.Equal(t, "Box<U>", m.Type.String())
	require.Len(t, m.Params, 1)
	assert.Equal(t, typeast.KindFunction, m.Params[0].Type.Kind())
}

func TestAmbientDeclarations(t *testing.T) {
	f := parse(t, `
declare class Ext { x: number; }
declare interface Api { y: string; }
interface Local {}
`)
	require.Len(t, f.Declarations, 3)
	assert.True(t, f.Declarations[0].IsAmbient())
	assert.True(t, f.Declarations[1].IsAmbient())
	assert.False(t, f.Declarations[2].IsAmbient())
}

func TestDeclarationFileIsAmbient(t *testing.T) {
	f, err := NewTreeSitterParser().Parse(context.Background(), []byte("interface Window { name: string; }"), "lib.d.ts")
	require.NoError(t, err)
	require.Len(t, f.Declarations, 1)
	assert.True(t, f.Declarations[0].IsAmbient())
}

func TestSkippedStatements(t *testing.T) {
	f := parse(t, `
enum Color { Red }
function f(): void {}
const x = 1;
type Id = string;
`)
	require.Len(t, f.Declarations, 1)
	assert.Equal(t, "Id", f.Declarations[0].DeclName())
}

func TestPositions(t *testing.T) {
	f := parse(t, "type A = B;\ninterface B { x: A; }")
	require.Len(t, f.Declarations, 2)
	alias := f.Declarations[0].(*typeast.TypeAliasDecl)
	iface := f.Declarations[1].(*typeast.InterfaceDecl)

	assert.Equal(t, typeast.Pos{Offset: 0, Line: 1, Column: 1}, alias.Pos())
	assert.Equal(t, 2, iface.Pos().Line)
	assert.Less(t, alias.Type.Pos().Offset, iface.Pos().Offset)
}

func TestParameterPatterns(t *testing.T) {
	n := aliasType(t, "({ a }: Foo) => void")
	fn := n.(*typeast.FunctionType)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, typeast.PatternName, fn.Params[0].Name.Name)
	assert.Equal(t, "ObjectBindingPattern", fn.Params[0].Name.Syntax)
}

func TestSyntaxError(t *testing.T) {
	_, err := NewTreeSitterParser().Parse(context.Background(), []byte("interface {\n  x: \n"), "bad.ts")
	require.Error(t, err)

	var syntaxErr *tsrerr.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "bad.ts", syntaxErr.FilePath)
	assert.GreaterOrEqual(t, syntaxErr.Line, 1)
	assert.Equal(t, tsrerr.TypeSyntax, syntaxErr.Type())
}

func TestInputLimits(t *testing.T) {
	p := NewTreeSitterParser(WithMaxFileSize(8))
	_, err := p.Parse(context.Background(), []byte("type A = string;"), "big.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")

	_, err = NewTreeSitterParser().Parse(context.Background(), []byte{0xff, 0xfe}, "bin.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestFixture(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("testdata", "shapes.ts"))
	require.NoError(t, err)

	f, err := NewTreeSitterParser().Parse(context.Background(), content, "shapes.ts")
	require.NoError(t, err)

	var names []string
	for _, d := range f.Declarations {
		names = append(names, d.DeclName())
	}
	assert.Equal(t, "Point,Shape,Circle,Named,Circle,Tree", strings.Join(names, ","))
}
