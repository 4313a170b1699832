// Package declctx answers the per-declaration questions the descriptor
// compiler needs: whether a declaration refers to itself, whether a referenced
// name is bound yet where the descriptor runs, and which declaration owns a
// type parameter. Facts are derived on demand from a semantic Oracle and are
// never cached across declarations.
package declctx

import (
	"martianoff/tsreflect/internal/transpiler/typeast"
)

// RefKind classifies what a type reference resolves to.
type RefKind int

const (
	// RefGlobal is a name without a declaration in the file: a global or an
	// imported binding. It is always treated as declared.
	RefGlobal RefKind = iota
	RefDeclaration
	RefTypeParameter
)

func (k RefKind) String() string {
	switch k {
	case RefDeclaration:
		return "declaration"
	case RefTypeParameter:
		return "type parameter"
	default:
		return "global"
	}
}

// OwnerKind classifies the owner of a type parameter.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerClass
	OwnerInterface
	OwnerTypeAlias
	OwnerSignature
)

// Resolution is the result of resolving a type reference.
type Resolution struct {
	Kind RefKind
	// Declaration is the first declaration of the name for RefDeclaration.
	Declaration typeast.Declaration
	// Owner and OwnerKind identify the scope declaring a RefTypeParameter.
	Owner     string
	OwnerKind OwnerKind
	// Site is where the descriptor containing the reference runs: the first
	// declaration of the enclosing merged name.
	Site typeast.Pos
}

// Oracle is the semantic service over a parsed program.
type Oracle interface {
	// ResolveReference resolves the name of ref in its lexical scope.
	ResolveReference(ref *typeast.TypeReference) Resolution
	// Declarations returns every declaration of name in source order.
	Declarations(name string) []typeast.Declaration
	// Primary returns the declaration that carries the runtime binding of
	// name, or nil if name is not declared.
	Primary(name string) typeast.Declaration
	// IsDeclaredBefore reports whether name is bound when code emitted at
	// pos runs. Names without declarations are considered bound.
	IsDeclaredBefore(name string, pos typeast.Pos) bool
	// MergedMembers returns the members of decl including those contributed
	// by declaration merging and interface inheritance. For classes only
	// instance properties, methods and accessors are included.
	MergedMembers(decl typeast.Declaration) []*typeast.Member
}

// Context wraps an Oracle with the naming scheme of generated identifiers.
type Context struct {
	oracle    Oracle
	namespace string
}

// New creates a Context. Generated identifiers are prefixed with namespace.
func New(oracle Oracle, namespace string) *Context {
	return &Context{oracle: oracle, namespace: namespace}
}

// HasSelfReference reports whether decl references its own name anywhere in
// its merged members, type-parameter constraints and defaults, heritage
// clauses or aliased type.
func (c *Context) HasSelfReference(decl typeast.Declaration) bool {
	name := decl.DeclName()
	found := false
	visit := func(n typeast.Node) bool {
		if found {
			return false
		}
		if ref, ok := n.(*typeast.TypeReference); ok && ref.Name == name {
			res := c.oracle.ResolveReference(ref)
			if res.Kind == RefDeclaration && res.Declaration.DeclName() == name {
				found = true
				return false
			}
		}
		return true
	}

	for _, tp := range decl.DeclTypeParams() {
		typeast.Inspect(tp.Constraint, visit)
		typeast.Inspect(tp.Default, visit)
	}
	switch d := decl.(type) {
	case *typeast.InterfaceDecl:
		for _, ref := range d.Extends {
			typeast.Inspect(ref, visit)
		}
	case *typeast.ClassDecl:
		if d.Extends != nil {
			typeast.Inspect(d.Extends, visit)
		}
		for _, ref := range d.Implements {
			typeast.Inspect(ref, visit)
		}
		for _, m := range d.Members {
			if m.Static || m.MemberKind == typeast.IndexSignature {
				typeast.Inspect(m, visit)
			}
		}
	case *typeast.TypeAliasDecl:
		typeast.Inspect(d.Type, visit)
	}
	for _, m := range c.oracle.MergedMembers(decl) {
		typeast.Inspect(m, visit)
	}
	return found
}

// IsDeclaredBefore reports whether the binding ref names is initialized
// where its descriptor runs. Type parameters and globals always are.
func (c *Context) IsDeclaredBefore(ref *typeast.TypeReference) bool {
	res := c.oracle.ResolveReference(ref)
	if res.Kind != RefDeclaration {
		return true
	}
	return c.oracle.IsDeclaredBefore(ref.Name, res.Site)
}

// TypeParameterOf reports whether ref names a type parameter and, if so,
// the name of its owner and whether the owner is a class.
func (c *Context) TypeParameterOf(ref *typeast.TypeReference) (owner string, ownerIsClass bool, ok bool) {
	res := c.oracle.ResolveReference(ref)
	if res.Kind != RefTypeParameter {
		return "", false, false
	}
	return res.Owner, res.OwnerKind == OwnerClass, true
}

// IsAmbient reports whether ref resolves to a declaration without a runtime
// binding.
func (c *Context) IsAmbient(ref *typeast.TypeReference) bool {
	res := c.oracle.ResolveReference(ref)
	return res.Kind == RefDeclaration && res.Declaration != nil && res.Declaration.IsAmbient()
}

// Members returns the merged members of decl.
func (c *Context) Members(decl typeast.Declaration) []*typeast.Member {
	return c.oracle.MergedMembers(decl)
}

// TypeParametersSymbol is the name of the symbol under which instances of a
// generic class store their type parameter bindings.
func (c *Context) TypeParametersSymbol(class string) string {
	return c.namespace + class + "TypeParametersSymbol"
}

// ParameterTypeName is the variable holding the descriptor of a parameter
// whose reflection is skipped.
func (c *Context) ParameterTypeName(param string) string {
	return c.namespace + param + "Type"
}

// FunctionSelfName is the self-reference parameter of generic function
// descriptors.
func (c *Context) FunctionSelfName() string {
	return c.namespace + "fn"
}
