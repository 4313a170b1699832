package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"martianoff/tsreflect/internal/transpiler"
	"martianoff/tsreflect/internal/transpiler/declctx"
	"martianoff/tsreflect/internal/transpiler/typeast"
	"martianoff/tsreflect/tsrerr"
)

// LoadBaseDeclarations parses declaration files (`.d.ts`) whose types are
// visible to every analyzed file but have no runtime binding there.
// Each path is tried as given and then relative to every search path.
func LoadBaseDeclarations(ctx context.Context, p transpiler.TypeScriptParser, files, searchPaths []string) ([]*typeast.File, error) {
	var base []*typeast.File
	for _, f := range files {
		content, path, err := readFirst(f, searchPaths)
		if err != nil {
			return nil, err
		}
		parsed, err := p.Parse(ctx, content, path)
		if err != nil {
			return nil, fmt.Errorf("load declarations %s: %w", path, err)
		}
		for _, d := range parsed.Declarations {
			markAmbient(d)
		}
		base = append(base, parsed)
	}
	return base, nil
}

func readFirst(file string, searchPaths []string) ([]byte, string, error) {
	candidates := []string{file}
	if !filepath.IsAbs(file) {
		for _, dir := range searchPaths {
			candidates = append(candidates, filepath.Join(dir, file))
		}
	}
	var lastErr error
	for _, c := range candidates {
		content, err := os.ReadFile(c)
		if err == nil {
			return content, c, nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("load declarations %s: %w", file, lastErr)
}

func markAmbient(d typeast.Declaration) {
	switch d := d.(type) {
	case *typeast.InterfaceDecl:
		d.Ambient = true
	case *typeast.ClassDecl:
		d.Ambient = true
	case *typeast.TypeAliasDecl:
		d.Ambient = true
	}
}

type reflectAnalyzer struct {
	base   []*typeast.File
	logger *slog.Logger
}

// NewReflectAnalyzer creates a new transpiler.Analyzer implementation.
// Declarations of base files resolve from every analyzed file.
func NewReflectAnalyzer(logger *slog.Logger, base ...*typeast.File) transpiler.Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &reflectAnalyzer{base: base, logger: logger}
}

// Analyze indexes the declarations of file and resolves every type reference.
func (a *reflectAnalyzer) Analyze(file *typeast.File) (declctx.Oracle, error) {
	idx, err := NewIndex(file, a.base...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("analyzed",
		"file", file.Path,
		"declarations", len(file.Declarations),
		"references", len(idx.refs))
	return idx, nil
}

var _ transpiler.Analyzer = (*reflectAnalyzer)(nil)

// Index is the semantic oracle of one file.
type Index struct {
	path string

	// local maps a name to its declarations in this file, in source order
	local map[string][]typeast.Declaration

	// external maps a name to declarations from base files
	external map[string][]typeast.Declaration

	// refs maps each reference node to its resolution
	refs map[*typeast.TypeReference]declctx.Resolution

	// site is where the declaration being resolved is emitted
	site typeast.Pos
}

// NewIndex builds the oracle for file.
func NewIndex(file *typeast.File, base ...*typeast.File) (*Index, error) {
	idx := &Index{
		path:     file.Path,
		local:    make(map[string][]typeast.Declaration),
		external: make(map[string][]typeast.Declaration),
		refs:     make(map[*typeast.TypeReference]declctx.Resolution),
	}
	for _, bf := range base {
		for _, d := range bf.Declarations {
			idx.external[d.DeclName()] = append(idx.external[d.DeclName()], d)
		}
	}
	for _, d := range file.Declarations {
		if err := idx.checkDuplicate(d); err != nil {
			return nil, err
		}
		idx.local[d.DeclName()] = append(idx.local[d.DeclName()], d)
	}
	for _, d := range file.Declarations {
		idx.resolveDeclaration(d)
	}
	for _, bf := range base {
		for _, d := range bf.Declarations {
			idx.resolveDeclaration(d)
		}
	}
	return idx, nil
}

// checkDuplicate rejects declarations that cannot merge with an earlier
// one: aliases never merge and a class merges with interfaces only.
func (idx *Index) checkDuplicate(d typeast.Declaration) error {
	for _, prev := range idx.local[d.DeclName()] {
		_, prevAlias := prev.(*typeast.TypeAliasDecl)
		_, curAlias := d.(*typeast.TypeAliasDecl)
		_, prevClass := prev.(*typeast.ClassDecl)
		_, curClass := d.(*typeast.ClassDecl)
		if prevAlias || curAlias || (prevClass && curClass) {
			pos := d.Pos()
			return tsrerr.NewSemanticError(idx.path, pos.Line, pos.Column,
				fmt.Sprintf("duplicate identifier '%s'", d.DeclName()))
		}
	}
	return nil
}

// scope is one level of type-parameter bindings.
type scope struct {
	parent    *scope
	names     map[string]bool
	owner     string
	ownerKind declctx.OwnerKind
}

func newScope(parent *scope, tps []*typeast.TypeParameter, owner string, kind declctx.OwnerKind) *scope {
	if len(tps) == 0 {
		return parent
	}
	s := &scope{parent: parent, names: make(map[string]bool, len(tps)), owner: owner, ownerKind: kind}
	for _, tp := range tps {
		s.names[tp.Name] = true
	}
	return s
}

func (s *scope) lookup(name string) *scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.names[name] {
			return cur
		}
	}
	return nil
}

// resolveDeclaration resolves the references of d. All parts of a merged
// name are emitted as one binding at its first declaration, so that is the
// site their references are evaluated at.
func (idx *Index) resolveDeclaration(d typeast.Declaration) {
	idx.site = d.Pos()
	if ds := idx.local[d.DeclName()]; len(ds) > 0 {
		idx.site = ds[0].Pos()
	}
	switch d := d.(type) {
	case *typeast.InterfaceDecl:
		s := newScope(nil, d.TypeParams, d.Name, declctx.OwnerInterface)
		idx.resolveTypeParams(d.TypeParams, s)
		for _, ref := range d.Extends {
			idx.resolve(ref, s)
		}
		idx.resolveMembers(d.Members, s)
	case *typeast.ClassDecl:
		s := newScope(nil, d.TypeParams, d.Name, declctx.OwnerClass)
		idx.resolveTypeParams(d.TypeParams, s)
		if d.Extends != nil {
			idx.resolve(d.Extends, s)
		}
		for _, ref := range d.Implements {
			idx.resolve(ref, s)
		}
		idx.resolveMembers(d.Members, s)
	case *typeast.TypeAliasDecl:
		s := newScope(nil, d.TypeParams, d.Name, declctx.OwnerTypeAlias)
		idx.resolveTypeParams(d.TypeParams, s)
		idx.resolve(d.Type, s)
	}
}

func (idx *Index) resolveTypeParams(tps []*typeast.TypeParameter, s *scope) {
	for _, tp := range tps {
		idx.resolve(tp.Constraint, s)
		idx.resolve(tp.Default, s)
	}
}

func (idx *Index) resolveMembers(members []*typeast.Member, s *scope) {
	for _, m := range members {
		ms := newScope(s, m.TypeParams, m.Name.String(), declctx.OwnerSignature)
		idx.resolveTypeParams(m.TypeParams, ms)
		idx.resolveSignature(m.Params, m.Type, ms)
	}
}

func (idx *Index) resolveSignature(params []*typeast.Parameter, ret typeast.Node, s *scope) {
	for _, p := range params {
		idx.resolve(p.Type, s)
	}
	idx.resolve(ret, s)
}

func (idx *Index) resolve(n typeast.Node, s *scope) {
	switch n := n.(type) {
	case *typeast.TypeReference:
		idx.refs[n] = idx.lookup(n.Name, s)
		for _, a := range n.Args {
			idx.resolve(a, s)
		}
	case *typeast.Parenthesized:
		idx.resolve(n.Type, s)
	case *typeast.ArrayType:
		idx.resolve(n.Elem, s)
	case *typeast.TupleType:
		for _, e := range n.Elems {
			idx.resolve(e, s)
		}
	case *typeast.UnionType:
		for _, t := range n.Types {
			idx.resolve(t, s)
		}
	case *typeast.IntersectionType:
		for _, t := range n.Types {
			idx.resolve(t, s)
		}
	case *typeast.FunctionType:
		fs := newScope(s, n.TypeParams, "", declctx.OwnerSignature)
		idx.resolveTypeParams(n.TypeParams, fs)
		idx.resolveSignature(n.Params, n.Return, fs)
	case *typeast.TypeLiteral:
		idx.resolveMembers(n.Members, s)
	}
}

func (idx *Index) lookup(name string, s *scope) declctx.Resolution {
	if owner := s.lookup(name); owner != nil {
		return declctx.Resolution{Kind: declctx.RefTypeParameter, Owner: owner.owner, OwnerKind: owner.ownerKind}
	}
	if ds := idx.Declarations(name); len(ds) > 0 {
		return declctx.Resolution{Kind: declctx.RefDeclaration, Declaration: primary(ds), Site: idx.site}
	}
	return declctx.Resolution{Kind: declctx.RefGlobal}
}

// primary picks the declaration that carries the runtime binding of a
// merged name: the class if there is one, else the first declaration.
func primary(ds []typeast.Declaration) typeast.Declaration {
	for _, d := range ds {
		if _, ok := d.(*typeast.ClassDecl); ok {
			return d
		}
	}
	return ds[0]
}

// Primary implements declctx.Oracle.
func (idx *Index) Primary(name string) typeast.Declaration {
	ds := idx.Declarations(name)
	if len(ds) == 0 {
		return nil
	}
	return primary(ds)
}

// ResolveReference implements declctx.Oracle. References that were not part
// of the indexed files resolve to globals.
func (idx *Index) ResolveReference(ref *typeast.TypeReference) declctx.Resolution {
	if res, ok := idx.refs[ref]; ok {
		return res
	}
	return declctx.Resolution{Kind: declctx.RefGlobal}
}

// Declarations implements declctx.Oracle. Local declarations shadow those of
// base files.
func (idx *Index) Declarations(name string) []typeast.Declaration {
	if ds := idx.local[name]; len(ds) > 0 {
		return ds
	}
	return idx.external[name]
}

// IsDeclaredBefore implements declctx.Oracle. A merged name is bound where
// its first declaration appears; a binding emitted at pos sees itself
// through its self-reference parameter.
func (idx *Index) IsDeclaredBefore(name string, pos typeast.Pos) bool {
	ds := idx.local[name]
	if len(ds) == 0 {
		return true
	}
	return ds[0].Pos().Offset <= pos.Offset
}

// MergedMembers implements declctx.Oracle.
func (idx *Index) MergedMembers(decl typeast.Declaration) []*typeast.Member {
	switch d := decl.(type) {
	case *typeast.InterfaceDecl:
		return idx.interfaceMembers(d.Name, map[string]bool{})
	case *typeast.ClassDecl:
		var members []*typeast.Member
		for _, m := range d.Members {
			if m.Static {
				continue
			}
			switch m.MemberKind {
			case typeast.PropertyMember, typeast.MethodMember, typeast.GetAccessor, typeast.SetAccessor:
				members = append(members, m)
			}
		}
		return append(members, idx.interfaceMembers(d.Name, map[string]bool{})...)
	}
	return nil
}

// interfaceMembers collects the members of every interface declaration of
// name followed by inherited members not redeclared along the way.
func (idx *Index) interfaceMembers(name string, visiting map[string]bool) []*typeast.Member {
	if visiting[name] {
		return nil
	}
	visiting[name] = true
	defer delete(visiting, name)

	var own []*typeast.Member
	var bases []*typeast.TypeReference
	for _, d := range idx.Declarations(name) {
		if iface, ok := d.(*typeast.InterfaceDecl); ok {
			own = append(own, iface.Members...)
			bases = append(bases, iface.Extends...)
		}
	}

	declared := make(map[string]bool, len(own))
	for _, m := range own {
		if m.Name != nil {
			declared[memberKey(m)] = true
		}
	}
	members := own
	for _, base := range bases {
		res := idx.ResolveReference(base)
		if res.Kind != declctx.RefDeclaration {
			continue
		}
		for _, m := range idx.interfaceMembers(res.Declaration.DeclName(), visiting) {
			if m.Name != nil && declared[memberKey(m)] {
				continue
			}
			members = append(members, m)
		}
	}
	return members
}

func memberKey(m *typeast.Member) string {
	return m.Name.Key()
}

var _ declctx.Oracle = (*Index)(nil)
