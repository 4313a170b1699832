// Package parser turns TypeScript source into type-annotation trees using
// the tree-sitter TypeScript grammar. Only type-level declarations are
// extracted: interfaces, classes and type aliases, exported or ambient.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"martianoff/tsreflect/internal/transpiler/typeast"
	"martianoff/tsreflect/tsrerr"
)

// DefaultMaxFileSize bounds the size of a single source file.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Option configures a TreeSitterParser.
type Option func(*TreeSitterParser)

// WithMaxFileSize sets the maximum file size the parser will accept.
func WithMaxFileSize(bytes int) Option {
	return func(p *TreeSitterParser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithLogger sets the logger used for skipped declarations.
func WithLogger(logger *slog.Logger) Option {
	return func(p *TreeSitterParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// TreeSitterParser parses TypeScript declarations. It is safe for concurrent
// use; each call creates its own tree-sitter parser.
type TreeSitterParser struct {
	maxFileSize int
	logger      *slog.Logger
}

// NewTreeSitterParser creates a parser with the given options.
func NewTreeSitterParser(opts ...Option) *TreeSitterParser {
	p := &TreeSitterParser{
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses content and extracts its type declarations. Syntax errors are
// reported as *tsrerr.SyntaxError at the first erroneous node.
func (p *TreeSitterParser) Parse(ctx context.Context, content []byte, filePath string) (*typeast.File, error) {
	if len(content) > p.maxFileSize {
		return nil, fmt.Errorf("parse %s: size %d exceeds limit %d", filePath, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("parse %s: content is not valid UTF-8", filePath)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, tsrerr.NewSyntaxError(filePath, 1, 1, "empty syntax tree")
	}
	if root.HasError() {
		bad := firstError(root)
		pos := position(bad)
		msg := "unexpected syntax"
		if bad.IsMissing() {
			msg = fmt.Sprintf("missing '%s'", bad.Type())
		} else if text := strings.TrimSpace(bad.Content(content)); text != "" {
			msg = fmt.Sprintf("unexpected '%s'", firstLine(text))
		}
		return nil, tsrerr.NewSyntaxError(filePath, pos.Line, pos.Column, msg)
	}

	b := &builder{src: content, path: filePath, ambientFile: strings.HasSuffix(filePath, ".d.ts"), logger: p.logger}
	file := &typeast.File{Path: filePath}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		file.Declarations = append(file.Declarations, b.statement(root.NamedChild(i), false, b.ambientFile)...)
	}
	return file, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() || c.IsMissing() {
			return firstError(c)
		}
	}
	return n
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func position(n *sitter.Node) typeast.Pos {
	start := n.StartPoint()
	return typeast.Pos{
		Offset: int(n.StartByte()),
		Line:   int(start.Row) + 1,
		Column: int(start.Column) + 1,
	}
}

// builder converts syntax nodes of one file.
type builder struct {
	src         []byte
	path        string
	ambientFile bool
	logger      *slog.Logger
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

func (b *builder) base(n *sitter.Node) typeast.Base {
	return typeast.Base{At: position(n)}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == token {
			return true
		}
	}
	return false
}

// statement extracts the declarations of a top-level statement.
func (b *builder) statement(n *sitter.Node, exported, ambient bool) []typeast.Declaration {
	switch n.Type() {
	case "export_statement":
		var out []typeast.Declaration
		for _, c := range namedChildren(n) {
			out = append(out, b.statement(c, true, ambient)...)
		}
		return out
	case "ambient_declaration":
		var out []typeast.Declaration
		for _, c := range namedChildren(n) {
			out = append(out, b.statement(c, exported, true)...)
		}
		return out
	case "interface_declaration":
		return []typeast.Declaration{b.interfaceDecl(n, exported, ambient)}
	case "class_declaration", "abstract_class_declaration", "class":
		if d := b.classDecl(n, exported, ambient); d != nil {
			return []typeast.Declaration{d}
		}
	case "type_alias_declaration":
		return []typeast.Declaration{b.typeAlias(n, exported, ambient)}
	case "enum_declaration", "module", "internal_module", "function_declaration", "function_signature":
		b.logger.Debug("declaration without type reflection skipped",
			slog.String("file", b.path),
			slog.String("kind", n.Type()),
			slog.Int("line", position(n).Line))
	}
	return nil
}

func (b *builder) interfaceDecl(n *sitter.Node, exported, ambient bool) *typeast.InterfaceDecl {
	d := &typeast.InterfaceDecl{Base: b.base(n), Exported: exported, Ambient: ambient}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "type_identifier":
			d.Name = b.text(c)
		case "type_parameters":
			d.TypeParams = b.typeParameters(c)
		case "extends_type_clause", "extends_clause":
			for _, t := range namedChildren(c) {
				if ref, ok := b.typeNode(t).(*typeast.TypeReference); ok {
					d.Extends = append(d.Extends, ref)
				}
			}
		case "object_type", "interface_body":
			d.Members = b.objectMembers(c)
		}
	}
	return d
}

func (b *builder) classDecl(n *sitter.Node, exported, ambient bool) *typeast.ClassDecl {
	d := &typeast.ClassDecl{
		Base:     b.base(n),
		Exported: exported,
		Ambient:  ambient || hasToken(n, "declare"),
		Abstract: n.Type() == "abstract_class_declaration",
	}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "type_identifier", "identifier":
			d.Name = b.text(c)
		case "type_parameters":
			d.TypeParams = b.typeParameters(c)
		case "class_heritage":
			b.heritage(c, d)
		case "class_body":
			d.Members = b.classMembers(c)
		}
	}
	if d.Name == "" {
		return nil
	}
	return d
}

func (b *builder) heritage(n *sitter.Node, d *typeast.ClassDecl) {
	for _, clause := range namedChildren(n) {
		switch clause.Type() {
		case "extends_clause":
			var ref *typeast.TypeReference
			for _, c := range namedChildren(clause) {
				switch c.Type() {
				case "type_arguments":
					if ref != nil {
						ref.Args = b.typeArguments(c)
					}
				default:
					if ref == nil {
						ref = &typeast.TypeReference{Base: b.base(c), Name: b.text(c)}
					}
				}
			}
			d.Extends = ref
		case "implements_clause":
			for _, t := range namedChildren(clause) {
				if ref, ok := b.typeNode(t).(*typeast.TypeReference); ok {
					d.Implements = append(d.Implements, ref)
				}
			}
		}
	}
}

func (b *builder) typeAlias(n *sitter.Node, exported, ambient bool) *typeast.TypeAliasDecl {
	d := &typeast.TypeAliasDecl{Base: b.base(n), Exported: exported, Ambient: ambient}
	if name := n.ChildByFieldName("name"); name != nil {
		d.Name = b.text(name)
	}
	if tps := n.ChildByFieldName("type_parameters"); tps != nil {
		d.TypeParams = b.typeParameters(tps)
	}
	if value := n.ChildByFieldName("value"); value != nil {
		d.Type = b.typeNode(value)
	}
	return d
}

func (b *builder) typeParameters(n *sitter.Node) []*typeast.TypeParameter {
	var tps []*typeast.TypeParameter
	for _, c := range namedChildren(n) {
		if c.Type() != "type_parameter" {
			continue
		}
		tp := &typeast.TypeParameter{At: position(c)}
		for _, part := range namedChildren(c) {
			switch part.Type() {
			case "type_identifier":
				tp.Name = b.text(part)
			case "constraint":
				tp.Constraint = b.innerType(part)
			case "default_type":
				tp.Default = b.innerType(part)
			}
		}
		tps = append(tps, tp)
	}
	return tps
}

// innerType returns the type wrapped by annotation-like nodes such as
// type_annotation, constraint and default_type.
func (b *builder) innerType(n *sitter.Node) typeast.Node {
	children := namedChildren(n)
	if len(children) == 0 {
		return nil
	}
	return b.typeNode(children[len(children)-1])
}

func (b *builder) typeArguments(n *sitter.Node) []typeast.Node {
	var args []typeast.Node
	for _, c := range namedChildren(n) {
		args = append(args, b.typeNode(c))
	}
	return args
}
