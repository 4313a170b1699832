package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"martianoff/tsreflect/internal/transpiler"
	"martianoff/tsreflect/internal/transpiler/jsast"
)

type jsCodeGenerator struct {
}

// NewJSCodeGenerator creates a new instance of CodeGenerator that prints JavaScript.
func NewJSCodeGenerator() transpiler.CodeGenerator {
	return &jsCodeGenerator{}
}

// Generate implements the CodeGenerator interface.
func (g *jsCodeGenerator) Generate(prog *jsast.Program) (string, error) {
	if prog == nil {
		return "", fmt.Errorf("generate: nil program")
	}
	p := &printer{}
	for i, s := range prog.Stmts {
		if err := p.stmt(s); err != nil {
			return "", err
		}
		p.buf.WriteByte('\n')
		if _, ok := s.(*jsast.ImportNamespace); ok && i+1 < len(prog.Stmts) {
			if _, next := prog.Stmts[i+1].(*jsast.ImportNamespace); !next {
				p.buf.WriteByte('\n')
			}
		}
	}
	return p.buf.String(), nil
}

// PrintExpr renders a single expression. Blocks inside arrow functions are
// indented with two spaces per level.
func PrintExpr(e jsast.Expr) (string, error) {
	p := &printer{}
	if err := p.expr(e); err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

// PrintStmt renders a single statement without a trailing newline.
func PrintStmt(s jsast.Stmt) (string, error) {
	p := &printer{}
	if err := p.stmt(s); err != nil {
		return "", err
	}
	return p.buf.String(), nil
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *printer) stmt(s jsast.Stmt) error {
	switch s := s.(type) {
	case *jsast.VarDecl:
		if s.Export {
			p.buf.WriteString("export ")
		}
		p.buf.WriteString(string(s.Kind))
		p.buf.WriteByte(' ')
		p.buf.WriteString(s.Name)
		if s.Init != nil {
			p.buf.WriteString(" = ")
			if err := p.expr(s.Init); err != nil {
				return err
			}
		}
	case *jsast.Return:
		p.buf.WriteString("return")
		if s.X != nil {
			p.buf.WriteByte(' ')
			if err := p.expr(s.X); err != nil {
				return err
			}
		}
	case *jsast.ExprStmt:
		if err := p.expr(s.X); err != nil {
			return err
		}
	case *jsast.ImportNamespace:
		fmt.Fprintf(&p.buf, "import * as %s from %s", s.Name, quote(s.Module))
	default:
		return fmt.Errorf("generate: unsupported statement %T", s)
	}
	p.buf.WriteByte(';')
	return nil
}

func (p *printer) expr(e jsast.Expr) error {
	switch e := e.(type) {
	case *jsast.Ident:
		p.buf.WriteString(e.Name)
	case *jsast.Raw:
		p.buf.WriteString(e.Text)
	case *jsast.StringLit:
		p.buf.WriteString(quote(e.Value))
	case *jsast.NumberLit:
		p.buf.WriteString(e.Text)
	case *jsast.BoolLit:
		p.buf.WriteString(strconv.FormatBool(e.Value))
	case *jsast.VoidZero:
		p.buf.WriteString("void 0")
	case *jsast.This:
		p.buf.WriteString("this")
	case *jsast.PropertyAccess:
		if err := p.expr(e.X); err != nil {
			return err
		}
		p.buf.WriteByte('.')
		p.buf.WriteString(e.Name)
	case *jsast.ElementAccess:
		if err := p.expr(e.X); err != nil {
			return err
		}
		p.buf.WriteByte('[')
		if err := p.expr(e.Index); err != nil {
			return err
		}
		p.buf.WriteByte(']')
	case *jsast.Call:
		if err := p.expr(e.Callee); err != nil {
			return err
		}
		p.buf.WriteByte('(')
		if err := p.list(e.Args); err != nil {
			return err
		}
		p.buf.WriteByte(')')
	case *jsast.ArrayLit:
		p.buf.WriteByte('[')
		if err := p.list(e.Elems); err != nil {
			return err
		}
		p.buf.WriteByte(']')
	case *jsast.Arrow:
		return p.arrow(e)
	case nil:
		return fmt.Errorf("generate: nil expression")
	default:
		return fmt.Errorf("generate: unsupported expression %T", e)
	}
	return nil
}

func (p *printer) list(es []jsast.Expr) error {
	for i, e := range es {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		if err := p.expr(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) arrow(a *jsast.Arrow) error {
	p.buf.WriteByte('(')
	p.buf.WriteString(strings.Join(a.Params, ", "))
	p.buf.WriteString(") => ")
	if a.Block == nil {
		return p.expr(a.Body)
	}
	p.buf.WriteString("{\n")
	p.indent++
	for _, s := range a.Block.Stmts {
		p.writeIndent()
		if err := p.stmt(s); err != nil {
			return err
		}
		p.buf.WriteByte('\n')
	}
	p.indent--
	p.writeIndent()
	p.buf.WriteByte('}')
	return nil
}

var _ transpiler.CodeGenerator = (*jsCodeGenerator)(nil)

// quote renders s as a JSON string literal, which JavaScript accepts as is.
// Invalid UTF-8 is replaced with U+FFFD.
func quote(s string) string {
	b, _ := jsontext.AppendQuote(nil, s)
	return string(b)
}
