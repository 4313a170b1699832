package typeast

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Syntax is the node kind name of the keyword: "unique symbol" is
// UniqueSymbolKeyword.
func (k KeywordKind) Syntax() string {
	var sb strings.Builder
	for _, w := range strings.Fields(string(k)) {
		sb.WriteString(strings.ToUpper(w[:1]))
		sb.WriteString(w[1:])
	}
	sb.WriteString("Keyword")
	return sb.String()
}

func (p *Parenthesized) String() string { return "(" + str(p.Type) + ")" }
func (k *Keyword) String() string       { return string(k.Keyword) }
func (*ThisType) String() string        { return "this" }
func (l *Literal) String() string       { return l.Text }
func (q *TypeQuery) String() string     { return "typeof " + q.Expr }

func (a *ArrayType) String() string {
	switch a.Elem.(type) {
	case *UnionType, *IntersectionType, *FunctionType:
		return "(" + str(a.Elem) + ")[]"
	}
	return str(a.Elem) + "[]"
}

func (t *TupleType) String() string {
	return "[" + join(t.Elems, ", ") + "]"
}

func (u *UnionType) String() string        { return join(u.Types, " | ") }
func (i *IntersectionType) String() string { return join(i.Types, " & ") }

func (r *TypeReference) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	return r.Name + "<" + join(r.Args, ", ") + ">"
}

func (f *FunctionType) String() string {
	var sb strings.Builder
	if f.Constructor {
		sb.WriteString("new ")
	}
	writeTypeParams(&sb, f.TypeParams)
	writeParams(&sb, f.Params)
	sb.WriteString(" => ")
	sb.WriteString(str(f.Return))
	return sb.String()
}

func (t *TypeLiteral) String() string {
	if len(t.Members) == 0 {
		return "{}"
	}
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (u *Unsupported) String() string {
	if u.Text != "" {
		return u.Text
	}
	return u.Syntax
}

func (m *Member) String() string {
	var sb strings.Builder
	if m.Static {
		sb.WriteString("static ")
	}
	name := m.Name.String()
	if m.Optional {
		name += "?"
	}
	switch m.MemberKind {
	case PropertyMember:
		sb.WriteString(name)
		writeAnnotation(&sb, m.Type)
	case IndexSignature:
		sb.WriteString("[")
		for i, p := range m.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString("]")
		writeAnnotation(&sb, m.Type)
	case ConstructorMember:
		sb.WriteString("constructor")
		writeParams(&sb, m.Params)
	case ConstructSignature:
		sb.WriteString("new ")
		writeTypeParams(&sb, m.TypeParams)
		writeParams(&sb, m.Params)
		writeAnnotation(&sb, m.Type)
	case CallSignature:
		writeTypeParams(&sb, m.TypeParams)
		writeParams(&sb, m.Params)
		writeAnnotation(&sb, m.Type)
	default:
		switch m.MemberKind {
		case GetAccessor:
			sb.WriteString("get ")
		case SetAccessor:
			sb.WriteString("set ")
		}
		sb.WriteString(name)
		writeTypeParams(&sb, m.TypeParams)
		writeParams(&sb, m.Params)
		writeAnnotation(&sb, m.Type)
	}
	return sb.String()
}

func (p *Parameter) String() string {
	var sb strings.Builder
	if p.Rest {
		sb.WriteString("...")
	}
	sb.WriteString(p.Name.String())
	if p.Optional {
		sb.WriteString("?")
	}
	writeAnnotation(&sb, p.Type)
	return sb.String()
}

func (tp *TypeParameter) String() string {
	s := tp.Name
	if tp.Constraint != nil {
		s += " extends " + tp.Constraint.String()
	}
	if tp.Default != nil {
		s += " = " + tp.Default.String()
	}
	return s
}

func (n *PropertyName) String() string {
	if n == nil {
		return ""
	}
	if n.Name == ComputedName {
		return "[" + n.Text + "]"
	}
	return n.Text
}

func (d *InterfaceDecl) String() string { return d.Name }
func (d *ClassDecl) String() string     { return d.Name }
func (d *TypeAliasDecl) String() string { return d.Name }

func str(n Node) string {
	if n == nil {
		return "any"
	}
	return n.String()
}

func join(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = str(n)
	}
	return strings.Join(parts, sep)
}

func writeAnnotation(sb *strings.Builder, t Node) {
	if t == nil {
		return
	}
	sb.WriteString(": ")
	sb.WriteString(t.String())
}

func writeTypeParams(sb *strings.Builder, tps []*TypeParameter) {
	if len(tps) == 0 {
		return
	}
	sb.WriteString("<")
	for i, tp := range tps {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tp.String())
	}
	sb.WriteString(">")
}

func writeParams(sb *strings.Builder, params []*Parameter) {
	sb.WriteString("(")
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
}

// unescape resolves the escape sequences of a JavaScript string body. Lone
// surrogates have no UTF-8 encoding and become U+FFFD.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\r':
			// line continuation
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
			// line continuation
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case 'u':
			r, n := unicodeEscape(s[i+1:])
			if n == 0 {
				sb.WriteByte('u')
				continue
			}
			i += n
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i+1:], `\u`) {
				if lo, m := unicodeEscape(s[i+3:]); m > 0 {
					if pair := utf16.DecodeRune(r, lo); pair != unicode.ReplacementChar {
						r = pair
						i += 2 + m
					}
				}
			}
			sb.WriteRune(r)
		case 'x':
			if r, ok := hexValue(s[i+1:], 2); ok {
				sb.WriteRune(r)
				i += 2
				continue
			}
			sb.WriteByte('x')
		default:
			if strings.HasPrefix(s[i:], "\u2028") || strings.HasPrefix(s[i:], "\u2029") {
				// line continuation
				i += 2
				continue
			}
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// unicodeEscape decodes the body of a \u escape, either XXXX or {X...}, and
// returns the rune and the number of bytes consumed.
func unicodeEscape(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 || end > 7 {
			return 0, 0
		}
		r, ok := hexValue(s[1:end], end-1)
		if !ok || r > unicode.MaxRune {
			return 0, 0
		}
		return r, end + 1
	}
	r, ok := hexValue(s, 4)
	if !ok {
		return 0, 0
	}
	return r, 4
}

// hexValue parses the first n bytes of s as hexadecimal digits.
func hexValue(s string, n int) (rune, bool) {
	if len(s) < n {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
