package generator

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"martianoff/tsreflect/internal/transpiler/jsast"
)

// Manifest lists the descriptors emitted for one source file.
type Manifest struct {
	Source       string          `json:"source,omitzero"`
	Library      string          `json:"library"`
	Declarations []ManifestEntry `json:"declarations"`
}

// ManifestEntry is one emitted binding. Binding is "let", "const" or
// "declare" for ambient registrations.
type ManifestEntry struct {
	Name       string `json:"name"`
	Binding    string `json:"binding"`
	Exported   bool   `json:"exported,omitzero"`
	Descriptor string `json:"descriptor"`
}

// BuildManifest collects the bindings of prog in emission order.
func BuildManifest(source string, prog *jsast.Program) (*Manifest, error) {
	if prog == nil {
		return nil, fmt.Errorf("manifest: nil program")
	}
	m := &Manifest{Source: source, Declarations: []ManifestEntry{}}
	for _, s := range prog.Stmts {
		switch s := s.(type) {
		case *jsast.ImportNamespace:
			m.Library = s.Module
		case *jsast.VarDecl:
			text, err := PrintExpr(s.Init)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %w", s.Name, err)
			}
			m.Declarations = append(m.Declarations, ManifestEntry{
				Name:       s.Name,
				Binding:    string(s.Kind),
				Exported:   s.Export,
				Descriptor: text,
			})
		case *jsast.ExprStmt:
			name, inner := declared(s.X)
			if inner == nil {
				continue
			}
			text, err := PrintExpr(inner)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %w", name, err)
			}
			m.Declarations = append(m.Declarations, ManifestEntry{
				Name:       name,
				Binding:    "declare",
				Descriptor: text,
			})
		}
	}
	return m, nil
}

// declared unpacks `lib.declare(lib.type("Name", ...))`.
func declared(e jsast.Expr) (string, jsast.Expr) {
	call, ok := e.(*jsast.Call)
	if !ok || len(call.Args) != 1 {
		return "", nil
	}
	if callee, ok := call.Callee.(*jsast.PropertyAccess); !ok || callee.Name != "declare" {
		return "", nil
	}
	inner, ok := call.Args[0].(*jsast.Call)
	if !ok || len(inner.Args) == 0 {
		return "", nil
	}
	name, ok := inner.Args[0].(*jsast.StringLit)
	if !ok {
		return "", nil
	}
	return name.Value, inner
}

// ManifestJSON serializes the manifest to pretty-printed JSON.
func ManifestJSON(m *Manifest) ([]byte, error) {
	return json.Marshal(m, jsontext.WithIndent("  "), json.Deterministic(true))
}
