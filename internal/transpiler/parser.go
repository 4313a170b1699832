package transpiler

import (
	"context"

	"martianoff/tsreflect/internal/parser"
	"martianoff/tsreflect/internal/transpiler/typeast"
)

type treeSitterParser struct {
	wrapper *parser.TreeSitterParser
}

// NewTreeSitterParser creates a new TypeScriptParser implementation using tree-sitter.
func NewTreeSitterParser() TypeScriptParser {
	return &treeSitterParser{
		wrapper: parser.NewTreeSitterParser(),
	}
}

// Parse implements the TypeScriptParser interface.
func (p *treeSitterParser) Parse(ctx context.Context, input []byte, path string) (*typeast.File, error) {
	return p.wrapper.Parse(ctx, input, path)
}

// Ensure treeSitterParser implements TypeScriptParser interface.
var _ TypeScriptParser = (*treeSitterParser)(nil)
