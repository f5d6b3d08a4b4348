package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Parser wraps a tree-sitter parser for JavaScript source files. Tree-sitter
// never aborts on syntax diagnostics: malformed source still yields a
// best-effort tree containing error nodes, which the collector walks like any
// other tree.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a parser for the JavaScript grammar.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{inner: p}
}

// Parse produces a syntax tree for the given source.
func (p *Parser) Parse(source []byte) (*sitter.Tree, error) {
	tree, err := p.inner.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return tree, nil
}

// Directive is one module-level statement relevant to import placement:
// an import (with its target path) or a leading string directive such as
// 'use strict'.
type Directive struct {
	Kind    DirectiveKind
	Source  string // import target path, without quotes; empty for Kind != DirectiveImport
	EndByte int    // end of the statement in the source
}

type DirectiveKind int

const (
	DirectiveImport DirectiveKind = iota
	DirectiveString
)

// Directives lists the module-level directives of a parsed file in source
// order: every top-level import statement and any leading expression
// statement that is a bare string literal.
func Directives(tree *sitter.Tree, source []byte) []Directive {
	var dirs []Directive
	root := tree.RootNode()

	leading := true
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_statement":
			d := Directive{Kind: DirectiveImport, EndByte: int(child.EndByte())}
			if src := child.ChildByFieldName("source"); src != nil {
				d.Source = Unquote(src.Content(source))
			}
			dirs = append(dirs, d)
			leading = false
		case "expression_statement":
			if leading && child.NamedChildCount() == 1 && child.NamedChild(0).Type() == "string" {
				dirs = append(dirs, Directive{Kind: DirectiveString, EndByte: int(child.EndByte())})
			}
			leading = false
		case "comment":
			// comments do not end the leading-directive window
		default:
			leading = false
		}
	}
	return dirs
}

// Unquote strips the surrounding quote pair from a literal's raw source
// text. Escape sequences inside are kept verbatim so the result can be
// matched back against the source byte for byte.
func Unquote(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}
