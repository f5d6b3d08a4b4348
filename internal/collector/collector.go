package collector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"constify/internal/config"
	"constify/internal/parser"
	"constify/internal/symbols"
)

// FileLiterals is the collector's output for one file. Safe occurrences may
// repeat (the symbol table deduplicates); Manual occurrences are never
// deduplicated so per-occurrence provenance survives.
type FileLiterals struct {
	Safe   []symbols.Occurrence
	Manual []symbols.Occurrence
}

// Collector walks one file's syntax tree and classifies every literal
// occurrence. Traversal is a pure read; nothing is mutated.
type Collector struct {
	ignoreCalls map[string]struct{}
	errorCtors  map[string]struct{}
}

// NewCollector creates a collector with the configured ignore sets.
func NewCollector(cfg *config.Config) *Collector {
	c := &Collector{
		ignoreCalls: make(map[string]struct{}),
		errorCtors:  make(map[string]struct{}),
	}
	for _, name := range cfg.Classify.IgnoreCalls {
		c.ignoreCalls[name] = struct{}{}
	}
	for _, name := range cfg.Classify.ErrorConstructors {
		c.errorCtors[name] = struct{}{}
	}
	return c
}

// Collect classifies every literal in the tree. The node kinds handled form
// a closed set (simple string, template string, concatenation chain, import
// source, pair key, subscript index); everything else is a plain descent.
func (c *Collector) Collect(tree *sitter.Tree, source []byte, path string) FileLiterals {
	var out FileLiterals
	c.walk(tree.RootNode(), source, path, &out)
	return out
}

func (c *Collector) walk(node *sitter.Node, source []byte, path string, out *FileLiterals) {
	switch node.Type() {
	case "string":
		c.visitString(node, source, path, out)
		return
	case "template_string":
		c.visitTemplate(node, source, path, out)
		return
	case "binary_expression":
		if text, ok := concatText(node, source); ok {
			if !c.skipped(node, source) {
				// The chain's raw source form travels with the
				// occurrence; the combined text alone could never be
				// matched back against the source.
				out.Safe = append(out.Safe, symbols.Occurrence{
					Text:     text,
					Source:   node.Content(source),
					File:     path,
					Offset:   int(node.StartByte()),
					Category: symbols.Safe,
				})
			}
			return
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		c.walk(node.NamedChild(i), source, path, out)
	}
}

// visitString classifies a simple single- or double-quoted literal.
func (c *Collector) visitString(node *sitter.Node, source []byte, path string, out *FileLiterals) {
	if c.skipped(node, source) {
		return
	}
	out.Safe = append(out.Safe, symbols.Occurrence{
		Text:     parser.Unquote(node.Content(source)),
		File:     path,
		Offset:   int(node.StartByte()),
		Category: symbols.Safe,
	})
}

// visitTemplate classifies the static fragments of a template string. Each
// run of text between substitutions becomes one Manual occurrence; the
// substitution expressions themselves are never descended into, so any
// string inside `${...}` is ignored entirely.
func (c *Collector) visitTemplate(node *sitter.Node, source []byte, path string, out *FileLiterals) {
	if c.skipped(node, source) {
		return
	}

	var run strings.Builder
	runStart := -1
	flush := func() {
		if runStart >= 0 && run.Len() > 0 {
			out.Manual = append(out.Manual, symbols.Occurrence{
				Text:     run.String(),
				File:     path,
				Offset:   runStart,
				Category: symbols.Manual,
			})
		}
		run.Reset()
		runStart = -1
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "template_substitution":
			flush()
		case "string_fragment", "escape_sequence":
			if runStart < 0 {
				runStart = int(child.StartByte())
			}
			run.WriteString(child.Content(source))
		}
	}
	flush()
}

// skipped applies the context rules that remove a literal from
// classification entirely: import/export targets, map keys, subscript keys,
// and arguments of ignored calls or error constructors.
func (c *Collector) skipped(node *sitter.Node, source []byte) bool {
	p := node.Parent()
	if p == nil {
		return false
	}

	switch p.Type() {
	case "import_statement", "export_statement":
		return true
	case "expression_statement":
		// A bare string statement at module level is a directive
		// ('use strict'), not user-facing text.
		if g := p.Parent(); g != nil && g.Type() == "program" {
			return true
		}
	case "pair":
		if key := p.ChildByFieldName("key"); sameNode(key, node) {
			return true
		}
	case "subscript_expression":
		if idx := p.ChildByFieldName("index"); sameNode(idx, node) {
			return true
		}
	case "arguments":
		g := p.Parent()
		if g == nil {
			return false
		}
		switch g.Type() {
		case "call_expression":
			if fn := g.ChildByFieldName("function"); fn != nil {
				return c.ignoredCall(fn.Content(source))
			}
		case "new_expression":
			if ctor := g.ChildByFieldName("constructor"); ctor != nil {
				_, ok := c.errorCtors[ctor.Content(source)]
				return ok
			}
		}
	}
	return false
}

// ignoredCall matches the callee against the ignore set, either by its full
// text ("console.log") or by its final segment ("log" in "logger.log").
func (c *Collector) ignoredCall(callee string) bool {
	if _, ok := c.ignoreCalls[callee]; ok {
		return true
	}
	if i := strings.LastIndex(callee, "."); i >= 0 {
		_, ok := c.ignoreCalls[callee[i+1:]]
		return ok
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// concatText collapses a concatenation chain of simple string literals into
// one combined text. It only fires at the topmost node of a chain, and only
// when every leaf is a plain string; a chain with any non-string operand is
// left to the normal walk, which classifies its string leaves individually.
func concatText(node *sitter.Node, source []byte) (string, bool) {
	if !isConcat(node, source) {
		return "", false
	}
	if p := node.Parent(); p != nil && isConcat(p, source) {
		return "", false
	}
	var sb strings.Builder
	if !collectConcat(node, source, &sb) {
		return "", false
	}
	return sb.String(), true
}

func isConcat(node *sitter.Node, source []byte) bool {
	if node.Type() != "binary_expression" {
		return false
	}
	op := node.ChildByFieldName("operator")
	return op != nil && op.Content(source) == "+"
}

func collectConcat(node *sitter.Node, source []byte, sb *strings.Builder) bool {
	for _, field := range []string{"left", "right"} {
		child := node.ChildByFieldName(field)
		if child == nil {
			return false
		}
		switch {
		case child.Type() == "string":
			sb.WriteString(parser.Unquote(child.Content(source)))
		case isConcat(child, source):
			if !collectConcat(child, source, sb) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
