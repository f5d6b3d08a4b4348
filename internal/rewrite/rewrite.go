package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"constify/internal/parser"
	"constify/internal/symbols"
)

// Engine substitutes bound literals with their identifier names across
// source files and injects an import of the constants artifact into every
// rewritten file exactly once.
//
// Substitution is exact-text replacement of the quoted literal, not pattern
// search: the literal's own characters are regex-escaped, and the match
// requires the surrounding quote pair. It cannot distinguish two
// syntactically distinct occurrences sharing identical text; that limitation
// is deliberate and is mitigated by the ignore-list and manual-review split
// upstream, not by syntax-aware rewriting here.
type Engine struct {
	parser        *parser.Parser
	constantsPath string
	rules         []rule
}

type rule struct {
	pattern *regexp.Regexp
	name    string
}

// NewEngine compiles the substitution rules: one per recorded source form
// (concatenation chains, matched by their full raw spelling) followed by one
// quoted-literal rule per binding, each group in table order. Chain rules
// run first — a chain fragment such as ' ' may also be bound on its own, and
// replacing the fragment before the chain would corrupt the chain's match.
// Replacement text is a bare identifier, never quoted, so an earlier rule's
// output can never be re-matched by a later rule's pattern.
func NewEngine(p *parser.Parser, constantsPath string, bindings []*symbols.Binding) *Engine {
	e := &Engine{parser: p, constantsPath: constantsPath}
	for _, b := range bindings {
		for _, form := range b.SourceForms {
			e.rules = append(e.rules, rule{
				pattern: regexp.MustCompile(regexp.QuoteMeta(form)),
				name:    b.Name,
			})
		}
	}
	for _, b := range bindings {
		quoted := regexp.QuoteMeta(b.Text)
		e.rules = append(e.rules, rule{
			pattern: regexp.MustCompile(`'` + quoted + `'|"` + quoted + `"`),
			name:    b.Name,
		})
	}
	return e
}

// RewriteFile applies every rule to the file, ensures the constants import,
// and saves the result. The file is rewritten fully in memory; nothing is
// written unless the content changed.
func (e *Engine) RewriteFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	content := e.Apply(string(source))
	if content == string(source) {
		// No substitution fired, so the file references no constant;
		// injecting the import here would add a dead directive.
		return nil
	}

	rel, err := e.relativeImport(path)
	if err != nil {
		return err
	}
	content, err = e.EnsureImport(content, rel)
	if err != nil {
		return fmt.Errorf("failed to inject import into %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// Apply runs every substitution rule over the content, in rule order.
func (e *Engine) Apply(content string) string {
	for _, r := range e.rules {
		content = r.pattern.ReplaceAllLiteralString(content, r.name)
	}
	return content
}

// EnsureImport makes the content import the constants artifact exactly once.
// If an import already targets the path, the content is returned unchanged.
// Otherwise the import goes after the last existing import, or after a
// leading string directive ('use strict'), or at the very top.
func (e *Engine) EnsureImport(content, importPath string) (string, error) {
	tree, err := e.parser.Parse([]byte(content))
	if err != nil {
		return "", err
	}

	insertAt := 0
	for _, d := range parser.Directives(tree, []byte(content)) {
		switch d.Kind {
		case parser.DirectiveImport:
			if normalizeImport(d.Source) == normalizeImport(importPath) {
				return content, nil
			}
			insertAt = endOfLine(content, d.EndByte)
		case parser.DirectiveString:
			if insertAt == 0 {
				insertAt = endOfLine(content, d.EndByte)
			}
		}
	}

	stmt := fmt.Sprintf("import '%s';\n", importPath)
	if insertAt > 0 && !strings.HasSuffix(content[:insertAt], "\n") {
		stmt = "\n" + stmt
	}
	return content[:insertAt] + stmt + content[insertAt:], nil
}

// relativeImport computes the artifact's path relative to the rewritten
// file's directory, in slash form, "./"-prefixed when not ascending.
func (e *Engine) relativeImport(file string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(file), e.constantsPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve constants path for %s: %w", file, err)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel, nil
}

func normalizeImport(p string) string {
	return strings.TrimPrefix(p, "./")
}

// endOfLine returns the index just past the newline following pos, or the
// content length when the line is unterminated.
func endOfLine(content string, pos int) int {
	if pos > len(content) {
		return len(content)
	}
	if i := strings.IndexByte(content[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(content)
}
