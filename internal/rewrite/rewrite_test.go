package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constify/internal/parser"
	"constify/internal/symbols"
)

func newEngine(constantsPath string, bindings ...*symbols.Binding) *Engine {
	return NewEngine(parser.NewParser(), constantsPath, bindings)
}

func TestApply_QuotedFormsOnly(t *testing.T) {
	e := newEngine("constants.js", &symbols.Binding{Text: "Hello", Name: "kHello"})

	t.Run("Single and double quotes", func(t *testing.T) {
		out := e.Apply(`const a = 'Hello'; const b = "Hello";`)
		assert.Equal(t, `const a = kHello; const b = kHello;`, out)
	})

	t.Run("Substrings stay untouched", func(t *testing.T) {
		out := e.Apply(`const a = 'Hello there';`)
		assert.Equal(t, `const a = 'Hello there';`, out)
	})

	t.Run("Inserted identifiers are never re-matched", func(t *testing.T) {
		e := newEngine("constants.js",
			&symbols.Binding{Text: "Hello", Name: "kHello"},
			&symbols.Binding{Text: "kHello", Name: "kKHello"},
		)
		out := e.Apply(`const a = 'Hello';`)
		assert.Equal(t, `const a = kHello;`, out)
	})
}

func TestApply_ConcatenationChains(t *testing.T) {
	t.Run("Chain replaced by its source form", func(t *testing.T) {
		e := newEngine("constants.js", &symbols.Binding{
			Text:        "Hello World",
			Name:        "kHelloWorld",
			SourceForms: []string{"'Hello' + ' ' + 'World'"},
		})
		out := e.Apply(`const combined = 'Hello' + ' ' + 'World';`)
		assert.Equal(t, `const combined = kHelloWorld;`, out)
	})

	t.Run("Quoted spelling of the same text still replaced", func(t *testing.T) {
		e := newEngine("constants.js", &symbols.Binding{
			Text:        "Hello World",
			Name:        "kHelloWorld",
			SourceForms: []string{"'Hello' + ' ' + 'World'"},
		})
		out := e.Apply(`const plain = 'Hello World';`)
		assert.Equal(t, `const plain = kHelloWorld;`, out)
	})

	t.Run("Chain fragment bound on its own cannot corrupt the chain", func(t *testing.T) {
		e := newEngine("constants.js",
			&symbols.Binding{Text: " ", Name: "kSpace"},
			&symbols.Binding{
				Text:        "Hello World",
				Name:        "kHelloWorld",
				SourceForms: []string{"'Hello' + ' ' + 'World'"},
			},
		)
		out := e.Apply(`const sep = ' '; const combined = 'Hello' + ' ' + 'World';`)
		assert.Equal(t, `const sep = kSpace; const combined = kHelloWorld;`, out)
	})
}

func TestApply_RegexMetacharactersEscaped(t *testing.T) {
	e := newEngine("constants.js", &symbols.Binding{Text: "a+b (c)?", Name: "kExpr"})

	out := e.Apply(`run('a+b (c)?'); run('aab c');`)
	assert.Equal(t, `run(kExpr); run('aab c');`, out)
}

func TestApply_EmptyLiteral(t *testing.T) {
	e := newEngine("constants.js", &symbols.Binding{Text: "", Name: "kEmpty"})

	out := e.Apply(`const a = ''; const b = "";`)
	assert.Equal(t, `const a = kEmpty; const b = kEmpty;`, out)
}

func TestEnsureImport_Placement(t *testing.T) {
	e := newEngine("constants.js")

	t.Run("After last import", func(t *testing.T) {
		src := "import 'a.js';\nimport 'b.js';\nconst x = kHello;\n"
		out, err := e.EnsureImport(src, "./constants.js")
		require.NoError(t, err)
		assert.Equal(t, "import 'a.js';\nimport 'b.js';\nimport './constants.js';\nconst x = kHello;\n", out)
	})

	t.Run("After leading string directive", func(t *testing.T) {
		src := "'use strict';\nconst x = kHello;\n"
		out, err := e.EnsureImport(src, "./constants.js")
		require.NoError(t, err)
		assert.Equal(t, "'use strict';\nimport './constants.js';\nconst x = kHello;\n", out)
	})

	t.Run("At the very top", func(t *testing.T) {
		src := "const x = kHello;\n"
		out, err := e.EnsureImport(src, "./constants.js")
		require.NoError(t, err)
		assert.Equal(t, "import './constants.js';\nconst x = kHello;\n", out)
	})
}

func TestEnsureImport_Idempotent(t *testing.T) {
	e := newEngine("constants.js")

	src := "const x = kHello;\n"
	once, err := e.EnsureImport(src, "./constants.js")
	require.NoError(t, err)
	twice, err := e.EnsureImport(once, "./constants.js")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(twice, "import './constants.js';"))
}

func TestRewriteFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.js")
	constants := filepath.Join(dir, "gen", "constants.js")

	src := "console.log('Status');\nconst title = 'My App';\n"
	require.NoError(t, os.WriteFile(file, []byte(src), 0644))

	e := newEngine(constants, &symbols.Binding{Text: "My App", Name: "kMyApp"})
	require.NoError(t, e.RewriteFile(file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "'My App'")
	assert.Contains(t, out, "const title = kMyApp;")
	assert.Contains(t, out, "import './gen/constants.js';")
	assert.Contains(t, out, "console.log('Status');", "unbound literals survive untouched")
}

func TestRewriteFile_UnchangedFileNotTouched(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.js")

	src := "const x = 1;\n"
	require.NoError(t, os.WriteFile(file, []byte(src), 0644))

	e := newEngine(filepath.Join(dir, "constants.js"), &symbols.Binding{Text: "absent", Name: "kAbsent"})
	require.NoError(t, e.RewriteFile(file))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, src, string(data), "no substitutions means no import and no write")
}
