package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"constify/internal/symbols"
)

const (
	header = "// GENERATED STRING CONSTANTS"
	marker = "##"
)

// escape prepares literal text for embedding in a single-quoted
// declaration: the terminating quote, real newlines and carriage returns,
// and the interpolation trigger are escaped. Literal text keeps source
// escape sequences verbatim, so a quote or dollar already preceded by an
// odd number of backslashes is escaped in the source and must not be
// escaped again.
func escape(text string) string {
	var sb strings.Builder
	backslashes := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\':
			backslashes++
			sb.WriteByte(c)
			continue
		case '\'', '$':
			if backslashes%2 == 0 {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
		backslashes = 0
	}
	return sb.String()
}

// Render serializes the symbol table as the constants artifact: an
// automatically replaceable block of Safe declarations followed by a
// manual-review block with provenance comments. A text bound as Safe is
// never re-emitted in the manual block.
func Render(table *symbols.Table) string {
	var sb strings.Builder
	sb.WriteString(header + "\n")

	sb.WriteString(fmt.Sprintf("// %s Automatically replaceable\n", marker))
	for _, b := range table.Bindings() {
		if b.Category != symbols.Safe {
			continue
		}
		writeConst(&sb, b)
	}

	sb.WriteString(fmt.Sprintf("// %s Manual replacements required\n", marker))
	for _, b := range table.Bindings() {
		if b.Category != symbols.Manual {
			continue
		}
		for _, file := range b.Files {
			sb.WriteString(fmt.Sprintf("// Found in: %s\n", file))
		}
		writeConst(&sb, b)
	}

	return sb.String()
}

func writeConst(sb *strings.Builder, b *symbols.Binding) {
	sb.WriteString(fmt.Sprintf("const %s = '%s';\n", b.Name, escape(b.Text)))
}

// WriteFile renders the table and writes the artifact, creating parent
// directories as needed.
func WriteFile(path string, table *symbols.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(Render(table)), 0644); err != nil {
		return fmt.Errorf("failed to write constants file: %w", err)
	}
	return nil
}
