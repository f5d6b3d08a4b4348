package symbols

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// overflowMarker replaces the tail of a name that exceeded the length bound.
// Its length is what keeps a truncated name at exactly the configured
// maximum: body is cut to max-8 and the 8-char marker appended.
const overflowMarker = "_Trimmed"

// mnemonics maps single symbols to readable name fragments used while
// accumulating a name character by character. Space is deliberately absent:
// inside a longer literal it separates words and is dropped, so "3 items"
// and "3Items" accumulate to the same candidate.
var mnemonics = map[string]string{
	"!":  "Exclamation",
	"\"": "DoubleQuote",
	"#":  "Hash",
	"$":  "Dollar",
	"%":  "Percent",
	"&":  "Ampersand",
	"'":  "Quote",
	"(":  "OpenParen",
	")":  "CloseParen",
	"*":  "Asterisk",
	"+":  "Plus",
	",":  "Comma",
	"-":  "Dash",
	".":  "Dot",
	"/":  "Slash",
	":":  "Colon",
	";":  "Semicolon",
	"<":  "LessThan",
	"=":  "Equals",
	">":  "GreaterThan",
	"?":  "Question",
	"@":  "At",
	"[":  "OpenBracket",
	"\\": "Backslash",
	"]":  "CloseBracket",
	"^":  "Caret",
	"_":  "Underscore",
	"`":  "Backtick",
	"{":  "OpenBrace",
	"|":  "Pipe",
	"}":  "CloseBrace",
	"~":  "Tilde",
	"€":  "Euro",
	"£":  "Pound",
	"¥":  "Yen",
}

// canonical extends mnemonics with the whole-literal-only entries: a literal
// that is exactly one of these gets the mnemonic as its entire name body.
var canonical = func() map[string]string {
	m := map[string]string{
		"":  "Empty",
		" ": "Space",
	}
	for k, v := range mnemonics {
		m[k] = v
	}
	return m
}()

// NameContext is the run-scoped mutable naming state: the set of issued
// names and the placeholder counter. It is threaded explicitly through the
// pipeline rather than kept as package state, so runs are independent.
type NameContext struct {
	used      map[string]struct{}
	symbolSeq int
}

// NewNameContext creates empty naming state for one run.
func NewNameContext() *NameContext {
	return &NameContext{used: make(map[string]struct{})}
}

// Reserved reports whether a name has already been issued this run.
func (nc *NameContext) Reserved(name string) bool {
	_, ok := nc.used[name]
	return ok
}

// Synthesizer turns literal text into valid, bounded-length identifier
// names. It is a total function: every input yields some name.
type Synthesizer struct {
	prefix string
	maxLen int
}

// NewSynthesizer creates a synthesizer with the given name prefix and
// maximum name length.
func NewSynthesizer(prefix string, maxLen int) *Synthesizer {
	return &Synthesizer{prefix: prefix, maxLen: maxLen}
}

// Synthesize produces a unique identifier for the literal text and reserves
// it in the naming context. The text is taken as-is: leading and trailing
// whitespace is part of the literal and contributes to the name.
func (s *Synthesizer) Synthesize(nc *NameContext, text string) string {
	candidate := s.candidate(nc, text)

	if !nc.Reserved(candidate) {
		nc.used[candidate] = struct{}{}
		return candidate
	}
	for i := 1; ; i++ {
		suffix := "_" + strconv.Itoa(i)
		name := candidate + suffix
		// The suffix must not push the name past the length bound; the
		// body shrinks, the suffix survives.
		if len(name) > s.maxLen {
			keep := s.maxLen - len(suffix)
			if keep < 0 {
				keep = 0
			}
			name = candidate[:keep] + suffix
		}
		if !nc.Reserved(name) {
			nc.used[name] = struct{}{}
			return name
		}
	}
}

// candidate builds the first-choice name before collision resolution. The
// placeholder counter in nc may advance for symbol-only texts.
func (s *Synthesizer) candidate(nc *NameContext, text string) string {
	var body string

	// A literal that is exactly one mapped symbol gets its canonical
	// mnemonic, not a character-run name.
	if m, ok := canonical[text]; ok {
		body = m
	} else {
		var sb strings.Builder
		capNext := false
		gr := uniseg.NewGraphemes(text)
		for gr.Next() {
			g := gr.Str()
			if m, ok := mnemonics[g]; ok {
				sb.WriteString(m)
				capNext = false
				continue
			}
			if len(g) == 1 && isASCIIAlnum(g[0]) {
				ch := g[0]
				if capNext && ch >= 'a' && ch <= 'z' {
					ch -= 'a' - 'A'
				}
				sb.WriteByte(ch)
				capNext = false
				continue
			}
			// Dropped characters (spaces, unmapped symbols) act as word
			// boundaries: the next letter is upcased, so "3 items" and
			// "3Items" accumulate to the same candidate.
			capNext = true
		}
		body = sb.String()
		if body == "" {
			nc.symbolSeq++
			body = "Symbol" + strconv.Itoa(nc.symbolSeq)
		}
	}

	name := s.prefix + body
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	if len(name) > s.maxLen {
		cut := s.maxLen - len(overflowMarker)
		if cut < 0 {
			cut = 0
		}
		name = name[:cut] + overflowMarker
	}
	return name
}

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
