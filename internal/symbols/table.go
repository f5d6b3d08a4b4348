package symbols

// Category says how a literal occurrence may be replaced.
type Category string

const (
	// Safe literals are eligible for fully automatic replacement.
	Safe Category = "safe"
	// Manual literals are static fragments of interpolated strings and
	// need human review before replacement.
	Manual Category = "manual"
)

// Occurrence is one sighting of a literal text in a source file. Immutable
// once created. Source carries the occurrence's raw source form when it
// differs from Text: a collapsed concatenation chain has Text "Hello World"
// but Source "'Hello' + ' ' + 'World'", and the rewrite engine must match
// the latter.
type Occurrence struct {
	Text     string
	Source   string
	File     string
	Offset   int
	Category Category
}

// Binding pairs one distinct literal text with its synthesized identifier.
// Files records every distinct source file a Manual text was seen in, in
// first-seen order, for provenance comments. SourceForms records every
// distinct raw spelling of the text beyond the plain quoted form
// (concatenation chains), in first-seen order.
type Binding struct {
	Text        string
	Name        string
	Category    Category
	FirstFile   string
	FirstOffset int
	Files       []string
	SourceForms []string
}

// Table is the run-scoped symbol table: one binding per distinct literal
// text, in insertion order, plus the set of identifier names already issued.
// A table lives for exactly one run; nothing persists across invocations.
type Table struct {
	order    []string
	bindings map[string]*Binding
	names    *NameContext
}

// NewTable creates an empty table with a fresh naming context.
func NewTable() *Table {
	return &Table{
		bindings: make(map[string]*Binding),
		names:    NewNameContext(),
	}
}

// AddSafe records a Safe occurrence. Safe bindings take priority: if the
// text was previously recorded as Manual, the binding is upgraded in place.
func (t *Table) AddSafe(occ Occurrence) {
	if b, ok := t.bindings[occ.Text]; ok {
		b.Category = Safe
		b.addSourceForm(occ.Source)
		return
	}
	b := &Binding{
		Text:        occ.Text,
		Category:    Safe,
		FirstFile:   occ.File,
		FirstOffset: occ.Offset,
	}
	b.addSourceForm(occ.Source)
	t.insert(b)
}

// AddManual records a Manual occurrence. A text already bound as Safe keeps
// its Safe binding; a repeated Manual text only accumulates provenance.
func (t *Table) AddManual(occ Occurrence) {
	if b, ok := t.bindings[occ.Text]; ok {
		if b.Category == Manual {
			b.addFile(occ.File)
		}
		return
	}
	b := &Binding{
		Text:        occ.Text,
		Category:    Manual,
		FirstFile:   occ.File,
		FirstOffset: occ.Offset,
	}
	b.addFile(occ.File)
	t.insert(b)
}

func (t *Table) insert(b *Binding) {
	t.order = append(t.order, b.Text)
	t.bindings[b.Text] = b
}

func (b *Binding) addSourceForm(form string) {
	if form == "" {
		return
	}
	for _, f := range b.SourceForms {
		if f == form {
			return
		}
	}
	b.SourceForms = append(b.SourceForms, form)
}

func (b *Binding) addFile(file string) {
	for _, f := range b.Files {
		if f == file {
			return
		}
	}
	b.Files = append(b.Files, file)
}

// AssignNames synthesizes an identifier for every binding that lacks one,
// in insertion order, against the table's naming context.
func (t *Table) AssignNames(s *Synthesizer) {
	for _, text := range t.order {
		b := t.bindings[text]
		if b.Name == "" {
			b.Name = s.Synthesize(t.names, text)
		}
	}
}

// Bindings returns all bindings in insertion order.
func (t *Table) Bindings() []*Binding {
	out := make([]*Binding, 0, len(t.order))
	for _, text := range t.order {
		out = append(out, t.bindings[text])
	}
	return out
}

// Lookup returns the binding for a literal text, if any.
func (t *Table) Lookup(text string) (*Binding, bool) {
	b, ok := t.bindings[text]
	return b, ok
}

// Len reports the number of distinct bound texts.
func (t *Table) Len() int {
	return len(t.order)
}
