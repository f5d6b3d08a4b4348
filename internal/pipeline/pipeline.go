package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"constify/internal/collector"
	"constify/internal/config"
	"constify/internal/crawler"
	"constify/internal/emitter"
	"constify/internal/parser"
	"constify/internal/rewrite"
	"constify/internal/symbols"
)

// ErrNoFiles is returned when the input path resolves to no source files.
// Callers treat it as a clean, non-fatal end of the run.
var ErrNoFiles = errors.New("no source files found under input path")

// Result summarizes one completed run.
type Result struct {
	FilesProcessed int
	SafeBindings   int
	ManualBindings int
	ConstantsPath  string
}

// Pipeline is the strictly sequential run: discover, collect over all files,
// synthesize names for the aggregated table, emit the constants artifact,
// then rewrite every file. Names cannot be assigned until collection has
// seen the whole run, since uniqueness and Safe-over-Manual priority are
// global properties.
type Pipeline struct {
	cfg       *config.Config
	parser    *parser.Parser
	crawler   *crawler.Crawler
	collector *collector.Collector
	synth     *symbols.Synthesizer
}

// NewPipeline wires a pipeline from the configuration. All run state lives
// in the symbol table created inside Run, so one pipeline may be invoked
// repeatedly; each invocation is an independent run.
func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		parser:    parser.NewParser(),
		crawler:   crawler.NewCrawler(cfg),
		collector: collector.NewCollector(cfg),
		synth:     symbols.NewSynthesizer(cfg.Naming.Prefix, cfg.Naming.MaxNameLength),
	}
}

// Run executes one full extraction pass. There is no rollback across files:
// a write failure aborts the run with earlier files left rewritten.
func (p *Pipeline) Run(inputPath, constantsPath string) (*Result, error) {
	files, err := p.crawler.Resolve(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input path: %w", err)
	}
	files = excludeArtifact(files, constantsPath)
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// Collection over every file before any naming happens.
	collected := make([]collector.FileLiterals, 0, len(files))
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}
		tree, err := p.parser.Parse(source)
		if err != nil {
			return nil, err
		}
		collected = append(collected, p.collector.Collect(tree, source, file))
	}

	// Safe occurrences across the whole run enter the table first, so a
	// Manual fragment can never shadow a Safe binding of the same text.
	table := symbols.NewTable()
	for _, lits := range collected {
		for _, occ := range lits.Safe {
			table.AddSafe(occ)
		}
	}
	for _, lits := range collected {
		for _, occ := range lits.Manual {
			table.AddManual(occ)
		}
	}
	table.AssignNames(p.synth)

	if err := emitter.WriteFile(constantsPath, table); err != nil {
		return nil, err
	}

	engine := rewrite.NewEngine(p.parser, constantsPath, table.Bindings())
	for _, file := range files {
		if err := engine.RewriteFile(file); err != nil {
			return nil, err
		}
	}

	res := &Result{
		FilesProcessed: len(files),
		ConstantsPath:  constantsPath,
	}
	for _, b := range table.Bindings() {
		if b.Category == symbols.Safe {
			res.SafeBindings++
		} else {
			res.ManualBindings++
		}
	}
	return res, nil
}

// excludeArtifact drops a previously generated constants file from the scan
// set, so running the tool over its own output directory stays stable.
func excludeArtifact(files []string, constantsPath string) []string {
	target := filepath.Clean(constantsPath)
	out := files[:0]
	for _, f := range files {
		if filepath.Clean(f) != target {
			out = append(out, f)
		}
	}
	return out
}
