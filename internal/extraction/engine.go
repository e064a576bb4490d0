package extraction

import (
	"github.com/a3tai/mcp-findoc-extractor/internal/document"
	"github.com/a3tai/mcp-findoc-extractor/internal/patterns"
)

// Options configure an Engine
type Options struct {
	Tolerances Tolerances
}

// DefaultOptions returns the built-in engine options
func DefaultOptions() Options {
	return Options{Tolerances: DefaultTolerances()}
}

// Engine runs the extraction pipeline for one document at a time. It holds no
// per-document state and is safe for concurrent use.
type Engine struct {
	lib  *patterns.Library
	opts Options
}

// NewEngine creates an engine over a library. A nil library selects the
// built-in one; zero tolerances select the defaults.
func NewEngine(lib *patterns.Library, opts Options) *Engine {
	if lib == nil {
		lib = patterns.Default()
	}
	defaults := DefaultTolerances()
	if opts.Tolerances.Balance <= 0 {
		opts.Tolerances.Balance = defaults.Balance
	}
	if opts.Tolerances.Ratio <= 0 {
		opts.Tolerances.Ratio = defaults.Ratio
	}
	return &Engine{lib: lib, opts: opts}
}

// Library returns the pattern library in use
func (e *Engine) Library() *patterns.Library {
	return e.lib
}

// Tolerances returns the cross-check tolerances in use
func (e *Engine) Tolerances() Tolerances {
	return e.opts.Tolerances
}

// Process normalizes, extracts, parses, cross-validates and assembles. It
// always returns a record; problems are reported as field statuses and
// warnings.
func (e *Engine) Process(doc document.RawDocumentText) *FinancialRecord {
	if doc.IsEmpty() {
		return Assemble(e.lib, ResolveAll(e.lib, nil), nil)
	}
	normalized := document.Normalize(doc)
	candidates := Extract(normalized, e.lib)
	fields := ResolveAll(e.lib, candidates)
	fields, warnings := CrossValidate(e.lib, fields, e.opts.Tolerances)
	return Assemble(e.lib, fields, warnings)
}

// ProcessText runs Process over plain text with full line confidence
func (e *Engine) ProcessText(text string) *FinancialRecord {
	return e.Process(document.FromText(text, 1.0))
}
