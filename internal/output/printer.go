// Package output renders search results. Every printer is a searcher.Sink
// that formats one input at a time into memory, so workers can search in
// parallel while an OrderedWriter keeps stdout deterministic.
package output

import (
	"bytes"

	"github.com/dl/grepcore/internal/searcher"
)

// Mode selects what is printed.
type Mode int

const (
	ModeStandard          Mode = iota // matching lines with optional context
	ModeJSON                          // JSON Lines messages
	ModeCount                         // number of matching lines per input
	ModeCountMatches                  // number of individual matches per input
	ModeFilesWithMatches              // paths of inputs with a match
	ModeFilesWithoutMatch             // paths of inputs without a match
	ModeQuiet                         // nothing; only the exit status matters
)

// Options controls rendering.
type Options struct {
	Mode   Mode
	Styles Styles
	// WithPath prefixes every line with the input's name.
	WithPath    bool
	LineNumbers bool
	ByteOffset  bool
	// MaxCount stops searching an input after this many matching lines.
	// Zero means unlimited.
	MaxCount int64
	// MaxColumns replaces longer lines with a placeholder. Zero disables.
	MaxColumns int
	// ContextSeparator is printed between non-contiguous context groups.
	ContextSeparator string
	// Stats, when set, accumulates totals across every printer sharing it.
	Stats *Stats
}

// Printer is a searcher.Sink bound to a single worker.
type Printer interface {
	searcher.Sink
	// Take hands over everything rendered for the last input.
	Take() Result
}

// New returns the printer for opts.Mode.
func New(opts Options) Printer {
	if opts.ContextSeparator == "" {
		opts.ContextSeparator = "--"
	}
	switch opts.Mode {
	case ModeJSON:
		return &JSONPrinter{opts: opts}
	case ModeStandard:
		return &StandardPrinter{opts: opts}
	}
	return &SummaryPrinter{opts: opts}
}

// progress tracks one input on behalf of every printer.
type progress struct {
	path         string
	matchedLines int64
	matches      int64
	printedFrom  int
	stats        InputStats
}

func (p *progress) begin(path string, printed int) {
	*p = progress{path: path, printedFrom: printed}
}

// matched records a match event and reports whether the search may continue.
func (p *progress) matched(m *searcher.SinkMatch, term byte, maxCount int64) bool {
	p.matchedLines++
	p.matches += int64(len(m.Submatches))
	p.stats.MatchedLines += countLines(m.Bytes, term)
	p.stats.Matches += int64(len(m.Submatches))
	return maxCount == 0 || p.matchedLines < maxCount
}

func (p *progress) finish(f *searcher.SinkFinish, printed int, shared *Stats) {
	p.stats.BytesSearched = f.ByteCount
	p.stats.BytesPrinted = int64(printed - p.printedFrom)
	if p.matchedLines > 0 {
		p.stats.SearchesWithMatch = 1
	}
	p.stats.Searches = 1
	shared.Add(p.stats)
}

// countLines counts the lines in a block, including a final unterminated one.
func countLines(b []byte, term byte) int64 {
	n := int64(bytes.Count(b, []byte{term}))
	if len(b) > 0 && b[len(b)-1] != term {
		n++
	}
	return n
}
