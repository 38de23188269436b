package output

import (
	"strconv"

	"github.com/dl/grepcore/internal/searcher"
)

// SummaryPrinter prints one line per input instead of the matching lines:
// a count, or the path of inputs with (or without) a match. In quiet mode
// it prints nothing and stops each input at its first match.
type SummaryPrinter struct {
	opts Options
	buf  []byte
	cur  progress
	term byte
}

func (p *SummaryPrinter) Begin(s *searcher.Searcher, path string) (bool, error) {
	p.term = s.Config().LineTerminator
	p.cur.begin(path, len(p.buf))
	return true, nil
}

func (p *SummaryPrinter) Matched(_ *searcher.Searcher, m *searcher.SinkMatch) (bool, error) {
	more := p.cur.matched(m, p.term, p.opts.MaxCount)
	switch p.opts.Mode {
	case ModeFilesWithMatches, ModeFilesWithoutMatch, ModeQuiet:
		// One match settles the answer.
		return false, nil
	}
	return more, nil
}

func (p *SummaryPrinter) Context(*searcher.Searcher, *searcher.SinkContext) (bool, error) {
	return true, nil
}

func (p *SummaryPrinter) ContextBreak(*searcher.Searcher) (bool, error) { return true, nil }

func (p *SummaryPrinter) BinaryData(*searcher.Searcher, int64) (bool, error) { return true, nil }

func (p *SummaryPrinter) Finish(_ *searcher.Searcher, f *searcher.SinkFinish) error {
	matched := p.cur.matchedLines > 0
	switch p.opts.Mode {
	case ModeCount, ModeCountMatches:
		// A multiline match covers every line it spans.
		n := p.cur.stats.MatchedLines
		if p.opts.Mode == ModeCountMatches {
			n = p.cur.matches
		}
		if matched {
			p.writePath(':')
			p.buf = strconv.AppendInt(p.buf, n, 10)
			p.buf = append(p.buf, '\n')
		}
	case ModeFilesWithMatches:
		if matched {
			p.writePath(0)
			p.buf = append(p.buf, '\n')
		}
	case ModeFilesWithoutMatch:
		if !matched {
			p.writePath(0)
			p.buf = append(p.buf, '\n')
		}
	}
	p.cur.finish(f, len(p.buf), p.opts.Stats)
	return nil
}

// writePath writes the input's name, followed by sep when sep is non-zero.
// Counts omit the name unless WithPath is set.
func (p *SummaryPrinter) writePath(sep byte) {
	if sep != 0 && !p.opts.WithPath {
		return
	}
	st := p.opts.Styles
	p.buf = st.render(p.buf, st.Path, []byte(p.cur.path))
	if sep != 0 {
		p.buf = st.render(p.buf, st.Separator, []byte{sep})
	}
}

func (p *SummaryPrinter) Take() Result {
	r := Result{Path: p.cur.path, Out: p.buf, Matched: p.cur.matchedLines > 0}
	if p.opts.Mode == ModeFilesWithoutMatch {
		// The exit status follows what was printed.
		r.Matched = !r.Matched
	}
	p.buf = nil
	return r
}
