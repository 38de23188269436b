package searcher

import (
	"bytes"

	"github.com/dl/grepcore/internal/matcher"
)

// locate expands span to the start and end of the lines that contain it.
// The end includes the terminator of the last line when present.
func locate(buf []byte, term byte, span matcher.Span) matcher.Span {
	start := bytes.LastIndexByte(buf[:span.Start], term) + 1
	var end int
	switch {
	case span.End > span.Start && buf[span.End-1] == term:
		end = span.End
	case span.End >= len(buf):
		end = len(buf)
	default:
		if i := bytes.IndexByte(buf[span.End:], term); i >= 0 {
			end = span.End + i + 1
		} else {
			end = len(buf)
		}
	}
	return matcher.Span{Start: start, End: end}
}

// nextLine returns the end of the line starting at start, bounded by limit.
func nextLine(buf []byte, term byte, start, limit int) int {
	if i := bytes.IndexByte(buf[start:limit], term); i >= 0 {
		return start + i + 1
	}
	return limit
}

// preceding returns the start of the n-th line before upto, never going below
// lo. Both lo and upto must be line boundaries.
func preceding(buf []byte, term byte, lo, upto, n int) int {
	pos := upto
	for ; n > 0 && pos > lo; n-- {
		i := bytes.LastIndexByte(buf[lo:pos-1], term)
		if i < 0 {
			return lo
		}
		pos = lo + i + 1
	}
	return pos
}

// trimTerminator returns the length of line without its terminator and, when
// crlf is set, a preceding carriage return.
func trimTerminator(line []byte, term byte, crlf bool) int {
	n := len(line)
	if n > 0 && line[n-1] == term {
		n--
		if crlf && term == '\n' && n > 0 && line[n-1] == '\r' {
			n--
		}
	}
	return n
}

// lineContent returns line without its terminator, as seen by the matcher
// outside multiline mode.
func lineContent(line []byte, cfg *Config) []byte {
	return line[:trimTerminator(line, cfg.LineTerminator, cfg.CRLF)]
}

// lineRecord is a line remembered for before-context.
type lineRecord struct {
	start, end int64 // absolute offsets
	number     uint64
}

// contextWindow is a fixed-size ring of the most recent unreported lines.
// Pushing into a full window evicts the oldest record.
type contextWindow struct {
	recs []lineRecord
	head int // index of the oldest record
	n    int
}

func newContextWindow(size int) contextWindow {
	return contextWindow{recs: make([]lineRecord, size)}
}

func (w *contextWindow) push(r lineRecord) {
	if len(w.recs) == 0 {
		return
	}
	if w.n < len(w.recs) {
		w.recs[(w.head+w.n)%len(w.recs)] = r
		w.n++
		return
	}
	w.recs[w.head] = r
	w.head = (w.head + 1) % len(w.recs)
}

func (w *contextWindow) len() int { return w.n }

// at returns the i-th record, oldest first.
func (w *contextWindow) at(i int) lineRecord {
	return w.recs[(w.head+i)%len(w.recs)]
}

func (w *contextWindow) clear() {
	w.head, w.n = 0, 0
}
