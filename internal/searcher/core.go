package searcher

import (
	"bytes"
	"errors"
	"io"

	"github.com/dl/grepcore/internal/matcher"
)

// emitter holds the sink-facing state shared by the line-oriented and
// multiline paths: context-break tracking and after-context bookkeeping.
type emitter struct {
	s    *Searcher
	sink Sink
	cfg  *Config
	m    matcher.Matcher

	lastEmitted int64 // absolute end of the last reported line, -1 before the first
	afterLeft   int

	match SinkMatch
	ctx   SinkContext
	subs  []matcher.Match
}

func newEmitter(s *Searcher, m matcher.Matcher, sink Sink) emitter {
	return emitter{s: s, sink: sink, cfg: &s.cfg, m: m, lastEmitted: -1}
}

// contextBreak reports a break when a line starting at start does not touch
// the last reported line. Groups that are contiguous or overlap are merged.
func (e *emitter) contextBreak(start int64) (bool, error) {
	if !e.cfg.anyContext() || e.lastEmitted < 0 || start <= e.lastEmitted {
		return true, nil
	}
	return e.sink.ContextBreak(e.s)
}

func (e *emitter) matched(line []byte, start int64, number uint64, subs []matcher.Match) (bool, error) {
	if ok, err := e.contextBreak(start); !ok || err != nil {
		return ok, err
	}
	e.lastEmitted = start + int64(len(line))
	e.afterLeft = e.cfg.afterContext()
	e.match = SinkMatch{
		Bytes:              line,
		AbsoluteByteOffset: e.offset(start),
		LineNumber:         number,
		Submatches:         subs,
	}
	return e.sink.Matched(e.s, &e.match)
}

func (e *emitter) context(kind ContextKind, line []byte, start int64, number uint64) (bool, error) {
	if ok, err := e.contextBreak(start); !ok || err != nil {
		return ok, err
	}
	e.lastEmitted = start + int64(len(line))
	e.ctx = SinkContext{
		Bytes:              line,
		Kind:               kind,
		AbsoluteByteOffset: e.offset(start),
		LineNumber:         number,
	}
	return e.sink.Context(e.s, &e.ctx)
}

func (e *emitter) offset(abs int64) int64 {
	if !e.cfg.ByteOffset {
		return -1
	}
	return abs
}

// submatches collects every match inside hay[start:end], relative to start.
// Matches that begin on the line terminator are dropped, except an empty
// match on an empty line. Outside multiline mode the line is searched on its
// own, without its terminator.
func (e *emitter) submatches(hay []byte, start, end int) []matcher.Match {
	e.subs = e.subs[:0]
	if e.cfg.InvertMatch {
		return e.subs
	}
	if e.cfg.MultiLine {
		hay = hay[:end]
	} else {
		hay = lineContent(hay[start:end], e.cfg)
		start, end = 0, len(hay)
	}
	trimmed := start + trimTerminator(hay[start:], e.cfg.LineTerminator, false)
	for at := start; at <= end; {
		m, ok := e.m.FindAt(hay, at)
		if !ok {
			break
		}
		if m.Start >= trimmed && !(m.IsEmpty() && m.Start == start) {
			break
		}
		e.subs = append(e.subs, m.Offset(-start))
		at = m.End
		if m.IsEmpty() {
			at++
		}
	}
	return e.subs
}

// lineSearch is the line-oriented path over a LineBuffer.
//
// All positions kept across refills are absolute input offsets; buf and base
// describe the current window.
type lineSearch struct {
	emitter
	lb   *LineBuffer
	r    io.Reader
	name string
	term byte

	buf     []byte
	base    int64
	started bool

	pos     int64 // next search position
	visited int64 // every line before this offset was reported or remembered

	counted    int64  // terminators before this offset are counted
	lineNumber uint64 // number of the line that starts at counted

	window contextWindow
}

func (s *Searcher) searchLines(m matcher.Matcher, name string, r io.Reader, sink Sink) error {
	s.lb.Reset()
	ls := &lineSearch{
		emitter:    newEmitter(s, m, sink),
		lb:         s.lb,
		r:          r,
		name:       name,
		term:       s.cfg.LineTerminator,
		lineNumber: 1,
		window:     newContextWindow(s.cfg.beforeContext()),
	}
	return ls.run()
}

func (ls *lineSearch) run() error {
	binaryReported := false
	for {
		more, err := ls.fill()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		offset := ls.lb.BinaryOffset()
		if ls.cfg.Binary.Mode == BinaryConvert && offset >= 0 && !binaryReported {
			binaryReported = true
			ok, err := ls.sink.BinaryData(ls.s, offset)
			if err != nil {
				return err
			}
			if !ok {
				return ls.finish(false)
			}
		}

		ok, err := ls.searchWindow()
		if err != nil {
			return err
		}
		if !ok {
			return ls.finish(false)
		}

		if ls.cfg.Binary.Mode == BinaryQuit && offset >= 0 {
			if _, err := ls.sink.BinaryData(ls.s, offset); err != nil {
				return err
			}
			return ls.finish(true)
		}
	}
	return ls.finish(false)
}

func (ls *lineSearch) finish(binaryAbort bool) error {
	return ls.sink.Finish(ls.s, &SinkFinish{
		ByteCount:        ls.pos,
		BinaryByteOffset: ls.lb.BinaryOffset(),
		BinaryAbort:      binaryAbort,
	})
}

// fill consumes everything the previous window no longer needs and reads
// the next window.
func (ls *lineSearch) fill() (bool, error) {
	if ls.started {
		ls.lb.Consume(ls.roll())
	}
	ls.started = true

	more, err := ls.lb.Fill(ls.r)
	if err != nil {
		if errors.Is(err, ErrLineTooLong) {
			return false, err
		}
		return false, &ReadError{Input: ls.name, Err: err}
	}
	ls.buf = ls.lb.Buffer()
	ls.base = ls.lb.AbsoluteOffset()
	return more, nil
}

// roll remembers the trailing lines of the window for before-context and
// returns how many leading bytes can be dropped.
func (ls *lineSearch) roll() int {
	ls.remember(len(ls.buf))
	consumed := len(ls.buf)
	if ls.window.len() > 0 {
		consumed = int(ls.window.at(0).start - ls.base)
	}
	ls.countTo(ls.base + int64(consumed))
	return consumed
}

func (ls *lineSearch) searchWindow() (bool, error) {
	var (
		ok  bool
		err error
	)
	if ls.cfg.InvertMatch {
		ok, err = ls.searchInverted()
	} else {
		ok, err = ls.searchMatches()
	}
	if !ok || err != nil {
		return ok, err
	}

	if ls.cfg.Passthru {
		ok, err = ls.passthru(len(ls.buf))
	} else {
		ok, err = ls.afterContext(len(ls.buf))
	}
	ls.pos = ls.base + int64(len(ls.buf))
	return ok, err
}

func (ls *lineSearch) searchMatches() (bool, error) {
	for {
		line, found := ls.findLine(int(ls.pos - ls.base))
		if !found {
			return true, nil
		}
		if ok, err := ls.prepare(line.Start); !ok || err != nil {
			return ok, err
		}
		ok, err := ls.sinkMatched(line.Start, line.End)
		ls.pos = ls.base + int64(line.End)
		if !ok || err != nil {
			return ok, err
		}
	}
}

// searchInverted reports every line between matching lines.
func (ls *lineSearch) searchInverted() (bool, error) {
	for {
		pos := int(ls.pos - ls.base)
		if pos >= len(ls.buf) {
			return true, nil
		}
		end := len(ls.buf)
		next := matcher.Span{Start: -1}
		if line, found := ls.findLine(pos); found {
			end, next = line.Start, line
		}
		if end > pos {
			if ok, err := ls.prepare(pos); !ok || err != nil {
				return ok, err
			}
			for start := pos; start < end; {
				lineEnd := nextLine(ls.buf, ls.term, start, end)
				ok, err := ls.sinkMatched(start, lineEnd)
				ls.pos = ls.base + int64(lineEnd)
				if !ok || err != nil {
					return ok, err
				}
				start = lineEnd
			}
		}
		if next.Start < 0 {
			ls.pos = ls.base + int64(len(ls.buf))
			return true, nil
		}
		ls.pos = ls.base + int64(next.End)
	}
}

// findLine returns the first line at or after pos, a line boundary, that
// matches on its own. No match ever covers a line terminator, so the result
// does not depend on where a window ends.
//
// With a plain '\n' terminator the whole window is searched for a candidate
// first: a line that matches alone also matches at the same offset in the
// window, so lines before the candidate cannot match. Other terminators are
// invisible to the regex anchors and every line is tried in turn.
func (ls *lineSearch) findLine(pos int) (matcher.Span, bool) {
	scan := ls.term == '\n' && !ls.cfg.CRLF
	for pos < len(ls.buf) {
		if !scan {
			end := nextLine(ls.buf, ls.term, pos, len(ls.buf))
			if ls.lineMatches(pos, end) {
				return matcher.Span{Start: pos, End: end}, true
			}
			pos = end
			continue
		}
		mat, found := ls.m.FindAt(ls.buf, pos)
		if !found {
			return matcher.Span{}, false
		}
		line := locate(ls.buf, ls.term, matcher.Span{Start: mat.Start, End: mat.Start})
		if line.Start >= len(ls.buf) {
			return matcher.Span{}, false
		}
		if ls.lineMatches(line.Start, line.End) {
			return line, true
		}
		pos = line.End
	}
	return matcher.Span{}, false
}

func (ls *lineSearch) lineMatches(start, end int) bool {
	_, ok := ls.m.FindAt(lineContent(ls.buf[start:end], ls.cfg), 0)
	return ok
}

func (ls *lineSearch) sinkMatched(start, end int) (bool, error) {
	abs := ls.base + int64(start)
	number := ls.lineNumberAt(abs)
	subs := ls.submatches(ls.buf, start, end)
	ls.visited = ls.base + int64(end)
	return ls.matched(ls.buf[start:end], abs, number, subs)
}

// prepare reports everything owed before a match that starts at upto:
// pending after-context, then before-context (or passthru lines).
func (ls *lineSearch) prepare(upto int) (bool, error) {
	if ls.cfg.Passthru {
		return ls.passthru(upto)
	}
	if ok, err := ls.afterContext(upto); !ok || err != nil {
		return ok, err
	}
	ls.remember(upto)
	return ls.beforeContext()
}

func (ls *lineSearch) afterContext(upto int) (bool, error) {
	for ls.afterLeft > 0 {
		start := int(ls.visited - ls.base)
		if start >= upto {
			break
		}
		end := nextLine(ls.buf, ls.term, start, upto)
		abs := ls.base + int64(start)
		ok, err := ls.context(ContextAfter, ls.buf[start:end], abs, ls.lineNumberAt(abs))
		ls.visited = ls.base + int64(end)
		ls.afterLeft--
		if !ok || err != nil {
			return ok, err
		}
	}
	return true, nil
}

// remember pushes the lines in [visited, upto) that could still become
// before-context into the context window.
func (ls *lineSearch) remember(upto int) {
	from := int(ls.visited - ls.base)
	if from >= upto {
		return
	}
	if n := ls.cfg.beforeContext(); n > 0 {
		for start := preceding(ls.buf, ls.term, from, upto, n); start < upto; {
			end := nextLine(ls.buf, ls.term, start, upto)
			abs := ls.base + int64(start)
			ls.window.push(lineRecord{
				start:  abs,
				end:    ls.base + int64(end),
				number: ls.lineNumberAt(abs),
			})
			start = end
		}
	}
	ls.visited = ls.base + int64(upto)
}

func (ls *lineSearch) beforeContext() (bool, error) {
	defer ls.window.clear()
	for i, n := 0, ls.window.len(); i < n; i++ {
		rec := ls.window.at(i)
		line := ls.buf[rec.start-ls.base : rec.end-ls.base]
		if ok, err := ls.context(ContextBefore, line, rec.start, rec.number); !ok || err != nil {
			return ok, err
		}
	}
	return true, nil
}

func (ls *lineSearch) passthru(upto int) (bool, error) {
	for {
		start := int(ls.visited - ls.base)
		if start >= upto {
			return true, nil
		}
		end := nextLine(ls.buf, ls.term, start, upto)
		abs := ls.base + int64(start)
		ok, err := ls.context(ContextOther, ls.buf[start:end], abs, ls.lineNumberAt(abs))
		ls.visited = ls.base + int64(end)
		if !ok || err != nil {
			return ok, err
		}
	}
}

// lineNumberAt returns the number of the line starting at abs. Calls must be
// made with non-decreasing offsets.
func (ls *lineSearch) lineNumberAt(abs int64) uint64 {
	if !ls.cfg.LineNumber {
		return 0
	}
	ls.countTo(abs)
	return ls.lineNumber
}

func (ls *lineSearch) countTo(abs int64) {
	if !ls.cfg.LineNumber || abs <= ls.counted {
		return
	}
	region := ls.buf[ls.counted-ls.base : abs-ls.base]
	ls.lineNumber += uint64(bytes.Count(region, []byte{ls.term}))
	ls.counted = abs
}
