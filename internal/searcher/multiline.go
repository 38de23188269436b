package searcher

import (
	"bytes"
	"io"
	"sort"

	"github.com/dl/grepcore/internal/matcher"
)

// lineIndex maps byte offsets to lines of a fully materialized input.
type lineIndex struct {
	starts []int // start offset of every line, ascending
	size   int
}

func newLineIndex(data []byte, term byte) lineIndex {
	idx := lineIndex{size: len(data)}
	if len(data) == 0 {
		return idx
	}
	n := bytes.Count(data, []byte{term})
	idx.starts = make([]int, 1, n+1)
	for off := 0; ; {
		i := bytes.IndexByte(data[off:], term)
		if i < 0 {
			break
		}
		off += i + 1
		if off >= len(data) {
			break
		}
		idx.starts = append(idx.starts, off)
	}
	return idx
}

func (x lineIndex) count() int { return len(x.starts) }

// lineOf returns the index of the line containing off.
func (x lineIndex) lineOf(off int) int {
	return sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > off }) - 1
}

// span returns the byte range of line i, terminator included.
func (x lineIndex) span(i int) (int, int) {
	if i+1 < len(x.starts) {
		return x.starts[i], x.starts[i+1]
	}
	return x.starts[i], x.size
}

// lineGroup is an inclusive range of line indices reported as one match.
type lineGroup struct {
	first, last int
}

// multiSearch is the multiline path. Matches may span lines; context comes
// straight from the line index.
type multiSearch struct {
	emitter
	data []byte
	idx  lineIndex

	next    int // first line not yet reported or skipped
	cursor  int // first line after the last matching group (invert mode)
	scanned int
}

func (s *Searcher) searchMultiline(m matcher.Matcher, in Input, sink Sink) error {
	data, owned, err := s.materialize(in)
	if err != nil {
		return err
	}

	ms := &multiSearch{emitter: newEmitter(s, m, sink)}
	binaryOffset := int64(-1)
	abort := false
	switch b := s.cfg.Binary; b.Mode {
	case BinaryQuit:
		if k := bytes.IndexByte(data, b.Byte); k >= 0 {
			data = data[:k]
			binaryOffset = int64(k)
			abort = true
		}
	case BinaryConvert:
		if k := bytes.IndexByte(data, b.Byte); k >= 0 {
			data = s.convert(data, k, owned)
			binaryOffset = int64(k)
			ok, err := sink.BinaryData(s, binaryOffset)
			if err != nil {
				return err
			}
			if !ok {
				return sink.Finish(s, &SinkFinish{BinaryByteOffset: binaryOffset})
			}
		}
	}
	ms.data = data
	ms.idx = newLineIndex(data, s.cfg.LineTerminator)

	ok, err := ms.run()
	if err != nil {
		return err
	}
	if ok && abort {
		if _, err := sink.BinaryData(s, binaryOffset); err != nil {
			return err
		}
	}
	return sink.Finish(s, &SinkFinish{
		ByteCount:        int64(ms.scanned),
		BinaryByteOffset: binaryOffset,
		BinaryAbort:      ok && abort,
	})
}

// materialize returns the whole input, reading it into the scratch buffer
// when it does not already sit in memory. owned reports whether the result
// is the scratch buffer rather than caller data.
func (s *Searcher) materialize(in Input) (data []byte, owned bool, err error) {
	if in.Reader == nil && !s.needsDecoding(in.Data) {
		if s.cfg.HeapLimit > 0 && int64(len(in.Data)) > s.cfg.HeapLimit {
			return nil, false, &ResourceExceededError{Size: int64(len(in.Data)), Limit: s.cfg.HeapLimit}
		}
		return in.Data, false, nil
	}

	r := s.reader(in)
	buf := s.scratch[:0]
	for {
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
		n, err := r.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		if s.cfg.HeapLimit > 0 && int64(len(buf)) > s.cfg.HeapLimit {
			s.scratch = buf[:0]
			return nil, false, &ResourceExceededError{Size: int64(len(buf)), Limit: s.cfg.HeapLimit}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			s.scratch = buf[:0]
			return nil, false, &ReadError{Input: in.Name, Err: err}
		}
	}
	s.scratch = buf
	return buf, true, nil
}

// convert replaces every binary byte from k on with the line terminator.
// Caller data is copied into the scratch buffer first.
func (s *Searcher) convert(data []byte, k int, owned bool) []byte {
	if !owned {
		s.scratch = append(s.scratch[:0], data...)
		data = s.scratch
	}
	b, term := s.cfg.Binary.Byte, s.cfg.LineTerminator
	for i := k; i < len(data); i++ {
		if data[i] == b {
			data[i] = term
		}
	}
	return data
}

func (ms *multiSearch) run() (bool, error) {
	var (
		pending lineGroup
		has     bool
	)
	term := ms.cfg.LineTerminator
	for pos := 0; pos <= len(ms.data); {
		mat, found := ms.m.FindAt(ms.data, pos)
		if !found {
			break
		}
		if mat.Start >= len(ms.data) && (len(ms.data) == 0 || ms.data[len(ms.data)-1] == term) {
			// Empty match after the final terminator belongs to no line.
			break
		}
		g := lineGroup{first: ms.idx.lineOf(mat.Start)}
		g.last = g.first
		if mat.End > mat.Start {
			g.last = ms.idx.lineOf(mat.End - 1)
		}

		switch {
		case has && g.first <= pending.last:
			pending.last = max(pending.last, g.last)
		default:
			if has {
				if ok, err := ms.handle(pending); !ok || err != nil {
					return ok, err
				}
			}
			pending, has = g, true
		}

		pos = mat.End
		if mat.IsEmpty() {
			pos++
		}
	}
	if has {
		if ok, err := ms.handle(pending); !ok || err != nil {
			return ok, err
		}
	}

	if ms.cfg.InvertMatch {
		if ok, err := ms.inverted(ms.idx.count()); !ok || err != nil {
			return ok, err
		}
	}
	ok, err := ms.trailing(ms.idx.count())
	if ok && err == nil {
		ms.scanned = len(ms.data)
	}
	return ok, err
}

// handle reports a group of matching lines, or in invert mode the lines
// between the previous group and this one.
func (ms *multiSearch) handle(g lineGroup) (bool, error) {
	if ms.cfg.InvertMatch {
		ok, err := ms.inverted(g.first)
		ms.cursor = g.last + 1
		return ok, err
	}
	if ok, err := ms.prepare(g.first); !ok || err != nil {
		return ok, err
	}
	start, _ := ms.idx.span(g.first)
	_, end := ms.idx.span(g.last)
	ms.next = g.last + 1
	ms.scanned = end
	return ms.matched(ms.data[start:end], int64(start), ms.number(g.first), ms.submatches(ms.data, start, end))
}

// inverted reports lines [cursor, upto) as matches.
func (ms *multiSearch) inverted(upto int) (bool, error) {
	for ; ms.cursor < upto; ms.cursor++ {
		if ok, err := ms.prepare(ms.cursor); !ok || err != nil {
			return ok, err
		}
		start, end := ms.idx.span(ms.cursor)
		ms.next = ms.cursor + 1
		ms.scanned = end
		if ok, err := ms.matched(ms.data[start:end], int64(start), ms.number(ms.cursor), nil); !ok || err != nil {
			return ok, err
		}
	}
	return true, nil
}

// prepare reports pending after-context and before-context for a match on
// line u.
func (ms *multiSearch) prepare(u int) (bool, error) {
	if ok, err := ms.trailing(u); !ok || err != nil {
		return ok, err
	}
	for i := max(ms.next, u-ms.cfg.beforeContext()); i < u; i++ {
		if ok, err := ms.contextLine(ContextBefore, i); !ok || err != nil {
			return ok, err
		}
	}
	ms.next = u
	return true, nil
}

// trailing reports after-context (or passthru lines) up to line u.
func (ms *multiSearch) trailing(u int) (bool, error) {
	for ms.next < u {
		kind := ContextAfter
		switch {
		case ms.cfg.Passthru:
			kind = ContextOther
		case ms.afterLeft == 0:
			return true, nil
		default:
			ms.afterLeft--
		}
		if ok, err := ms.contextLine(kind, ms.next); !ok || err != nil {
			ms.next++
			return ok, err
		}
		ms.next++
	}
	return true, nil
}

func (ms *multiSearch) contextLine(kind ContextKind, i int) (bool, error) {
	start, end := ms.idx.span(i)
	ms.scanned = end
	return ms.context(kind, ms.data[start:end], int64(start), ms.number(i))
}

func (ms *multiSearch) number(i int) uint64 {
	if !ms.cfg.LineNumber {
		return 0
	}
	return uint64(i + 1)
}
