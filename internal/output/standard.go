package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dl/grepcore/internal/matcher"
	"github.com/dl/grepcore/internal/searcher"
)

// StandardPrinter renders matching and context lines in grep format:
//
//	path:12:matching line
//	path-13-context line
//	--
type StandardPrinter struct {
	opts Options
	buf  []byte
	cur  progress
	term byte
	crlf bool
}

func (p *StandardPrinter) Begin(s *searcher.Searcher, path string) (bool, error) {
	cfg := s.Config()
	p.term, p.crlf = cfg.LineTerminator, cfg.CRLF
	p.cur.begin(path, len(p.buf))
	return true, nil
}

func (p *StandardPrinter) Matched(_ *searcher.Searcher, m *searcher.SinkMatch) (bool, error) {
	p.writeBlock(':', m.Bytes, m.LineNumber, m.AbsoluteByteOffset, m.Submatches)
	return p.cur.matched(m, p.term, p.opts.MaxCount), nil
}

func (p *StandardPrinter) Context(_ *searcher.Searcher, c *searcher.SinkContext) (bool, error) {
	p.writeBlock('-', c.Bytes, c.LineNumber, c.AbsoluteByteOffset, nil)
	return true, nil
}

func (p *StandardPrinter) ContextBreak(*searcher.Searcher) (bool, error) {
	p.buf = p.opts.Styles.render(p.buf, p.opts.Styles.Separator, []byte(p.opts.ContextSeparator))
	p.buf = append(p.buf, '\n')
	return true, nil
}

func (p *StandardPrinter) BinaryData(*searcher.Searcher, int64) (bool, error) {
	return true, nil
}

func (p *StandardPrinter) Finish(s *searcher.Searcher, f *searcher.SinkFinish) error {
	if f.BinaryAbort && p.cur.matchedLines > 0 {
		p.buf = fmt.Appendf(p.buf, "%s: binary file matches (found %s byte around offset %d)\n",
			p.cur.path, quoteByte(s.Config().Binary.Byte), f.BinaryByteOffset)
	}
	p.cur.finish(f, len(p.buf), p.opts.Stats)
	return nil
}

func (p *StandardPrinter) Take() Result {
	r := Result{Path: p.cur.path, Out: p.buf, Matched: p.cur.matchedLines > 0}
	p.buf = nil
	return r
}

// writeBlock prints every line of block. Submatch spans are relative to
// the block and are split across the lines they cover.
func (p *StandardPrinter) writeBlock(sep byte, block []byte, number uint64, offset int64, subs []matcher.Match) {
	for start := 0; start < len(block); {
		end := len(block)
		if i := bytes.IndexByte(block[start:], p.term); i >= 0 {
			end = start + i + 1
		}
		lineOffset := offset
		if offset >= 0 {
			lineOffset += int64(start)
		}
		p.writePrefix(sep, number, lineOffset)
		p.writeLine(sep, block[start:end], start, subs)
		if number > 0 {
			number++
		}
		start = end
	}
}

func (p *StandardPrinter) writePrefix(sep byte, number uint64, offset int64) {
	st := p.opts.Styles
	sepText := []byte{sep}
	if p.opts.WithPath {
		p.buf = st.render(p.buf, st.Path, []byte(p.cur.path))
		p.buf = st.render(p.buf, st.Separator, sepText)
	}
	if p.opts.LineNumbers && number > 0 {
		p.buf = st.render(p.buf, st.LineNum, strconv.AppendUint(nil, number, 10))
		p.buf = st.render(p.buf, st.Separator, sepText)
	}
	if p.opts.ByteOffset && offset >= 0 {
		p.buf = st.render(p.buf, st.Offset, strconv.AppendInt(nil, offset, 10))
		p.buf = st.render(p.buf, st.Separator, sepText)
	}
}

// writeLine prints one line without its terminator and ends it with the
// configured one. base is the line's offset inside its block.
func (p *StandardPrinter) writeLine(sep byte, line []byte, base int, subs []matcher.Match) {
	content := line
	if n := len(content); n > 0 && content[n-1] == p.term {
		content = content[:n-1]
	}
	if p.opts.MaxColumns > 0 && len(content) > p.opts.MaxColumns {
		if sep == ':' {
			p.buf = fmt.Appendf(p.buf, "[Omitted long line with %d matches]", len(subs))
		} else {
			p.buf = append(p.buf, "[Omitted long context line]"...)
		}
		p.buf = append(p.buf, p.term)
		return
	}
	if p.opts.Styles.Enabled() && len(subs) > 0 {
		p.buf = p.highlight(p.buf, content, base, subs)
	} else {
		p.buf = append(p.buf, content...)
	}
	p.buf = append(p.buf, p.term)
}

// highlight styles the parts of content covered by subs.
func (p *StandardPrinter) highlight(buf, content []byte, base int, subs []matcher.Match) []byte {
	st := p.opts.Styles
	visible := len(content)
	if p.crlf && visible > 0 && content[visible-1] == '\r' {
		visible--
	}
	prev := 0
	for _, m := range subs {
		start, end := m.Start-base, m.End-base
		if end <= 0 || start >= visible {
			continue
		}
		start, end = max(start, prev), min(end, visible)
		if start >= end {
			continue
		}
		buf = append(buf, content[prev:start]...)
		buf = st.render(buf, st.Match, content[start:end])
		prev = end
	}
	return append(buf, content[prev:]...)
}

func quoteByte(b byte) string {
	if b == 0 {
		return `"\0"`
	}
	return strconv.QuoteToASCII(string(rune(b)))
}
