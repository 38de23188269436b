package output

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/dl/grepcore/internal/searcher"
)

// JSONPrinter emits one JSON object per line. An input produces a "begin"
// message before its first match, "match" and "context" messages, and an
// "end" message carrying its statistics. Inputs without output produce
// nothing.
type JSONPrinter struct {
	opts  Options
	buf   []byte
	cur   progress
	term  byte
	begun bool
}

// arbitraryData holds text when it is valid UTF-8, raw bytes otherwise.
// Raw bytes are base64 encoded by encoding/json.
type arbitraryData struct {
	Text  *string `json:"text,omitempty"`
	Bytes []byte  `json:"bytes,omitempty"`
}

func newData(b []byte) arbitraryData {
	if utf8.Valid(b) {
		s := string(b)
		return arbitraryData{Text: &s}
	}
	return arbitraryData{Bytes: b}
}

type jsonMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type jsonBegin struct {
	Path arbitraryData `json:"path"`
}

type jsonSubmatch struct {
	Match arbitraryData `json:"match"`
	Start int           `json:"start"`
	End   int           `json:"end"`
}

type jsonLines struct {
	Path           arbitraryData  `json:"path"`
	Lines          arbitraryData  `json:"lines"`
	LineNumber     *uint64        `json:"line_number"`
	AbsoluteOffset *int64         `json:"absolute_offset"`
	Submatches     []jsonSubmatch `json:"submatches"`
}

type jsonEnd struct {
	Path         arbitraryData `json:"path"`
	BinaryOffset *int64        `json:"binary_offset"`
	Stats        InputStats    `json:"stats"`
}

type jsonSummary struct {
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	Stats          InputStats `json:"stats"`
}

func (p *JSONPrinter) Begin(s *searcher.Searcher, path string) (bool, error) {
	p.term = s.Config().LineTerminator
	p.cur.begin(path, len(p.buf))
	p.begun = false
	return true, nil
}

func (p *JSONPrinter) Matched(_ *searcher.Searcher, m *searcher.SinkMatch) (bool, error) {
	subs := make([]jsonSubmatch, 0, len(m.Submatches))
	for _, sm := range m.Submatches {
		subs = append(subs, jsonSubmatch{
			Match: newData(m.Bytes[sm.Start:sm.End]),
			Start: sm.Start,
			End:   sm.End,
		})
	}
	if err := p.lines("match", m.Bytes, m.LineNumber, m.AbsoluteByteOffset, subs); err != nil {
		return false, err
	}
	return p.cur.matched(m, p.term, p.opts.MaxCount), nil
}

func (p *JSONPrinter) Context(_ *searcher.Searcher, c *searcher.SinkContext) (bool, error) {
	return true, p.lines("context", c.Bytes, c.LineNumber, c.AbsoluteByteOffset, []jsonSubmatch{})
}

func (p *JSONPrinter) ContextBreak(*searcher.Searcher) (bool, error) { return true, nil }

func (p *JSONPrinter) BinaryData(*searcher.Searcher, int64) (bool, error) { return true, nil }

func (p *JSONPrinter) Finish(_ *searcher.Searcher, f *searcher.SinkFinish) error {
	if !p.begun {
		p.cur.finish(f, len(p.buf), p.opts.Stats)
		return nil
	}
	end := jsonEnd{Path: newData([]byte(p.cur.path))}
	if f.BinaryByteOffset >= 0 {
		off := f.BinaryByteOffset
		end.BinaryOffset = &off
	}
	// The end message reports bytes printed before it.
	p.cur.finish(f, len(p.buf), nil)
	end.Stats = p.cur.stats
	if err := p.write("end", end); err != nil {
		return err
	}
	p.opts.Stats.Add(p.cur.stats)
	return nil
}

func (p *JSONPrinter) Take() Result {
	r := Result{Path: p.cur.path, Out: p.buf, Matched: p.cur.matchedLines > 0}
	p.buf = nil
	return r
}

func (p *JSONPrinter) lines(kind string, b []byte, number uint64, offset int64, subs []jsonSubmatch) error {
	if !p.begun {
		p.begun = true
		if err := p.write("begin", jsonBegin{Path: newData([]byte(p.cur.path))}); err != nil {
			return err
		}
	}
	msg := jsonLines{
		Path:       newData([]byte(p.cur.path)),
		Lines:      newData(b),
		Submatches: subs,
	}
	if number > 0 {
		msg.LineNumber = &number
	}
	if offset >= 0 {
		msg.AbsoluteOffset = &offset
	}
	return p.write(kind, msg)
}

func (p *JSONPrinter) write(kind string, data any) error {
	out, err := json.Marshal(jsonMessage{Type: kind, Data: data})
	if err != nil {
		return err
	}
	p.buf = append(p.buf, out...)
	p.buf = append(p.buf, '\n')
	return nil
}

// AppendJSONSummary renders the final "summary" message for stats.
func AppendJSONSummary(buf []byte, stats *Stats) ([]byte, error) {
	out, err := json.Marshal(jsonMessage{Type: "summary", Data: jsonSummary{
		ElapsedSeconds: stats.Elapsed().Seconds(),
		Stats:          stats.Total(),
	}})
	if err != nil {
		return buf, err
	}
	buf = append(buf, out...)
	return append(buf, '\n'), nil
}
