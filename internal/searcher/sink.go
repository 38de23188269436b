package searcher

import "github.com/dl/grepcore/internal/matcher"

// ContextKind says why a non-matching line is reported.
type ContextKind int

const (
	ContextBefore ContextKind = iota
	ContextAfter
	ContextOther // passthru
)

func (k ContextKind) String() string {
	switch k {
	case ContextBefore:
		return "before"
	case ContextAfter:
		return "after"
	}
	return "other"
}

// SinkMatch describes one or more contiguous matching lines.
// It is only valid for the duration of the Matched call.
type SinkMatch struct {
	// Bytes holds the whole matching line(s), terminators included.
	Bytes []byte
	// AbsoluteByteOffset is the offset of Bytes[0] in the input, or -1 when
	// byte offsets are disabled.
	AbsoluteByteOffset int64
	// LineNumber is the 1-based number of the first line, or 0 when line
	// numbers are disabled.
	LineNumber uint64
	// Submatches are matcher spans relative to Bytes. Empty for inverted
	// searches.
	Submatches []matcher.Match
}

// SinkContext describes a single context line.
// It is only valid for the duration of the Context call.
type SinkContext struct {
	Bytes              []byte
	Kind               ContextKind
	AbsoluteByteOffset int64
	LineNumber         uint64
}

// SinkFinish summarizes a completed search.
type SinkFinish struct {
	// ByteCount is the number of input bytes searched.
	ByteCount int64
	// BinaryByteOffset is the offset of the first binary indicator byte, or
	// -1 when none was seen.
	BinaryByteOffset int64
	// BinaryAbort is set when the search stopped early because of binary data.
	BinaryAbort bool
}

// Sink receives the events of one search run in input order.
//
// Returning false from any method except Finish stops the search; Finish is
// still called. Returning an error aborts the search and the error is
// returned from Search without calling Finish.
type Sink interface {
	Begin(s *Searcher, input string) (bool, error)
	Matched(s *Searcher, m *SinkMatch) (bool, error)
	Context(s *Searcher, c *SinkContext) (bool, error)
	ContextBreak(s *Searcher) (bool, error)
	BinaryData(s *Searcher, offset int64) (bool, error)
	Finish(s *Searcher, f *SinkFinish) error
}

// NopSink implements every Sink method as a no-op that keeps searching.
// Embed it to implement only the events you care about.
type NopSink struct{}

func (NopSink) Begin(*Searcher, string) (bool, error) { return true, nil }
func (NopSink) Matched(*Searcher, *SinkMatch) (bool, error) { return true, nil }
func (NopSink) Context(*Searcher, *SinkContext) (bool, error) { return true, nil }
func (NopSink) ContextBreak(*Searcher) (bool, error) { return true, nil }
func (NopSink) BinaryData(*Searcher, int64) (bool, error) { return true, nil }
func (NopSink) Finish(*Searcher, *SinkFinish) error { return nil }

// SinkFuncs adapts plain functions to a Sink. Nil fields behave like NopSink.
type SinkFuncs struct {
	OnMatched func(*SinkMatch) (bool, error)
	OnContext func(*SinkContext) (bool, error)
	OnFinish  func(*SinkFinish) error
}

func (f SinkFuncs) Begin(*Searcher, string) (bool, error) { return true, nil }
func (f SinkFuncs) ContextBreak(*Searcher) (bool, error) { return true, nil }
func (f SinkFuncs) BinaryData(*Searcher, int64) (bool, error) { return true, nil }

func (f SinkFuncs) Matched(_ *Searcher, m *SinkMatch) (bool, error) {
	if f.OnMatched == nil {
		return true, nil
	}
	return f.OnMatched(m)
}

func (f SinkFuncs) Context(_ *Searcher, c *SinkContext) (bool, error) {
	if f.OnContext == nil {
		return true, nil
	}
	return f.OnContext(c)
}

func (f SinkFuncs) Finish(_ *Searcher, fin *SinkFinish) error {
	if f.OnFinish == nil {
		return nil
	}
	return f.OnFinish(fin)
}
