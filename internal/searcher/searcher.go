// Package searcher finds the lines of an input that match a pattern and
// reports them, together with context lines, to a Sink.
//
// A Searcher runs one input at a time. The line-oriented path streams the
// input through a bounded LineBuffer; the multiline path materializes the
// whole input so matches may cross line terminators.
package searcher

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/dl/grepcore/internal/matcher"
)

// Input is one thing to search. Reader is used when set, otherwise Data.
type Input struct {
	Name   string
	Reader io.Reader
	Data   []byte
}

// Searcher executes searches. It keeps reusable buffers between runs and is
// not safe for concurrent use; give each goroutine its own.
type Searcher struct {
	cfg     Config
	enc     encoding.Encoding // nil for auto, none and UTF-8
	lb      *LineBuffer
	scratch []byte
}

// New creates a Searcher for cfg.
func New(cfg Config) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BufferCapacity == 0 {
		cfg.BufferCapacity = DefaultBufferCapacity
	}
	s := &Searcher{cfg: cfg, lb: NewLineBuffer(cfg)}
	if cfg.Encoding != EncodingAuto && cfg.Encoding != EncodingNone {
		enc, err := htmlindex.Get(cfg.Encoding)
		if err != nil {
			return nil, err
		}
		if enc != unicode.UTF8 {
			s.enc = enc
		}
	}
	return s, nil
}

// Config returns the searcher's configuration.
func (s *Searcher) Config() Config { return s.cfg }

// Search runs m over in and reports results to sink. Errors returned by the
// sink, read failures, LineTooLongError and ResourceExceededError abort the
// search and are returned; Finish is not called in that case.
func (s *Searcher) Search(m matcher.Matcher, in Input, sink Sink) error {
	ok, err := sink.Begin(s, in.Name)
	if err != nil {
		return err
	}
	if !ok {
		return sink.Finish(s, &SinkFinish{BinaryByteOffset: -1})
	}
	if s.cfg.MultiLine {
		return s.searchMultiline(m, in, sink)
	}
	return s.searchLines(m, in.Name, s.reader(in), sink)
}

// SearchReader searches everything read from r.
func (s *Searcher) SearchReader(m matcher.Matcher, name string, r io.Reader, sink Sink) error {
	return s.Search(m, Input{Name: name, Reader: r}, sink)
}

// SearchSlice searches data. data is never modified.
func (s *Searcher) SearchSlice(m matcher.Matcher, name string, data []byte, sink Sink) error {
	return s.Search(m, Input{Name: name, Data: data}, sink)
}

// reader returns the input as a stream of decoded bytes.
func (s *Searcher) reader(in Input) io.Reader {
	if in.Reader == nil {
		r := bytes.NewReader(in.Data)
		if !s.needsDecoding(in.Data) {
			return r
		}
		return s.decode(r)
	}
	return s.decode(in.Reader)
}
