package output

import (
	"fmt"
	"sync"
	"time"
)

// InputStats are the counters gathered while searching.
type InputStats struct {
	Searches          int64 `json:"searches"`
	SearchesWithMatch int64 `json:"searches_with_match"`
	BytesSearched     int64 `json:"bytes_searched"`
	BytesPrinted      int64 `json:"bytes_printed"`
	MatchedLines      int64 `json:"matched_lines"`
	Matches           int64 `json:"matches"`
}

func (s *InputStats) add(o InputStats) {
	s.Searches += o.Searches
	s.SearchesWithMatch += o.SearchesWithMatch
	s.BytesSearched += o.BytesSearched
	s.BytesPrinted += o.BytesPrinted
	s.MatchedLines += o.MatchedLines
	s.Matches += o.Matches
}

// Stats aggregates InputStats from concurrent printers. A nil *Stats
// discards everything.
type Stats struct {
	mu    sync.Mutex
	total InputStats
	start time.Time
}

// NewStats starts the clock for the elapsed time.
func NewStats() *Stats {
	return &Stats{start: time.Now()}
}

// Add merges the counters of one input.
func (s *Stats) Add(in InputStats) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.total.add(in)
	s.mu.Unlock()
}

// Total returns the counters gathered so far.
func (s *Stats) Total() InputStats {
	if s == nil {
		return InputStats{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Elapsed returns the time since NewStats.
func (s *Stats) Elapsed() time.Duration {
	if s == nil || s.start.IsZero() {
		return 0
	}
	return time.Since(s.start)
}

// AppendText renders the totals in the human-readable --stats format.
func (s *Stats) AppendText(buf []byte) []byte {
	t := s.Total()
	return fmt.Appendf(buf, "\n%d matches\n%d matched lines\n%d files contained matches\n%d files searched\n%d bytes printed\n%d bytes searched\n%.6f seconds\n",
		t.Matches, t.MatchedLines, t.SearchesWithMatch, t.Searches, t.BytesPrinted, t.BytesSearched, s.Elapsed().Seconds())
}
