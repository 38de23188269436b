package matcher

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool { return s.Start >= s.End }

// Offset shifts both ends of the span by n.
func (s Span) Offset(n int) Span { return Span{Start: s.Start + n, End: s.End + n} }

// unset marks a capture group that did not participate in the match.
var unset = Span{Start: -1, End: -1}

// Match is a single pattern occurrence located by a Matcher.
type Match struct {
	Span
	// Captures holds the spans of capture groups 1..N, in haystack coordinates.
	// Groups that did not participate are {-1, -1}. Nil when the matcher
	// does not report captures.
	Captures []Span
}

// Offset returns a copy of the match with every span shifted by n.
func (m Match) Offset(n int) Match {
	out := Match{Span: m.Span.Offset(n)}
	if len(m.Captures) > 0 {
		out.Captures = make([]Span, len(m.Captures))
		for i, c := range m.Captures {
			if c == unset {
				out.Captures[i] = c
				continue
			}
			out.Captures[i] = c.Offset(n)
		}
	}
	return out
}

// Matcher finds pattern occurrences in a byte slice.
//
// Implementations must be deterministic and must not mutate compiled state
// while searching, so a single Matcher can serve many searches.
type Matcher interface {
	// FindAt returns the leftmost match that starts at or after at.
	// Bytes before at are visible to the matcher for look-behind and
	// anchors but are never part of a reported match.
	FindAt(haystack []byte, at int) (Match, bool)
}

// toCaptures converts a stdlib-style submatch index slice into capture spans,
// skipping group 0.
func toCaptures(loc []int) []Span {
	if len(loc) <= 2 {
		return nil
	}
	caps := make([]Span, 0, len(loc)/2-1)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			caps = append(caps, unset)
			continue
		}
		caps = append(caps, Span{Start: loc[i], End: loc[i+1]})
	}
	return caps
}
