package matcher

import (
	"bytes"
	"regexp"
	"regexp/syntax"
)

// RegexMatcher uses Go's RE2 regexp engine.
//
// Patterns are compiled in multi-line mode so ^ and $ anchor at line
// boundaries, which is what a line-oriented search expects.
type RegexMatcher struct {
	re *regexp.Regexp

	// prefilter is a literal every match must contain. When it is absent
	// from the remaining haystack the regex is never run.
	prefilter     []byte
	prefilterFold bool

	// lineContext is set when the pattern contains ^ or word boundary
	// assertions, whose result depends on the byte before the search start.
	lineContext bool
}

// NewRegexMatcher creates a RegexMatcher for the given pattern.
func NewRegexMatcher(pattern string, ignoreCase bool) (*RegexMatcher, error) {
	flags := "(?m)"
	if ignoreCase {
		flags = "(?mi)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return nil, err
	}
	m := &RegexMatcher{re: re}
	if lit, ok := extractLiteral(pattern, ignoreCase); ok {
		m.prefilter = []byte(lit.literal)
		m.prefilterFold = lit.ignoreCase
	}
	// Parsed without OneLine so ^ is a line anchor, as in the compiled form.
	if parsed, err := syntax.Parse(pattern, syntax.Perl&^syntax.OneLine); err == nil {
		m.lineContext = hasContextAssertion(parsed)
	}
	return m, nil
}

// String returns the compiled expression.
func (m *RegexMatcher) String() string { return m.re.String() }

func (m *RegexMatcher) FindAt(haystack []byte, at int) (Match, bool) {
	if at > len(haystack) {
		return Match{}, false
	}
	if len(m.prefilter) > 0 && !m.mayMatch(haystack[at:]) {
		return Match{}, false
	}
	if m.lineContext && at > 0 && haystack[at-1] != '\n' {
		return m.findFromLineStart(haystack, at)
	}
	loc := m.re.FindSubmatchIndex(haystack[at:])
	if loc == nil {
		return Match{}, false
	}
	return locToMatch(loc).Offset(at), true
}

func (m *RegexMatcher) mayMatch(data []byte) bool {
	if m.prefilterFold {
		return indexFold(data, m.prefilter) >= 0
	}
	return bytes.Contains(data, m.prefilter)
}

// findFromLineStart restarts the search at the beginning of the line that
// contains at, so ^ and \b see the real preceding byte, and returns the first
// match at or after at.
func (m *RegexMatcher) findFromLineStart(haystack []byte, at int) (Match, bool) {
	return findAfter(m.re.FindAllSubmatchIndex, haystack, at)
}

// findAfter runs findAll from the start of the line containing at and returns
// the first match that begins at or after at. The result limit doubles until
// such a match is found or the engine runs out of matches.
func findAfter(findAll func([]byte, int) [][]int, haystack []byte, at int) (Match, bool) {
	ls := bytes.LastIndexByte(haystack[:at], '\n') + 1
	for n := 4; ; n *= 2 {
		locs := findAll(haystack[ls:], n)
		for _, loc := range locs {
			if loc[0]+ls >= at {
				return locToMatch(loc).Offset(ls), true
			}
		}
		if len(locs) < n {
			return Match{}, false
		}
	}
}

func locToMatch(loc []int) Match {
	return Match{
		Span:     Span{Start: loc[0], End: loc[1]},
		Captures: toCaptures(loc),
	}
}

// hasContextAssertion reports whether the expression contains an assertion
// that inspects the byte before the current position.
func hasContextAssertion(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	for _, sub := range re.Sub {
		if hasContextAssertion(sub) {
			return true
		}
	}
	return false
}
