package matcher

import "bytes"

// LiteralMatcher finds a single fixed string using the Boyer-Moore-Horspool
// skip table. Case-insensitive matching folds ASCII only.
type LiteralMatcher struct {
	pattern    []byte // lowered when ignoreCase is set
	ignoreCase bool
	skip       [256]int
}

// NewLiteralMatcher creates a LiteralMatcher for a single fixed pattern.
func NewLiteralMatcher(pattern string, ignoreCase bool) *LiteralMatcher {
	p := []byte(pattern)
	if ignoreCase {
		p = bytes.ToLower(p)
	}
	m := &LiteralMatcher{pattern: p, ignoreCase: ignoreCase}
	for i := range m.skip {
		m.skip[i] = len(p)
	}
	for i := 0; i < len(p)-1; i++ {
		m.skip[p[i]] = len(p) - 1 - i
		if ignoreCase {
			m.skip[toUpper(p[i])] = len(p) - 1 - i
		}
	}
	return m
}

func (m *LiteralMatcher) FindAt(haystack []byte, at int) (Match, bool) {
	if at > len(haystack) {
		return Match{}, false
	}
	var i int
	switch {
	case len(m.pattern) == 0:
		i = 0
	case !m.ignoreCase && len(m.pattern) < 4:
		// Short needles: bytes.Index is faster than building skips.
		i = bytes.Index(haystack[at:], m.pattern)
	default:
		i = m.horspool(haystack[at:])
	}
	if i < 0 {
		return Match{}, false
	}
	start := at + i
	return Match{Span: Span{Start: start, End: start + len(m.pattern)}}, true
}

// horspool returns the index of the first occurrence of the pattern in text,
// or -1.
func (m *LiteralMatcher) horspool(text []byte) int {
	n, plen := len(text), len(m.pattern)
	last := plen - 1
	for i := 0; i+plen <= n; {
		c := text[i+last]
		if m.fold(c) == m.pattern[last] && m.equalAt(text[i:i+plen]) {
			return i
		}
		i += m.skip[c]
	}
	return -1
}

func (m *LiteralMatcher) equalAt(window []byte) bool {
	if !m.ignoreCase {
		return bytes.Equal(window, m.pattern)
	}
	return equalFoldASCII(window, m.pattern)
}

func (m *LiteralMatcher) fold(b byte) byte {
	if m.ignoreCase {
		return toLower(b)
	}
	return b
}

// indexFold returns the index of the first ASCII case-insensitive occurrence
// of lowered in data, or -1.
func indexFold(data, lowered []byte) int {
	if len(lowered) == 0 {
		return 0
	}
	first := lowered[0]
	upper := toUpper(first)
	for i := 0; i+len(lowered) <= len(data); i++ {
		c := data[i]
		if c != first && c != upper {
			continue
		}
		if equalFoldASCII(data[i:i+len(lowered)], lowered) {
			return i
		}
	}
	return -1
}

// equalFoldASCII compares data against an already lowered pattern.
func equalFoldASCII(data, lowered []byte) bool {
	if len(data) != len(lowered) {
		return false
	}
	for i := range data {
		if toLower(data[i]) != lowered[i] {
			return false
		}
	}
	return true
}

// toLower converts an ASCII byte to lowercase.
func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
