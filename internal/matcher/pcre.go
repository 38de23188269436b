package matcher

import (
	"sync"

	"go.elara.ws/pcre"
)

// PCREMatcher matches using PCRE2-compatible regexes via the pure Go pcre package.
// Supports lookahead, lookbehind, backreferences, atomic groups, and all PCRE2 features.
type PCREMatcher struct {
	mu sync.Mutex
	re *pcre.Regexp
}

// NewPCREMatcher creates a PCREMatcher from a PCRE2 pattern string.
func NewPCREMatcher(pattern string, ignoreCase bool) (*PCREMatcher, error) {
	var opts pcre.CompileOption
	if ignoreCase {
		opts |= pcre.Caseless
	}

	re, err := pcre.CompileOpts("(?m)"+pattern, opts)
	if err != nil {
		return nil, err
	}
	return &PCREMatcher{re: re}, nil
}

func (m *PCREMatcher) FindAt(haystack []byte, at int) (Match, bool) {
	if at > len(haystack) {
		return Match{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Look-behind may inspect anything on the current line.
	if at > 0 && haystack[at-1] != '\n' {
		return findAfter(m.re.FindAllSubmatchIndex, haystack, at)
	}
	loc := m.re.FindSubmatchIndex(haystack[at:])
	if loc == nil {
		return Match{}, false
	}
	return locToMatch(loc).Offset(at), true
}

// Close releases the compiled PCRE regex resources.
func (m *PCREMatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.re != nil {
		m.re.Close()
		m.re = nil
	}
	return nil
}
