package matcher

import (
	"bytes"

	"github.com/cloudflare/ahocorasick"
)

// acNode is a node in the Aho-Corasick automaton.
type acNode struct {
	children [256]*acNode
	fail     *acNode
	output   []int // indices of patterns that match at this node
}

// MultiLiteralMatcher matches several fixed patterns and reports the
// leftmost occurrence, preferring the longest pattern at that position.
//
// A cloudflare automaton answers "does anything match here at all" before the
// position-tracking automaton below walks the bytes.
type MultiLiteralMatcher struct {
	root       *acNode
	patterns   [][]byte // lowered when ignoreCase is set
	ignoreCase bool
	maxLen     int
	hasEmpty   bool

	// prefilter is nil when case folding is enabled, since the cloudflare
	// automaton compares bytes exactly.
	prefilter *ahocorasick.Matcher
}

// NewMultiLiteralMatcher creates a MultiLiteralMatcher for fixed patterns.
func NewMultiLiteralMatcher(patterns []string, ignoreCase bool) *MultiLiteralMatcher {
	m := &MultiLiteralMatcher{
		root:       &acNode{},
		ignoreCase: ignoreCase,
	}

	var nonEmpty [][]byte
	for i, p := range patterns {
		pat := []byte(p)
		if ignoreCase {
			pat = bytes.ToLower(pat)
		}
		m.patterns = append(m.patterns, pat)
		if len(pat) == 0 {
			m.hasEmpty = true
			continue
		}
		nonEmpty = append(nonEmpty, pat)
		m.maxLen = max(m.maxLen, len(pat))
		m.addPattern(pat, i)
	}
	m.buildFailureLinks()

	if !ignoreCase && !m.hasEmpty && len(nonEmpty) > 0 {
		m.prefilter = ahocorasick.NewMatcher(nonEmpty)
	}
	return m
}

func (m *MultiLiteralMatcher) addPattern(pattern []byte, index int) {
	node := m.root
	for _, b := range pattern {
		if node.children[b] == nil {
			node.children[b] = &acNode{}
		}
		node = node.children[b]
	}
	node.output = append(node.output, index)
}

func (m *MultiLiteralMatcher) buildFailureLinks() {
	queue := make([]*acNode, 0, 256)
	for i := 0; i < 256; i++ {
		if child := m.root.children[i]; child != nil {
			child.fail = m.root
			queue = append(queue, child)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for i := 0; i < 256; i++ {
			child := current.children[i]
			if child == nil {
				continue
			}
			queue = append(queue, child)

			// Longest proper suffix that is also a trie path.
			fail := current.fail
			for fail != nil && fail.children[i] == nil {
				fail = fail.fail
			}
			if fail == nil {
				child.fail = m.root
			} else {
				child.fail = fail.children[i]
			}
			if len(child.fail.output) > 0 {
				child.output = append(child.output, child.fail.output...)
			}
		}
	}
}

func (m *MultiLiteralMatcher) FindAt(haystack []byte, at int) (Match, bool) {
	if at > len(haystack) {
		return Match{}, false
	}
	if m.hasEmpty {
		// Something always matches at at; prefer a real pattern there.
		end := at
		for _, p := range m.patterns {
			if at+len(p) > len(haystack) || at+len(p) <= end {
				continue
			}
			if m.equal(haystack[at:at+len(p)], p) {
				end = at + len(p)
			}
		}
		return Match{Span: Span{Start: at, End: end}}, true
	}
	if m.prefilter != nil && !m.prefilter.Contains(haystack[at:]) {
		return Match{}, false
	}

	best := Span{Start: -1}
	node := m.root
	for i := at; i < len(haystack); i++ {
		if best.Start >= 0 && i-m.maxLen+1 > best.Start {
			// No pattern ending here or later can start at or before best.
			break
		}
		b := haystack[i]
		if m.ignoreCase {
			b = toLower(b)
		}
		for node != m.root && node.children[b] == nil {
			node = node.fail
		}
		if node.children[b] != nil {
			node = node.children[b]
		}
		for _, pidx := range node.output {
			start := i - len(m.patterns[pidx]) + 1
			if best.Start < 0 || start < best.Start || (start == best.Start && i+1 > best.End) {
				best = Span{Start: start, End: i + 1}
			}
		}
	}
	if best.Start < 0 {
		return Match{}, false
	}
	return Match{Span: best}, true
}

func (m *MultiLiteralMatcher) equal(data, pattern []byte) bool {
	if m.ignoreCase {
		return equalFoldASCII(data, pattern)
	}
	return bytes.Equal(data, pattern)
}
