package matcher

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Options selects and configures a Matcher.
type Options struct {
	Patterns   []string
	Fixed      bool // treat patterns as literal strings
	PCRE       bool
	IgnoreCase bool
	// SmartCase enables IgnoreCase when no pattern contains an uppercase letter.
	SmartCase bool
	// Word requires matches to be surrounded by word boundaries.
	Word bool
	// LineRegexp requires matches to span a whole line.
	LineRegexp bool
}

// NewMatcher creates the appropriate Matcher based on the provided options.
// Selection logic:
//   - PCRE flag -> PCREMatcher (PCRE2 via pure Go port)
//   - Word or LineRegexp -> RegexMatcher around the (quoted) patterns
//   - Fixed or all-literal + 1 pattern -> LiteralMatcher
//   - Fixed or all-literal + N patterns -> MultiLiteralMatcher
//   - Otherwise -> RegexMatcher (RE2)
func NewMatcher(opts Options) (Matcher, error) {
	if len(opts.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns provided")
	}

	ignoreCase := opts.IgnoreCase
	if opts.SmartCase && !ignoreCase {
		ignoreCase = !hasUpper(opts.Patterns)
	}

	patterns := opts.Patterns
	if opts.Fixed && (opts.PCRE || opts.Word || opts.LineRegexp) {
		patterns = make([]string, len(opts.Patterns))
		for i, p := range opts.Patterns {
			patterns[i] = regexp.QuoteMeta(p)
		}
	}

	if opts.PCRE {
		return NewPCREMatcher(wrap(combine(patterns), opts), ignoreCase)
	}
	if opts.Word || opts.LineRegexp {
		return NewRegexMatcher(wrap(combine(patterns), opts), ignoreCase)
	}

	// Literal patterns bypass the regex engine entirely.
	if opts.Fixed || allLiteral(patterns) {
		if len(patterns) == 1 {
			return NewLiteralMatcher(patterns[0], ignoreCase), nil
		}
		return NewMultiLiteralMatcher(patterns, ignoreCase), nil
	}

	return NewRegexMatcher(combine(patterns), ignoreCase)
}

// combine joins multiple patterns into a single alternation.
func combine(patterns []string) string {
	if len(patterns) == 1 {
		return patterns[0]
	}
	var sb strings.Builder
	for i, p := range patterns {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString("(?:")
		sb.WriteString(p)
		sb.WriteByte(')')
	}
	return sb.String()
}

func wrap(pattern string, opts Options) string {
	switch {
	case opts.LineRegexp:
		return "^(?:" + pattern + ")$"
	case opts.Word:
		return `\b(?:` + pattern + `)\b`
	}
	return pattern
}

func allLiteral(patterns []string) bool {
	for _, p := range patterns {
		if !isLiteral(p) {
			return false
		}
	}
	return true
}

func hasUpper(patterns []string) bool {
	for _, p := range patterns {
		for _, r := range p {
			if unicode.IsUpper(r) {
				return true
			}
		}
	}
	return false
}
