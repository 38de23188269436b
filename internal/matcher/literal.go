package matcher

import (
	"regexp/syntax"
	"strings"
	"unicode"
)

const minPrefilterLen = 3

// literalInfo holds a literal substring extracted from a regex AST that is
// guaranteed to appear in any match of the regex.
type literalInfo struct {
	literal    string
	ignoreCase bool
}

// extractLiteral parses a regex pattern and extracts the longest required
// literal substring that must appear in any match. Returns false when no
// ASCII literal of at least minPrefilterLen bytes is required.
func extractLiteral(pattern string, ignoreCase bool) (literalInfo, bool) {
	flags := syntax.Perl
	if ignoreCase {
		flags |= syntax.FoldCase
	}

	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return literalInfo{}, false
	}
	re = re.Simplify()

	var best candidate
	for _, c := range requiredLiterals(re) {
		if len(c.runes) > len(best.runes) && isASCIIRunes(c.runes) {
			best = c
		}
	}
	if len(best.runes) < minPrefilterLen {
		return literalInfo{}, false
	}

	lit := string(best.runes)
	ci := best.foldCase || ignoreCase
	if ci {
		lit = strings.ToLower(lit)
	}
	return literalInfo{literal: lit, ignoreCase: ci}, true
}

// candidate is a literal substring found in the regex AST.
type candidate struct {
	runes    []rune
	foldCase bool
}

// requiredLiterals walks the AST and returns literal substrings that every
// match must contain.
func requiredLiterals(re *syntax.Regexp) []candidate {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return nil
		}
		return []candidate{{runes: re.Rune, foldCase: re.Flags&syntax.FoldCase != 0}}
	case syntax.OpConcat:
		return concatLiterals(re.Sub)
	case syntax.OpCapture, syntax.OpPlus:
		if len(re.Sub) > 0 {
			return requiredLiterals(re.Sub[0])
		}
	case syntax.OpRepeat:
		if re.Min >= 1 && len(re.Sub) > 0 {
			return requiredLiterals(re.Sub[0])
		}
	}
	// Star, quest, alternation, classes and anchors guarantee nothing.
	return nil
}

// concatLiterals merges adjacent literal children of a concatenation into
// longer candidates and recurses into the rest.
func concatLiterals(subs []*syntax.Regexp) []candidate {
	var (
		out  []candidate
		cur  []rune
		fold bool
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, candidate{runes: cur, foldCase: fold})
			cur = nil
		}
	}
	for _, sub := range subs {
		if sub.Op != syntax.OpLiteral || len(sub.Rune) == 0 {
			flush()
			out = append(out, requiredLiterals(sub)...)
			continue
		}
		fc := sub.Flags&syntax.FoldCase != 0
		if len(cur) > 0 && fc != fold {
			flush()
		}
		fold = fc
		cur = append(cur, sub.Rune...)
	}
	flush()
	return out
}

func isASCIIRunes(runes []rune) bool {
	for _, r := range runes {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// isLiteral returns true if the pattern contains no regex metacharacters
// and can be treated as a fixed string.
func isLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, `\.+*?()|[]{}^$`)
}
