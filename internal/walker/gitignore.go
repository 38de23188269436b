package walker

import (
	"fmt"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreFiles are read from every directory, in order.
var ignoreFiles = []string{".gitignore", ".ignore"}

// ignoreLayer holds the rules of one directory.
type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

// ignoreChain is the stack of layers from the walk root down to a directory.
// Chains are never mutated once built, so they are shared between workers.
type ignoreChain []ignoreLayer

// descend returns the chain for dir: the parent's layers plus dir's own
// ignore files, if any.
func (c ignoreChain) descend(dir string) ignoreChain {
	var added []ignoreLayer
	for _, name := range ignoreFiles {
		parser, err := ignore.CompileIgnoreFile(joinPath(dir, name))
		if err != nil {
			continue
		}
		added = append(added, ignoreLayer{dir: dir, parser: parser})
	}
	if len(added) == 0 {
		return c
	}
	next := make(ignoreChain, 0, len(c)+len(added))
	next = append(next, c...)
	return append(next, added...)
}

// matches reports whether any layer ignores fullPath.
func (c ignoreChain) matches(fullPath string, isDir bool) bool {
	for _, layer := range c {
		rel, err := filepath.Rel(layer.dir, fullPath)
		if err != nil {
			continue
		}
		if isDir {
			rel += "/"
		}
		if layer.parser.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// globSet holds the --glob overrides. Patterns use gitignore syntax relative
// to nothing in particular, so a bare "*.go" matches at any depth.
type globSet struct {
	include *ignore.GitIgnore
	exclude *ignore.GitIgnore
}

func compileGlobs(globs []string) (globSet, error) {
	var inc, exc []string
	for _, g := range globs {
		switch {
		case g == "" || g == "!":
			return globSet{}, fmt.Errorf("invalid glob %q", g)
		case strings.HasPrefix(g, "!"):
			exc = append(exc, g[1:])
		default:
			inc = append(inc, g)
		}
	}
	var set globSet
	if len(inc) > 0 {
		set.include = ignore.CompileIgnoreLines(inc...)
	}
	if len(exc) > 0 {
		set.exclude = ignore.CompileIgnoreLines(exc...)
	}
	return set, nil
}

func (s globSet) excludes(path string, isDir bool) bool {
	if s.exclude == nil {
		return false
	}
	if isDir {
		path += "/"
	}
	return s.exclude.MatchesPath(path)
}

// includes reports whether a file passes the overrides.
func (s globSet) includes(path string) bool {
	if s.excludes(path, false) {
		return false
	}
	return s.include == nil || s.include.MatchesPath(path)
}
