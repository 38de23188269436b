package cli

import "fmt"

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// ParseColorMode converts a --color argument.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Config holds all configuration for a grepcore search.
type Config struct {
	// Matching.
	Patterns   []string
	Fixed      bool
	PCRE       bool
	IgnoreCase bool
	SmartCase  bool
	Word       bool
	LineRegexp bool
	Invert     bool
	Multiline  bool

	// Lines and context.
	ContextBefore    int
	ContextAfter     int
	Passthru         bool
	ContextSeparator string
	CRLF             bool
	NullData         bool
	Encoding         string
	// Text disables binary detection. SearchBinary searches binary inputs
	// found while walking instead of skipping them.
	Text          bool
	SearchBinary  bool
	MaxLineLength int
	HeapLimit     int64

	// Output.
	LineNumbers       bool
	ByteOffset        bool
	WithFilename      bool
	NoFilename        bool
	CountOnly         bool
	CountMatches      bool
	FilesWithMatches  bool
	FilesWithoutMatch bool
	Quiet             bool
	JSONOutput        bool
	Stats             bool
	MaxCount          int64
	MaxColumns        int
	Color             ColorMode

	// Inputs.
	Recursive      bool
	NoIgnore       bool
	Hidden         bool
	FollowSymlinks bool
	MaxDepth       int
	Globs          []string
	SearchZip      bool
	MmapThreshold  int64
	Workers        int
	Paths          []string

	Debug bool
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if len(c.Patterns) == 0 {
		return fmt.Errorf("no pattern specified")
	}
	if c.Fixed && c.PCRE {
		return fmt.Errorf("cannot use -F (fixed) and -P (pcre) together")
	}
	if c.ContextBefore < 0 {
		return fmt.Errorf("invalid context before: %d", c.ContextBefore)
	}
	if c.ContextAfter < 0 {
		return fmt.Errorf("invalid context after: %d", c.ContextAfter)
	}
	if c.MaxCount < 0 {
		return fmt.Errorf("invalid max count: %d", c.MaxCount)
	}
	if c.MaxColumns < 0 {
		return fmt.Errorf("invalid max columns: %d", c.MaxColumns)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max depth: %d", c.MaxDepth)
	}
	if c.MmapThreshold < 0 {
		return fmt.Errorf("invalid mmap threshold: %d", c.MmapThreshold)
	}
	if c.WithFilename && c.NoFilename {
		return fmt.Errorf("cannot use -H (with-filename) and --no-filename together")
	}
	if c.NullData && c.CRLF {
		return fmt.Errorf("cannot use --null-data and --crlf together")
	}
	if c.Passthru && c.Invert {
		return fmt.Errorf("cannot use --passthru and -v (invert) together")
	}

	modes := []struct {
		set  bool
		flag string
	}{
		{c.CountOnly, "-c (count)"},
		{c.CountMatches, "--count-matches"},
		{c.FilesWithMatches, "-l (files-with-matches)"},
		{c.FilesWithoutMatch, "-L (files-without-match)"},
		{c.JSONOutput, "--json"},
	}
	var first string
	for _, m := range modes {
		if !m.set {
			continue
		}
		if first != "" {
			return fmt.Errorf("cannot use %s and %s together", first, m.flag)
		}
		first = m.flag
	}
	return nil
}
