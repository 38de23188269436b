package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dl/grepcore/internal/cli"
)

// exitCode is set by the root command's RunE.
var exitCode = cli.ExitNoMatch

type flags struct {
	cfg      cli.Config
	patterns []string
	context  int
	color    string
}

// newRootCmd builds the command; run executes a resolved Config and
// returns the exit code.
func newRootCmd(run func(cli.Config) int) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "grepcore [flags] PATTERN [PATH...]",
		Short: "Search files for lines matching a pattern",
		Long: `grepcore searches files and standard input for lines matching a regular
expression, with context lines, multiline matches, binary detection,
transcoding and transparent decompression.

Default arguments can be stored one per line in ~/.grepcore, or in the file
named by $` + cli.ConfigPathEnv + `.

Exit status is 0 if a line matched, 1 if none did and 2 on error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd, args)
			if err != nil {
				return err
			}
			exitCode = run(cfg)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.patterns, "regexp", "e", nil, "Pattern to search for (repeatable)")
	fl.BoolVarP(&f.cfg.Fixed, "fixed-strings", "F", false, "Treat patterns as literal strings")
	fl.BoolVarP(&f.cfg.PCRE, "pcre2", "P", false, "Use PCRE2 regular expressions")
	fl.BoolVarP(&f.cfg.IgnoreCase, "ignore-case", "i", false, "Case-insensitive search")
	fl.BoolVarP(&f.cfg.SmartCase, "smart-case", "S", false, "Ignore case unless a pattern has an uppercase letter")
	fl.BoolVarP(&f.cfg.Word, "word-regexp", "w", false, "Only match whole words")
	fl.BoolVarP(&f.cfg.LineRegexp, "line-regexp", "x", false, "Only match whole lines")
	fl.BoolVarP(&f.cfg.Invert, "invert-match", "v", false, "Select non-matching lines")
	fl.BoolVarP(&f.cfg.Multiline, "multiline", "U", false, "Allow matches to span lines")

	fl.IntVarP(&f.cfg.ContextBefore, "before-context", "B", 0, "Lines of context before each match")
	fl.IntVarP(&f.cfg.ContextAfter, "after-context", "A", 0, "Lines of context after each match")
	fl.IntVarP(&f.context, "context", "C", 0, "Lines of context before and after each match")
	fl.BoolVar(&f.cfg.Passthru, "passthru", false, "Print every line, matching or not")
	fl.StringVar(&f.cfg.ContextSeparator, "context-separator", "--", "Separator between context groups")
	fl.BoolVar(&f.cfg.CRLF, "crlf", false, "Treat CRLF as a line terminator")
	fl.BoolVarP(&f.cfg.NullData, "null-data", "z", false, "Use NUL as the line terminator")
	fl.StringVarP(&f.cfg.Encoding, "encoding", "E", "", "Input encoding (auto when empty, none for raw bytes)")
	fl.BoolVarP(&f.cfg.Text, "text", "a", false, "Search binary files as text")
	fl.BoolVar(&f.cfg.SearchBinary, "binary", false, "Search binary files, reporting when they match")
	fl.IntVar(&f.cfg.MaxLineLength, "max-line-length", 0, "Fail on lines longer than this many bytes")
	fl.Int64Var(&f.cfg.HeapLimit, "heap-limit", 0, "Memory limit in bytes for multiline searches")

	fl.BoolVarP(&f.cfg.LineNumbers, "line-number", "n", false, "Show line numbers")
	fl.BoolVarP(&f.cfg.ByteOffset, "byte-offset", "b", false, "Show the byte offset of each line")
	fl.BoolVarP(&f.cfg.WithFilename, "with-filename", "H", false, "Print the file name for each match")
	fl.BoolVar(&f.cfg.NoFilename, "no-filename", false, "Never print file names")
	fl.BoolVarP(&f.cfg.CountOnly, "count", "c", false, "Print the number of matching lines per file")
	fl.BoolVar(&f.cfg.CountMatches, "count-matches", false, "Print the number of matches per file")
	fl.BoolVarP(&f.cfg.FilesWithMatches, "files-with-matches", "l", false, "Print only names of files with a match")
	fl.BoolVarP(&f.cfg.FilesWithoutMatch, "files-without-match", "L", false, "Print only names of files without a match")
	fl.BoolVarP(&f.cfg.Quiet, "quiet", "q", false, "Print nothing; exit on the first match")
	fl.BoolVar(&f.cfg.JSONOutput, "json", false, "Output JSON Lines")
	fl.BoolVar(&f.cfg.Stats, "stats", false, "Print search statistics")
	fl.Int64VarP(&f.cfg.MaxCount, "max-count", "m", 0, "Stop after this many matching lines per file")
	fl.IntVarP(&f.cfg.MaxColumns, "max-columns", "M", 0, "Omit lines longer than this many bytes")
	fl.StringVar(&f.color, "color", "auto", "When to use color: auto, always, never")

	fl.BoolVarP(&f.cfg.Recursive, "recursive", "r", false, "Search directories recursively")
	fl.BoolVar(&f.cfg.NoIgnore, "no-ignore", false, "Don't respect .gitignore and .ignore files")
	fl.BoolVar(&f.cfg.Hidden, "hidden", false, "Search hidden files and directories")
	fl.BoolVar(&f.cfg.FollowSymlinks, "follow", false, "Follow symbolic links")
	fl.IntVar(&f.cfg.MaxDepth, "max-depth", 0, "Descend at most this many directory levels")
	fl.StringArrayVarP(&f.cfg.Globs, "glob", "g", nil, "Include or, with !, exclude matching paths")
	fl.BoolVar(&f.cfg.SearchZip, "search-zip", false, "Search compressed files")
	fl.Int64Var(&f.cfg.MmapThreshold, "mmap-threshold", 1<<20, "Memory-map files at least this large (0 disables)")
	fl.IntVarP(&f.cfg.Workers, "threads", "j", 0, "Number of search workers (0 = NumCPU*2)")
	fl.BoolVar(&f.cfg.Debug, "debug", false, "Log debug information")

	return cmd
}

// config resolves the parsed flags and positional arguments into a Config.
func (f *flags) config(cmd *cobra.Command, args []string) (cli.Config, error) {
	cfg := f.cfg
	cfg.Patterns = f.patterns
	if len(cfg.Patterns) == 0 {
		if len(args) == 0 {
			return cfg, fmt.Errorf("no pattern specified")
		}
		cfg.Patterns, args = args[:1], args[1:]
	}
	cfg.Paths = args

	if cmd.Flags().Changed("context") {
		if !cmd.Flags().Changed("before-context") {
			cfg.ContextBefore = f.context
		}
		if !cmd.Flags().Changed("after-context") {
			cfg.ContextAfter = f.context
		}
	}

	color, err := cli.ParseColorMode(f.color)
	if err != nil {
		return cfg, err
	}
	cfg.Color = color
	return cfg, nil
}
