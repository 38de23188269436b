package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/dl/grepcore/internal/input"
	"github.com/dl/grepcore/internal/matcher"
	"github.com/dl/grepcore/internal/output"
	"github.com/dl/grepcore/internal/scheduler"
	"github.com/dl/grepcore/internal/searcher"
	"github.com/dl/grepcore/internal/walker"
)

// Exit codes.
const (
	ExitMatch   = 0
	ExitNoMatch = 1
	ExitError   = 2
)

// Streams are the standard streams a run reads from and writes to.
type Streams struct {
	Stdin io.Reader
	// Stdout is a file descriptor so results can be written with writev.
	Stdout int
	Stderr io.Writer
}

// Run executes the search with the given config on the process's streams.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func Run(ctx context.Context, cfg Config) int {
	return RunWith(ctx, cfg, Streams{
		Stdin:  os.Stdin,
		Stdout: int(os.Stdout.Fd()),
		Stderr: os.Stderr,
	})
}

// RunWith is Run on explicit streams. An input that cannot be opened or
// searched is logged and skipped; the exit code is 2 when that happened
// and nothing matched.
func RunWith(ctx context.Context, cfg Config, streams Streams) int {
	logger := log.NewWithOptions(streams.Stderr, log.Options{
		Level:  log.WarnLevel,
		Prefix: "grepcore",
	})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid arguments", "err", err)
		return ExitError
	}

	m, err := matcher.NewMatcher(matcher.Options{
		Patterns:   cfg.Patterns,
		Fixed:      cfg.Fixed,
		PCRE:       cfg.PCRE,
		IgnoreCase: cfg.IgnoreCase,
		SmartCase:  cfg.SmartCase,
		Word:       cfg.Word,
		LineRegexp: cfg.LineRegexp,
	})
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return ExitError
	}

	var stats *output.Stats
	if cfg.Stats || cfg.JSONOutput {
		stats = output.NewStats()
	}

	searchCfg, explicitBinary := searcherConfig(cfg)
	sched, err := scheduler.New(scheduler.Options{
		Workers:        cfg.Workers,
		Matcher:        m,
		Opener:         input.NewOpener(input.Options{MmapThreshold: cfg.MmapThreshold, Decompress: cfg.SearchZip, Stdin: streams.Stdin}),
		Searcher:       searchCfg,
		ExplicitBinary: explicitBinary,
		Printer: output.Options{
			Mode:             printerMode(cfg),
			Styles:           styles(cfg.Color, streams.Stdout),
			WithPath:         withPath(cfg),
			LineNumbers:      cfg.LineNumbers,
			ByteOffset:       cfg.ByteOffset,
			MaxCount:         cfg.MaxCount,
			MaxColumns:       cfg.MaxColumns,
			ContextSeparator: cfg.ContextSeparator,
			Stats:            stats,
		},
	})
	if err != nil {
		logger.Error("invalid arguments", "err", err)
		return ExitError
	}
	logger.Debug("search",
		"matcher", fmt.Sprintf("%T", m),
		"multiline", cfg.Multiline,
		"binary", searchCfg.Binary.Mode,
		"paths", cfg.Paths,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := &discovery{cfg: cfg, logger: logger}
	resultCh := sched.Run(ctx, d.entries(ctx))

	w := output.NewFdWriter(streams.Stdout)
	matched := false
	werr := output.NewOrderedWriter(w).WriteOrdered(resultCh, func(r output.Result) {
		if r.Err != nil {
			logger.Warn("error", "path", r.Path, "err", r.Err)
			d.failed.Store(true)
			return
		}
		if r.Matched {
			matched = true
			if cfg.Quiet {
				cancel()
			}
		}
	})
	d.wg.Wait()
	if werr == nil {
		werr = writeSummary(w, cfg, stats)
	}
	if werr != nil && !errors.Is(werr, unix.EPIPE) {
		logger.Error("write failed", "err", werr)
		return ExitError
	}

	switch {
	case matched:
		return ExitMatch
	case d.failed.Load():
		return ExitError
	}
	return ExitNoMatch
}

func writeSummary(w *output.Writer, cfg Config, stats *output.Stats) error {
	if cfg.Quiet {
		return nil
	}
	var buf []byte
	switch {
	case cfg.JSONOutput:
		var err error
		if buf, err = output.AppendJSONSummary(nil, stats); err != nil {
			return err
		}
	case cfg.Stats:
		buf = stats.AppendText(nil)
	default:
		return nil
	}
	return w.Write(buf)
}

// searcherConfig translates cfg. Inputs found while walking stop at the
// first NUL byte; inputs named explicitly are searched with NUL bytes
// treated as line terminators.
func searcherConfig(cfg Config) (searcher.Config, *searcher.BinaryDetection) {
	sc := searcher.DefaultConfig()
	if cfg.NullData {
		sc.LineTerminator = 0
	}
	sc.CRLF = cfg.CRLF
	sc.MultiLine = cfg.Multiline
	sc.InvertMatch = cfg.Invert
	sc.BeforeContext = cfg.ContextBefore
	sc.AfterContext = cfg.ContextAfter
	sc.Passthru = cfg.Passthru
	sc.MaxLineLength = cfg.MaxLineLength
	sc.HeapLimit = cfg.HeapLimit
	sc.Encoding = cfg.Encoding
	sc.LineNumber = cfg.LineNumbers || cfg.JSONOutput
	sc.ByteOffset = cfg.ByteOffset || cfg.JSONOutput

	switch {
	case cfg.Text || cfg.NullData:
		return sc, nil
	case cfg.SearchBinary:
		sc.Binary = searcher.ConvertBinary(0)
		return sc, nil
	}
	sc.Binary = searcher.QuitOnBinary(0)
	explicit := searcher.ConvertBinary(0)
	return sc, &explicit
}

func printerMode(cfg Config) output.Mode {
	switch {
	case cfg.Quiet:
		return output.ModeQuiet
	case cfg.JSONOutput:
		return output.ModeJSON
	case cfg.CountMatches:
		return output.ModeCountMatches
	case cfg.CountOnly:
		return output.ModeCount
	case cfg.FilesWithMatches:
		return output.ModeFilesWithMatches
	case cfg.FilesWithoutMatch:
		return output.ModeFilesWithoutMatch
	}
	return output.ModeStandard
}

func styles(mode ColorMode, fd int) output.Styles {
	switch mode {
	case ColorAlways:
		return output.NewStyles()
	case ColorAuto:
		if output.IsTerminal(uintptr(fd)) {
			return output.NewStyles()
		}
	}
	return output.NoStyles()
}

// withPath reports whether output lines are prefixed with the input name:
// when asked to, or when more than one input may be searched.
func withPath(cfg Config) bool {
	switch {
	case cfg.WithFilename:
		return true
	case cfg.NoFilename:
		return false
	case len(cfg.Paths) > 1:
		return true
	case len(cfg.Paths) == 1 && cfg.Recursive:
		fi, err := os.Stat(cfg.Paths[0])
		return err == nil && fi.IsDir()
	}
	return false
}

// discovery turns the configured paths into scheduler entries.
type discovery struct {
	cfg    Config
	logger *log.Logger
	failed atomic.Bool
	wg     sync.WaitGroup
}

// entries streams standard input (when named, or when no path is given)
// followed by every file found under the remaining paths.
func (d *discovery) entries(ctx context.Context) <-chan walker.Entry {
	out := make(chan walker.Entry)

	paths := d.cfg.Paths
	if len(paths) == 0 {
		paths = []string{input.StdinPath}
	}
	var (
		roots []string
		stdin bool
	)
	for _, p := range paths {
		if p == input.StdinPath {
			stdin = true
			continue
		}
		if !d.cfg.Recursive {
			if fi, err := os.Stat(p); err == nil && fi.IsDir() {
				d.logger.Warn("error", "path", p, "err", "is a directory")
				d.failed.Store(true)
				continue
			}
		}
		roots = append(roots, p)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(out)

		if stdin {
			select {
			case out <- walker.Entry{Path: input.StdinPath, Explicit: true}:
			case <-ctx.Done():
				return
			}
		}
		if len(roots) == 0 {
			return
		}

		files, errs := walker.Walk(ctx, roots, walker.Options{
			Hidden:         d.cfg.Hidden,
			NoIgnore:       d.cfg.NoIgnore,
			FollowSymlinks: d.cfg.FollowSymlinks,
			MaxDepth:       d.cfg.MaxDepth,
			Globs:          d.cfg.Globs,
			SkipBinaryExt:  !d.cfg.Text && !d.cfg.SearchBinary,
			KeepCompressed: d.cfg.SearchZip,
		})
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for err := range errs {
				d.logger.Warn("walk error", "err", err)
				d.failed.Store(true)
			}
		}()
		for e := range files {
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
