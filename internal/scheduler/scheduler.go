// Package scheduler searches many inputs concurrently. Every worker owns a
// Searcher and a Printer, so nothing on the search path is shared.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dl/grepcore/internal/input"
	"github.com/dl/grepcore/internal/matcher"
	"github.com/dl/grepcore/internal/output"
	"github.com/dl/grepcore/internal/searcher"
	"github.com/dl/grepcore/internal/walker"
)

// Options configures a Scheduler.
type Options struct {
	// Workers is the number of concurrent searches. Zero means NumCPU * 2.
	Workers int
	Matcher matcher.Matcher
	Opener  *input.Opener
	// Searcher is used for inputs found by walking a directory.
	Searcher searcher.Config
	// ExplicitBinary, when set, replaces Searcher.Binary for inputs named
	// on the command line.
	ExplicitBinary *searcher.BinaryDetection
	Printer        output.Options
}

// Scheduler manages a pool of workers that search inputs concurrently.
type Scheduler struct {
	opts Options
}

// New creates a Scheduler. The searcher configurations are validated here
// so workers cannot fail to start.
func New(opts Options) (*Scheduler, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU() * 2
	}
	if opts.Matcher == nil || opts.Opener == nil {
		return nil, fmt.Errorf("scheduler: matcher and opener are required")
	}
	if _, err := opts.newSearchers(); err != nil {
		return nil, err
	}
	return &Scheduler{opts: opts}, nil
}

// searchers holds the per-worker searcher for walked and explicit inputs.
type searchers struct {
	walked   *searcher.Searcher
	explicit *searcher.Searcher
}

func (o *Options) newSearchers() (searchers, error) {
	walked, err := searcher.New(o.Searcher)
	if err != nil {
		return searchers{}, fmt.Errorf("searcher: %w", err)
	}
	ss := searchers{walked: walked, explicit: walked}
	if o.ExplicitBinary != nil {
		cfg := o.Searcher
		cfg.Binary = *o.ExplicitBinary
		if ss.explicit, err = searcher.New(cfg); err != nil {
			return searchers{}, fmt.Errorf("searcher: %w", err)
		}
	}
	return ss, nil
}

func (ss searchers) forEntry(e walker.Entry) *searcher.Searcher {
	if e.Explicit {
		return ss.explicit
	}
	return ss.walked
}

// Run searches every entry until the channel is closed or ctx is done.
// Results carry sequence numbers starting at 1 for ordered output; the
// result channel is closed once every worker has stopped. Failures to open
// or search an input are reported in Result.Err.
func (s *Scheduler) Run(ctx context.Context, entries <-chan walker.Entry) <-chan output.Result {
	resultCh := make(chan output.Result, s.opts.Workers*2)
	var seq atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.opts.Workers; i++ {
		g.Go(func() error {
			ss, err := s.opts.newSearchers()
			if err != nil {
				return err
			}
			p := output.New(s.opts.Printer)
			for {
				var entry walker.Entry
				select {
				case <-ctx.Done():
					return ctx.Err()
				case e, ok := <-entries:
					if !ok {
						return nil
					}
					entry = e
				}
				result := s.search(ss.forEntry(entry), p, entry)
				result.SeqNum = int(seq.Add(1))
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	go func() {
		g.Wait()
		close(resultCh)
	}()

	return resultCh
}

func (s *Scheduler) search(sr *searcher.Searcher, p output.Printer, entry walker.Entry) output.Result {
	src, err := s.opts.Opener.Open(entry.Path)
	if err != nil {
		return output.Result{Path: entry.Path, Err: err}
	}
	defer src.Close()

	err = sr.Search(s.opts.Matcher, src.Input(), p)
	result := p.Take()
	result.Path = src.Name
	if err != nil {
		// Partial output of a failed search is dropped.
		result.Out, result.Matched = nil, false
		result.Err = err
	}
	return result
}
