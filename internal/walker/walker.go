package walker

import (
	"context"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dl/grepcore/internal/input"
)

// Entry is a file discovered during traversal.
type Entry struct {
	Path string
	// Explicit is set for paths named on the command line. They are searched
	// even when filters would skip them.
	Explicit bool
}

// Options configures directory traversal.
type Options struct {
	Hidden         bool // include hidden files and directories
	NoIgnore       bool // skip .gitignore and .ignore processing
	FollowSymlinks bool
	MaxDepth       int // 0 means unlimited; 1 lists only the root's entries
	// Globs include (or, with a leading '!', exclude) paths using gitignore
	// syntax. When any include glob is given, other files are skipped.
	Globs []string
	// SkipBinaryExt skips files whose extension marks a binary format.
	// Compressed files are kept when KeepCompressed is set.
	SkipBinaryExt  bool
	KeepCompressed bool
	Workers        int
}

// Walk traverses roots and sends discovered files on the returned channel.
// Directories are read with raw getdents64 by a pool of workers. Both
// channels are closed once traversal ends or ctx is cancelled.
func Walk(ctx context.Context, roots []string, opts Options) (<-chan Entry, <-chan error) {
	fileCh := make(chan Entry, 256)
	errCh := make(chan error, 16)

	go func() {
		defer close(fileCh)
		defer close(errCh)

		globs, err := compileGlobs(opts.Globs)
		if err != nil {
			errCh <- err
			return
		}

		pw := &parallelWalker{
			ctx:    ctx,
			fileCh: fileCh,
			errCh:  errCh,
			opts:   opts,
			globs:  globs,
		}
		pw.cond = sync.NewCond(&pw.mu)

		for _, root := range roots {
			var stat unix.Stat_t
			if err := unix.Stat(root, &stat); err != nil {
				pw.report(&WalkError{Path: root, Err: err})
				continue
			}
			if stat.Mode&unix.S_IFMT != unix.S_IFDIR {
				pw.send(Entry{Path: root, Explicit: true})
				continue
			}
			var chain ignoreChain
			if !opts.NoIgnore {
				chain = chain.descend(root)
			}
			pw.enqueue(walkItem{path: root, depth: 0, ignores: chain})
		}

		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pw.worker()
			}()
		}
		wg.Wait()
	}()

	return fileCh, errCh
}

// walkItem is a directory waiting to be read.
type walkItem struct {
	path    string
	depth   int
	ignores ignoreChain
}

// parallelWalker coordinates concurrent BFS directory traversal.
type parallelWalker struct {
	ctx    context.Context
	fileCh chan<- Entry
	errCh  chan<- error
	opts   Options
	globs  globSet

	mu      sync.Mutex
	queue   []walkItem
	pending int        // dirs enqueued but not yet fully processed
	cond    *sync.Cond // signaled when items are enqueued or work is done
	done    bool
}

func (pw *parallelWalker) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

// dequeue blocks until work is available. It returns false when all work is
// complete.
func (pw *parallelWalker) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	for len(pw.queue) == 0 && !pw.done && pw.pending > 0 {
		pw.cond.Wait()
	}
	if len(pw.queue) == 0 {
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	return item, true
}

// finish marks a directory as fully processed.
func (pw *parallelWalker) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

func (pw *parallelWalker) worker() {
	buf := make([]byte, 32*1024) // per-worker getdents buffer
	var dirents []dirent
	for {
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		if pw.ctx.Err() == nil {
			dirents = pw.processDir(item, buf, dirents)
		}
		pw.finish()
	}
}

// send delivers a file unless the walk was cancelled.
func (pw *parallelWalker) send(e Entry) bool {
	select {
	case pw.fileCh <- e:
		return true
	case <-pw.ctx.Done():
		return false
	}
}

func (pw *parallelWalker) report(err error) {
	select {
	case pw.errCh <- err:
	case <-pw.ctx.Done():
	}
}

// processDir reads one directory and dispatches its entries. The directory fd
// is closed before subdirectories are enqueued.
func (pw *parallelWalker) processDir(item walkItem, buf []byte, dirents []dirent) []dirent {
	fd, err := unix.Open(item.path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOATIME|unix.O_CLOEXEC, 0)
	if err != nil {
		fd, err = unix.Open(item.path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if err != nil {
			pw.report(&WalkError{Path: item.path, Err: err})
			return dirents
		}
	}

	var subdirs []walkItem
	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			pw.report(&WalkError{Path: item.path, Err: err})
			break
		}
		if n == 0 {
			break
		}
		dirents = parseDirents(buf[:n], dirents)
		for _, entry := range dirents {
			fullPath := joinPath(item.path, entry.name)
			isDir, ok := pw.classify(fullPath, entry.typ)
			if !ok {
				continue
			}
			if isDir {
				if sub, ok := pw.subdir(item, entry.name, fullPath); ok {
					subdirs = append(subdirs, sub)
				}
				continue
			}
			if pw.acceptFile(item, entry.name, fullPath) && !pw.send(Entry{Path: fullPath}) {
				unix.Close(fd)
				return dirents
			}
		}
	}
	unix.Close(fd)

	for _, sub := range subdirs {
		pw.enqueue(sub)
	}
	return dirents
}

// classify resolves an entry to a directory or regular file. Symlinks are
// only followed when enabled; broken links are skipped silently.
func (pw *parallelWalker) classify(path string, typ uint8) (isDir, ok bool) {
	switch typ {
	case unix.DT_DIR:
		return true, true
	case unix.DT_REG:
		return false, true
	case unix.DT_LNK:
		if !pw.opts.FollowSymlinks {
			return false, false
		}
	case unix.DT_UNKNOWN:
	default:
		return false, false
	}

	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		if typ == unix.DT_UNKNOWN {
			pw.report(&WalkError{Path: path, Err: err})
		}
		return false, false
	}
	switch stat.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return true, true
	case unix.S_IFREG:
		return false, true
	}
	return false, false
}

func (pw *parallelWalker) subdir(parent walkItem, name, path string) (walkItem, bool) {
	if skipDir(name, pw.opts.Hidden) {
		return walkItem{}, false
	}
	depth := parent.depth + 1
	if pw.opts.MaxDepth > 0 && depth >= pw.opts.MaxDepth {
		return walkItem{}, false
	}
	if parent.ignores.matches(path, true) || pw.globs.excludes(path, true) {
		return walkItem{}, false
	}
	child := walkItem{path: path, depth: depth}
	if !pw.opts.NoIgnore {
		child.ignores = parent.ignores.descend(path)
	}
	return child, true
}

func (pw *parallelWalker) acceptFile(parent walkItem, name, path string) bool {
	if !pw.opts.Hidden && isHidden(name) {
		return false
	}
	if pw.opts.SkipBinaryExt && IsBinaryExtension(name) && !(pw.opts.KeepCompressed && input.IsCompressed(name)) {
		return false
	}
	if parent.ignores.matches(path, false) {
		return false
	}
	return pw.globs.includes(path)
}

// joinPath concatenates a directory and entry name with a single separator.
// dirPath is always a valid directory path and name a plain filename, so
// filepath.Join's cleaning is unnecessary.
func joinPath(dirPath, name string) string {
	needsSep := len(dirPath) == 0 || dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}

func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// skipDir reports directories that are never descended into: VCS metadata
// always, other hidden directories unless hidden is set.
func skipDir(name string, hidden bool) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	return !hidden && isHidden(name)
}

// WalkError represents an error during directory traversal.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}
