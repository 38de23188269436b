package input

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/dl/grepcore/internal/searcher"
)

// StdinPath is the path that selects standard input.
const StdinPath = "-"

// Source is an opened input. Exactly one of Data or Reader carries the
// content; Close must be called once the search is done.
type Source struct {
	Name   string
	Data   []byte
	Reader io.Reader
	closer func() error
}

// Input converts the source into a searcher input.
func (s Source) Input() searcher.Input {
	return searcher.Input{Name: s.Name, Reader: s.Reader, Data: s.Data}
}

// Close releases the file descriptor, mapping or decoder behind the source.
func (s Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// noopCloser is a package-level no-op closer to avoid allocating a func literal per file.
func noopCloser() error { return nil }

// Options controls how files are opened.
type Options struct {
	// MmapThreshold maps regular files at least this large into memory.
	// Zero disables mmap; smaller files are streamed.
	MmapThreshold int64
	// Decompress transparently decodes files with a known compressed
	// extension.
	Decompress bool
	// Stdin replaces os.Stdin, mostly for tests.
	Stdin io.Reader
}

// Opener opens paths for searching. It is safe for concurrent use.
type Opener struct {
	opts Options
}

// NewOpener creates an Opener.
func NewOpener(opts Options) *Opener {
	return &Opener{opts: opts}
}

// Open opens path, or standard input for StdinPath.
func (o *Opener) Open(path string) (Source, error) {
	if path == StdinPath {
		return o.stdin(), nil
	}

	fd, err := openFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("open %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return Source{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Mode&unix.S_IFMT == unix.S_IFDIR {
		unix.Close(fd)
		return Source{}, fmt.Errorf("open %s: %w", path, unix.EISDIR)
	}

	if o.opts.Decompress {
		if kind := compressionOf(path); kind != compressionNone {
			return openCompressed(os.NewFile(uintptr(fd), path), path, kind)
		}
	}

	// Files such as those under /proc report a zero size and are streamed.
	regular := stat.Mode&unix.S_IFMT == unix.S_IFREG
	if regular && o.opts.MmapThreshold > 0 && stat.Size > 0 && stat.Size >= o.opts.MmapThreshold {
		return readMmap(fd, stat.Size, path)
	}
	return streamFd(fd, path), nil
}

// streamFd wraps fd so the searcher reads it through its line buffer.
func streamFd(fd int, path string) Source {
	unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL)
	f := os.NewFile(uintptr(fd), path)
	return Source{Name: path, Reader: f, closer: f.Close}
}

// openFile opens a file with O_NOATIME, falling back without it.
func openFile(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME|unix.O_CLOEXEC, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	}
	return fd, err
}
