package input

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

type compression int

const (
	compressionNone compression = iota
	compressionGzip
	compressionZstd
	compressionXz
	compressionLz4
	compressionBrotli
	compressionBzip2
)

var compressedExts = map[string]compression{
	".gz":   compressionGzip,
	".tgz":  compressionGzip,
	".zst":  compressionZstd,
	".zstd": compressionZstd,
	".xz":   compressionXz,
	".txz":  compressionXz,
	".lz4":  compressionLz4,
	".br":   compressionBrotli,
	".bz2":  compressionBzip2,
	".tbz2": compressionBzip2,
}

func compressionOf(path string) compression {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 || strings.IndexByte(path[dot:], '/') >= 0 {
		return compressionNone
	}
	return compressedExts[strings.ToLower(path[dot:])]
}

// IsCompressed reports whether path has an extension Open can decompress.
func IsCompressed(path string) bool {
	return compressionOf(path) != compressionNone
}

// openCompressed wraps f in a streaming decoder. It takes ownership of f.
func openCompressed(f *os.File, path string, kind compression) (Source, error) {
	closeFile := f.Close
	var (
		r      io.Reader
		closer = closeFile
	)
	switch kind {
	case compressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return Source{}, fmt.Errorf("gzip %s: %w", path, err)
		}
		r = zr
		closer = func() error {
			zr.Close()
			return closeFile()
		}
	case compressionZstd:
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return Source{}, fmt.Errorf("zstd %s: %w", path, err)
		}
		r = zr
		closer = func() error {
			zr.Close()
			return closeFile()
		}
	case compressionXz:
		zr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return Source{}, fmt.Errorf("xz %s: %w", path, err)
		}
		r = zr
	case compressionLz4:
		r = lz4.NewReader(f)
	case compressionBrotli:
		r = brotli.NewReader(f)
	case compressionBzip2:
		r = bzip2.NewReader(f)
	default:
		r = f
	}
	return Source{Name: path, Reader: r, closer: closer}, nil
}
