package input

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// readMmap memory-maps an already-opened fd of known size and takes
// ownership of fd. When the mapping fails the file is streamed instead.
func readMmap(fd int, size int64, path string) (Source, error) {
	unix.Fadvise(fd, 0, size, unix.FADV_SEQUENTIAL)

	data, err := syscall.Mmap(fd, 0, int(size), syscall.PROT_READ, syscall.MAP_PRIVATE|syscall.MAP_POPULATE)
	if err != nil {
		return streamFd(fd, path), nil
	}
	unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return Source{
		Name: path,
		Data: data,
		closer: func() error {
			unix.Madvise(data, unix.MADV_DONTNEED)
			err := syscall.Munmap(data)
			if cerr := unix.Close(fd); err == nil {
				err = cerr
			}
			return err
		},
	}, nil
}
