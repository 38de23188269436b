package output

import "golang.org/x/sys/unix"

// maxIovecs bounds how many buffers go into a single writev call.
const maxIovecs = 1024

// Writer writes rendered output to a file descriptor, batching consecutive
// buffers into one writev call.
type Writer struct {
	fd int
}

// NewFdWriter creates a Writer for an open file descriptor.
func NewFdWriter(fd int) *Writer {
	return &Writer{fd: fd}
}

// Write writes data in full.
func (w *Writer) Write(data []byte) error {
	return w.WriteBatch([][]byte{data})
}

// WriteBatch writes every buffer in order, retrying short writes. bufs is
// modified.
func (w *Writer) WriteBatch(bufs [][]byte) error {
	for len(bufs) > 0 {
		if len(bufs[0]) == 0 {
			bufs = bufs[1:]
			continue
		}
		n, err := unix.Writev(w.fd, bufs[:min(len(bufs), maxIovecs)])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		for n > 0 {
			if n < len(bufs[0]) {
				bufs[0] = bufs[0][n:]
				break
			}
			n -= len(bufs[0])
			bufs = bufs[1:]
		}
	}
	return nil
}

// OrderedWriter receives results from a channel and writes them in sequence order.
// This ensures output is deterministic even with parallel workers.
type OrderedWriter struct {
	writer *Writer
}

// NewOrderedWriter creates an OrderedWriter.
func NewOrderedWriter(w *Writer) *OrderedWriter {
	return &OrderedWriter{writer: w}
}

// WriteOrdered consumes results until the channel is closed. Out-of-order
// results are held back; every run of consecutive results is flushed with
// one batch. onResult, when set, sees every result in sequence order. The
// first write error is returned after the channel has been drained.
func (ow *OrderedWriter) WriteOrdered(results <-chan Result, onResult func(Result)) error {
	nextSeq := 1
	pending := make(map[int]Result)
	var (
		batch    [][]byte
		writeErr error
	)

	for r := range results {
		pending[r.SeqNum] = r
		batch = batch[:0]
		for {
			p, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if onResult != nil {
				onResult(p)
			}
			if p.Err == nil && len(p.Out) > 0 {
				batch = append(batch, p.Out)
			}
		}
		if len(batch) > 0 && writeErr == nil {
			writeErr = ow.writer.WriteBatch(batch)
		}
	}
	return writeErr
}
