package searcher

import (
	"bytes"
	"io"
)

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// LineBuffer incrementally reads an input and exposes only complete lines,
// except for an unterminated final line at end of input.
//
// Layout of buf:
//
//	[0, pos)          consumed, free for reuse on the next roll
//	[pos, lastTerm)   complete lines returned by Buffer
//	[lastTerm, end)   partial line waiting for its terminator
//	[end, len(buf))   free space
type LineBuffer struct {
	buf      []byte
	pos      int
	lastTerm int
	end      int

	absOffset    int64 // absolute offset of buf[pos]
	binaryOffset int64 // absolute offset of the first binary byte, -1 if none
	eof          bool

	term       byte
	binary     BinaryDetection
	capacity   int
	maxLineLen int
}

// NewLineBuffer creates a LineBuffer for the given config. Memory is
// allocated on the first Fill.
func NewLineBuffer(cfg Config) *LineBuffer {
	capacity := cfg.BufferCapacity
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &LineBuffer{
		term:         cfg.LineTerminator,
		binary:       cfg.Binary,
		capacity:     capacity,
		maxLineLen:   cfg.MaxLineLength,
		binaryOffset: -1,
	}
}

// Reset prepares the buffer for a new input. Capacity is kept.
func (lb *LineBuffer) Reset() {
	lb.pos, lb.lastTerm, lb.end = 0, 0, 0
	lb.absOffset = 0
	lb.binaryOffset = -1
	lb.eof = false
}

// Buffer returns the complete lines that have not been consumed yet.
func (lb *LineBuffer) Buffer() []byte {
	return lb.buf[lb.pos:lb.lastTerm]
}

// AbsoluteOffset returns the input offset of Buffer()[0].
func (lb *LineBuffer) AbsoluteOffset() int64 {
	return lb.absOffset
}

// BinaryOffset returns the input offset of the first binary indicator byte
// seen so far, or -1.
func (lb *LineBuffer) BinaryOffset() int64 {
	return lb.binaryOffset
}

// Consume marks the first n bytes of Buffer() as searched.
func (lb *LineBuffer) Consume(n int) {
	if n > lb.lastTerm-lb.pos {
		panic("searcher: consume past end of line buffer")
	}
	lb.pos += n
	lb.absOffset += int64(n)
}

// Fill reads more of r so that Buffer() gains at least one complete line.
// It reports false once the input is exhausted and nothing new was exposed.
// Unconsumed bytes of Buffer() are kept at the front of the new buffer.
func (lb *LineBuffer) Fill(r io.Reader) (bool, error) {
	if lb.eof {
		return false, nil
	}
	if lb.buf == nil {
		lb.buf = make([]byte, lb.capacity)
	}
	lb.roll()

	emptyReads := 0
	for {
		if lb.end == len(lb.buf) {
			lb.grow()
		}
		n, err := r.Read(lb.buf[lb.end:])
		if n > 0 {
			emptyReads = 0
			partial := lb.lastTerm
			from := lb.end
			lb.end += n
			if lb.detectBinary(from) {
				if err := lb.checkLines(partial, lb.lastTerm); err != nil {
					return false, err
				}
				return true, nil
			}
			found := false
			if i := bytes.LastIndexByte(lb.buf[from:lb.end], lb.term); i >= 0 {
				lb.lastTerm = from + i + 1
				found = true
			}
			if err == io.EOF {
				lb.eof = true
				lb.lastTerm = lb.end
				found = lb.end > partial
			}
			if err := lb.checkLines(partial, lb.end); err != nil {
				return false, err
			}
			if found {
				return true, nil
			}
		}
		switch {
		case err == io.EOF:
			lb.eof = true
			if lb.end > lb.lastTerm {
				lb.lastTerm = lb.end
				return true, nil
			}
			return false, nil
		case err != nil:
			return false, err
		case n == 0:
			emptyReads++
			if emptyReads >= maxEmptyReads {
				return false, io.ErrNoProgress
			}
		}
	}
}

// roll moves the unconsumed bytes to the front of buf.
func (lb *LineBuffer) roll() {
	if lb.pos == 0 {
		return
	}
	copy(lb.buf, lb.buf[lb.pos:lb.end])
	lb.lastTerm -= lb.pos
	lb.end -= lb.pos
	lb.pos = 0
}

func (lb *LineBuffer) grow() {
	next := make([]byte, 2*len(lb.buf))
	copy(next, lb.buf[:lb.end])
	lb.buf = next
}

// detectBinary applies the binary policy to buf[from:end]. It reports true
// when the input was cut short by BinaryQuit.
func (lb *LineBuffer) detectBinary(from int) bool {
	switch lb.binary.Mode {
	case BinaryConvert:
		region := lb.buf[from:lb.end]
		i := bytes.IndexByte(region, lb.binary.Byte)
		if i < 0 {
			return false
		}
		if lb.binaryOffset < 0 {
			lb.binaryOffset = lb.absOffset + int64(from+i-lb.pos)
		}
		for ; i < len(region); i++ {
			if region[i] == lb.binary.Byte {
				region[i] = lb.term
			}
		}
		return false
	case BinaryQuit:
		i := bytes.IndexByte(lb.buf[from:lb.end], lb.binary.Byte)
		if i < 0 {
			return false
		}
		lb.end = from + i
		lb.lastTerm = lb.end
		lb.binaryOffset = lb.absOffset + int64(lb.end-lb.pos)
		lb.eof = true
		return true
	}
	return false
}

// checkLines enforces the maximum line length on buf[from:to], where from is
// the start of a line.
func (lb *LineBuffer) checkLines(from, to int) error {
	if lb.maxLineLen <= 0 {
		return nil
	}
	for from < to {
		end := to
		if i := bytes.IndexByte(lb.buf[from:to], lb.term); i >= 0 {
			end = from + i
		}
		if end-from > lb.maxLineLen {
			return &LineTooLongError{
				Offset: lb.absOffset + int64(from-lb.pos),
				Limit:  lb.maxLineLen,
			}
		}
		from = end + 1
	}
	return nil
}
