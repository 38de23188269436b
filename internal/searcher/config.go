package searcher

import (
	"fmt"

	"golang.org/x/text/encoding/htmlindex"
)

// DefaultBufferCapacity is the initial size of the line buffer.
const DefaultBufferCapacity = 64 * 1024

// BinaryMode selects what happens when binary data is detected.
type BinaryMode int

const (
	BinaryNone    BinaryMode = iota // no detection
	BinaryConvert                   // treat the indicator byte as a line terminator
	BinaryQuit                      // stop searching at the indicator byte
)

func (m BinaryMode) String() string {
	switch m {
	case BinaryConvert:
		return "convert"
	case BinaryQuit:
		return "quit"
	}
	return "none"
}

// BinaryDetection pairs a policy with the byte that marks binary content.
type BinaryDetection struct {
	Mode BinaryMode
	Byte byte
}

// QuitOnBinary stops searching an input at the first occurrence of b.
func QuitOnBinary(b byte) BinaryDetection { return BinaryDetection{Mode: BinaryQuit, Byte: b} }

// ConvertBinary replaces every occurrence of b with the line terminator.
func ConvertBinary(b byte) BinaryDetection { return BinaryDetection{Mode: BinaryConvert, Byte: b} }

// Encoding directives understood besides WHATWG labels.
const (
	EncodingAuto = ""     // sniff a BOM; UTF-8 BOMs are stripped, UTF-16 is decoded
	EncodingNone = "none" // search raw bytes
)

// Config holds the options for a Searcher. It is copied by New and never
// modified afterwards.
type Config struct {
	LineTerminator byte
	// CRLF tells consumers that line content ends before a trailing '\r'.
	// The terminator itself is still LineTerminator.
	CRLF          bool
	MultiLine     bool
	InvertMatch   bool
	BeforeContext int
	AfterContext  int
	// Passthru reports every non-matching line as ContextOther. Before and
	// after context are ignored when set.
	Passthru bool
	Binary   BinaryDetection
	// MaxLineLength fails the search with a LineTooLongError when a line is
	// longer than this many bytes. Zero means unbounded.
	MaxLineLength int
	// HeapLimit caps the bytes held in memory by the multiline path.
	// Zero means unbounded.
	HeapLimit      int64
	LineNumber     bool
	ByteOffset     bool
	Encoding       string
	BufferCapacity int
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		LineTerminator: '\n',
		LineNumber:     true,
		ByteOffset:     true,
		BufferCapacity: DefaultBufferCapacity,
	}
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.BeforeContext < 0 {
		return fmt.Errorf("invalid context before: %d", c.BeforeContext)
	}
	if c.AfterContext < 0 {
		return fmt.Errorf("invalid context after: %d", c.AfterContext)
	}
	if c.MaxLineLength < 0 {
		return fmt.Errorf("invalid max line length: %d", c.MaxLineLength)
	}
	if c.HeapLimit < 0 {
		return fmt.Errorf("invalid heap limit: %d", c.HeapLimit)
	}
	if c.BufferCapacity < 0 {
		return fmt.Errorf("invalid buffer capacity: %d", c.BufferCapacity)
	}
	if c.Binary.Mode == BinaryConvert && c.Binary.Byte == c.LineTerminator {
		return fmt.Errorf("binary byte %#x cannot be the line terminator", c.Binary.Byte)
	}
	if c.Encoding != EncodingAuto && c.Encoding != EncodingNone {
		if _, err := htmlindex.Get(c.Encoding); err != nil {
			return fmt.Errorf("unknown encoding %q", c.Encoding)
		}
	}
	return nil
}

func (c *Config) beforeContext() int {
	if c.Passthru {
		return 0
	}
	return c.BeforeContext
}

func (c *Config) afterContext() int {
	if c.Passthru {
		return 0
	}
	return c.AfterContext
}

func (c *Config) anyContext() bool {
	return c.beforeContext() > 0 || c.afterContext() > 0
}
