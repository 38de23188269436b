package searcher

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF}, // UTF-8
	{0xFF, 0xFE},       // UTF-16LE
	{0xFE, 0xFF},       // UTF-16BE
}

func hasBOM(data []byte) bool {
	for _, bom := range boms {
		if bytes.HasPrefix(data, bom) {
			return true
		}
	}
	return false
}

// needsDecoding reports whether data has to pass through the transcoder.
func (s *Searcher) needsDecoding(data []byte) bool {
	switch {
	case s.cfg.Encoding == EncodingNone:
		return false
	case s.enc != nil:
		return true
	}
	return hasBOM(data)
}

// decode wraps r so that a BOM selects the decoder. Without a BOM the
// configured encoding is used, or bytes pass through unchanged.
func (s *Searcher) decode(r io.Reader) io.Reader {
	if s.cfg.Encoding == EncodingNone {
		return r
	}
	var fallback transform.Transformer = transform.Nop
	if s.enc != nil {
		fallback = s.enc.NewDecoder()
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback))
}
