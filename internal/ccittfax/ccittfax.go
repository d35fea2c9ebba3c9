// Package ccittfax decodes CCITTFaxDecode image streams. dibcore has no
// fax decoder of its own to ground on (finalversus/doc's CCITTFaxEncoder
// in pdf/core/encoding.go wraps an internal/ccittfax package that Go's
// internal/ visibility rules forbid importing from outside that
// module), so this wraps golang.org/x/image/ccitt instead — a real,
// already-pack-adjacent dependency (finalversus/doc's own go.mod and
// several other example repos import golang.org/x/image).
package ccittfax

import (
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// Params mirrors the PDF CCITTFaxDecode DecodeParms this package needs.
type Params struct {
	K                      int
	Columns                int
	Rows                   int
	BlackIs1               bool
	EncodedByteAlign       bool
	EndOfBlock             bool
}

// Decode fully decodes a CCITT fax stream into a packed 1-bpp bitmap,
// rows*ceil(columns/8) bytes, MSB-first, matching the PDF convention
// (0 = black unless BlackIs1).
func Decode(encoded []byte, p Params) ([]byte, error) {
	mode := ccitt.Group4
	if p.K >= 0 {
		mode = ccitt.Group3
	}

	opts := &ccitt.Options{
		Invert: !p.BlackIs1,
		Align:  p.EncodedByteAlign,
	}

	r := ccitt.NewReader(bytesReader(encoded), ccitt.MSB, mode, p.Columns, p.Rows, opts)
	out := make([]byte, 0, (p.Columns+7)/8*maxInt(p.Rows, 1))
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ccittfax: decode: %w", err)
		}
	}
	return out, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type byteReader struct {
	b []byte
	i int
}

func bytesReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}
