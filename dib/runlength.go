package dib

// decodeRunLength implements the PDF RunLengthDecode algorithm directly
// against the standard library: a length byte of 128 ends the stream;
// 0-127 copies the next length+1 literal bytes; 129-255 repeats the
// following byte (257-length) times. This is grounded on the PDF
// specification's own description of the filter (finalversus/doc's
// pdf/core/encoding.go RunLengthEncoder implements the same algorithm,
// but as an encoder/decoder pair around *PdfObjectStream*; only the
// decode direction, rewritten against a plain byte slice, is needed
// here). It is implemented directly on []byte rather than via a
// dependency: the algorithm is a single short loop and no example repo
// imports a library for it.
func decodeRunLength(encoded []byte) ([]byte, error) {
	out := make([]byte, 0, len(encoded)*2)
	i := 0
	for i < len(encoded) {
		length := encoded[i]
		i++
		switch {
		case length == 128:
			return out, nil
		case length < 128:
			n := int(length) + 1
			if i+n > len(encoded) {
				n = len(encoded) - i
			}
			out = append(out, encoded[i:i+n]...)
			i += n
		default:
			if i >= len(encoded) {
				return out, nil
			}
			b := encoded[i]
			i++
			for k := 0; k < 257-int(length); k++ {
				out = append(out, b)
			}
		}
	}
	return out, nil
}
