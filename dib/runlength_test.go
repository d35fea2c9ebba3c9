package dib

import (
	"bytes"
	"testing"
)

func TestDecodeRunLengthLiteral(t *testing.T) {
	// length byte 2 => copy the next 3 literal bytes, then EOD (128).
	in := []byte{2, 'a', 'b', 'c', 128}
	out, err := decodeRunLength(in)
	if err != nil {
		t.Fatalf("decodeRunLength: %v", err)
	}
	if !bytes.Equal(out, []byte("abc")) {
		t.Errorf("decodeRunLength(%v) = %q, want %q", in, out, "abc")
	}
}

func TestDecodeRunLengthRepeat(t *testing.T) {
	// length byte 255 => repeat the following byte (257-255)=2 times.
	in := []byte{255, 'x', 128}
	out, err := decodeRunLength(in)
	if err != nil {
		t.Fatalf("decodeRunLength: %v", err)
	}
	if !bytes.Equal(out, []byte("xx")) {
		t.Errorf("decodeRunLength(%v) = %q, want %q", in, out, "xx")
	}
}

func TestDecodeRunLengthMixed(t *testing.T) {
	in := []byte{1, 'h', 'i', 254, '!', 128}
	out, err := decodeRunLength(in)
	if err != nil {
		t.Fatalf("decodeRunLength: %v", err)
	}
	if !bytes.Equal(out, []byte("hi!!!")) {
		t.Errorf("decodeRunLength(%v) = %q, want %q", in, out, "hi!!!")
	}
}

func TestDecodeRunLengthNoEOD(t *testing.T) {
	// Missing the terminating 128 byte: decode what is there and stop.
	in := []byte{0, 'z'}
	out, err := decodeRunLength(in)
	if err != nil {
		t.Fatalf("decodeRunLength: %v", err)
	}
	if !bytes.Equal(out, []byte("z")) {
		t.Errorf("decodeRunLength(%v) = %q, want %q", in, out, "z")
	}
}
