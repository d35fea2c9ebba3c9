package flatecodec

import (
	"bytes"
	"testing"
)

// zlibStoredBlock is a hand-built zlib stream (CMF/FLG header + a
// single uncompressed "stored" deflate block + trailing Adler-32) that
// inflates to {1,2,3,4}, used to exercise Decode without depending on a
// compression library at test-generation time.
var zlibStoredBlock = []byte{
	0x78, 0x01, // zlib header
	0x01,             // deflate: BFINAL=1, BTYPE=00 (stored)
	0x04, 0x00,       // LEN=4
	0xFB, 0xFF,       // NLEN = ^LEN
	0x01, 0x02, 0x03, 0x04, // literal payload
	0x00, 0x18, 0x00, 0x0B, // Adler-32 of {1,2,3,4}, big-endian
}

func TestDecodeNoPredictor(t *testing.T) {
	out, err := Decode(zlibStoredBlock, Params{Predictor: PredictorNone})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, []byte{1, 2, 3, 4}) {
		t.Errorf("Decode = %v, want [1 2 3 4]", out)
	}
}

func TestDecodeBadZlib(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x00}, Params{}); err == nil {
		t.Error("expected an error decoding garbage input")
	}
}

func TestUndoPredictorTIFF(t *testing.T) {
	// Two rows, 3 columns, 1 color: each row's deltas are cumulative.
	data := []byte{10, 1, 1, 20, 2, 2}
	out, err := undoPredictor(data, Params{Predictor: PredictorTIFF, Columns: 3, Colors: 1})
	if err != nil {
		t.Fatalf("undoPredictor: %v", err)
	}
	want := []byte{10, 11, 12, 20, 22, 24}
	if !bytes.Equal(out, want) {
		t.Errorf("TIFF predictor = %v, want %v", out, want)
	}
}

func TestUndoPredictorPNGNone(t *testing.T) {
	// filter byte 0 (None) on every row: output equals input sans filter bytes.
	data := []byte{0, 1, 2, 3, 0, 4, 5, 6}
	out, err := undoPredictor(data, Params{Predictor: 10, Columns: 3, Colors: 1})
	if err != nil {
		t.Fatalf("undoPredictor: %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(out, want) {
		t.Errorf("PNG None predictor = %v, want %v", out, want)
	}
}

func TestUndoPredictorPNGUp(t *testing.T) {
	data := []byte{0, 1, 2, 3, 2, 1, 1, 1}
	out, err := undoPredictor(data, Params{Predictor: 10, Columns: 3, Colors: 1})
	if err != nil {
		t.Fatalf("undoPredictor: %v", err)
	}
	want := []byte{1, 2, 3, 2, 3, 4}
	if !bytes.Equal(out, want) {
		t.Errorf("PNG Up predictor = %v, want %v", out, want)
	}
}

func TestPaeth(t *testing.T) {
	if got := paeth(0, 0, 0); got != 0 {
		t.Errorf("paeth(0,0,0) = %d, want 0", got)
	}
	if got := paeth(10, 20, 0); got != 20 {
		t.Errorf("paeth(10,20,0) = %d, want 20 (b closest)", got)
	}
}
