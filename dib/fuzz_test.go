package dib

import (
	"testing"

	"github.com/finalversus/dibcore/colorspace"
)

// FuzzStart feeds arbitrary dimensions and payload bytes through the
// full Start pipeline for a no-filter DeviceGray image; the only
// invariant under fuzzing is "never panic", mirroring the teacher's own
// TestFuzz* regression style (pdf/core/fuzz_test.go) adapted to Go's
// native fuzzing harness since dibcore's failure surface is payload
// bytes and declared dimensions, not a text grammar.
func FuzzStart(f *testing.F) {
	f.Add(1, 1, 8, []byte{0})
	f.Add(0, 1, 8, []byte{})
	f.Add(2, 2, 1, []byte{0xFF})
	f.Add(100000, 100000, 16, []byte{1, 2, 3, 4})
	f.Add(-1, 1, 8, []byte{0})

	f.Fuzz(func(t *testing.T, width, height, bpc int, payload []byte) {
		dict := fakeDict{
			"Width":            Integer(int64(width)),
			"Height":           Integer(int64(height)),
			"BitsPerComponent": Integer(int64(bpc)),
			"ColorSpace":       Name("DeviceGray"),
		}
		stream := &fakeStream{fakeDict: fakeDict{}, data: payload}

		d, _, err := Start(dict, stream, stockOnlyResolver{}, nil, nil, false, true, colorspace.FamilyUnknown, false, nil)
		if err != nil || d == nil {
			return
		}
		_ = d.Scanline(0)
		_ = d.Format()
		_ = d.Pitch()
	})
}
