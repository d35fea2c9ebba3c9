package dib

// ScanlineDecoder is the narrow capability set DESIGN NOTES (spec.md §9)
// calls for: "a narrow capability set {scanline(i), skip_to_scanline(i,
// pause), bpc, width, n_components, pitch}". Concrete codecs are tagged
// variants implementing it; DecodeDriver never type-switches on which
// one it holds.
type ScanlineDecoder interface {
	Scanline(i int) ([]byte, error)
	SkipToScanline(i int, pause PauseIndicator) (DecodeState, error)
	BPC() int
	Width() int
	NComponents() int
	Pitch() uint32
}

// rowSliceDecoder implements ScanlineDecoder over a fully materialized
// flat buffer (used by the no-filter case and by Flate/CCITT/RunLength/DCT,
// none of which are resumable, and by JBIG2 once its resumable decode has
// finished; JPX output is held in a jpxResult instead).
type rowSliceDecoder struct {
	buf         []byte
	pitch       uint32
	width       int
	height      int
	bpc         int
	nComponents int
}

func (d *rowSliceDecoder) Scanline(i int) ([]byte, error) {
	if i < 0 || i >= d.height {
		return nil, newError(ErrShortRead, "scanline index out of range")
	}
	start := uint64(i) * uint64(d.pitch)
	end := start + uint64(d.pitch)
	if end > uint64(len(d.buf)) {
		row := make([]byte, d.pitch)
		for j := range row {
			row[j] = 0xFF
		}
		return row, nil
	}
	return d.buf[start:end], nil
}

func (d *rowSliceDecoder) SkipToScanline(i int, _ PauseIndicator) (DecodeState, error) {
	if i < 0 || i >= d.height {
		return StateFail, newError(ErrShortRead, "skip index out of range")
	}
	return StateSuccess, nil
}

func (d *rowSliceDecoder) BPC() int         { return d.bpc }
func (d *rowSliceDecoder) Width() int       { return d.width }
func (d *rowSliceDecoder) NComponents() int { return d.nComponents }
func (d *rowSliceDecoder) Pitch() uint32    { return d.pitch }

// newRowSliceDecoder wraps buf as a rowSliceDecoder. C4's "no filter" case
// calls it directly on the raw bytes, which already are the pixel buffer
// (spec.md §4.4).
func newRowSliceDecoder(buf []byte, pitch uint32, width, height, bpc, nComponents int) *rowSliceDecoder {
	return &rowSliceDecoder{buf: buf, pitch: pitch, width: width, height: height, bpc: bpc, nComponents: nComponents}
}
