// Package pitch implements C2: overflow-checked row-pitch arithmetic.
// Grounded on cpdf_dib.cpp's fxcodec::CalculatePitch8/CalculatePitch32,
// reimplemented with Go's math/bits overflow-free multiplication in
// place of pdfium's FX_SAFE_UINT32 saturating-arithmetic wrapper.
package pitch

import "math/bits"

// maxUint32 is the ceiling every pitch computation here must respect;
// exceeding it is always an overflow failure, never silent truncation.
const maxUint32 = 0xFFFFFFFF

func mulOverflows32(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 || lo > maxUint32 {
		return 0, true
	}
	return lo, false
}

// BytesPerRow computes ceil(bpc*nComponents*width/8), the number of
// bytes one packed scanline occupies before any 32-bit row alignment.
// Returns ok=false on overflow past 32 bits.
func BytesPerRow(bpc, nComponents, width int) (n uint32, ok bool) {
	if bpc < 0 || nComponents < 0 || width < 0 {
		return 0, false
	}
	bits64, of := mulOverflows32(uint64(bpc)*uint64(nComponents), uint64(width))
	if of {
		return 0, false
	}
	total := bits64 + 7
	if total < bits64 {
		return 0, false
	}
	return uint32(total / 8), true
}

// Aligned32 computes ((bpp*width+31)/32)*4: the row pitch in bytes once
// padded to a 32-bit boundary, the convention the Mask1 output format and
// the JBIG2 target bitmap use.
func Aligned32(bpp, width int) (n uint32, ok bool) {
	if bpp < 0 || width < 0 {
		return 0, false
	}
	bitsTotal, of := mulOverflows32(uint64(bpp), uint64(width))
	if of {
		return 0, false
	}
	padded := bitsTotal + 31
	if padded < bitsTotal {
		return 0, false
	}
	words := padded / 32
	bytes64 := words * 4
	if bytes64 > maxUint32 {
		return 0, false
	}
	return uint32(bytes64), true
}

// TotalSize checks that width*height*rowPitch fits in 32 bits, the
// final guard every buffer allocation site in this module must pass
// before calling make([]byte, ...).
func TotalSize(width, height int, rowPitch uint32) (n uint32, ok bool) {
	if width < 0 || height < 0 {
		return 0, false
	}
	v, of := mulOverflows32(uint64(width)*uint64(height), uint64(rowPitch))
	if of {
		return 0, false
	}
	return uint32(v), true
}
