package dib

import (
	"github.com/finalversus/dibcore/colorspace"
	"github.com/finalversus/dibcore/internal/bitio"
	"github.com/finalversus/dibcore/internal/pitch"
)

// outputLayout reports the canonical format and pitch a given
// ImageParams will render to, independent of whether the source row is
// actually available (spec.md §3 OutputFormat, §4.8).
func outputLayout(p *ImageParams) (OutputFormat, uint32) {
	total := p.BPC * p.NComponents
	switch {
	case total == 1:
		if p.HasColorKey {
			return FormatBgra32, uint32(p.Width * 4)
		}
		rowPitch, _ := pitch.Aligned32(1, p.Width)
		return FormatMask1, rowPitch
	case total <= 8:
		if p.HasColorKey {
			return FormatBgra32, uint32(p.Width * 4)
		}
		return FormatGray8, uint32(p.Width)
	default:
		if p.HasColorKey {
			return FormatBgra32, uint32(p.Width * 4)
		}
		return FormatBgr24, uint32(p.Width * 3)
	}
}

// renderScanline is C8: given the acquired source row (nil means short
// read), produce the canonical output row (spec.md §4.8).
func renderScanline(p *ImageParams, srcRow []byte, palette []uint32, transMask bool) []byte {
	_, outPitch := outputLayout(p)
	if srcRow == nil {
		row := make([]byte, outPitch)
		for i := range row {
			row[i] = 0xFF
		}
		return row
	}

	total := p.BPC * p.NComponents

	switch {
	case total == 1:
		return render1Bpp(p, srcRow, palette, outPitch)
	case total <= 8:
		return renderIndexed(p, srcRow, palette, outPitch)
	default:
		return render24Bpp(p, srcRow, palette, transMask, outPitch)
	}
}

func render1Bpp(p *ImageParams, srcRow []byte, palette []uint32, outPitch uint32) []byte {
	if p.IsImageMask && p.DefaultDecode {
		out := make([]byte, outPitch)
		n := int(outPitch)
		if n > len(srcRow) {
			n = len(srcRow)
		}
		for i := 0; i < n; i++ {
			out[i] = ^srcRow[i]
		}
		return out
	}

	if !p.HasColorKey {
		out := make([]byte, outPitch)
		n := int(outPitch)
		if n > len(srcRow) {
			n = len(srcRow)
		}
		copy(out, srcRow[:n])
		return out
	}

	keyMin, keyMax := 0, 1
	if len(p.ColorKey) > 0 {
		keyMin, keyMax = p.ColorKey[0].Min, p.ColorKey[0].Max
	}
	var setValue, resetValue uint32
	if keyMax == 1 {
		setValue = 0
	} else if len(palette) > 1 {
		setValue = palette[1]
	} else {
		setValue = 0xFFFFFFFF
	}
	if keyMin == 0 {
		resetValue = 0
	} else if len(palette) > 0 {
		resetValue = palette[0]
	} else {
		resetValue = 0xFF000000
	}

	out := make([]byte, outPitch)
	for x := 0; x < p.Width; x++ {
		pixel := resetValue
		if bitio.GetBit(srcRow, uint64(x)) {
			pixel = setValue
		}
		out[x*4+0] = byte(pixel)
		out[x*4+1] = byte(pixel >> 8)
		out[x*4+2] = byte(pixel >> 16)
		out[x*4+3] = byte(pixel >> 24)
	}
	return out
}

func renderIndexed(p *ImageParams, srcRow []byte, palette []uint32, outPitch uint32) []byte {
	total := p.BPC * p.NComponents

	indices := make([]uint32, p.Width)
	if p.BPC == 8 && p.NComponents == 1 {
		for x := 0; x < p.Width && x < len(srcRow); x++ {
			indices[x] = uint32(srcRow[x])
		}
	} else {
		// Compose per component rather than reading the whole total-width
		// field at once: GetBits only supports {1,2,4,8,16}-bit fields, and
		// component 0 belongs in the low bits (matches palette.go's index
		// convention), not the high bits a single big-endian read would put
		// it in.
		for x := 0; x < p.Width; x++ {
			var idx uint32
			off := uint64(x * total)
			for j := 0; j < p.NComponents; j++ {
				idx |= bitio.GetBits(srcRow, off, uint64(p.BPC)) << uint(j*p.BPC)
				off += uint64(p.BPC)
			}
			indices[x] = idx
		}
	}

	if !p.HasColorKey {
		out := make([]byte, outPitch)
		for x := 0; x < p.Width; x++ {
			out[x] = byte(indices[x])
		}
		return out
	}

	out := make([]byte, outPitch)
	maxCode := uint32(1)<<uint(p.BPC) - 1
	for x := 0; x < p.Width; x++ {
		idx := indices[x]
		var bgr uint32
		if len(palette) > int(idx) {
			bgr = palette[idx]
		} else {
			bgr = idx | idx<<8 | idx<<16
		}
		inKey := true
		for j := 0; j < p.NComponents; j++ {
			code := (idx >> uint(j*p.BPC)) & maxCode
			if j >= len(p.ColorKey) || int(code) < p.ColorKey[j].Min || int(code) > p.ColorKey[j].Max {
				inKey = false
				break
			}
		}
		alpha := byte(0)
		if inKey {
			alpha = 0xFF
		}
		out[x*4+0] = byte(bgr)
		out[x*4+1] = byte(bgr >> 8)
		out[x*4+2] = byte(bgr >> 16)
		out[x*4+3] = alpha
	}
	return out
}

func render24Bpp(p *ImageParams, srcRow []byte, palette []uint32, transMask bool, outPitch uint32) []byte {
	var bgr []byte
	if p.DefaultDecode {
		if row, ok := render24BppDefaultDecode(p, srcRow, transMask); ok {
			bgr = row
		}
	}
	if bgr == nil {
		bgr = render24BppSlow(p, srcRow, transMask)
	}
	return expandWithColorKey(p, srcRow, bgr, outPitch)
}

// render24BppDefaultDecode mirrors TranslateScanline24bppDefaultDecode's
// fast paths (spec.md §4.8).
func render24BppDefaultDecode(p *ImageParams, srcRow []byte, transMask bool) ([]byte, bool) {
	isRGBFamily := p.Family == colorspace.FamilyDeviceRGB || p.Family == colorspace.FamilyCalRGB
	if !isRGBFamily {
		if p.BPC != 8 {
			return nil, false
		}
		out := make([]byte, p.Width*3)
		p.ColorSpace.TranslateImageLine(out, srcRow, p.Width, p.Width*p.NComponents, 1, transMask)
		return out, true
	}

	if p.NComponents != 3 {
		return nil, false
	}
	out := make([]byte, p.Width*3)
	switch p.BPC {
	case 8:
		for x := 0; x < p.Width; x++ {
			r, g, b := srcRow[x*3+0], srcRow[x*3+1], srcRow[x*3+2]
			out[x*3+0], out[x*3+1], out[x*3+2] = b, g, r
		}
	case 16:
		for x := 0; x < p.Width; x++ {
			r := srcRow[x*6+0]
			g := srcRow[x*6+2]
			b := srcRow[x*6+4]
			out[x*3+0], out[x*3+1], out[x*3+2] = b, g, r
		}
	default:
		maxCode := uint64(1)<<uint(p.BPC) - 1
		for x := 0; x < p.Width; x++ {
			for c := 0; c < 3; c++ {
				code := uint64(bitio.GetBits(srcRow, uint64((x*3+c)*p.BPC), uint64(p.BPC)))
				if code > maxCode {
					code = maxCode
				}
				v := byte(code * 255 / maxCode)
				out[x*3+(2-c)] = v
			}
		}
	}
	return out, true
}

// render24BppSlow mirrors the per-column, per-component slow path
// (spec.md §4.8).
func render24BppSlow(p *ImageParams, srcRow []byte, transMask bool) []byte {
	out := make([]byte, p.Width*3)
	values := make([]float64, p.NComponents)
	for x := 0; x < p.Width; x++ {
		for c := 0; c < p.NComponents; c++ {
			var code uint64
			if p.BPC == 8 {
				code = uint64(srcRow[x*p.NComponents+c])
			} else {
				code = uint64(bitio.GetBits(srcRow, uint64((x*p.NComponents+c)*p.BPC), uint64(p.BPC)))
			}
			dec := p.Decode[c]
			values[c] = dec.Min + dec.Step*float64(code)
		}

		var r, g, b float64
		switch {
		case transMask:
			k := 1 - values[3]
			r = (1 - values[0]) * k
			g = (1 - values[1]) * k
			b = (1 - values[2]) * k
		case p.Family != colorspace.FamilyPattern:
			r, g, b = p.ColorSpace.ToRGB(values)
		}
		out[x*3+0] = clampByte(b)
		out[x*3+1] = clampByte(g)
		out[x*3+2] = clampByte(r)
	}
	return out
}

// expandWithColorKey interleaves a precomputed Bgr24 row with a color-key
// alpha byte to produce Bgra32 when the image carries a color key. Per-pixel
// key matching is only meaningful for the 3-component, 8-bpc case; every
// other configuration gets a uniformly opaque alpha channel (spec.md §4.8).
func expandWithColorKey(p *ImageParams, srcRow, bgr []byte, outPitch uint32) []byte {
	if !p.HasColorKey {
		return bgr
	}
	exact := p.NComponents == 3 && p.BPC == 8 && len(p.ColorKey) == 3
	out := make([]byte, outPitch)
	for x := 0; x < p.Width; x++ {
		alpha := byte(0xFF)
		if exact {
			alpha = 0
			inKey := true
			for c := 0; c < 3; c++ {
				code := int(srcRow[x*3+c])
				if code < p.ColorKey[c].Min || code > p.ColorKey[c].Max {
					inKey = false
					break
				}
			}
			if inKey {
				alpha = 0xFF
			}
		}
		out[x*4+0] = bgr[x*3+0]
		out[x*4+1] = bgr[x*3+1]
		out[x*4+2] = bgr[x*3+2]
		out[x*4+3] = alpha
	}
	return out
}
