package dib

import "github.com/finalversus/dibcore/colorspace"

// JpxOpenHint tells the bitstream decoder which colorspace family the
// PDF dictionary declared, per spec.md §4.5 step 1.
type JpxOpenHint int

const (
	JpxNoColorSpace JpxOpenHint = iota
	JpxIndexedColorSpace
	JpxNormalColorSpace
)

// JpxColorSpaceTag is the JPX bitstream's own embedded colorspace
// signal, used only to detect the "3-declared, 4-actual, sRGB" iOS-bug
// workaround case in the negotiation table.
type JpxColorSpaceTag int

const (
	JpxColorSpaceUnknown JpxColorSpaceTag = iota
	JpxColorSpaceSRGB
)

// JpxImageInfo is what the bitstream decoder reports after Open.
type JpxImageInfo struct {
	Width, Height int
	Components    int
	ColorSpaceTag JpxColorSpaceTag
}

// JpxBitstreamDecoder is the pluggable seam for a JPEG2000 codestream
// decoder. spec.md §1 lists "the actual codec libraries ... JPEG2000"
// as out of scope, specified only by the interface they implement; no
// example repo in the retrieval pack imports an importable JPX/JPEG2000
// decoding library (DESIGN.md records the search), so dibcore defines
// this interface and implements the negotiation logic in §4.5 against
// it, grounded directly on cpdf_dib.cpp's LoadJpxBitmap/GetJpxDecodeAction.
type JpxBitstreamDecoder interface {
	Open(data []byte, hint JpxOpenHint) error
	Info() (JpxImageInfo, error)
	// Decode fills dst with one byte per sample, row-major,
	// info.Components bytes per pixel, no padding.
	Decode(dst []byte) error
}

type jpxAction int

const (
	jpxDoNothing jpxAction = iota
	jpxUseRgb
	jpxConvertArgbToRgb
	jpxUseCmyk
	jpxFail
)

// getJpxDecodeAction mirrors cpdf_dib.cpp's GetJpxDecodeAction table
// (spec.md §4.5 step 3).
func getJpxDecodeAction(hasColorSpace bool, declaredComponents int, family colorspace.Family, jpxComponents int, jpxTag JpxColorSpaceTag) jpxAction {
	if hasColorSpace {
		if jpxComponents == declaredComponents {
			if family == colorspace.FamilyDeviceRGB {
				return jpxUseRgb
			}
			return jpxDoNothing
		}
		if declaredComponents == 3 && jpxComponents == 4 && jpxTag == JpxColorSpaceSRGB {
			return jpxConvertArgbToRgb
		}
		return jpxFail
	}
	switch jpxComponents {
	case 3:
		return jpxUseRgb
	case 4:
		return jpxUseCmyk
	default:
		return jpxDoNothing
	}
}

// jpxResult is C5's fully materialized output (spec.md §4.5 step 8: bpc
// is always finalized to 8).
type jpxResult struct {
	buf         []byte
	pitch       uint32
	width       int
	height      int
	nComponents int
	format      OutputFormat
	colorSpace  colorspace.ColorSpace
	family      colorspace.Family
	smaskInData []byte // extracted Gray8 alpha plane, nil unless harvested
}

// loadJpx implements C5 end to end (spec.md §4.5).
func loadJpx(p *ImageParams, dict Dict, raw []byte, open func() JpxBitstreamDecoder) (*jpxResult, error) {
	hint := JpxNormalColorSpace
	hasColorSpace := p.ColorSpace != nil
	if !hasColorSpace {
		hint = JpxNoColorSpace
	} else if p.Family == colorspace.FamilyIndexed {
		hint = JpxIndexedColorSpace
	}

	bs := open()
	if err := bs.Open(raw, hint); err != nil {
		return nil, wrapError(ErrDecoderInit, "jpx: open", err)
	}
	info, err := bs.Info()
	if err != nil {
		return nil, wrapError(ErrDecoderInit, "jpx: info", err)
	}
	if info.Width < p.Width || info.Height < p.Height {
		return nil, newError(ErrBadDimensions, "jpx: bitstream smaller than declared dimensions")
	}

	declaredComponents := 0
	if hasColorSpace {
		declaredComponents = p.NComponents
	}
	action := getJpxDecodeAction(hasColorSpace, declaredComponents, p.Family, info.Components, info.ColorSpaceTag)
	if action == jpxFail {
		return nil, newError(ErrBadColorSpace, "jpx: colorspace/component mismatch")
	}

	raw8 := make([]byte, p.Width*p.Height*info.Components)
	if err := bs.Decode(raw8); err != nil {
		return nil, wrapError(ErrDecoderCorrupt, "jpx: decode", err)
	}

	swapRGB := action == jpxUseRgb || action == jpxConvertArgbToRgb

	res := &jpxResult{width: p.Width, height: p.Height}

	switch {
	case action == jpxConvertArgbToRgb:
		res.nComponents = 3
		res.format = FormatBgr24
		res.pitch, _ = alignedPitch24(p.Width)
		res.buf = make([]byte, int(res.pitch)*p.Height)

		smaskInData, _ := dictGetInt(dict, "SMaskInData")
		var alpha []byte
		if smaskInData == 1 {
			alpha = make([]byte, p.Width*p.Height)
		}
		for y := 0; y < p.Height; y++ {
			srcRow := raw8[y*p.Width*4 : (y+1)*p.Width*4]
			dstRow := res.buf[uint64(y)*uint64(res.pitch):]
			for x := 0; x < p.Width; x++ {
				r := srcRow[x*4+0]
				g := srcRow[x*4+1]
				b := srcRow[x*4+2]
				a := srcRow[x*4+3]
				pr := (uint16(r)*uint16(a) + 255*uint16(255-a)) / 255
				pg := (uint16(g)*uint16(a) + 255*uint16(255-a)) / 255
				pb := (uint16(b)*uint16(a) + 255*uint16(255-a)) / 255
				dstRow[x*3+0] = byte(pb)
				dstRow[x*3+1] = byte(pg)
				dstRow[x*3+2] = byte(pr)
				if alpha != nil {
					alpha[y*p.Width+x] = a
				}
			}
		}
		res.smaskInData = alpha

	case info.Components == 1:
		res.nComponents = 1
		res.format = FormatGray8
		res.pitch, _ = alignedPitchN(8, p.Width)
		res.buf = make([]byte, int(res.pitch)*p.Height)
		for y := 0; y < p.Height; y++ {
			copy(res.buf[uint64(y)*uint64(res.pitch):], raw8[y*p.Width:(y+1)*p.Width])
		}

	case info.Components == 2 || info.Components == 3:
		res.nComponents = info.Components
		res.format = FormatBgr24
		res.pitch, _ = alignedPitch24(p.Width)
		res.buf = make([]byte, int(res.pitch)*p.Height)
		nc := info.Components
		for y := 0; y < p.Height; y++ {
			srcRow := raw8[y*p.Width*nc : (y+1)*p.Width*nc]
			dstRow := res.buf[uint64(y)*uint64(res.pitch):]
			for x := 0; x < p.Width; x++ {
				var r, g, b byte
				if nc == 3 {
					r, g, b = srcRow[x*3+0], srcRow[x*3+1], srcRow[x*3+2]
				} else {
					r = srcRow[x*2]
					g = r
					b = r
				}
				if swapRGB {
					dstRow[x*3+0], dstRow[x*3+1], dstRow[x*3+2] = b, g, r
				} else {
					dstRow[x*3+0], dstRow[x*3+1], dstRow[x*3+2] = r, g, b
				}
			}
		}

	case info.Components == 4 && action == jpxUseCmyk:
		res.nComponents = 4
		res.format = FormatBgra32
		res.colorSpace = colorspace.Stock(colorspace.FamilyDeviceCMYK)
		res.family = colorspace.FamilyDeviceCMYK
		res.pitch = uint32(p.Width * 4)
		res.buf = make([]byte, int(res.pitch)*p.Height)
		copy(res.buf, raw8)

	case info.Components == 4:
		res.nComponents = 4
		res.format = FormatBgra32
		res.pitch = uint32(p.Width * 4)
		res.buf = make([]byte, int(res.pitch)*p.Height)
		copy(res.buf, raw8)

	default:
		// >= 5 components: Bayer-style repacking into a rewritten width,
		// preserved as specified but flagged fragile (spec.md §9).
		nc := info.Components
		wOut := (p.Width*nc + 2) / 3
		res.nComponents = 3
		res.format = FormatBgr24
		res.pitch, _ = alignedPitch24(wOut)
		res.width = wOut
		res.buf = make([]byte, int(res.pitch)*p.Height)
		rowBytes := p.Width * nc
		for y := 0; y < p.Height; y++ {
			n := rowBytes
			if n > int(res.pitch) {
				n = int(res.pitch)
			}
			copy(res.buf[uint64(y)*uint64(res.pitch):], raw8[y*rowBytes:y*rowBytes+n])
		}
	}

	if p.Family == colorspace.FamilyIndexed && p.BPC < 8 {
		shift := uint(8 - p.BPC)
		for i := range res.buf {
			res.buf[i] >>= shift
		}
	}

	return res, nil
}

func alignedPitch24(w int) (uint32, bool) {
	return alignedPitchN(24, w)
}

func alignedPitchN(bpp, w int) (uint32, bool) {
	n := (bpp*w + 31) / 32 * 4
	if n < 0 {
		return 0, false
	}
	return uint32(n), true
}
