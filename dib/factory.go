package dib

import (
	"github.com/finalversus/dibcore/colorspace"
	"github.com/finalversus/dibcore/internal/ccittfax"
	"github.com/finalversus/dibcore/internal/dctcodec"
	"github.com/finalversus/dibcore/internal/flatecodec"
	"github.com/finalversus/dibcore/internal/pitch"
)

// factoryResult is C4's outcome: either a ready ScanlineDecoder, a
// pending JBIG2 pipeline awaiting continuation, or a fully materialized
// JPX bitmap (spec.md §4.4).
type factoryResult struct {
	decoder ScanlineDecoder
	jbig2   *jbig2Pipeline
	jpx     *jpxResult
}

// createDecoder is C4: instantiate the correct scanline decoder for the
// last filter in the chain.
func createDecoder(p *ImageParams, dict Dict, src Stream, raw []byte, openJpx func() JpxBitstreamDecoder) (factoryResult, DecodeState, error) {
	switch p.LastFilter {
	case "":
		rowPitch, ok := pitch.BytesPerRow(p.BPC, p.NComponents, p.Width)
		if !ok {
			return factoryResult{}, StateFail, newError(ErrArithmeticOverflow, "raw: pitch overflow")
		}
		dec := newRowSliceDecoder(raw, rowPitch, p.Width, p.Height, p.BPC, p.NComponents)
		return factoryResult{decoder: dec}, StateSuccess, nil

	case "JPXDecode":
		res, err := loadJpx(p, dict, raw, openJpx)
		if err != nil {
			return factoryResult{}, StateFail, err
		}
		applyJpxOverrides(p, res)
		return factoryResult{jpx: res}, StateSuccess, nil

	case "JBIG2Decode":
		pl, state, err := startJbig2(p, src, raw)
		if err != nil {
			return factoryResult{}, StateFail, err
		}
		if state == StateSuccess {
			return factoryResult{decoder: pl.scanlineDecoder()}, StateSuccess, nil
		}
		return factoryResult{jbig2: pl}, state, nil

	case "CCITTFaxDecode":
		params := ccittfax.Params{K: -1, Columns: p.Width, Rows: p.Height, BlackIs1: false, EncodedByteAlign: false, EndOfBlock: true}
		if p.FilterParams != nil {
			if v, ok := dictGetInt(p.FilterParams, "K"); ok {
				params.K = int(v)
			}
			if v, ok := dictGetInt(p.FilterParams, "Columns"); ok {
				params.Columns = int(v)
			}
			if v, ok := dictGetInt(p.FilterParams, "Rows"); ok && v > 0 {
				params.Rows = int(v)
			}
			if v, ok := dictGetBool(p.FilterParams, "BlackIs1"); ok {
				params.BlackIs1 = v
			}
			if v, ok := dictGetBool(p.FilterParams, "EncodedByteAlign"); ok {
				params.EncodedByteAlign = v
			}
		}
		out, err := ccittfax.Decode(raw, params)
		if err != nil {
			return factoryResult{}, StateFail, wrapError(ErrDecoderCorrupt, "ccitt: decode", err)
		}
		rowPitch, ok := pitch.BytesPerRow(1, 1, params.Columns)
		if !ok {
			return factoryResult{}, StateFail, newError(ErrArithmeticOverflow, "ccitt: pitch overflow")
		}
		dec := newRowSliceDecoder(out, rowPitch, p.Width, p.Height, 1, 1)
		return factoryResult{decoder: dec}, StateSuccess, nil

	case "FlateDecode":
		fp := flatecodec.Params{Predictor: flatecodec.PredictorNone, Columns: p.Width, Colors: p.NComponents, BPC: p.BPC}
		if p.FilterParams != nil {
			if v, ok := dictGetInt(p.FilterParams, "Predictor"); ok {
				fp.Predictor = flatecodec.Predictor(v)
			}
			if v, ok := dictGetInt(p.FilterParams, "Columns"); ok {
				fp.Columns = int(v)
			}
			if v, ok := dictGetInt(p.FilterParams, "Colors"); ok {
				fp.Colors = int(v)
			}
			if v, ok := dictGetInt(p.FilterParams, "BitsPerComponent"); ok {
				fp.BPC = int(v)
			}
		}
		out, err := flatecodec.Decode(raw, fp)
		if err != nil {
			return factoryResult{}, StateFail, wrapError(ErrDecoderCorrupt, "flate: decode", err)
		}
		rowPitch, ok := pitch.BytesPerRow(p.BPC, p.NComponents, p.Width)
		if !ok {
			return factoryResult{}, StateFail, newError(ErrArithmeticOverflow, "flate: pitch overflow")
		}
		dec := newRowSliceDecoder(out, rowPitch, p.Width, p.Height, p.BPC, p.NComponents)
		return factoryResult{decoder: dec}, StateSuccess, nil

	case "RunLengthDecode":
		out, err := decodeRunLength(raw)
		if err != nil {
			return factoryResult{}, StateFail, wrapError(ErrDecoderCorrupt, "runlength: decode", err)
		}
		rowPitch, ok := pitch.BytesPerRow(p.BPC, p.NComponents, p.Width)
		if !ok {
			return factoryResult{}, StateFail, newError(ErrArithmeticOverflow, "runlength: pitch overflow")
		}
		dec := newRowSliceDecoder(out, rowPitch, p.Width, p.Height, p.BPC, p.NComponents)
		return factoryResult{decoder: dec}, StateSuccess, nil

	case "DCTDecode":
		return createDCTDecoder(p, raw)

	default:
		return factoryResult{}, StateFail, newError(ErrDecoderInit, "unsupported filter: "+p.LastFilter)
	}
}

// createDCTDecoder mirrors CPDF_DIB::CreateDCTDecoder (spec.md §4.4):
// probe the JPEG header and reconcile it against the declared params.
func createDCTDecoder(p *ImageParams, raw []byte) (factoryResult, DecodeState, error) {
	hdr, err := dctcodec.ProbeHeader(raw)
	if err != nil {
		return factoryResult{}, StateFail, wrapError(ErrDecoderInit, "dct: header", err)
	}
	if hdr.BitsPerComponent != 8 || (hdr.NComponents != 1 && hdr.NComponents != 3 && hdr.NComponents != 4) {
		return factoryResult{}, StateFail, newError(ErrDecoderInit, "dct: unsupported header")
	}

	if hdr.NComponents != p.NComponents {
		if !dctComponentChangeAllowed(p, hdr.NComponents) {
			return factoryResult{}, StateFail, newError(ErrBadColorSpace, "dct: header/declared component mismatch")
		}
		p.NComponents = hdr.NComponents
		// The header forced a component-count change: any Decode array
		// parsed against the declared component count no longer lines
		// up, so fall back to the color-space default for every
		// (possibly new) component.
		p.Decode = defaultDecodeForComponents(p)
		p.DefaultDecode = true
		p.HasColorKey = false
	}
	p.BPC = 8

	pix, w, h, _, err := dctcodec.Decode(raw)
	if err != nil {
		return factoryResult{}, StateFail, wrapError(ErrDecoderCorrupt, "dct: decode", err)
	}
	if w < p.Width || h < p.Height {
		return factoryResult{}, StateFail, newError(ErrShortRead, "dct: decoded image smaller than declared")
	}

	rowPitch := uint32(w * p.NComponents)
	dec := newRowSliceDecoder(pix, rowPitch, p.Width, p.Height, 8, p.NComponents)
	return factoryResult{decoder: dec}, StateSuccess, nil
}

func dctComponentChangeAllowed(p *ImageParams, headerComponents int) bool {
	switch p.Family {
	case colorspace.FamilyDeviceGray, colorspace.FamilyCalGray,
		colorspace.FamilyDeviceRGB, colorspace.FamilyCalRGB,
		colorspace.FamilyDeviceCMYK:
		return headerComponents >= colorspace.ComponentsForFamily(p.Family)
	case colorspace.FamilyLab:
		return headerComponents == 3
	case colorspace.FamilyICCBased:
		return colorspace.IsValidIccComponents(p.NComponents) &&
			colorspace.IsValidIccComponents(headerComponents) &&
			p.NComponents <= headerComponents
	default:
		return false
	}
}

func defaultDecodeForComponents(p *ImageParams) []CompDecode {
	out := make([]CompDecode, p.NComponents)
	if p.ColorSpace == nil {
		for i := range out {
			out[i] = CompDecode{Min: 0, Step: 1.0 / 255}
		}
		return out
	}
	for i := range out {
		_, min, max := p.ColorSpace.DefaultDecode(i)
		out[i] = CompDecode{Min: min, Step: (max - min) / 255}
	}
	return out
}

// applyJpxOverrides folds C5's result back into ImageParams (spec.md
// §4.5 step 8: bpc is always finalized to 8).
func applyJpxOverrides(p *ImageParams, res *jpxResult) {
	p.BPC = 8
	if res.width != p.Width {
		p.Width = res.width
	}
	if res.colorSpace != nil {
		p.ColorSpace = res.colorSpace
		p.Family = res.family
		p.NComponents = res.nComponents
	} else if res.nComponents != 0 {
		p.NComponents = res.nComponents
	}
}
