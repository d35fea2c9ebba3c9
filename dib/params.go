package dib

import (
	"github.com/finalversus/dibcore/colorspace"
)

// maxImageDimension mirrors cpdf_dib.cpp's kMaxImageDimension.
const maxImageDimension = 0x01FFFF

func isValidDimension(v int64) bool {
	return v > 0 && v <= maxImageDimension
}

func isMaybeValidBPC(v int64) bool {
	return v >= 0 && v <= 16
}

func isAllowedBPC(v int) bool {
	switch v {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

// CompDecode is the per-component affine decode mapping of spec.md §3:
// stored code v in [0, 2^bpc-1] maps to Min + Step*v.
type CompDecode struct {
	Min, Step float64
}

// ColorKeyRange is a per-component [Min,Max] color-key interval.
type ColorKeyRange struct {
	Min, Max int
}

// ImageParams is C3's fully populated, immutable-after-construction
// record (spec.md §3), with the DCT-header-driven exceptions noted in
// §4.4 and the JPX overrides (applyJpxOverrides) applied later by the
// factory.
type ImageParams struct {
	Width, Height int

	BPCDeclared int
	BPC         int
	NComponents int

	ColorSpace colorspace.ColorSpace
	Family     colorspace.Family

	IsImageMask bool

	Decode        []CompDecode
	DefaultDecode bool

	HasColorKey bool
	ColorKey    []ColorKeyRange

	BPCCheckEnabled bool

	LastFilter   string
	FilterParams Dict
}

// ColorSpaceResolver resolves a raw ColorSpace dictionary entry (a Name,
// an Array describing e.g. Indexed/ICCBased, or an already-resolved
// handle) against form and page resources. This is the seam spec.md §1
// draws around color-space objects ("internals are not specified
// here"); dibcore only ever calls the five ColorSpace methods on the result.
type ColorSpaceResolver interface {
	ResolveColorSpace(csObj Object, formResources, pageResources Dict) (colorspace.ColorSpace, error)
}

func buildImageParams(dict Dict, stream Stream, resolver ColorSpaceResolver, formResources, pageResources Dict) (*ImageParams, error) {
	p := &ImageParams{BPCCheckEnabled: true}

	wv, ok := dictGetInt(dict, "Width")
	if !ok || !isValidDimension(wv) {
		return nil, newError(ErrBadDimensions, "Width missing or out of range")
	}
	hv, ok := dictGetInt(dict, "Height")
	if !ok || !isValidDimension(hv) {
		return nil, newError(ErrBadDimensions, "Height missing or out of range")
	}
	p.Width, p.Height = int(wv), int(hv)

	bpcOrig, ok := dictGetInt(dict, "BitsPerComponent")
	if ok {
		if !isMaybeValidBPC(bpcOrig) {
			return nil, newError(ErrBadBitsPerComponent, "BitsPerComponent out of [0,16]")
		}
	} else {
		bpcOrig = 0
	}
	p.BPCDeclared = int(bpcOrig)

	lastFilter := ""
	var filterParams Dict
	if stream != nil {
		lastFilter = stream.ImageDecoder()
		filterParams = stream.ImageParam()
	}
	p.LastFilter = lastFilter
	p.FilterParams = filterParams

	if im, ok := dictGetBool(dict, "ImageMask"); ok {
		p.IsImageMask = im
	}
	_, hasCS := dict.Get("ColorSpace")

	if p.IsImageMask || !hasCS {
		if !p.IsImageMask && lastFilter == "JPXDecode" {
			p.BPCCheckEnabled = false
			p.NComponents = 0
			return p, nil
		}
		p.IsImageMask = true
		p.BPC = 1
		p.NComponents = 1
		p.DefaultDecode = true
		if decodeArr, ok := dictGetArray(dict, "Decode"); ok && decodeArr.Len() > 0 {
			v, _ := arrayGetInt(decodeArr, 0)
			p.DefaultDecode = v == 0
		}
		return p, nil
	}

	csObj, _ := dict.Get("ColorSpace")
	cs, err := resolver.ResolveColorSpace(csObj, formResources, pageResources)
	if err != nil || cs == nil {
		return nil, wrapError(ErrBadColorSpace, "unable to resolve ColorSpace", err)
	}
	p.ColorSpace = cs
	p.NComponents = cs.Components()
	p.Family = cs.Family()

	if p.Family == colorspace.FamilyICCBased {
		if name, ok := csObj.(Name); ok {
			switch string(name) {
			case "DeviceGray":
				p.NComponents = 1
			case "DeviceRGB":
				p.NComponents = 3
			case "DeviceCMYK":
				p.NComponents = 4
			}
		}
	}

	validateDictParam(p, lastFilter)
	if err := buildDecodeAndColorKey(p, dict); err != nil {
		return nil, err
	}
	return p, nil
}

// validateDictParam mirrors CPDF_DIB::ValidateDictParam: filter-specific
// BPC/component overrides (spec.md §4.3 step 6).
func validateDictParam(p *ImageParams, filter string) {
	p.BPC = p.BPCDeclared

	if filter == "JPXDecode" {
		p.BPCCheckEnabled = false
		return
	}

	switch filter {
	case "CCITTFaxDecode", "JBIG2Decode":
		p.BPC = 1
		p.NComponents = 1
	case "DCTDecode":
		p.BPC = 8
		// Per spec, RunLengthDecode should always be 8 bpc too, but too
		// many real documents don't conform, so that case is left alone
		// below rather than forced here.
	}

	if !isAllowedBPC(p.BPC) {
		p.BPC = 0
	}
}

// buildDecodeAndColorKey mirrors CPDF_DIB::GetDecodeAndMaskArray (spec.md
// §4.3 steps 7-8).
func buildDecodeAndColorKey(p *ImageParams, dict Dict) error {
	if p.ColorSpace == nil {
		return wrapError(ErrBadColorSpace, "no colorspace to build decode array", nil)
	}
	n := p.NComponents
	p.Decode = make([]CompDecode, n)
	p.DefaultDecode = true

	maxData := float64(int(1)<<uint(p.BPC) - 1)
	if p.BPC == 0 {
		maxData = 0
	}

	if decodeArr, ok := dictGetArray(dict, "Decode"); ok {
		for i := 0; i < n; i++ {
			min, _ := arrayGetNumber(decodeArr, i*2)
			max, _ := arrayGetNumber(decodeArr, i*2+1)
			step := 0.0
			if maxData != 0 {
				step = (max - min) / maxData
			}
			p.Decode[i] = CompDecode{Min: min, Step: step}

			_, defMin, defMax := p.ColorSpace.DefaultDecode(i)
			if p.Family == colorspace.FamilyIndexed {
				defMax = maxData
			}
			if defMin != min || defMax != max {
				p.DefaultDecode = false
			}
		}
	} else {
		for i := 0; i < n; i++ {
			_, min, max := p.ColorSpace.DefaultDecode(i)
			if p.Family == colorspace.FamilyIndexed {
				max = maxData
			}
			step := 0.0
			if maxData != 0 {
				step = (max - min) / maxData
			}
			p.Decode[i] = CompDecode{Min: min, Step: step}
		}
	}

	if _, hasSMask := dict.Get("SMask"); hasSMask {
		return nil
	}

	maskObj, ok := dict.Get("Mask")
	if !ok {
		return nil
	}
	arr, ok := getArrayVal(maskObj)
	if !ok {
		// A stream-valued Mask is handled by MaskLoader (C9), not here.
		return nil
	}
	if arr.Len() >= n*2 {
		p.ColorKey = make([]ColorKeyRange, n)
		maxInt := int(1)<<uint(p.BPC) - 1
		for i := 0; i < n; i++ {
			minV, _ := arrayGetInt(arr, i*2)
			maxV, _ := arrayGetInt(arr, i*2+1)
			if minV < 0 {
				minV = 0
			}
			if maxV > int64(maxInt) {
				maxV = int64(maxInt)
			}
			p.ColorKey[i] = ColorKeyRange{Min: int(minV), Max: int(maxV)}
		}
		p.HasColorKey = true
	}
	return nil
}
