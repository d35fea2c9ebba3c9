package dib

import "github.com/finalversus/dibcore/colorspace"

// buildPalette is C7: precompute an indexed ARGB palette from color
// space + decode array when total bit depth <= 8 (spec.md §4.7). A nil,
// nil result means "no palette needed; use the identity/natural
// mapping".
func buildPalette(p *ImageParams) ([]uint32, error) {
	if p.ColorSpace == nil || p.Family == colorspace.FamilyPattern {
		return nil, nil
	}
	total := p.BPC * p.NComponents
	if total > 8 {
		return nil, nil
	}

	if total == 1 && p.DefaultDecode &&
		(p.Family == colorspace.FamilyDeviceGray || p.Family == colorspace.FamilyDeviceRGB) {
		return nil, nil
	}
	if p.BPC == 8 && p.NComponents == 1 && p.DefaultDecode && p.Family == colorspace.FamilyDeviceGray {
		return nil, nil
	}

	n := 1 << uint(total)
	entries := make([]uint32, n)
	maxCode := float64(int(1)<<uint(p.BPC) - 1)
	if p.BPC == 0 {
		maxCode = 0
	}

	internalComponents := p.ColorSpace.Components()
	broadcast := p.Family == colorspace.FamilyICCBased && p.NComponents == 1 && internalComponents > 1

	values := make([]float64, maxInt(p.NComponents, internalComponents))
	for i := 0; i < n; i++ {
		for j := 0; j < p.NComponents; j++ {
			code := float64((i >> uint(j*p.BPC)) & int(maxCode))
			dec := p.Decode[j]
			v := dec.Min + dec.Step*code
			if broadcast {
				for k := 0; k < internalComponents; k++ {
					values[k] = v
				}
			} else {
				values[j] = v
			}
		}
		r, g, b := p.ColorSpace.ToRGB(values)
		entries[i] = argb(255, r, g, b)
	}
	return entries, nil
}

func argb(a byte, r, g, b float64) uint32 {
	return uint32(a)<<24 | uint32(clampByte(r))<<16 | uint32(clampByte(g))<<8 | uint32(clampByte(b))
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
