package colorspace

import "math"

// DeviceGray is the 1-component additive gray space. v in [0,1].
type DeviceGray struct{}

func (DeviceGray) Components() int { return 1 }
func (DeviceGray) Family() Family  { return FamilyDeviceGray }
func (DeviceGray) DefaultDecode(int) (value, min, max float64) {
	return 0, 0, 1
}
func (DeviceGray) ToRGB(v []float64) (r, g, b float64) {
	return v[0], v[0], v[0]
}
func (g DeviceGray) TranslateImageLine(dst, src []byte, w, srcPitch, h int, transMask bool) {
	translateGeneric(g, dst, src, w, srcPitch, h, 1, transMask)
}

// DeviceRGB is the 3-component additive space. v in [0,1]^3.
type DeviceRGB struct{}

func (DeviceRGB) Components() int { return 3 }
func (DeviceRGB) Family() Family  { return FamilyDeviceRGB }
func (DeviceRGB) DefaultDecode(int) (value, min, max float64) {
	return 0, 0, 1
}
func (DeviceRGB) ToRGB(v []float64) (r, g, b float64) {
	return v[0], v[1], v[2]
}
func (c DeviceRGB) TranslateImageLine(dst, src []byte, w, srcPitch, h int, transMask bool) {
	translateGeneric(c, dst, src, w, srcPitch, h, 3, transMask)
}

// DeviceCMYK is the 4-component subtractive space. v in [0,1]^4.
type DeviceCMYK struct{}

func (DeviceCMYK) Components() int { return 4 }
func (DeviceCMYK) Family() Family  { return FamilyDeviceCMYK }
func (DeviceCMYK) DefaultDecode(int) (value, min, max float64) {
	return 0, 0, 1
}
func (DeviceCMYK) ToRGB(v []float64) (r, g, b float64) {
	k := 1 - v[3]
	return (1 - v[0]) * k, (1 - v[1]) * k, (1 - v[2]) * k
}
func (c DeviceCMYK) TranslateImageLine(dst, src []byte, w, srcPitch, h int, transMask bool) {
	translateGeneric(c, dst, src, w, srcPitch, h, 4, transMask)
}

// CalGray is treated identically to DeviceGray for rendering purposes;
// the calibration parameters (WhitePoint/Gamma) affect colorimetric
// accuracy only, which is explicitly out of scope (spec.md §1
// Non-goals).
type CalGray struct{ DeviceGray }

func (CalGray) Family() Family { return FamilyCalGray }

// CalRGB is treated identically to DeviceRGB; see CalGray.
type CalRGB struct{ DeviceRGB }

func (CalRGB) Family() Family { return FamilyCalRGB }

// Lab is the CIE L*a*b* space with a D50 reference white, the PDF
// default. L in [0,100], a/b in [-100,100] by default (the Decode array
// typically overrides a/b's range).
type Lab struct{}

func (Lab) Components() int { return 3 }
func (Lab) Family() Family  { return FamilyLab }
func (Lab) DefaultDecode(i int) (value, min, max float64) {
	if i == 0 {
		return 0, 0, 100
	}
	return 0, -100, 100
}

var labWhiteD50 = [3]float64{0.9642, 1.0, 0.8249}

func (Lab) ToRGB(v []float64) (r, g, b float64) {
	l, a, bb := v[0], v[1], v[2]
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - bb/200

	finv := func(t float64) float64 {
		if t > 6.0/29.0 {
			return t * t * t
		}
		return 3 * (6.0 / 29.0) * (6.0 / 29.0) * (t - 4.0/29.0)
	}
	x := labWhiteD50[0] * finv(fx)
	y := labWhiteD50[1] * finv(fy)
	z := labWhiteD50[2] * finv(fz)

	rl := 3.1338561*x - 1.6168667*y - 0.4906146*z
	gl := -0.9787684*x + 1.9161415*y + 0.0334540*z
	bl := 0.0719453*x - 0.2289914*y + 1.4052427*z

	gammaEncode := func(c float64) float64 {
		if c <= 0.0031308 {
			c = 12.92 * c
		} else {
			c = 1.055*math.Pow(c, 1/2.4) - 0.055
		}
		if c < 0 {
			return 0
		}
		if c > 1 {
			return 1
		}
		return c
	}
	return gammaEncode(rl), gammaEncode(gl), gammaEncode(bl)
}

func (s Lab) TranslateImageLine(dst, src []byte, w, srcPitch, h int, transMask bool) {
	translateGeneric(s, dst, src, w, srcPitch, h, 3, transMask)
}

// translateGeneric is the fallback TranslateImageLine every stock space
// shares: unpack nComps 8-bit samples per pixel, decode-map with the
// default range, call ToRGB, and write BGR. It exists so the stock
// spaces satisfy the ColorSpace contract without every one of them
// repeating the same loop; a real colorspace object (out of scope here)
// would likely special-case this for speed the way CPDF_ColorSpace does
// for DeviceGray/DeviceRGB/DeviceCMYK.
func translateGeneric(cs ColorSpace, dst, src []byte, w, srcPitch, h int, nComps int, transMask bool) {
	_ = h
	v := make([]float64, nComps)
	for col := 0; col < w; col++ {
		for c := 0; c < nComps; c++ {
			_, min, max := cs.DefaultDecode(c)
			code := float64(src[col*nComps+c]) / 255
			v[c] = min + (max-min)*code
		}
		var r, g, b float64
		if transMask && nComps == 4 {
			k := 1 - v[3]
			r, g, b = (1-v[0])*k, (1-v[1])*k, (1-v[2])*k
		} else {
			r, g, b = cs.ToRGB(v)
		}
		r = clamp01(r)
		g = clamp01(g)
		b = clamp01(b)
		dst[col*3+0] = byte(b * 255)
		dst[col*3+1] = byte(g * 255)
		dst[col*3+2] = byte(r * 255)
	}
	_ = srcPitch
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
