// Package colorspace defines the ColorSpace contract dibcore consumes
// (spec.md §1, §6 lists color space objects as an out-of-scope external
// collaborator: "the core calls only components(), family(),
// default_range(i), to_rgb(values), translate_image_line(...)"). The
// stock DeviceGray/DeviceRGB/DeviceCMYK/CalGray/CalRGB/Lab types below
// exist so dibcore is independently testable and so CPDF_DIB-style JPX
// colorspace synthesis (dib.JpxPipeline's UseCmyk/UseRgb actions) has
// something concrete to build; they are not a full color-management
// engine (that belongs to a real PDF library's model.PdfColorspace).
package colorspace

// Family tags the color-space family a ColorSpace belongs to, used by
// the core for family-specific branches (trans-mask detection, DCT
// header reconciliation, ICC single-component broadcast, ...).
type Family int

const (
	FamilyUnknown Family = iota
	FamilyDeviceGray
	FamilyDeviceRGB
	FamilyDeviceCMYK
	FamilyCalGray
	FamilyCalRGB
	FamilyLab
	FamilyICCBased
	FamilyIndexed
	FamilyPattern
	FamilySeparation
	FamilyDeviceN
)

func (f Family) String() string {
	switch f {
	case FamilyDeviceGray:
		return "DeviceGray"
	case FamilyDeviceRGB:
		return "DeviceRGB"
	case FamilyDeviceCMYK:
		return "DeviceCMYK"
	case FamilyCalGray:
		return "CalGray"
	case FamilyCalRGB:
		return "CalRGB"
	case FamilyLab:
		return "Lab"
	case FamilyICCBased:
		return "ICCBased"
	case FamilyIndexed:
		return "Indexed"
	case FamilyPattern:
		return "Pattern"
	case FamilySeparation:
		return "Separation"
	case FamilyDeviceN:
		return "DeviceN"
	default:
		return "Unknown"
	}
}

// ColorSpace is the narrow capability set dibcore consumes from a PDF
// colorspace object. Components, Family and DefaultDecode drive
// ImageParams construction (C3); ToRGB and TranslateImageLine drive
// palette building (C7) and per-pixel scanline rendering (C8).
type ColorSpace interface {
	// Components reports the number of color components this space uses.
	Components() int

	// Family reports the color-space family tag.
	Family() Family

	// DefaultDecode reports the PDF-default Decode range for component i:
	// (value, min, max), matching CPDF_ColorSpace::GetDefaultValue.
	DefaultDecode(i int) (value, min, max float64)

	// ToRGB maps component values (already decode-mapped) to sRGB in
	// [0,1].
	ToRGB(v []float64) (r, g, b float64)

	// TranslateImageLine converts w pixels of src (srcPitch-aligned) to
	// dst in one call, used by the default-decode fast path for
	// non-RGB/CalRGB families (C8 §4.8 general 24-bpp path). transMask
	// requests the CMYK soft-mask transparency-derivation formula instead
	// of ToRGB, mirroring CPDF_ColorSpace::TranslateImageLine's trans_mask
	// parameter.
	TranslateImageLine(dst, src []byte, w, srcPitch, h int, transMask bool)
}

// ComponentsForFamily returns the minimum component count a device
// family requires, used by DCT header reconciliation (spec.md §4.4).
func ComponentsForFamily(f Family) int {
	switch f {
	case FamilyDeviceGray, FamilyCalGray:
		return 1
	case FamilyDeviceRGB, FamilyCalRGB:
		return 3
	case FamilyDeviceCMYK:
		return 4
	default:
		return 0
	}
}

// IsValidIccComponents reports whether n is a legal ICCBased component
// count (1, 3 or 4 per the PDF spec).
func IsValidIccComponents(n int) bool {
	return n == 1 || n == 3 || n == 4
}

// Stock returns the canonical instance of a device family, used when
// CreateDecoder (C4/C5) must synthesize a colorspace (e.g. JPX's
// UseCmyk action, which has no PDF colorspace object to draw on).
func Stock(f Family) ColorSpace {
	switch f {
	case FamilyDeviceGray:
		return DeviceGray{}
	case FamilyDeviceRGB:
		return DeviceRGB{}
	case FamilyDeviceCMYK:
		return DeviceCMYK{}
	default:
		return nil
	}
}
