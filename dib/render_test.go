package dib

import (
	"bytes"
	"testing"

	"github.com/finalversus/dibcore/colorspace"
)

// TestRenderScanlineDeviceGray covers an 8-bpc, single-component row: the
// indexed (depth<=8) path copies the sample bytes straight through.
func TestRenderScanlineDeviceGray(t *testing.T) {
	p := &ImageParams{
		Width: 1, Height: 1, BPC: 8, NComponents: 1,
		ColorSpace: colorspace.DeviceGray{}, Family: colorspace.FamilyDeviceGray,
		DefaultDecode: true,
	}
	out := renderScanline(p, []byte{0x80}, nil, false)
	if !bytes.Equal(out, []byte{0x80}) {
		t.Errorf("renderScanline = %v, want [0x80]", out)
	}
}

// TestRenderScanlineDeviceRGBSwap covers the 2x1 DeviceRGB default-decode
// fast path: RGB -> BGR per pixel, no color key.
func TestRenderScanlineDeviceRGBSwap(t *testing.T) {
	p := &ImageParams{
		Width: 2, Height: 1, BPC: 8, NComponents: 3,
		ColorSpace: colorspace.DeviceRGB{}, Family: colorspace.FamilyDeviceRGB,
		DefaultDecode: true,
	}
	src := []byte{10, 20, 30, 40, 50, 60}
	out := renderScanline(p, src, nil, false)
	want := []byte{30, 20, 10, 60, 50, 40}
	if !bytes.Equal(out, want) {
		t.Errorf("renderScanline = %v, want %v", out, want)
	}
}

// TestRenderScanlineImageMaskInvert covers an image-mask row with the
// default Decode (i.e. no explicit [1 0] override): the bits are inverted.
func TestRenderScanlineImageMaskInvert(t *testing.T) {
	p := &ImageParams{
		Width: 8, Height: 1, BPC: 1, NComponents: 1,
		IsImageMask: true, DefaultDecode: true,
	}
	src := []byte{0b10110001}
	out := renderScanline(p, src, nil, false)
	if len(out) < 1 {
		t.Fatalf("renderScanline returned %d bytes, want at least 1", len(out))
	}
	want := byte(0b01001110)
	if out[0] != want {
		t.Errorf("renderScanline[0] = %08b, want %08b", out[0], want)
	}
}

// TestRenderScanlineColorKeyMatch covers a 1x1 DeviceRGB image whose
// payload falls entirely inside an all-zero color-key range: the matching
// pixel renders fully opaque (spec.md testable property: alpha is 0xFF iff
// every component code is within its [key_min,key_max] interval).
func TestRenderScanlineColorKeyMatch(t *testing.T) {
	p := &ImageParams{
		Width: 1, Height: 1, BPC: 8, NComponents: 3,
		ColorSpace: colorspace.DeviceRGB{}, Family: colorspace.FamilyDeviceRGB,
		DefaultDecode: true,
		HasColorKey:   true,
		ColorKey: []ColorKeyRange{
			{Min: 0, Max: 0}, {Min: 0, Max: 0}, {Min: 0, Max: 0},
		},
	}
	out := renderScanline(p, []byte{0, 0, 0}, nil, false)
	want := []byte{0, 0, 0, 0xFF}
	if !bytes.Equal(out, want) {
		t.Errorf("renderScanline = %v, want %v", out, want)
	}
}

// TestRenderScanlineColorKeyMiss covers the non-matching case of the same
// setup: a pixel outside the key range is fully transparent.
func TestRenderScanlineColorKeyMiss(t *testing.T) {
	p := &ImageParams{
		Width: 1, Height: 1, BPC: 8, NComponents: 3,
		ColorSpace: colorspace.DeviceRGB{}, Family: colorspace.FamilyDeviceRGB,
		DefaultDecode: true,
		HasColorKey:   true,
		ColorKey: []ColorKeyRange{
			{Min: 0, Max: 0}, {Min: 0, Max: 0}, {Min: 0, Max: 0},
		},
	}
	out := renderScanline(p, []byte{5, 0, 0}, nil, false)
	want := []byte{0, 0, 5, 0}
	if !bytes.Equal(out, want) {
		t.Errorf("renderScanline = %v, want %v", out, want)
	}
}

// TestRenderScanlineShortReadFillsWhite covers the "acquisition failed"
// contract: a nil srcRow produces an all-0xFF row of the canonical pitch.
func TestRenderScanlineShortReadFillsWhite(t *testing.T) {
	p := &ImageParams{
		Width: 2, Height: 1, BPC: 8, NComponents: 3,
		ColorSpace: colorspace.DeviceRGB{}, Family: colorspace.FamilyDeviceRGB,
		DefaultDecode: true,
	}
	out := renderScanline(p, nil, nil, false)
	if len(out) != 6 {
		t.Fatalf("len(out) = %d, want 6", len(out))
	}
	for i, b := range out {
		if b != 0xFF {
			t.Errorf("out[%d] = %#x, want 0xFF", i, b)
		}
	}
}

// TestRenderIndexedComponentOrder covers the sub-byte, multi-component
// indexed path (e.g. DeviceCMYK at BPC=1): component 0 must land in the
// index's low bits, matching buildPalette's convention, not the high bits
// a single big-endian read of the whole field would put it in.
func TestRenderIndexedComponentOrder(t *testing.T) {
	p := &ImageParams{
		Width: 1, Height: 1, BPC: 1, NComponents: 4,
		ColorSpace: colorspace.DeviceCMYK{}, Family: colorspace.FamilyDeviceCMYK,
	}
	// c0=1, c1=0, c2=0, c3=0 packed MSB-first: correct idx = 1<<0 = 1;
	// a reversed-order read would instead yield 1<<3 = 8.
	src := []byte{0b10000000}
	out := renderScanline(p, src, nil, false)
	if out[0] != 1 {
		t.Errorf("renderScanline[0] = %d, want 1 (component 0 in the low bits)", out[0])
	}
}

// TestRenderIndexedNonPowerOfTwoTotal covers a total bit width outside
// {1,2,4,8,16} (DeviceRGB at BPC=1 -> total=3), including a field that
// straddles a byte boundary, which bitio.GetBits cannot read directly.
func TestRenderIndexedNonPowerOfTwoTotal(t *testing.T) {
	p := &ImageParams{
		Width: 3, Height: 1, BPC: 1, NComponents: 3,
		ColorSpace: colorspace.DeviceRGB{}, Family: colorspace.FamilyDeviceRGB,
	}
	// Pixel 0 (bits 0-2): c0=1,c1=0,c2=1 -> idx = 1|0|4 = 5
	// Pixel 1 (bits 3-5): c0=0,c1=1,c2=0 -> idx = 0|2|0 = 2
	// Pixel 2 (bits 6-8, straddling byte 0/1): c0=1,c1=1,c2=0 -> idx = 1|2|0 = 3
	src := []byte{0b10101011, 0b00000000}
	out := renderScanline(p, src, nil, false)
	want := []byte{5, 2, 3}
	if !bytes.Equal(out[:3], want) {
		t.Errorf("renderScanline = %v, want %v", out[:3], want)
	}
}

func TestOutputLayout(t *testing.T) {
	cases := []struct {
		name   string
		p      *ImageParams
		format OutputFormat
		pitch  uint32
	}{
		{"mask1", &ImageParams{Width: 8, BPC: 1, NComponents: 1}, FormatMask1, 4},
		{"gray8", &ImageParams{Width: 3, BPC: 8, NComponents: 1}, FormatGray8, 3},
		{"bgr24", &ImageParams{Width: 2, BPC: 8, NComponents: 3}, FormatBgr24, 6},
		{"bgra32 colorkey", &ImageParams{Width: 2, BPC: 8, NComponents: 3, HasColorKey: true}, FormatBgra32, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			format, pitch := outputLayout(c.p)
			if format != c.format || pitch != c.pitch {
				t.Errorf("outputLayout = (%v,%d), want (%v,%d)", format, pitch, c.format, c.pitch)
			}
		})
	}
}
