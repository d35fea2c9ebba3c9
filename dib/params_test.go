package dib

import "testing"

func TestBuildImageParamsDeviceGray(t *testing.T) {
	dict := fakeDict{
		"Width":            Integer(2),
		"Height":           Integer(1),
		"BitsPerComponent": Integer(8),
		"ColorSpace":       Name("DeviceGray"),
	}
	p, err := buildImageParams(dict, nil, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if p.Width != 2 || p.Height != 1 || p.BPC != 8 || p.NComponents != 1 {
		t.Errorf("unexpected params: %+v", p)
	}
	if !p.DefaultDecode {
		t.Error("expected default decode with no Decode array")
	}
}

func TestBuildImageParamsImageMask(t *testing.T) {
	dict := fakeDict{
		"Width":     Integer(8),
		"Height":    Integer(1),
		"ImageMask": Bool(true),
	}
	p, err := buildImageParams(dict, nil, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if !p.IsImageMask || p.BPC != 1 || p.NComponents != 1 {
		t.Errorf("unexpected image mask params: %+v", p)
	}
	if !p.DefaultDecode {
		t.Error("expected default decode for an image mask with no Decode array")
	}
}

func TestBuildImageParamsBadDimensions(t *testing.T) {
	dict := fakeDict{"Width": Integer(0), "Height": Integer(1)}
	if _, err := buildImageParams(dict, nil, stockOnlyResolver{}, nil, nil); err == nil {
		t.Error("expected an error for Width=0")
	}

	dict2 := fakeDict{"Width": Integer(1), "Height": Integer(0x200000)}
	if _, err := buildImageParams(dict2, nil, stockOnlyResolver{}, nil, nil); err == nil {
		t.Error("expected an error for Height beyond the dimension bound")
	}
}

func TestBuildImageParamsCCITTForcesOneComponent(t *testing.T) {
	dict := fakeDict{
		"Width":      Integer(8),
		"Height":     Integer(8),
		"ColorSpace": Name("DeviceRGB"),
	}
	stream := &fakeStream{fakeDict: fakeDict{}, decoder: "CCITTFaxDecode"}
	p, err := buildImageParams(dict, stream, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if p.BPC != 1 || p.NComponents != 1 {
		t.Errorf("CCITTFaxDecode should force bpc=1,n=1, got bpc=%d n=%d", p.BPC, p.NComponents)
	}
}

func TestBuildImageParamsJPXColorSpaceless(t *testing.T) {
	dict := fakeDict{"Width": Integer(4), "Height": Integer(4)}
	stream := &fakeStream{fakeDict: fakeDict{}, decoder: "JPXDecode"}
	p, err := buildImageParams(dict, stream, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if p.IsImageMask {
		t.Error("colorspace-less JPX should not be treated as an image mask")
	}
	if p.BPCCheckEnabled {
		t.Error("colorspace-less JPX should disable the BPC check")
	}
	if p.NComponents != 0 {
		t.Errorf("colorspace-less JPX should defer NComponents, got %d", p.NComponents)
	}
}

func TestBuildImageParamsColorKey(t *testing.T) {
	dict := fakeDict{
		"Width":      Integer(1),
		"Height":     Integer(1),
		"ColorSpace": Name("DeviceRGB"),
		"Mask":       fakeArray{Integer(0), Integer(0), Integer(0), Integer(0), Integer(0), Integer(0)},
	}
	p, err := buildImageParams(dict, nil, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if !p.HasColorKey || len(p.ColorKey) != 3 {
		t.Fatalf("expected a 3-component color key, got %+v", p.ColorKey)
	}
	for _, ck := range p.ColorKey {
		if ck.Min != 0 || ck.Max != 0 {
			t.Errorf("unexpected color key range: %+v", ck)
		}
	}
}

// TestBuildImageParamsShortMaskArrayNoColorKey covers a malformed Mask
// array shorter than n*2: ColorKey stays unpopulated, so HasColorKey must
// stay false rather than flipping OutputFormat to Bgra32 with no key to
// render against.
func TestBuildImageParamsShortMaskArrayNoColorKey(t *testing.T) {
	dict := fakeDict{
		"Width":      Integer(1),
		"Height":     Integer(1),
		"ColorSpace": Name("DeviceRGB"),
		"Mask":       fakeArray{Integer(0), Integer(0)},
	}
	p, err := buildImageParams(dict, nil, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if p.HasColorKey {
		t.Error("a too-short Mask array must not set HasColorKey")
	}
	if p.ColorKey != nil {
		t.Errorf("expected nil ColorKey, got %+v", p.ColorKey)
	}
}

func TestBuildImageParamsSMaskSuppressesColorKey(t *testing.T) {
	dict := fakeDict{
		"Width":      Integer(1),
		"Height":     Integer(1),
		"ColorSpace": Name("DeviceRGB"),
		"Mask":       fakeArray{Integer(0), Integer(0), Integer(0), Integer(0), Integer(0), Integer(0)},
		"SMask":      &fakeStream{fakeDict: fakeDict{}},
	}
	p, err := buildImageParams(dict, nil, stockOnlyResolver{}, nil, nil)
	if err != nil {
		t.Fatalf("buildImageParams: %v", err)
	}
	if p.HasColorKey {
		t.Error("an SMask present in the dictionary should suppress Mask-array color-key parsing")
	}
}
