package dib

import (
	"github.com/finalversus/dibcore/colorspace"
	"github.com/finalversus/dibcore/common"
)

// memDict/memStream synthesize the in-memory, one-page image dictionary
// C9 needs for the JpxSMaskInData case (spec.md §4.9): there is no PDF
// object-layer collaborator to ask for this dictionary since it never
// existed in the source document.
type memDict map[string]Object

func (m memDict) Get(key string) (Object, bool) {
	v, ok := m[key]
	return v, ok
}

type memStream struct {
	memDict
	data []byte
}

func (s *memStream) LoadAll(int) ([]byte, error) { return s.data, nil }
func (s *memStream) ImageDecoder() string        { return "" }
func (s *memStream) ImageParam() Dict            { return nil }
func (s *memStream) ObjectNumber() uint32        { return 0 }

// stockResolver resolves the three device-space name shortcuts, used
// only for the synthetic SMaskInData dictionary above (which always
// declares /DeviceGray and has no real resources to resolve against).
type stockResolver struct{}

func (stockResolver) ResolveColorSpace(csObj Object, _, _ Dict) (colorspace.ColorSpace, error) {
	name, ok := getNameVal(csObj)
	if !ok {
		return nil, newError(ErrBadColorSpace, "stockResolver: not a name")
	}
	switch name {
	case "DeviceGray":
		return colorspace.DeviceGray{}, nil
	case "DeviceRGB":
		return colorspace.DeviceRGB{}, nil
	case "DeviceCMYK":
		return colorspace.DeviceCMYK{}, nil
	}
	return nil, newError(ErrBadColorSpace, "stockResolver: unsupported name "+name)
}

// loadMask is C9 (spec.md §4.9). It never demotes the parent image to
// Fail: per the "best-effort mask" design note (spec.md §9 Open
// Questions), a mask failure simply leaves no mask attached.
func (d *Decoder) loadMask(dict Dict) DecodeState {
	d.matteColor = 0xFFFFFFFF

	if d.factory.jpx != nil && d.factory.jpx.smaskInData != nil {
		sdict := memDict{
			"Type":             Name("XObject"),
			"Subtype":          Name("Image"),
			"ColorSpace":       Name("DeviceGray"),
			"BitsPerComponent": Integer(8),
			"Width":            Integer(int64(d.params.Width)),
			"Height":           Integer(int64(d.params.Height)),
		}
		sstream := &memStream{memDict: sdict, data: d.factory.jpx.smaskInData}
		sub, state, err := Start(sdict, sstream, stockResolver{}, nil, nil, false, true, colorspace.FamilyUnknown, false, d.openJpx)
		if err != nil {
			common.Log.Debug("dib: JPX SMaskInData failed, continuing without a mask: %v", err)
			return StateSuccess
		}
		d.maskDecoder = sub
		return state
	}

	if smaskStream, ok := dictGetStream(dict, "SMask"); ok {
		sub, state, err := Start(smaskStream, smaskStream, d.resolver, nil, nil, false, true, colorspace.FamilyUnknown, false, d.openJpx)
		if err != nil {
			common.Log.Debug("dib: SMask load failed, continuing without a mask: %v", err)
			return StateSuccess
		}
		d.maskDecoder = sub

		if matteArr, ok := dictGetArray(smaskStream, "Matte"); ok &&
			matteArr.Len() == d.params.NComponents && d.params.Family != colorspace.FamilyPattern &&
			d.params.ColorSpace != nil {
			matte := make([]float64, matteArr.Len())
			for i := 0; i < matteArr.Len(); i++ {
				v, _ := arrayGetNumber(matteArr, i)
				matte[i] = v
			}
			r, g, b := d.params.ColorSpace.ToRGB(matte)
			d.matteColor = argb(0, r, g, b)
		}
		return state
	}

	if maskStream, ok := dictGetStream(dict, "Mask"); ok {
		sub, state, err := Start(maskStream, maskStream, d.resolver, nil, nil, false, true, colorspace.FamilyUnknown, false, d.openJpx)
		if err != nil {
			common.Log.Debug("dib: Mask load failed, continuing without a mask: %v", err)
			return StateSuccess
		}
		d.maskDecoder = sub
		return state
	}

	return StateSuccess
}
