package dib

import "github.com/finalversus/dibcore/colorspace"

// fakeDict/fakeArray/fakeStream are minimal hand-written fakes of the
// PDF object-layer contracts (dib/contracts.go), standing in for a real
// parser the same way finalversus/doc's own tests construct
// PdfObjectDictionary literals directly rather than parsing a document.
type fakeDict map[string]Object

func (d fakeDict) Get(key string) (Object, bool) {
	v, ok := d[key]
	return v, ok
}

type fakeArray []Object

func (a fakeArray) Len() int          { return len(a) }
func (a fakeArray) Get(i int) Object  { return a[i] }

type fakeStream struct {
	fakeDict
	data    []byte
	decoder string
	param   Dict
	objNum  uint32
}

func (s *fakeStream) LoadAll(int) ([]byte, error) { return s.data, nil }
func (s *fakeStream) ImageDecoder() string        { return s.decoder }
func (s *fakeStream) ImageParam() Dict            { return s.param }
func (s *fakeStream) ObjectNumber() uint32        { return s.objNum }

// stockOnlyResolver resolves nothing but the three device shortcuts,
// the only color spaces the table-driven tests below need.
type stockOnlyResolver struct{}

func (stockOnlyResolver) ResolveColorSpace(csObj Object, _, _ Dict) (colorspace.ColorSpace, error) {
	if name, ok := csObj.(Name); ok {
		switch name {
		case "DeviceGray":
			return colorspace.DeviceGray{}, nil
		case "DeviceRGB":
			return colorspace.DeviceRGB{}, nil
		case "DeviceCMYK":
			return colorspace.DeviceCMYK{}, nil
		}
	}
	return nil, newError(ErrBadColorSpace, "stockOnlyResolver: unsupported")
}
