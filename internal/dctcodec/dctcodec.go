// Package dctcodec decodes DCTDecode (JPEG) image streams, grounded on
// finalversus/doc's pdf/core/encoding.go DCTEncoder: the
// jpeg.DecodeConfig header probe and the image/color model switch are
// carried over directly, repurposed from "reconcile an encoder's
// declared params" into "reconcile ImageParams against the header"
// (spec.md §4.4).
package dctcodec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// Header is the subset of a JPEG's own metadata spec.md §4.4 needs to
// reconcile against the PDF-declared ImageParams.
type Header struct {
	Width, Height    int
	NComponents      int
	BitsPerComponent int
}

// ProbeHeader mirrors newDCTEncoderFromStream's jpeg.DecodeConfig call
// and color-model switch, without constructing a full encoder.
func ProbeHeader(encoded []byte) (Header, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		return Header{}, fmt.Errorf("dctcodec: header: %w", err)
	}
	h := Header{Width: cfg.Width, Height: cfg.Height, BitsPerComponent: 8}
	switch cfg.ColorModel {
	case color.RGBAModel:
		h.NComponents = 3
	case color.RGBA64Model:
		h.BitsPerComponent = 16
		h.NComponents = 3
	case color.GrayModel:
		h.NComponents = 1
	case color.Gray16Model:
		h.BitsPerComponent = 16
		h.NComponents = 1
	case color.CMYKModel:
		h.NComponents = 4
	case color.YCbCrModel:
		h.NComponents = 3
	default:
		return Header{}, fmt.Errorf("dctcodec: unsupported color model %v", cfg.ColorModel)
	}
	return h, nil
}

// Decode fully decodes a baseline/progressive JPEG to 8-bpc samples,
// nComponents per pixel, row-major, no padding. Gray/RGB/CMYK images
// are returned as-is; Go's jpeg package already performs YCbCr->RGB
// and YCCK->CMYK conversion internally.
func Decode(encoded []byte) (pix []byte, w, h, nComponents int, err error) {
	img, err := jpeg.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("dctcodec: decode: %w", err)
	}
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray:
		nComponents = 1
		pix = make([]byte, w*h)
		for y := 0; y < h; y++ {
			copy(pix[y*w:(y+1)*w], m.Pix[y*m.Stride:y*m.Stride+w])
		}
	case *image.CMYK:
		nComponents = 4
		pix = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(pix[y*w*4:(y+1)*w*4], m.Pix[y*m.Stride:y*m.Stride+w*4])
		}
	default:
		nComponents = 3
		pix = make([]byte, w*h*3)
		idx := 0
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				pix[idx+0] = byte(r >> 8)
				pix[idx+1] = byte(g >> 8)
				pix[idx+2] = byte(bl >> 8)
				idx += 3
			}
		}
	}
	return pix, w, h, nComponents, nil
}
