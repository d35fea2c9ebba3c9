// Package dib implements the PDF image stream decoder and color
// renderer: given an image dictionary and its (already de-filtered-
// except-last) stream bytes, it produces canonical BGR/BGRA/Gray/Mask1
// scanlines plus an optional soft/stencil mask, through the ten
// components C1-C10 described by the project's design document.
package dib

import (
	"github.com/finalversus/dibcore/colorspace"
	"github.com/finalversus/dibcore/common"
	"github.com/finalversus/dibcore/internal/pitch"
)

// Decoder is C10, the externally visible state machine.
type Decoder struct {
	params  *ImageParams
	factory factoryResult

	resolver ColorSpaceResolver
	openJpx  func() JpxBitstreamDecoder

	bStdCS      bool
	groupFamily colorspace.Family
	loadMaskReq bool
	transMask   bool

	palette []uint32

	pendingJbig2   *jbig2Pipeline
	maskPending    bool
	maskDict       Dict
	maskDecoder    *Decoder
	matteColor     uint32

	lastState DecodeState
	err       error
}

// Start is C10's entry point (spec.md §4.10): C3 -> buffer-size & pitch
// check -> C4 -> C7 -> (if requested) C9.
func Start(dict Dict, stream Stream, resolver ColorSpaceResolver, formResources, pageResources Dict,
	hasMask, stdCS bool, groupFamily colorspace.Family, loadMask bool, openJpx func() JpxBitstreamDecoder) (*Decoder, DecodeState, error) {

	d := &Decoder{resolver: resolver, openJpx: openJpx, bStdCS: stdCS, groupFamily: groupFamily, loadMaskReq: loadMask, matteColor: 0xFFFFFFFF}

	p, err := buildImageParams(dict, stream, resolver, formResources, pageResources)
	if err != nil {
		return d.fail(err)
	}
	d.params = p
	d.transMask = loadMask && groupFamily == colorspace.FamilyDeviceCMYK && p.Family == colorspace.FamilyDeviceCMYK

	if p.BPC != 0 && p.LastFilter != "JPXDecode" {
		rowPitch, ok := pitch.BytesPerRow(p.BPC, p.NComponents, p.Width)
		if !ok {
			return d.fail(newError(ErrArithmeticOverflow, "pitch overflow"))
		}
		if _, ok := pitch.TotalSize(p.Width, p.Height, rowPitch); !ok {
			return d.fail(newError(ErrArithmeticOverflow, "total size overflow"))
		}
	}

	var raw []byte
	if stream != nil {
		raw, err = stream.LoadAll(0)
		if err != nil {
			return d.fail(wrapError(ErrDecoderInit, "loading stream", err))
		}
	}

	fr, state, err := createDecoder(p, dict, stream, raw, openJpx)
	if err != nil {
		return d.fail(err)
	}
	if fr.decoder != nil {
		wantPitch, ok := pitch.BytesPerRow(p.BPC, p.NComponents, p.Width)
		if ok && fr.decoder.Pitch() < wantPitch {
			return d.fail(newError(ErrShortRead, "decoder pitch smaller than declared dimensions"))
		}
	}
	d.factory = fr

	if state == StateContinue {
		d.pendingJbig2 = fr.jbig2
		d.maskDict = dict
		d.maskPending = hasMask && loadMask
		d.lastState = StateContinue
		return d, StateContinue, nil
	}

	if err := d.afterDecode(); err != nil {
		return d.fail(err)
	}

	if hasMask && loadMask {
		maskState := d.loadMask(dict)
		if maskState == StateContinue {
			d.maskPending = true
			d.lastState = StateContinue
			return d, StateContinue, nil
		}
	}

	d.lastState = StateSuccess
	return d, StateSuccess, nil
}

func (d *Decoder) afterDecode() error {
	pal, err := buildPalette(d.params)
	if err != nil {
		return err
	}
	d.palette = pal
	return nil
}

func (d *Decoder) fail(err error) (*Decoder, DecodeState, error) {
	common.Log.Debug("dib: %v", err)
	d.lastState = StateFail
	d.err = err
	d.factory = factoryResult{}
	d.palette = nil
	d.pendingJbig2 = nil
	d.maskDecoder = nil
	return d, StateFail, err
}

// ContinueDecode resumes a Continue-state decoder (spec.md §4.10): the
// driver dispatches to whichever sub-state produced the pause, JBIG2 or
// recursive mask loading.
func (d *Decoder) ContinueDecode(pause PauseIndicator) (DecodeState, error) {
	if d.lastState == StateFail {
		return StateFail, d.err
	}
	if d.lastState == StateSuccess {
		return StateSuccess, nil
	}

	if d.pendingJbig2 != nil {
		state, err := d.pendingJbig2.Continue(pause)
		if err != nil {
			_, s, e := d.fail(err)
			return s, e
		}
		if state == StateContinue {
			return StateContinue, nil
		}
		d.factory.decoder = d.pendingJbig2.scanlineDecoder()
		d.pendingJbig2 = nil
		if err := d.afterDecode(); err != nil {
			_, s, e := d.fail(err)
			return s, e
		}
		if d.maskPending {
			maskState := d.loadMask(d.maskDict)
			if maskState == StateContinue {
				return StateContinue, nil
			}
		}
		d.lastState = StateSuccess
		return StateSuccess, nil
	}

	if d.maskDecoder != nil && d.maskPending {
		state, _ := d.maskDecoder.ContinueDecode(pause)
		if state == StateContinue {
			return StateContinue, nil
		}
		d.maskPending = false
		d.lastState = StateSuccess
		return StateSuccess, nil
	}

	d.lastState = StateSuccess
	return StateSuccess, nil
}

// Scanline is C8's entry point from the driver's perspective: acquire
// the source row, then render it (spec.md §4.8 step 1).
func (d *Decoder) Scanline(i int) []byte {
	if d.lastState == StateFail || d.params == nil {
		return nil
	}
	// JPX output is already a fully color-converted canonical bitmap
	// (spec.md §4.5 step 8); it bypasses C8's decode-array/color-space
	// machinery entirely.
	if jr := d.factory.jpx; jr != nil {
		if i < 0 || i >= jr.height {
			return nil
		}
		start := uint64(i) * uint64(jr.pitch)
		end := start + uint64(jr.pitch)
		if end > uint64(len(jr.buf)) {
			row := make([]byte, jr.pitch)
			for j := range row {
				row[j] = 0xFF
			}
			return row
		}
		return jr.buf[start:end]
	}

	var src []byte
	if d.factory.decoder != nil {
		row, err := d.factory.decoder.Scanline(i)
		if err == nil {
			src = row
		}
	}
	return renderScanline(d.params, src, d.palette, d.transMask)
}

// Width, Height, Format, Pitch, Palette, Buffer, MatteColor, and
// IsJBigImage expose C10's read-only accessors (spec.md §6).
func (d *Decoder) Width() int { return d.params.Width }

func (d *Decoder) Height() int { return d.params.Height }

func (d *Decoder) Format() OutputFormat {
	if d.factory.jpx != nil {
		return d.factory.jpx.format
	}
	f, _ := outputLayout(d.params)
	return f
}

func (d *Decoder) Pitch() uint32 {
	if d.factory.jpx != nil {
		return d.factory.jpx.pitch
	}
	_, p := outputLayout(d.params)
	return p
}

func (d *Decoder) Palette() []uint32 { return d.palette }

// Buffer is non-nil only when a full cached bitmap exists, i.e. JPX or
// JBIG2 (spec.md §6).
func (d *Decoder) Buffer() []byte {
	if d.factory.jpx != nil {
		return d.factory.jpx.buf
	}
	if rs, ok := d.factory.decoder.(*rowSliceDecoder); ok && d.params.LastFilter == "JBIG2Decode" {
		return rs.buf
	}
	return nil
}

func (d *Decoder) MatteColor() uint32 { return d.matteColor }

func (d *Decoder) IsJBigImage() bool { return d.params != nil && d.params.LastFilter == "JBIG2Decode" }

// DetachMask transfers ownership of the mask sub-decoder out, per
// spec.md §4.10 and the "exclusive ownership, no back-reference"
// design note (spec.md §9).
func (d *Decoder) DetachMask() *Decoder {
	m := d.maskDecoder
	d.maskDecoder = nil
	return m
}
