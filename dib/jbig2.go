package dib

import (
	"github.com/finalversus/dibcore/internal/jbig2codec"
	"github.com/finalversus/dibcore/internal/pitch"
)

// jbig2Pipeline is C6: a resumable JBIG2 decode into a 1-bit bitmap
// (spec.md §4.6). Unlike every other codec path, JBIG2 must finish
// decoding before any scanline is available -- the target is a single
// fully materialized 1-bpp bitmap, not a lazy per-row producer.
type jbig2Pipeline struct {
	codec  *jbig2codec.Decoder
	width  int
	height int
	pitch  uint32
}

// startJbig2 mirrors CPDF_DIB's JBIG2 branch: fetch JBIG2Globals if
// referenced, load it fully, allocate the exact-size 1-bpp target, and
// call start_decode.
func startJbig2(p *ImageParams, src Stream, rawSrc []byte) (*jbig2Pipeline, DecodeState, error) {
	rowPitch, ok := pitch.Aligned32(1, p.Width)
	if !ok {
		return nil, StateFail, newError(ErrArithmeticOverflow, "jbig2: pitch overflow")
	}
	if _, ok := pitch.TotalSize(p.Width, p.Height, rowPitch); !ok {
		return nil, StateFail, newError(ErrArithmeticOverflow, "jbig2: buffer size overflow")
	}
	out := make([]byte, uint64(p.Height)*uint64(rowPitch))

	var globalsBytes []byte
	var globalsObjNum uint32
	if p.FilterParams != nil {
		if globalsStream, ok := dictGetStream(p.FilterParams, "JBIG2Globals"); ok {
			b, err := globalsStream.LoadAll(0)
			if err != nil {
				return nil, StateFail, wrapError(ErrDecoderInit, "jbig2: loading JBIG2Globals", err)
			}
			globalsBytes = b
			globalsObjNum = globalsStream.ObjectNumber()
		}
	}

	var srcObjNum uint32
	if src != nil {
		srcObjNum = src.ObjectNumber()
	}

	codec, status, err := jbig2codec.Start(rawSrc, globalsBytes, srcObjNum, globalsObjNum, p.Width, p.Height, int(rowPitch), out)
	if err != nil {
		return nil, StateFail, wrapError(ErrDecoderCorrupt, "jbig2: start", err)
	}

	pl := &jbig2Pipeline{codec: codec, width: p.Width, height: p.Height, pitch: rowPitch}
	switch status {
	case jbig2codec.StatusDone:
		return pl, StateSuccess, nil
	case jbig2codec.StatusError:
		return nil, StateFail, newError(ErrDecoderCorrupt, "jbig2: decode error")
	default:
		return pl, StateContinue, nil
	}
}

// Continue resumes decoding. Per spec.md §4.6, Error resets the
// context and releases the target bitmap -- terminal failure.
func (pl *jbig2Pipeline) Continue(pause PauseIndicator) (DecodeState, error) {
	if shouldPause(pause) {
		return StateContinue, nil
	}
	status, err := pl.codec.Continue()
	if err != nil {
		return StateFail, wrapError(ErrDecoderCorrupt, "jbig2: continue", err)
	}
	switch status {
	case jbig2codec.StatusDone:
		return StateSuccess, nil
	case jbig2codec.StatusError:
		return StateFail, newError(ErrDecoderCorrupt, "jbig2: decode error")
	default:
		return StateContinue, nil
	}
}

func (pl *jbig2Pipeline) scanlineDecoder() ScanlineDecoder {
	return newRowSliceDecoder(pl.codec.Buffer(), pl.pitch, pl.width, pl.height, 1, 1)
}
