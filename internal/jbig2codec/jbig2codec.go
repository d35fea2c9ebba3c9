// Package jbig2codec adapts github.com/jdeng/gojbig2's resumable
// Decoder (New/GetFirstPage/Continue/GetProcessingStatus) to dibcore's
// own turn-based Continue(pause) shape (spec.md §4.6/§5). gojbig2 has
// no pause hook of its own, so one gojbig2 Continue() call is treated
// as one dibcore "segment" of work: the pause predicate is consulted
// between calls, never inside one.
package jbig2codec

import (
	"fmt"

	gojbig2 "github.com/jdeng/gojbig2/pkg/jbig2"
)

// Status mirrors spec.md §4.6's three JBIG2 return codes.
type Status int

const (
	StatusError Status = iota
	StatusToBeContinued
	StatusDone
)

// Decoder wraps a gojbig2 decoder plus the target bitmap it decodes
// into, keyed by the object numbers of its source/global streams.
type Decoder struct {
	inner      *gojbig2.Decoder
	buf        []byte
	width      int
	height     int
	pitch      int
	SrcObjNum  uint32
	GlobObjNum uint32
}

// Start begins decoding: src is the main JBIG2 segment stream, globals
// (optional) is the JBIG2Globals stream. out must be height*pitch bytes,
// already zeroed by the caller.
func Start(src, globals []byte, srcObjNum, globalsObjNum uint32, width, height, pitch int, out []byte) (*Decoder, Status, error) {
	inner, err := gojbig2.New(gojbig2.Options{
		GlobalData: globals,
		GlobalKey:  uint64(globalsObjNum),
		SrcData:    src,
		SrcKey:     uint64(srcObjNum),
	})
	if err != nil {
		return nil, StatusError, fmt.Errorf("jbig2codec: init: %w", err)
	}

	d := &Decoder{
		inner:      inner,
		buf:        out,
		width:      width,
		height:     height,
		pitch:      pitch,
		SrcObjNum:  srcObjNum,
		GlobObjNum: globalsObjNum,
	}

	ready, err := inner.GetFirstPage(out, width, height, pitch)
	if err != nil {
		return nil, StatusError, fmt.Errorf("jbig2codec: first page: %w", err)
	}
	if ready {
		return d, StatusDone, nil
	}
	return d, d.statusFromCodec(), nil
}

// Continue resumes decoding by one gojbig2 step.
func (d *Decoder) Continue() (Status, error) {
	done, err := d.inner.Continue()
	if err != nil {
		return StatusError, fmt.Errorf("jbig2codec: continue: %w", err)
	}
	if done {
		return StatusDone, nil
	}
	return d.statusFromCodec(), nil
}

func (d *Decoder) statusFromCodec() Status {
	switch d.inner.GetProcessingStatus() {
	case gojbig2.CodecStatusFinished:
		return StatusDone
	case gojbig2.CodecStatusError:
		return StatusError
	default:
		return StatusToBeContinued
	}
}

// Buffer returns the target bitmap (valid only once Status==StatusDone).
func (d *Decoder) Buffer() []byte { return d.buf }
