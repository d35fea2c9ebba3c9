// Package flatecodec inflates FlateDecode image data and undoes the PNG
// or TIFF predictor, grounded on finalversus/doc's
// pdf/core/encoding.go FlateEncoder.DecodeBytes/postDecodePredict (the
// zlib.NewReader call and the PNG/TIFF predictor loops are carried over
// essentially unchanged; only the PDF-object plumbing around them is
// gone).
package flatecodec

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Predictor tags the PDF /Predictor values this package understands.
type Predictor int

const (
	PredictorNone Predictor = 1
	PredictorTIFF Predictor = 2
	// PNG predictors are any value in [10,15]; the filter byte prefixing
	// each row selects among them, so they share one code path.
	PredictorPNGMin Predictor = 10
	PredictorPNGMax Predictor = 15
)

// Params mirrors the DecodeParms a FlateDecode filter may carry.
type Params struct {
	Predictor Predictor
	Columns   int
	Colors    int
	BPC       int
}

// Decode inflates encoded and, if Params requests it, undoes the row
// predictor.
func Decode(encoded []byte, p Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("flatecodec: zlib: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("flatecodec: inflate: %w", err)
	}
	return undoPredictor(buf.Bytes(), p)
}

func undoPredictor(data []byte, p Params) ([]byte, error) {
	if p.Predictor <= PredictorNone {
		return data, nil
	}
	colors := p.Colors
	if colors < 1 {
		colors = 1
	}
	columns := p.Columns
	if columns < 1 {
		columns = 1
	}

	if p.Predictor == PredictorTIFF {
		rowLen := columns * colors
		if rowLen < 1 {
			return nil, nil
		}
		if len(data)%rowLen != 0 {
			return nil, fmt.Errorf("flatecodec: invalid TIFF row length (%d/%d)", len(data), rowLen)
		}
		rows := len(data) / rowLen
		out := make([]byte, len(data))
		copy(out, data)
		for i := 0; i < rows; i++ {
			row := out[rowLen*i : rowLen*(i+1)]
			for j := colors; j < rowLen; j++ {
				row[j] += row[j-colors]
			}
		}
		return out, nil
	}

	if p.Predictor >= PredictorPNGMin && p.Predictor <= PredictorPNGMax {
		rowLen := columns*colors + 1
		if len(data)%rowLen != 0 {
			return nil, fmt.Errorf("flatecodec: invalid PNG row length (%d/%d)", len(data), rowLen)
		}
		rows := len(data) / rowLen
		var out bytes.Buffer
		prev := make([]byte, rowLen)
		bpp := colors
		for i := 0; i < rows; i++ {
			row := make([]byte, rowLen)
			copy(row, data[rowLen*i:rowLen*(i+1)])
			switch row[0] {
			case 0: // None
			case 1: // Sub
				for j := 1 + bpp; j < rowLen; j++ {
					row[j] += row[j-bpp]
				}
			case 2: // Up
				for j := 1; j < rowLen; j++ {
					row[j] += prev[j]
				}
			case 3: // Average
				for j := 1; j < bpp+1; j++ {
					row[j] += prev[j] / 2
				}
				for j := bpp + 1; j < rowLen; j++ {
					row[j] += byte((int(row[j-bpp]) + int(prev[j])) / 2)
				}
			case 4: // Paeth
				for j := 1; j < rowLen; j++ {
					var a, b, c byte
					b = prev[j]
					if j >= bpp+1 {
						a = row[j-bpp]
						c = prev[j-bpp]
					}
					row[j] += paeth(a, b, c)
				}
			default:
				return nil, fmt.Errorf("flatecodec: invalid PNG filter byte %d at row %d", row[0], i)
			}
			copy(prev, row)
			out.Write(row[1:])
		}
		return out.Bytes(), nil
	}

	return nil, fmt.Errorf("flatecodec: unsupported predictor %d", p.Predictor)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// paeth is the PNG Paeth predictor, grounded on finalversus/doc's
// pdf/core/paeth.go.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}
