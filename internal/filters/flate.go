package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// FlateDecode inflates zlib data and undoes the predictor named in params.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open zlib stream: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	predictor := params.Int("Predictor", 1)
	if predictor == 1 {
		return out, nil
	}
	out, err = unpredict(out, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor %d: %w", predictor, err)
	}
	return out, nil
}

// unpredict reverses TIFF predictor 2 or the PNG predictors 10 to 15.
func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)
	columns := params.Int("Columns", 1)

	if bpc != 8 {
		return nil, fmt.Errorf("%d bits per component not supported", bpc)
	}
	if colors < 1 || columns < 1 {
		return nil, fmt.Errorf("invalid row layout: %d colors, %d columns", colors, columns)
	}
	stride := colors * columns

	switch {
	case predictor == 2:
		return tiffPredictor(data, stride, colors)
	case predictor >= 10 && predictor <= 15:
		return pngPredictor(data, stride, colors)
	default:
		return nil, fmt.Errorf("unknown predictor")
	}
}

// tiffPredictor adds each sample to the one colors bytes to its left.
func tiffPredictor(data []byte, stride, colors int) ([]byte, error) {
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d byte rows", len(data), stride)
	}
	out := append([]byte(nil), data...)
	for row := 0; row < len(out); row += stride {
		for i := row + colors; i < row+stride; i++ {
			out[i] += out[i-colors]
		}
	}
	return out, nil
}

// pngPredictor decodes rows that each start with a PNG filter type byte.
func pngPredictor(data []byte, stride, bpp int) ([]byte, error) {
	rowLen := stride + 1
	if len(data)%rowLen != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of %d byte rows", len(data), rowLen)
	}

	rows := len(data) / rowLen
	out := make([]byte, rows*stride)
	prev := make([]byte, stride)

	for r := 0; r < rows; r++ {
		kind := data[r*rowLen]
		in := data[r*rowLen+1 : (r+1)*rowLen]
		cur := out[r*stride : (r+1)*stride]

		for i := range in {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			switch kind {
			case 0:
				cur[i] = in[i]
			case 1:
				cur[i] = in[i] + left
			case 2:
				cur[i] = in[i] + up
			case 3:
				cur[i] = in[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = in[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter type %d", r, kind)
			}
		}
		prev = cur
	}
	return out, nil
}

// paeth picks the neighbor closest to left + up - upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
