package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/tiff"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/internal/filters"
)

var (
	// ErrUnsupportedImage is returned for image XObjects that cannot be
	// converted to an image file.
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrShortImage is returned when the decoded samples do not cover the
	// image dimensions.
	ErrShortImage = errors.New("image data too short")
)

// passThrough lists filters whose output is already an image file format.
var passThrough = map[string]bool{
	"DCTDecode": true,
	"DCT":       true,
	"JPXDecode": true,
}

// EncodeImage converts an image XObject or inline image into bytes an OCR
// engine can read. JPEG and JPEG 2000 data is returned as stored, after any
// preceding filters. Everything else is decoded into samples and written
// as a Deflate-compressed TIFF.
func EncodeImage(s *core.Stream) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no stream", ErrUnsupportedImage)
	}

	names, params := filters.Chain(s.Dict)
	if n := len(names); n > 0 && passThrough[names[n-1]] {
		data := s.Data
		for i := 0; i < n-1; i++ {
			var err error
			if data, err = filters.Apply(names[i], data, params[i]); err != nil {
				return nil, err
			}
		}
		return data, nil
	}

	data, err := filters.Decode(s.Dict, s.Data)
	if err != nil {
		return nil, err
	}

	img, err := samples(s.Dict, data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return nil, fmt.Errorf("encode tiff: %w", err)
	}
	return buf.Bytes(), nil
}

// samples builds an image from decoded sample data described by dict.
func samples(dict core.Dict, data []byte) (image.Image, error) {
	width := intEntry(dict, "Width", "W")
	height := intEntry(dict, "Height", "H")
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrUnsupportedImage, width, height)
	}

	bpc := intEntry(dict, "BitsPerComponent", "BPC")
	comps := 1
	if isMask(dict) {
		bpc = 1
	} else {
		var err error
		if comps, err = components(dict); err != nil {
			return nil, err
		}
	}
	if bpc == 0 {
		bpc = 8
	}

	switch {
	case comps == 1 && (bpc == 1 || bpc == 2 || bpc == 4 || bpc == 8):
	case comps > 1 && bpc == 8:
	default:
		return nil, fmt.Errorf("%w: %d components of %d bits", ErrUnsupportedImage, comps, bpc)
	}

	stride := (width*comps*bpc + 7) / 8
	if len(data) < stride*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrShortImage, len(data), width, height)
	}

	rect := image.Rect(0, 0, width, height)
	switch comps {
	case 1:
		img := image.NewGray(rect)
		full := (1 << bpc) - 1
		for y := 0; y < height; y++ {
			row := data[y*stride:]
			for x := 0; x < width; x++ {
				v := sample(row, x, bpc)
				img.SetGray(x, y, color.Gray{Y: uint8(v * 255 / full)})
			}
		}
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for y := 0; y < height; y++ {
			row := data[y*stride:]
			for x := 0; x < width; x++ {
				img.SetRGBA(x, y, color.RGBA{R: row[3*x], G: row[3*x+1], B: row[3*x+2], A: 0xFF})
			}
		}
		return img, nil
	default:
		img := image.NewCMYK(rect)
		for y := 0; y < height; y++ {
			row := data[y*stride:]
			for x := 0; x < width; x++ {
				img.SetCMYK(x, y, color.CMYK{C: row[4*x], M: row[4*x+1], Y: row[4*x+2], K: row[4*x+3]})
			}
		}
		return img, nil
	}
}

// sample returns the x-th sample of bpc bits from a packed row.
func sample(row []byte, x, bpc int) int {
	if bpc == 8 {
		return int(row[x])
	}
	bit := x * bpc
	shift := 8 - bpc - bit%8
	return int(row[bit/8]>>uint(shift)) & ((1 << bpc) - 1)
}

// components returns the number of color components of the image color
// space.
func components(dict core.Dict) (int, error) {
	cs := dict.Get("ColorSpace")
	if cs == nil {
		cs = dict.Get("CS")
	}

	switch v := cs.(type) {
	case core.Name:
		switch v {
		case "DeviceGray", "G", "CalGray":
			return 1, nil
		case "DeviceRGB", "RGB", "CalRGB":
			return 3, nil
		case "DeviceCMYK", "CMYK":
			return 4, nil
		}
	case core.Array:
		if name, ok := v.Get(0).(core.Name); ok {
			switch name {
			case "CalGray":
				return 1, nil
			case "CalRGB":
				return 3, nil
			case "ICCBased":
				if s, ok := v.Get(1).(*core.Stream); ok {
					if n, ok := s.Dict.GetNumber("N"); ok && (n == 1 || n == 3 || n == 4) {
						return int(n), nil
					}
				}
			}
		}
	case nil:
		// CCITT and JBIG2 images are bitonal
		return 1, nil
	}
	return 0, fmt.Errorf("%w: color space %v", ErrUnsupportedImage, cs)
}

func isMask(dict core.Dict) bool {
	v := dict.Get("ImageMask")
	if v == nil {
		v = dict.Get("IM")
	}
	b, ok := v.(core.Bool)
	return ok && bool(b)
}

func intEntry(dict core.Dict, key, short string) int {
	if n, ok := dict.GetNumber(key); ok {
		return int(n)
	}
	if n, ok := dict.GetNumber(short); ok {
		return int(n)
	}
	return 0
}
