package filters

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfdevice/core"
)

// ErrUnsupportedFilter is returned for filters this package cannot decode.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// FilterError reports which filter of a chain failed.
type FilterError struct {
	Filter string
	Err    error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filter, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// Params are the decode parameters of one filter.
type Params core.Dict

// Int returns the integer parameter key, or def when it is missing or
// not a number.
func (p Params) Int(key string, def int) int {
	if v, ok := core.Number(p[key]); ok {
		return int(v)
	}
	return def
}

// Bool returns the boolean parameter key, or def when it is missing or
// not a boolean.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(core.Bool); ok {
		return bool(v)
	}
	return def
}

// abbreviations maps the short names allowed in inline images.
var abbreviations = map[string]string{
	"Fl":  "FlateDecode",
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"LZW": "LZWDecode",
	"DCT": "DCTDecode",
}

// Decode applies the filters named by dict's /Filter entry, in order, with
// the matching /DecodeParms. Data without filters is returned unchanged.
func Decode(dict core.Dict, data []byte) ([]byte, error) {
	names, params := Chain(dict)
	for i, name := range names {
		var err error
		data, err = Apply(name, data, params[i])
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Apply runs a single filter.
func Apply(name string, data []byte, params Params) ([]byte, error) {
	if full, ok := abbreviations[name]; ok {
		name = full
	}

	var out []byte
	var err error
	switch name {
	case "FlateDecode":
		out, err = FlateDecode(data, params)
	case "ASCIIHexDecode":
		out, err = ASCIIHexDecode(data)
	case "ASCII85Decode":
		out, err = ASCII85Decode(data)
	case "RunLengthDecode":
		out, err = RunLengthDecode(data)
	case "CCITTFaxDecode":
		out, err = CCITTFaxDecode(data, params)
	default:
		err = ErrUnsupportedFilter
	}
	if err != nil {
		return nil, &FilterError{Filter: name, Err: err}
	}
	return out, nil
}

// Chain reads the filter names and their parameters from dict. The short
// keys used by inline images are accepted too.
func Chain(dict core.Dict) ([]string, []Params) {
	filter := dict.Get("Filter")
	if filter == nil {
		filter = dict.Get("F")
	}
	parms := dict.Get("DecodeParms")
	if parms == nil {
		parms = dict.Get("DP")
	}

	var names []string
	switch v := filter.(type) {
	case core.Name:
		names = []string{string(v)}
	case core.Array:
		for _, o := range v {
			if n, ok := o.(core.Name); ok {
				names = append(names, string(n))
			}
		}
	}

	params := make([]Params, len(names))
	switch v := parms.(type) {
	case core.Dict:
		if len(params) > 0 {
			params[0] = Params(v)
		}
	case core.Array:
		for i := 0; i < len(v) && i < len(params); i++ {
			if d, ok := v[i].(core.Dict); ok {
				params[i] = Params(d)
			}
		}
	}
	return names, params
}
