package interpreter

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/device"
	"github.com/tsawler/pdfdevice/font"
)

// ErrUnknownResource is returned when an operator names a resource that
// is not in the page resources.
var ErrUnknownResource = errors.New("unknown resource")

// ResourceError reports the kind and name of a missing resource.
type ResourceError struct {
	Kind string // "font", "colorspace"
	Name string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, ErrUnknownResource)
}

func (e *ResourceError) Unwrap() error {
	return ErrUnknownResource
}

// Resources holds the named objects a content stream can refer to.
type Resources struct {
	Fonts    map[string]font.Font
	XObjects map[string]*core.Stream

	// ColorSpaces maps resource names used by CS and cs. Device color
	// spaces need no entry.
	ColorSpaces map[string]device.ColorSpace

	// Properties maps property list names used by BDC and DP.
	Properties map[string]core.Dict

	// Forms maps form XObject names to the form's own resources. A form
	// without an entry draws with the resources of the content that
	// invokes it.
	Forms map[string]*Resources
}

func (r *Resources) font(name string) (font.Font, error) {
	if r != nil {
		if f, ok := r.Fonts[name]; ok && f != nil {
			return f, nil
		}
	}
	return nil, &ResourceError{Kind: "font", Name: name}
}

// form returns the resources a form XObject draws with.
func (r *Resources) form(name string) *Resources {
	if r != nil {
		if fr, ok := r.Forms[name]; ok && fr != nil {
			return fr
		}
	}
	return r
}

func (r *Resources) xobject(name string) (*core.Stream, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.XObjects[name]
	return s, ok && s != nil
}

// colorSpace resolves a color space operand. Device and other predefined
// families resolve without a resource entry.
func (r *Resources) colorSpace(name string) (device.ColorSpace, error) {
	if cs, ok := predefinedColorSpaces[name]; ok {
		return cs, nil
	}
	if r != nil {
		if cs, ok := r.ColorSpaces[name]; ok {
			return cs, nil
		}
	}
	return device.ColorSpace{}, &ResourceError{Kind: "colorspace", Name: name}
}

func (r *Resources) properties(name string) (core.Dict, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.Properties[name]
	return d, ok
}

var predefinedColorSpaces = map[string]device.ColorSpace{
	"DeviceGray": {Name: "DeviceGray", Components: 1},
	"CalGray":    {Name: "CalGray", Components: 1},
	"DeviceRGB":  {Name: "DeviceRGB", Components: 3},
	"CalRGB":     {Name: "CalRGB", Components: 3},
	"Lab":        {Name: "Lab", Components: 3},
	"DeviceCMYK": {Name: "DeviceCMYK", Components: 4},
	"Pattern":    {Name: "Pattern", Components: 1},
	"G":          {Name: "DeviceGray", Components: 1},
	"RGB":        {Name: "DeviceRGB", Components: 3},
	"CMYK":       {Name: "DeviceCMYK", Components: 4},
}
