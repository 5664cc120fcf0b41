package font

import (
	"errors"
	"fmt"
)

// Font is the capability a text device needs from a font. Concrete font
// representations live outside the device and are only reached through
// these methods.
type Font interface {
	// Decode splits an encoded string into character codes, in order.
	Decode(data []byte) []int
	// IsMultibyte reports whether codes may span more than one byte.
	IsMultibyte() bool
	// IsVertical reports whether the font uses vertical writing mode.
	IsVertical() bool
	// ToUnicode maps a character code to text. It returns an error
	// wrapping ErrUndefinedMapping when the code has no Unicode value.
	ToUnicode(code int) (string, error)
}

// CodeWidther is implemented by fonts that know how many bytes each
// character code consumes.
type CodeWidther interface {
	CodeWidth() int
}

// Metrics is implemented by fonts that can report glyph advances, in text
// space units (glyph space divided by 1000).
type Metrics interface {
	// CharWidth returns the horizontal advance of code.
	CharWidth(code int) float64
	// VerticalDisplacement returns the vertical advance of code. It is
	// normally negative because vertical text flows downwards.
	VerticalDisplacement(code int) float64
}

// ErrUndefinedMapping is returned by ToUnicode when a code has no Unicode value.
var ErrUndefinedMapping = errors.New("no unicode mapping")

// UndefinedMappingError records which code of which font failed to map.
type UndefinedMappingError struct {
	Font string
	Code int
}

func (e *UndefinedMappingError) Error() string {
	return fmt.Sprintf("font %s: code %d: %v", e.Font, e.Code, ErrUndefinedMapping)
}

func (e *UndefinedMappingError) Unwrap() error {
	return ErrUndefinedMapping
}

// Name returns a printable name for f, or "<nil>".
func Name(f Font) string {
	if f == nil {
		return "<nil>"
	}
	if s, ok := f.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", f)
}
