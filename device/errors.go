package device

import (
	"errors"
	"fmt"
)

var (
	// ErrEncodingMismatch is returned when a string decodes to a code
	// count that is neither one nor two bytes per code.
	ErrEncodingMismatch = errors.New("encoding mismatch")

	// ErrBracketUnderflow is returned by EndTag when no tag is open.
	ErrBracketUnderflow = errors.New("tag bracket underflow")
)

// EncodingMismatchError describes a string whose decoded code count does
// not match its byte length.
type EncodingMismatchError struct {
	Operand   int // index within the operand sequence
	Bytes     int
	Codes     int
	CodeWidth int // width declared by the font, 0 when unknown
}

func (e *EncodingMismatchError) Error() string {
	if e.CodeWidth > 0 {
		return fmt.Sprintf("operand %d: %d bytes decoded to %d codes, font declares %d bytes per code",
			e.Operand, e.Bytes, e.Codes, e.CodeWidth)
	}
	return fmt.Sprintf("operand %d: %d bytes decoded to %d codes", e.Operand, e.Bytes, e.Codes)
}

func (e *EncodingMismatchError) Unwrap() error { return ErrEncodingMismatch }

// BracketUnderflowError reports an EndTag without a matching BeginTag.
type BracketUnderflowError struct {
	Page int
}

func (e *BracketUnderflowError) Error() string {
	return fmt.Sprintf("page %d: end tag without open tag", e.Page)
}

func (e *BracketUnderflowError) Unwrap() error { return ErrBracketUnderflow }
