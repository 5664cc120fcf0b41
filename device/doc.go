// Package device defines the Device contract that a content stream
// interpreter drives, and the text devices built on it.
//
// # Devices
//
// Device has one method per event the interpreter produces: the page
// transform, page and figure brackets, marked-content tags, painted paths,
// images and text-showing operations. Base implements all of them as
// no-ops so a concrete device embeds Base and overrides what it needs.
//
//	dev := device.NewTextDevice(&device.GlyphRecorder{})
//	defer dev.Close()
//
// # Text positioning
//
// TextDevice turns the operand sequence of Tj, TJ, ' and " into placed
// glyphs. Each glyph is handed to a GlyphRenderer together with its
// placement matrix, and the advance it returns moves the pen. The pen
// position is carried between calls in TextState.LinePos.
//
// Horizontal fonts advance along X and vertical fonts along Y. Numeric
// adjustments move the pen backwards by n/1000 of the scaled font size.
// Character spacing applies before every glyph except the first of a call
// that is not preceded by an adjustment, and word spacing applies after
// code 32 for single-byte fonts only.
//
// # Tag extraction
//
// TagExtractor writes page text as nested markup:
//
//	tag, err := device.NewTagExtractor(w, device.WithCodec("utf-8"))
//
// Unmatched EndTag calls fail with an error wrapping ErrBracketUnderflow.
package device
