// Package core provides the object types that appear as content stream
// operands.
//
// PDF defines eight basic object types, all implemented as types satisfying
// the Object interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents PDF string objects (literal or hexadecimal)
//   - [Name] - represents PDF name objects (e.g., /Type, /Font)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries
//
// [Stream] pairs a dictionary with its data. Content streams, form and image
// XObjects are streams; the interpreter decodes their filters before use.
// Every object prints itself in PDF syntax, which is what log fields show.
//
// A text-showing operand sequence is an [Array] whose elements are numbers
// (kerning adjustments) and strings (encoded glyph codes). [Number] and
// [Bytes] classify such elements.
package core
