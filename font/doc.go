// Package font provides the font capability consumed by text devices,
// together with simple and composite implementations.
//
// # Capability
//
// Devices only see the [Font] interface:
//
//	codes := f.Decode(raw)       // encoded bytes -> character codes
//	f.IsMultibyte()              // composite fonts never get word spacing
//	f.IsVertical()               // Identity-V writes top to bottom
//	s, err := f.ToUnicode(code)  // errors.Is(err, ErrUndefinedMapping)
//
// Optional behavior is discovered with type assertions: [CodeWidther] gives
// the authoritative number of bytes per code and [Metrics] gives glyph
// advances for renderers that position glyphs.
//
// # Implementations
//
//   - [SimpleFont] - one byte per code, base encoding plus Differences,
//     Standard 14 widths for the printable ASCII range
//   - [CIDFont] - two bytes per code through Identity-H or Identity-V, with
//     W/DW and W2/DW2 metrics
//
// # CMap Support
//
// [ParseToUnicodeCMap] reads bfchar and bfrange sections of a ToUnicode
// CMap. Decoded text is normalized to NFC.
package font
