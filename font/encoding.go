package font

import (
	"unicode"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Encoding maps single-byte codes to runes.
type Encoding struct {
	Name string
	cm   *charmap.Charmap
}

// Standard simple-font encodings. StandardEncoding and PDFDocEncoding are
// approximated by ISO 8859-1, which agrees on the printable ASCII range.
var (
	WinAnsiEncoding  = &Encoding{Name: "WinAnsiEncoding", cm: charmap.Windows1252}
	MacRomanEncoding = &Encoding{Name: "MacRomanEncoding", cm: charmap.Macintosh}
	StandardEncoding = &Encoding{Name: "StandardEncoding", cm: charmap.ISO8859_1}
	PDFDocEncoding   = &Encoding{Name: "PDFDocEncoding", cm: charmap.ISO8859_1}
)

// GetEncoding returns the encoding registered under name, falling back to
// StandardEncoding for unknown names.
func GetEncoding(name string) *Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding":
		return MacRomanEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	default:
		return StandardEncoding
	}
}

// Rune decodes a single code. It reports false for codes the encoding
// leaves undefined or maps to control characters.
func (e *Encoding) Rune(code byte) (rune, bool) {
	r := e.cm.DecodeByte(code)
	if r == unicode.ReplacementChar || unicode.IsControl(r) {
		return 0, false
	}
	return r, true
}

// NormalizeUnicode returns s in Unicode normalization form C.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// DecodeUTF16BE decodes big-endian UTF-16 data, honoring a leading BOM.
func DecodeUTF16BE(data []byte) (string, error) {
	dec := xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM).NewDecoder()
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
