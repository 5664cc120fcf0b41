package font

// SimpleFont is a single-byte font (Type1, TrueType, Type3). Each byte of an
// encoded string is one character code.
type SimpleFont struct {
	BaseFont string
	Encoding *Encoding

	// Differences overrides the base encoding for individual codes.
	Differences map[int]rune

	// ToUnicodeCMap takes priority over the encoding when present.
	ToUnicodeCMap *CMap

	// Widths in thousandths of an em, indexed from FirstChar.
	FirstChar    int
	Widths       []float64
	DefaultWidth float64
}

// NewSimpleFont creates a simple font using the named base encoding.
// Standard 14 fonts get built-in widths.
func NewSimpleFont(baseFont, encoding string) *SimpleFont {
	return &SimpleFont{
		BaseFont:     baseFont,
		Encoding:     GetEncoding(encoding),
		DefaultWidth: 500,
	}
}

// SetWidths installs an explicit width array starting at firstChar.
func (f *SimpleFont) SetWidths(firstChar int, widths []float64) {
	f.FirstChar = firstChar
	f.Widths = widths
}

func (f *SimpleFont) String() string {
	return f.BaseFont
}

func (f *SimpleFont) Decode(data []byte) []int {
	codes := make([]int, len(data))
	for i, b := range data {
		codes[i] = int(b)
	}
	return codes
}

func (f *SimpleFont) IsMultibyte() bool { return false }
func (f *SimpleFont) IsVertical() bool  { return false }
func (f *SimpleFont) CodeWidth() int    { return 1 }

// ToUnicode maps code through the ToUnicode CMap, then Differences, then the
// base encoding.
func (f *SimpleFont) ToUnicode(code int) (string, error) {
	if f.ToUnicodeCMap != nil {
		if s, ok := f.ToUnicodeCMap.Lookup(uint32(code)); ok {
			return NormalizeUnicode(s), nil
		}
	}
	if r, ok := f.Differences[code]; ok {
		return string(r), nil
	}
	if code >= 0 && code <= 0xFF && f.Encoding != nil {
		if r, ok := f.Encoding.Rune(byte(code)); ok {
			return NormalizeUnicode(string(r)), nil
		}
	}
	return "", &UndefinedMappingError{Font: f.BaseFont, Code: code}
}

// CharWidth returns the advance of code in text space units.
func (f *SimpleFont) CharWidth(code int) float64 {
	if i := code - f.FirstChar; f.Widths != nil && i >= 0 && i < len(f.Widths) {
		return f.Widths[i] * 0.001
	}
	if s, err := f.ToUnicode(code); err == nil {
		if r := []rune(s); len(r) == 1 {
			if w, ok := standardWidth(f.BaseFont, r[0]); ok {
				return w * 0.001
			}
		}
	}
	return f.DefaultWidth * 0.001
}

// VerticalDisplacement is zero: simple fonts only write horizontally.
func (f *SimpleFont) VerticalDisplacement(code int) float64 {
	return 0
}
