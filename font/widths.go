package font

// Standard 14 advance widths for the printable ASCII range 32..126, in
// thousandths of an em. Codes outside the range use the font's default width.
const (
	asciiFirst = 32
	asciiLast  = 126
)

type asciiWidths [asciiLast - asciiFirst + 1]float64

var helveticaASCII = asciiWidths{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldASCII = asciiWidths{
	278, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 500, 500, 500, 500, 500,
	500, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 500, 500, 500, 500,
}

var timesASCII = asciiWidths{
	250, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
	556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 500, 500, 500, 500, 500,
	500, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
	500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 500, 500, 500, 500,
}

var timesBoldASCII = asciiWidths{
	250, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500,
	500, 722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778,
	611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667, 500, 500, 500, 500, 500,
	500, 500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500,
	556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444, 500, 500, 500, 500,
}

var courierASCII = func() (w asciiWidths) {
	for i := range w {
		w[i] = 600
	}
	return w
}()

var standardWidths = map[string]*asciiWidths{
	"Helvetica":             &helveticaASCII,
	"Helvetica-Bold":        &helveticaBoldASCII,
	"Helvetica-Oblique":     &helveticaASCII,
	"Helvetica-BoldOblique": &helveticaBoldASCII,
	"Times-Roman":           &timesASCII,
	"Times-Bold":            &timesBoldASCII,
	"Times-Italic":          &timesASCII,
	"Times-BoldItalic":      &timesBoldASCII,
	"Courier":               &courierASCII,
	"Courier-Bold":          &courierASCII,
	"Courier-Oblique":       &courierASCII,
	"Courier-BoldOblique":   &courierASCII,
}

// IsStandardFont reports whether baseFont names one of the Standard 14 fonts
// with built-in metrics.
func IsStandardFont(baseFont string) bool {
	_, ok := standardWidths[baseFont]
	return ok || baseFont == "Symbol" || baseFont == "ZapfDingbats"
}

// standardWidth returns the built-in width of r for baseFont, or false when
// no metrics are known.
func standardWidth(baseFont string, r rune) (float64, bool) {
	table, ok := standardWidths[baseFont]
	if !ok || r < asciiFirst || r > asciiLast {
		return 0, false
	}
	return table[r-asciiFirst], true
}
