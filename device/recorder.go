package device

import (
	"errors"

	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/model"
)

// RecordedGlyph is a glyph captured by GlyphRecorder.
type RecordedGlyph struct {
	Matrix     model.Matrix
	Code       int
	Text       string // empty when the code has no Unicode mapping
	Advance    float64
	FontSize   float64
	Rise       float64
	Vertical   bool
	Provenance Provenance
}

// Origin returns the device space position of the glyph origin, including
// rise.
func (g RecordedGlyph) Origin() model.Point {
	return g.Matrix.Transform(model.Point{X: 0, Y: g.Rise})
}

// GlyphRecorder is a GlyphRenderer that computes advances from font
// metrics and records every glyph it is given.
type GlyphRecorder struct {
	Glyphs []RecordedGlyph

	// Skipped counts glyphs without a Unicode mapping.
	Skipped int
}

// RenderChar records g and returns its advance. Fonts without metrics
// advance by zero.
func (r *GlyphRecorder) RenderChar(g Glyph) float64 {
	var adv float64
	vert := g.Font.IsVertical()
	if m, ok := g.Font.(font.Metrics); ok {
		if vert {
			adv = m.VerticalDisplacement(g.Code) * g.FontSize * g.Scaling
		} else {
			adv = m.CharWidth(g.Code) * g.FontSize * g.Scaling
		}
	}

	text, err := g.Font.ToUnicode(g.Code)
	if err != nil {
		text = ""
		if errors.Is(err, font.ErrUndefinedMapping) {
			r.Skipped++
		}
	}

	r.Glyphs = append(r.Glyphs, RecordedGlyph{
		Matrix:     g.Matrix,
		Code:       g.Code,
		Text:       text,
		Advance:    adv,
		FontSize:   g.FontSize,
		Rise:       g.Rise,
		Vertical:   vert,
		Provenance: g.Provenance,
	})
	return adv
}

// Text concatenates the text of all recorded glyphs.
func (r *GlyphRecorder) Text() string {
	n := 0
	for _, g := range r.Glyphs {
		n += len(g.Text)
	}
	buf := make([]byte, 0, n)
	for _, g := range r.Glyphs {
		buf = append(buf, g.Text...)
	}
	return string(buf)
}

// Reset discards recorded glyphs.
func (r *GlyphRecorder) Reset() {
	r.Glyphs = r.Glyphs[:0]
	r.Skipped = 0
}
