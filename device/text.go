package device

import (
	"errors"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/model"
)

// ErrNoFont is returned when text is shown before a font is selected.
var ErrNoFont = errors.New("no font selected")

// Provenance locates a glyph in the operand sequence it came from.
type Provenance struct {
	Operand int   // index of the string within the operand sequence
	Bytes   []int // offsets of the bytes that encode the glyph
}

// Glyph is a single placed character code handed to a GlyphRenderer.
type Glyph struct {
	// Matrix maps glyph space at the pen position to device space.
	Matrix        model.Matrix
	Font          font.Font
	FontSize      float64
	Scaling       float64 // horizontal scaling as a factor, 1 is 100%
	Rise          float64
	Code          int
	ColorSpace    ColorSpace
	GraphicsState *graphicsstate.GraphicsState
	Provenance    Provenance
}

// GlyphRenderer places one glyph and returns the pen advance along the
// writing axis in text space units.
type GlyphRenderer interface {
	RenderChar(g Glyph) float64
}

// GlyphRendererFunc adapts a function to GlyphRenderer.
type GlyphRendererFunc func(g Glyph) float64

// RenderChar calls f(g).
func (f GlyphRendererFunc) RenderChar(g Glyph) float64 { return f(g) }

// TextDevice positions glyphs of text-showing operations and hands each
// one to Renderer. With a nil Renderer every glyph advances by zero.
type TextDevice struct {
	Base
	Renderer GlyphRenderer
}

// NewTextDevice creates a text device with an identity transform.
func NewTextDevice(r GlyphRenderer) *TextDevice {
	return &TextDevice{Base: NewBase(), Renderer: r}
}

// axis is the writing direction the pen moves along.
type axis int

const (
	horizontal axis = iota
	vertical
)

// textParams holds the per-call values derived from the text state.
type textParams struct {
	matrix    model.Matrix
	font      font.Font
	fontSize  float64
	scaling   float64
	charSpace float64
	wordSpace float64
	rise      float64
	dxscale   float64
	cs        ColorSpace
	gs        *graphicsstate.GraphicsState
}

// segment is one decoded element of an operand sequence: either a
// numeric adjustment or a run of codes from one string operand.
type segment struct {
	adjust  float64
	codes   []int
	width   int // bytes per code
	operand int
	text    bool
}

// RenderString walks seq from ts.LinePos and stores the final pen position
// back into ts.LinePos. On error the pen position is left unchanged and no
// glyph is rendered.
func (d *TextDevice) RenderString(ts *graphicsstate.TextState, seq []core.Object, cs ColorSpace, gs *graphicsstate.GraphicsState) error {
	f := ts.Font
	if f == nil {
		return ErrNoFont
	}

	segments, err := decodeSequence(f, seq)
	if err != nil {
		return err
	}

	scaling := ts.Scaling * 0.01
	p := textParams{
		matrix:    ts.Matrix.Multiply(d.CTM()),
		font:      f,
		fontSize:  ts.FontSize,
		scaling:   scaling,
		charSpace: ts.CharSpace * scaling,
		wordSpace: ts.WordSpace * scaling,
		rise:      ts.Rise,
		dxscale:   0.001 * ts.FontSize * scaling,
		cs:        cs,
		gs:        gs,
	}
	// Code 32 is not a word separator in multibyte encodings
	if f.IsMultibyte() {
		p.wordSpace = 0
	}

	dir := horizontal
	if f.IsVertical() {
		dir = vertical
	}

	ts.LinePos = d.walk(segments, ts.LinePos, p, dir)
	return nil
}

// walk advances pos over segments along dir and returns the new position.
func (d *TextDevice) walk(segments []segment, pos model.Point, p textParams, dir axis) model.Point {
	advance := func(delta float64) {
		if dir == vertical {
			pos.Y += delta
		} else {
			pos.X += delta
		}
	}

	needCharSpace := false
	for _, seg := range segments {
		if !seg.text {
			advance(-seg.adjust * p.dxscale)
			needCharSpace = true
			continue
		}

		for i, code := range seg.codes {
			if needCharSpace {
				advance(p.charSpace)
			}
			advance(d.renderChar(Glyph{
				Matrix:        p.matrix.Translated(pos.X, pos.Y),
				Font:          p.font,
				FontSize:      p.fontSize,
				Scaling:       p.scaling,
				Rise:          p.rise,
				Code:          code,
				ColorSpace:    p.cs,
				GraphicsState: p.gs,
				Provenance:    Provenance{Operand: seg.operand, Bytes: byteOffsets(i, seg.width)},
			}))
			if code == 32 && p.wordSpace != 0 {
				advance(p.wordSpace)
			}
			needCharSpace = true
		}
	}
	return pos
}

func (d *TextDevice) renderChar(g Glyph) float64 {
	if d.Renderer == nil {
		return 0
	}
	return d.Renderer.RenderChar(g)
}

// decodeSequence classifies and decodes every element of seq. Elements
// that are neither numbers nor strings are dropped.
func decodeSequence(f font.Font, seq []core.Object) ([]segment, error) {
	segments := make([]segment, 0, len(seq))
	for i, obj := range seq {
		if n, ok := core.Number(obj); ok {
			segments = append(segments, segment{adjust: n, operand: i})
			continue
		}
		data, ok := core.Bytes(obj)
		if !ok {
			continue
		}
		codes := f.Decode(data)
		width, err := codeWidth(f, len(data), len(codes))
		if err != nil {
			var mismatch *EncodingMismatchError
			if errors.As(err, &mismatch) {
				mismatch.Operand = i
			}
			return nil, err
		}
		segments = append(segments, segment{codes: codes, width: width, operand: i, text: true})
	}
	return segments, nil
}

// codeWidth returns the number of bytes consumed by each decoded code.
// A width declared by the font is authoritative; otherwise it is inferred
// from the byte and code counts.
func codeWidth(f font.Font, nbytes, ncodes int) (int, error) {
	if cw, ok := f.(font.CodeWidther); ok {
		w := cw.CodeWidth()
		if w <= 0 || w*ncodes != nbytes {
			return 0, &EncodingMismatchError{Bytes: nbytes, Codes: ncodes, CodeWidth: w}
		}
		return w, nil
	}

	switch {
	case ncodes*2 == nbytes:
		return 2, nil
	case ncodes == nbytes:
		return 1, nil
	}
	return 0, &EncodingMismatchError{Bytes: nbytes, Codes: ncodes}
}

// byteOffsets returns the offsets of the bytes that encode code index i.
func byteOffsets(i, width int) []int {
	offsets := make([]int, width)
	for j := range offsets {
		offsets[j] = i*width + j
	}
	return offsets
}
