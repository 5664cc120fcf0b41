package graphicsstate

import (
	"errors"

	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/model"
)

// ErrStackUnderflow is returned by Restore when no state was saved.
var ErrStackUnderflow = errors.New("graphics state stack underflow")

// GraphicsState represents the PDF graphics state
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []*GraphicsState

	// Line attributes
	LineWidth  float64
	LineCap    int
	LineJoin   int
	MiterLimit float64
	Dash       []float64
	DashPhase  float64

	// Color components in the current color space
	StrokeColor []float64
	FillColor   []float64

	// Color space names (DeviceGray, DeviceRGB, resource names, ...)
	StrokeColorSpace string
	FillColorSpace   string
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:              model.Identity(),
		LineWidth:        1.0,
		MiterLimit:       10.0,
		StrokeColor:      []float64{0}, // Black
		FillColor:        []float64{0},
		StrokeColorSpace: "DeviceGray",
		FillColorSpace:   "DeviceGray",
		Text:             NewTextState(),
	}
}

// Clone creates a copy of the graphics state without its stack
func (gs *GraphicsState) Clone() *GraphicsState {
	return &GraphicsState{
		CTM:              gs.CTM,
		Text:             gs.Text,
		LineWidth:        gs.LineWidth,
		LineCap:          gs.LineCap,
		LineJoin:         gs.LineJoin,
		MiterLimit:       gs.MiterLimit,
		Dash:             append([]float64(nil), gs.Dash...),
		DashPhase:        gs.DashPhase,
		StrokeColor:      append([]float64(nil), gs.StrokeColor...),
		FillColor:        append([]float64(nil), gs.FillColor...),
		StrokeColorSpace: gs.StrokeColorSpace,
		FillColorSpace:   gs.FillColorSpace,
	}
}

// Depth returns the number of saved states
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, gs.Clone())
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return ErrStackUnderflow
	}

	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	stack := gs.stack
	*gs = *saved
	gs.stack = stack

	return nil
}

// Transform concatenates m with the CTM (cm operator)
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetLineWidth sets the line width (w operator)
func (gs *GraphicsState) SetLineWidth(width float64) {
	gs.LineWidth = width
}

// SetDash sets the dash pattern (d operator)
func (gs *GraphicsState) SetDash(array []float64, phase float64) {
	gs.Dash = array
	gs.DashPhase = phase
}

// SetStrokeColor sets the stroke color space and components
func (gs *GraphicsState) SetStrokeColor(space string, components ...float64) {
	gs.StrokeColorSpace = space
	gs.StrokeColor = components
}

// SetFillColor sets the fill color space and components
func (gs *GraphicsState) SetFillColor(space string, components ...float64) {
	gs.FillColorSpace = space
	gs.FillColor = components
}

// TextState represents text-specific state. The pen offset from the start
// of the current line lives in LinePos; Matrix only changes on BT, Td, TD,
// T* and Tm.
type TextState struct {
	// Font and size (Tf operator)
	Font     font.Font
	FontName string
	FontSize float64

	// Character and word spacing, unscaled text space units
	CharSpace float64
	WordSpace float64

	// Horizontal scaling (percentage)
	Scaling float64

	// Leading as given by TL (positive moves down)
	Leading float64

	// Text rendering mode
	Render int

	// Text rise
	Rise float64

	// Text matrix at the start of the current line
	Matrix model.Matrix

	// Pen offset along the current line
	LinePos model.Point
}

// NewTextState returns a text state with default values
func NewTextState() TextState {
	return TextState{
		Scaling: 100.0,
		Matrix:  model.Identity(),
	}
}

// Reset begins a text object (BT operator)
func (ts *TextState) Reset() {
	ts.Matrix = model.Identity()
	ts.LinePos = model.Point{}
}

// SetFont sets the current font (Tf operator)
func (ts *TextState) SetFont(name string, f font.Font, size float64) {
	ts.FontName = name
	ts.Font = f
	ts.FontSize = size
}

// SetMatrix replaces the text matrix (Tm operator)
func (ts *TextState) SetMatrix(m model.Matrix) {
	ts.Matrix = m
	ts.LinePos = model.Point{}
}

// Translate moves to the start of the next line offset by (tx, ty) (Td operator)
func (ts *TextState) Translate(tx, ty float64) {
	ts.Matrix = ts.Matrix.Translated(tx, ty)
	ts.LinePos = model.Point{}
}

// TranslateSetLeading is Td that also sets the leading to -ty (TD operator)
func (ts *TextState) TranslateSetLeading(tx, ty float64) {
	ts.Leading = -ty
	ts.Translate(tx, ty)
}

// NextLine moves to the start of the next line (T* operator)
func (ts *TextState) NextLine() {
	ts.Translate(0, -ts.Leading)
}

// EffectiveFontSize returns the font size scaled by the text matrix
func (ts *TextState) EffectiveFontSize() float64 {
	scale := abs(ts.Matrix[3])
	if h := abs(ts.Matrix[0]); h > scale {
		scale = h
	}
	return ts.FontSize * scale
}

// abs returns the absolute value
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
