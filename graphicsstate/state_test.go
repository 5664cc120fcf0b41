package graphicsstate

import (
	"errors"
	"math"
	"testing"

	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/model"
)

// TestNewGraphicsState tests initial state
func TestNewGraphicsState(t *testing.T) {
	gs := NewGraphicsState()

	if gs.LineWidth != 1.0 {
		t.Errorf("expected line width 1.0, got %f", gs.LineWidth)
	}

	if gs.Text.Scaling != 100.0 {
		t.Errorf("expected horizontal scaling 100.0, got %f", gs.Text.Scaling)
	}

	if gs.FillColorSpace != "DeviceGray" || gs.StrokeColorSpace != "DeviceGray" {
		t.Errorf("expected DeviceGray color spaces, got %s/%s", gs.StrokeColorSpace, gs.FillColorSpace)
	}

	if !gs.CTM.IsIdentity() {
		t.Error("expected CTM to be identity matrix")
	}

	if !gs.Text.Matrix.IsIdentity() {
		t.Error("expected text matrix to be identity matrix")
	}
}

// TestSaveRestore tests q/Q operators
func TestSaveRestore(t *testing.T) {
	gs := NewGraphicsState()
	helv := font.NewSimpleFont("Helvetica", "WinAnsiEncoding")

	gs.SetLineWidth(2.5)
	gs.Text.SetFont("F1", helv, 14)
	gs.SetFillColor("DeviceRGB", 1, 0, 0)

	gs.Save()

	gs.SetLineWidth(5.0)
	gs.Text.SetFont("F2", nil, 18)
	gs.FillColor[0] = 0.5

	if gs.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", gs.Depth())
	}

	if err := gs.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if gs.LineWidth != 2.5 {
		t.Errorf("expected restored line width 2.5, got %f", gs.LineWidth)
	}

	if gs.Text.FontName != "F1" || gs.Text.Font != font.Font(helv) {
		t.Errorf("expected restored font F1, got %s", gs.Text.FontName)
	}

	if gs.Text.FontSize != 14 {
		t.Errorf("expected restored font size 14, got %f", gs.Text.FontSize)
	}

	if gs.FillColor[0] != 1 {
		t.Errorf("expected restored fill color to be unaffected by in-place edit, got %v", gs.FillColor)
	}

	if gs.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", gs.Depth())
	}
}

// TestRestoreUnderflow tests restore without save
func TestRestoreUnderflow(t *testing.T) {
	gs := NewGraphicsState()

	err := gs.Restore()
	if !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("expected ErrStackUnderflow, got %v", err)
	}
}

// TestNestedSaveRestore tests nested q/Q
func TestNestedSaveRestore(t *testing.T) {
	gs := NewGraphicsState()

	gs.SetLineWidth(1.0)
	gs.Save() // Level 1

	gs.SetLineWidth(2.0)
	gs.Save() // Level 2

	gs.SetLineWidth(3.0)

	if err := gs.Restore(); err != nil {
		t.Fatal(err)
	}
	if gs.LineWidth != 2.0 {
		t.Errorf("expected line width 2.0, got %f", gs.LineWidth)
	}

	if err := gs.Restore(); err != nil {
		t.Fatal(err)
	}
	if gs.LineWidth != 1.0 {
		t.Errorf("expected line width 1.0, got %f", gs.LineWidth)
	}
}

// TestTransform tests cm operator
func TestTransform(t *testing.T) {
	gs := NewGraphicsState()

	gs.Transform(model.Translate(100, 200))

	if gs.CTM[4] != 100 || gs.CTM[5] != 200 {
		t.Errorf("expected translation (100, 200), got (%f, %f)", gs.CTM[4], gs.CTM[5])
	}

	// A second cm is applied in the space established by the first
	gs.Transform(model.Scale(2, 2))
	p := gs.CTM.Transform(model.Point{X: 1, Y: 1})
	if p.X != 102 || p.Y != 202 {
		t.Errorf("expected (102, 202), got (%f, %f)", p.X, p.Y)
	}
}

// TestColors tests color operators
func TestColors(t *testing.T) {
	gs := NewGraphicsState()

	gs.SetStrokeColor("DeviceRGB", 1.0, 0.0, 0.0)
	gs.SetFillColor("DeviceCMYK", 0, 0, 0, 1)

	if gs.StrokeColorSpace != "DeviceRGB" || len(gs.StrokeColor) != 3 || gs.StrokeColor[0] != 1 {
		t.Errorf("stroke color not set correctly: %s %v", gs.StrokeColorSpace, gs.StrokeColor)
	}

	if gs.FillColorSpace != "DeviceCMYK" || len(gs.FillColor) != 4 {
		t.Errorf("fill color not set correctly: %s %v", gs.FillColorSpace, gs.FillColor)
	}
}

// TestLineAttributes tests w and d operators
func TestLineAttributes(t *testing.T) {
	gs := NewGraphicsState()

	gs.SetLineWidth(2.5)
	gs.SetDash([]float64{3, 1}, 2)

	if gs.LineWidth != 2.5 {
		t.Errorf("expected line width 2.5, got %f", gs.LineWidth)
	}
	if len(gs.Dash) != 2 || gs.DashPhase != 2 {
		t.Errorf("unexpected dash %v phase %f", gs.Dash, gs.DashPhase)
	}
}

// TestClone tests state cloning
func TestClone(t *testing.T) {
	gs := NewGraphicsState()
	gs.Text.SetFont("F1", nil, 14)
	gs.SetLineWidth(2.0)
	gs.Save()

	clone := gs.Clone()

	gs.Text.SetFont("F2", nil, 18)
	gs.SetLineWidth(3.0)

	if clone.Text.FontName != "F1" {
		t.Errorf("clone font should be F1, got %s", clone.Text.FontName)
	}

	if clone.Text.FontSize != 14 {
		t.Errorf("clone font size should be 14, got %f", clone.Text.FontSize)
	}

	if clone.LineWidth != 2.0 {
		t.Errorf("clone line width should be 2.0, got %f", clone.LineWidth)
	}

	if clone.Depth() != 0 {
		t.Errorf("clone should not carry the stack, got depth %d", clone.Depth())
	}
}

// TestTextStateReset tests BT operator
func TestTextStateReset(t *testing.T) {
	ts := NewTextState()
	ts.Matrix = model.Matrix{1, 0, 0, 1, 100, 200}
	ts.LinePos = model.Point{X: 42, Y: 0}

	ts.Reset()

	if !ts.Matrix.IsIdentity() {
		t.Error("expected text matrix to be identity after BT")
	}
	if ts.LinePos != (model.Point{}) {
		t.Errorf("expected line position (0, 0), got %v", ts.LinePos)
	}
}

// TestTextStateSetMatrix tests Tm operator
func TestTextStateSetMatrix(t *testing.T) {
	ts := NewTextState()
	ts.LinePos = model.Point{X: 10, Y: 0}

	m := model.Matrix{1, 0, 0, 1, 72, 720}
	ts.SetMatrix(m)

	if ts.Matrix != m {
		t.Error("text matrix not set correctly")
	}
	if ts.LinePos != (model.Point{}) {
		t.Errorf("expected line position reset, got %v", ts.LinePos)
	}
}

// TestTextStateTranslate tests Td operator
func TestTextStateTranslate(t *testing.T) {
	ts := NewTextState()

	ts.Translate(10, 20)
	if ts.Matrix[4] != 10 || ts.Matrix[5] != 20 {
		t.Errorf("expected translation (10, 20), got (%f, %f)", ts.Matrix[4], ts.Matrix[5])
	}

	ts.LinePos = model.Point{X: 30, Y: 0}
	ts.Translate(5, 10)

	if ts.Matrix[4] != 15 || ts.Matrix[5] != 30 {
		t.Errorf("expected cumulative translation (15, 30), got (%f, %f)", ts.Matrix[4], ts.Matrix[5])
	}
	if ts.LinePos != (model.Point{}) {
		t.Errorf("expected line position reset, got %v", ts.LinePos)
	}

	// Offsets are in the text space of the current matrix
	ts.SetMatrix(model.Matrix{2, 0, 0, 2, 100, 100})
	ts.Translate(1, -1)
	if ts.Matrix[4] != 102 || ts.Matrix[5] != 98 {
		t.Errorf("expected scaled translation (102, 98), got (%f, %f)", ts.Matrix[4], ts.Matrix[5])
	}
}

// TestTextStateTranslateSetLeading tests TD operator
func TestTextStateTranslateSetLeading(t *testing.T) {
	ts := NewTextState()

	ts.TranslateSetLeading(0, -14)

	if ts.Leading != 14 {
		t.Errorf("expected leading 14, got %f", ts.Leading)
	}
	if ts.Matrix[5] != -14 {
		t.Errorf("expected Y translation -14, got %f", ts.Matrix[5])
	}
}

// TestTextStateNextLine tests T* operator
func TestTextStateNextLine(t *testing.T) {
	ts := NewTextState()
	ts.Translate(72, 720)
	ts.Leading = 14
	ts.LinePos = model.Point{X: 55, Y: 0}

	ts.NextLine()

	if math.Abs(ts.Matrix[5]-706) > 0.001 {
		t.Errorf("expected Y 706, got %f", ts.Matrix[5])
	}
	if ts.Matrix[4] != 72 {
		t.Errorf("expected X 72, got %f", ts.Matrix[4])
	}
	if ts.LinePos != (model.Point{}) {
		t.Errorf("expected line position reset, got %v", ts.LinePos)
	}
}

// TestEffectiveFontSize tests font size scaling by the text matrix
func TestEffectiveFontSize(t *testing.T) {
	tests := []struct {
		name     string
		size     float64
		matrix   model.Matrix
		expected float64
	}{
		{"identity", 12, model.Identity(), 12},
		{"scaled matrix", 1, model.Matrix{10, 0, 0, 10, 0, 0}, 10},
		{"flipped", 1, model.Matrix{-9, 0, 0, -9, 0, 0}, 9},
		{"wide", 2, model.Matrix{8, 0, 0, 4, 0, 0}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTextState()
			ts.FontSize = tt.size
			ts.Matrix = tt.matrix
			if got := ts.EffectiveFontSize(); got != tt.expected {
				t.Errorf("EffectiveFontSize() = %f, want %f", got, tt.expected)
			}
		})
	}
}
