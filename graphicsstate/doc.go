// Package graphicsstate provides PDF graphics state management.
//
// The PDF graphics state controls how content is rendered, including
// transformation matrices, colors, line properties, and text state.
// This package implements the state stack used during content stream
// processing.
//
// # Graphics State
//
// The main type is GraphicsState, which tracks:
//   - CTM (Current Transformation Matrix) for coordinate transformations
//   - Line properties (width, cap, join, dash)
//   - Colors and color spaces (stroke and fill)
//   - Text state (font, size, spacing, matrix)
//
// Example usage:
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()                      // Push state (q operator)
//	gs.Transform(matrix)           // Modify CTM (cm operator)
//	gs.Text.SetFont("F1", f, 12)   // Set font (Tf operator)
//	err := gs.Restore()            // Pop state (Q operator)
//
// # Text State
//
// TextState keeps the text matrix at the start of the current line and
// the pen offset along that line (LinePos). Showing text only advances
// LinePos; Td, TD, T*, Tm and BT move the line start and reset the pen.
//
// # Path Operations
//
// Path accumulates segments between the construction operators and a
// painting operator. ShapeCollector turns painted paths into device space
// lines and rectangles.
package graphicsstate
