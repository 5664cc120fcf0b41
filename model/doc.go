// Package model provides the geometric primitives shared by the device,
// text state and interpreter packages.
//
// # Matrices
//
// [Matrix] is a 2D affine transform stored as the six coefficients
// [a b c d e f] used throughout PDF content streams. Composition reads
// left to right:
//
//	render := textMatrix.Multiply(ctm) // apply textMatrix, then ctm
//
// [Matrix.Translated] returns a copy of a matrix whose origin has been moved
// to a point expressed in the matrix's own input space. Glyph placement
// matrices are produced this way from the rendering matrix and the current
// pen position.
//
// # Boxes
//
// [BBox] stores a rectangle as origin plus size. [BBox.String] renders it
// in the "x0 y0 x1 y1" form used by the tag extractor's page brackets.
//
// # Pages
//
// [Page] is the descriptor handed to Device.BeginPage and Device.EndPage.
package model
