package device

import (
	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/model"
)

// ColorSpace identifies the color space active for a text-showing
// operation. Devices pass it through to glyph hooks without inspecting it.
type ColorSpace struct {
	Name       string
	Components int
}

// Device receives the output of a content stream interpreter.
//
// The interpreter calls SetCTM once per page before any page content,
// brackets each page with BeginPage/EndPage and nests figures and tags
// properly. A Device is not safe for concurrent use.
type Device interface {
	// SetCTM replaces the page-to-device transform.
	SetCTM(ctm model.Matrix)

	BeginPage(page *model.Page, ctm model.Matrix) error
	EndPage(page *model.Page) error

	BeginFigure(name string, bbox model.BBox, m model.Matrix) error
	EndFigure(name string) error

	BeginTag(tag string, props map[string]any) error
	EndTag() error
	// DoTag marks a point in the content. It behaves as BeginTag
	// immediately followed by EndTag.
	DoTag(tag string, props map[string]any) error

	PaintPath(gs *graphicsstate.GraphicsState, stroke, fill, evenOdd bool, path *graphicsstate.Path) error
	RenderImage(name string, stream *core.Stream) error

	// RenderString shows one text-showing operand sequence. Devices that
	// position glyphs update ts.LinePos.
	RenderString(ts *graphicsstate.TextState, seq []core.Object, cs ColorSpace, gs *graphicsstate.GraphicsState) error

	// Close releases any output resource. Calling it more than once is safe.
	Close() error
}

// Base implements every Device method as a no-op except SetCTM. Concrete
// devices embed it and override the methods they need.
type Base struct {
	ctm model.Matrix
}

// NewBase returns a Base with an identity transform.
func NewBase() Base {
	return Base{ctm: model.Identity()}
}

// SetCTM stores the page-to-device transform.
func (b *Base) SetCTM(ctm model.Matrix) { b.ctm = ctm }

// CTM returns the page-to-device transform last set with SetCTM.
func (b *Base) CTM() model.Matrix { return b.ctm }

func (b *Base) BeginPage(*model.Page, model.Matrix) error          { return nil }
func (b *Base) EndPage(*model.Page) error                          { return nil }
func (b *Base) BeginFigure(string, model.BBox, model.Matrix) error { return nil }
func (b *Base) EndFigure(string) error                             { return nil }
func (b *Base) BeginTag(string, map[string]any) error              { return nil }
func (b *Base) EndTag() error                                      { return nil }
func (b *Base) DoTag(string, map[string]any) error                 { return nil }
func (b *Base) RenderImage(string, *core.Stream) error             { return nil }
func (b *Base) Close() error                                       { return nil }

func (b *Base) PaintPath(*graphicsstate.GraphicsState, bool, bool, bool, *graphicsstate.Path) error {
	return nil
}

func (b *Base) RenderString(*graphicsstate.TextState, []core.Object, ColorSpace, *graphicsstate.GraphicsState) error {
	return nil
}

var _ Device = (*Base)(nil)
