package text

import (
	"math"
	"strings"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/device"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/observability"
)

// PageText is everything a Converter collected for one page.
type PageText struct {
	Index     int
	MediaBox  model.BBox
	Rotate    int
	Fragments []Fragment
	Lines     []graphicsstate.Line
	Rects     []graphicsstate.Rect
	Images    []string
	Figures   []string

	// ImageText holds text recognized in the page images, when a
	// recognizer is configured.
	ImageText []ImageText

	// Text is the page text in reading order.
	Text string
}

// ImageText is text recognized in one image.
type ImageText struct {
	Name string
	Text string
}

// ImageRecognizer extracts text from an image XObject. *ocr.Client
// implements it.
type ImageRecognizer interface {
	RecognizeStream(s *core.Stream) (string, error)
}

// options holds configuration for a Converter.
type options struct {
	logger        observability.Logger
	collectShapes bool
	recognizer    ImageRecognizer
}

// defaultOptions returns the default converter options.
func defaultOptions() options {
	return options{
		logger:        observability.NopLogger{},
		collectShapes: true,
	}
}

// Option configures a Converter.
type Option func(*options)

// WithLogger sets the logger used for per-page diagnostics.
func WithLogger(l observability.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithShapes controls whether painted paths are collected as lines and
// rectangles. It is enabled by default.
func WithShapes(enabled bool) Option {
	return func(o *options) { o.collectShapes = enabled }
}

// WithRecognizer runs every image the page draws through r. Recognition
// failures are logged and do not stop the page.
func WithRecognizer(r ImageRecognizer) Option {
	return func(o *options) { o.recognizer = r }
}

// Converter is a Device that turns pages into positioned text fragments
// and plain text.
type Converter struct {
	*device.TextDevice

	opts    options
	rec     device.GlyphRecorder
	shapes  *graphicsstate.ShapeCollector
	current *PageText
	pages   []PageText
	skipped int
	closed  bool
}

// NewConverter creates a text converter.
func NewConverter(opts ...Option) *Converter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Converter{
		opts:   o,
		shapes: graphicsstate.NewShapeCollector(),
	}
	c.TextDevice = device.NewTextDevice(&c.rec)
	return c
}

// BeginPage starts collecting a new page.
func (c *Converter) BeginPage(page *model.Page, _ model.Matrix) error {
	c.flush()
	c.current = &PageText{
		Index:    page.Index,
		MediaBox: page.MediaBox,
		Rotate:   page.Rotate,
	}
	return nil
}

// EndPage finishes the current page.
func (c *Converter) EndPage(*model.Page) error {
	c.flush()
	return nil
}

// BeginFigure records the name of a form XObject drawn on the page.
func (c *Converter) BeginFigure(name string, _ model.BBox, _ model.Matrix) error {
	p := c.page()
	p.Figures = append(p.Figures, name)
	return nil
}

// RenderImage records the name of an image drawn on the page and any text
// the recognizer finds in it.
func (c *Converter) RenderImage(name string, stream *core.Stream) error {
	p := c.page()
	p.Images = append(p.Images, name)

	if c.opts.recognizer == nil || stream == nil {
		return nil
	}
	text, err := c.opts.recognizer.RecognizeStream(stream)
	if err != nil {
		c.opts.logger.Warn("image recognition failed",
			observability.String("image", name), observability.Error("err", err))
		return nil
	}
	if text != "" {
		p.ImageText = append(p.ImageText, ImageText{Name: name, Text: text})
	}
	return nil
}

// PaintPath collects stroked and filled paths as lines and rectangles.
func (c *Converter) PaintPath(gs *graphicsstate.GraphicsState, stroke, fill, _ bool, path *graphicsstate.Path) error {
	if !c.opts.collectShapes || gs == nil {
		return nil
	}
	c.page()
	c.shapes.Collect(gs, path, stroke, fill)
	return nil
}

// RenderString positions the glyphs of seq and records them as fragments.
func (c *Converter) RenderString(ts *graphicsstate.TextState, seq []core.Object, cs device.ColorSpace, gs *graphicsstate.GraphicsState) error {
	c.rec.Reset()
	if err := c.TextDevice.RenderString(ts, seq, cs, gs); err != nil {
		return err
	}
	c.skipped += c.rec.Skipped

	frags := newFragments(ts, c.rec.Glyphs)
	if len(frags) == 0 {
		return nil
	}
	p := c.page()
	p.Fragments = append(p.Fragments, frags...)
	return nil
}

// Close finishes any open page. Only the first call has any effect.
func (c *Converter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.flush()
	return nil
}

// Pages returns the completed pages.
func (c *Converter) Pages() []PageText {
	return c.pages
}

// Fragments returns the fragments of all completed pages.
func (c *Converter) Fragments() []Fragment {
	var frags []Fragment
	for _, p := range c.pages {
		frags = append(frags, p.Fragments...)
	}
	return frags
}

// Text returns the text of all completed pages separated by form feeds.
func (c *Converter) Text() string {
	texts := make([]string, len(c.pages))
	for i, p := range c.pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\f")
}

// Skipped returns the number of glyphs without a Unicode mapping.
func (c *Converter) Skipped() int {
	return c.skipped
}

// page returns the page being collected, starting one if content arrives
// outside BeginPage/EndPage.
func (c *Converter) page() *PageText {
	if c.current == nil {
		c.current = &PageText{Index: len(c.pages)}
	}
	return c.current
}

// flush completes the current page, if any.
func (c *Converter) flush() {
	if c.current == nil {
		return
	}
	p := c.current
	c.current = nil

	p.Lines = c.shapes.Lines
	p.Rects = c.shapes.Rects
	c.shapes.Reset()
	p.Text = assembleText(p.Fragments)

	c.opts.logger.Debug("page converted",
		observability.Int("page", p.Index),
		observability.Int("fragments", len(p.Fragments)),
		observability.Int("lines", len(p.Lines)),
		observability.Int("rects", len(p.Rects)))

	c.pages = append(c.pages, *p)
}

// newFragments builds fragments from the glyphs of one text-showing
// operation. A horizontal run is split wherever the pen moves ahead by at
// least half a space, as kerning adjustments between words do.
func newFragments(ts *graphicsstate.TextState, glyphs []device.RecordedGlyph) []Fragment {
	if len(glyphs) == 0 {
		return nil
	}
	space := fontSpace(ts, glyphs[0])
	threshold := space / 2
	if space == 0 {
		threshold = length(glyphs[0].Matrix.TransformVector(model.Point{Y: glyphs[0].FontSize})) / 8
	}

	var frags []Fragment
	start := 0
	for i := 1; i <= len(glyphs); i++ {
		if i < len(glyphs) && (glyphs[i].Vertical || advanceGap(glyphs[i-1], glyphs[i]) < threshold) {
			continue
		}
		if frag, ok := newFragment(ts, glyphs[start:i], space); ok {
			frags = append(frags, frag)
		}
		start = i
	}
	return frags
}

// advanceGap returns how far b starts past the end of a along a's
// baseline, in device space.
func advanceGap(a, b device.RecordedGlyph) float64 {
	u := a.Matrix.TransformVector(model.Point{X: 1})
	n := length(u)
	if n == 0 {
		return 0
	}
	end := a.Matrix.Transform(model.Point{X: a.Advance})
	next := b.Matrix.Origin()
	return ((next.X-end.X)*u.X + (next.Y-end.Y)*u.Y) / n
}

// fontSpace returns the device space width of a space in the current
// font, or 0 when the font has no metrics.
func fontSpace(ts *graphicsstate.TextState, g device.RecordedGlyph) float64 {
	m, ok := ts.Font.(font.Metrics)
	if !ok {
		return 0
	}
	w := m.CharWidth(32) * ts.FontSize * ts.Scaling * 0.01
	return length(g.Matrix.TransformVector(model.Point{X: w}))
}

// newFragment builds a fragment from a run of glyphs. It reports false
// when the glyphs carry no text.
func newFragment(ts *graphicsstate.TextState, glyphs []device.RecordedGlyph, space float64) (Fragment, bool) {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Text)
	}
	if sb.Len() == 0 {
		return Fragment{}, false
	}
	text := sb.String()

	first := glyphs[0]
	last := glyphs[len(glyphs)-1]
	start := first.Origin()

	frag := Fragment{
		Text:       text,
		FontName:   ts.FontName,
		Vertical:   first.Vertical,
		Direction:  DirectionOf(text),
		SpaceWidth: space,
	}

	if first.Vertical {
		end := last.Matrix.Transform(model.Point{X: 0, Y: last.Advance + last.Rise})
		frag.X = start.X
		frag.Y = math.Min(start.Y, end.Y)
		frag.Height = math.Abs(end.Y - start.Y)
		frag.FontSize = length(first.Matrix.TransformVector(model.Point{X: first.FontSize}))
		frag.Width = frag.FontSize
	} else {
		end := last.Matrix.Transform(model.Point{X: last.Advance, Y: last.Rise})
		frag.X = math.Min(start.X, end.X)
		frag.Y = start.Y
		frag.Width = math.Abs(end.X - start.X)
		frag.FontSize = length(first.Matrix.TransformVector(model.Point{Y: first.FontSize}))
		frag.Height = frag.FontSize
	}

	return frag, true
}

// length returns the Euclidean length of v
func length(v model.Point) float64 {
	return math.Hypot(v.X, v.Y)
}

var _ device.Device = (*Converter)(nil)
