package text

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/device"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/observability"
)

func helvetica(size float64) *graphicsstate.TextState {
	ts := graphicsstate.NewTextState()
	ts.SetFont("F1", font.NewSimpleFont("Helvetica", "WinAnsiEncoding"), size)
	return &ts
}

func show(t *testing.T, c *Converter, ts *graphicsstate.TextState, s string) {
	t.Helper()
	gs := graphicsstate.NewGraphicsState()
	err := c.RenderString(ts, []core.Object{core.String(s)}, device.ColorSpace{Name: "DeviceGray", Components: 1}, gs)
	require.NoError(t, err)
}

func TestConverterFragments(t *testing.T) {
	c := NewConverter()
	page := model.NewPage(0, model.NewBBox(0, 0, 612, 792))
	require.NoError(t, c.BeginPage(page, page.DefaultCTM()))

	ts := helvetica(12)
	ts.Translate(72, 700)
	show(t, c, ts, "Hello")

	ts.Translate(30, 0)
	show(t, c, ts, "World")

	require.NoError(t, c.EndPage(page))

	pages := c.Pages()
	require.Len(t, pages, 1)
	frags := pages[0].Fragments
	require.Len(t, frags, 2)

	// H e l l o = 722 + 556 + 222 + 222 + 556
	assert.Equal(t, "Hello", frags[0].Text)
	assert.InDelta(t, 72, frags[0].X, 1e-9)
	assert.InDelta(t, 700, frags[0].Y, 1e-9)
	assert.InDelta(t, 2.278*12, frags[0].Width, 1e-9)
	assert.InDelta(t, 12, frags[0].FontSize, 1e-9)
	assert.InDelta(t, 0.278*12, frags[0].SpaceWidth, 1e-9)
	assert.Equal(t, "F1", frags[0].FontName)
	assert.Equal(t, LTR, frags[0].Direction)

	assert.InDelta(t, 102, frags[1].X, 1e-9)
	assert.Equal(t, "Hello World", pages[0].Text)
	assert.Equal(t, "Hello World", c.Text())
	assert.Len(t, c.Fragments(), 2)
}

func TestConverterContinuesPenAcrossCalls(t *testing.T) {
	c := NewConverter()
	ts := helvetica(10)

	show(t, c, ts, "ab")
	show(t, c, ts, "c")
	require.NoError(t, c.Close())

	frags := c.Fragments()
	require.Len(t, frags, 2)
	// a and b are both 556 wide
	assert.InDelta(t, 11.12, ts.LinePos.X, 1e-9)
	assert.InDelta(t, 5.56+5.56, frags[1].X, 1e-9)
	assert.Equal(t, "abc", c.Text())
}

func TestConverterSplitsKernedWords(t *testing.T) {
	c := NewConverter()
	ts := helvetica(12)
	ts.Translate(72, 700)

	seq := []core.Object{core.String("Hello"), core.Int(-333), core.String("World"), core.Int(-50), core.String("!")}
	err := c.RenderString(ts, seq, device.ColorSpace{Name: "DeviceGray", Components: 1}, graphicsstate.NewGraphicsState())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	frags := c.Fragments()
	require.Len(t, frags, 2)
	assert.Equal(t, "Hello", frags[0].Text)
	assert.InDelta(t, 2.278*12, frags[0].Width, 1e-9)
	// a small kern stays inside the word
	assert.Equal(t, "World!", frags[1].Text)
	assert.InDelta(t, 72+2.278*12+0.333*12, frags[1].X, 1e-9)
	assert.InDelta(t, 0.278*12, frags[1].SpaceWidth, 1e-9)
	assert.Equal(t, "Hello World!", c.Text())
}

func TestConverterScaledMatrix(t *testing.T) {
	c := NewConverter()
	page := model.NewPage(0, model.NewBBox(0, 0, 612, 792))
	require.NoError(t, c.BeginPage(page, page.DefaultCTM()))
	c.SetCTM(model.Scale(2, 2))

	ts := helvetica(1)
	ts.SetMatrix(model.Matrix{12, 0, 0, 12, 10, 20})
	show(t, c, ts, "A")
	require.NoError(t, c.EndPage(page))

	frags := c.Fragments()
	require.Len(t, frags, 1)
	assert.InDelta(t, 20, frags[0].X, 1e-9)
	assert.InDelta(t, 40, frags[0].Y, 1e-9)
	assert.InDelta(t, 24, frags[0].FontSize, 1e-9)
	assert.InDelta(t, 0.667*24, frags[0].Width, 1e-9)
}

func TestConverterVerticalText(t *testing.T) {
	cid := font.NewCIDFont("KozMinPr6N-Regular", "Identity-V")
	cmap := font.NewCMap()
	cmap.Add(0x0001, "縦")
	cmap.Add(0x0002, "書")
	cid.ToUnicodeCMap = cmap

	ts := graphicsstate.NewTextState()
	ts.SetFont("F2", cid, 10)
	ts.Translate(100, 500)

	c := NewConverter()
	show(t, c, &ts, "\x00\x01\x00\x02")
	require.NoError(t, c.Close())

	frags := c.Fragments()
	require.Len(t, frags, 1)
	assert.True(t, frags[0].Vertical)
	assert.Equal(t, "縦書", frags[0].Text)
	assert.InDelta(t, 100, frags[0].X, 1e-9)
	// Default vertical displacement is one em downwards per glyph
	assert.InDelta(t, 20, frags[0].Height, 1e-9)
	assert.InDelta(t, 480, frags[0].Y, 1e-9)
}

func TestConverterSkipsUnmappedGlyphs(t *testing.T) {
	f := font.NewSimpleFont("Custom", "")
	f.Encoding = nil

	ts := graphicsstate.NewTextState()
	ts.SetFont("F3", f, 12)

	c := NewConverter()
	show(t, c, &ts, "\x01\x02")
	require.NoError(t, c.Close())

	assert.Empty(t, c.Fragments())
	assert.Equal(t, 2, c.Skipped())
	// Unmapped glyphs still move the pen
	assert.InDelta(t, 12.0, ts.LinePos.X, 1e-9)
}

func TestConverterNoFont(t *testing.T) {
	c := NewConverter()
	ts := graphicsstate.NewTextState()
	err := c.RenderString(&ts, []core.Object{core.String("x")}, device.ColorSpace{}, graphicsstate.NewGraphicsState())
	assert.ErrorIs(t, err, device.ErrNoFont)
}

func TestConverterShapesAndXObjects(t *testing.T) {
	c := NewConverter()
	page := model.NewPage(2, model.NewBBox(0, 0, 612, 792))
	page.Rotate = 90
	require.NoError(t, c.BeginPage(page, page.DefaultCTM()))

	gs := graphicsstate.NewGraphicsState()
	gs.SetLineWidth(0.5)

	rect := graphicsstate.NewPath()
	rect.Rectangle(10, 10, 100, 50)
	require.NoError(t, c.PaintPath(gs, true, false, false, rect))

	line := graphicsstate.NewPath()
	line.MoveTo(0, 300)
	line.LineTo(200, 300)
	require.NoError(t, c.PaintPath(gs, true, false, false, line))

	// Neither stroked nor filled: ignored
	require.NoError(t, c.PaintPath(gs, false, false, false, line))

	require.NoError(t, c.BeginFigure("Fm1", model.NewBBox(0, 0, 10, 10), model.Identity()))
	require.NoError(t, c.EndFigure("Fm1"))
	require.NoError(t, c.RenderImage("Im1", &core.Stream{Dict: core.Dict{"Subtype": core.Name("Image")}}))
	require.NoError(t, c.EndPage(page))

	pages := c.Pages()
	require.Len(t, pages, 1)
	p := pages[0]
	assert.Equal(t, 2, p.Index)
	assert.Equal(t, 90, p.Rotate)
	require.Len(t, p.Rects, 1)
	assert.Equal(t, model.NewBBox(10, 10, 100, 50), p.Rects[0].BBox)
	assert.InDelta(t, 0.5, p.Rects[0].StrokeWidth, 1e-9)
	require.Len(t, p.Lines, 1)
	assert.True(t, p.Lines[0].IsHorizontal)
	assert.Equal(t, []string{"Fm1"}, p.Figures)
	assert.Equal(t, []string{"Im1"}, p.Images)
}

func TestConverterWithoutShapes(t *testing.T) {
	c := NewConverter(WithShapes(false))
	path := graphicsstate.NewPath()
	path.Rectangle(0, 0, 10, 10)
	require.NoError(t, c.PaintPath(graphicsstate.NewGraphicsState(), true, true, false, path))
	require.NoError(t, c.Close())

	assert.Empty(t, c.Pages())
}

func TestConverterMultiplePages(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	c := NewConverter(WithLogger(logger))

	for i, s := range []string{"one", "two"} {
		page := model.NewPage(i, model.NewBBox(0, 0, 612, 792))
		require.NoError(t, c.BeginPage(page, page.DefaultCTM()))
		show(t, c, helvetica(12), s)
		require.NoError(t, c.EndPage(page))
	}

	assert.Equal(t, "one\ftwo", c.Text())
	assert.Contains(t, buf.String(), `msg="page converted"`)
	assert.Contains(t, buf.String(), "fragments=1")
}

func TestConverterImplicitPage(t *testing.T) {
	c := NewConverter()
	show(t, c, helvetica(12), "loose")

	// Nothing is complete until the page is closed
	assert.Empty(t, c.Pages())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	require.Len(t, c.Pages(), 1)
	assert.Equal(t, "loose", c.Text())
}

type fakeRecognizer map[string]string

func (f fakeRecognizer) RecognizeStream(s *core.Stream) (string, error) {
	text, ok := f[string(s.Data)]
	if !ok {
		return "", errors.New("unreadable image")
	}
	return text, nil
}

func TestConverterRecognizesImages(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	c := NewConverter(WithLogger(logger), WithRecognizer(fakeRecognizer{"scan": "Invoice 42", "blank": ""}))

	page := model.NewPage(0, model.NewBBox(0, 0, 612, 792))
	require.NoError(t, c.BeginPage(page, page.DefaultCTM()))
	require.NoError(t, c.RenderImage("Im1", &core.Stream{Data: []byte("scan")}))
	require.NoError(t, c.RenderImage("Im2", &core.Stream{Data: []byte("blank")}))
	require.NoError(t, c.RenderImage("Im3", &core.Stream{Data: []byte("noise")}))
	require.NoError(t, c.EndPage(page))

	p := c.Pages()[0]
	assert.Equal(t, []string{"Im1", "Im2", "Im3"}, p.Images)
	assert.Equal(t, []ImageText{{Name: "Im1", Text: "Invoice 42"}}, p.ImageText)
	assert.Contains(t, buf.String(), `msg="image recognition failed"`)
	assert.Contains(t, buf.String(), "image=Im3")
}
