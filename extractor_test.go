package pdfdevice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/interpreter"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/text"
)

// page builds a letter-sized page drawing content with Helvetica as /F1.
func page(index int, content string) PageContent {
	return PageContent{
		Page: model.NewPage(index, model.NewBBox(0, 0, 612, 792)),
		Resources: &interpreter.Resources{
			Fonts: map[string]font.Font{"F1": font.NewSimpleFont("Helvetica", "WinAnsiEncoding")},
		},
		Streams: []*core.Stream{{Data: []byte(content)}},
	}
}

func textPage(index int, s string) PageContent {
	return page(index, fmt.Sprintf("BT /F1 12 Tf 72 700 Td (%s) Tj ET", s))
}

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestTextAllPages(t *testing.T) {
	ext := Load(textPage(0, "one"), textPage(1, "two"), textPage(2, "three"))

	got, err := ext.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one\ftwo\fthree", got)
	assert.Equal(t, 3, ext.PageCount())
}

func TestTextKernedWordSpacing(t *testing.T) {
	got, err := Load(page(0, "BT /F1 12 Tf 72 700 Td [(Hello) -333 (World)] TJ ET")).Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)
}

func TestTextPageSelection(t *testing.T) {
	base := Load(textPage(0, "one"), textPage(1, "two"), textPage(2, "three")).Workers(2)

	got, err := base.Pages(3, 1).Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "three\fone", got)

	got, err = base.PageRange(2, 3).Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two\fthree", got)

	// Configuration methods do not modify the receiver
	got, err = base.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one\ftwo\fthree", got)
}

func TestSelectionErrors(t *testing.T) {
	ext := Load(textPage(0, "one"))

	_, err := ext.Pages(2).Text(context.Background())
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	_, err = ext.PageRange(3, 1).Text(context.Background())
	assert.ErrorContains(t, err, "invalid page range")

	err = Load(PageContent{}).Tags(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrMissingPage)
}

func TestPageTexts(t *testing.T) {
	content := "BT /F1 12 Tf 72 700 Td (Hello) Tj ET 72 650 m 300 650 l S"
	pages, err := Load(page(4, content)).PageTexts(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)

	p := pages[0]
	assert.Equal(t, 4, p.Index)
	assert.Equal(t, "Hello", p.Text)
	require.Len(t, p.Fragments, 1)
	assert.InDelta(t, 72, p.Fragments[0].X, 1e-9)
	assert.Len(t, p.Lines, 1)

	pages, err = Load(page(4, content)).WithoutShapes().PageTexts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pages[0].Lines)
}

func TestEmptyPage(t *testing.T) {
	pages, err := Load(page(7, "")).PageTexts(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 7, pages[0].Index)
	assert.Empty(t, pages[0].Text)
}

func TestFragments(t *testing.T) {
	frags, err := Load(textPage(0, "one"), textPage(1, "two")).Fragments(context.Background())
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Equal(t, "one", frags[0].Text)
	assert.Equal(t, "two", frags[1].Text)
}

func TestTextFailure(t *testing.T) {
	bad := page(1, "BT /F9 12 Tf (x) Tj ET")
	_, err := Load(textPage(0, "one"), bad).Text(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 1")

	var resErr *interpreter.ResourceError
	assert.True(t, errors.As(err, &resErr))
}

func TestTextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(textPage(0, "one")).Workers(1).Text(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTags(t *testing.T) {
	var out closingBuffer
	ext := Load(
		page(0, "/P BMC BT /F1 12 Tf (Fish & Chips) Tj ET EMC"),
		page(1, "BT /F1 12 Tf (skipped) Tj ET"),
		page(2, "/Span <</Lang (en)>> BDC BT /F1 12 Tf (Hi) Tj ET EMC"),
	)

	err := ext.Pages(1, 3).Tags(context.Background(), &out)
	require.NoError(t, err)
	assert.False(t, out.closed, "caller keeps ownership of the writer")

	want := `<page id="0" bbox="0.000 0.000 612.000 792.000" rotate="0"><P>Fish &amp; Chips</P></page>` + "\n" +
		`<page id="1" bbox="0.000 0.000 612.000 792.000" rotate="0"><Span Lang="en">Hi</Span></page>` + "\n"
	assert.Equal(t, want, out.String())
}

func TestTagsCodec(t *testing.T) {
	var out bytes.Buffer
	err := Load(textPage(0, `\351t\351`)).Codec("iso-8859-1").Tags(context.Background(), &out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out.String(), "\xe9t\xe9"))

	err = Load(textPage(0, "x")).Codec("no-such-codec").Tags(context.Background(), &out)
	assert.Error(t, err)
}

func TestTagsFailure(t *testing.T) {
	err := Load(page(0, "EMC")).Tags(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 0")
}

func TestMust(t *testing.T) {
	assert.Equal(t, "one", Must(Load(textPage(0, "one")).Text(context.Background())))
	assert.Panics(t, func() {
		Must(Load(textPage(0, "one")).Pages(9).Text(context.Background()))
	})
}

type stubRecognizer struct{ calls int }

func (r *stubRecognizer) RecognizeStream(s *core.Stream) (string, error) {
	r.calls++
	return "scanned " + string(s.Data), nil
}

func TestRecognizer(t *testing.T) {
	p := page(0, "q 100 0 0 50 72 600 cm /Im1 Do Q")
	p.Resources.XObjects = map[string]*core.Stream{
		"Im1": {
			Dict: core.Dict{"Subtype": core.Name("Image"), "Width": core.Int(1), "Height": core.Int(1)},
			Data: []byte("text"),
		},
	}

	rec := &stubRecognizer{}
	pages, err := Load(p, p).Recognizer(rec).Workers(4).PageTexts(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, rec.calls)
	assert.Equal(t, []text.ImageText{{Name: "Im1", Text: "scanned text"}}, pages[1].ImageText)
}
