package device

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/observability"
)

// tagOptions holds configuration for a TagExtractor.
type tagOptions struct {
	codec  string
	logger observability.Logger
}

// defaultTagOptions returns the default TagExtractor options.
func defaultTagOptions() tagOptions {
	return tagOptions{
		codec:  "utf-8",
		logger: observability.NopLogger{},
	}
}

// TagOption configures a TagExtractor.
type TagOption func(*tagOptions)

// WithCodec sets the output character encoding by its WHATWG name or
// label, for example "utf-8", "latin1" or "shift_jis".
func WithCodec(name string) TagOption {
	return func(o *tagOptions) { o.codec = name }
}

// WithLogger sets the logger used to report skipped glyphs.
func WithLogger(l observability.Logger) TagOption {
	return func(o *tagOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// TagExtractor writes the text of each page as nested markup that mirrors
// the page and marked-content structure of the content stream.
//
// Pages are written as
//
//	<page id="0" bbox="0.000 0.000 612.000 792.000" rotate="0">...</page>
//
// and marked content as elements named after the tag with the properties
// as sorted attributes.
type TagExtractor struct {
	Base

	w      io.Writer
	enc    *encoding.Encoder
	log    observability.Logger
	pageno int
	stack  []string

	skipped int
	closed  bool
}

// NewTagExtractor creates a tag extractor writing to w. It fails if the
// configured codec is unknown.
func NewTagExtractor(w io.Writer, opts ...TagOption) (*TagExtractor, error) {
	o := defaultTagOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e, err := htmlindex.Get(o.codec)
	if err != nil {
		return nil, fmt.Errorf("output codec %q: %w", o.codec, err)
	}

	return &TagExtractor{
		Base: NewBase(),
		w:    w,
		enc:  encoding.ReplaceUnsupported(e.NewEncoder()),
		log:  o.logger,
	}, nil
}

// RenderString writes the Unicode text of every string operand in seq
// with a single write, even when no code maps to text. Numeric
// adjustments are ignored and codes without a Unicode mapping are
// skipped.
func (t *TagExtractor) RenderString(ts *graphicsstate.TextState, seq []core.Object, _ ColorSpace, _ *graphicsstate.GraphicsState) error {
	f := ts.Font
	if f == nil {
		return ErrNoFont
	}

	var sb strings.Builder
	for _, obj := range seq {
		data, ok := core.Bytes(obj)
		if !ok {
			continue
		}
		for _, code := range f.Decode(data) {
			s, err := f.ToUnicode(code)
			if err != nil {
				if errors.Is(err, font.ErrUndefinedMapping) {
					t.skipped++
					t.log.Debug("undefined glyph mapping",
						observability.String("font", font.Name(f)),
						observability.Int("code", code),
						observability.Int("page", t.pageno))
					continue
				}
				return err
			}
			sb.WriteString(s)
		}
	}

	return t.write(html.EscapeString(font.NormalizeUnicode(sb.String())))
}

// BeginPage writes the opening page element.
func (t *TagExtractor) BeginPage(page *model.Page, _ model.Matrix) error {
	return t.write(fmt.Sprintf(`<page id="%d" bbox="%s" rotate="%d">`,
		t.pageno, page.MediaBox.String(), page.Rotate))
}

// EndPage writes the closing page element and advances the page counter.
func (t *TagExtractor) EndPage(*model.Page) error {
	if err := t.write("</page>\n"); err != nil {
		return err
	}
	t.pageno++
	return nil
}

// BeginTag writes an opening element and pushes tag.
func (t *TagExtractor) BeginTag(tag string, props map[string]any) error {
	if err := t.write("<" + html.EscapeString(tag) + attributes(props) + ">"); err != nil {
		return err
	}
	t.stack = append(t.stack, tag)
	return nil
}

// EndTag pops the most recently opened tag and writes its closing element.
func (t *TagExtractor) EndTag() error {
	if len(t.stack) == 0 {
		return &BracketUnderflowError{Page: t.pageno}
	}
	tag := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return t.write("</" + html.EscapeString(tag) + ">")
}

// DoTag writes a self-closing element. The tag stack is left unchanged.
func (t *TagExtractor) DoTag(tag string, props map[string]any) error {
	return t.write("<" + html.EscapeString(tag) + attributes(props) + "/>")
}

// Close closes the output if it is an io.Closer. Only the first call has
// any effect.
func (t *TagExtractor) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Depth returns the number of open tags.
func (t *TagExtractor) Depth() int { return len(t.stack) }

// Skipped returns the number of codes dropped for lack of a Unicode mapping.
func (t *TagExtractor) Skipped() int { return t.skipped }

// PageNumber returns the zero-based index of the next page to be written.
func (t *TagExtractor) PageNumber() int { return t.pageno }

func (t *TagExtractor) write(s string) error {
	b, err := t.enc.String(s)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = io.WriteString(t.w, b)
	return err
}

// attributes renders props as ` key="value"` pairs in key order.
func attributes(props map[string]any) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, ` %s="%s"`, html.EscapeString(k), html.EscapeString(fmt.Sprint(props[k])))
	}
	return sb.String()
}

var _ Device = (*TagExtractor)(nil)
