package pdfdevice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pdfdevice/device"
	"github.com/tsawler/pdfdevice/interpreter"
	"github.com/tsawler/pdfdevice/observability"
	"github.com/tsawler/pdfdevice/text"
)

var (
	// ErrPageOutOfRange is returned when a selected page does not exist.
	ErrPageOutOfRange = errors.New("page out of range")

	// ErrMissingPage is returned when a PageContent has no page descriptor.
	ErrMissingPage = errors.New("page content has no page")
)

// Extractor provides a fluent interface for running page content through
// the tag and text devices. Each configuration method returns a new
// Extractor instance, so a configured Extractor can be shared and reused.
type Extractor struct {
	pages   []PageContent
	options ExtractOptions

	// Accumulated configuration error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		pages:   e.pages,
		options: e.options.clone(),
		err:     e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to process (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	pdfdevice.Load(pages...).Pages(1, 3, 5).Text(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to process (1-indexed, inclusive).
//
// Example:
//
//	pdfdevice.Load(pages...).PageRange(2, 4).Text(ctx)
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Logger sets the logger passed to the interpreter and devices. Each page
// gets a child logger carrying its index.
func (e *Extractor) Logger(l observability.Logger) *Extractor {
	newExt := e.clone()
	if l != nil {
		newExt.options.logger = l
	}
	return newExt
}

// Codec sets the output character encoding used by Tags.
//
// Example:
//
//	pdfdevice.Load(pages...).Codec("shift_jis").Tags(ctx, w)
func (e *Extractor) Codec(name string) *Extractor {
	newExt := e.clone()
	newExt.options.codec = name
	return newExt
}

// WithoutShapes stops the text operations from collecting lines and
// rectangles.
func (e *Extractor) WithoutShapes() *Extractor {
	newExt := e.clone()
	newExt.options.shapes = false
	return newExt
}

// MaxFormDepth limits how deeply form XObjects may nest.
func (e *Extractor) MaxFormDepth(n int) *Extractor {
	newExt := e.clone()
	newExt.options.maxFormDepth = n
	return newExt
}

// Workers sets how many pages the text operations convert concurrently.
// Values below 1 mean one page at a time.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	if n < 1 {
		n = 1
	}
	newExt.options.workers = n
	return newExt
}

// Recognizer runs the images drawn by each page through r during the
// text operations. Recognizers are not assumed to be safe for concurrent
// use, so pages are then converted one at a time.
//
// Example:
//
//	client, err := ocr.New()
//	...
//	pages, err := pdfdevice.Load(pages...).Recognizer(client).PageTexts(ctx)
func (e *Extractor) Recognizer(r text.ImageRecognizer) *Extractor {
	newExt := e.clone()
	newExt.options.recognizer = r
	return newExt
}

// PageCount returns the number of loaded pages, ignoring any selection.
func (e *Extractor) PageCount() int {
	return len(e.pages)
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Tags writes the selected pages to w as nested markup through a single
// TagExtractor, so page ids count the selected pages from zero. w is not
// closed.
//
// Example:
//
//	err := pdfdevice.Load(pages...).Tags(ctx, os.Stdout)
func (e *Extractor) Tags(ctx context.Context, w io.Writer) error {
	pages, err := e.selected()
	if err != nil {
		return err
	}

	log := e.options.logger
	dev, err := device.NewTagExtractor(struct{ io.Writer }{w},
		device.WithCodec(e.options.codec),
		device.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer dev.Close()

	for _, p := range pages {
		in := interpreter.New(dev,
			interpreter.WithLogger(log.With(observability.Int("page", p.Page.Index))),
			interpreter.WithMaxFormDepth(e.options.maxFormDepth),
		)
		if err := in.ProcessStreams(ctx, p.Page, p.Resources, p.Streams...); err != nil {
			return fmt.Errorf("page %d: %w", p.Page.Index, err)
		}
	}

	if n := dev.Skipped(); n > 0 {
		log.Warn("glyphs without unicode mapping", observability.Int("skipped", n))
	}
	return dev.Close()
}

// PageTexts converts the selected pages, each with its own Converter, and
// returns them in selection order. Up to Workers pages run concurrently;
// the first failure cancels the rest.
func (e *Extractor) PageTexts(ctx context.Context) ([]text.PageText, error) {
	pages, err := e.selected()
	if err != nil {
		return nil, err
	}

	results := make([]text.PageText, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	workers := e.options.workers
	if e.options.recognizer != nil {
		workers = 1
	}
	g.SetLimit(workers)

	for i, p := range pages {
		i, p := i, p
		g.Go(func() error {
			pt, err := e.convert(ctx, p)
			if err != nil {
				return fmt.Errorf("page %d: %w", p.Page.Index, err)
			}
			results[i] = pt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Text returns the text of the selected pages separated by form feeds.
//
// Example:
//
//	text, err := pdfdevice.Load(pages...).Text(ctx)
func (e *Extractor) Text(ctx context.Context) (string, error) {
	pages, err := e.PageTexts(ctx)
	if err != nil {
		return "", err
	}
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\f"), nil
}

// Fragments returns the positioned text fragments of the selected pages.
func (e *Extractor) Fragments(ctx context.Context) ([]text.Fragment, error) {
	pages, err := e.PageTexts(ctx)
	if err != nil {
		return nil, err
	}
	var frags []text.Fragment
	for _, p := range pages {
		frags = append(frags, p.Fragments...)
	}
	return frags, nil
}

// ============================================================================
// Internal Helpers
// ============================================================================

// convert runs one page through a fresh Converter.
func (e *Extractor) convert(ctx context.Context, p PageContent) (text.PageText, error) {
	log := e.options.logger.With(observability.Int("page", p.Page.Index))
	conv := text.NewConverter(
		text.WithLogger(log),
		text.WithShapes(e.options.shapes),
		text.WithRecognizer(e.options.recognizer),
	)
	defer conv.Close()

	in := interpreter.New(conv,
		interpreter.WithLogger(log),
		interpreter.WithMaxFormDepth(e.options.maxFormDepth),
	)
	if err := in.ProcessStreams(ctx, p.Page, p.Resources, p.Streams...); err != nil {
		return text.PageText{}, err
	}
	if err := conv.Close(); err != nil {
		return text.PageText{}, err
	}

	converted := conv.Pages()
	if len(converted) == 0 {
		return text.PageText{Index: p.Page.Index, MediaBox: p.Page.MediaBox, Rotate: p.Page.Rotate}, nil
	}
	return converted[0], nil
}

// selected returns the pages to process in selection order.
func (e *Extractor) selected() ([]PageContent, error) {
	if e.err != nil {
		return nil, e.err
	}

	var pages []PageContent
	if e.options.pages == nil {
		pages = e.pages
	} else {
		pages = make([]PageContent, 0, len(e.options.pages))
		for _, n := range e.options.pages {
			if n < 1 || n > len(e.pages) {
				return nil, fmt.Errorf("page %d of %d: %w", n, len(e.pages), ErrPageOutOfRange)
			}
			pages = append(pages, e.pages[n-1])
		}
	}

	for i, p := range pages {
		if p.Page == nil {
			return nil, fmt.Errorf("selection %d: %w", i+1, ErrMissingPage)
		}
	}
	return pages, nil
}
