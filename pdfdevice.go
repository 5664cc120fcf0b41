// Package pdfdevice provides a fluent API for running PDF page content
// through output devices.
//
// Basic usage:
//
//	text, err := pdfdevice.Load(pages...).Text(ctx)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	err := pdfdevice.Load(pages...).
//	    Pages(1, 3).
//	    Codec("iso-8859-1").
//	    Tags(ctx, os.Stdout)
//
// A PageContent carries what a PDF reader resolved for one page: the page
// descriptor, its resources and its content streams. For finer control,
// drive the interpreter package with a device of your own.
package pdfdevice

import (
	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/interpreter"
	"github.com/tsawler/pdfdevice/model"
)

// PageContent is one page ready for interpretation.
type PageContent struct {
	Page      *model.Page
	Resources *interpreter.Resources
	Streams   []*core.Stream
}

// Load returns an Extractor over pages for fluent configuration. Pages
// are addressed by their position in the argument list, starting at 1.
//
// Example:
//
//	text, err := pdfdevice.Load(page1, page2).Text(ctx)
func Load(pages ...PageContent) *Extractor {
	return &Extractor{
		pages:   append([]PageContent(nil), pages...),
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	text := pdfdevice.Must(pdfdevice.Load(pages...).Text(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
