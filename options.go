package pdfdevice

import (
	"runtime"

	"github.com/tsawler/pdfdevice/observability"
	"github.com/tsawler/pdfdevice/text"
)

// ExtractOptions holds configuration for an Extractor.
type ExtractOptions struct {
	// Page selection (1-indexed, nil means all pages)
	pages []int

	logger observability.Logger

	// Output codec for tag extraction
	codec string

	// Collect lines and rectangles alongside text
	shapes bool

	maxFormDepth int

	// Pages converted concurrently by the text operations
	workers int

	// Optional OCR for page images
	recognizer text.ImageRecognizer
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		logger:       observability.NopLogger{},
		codec:        "utf-8",
		shapes:       true,
		maxFormDepth: 16,
		workers:      runtime.NumCPU(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}
