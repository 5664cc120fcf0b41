package interpreter

import (
	"context"
	"fmt"

	"github.com/tsawler/pdfdevice/contentstream"
	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/device"
	"github.com/tsawler/pdfdevice/graphicsstate"
	"github.com/tsawler/pdfdevice/internal/filters"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/observability"
)

// OperationError wraps a failure with the position and operator of the
// operation that caused it.
type OperationError struct {
	Index    int
	Operator string
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %d (%s): %v", e.Index, e.Operator, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// options holds configuration for an Interpreter.
type options struct {
	logger   observability.Logger
	maxDepth int
}

func defaultOptions() options {
	return options{
		logger:   observability.NopLogger{},
		maxDepth: 16,
	}
}

// Option configures an Interpreter.
type Option func(*options)

// WithLogger sets the logger for skipped operators and resources.
func WithLogger(l observability.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxFormDepth limits how deeply form XObjects may nest. Deeper forms
// are skipped.
func WithMaxFormDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// Interpreter drives a device from page content streams. It is not safe
// for concurrent use; pages are processed one at a time.
type Interpreter struct {
	dev  device.Device
	opts options
}

// New creates an interpreter that renders into dev.
func New(dev device.Device, opts ...Option) *Interpreter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Interpreter{dev: dev, opts: o}
}

// Device returns the device the interpreter renders into.
func (in *Interpreter) Device() device.Device {
	return in.dev
}

// ProcessPage renders one page. The device receives SetCTM with the page
// transform, then BeginPage, the page content and EndPage. EndPage is
// called even when the content fails so that device output stays
// balanced; the first error is returned.
func (in *Interpreter) ProcessPage(ctx context.Context, page *model.Page, res *Resources, content []byte) error {
	ops, err := contentstream.NewParser(content).Parse()
	if err != nil {
		return fmt.Errorf("parse content of page %d: %w", page.Index, err)
	}

	ctm := page.DefaultCTM()
	gs := graphicsstate.NewGraphicsState()
	gs.CTM = ctm

	in.dev.SetCTM(ctm)
	if err := in.dev.BeginPage(page, ctm); err != nil {
		return fmt.Errorf("begin page %d: %w", page.Index, err)
	}

	r := &run{
		in:     in,
		dev:    in.dev,
		log:    in.opts.logger.With(observability.Int("page", page.Index)),
		gs:     gs,
		path:   graphicsstate.NewPath(),
		res:    res,
		active: make(map[string]bool),
	}
	err = r.execute(ctx, ops)

	if endErr := in.dev.EndPage(page); err == nil && endErr != nil {
		err = fmt.Errorf("end page %d: %w", page.Index, endErr)
	}
	return err
}

// ProcessStreams decodes the content streams of a page, joins them and
// renders the result with ProcessPage. Streams are joined at token
// boundaries, so the operands of one operator may span streams.
func (in *Interpreter) ProcessStreams(ctx context.Context, page *model.Page, res *Resources, streams ...*core.Stream) error {
	var content []byte
	for i, s := range streams {
		if s == nil {
			continue
		}
		data, err := filters.Decode(s.Dict, s.Data)
		if err != nil {
			return fmt.Errorf("decode content stream %d of page %d: %w", i, page.Index, err)
		}
		content = append(content, data...)
		content = append(content, '\n')
	}
	return in.ProcessPage(ctx, page, res, content)
}
