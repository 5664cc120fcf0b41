// Command pdfdevice runs raw page content streams through the tag or text
// devices. Each file argument is the content of one page.
//
//	pdfdevice -font F1=Helvetica:WinAnsiEncoding -mode tags page1.bin page2.bin
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/midbel/hexdump"

	"github.com/tsawler/pdfdevice"
	"github.com/tsawler/pdfdevice/core"
	"github.com/tsawler/pdfdevice/font"
	"github.com/tsawler/pdfdevice/internal/filters"
	"github.com/tsawler/pdfdevice/interpreter"
	"github.com/tsawler/pdfdevice/model"
	"github.com/tsawler/pdfdevice/observability"
	"github.com/tsawler/pdfdevice/ocr"
	"github.com/tsawler/pdfdevice/text"
)

// fontFlags collects -font and -cidfont definitions.
type fontFlags struct {
	fonts map[string]font.Font
	cid   bool
}

func (f *fontFlags) String() string {
	return strconv.Itoa(len(f.fonts))
}

// Set parses name=BaseFont[:Encoding].
func (f *fontFlags) Set(v string) error {
	name, def, ok := strings.Cut(v, "=")
	if !ok || name == "" || def == "" {
		return fmt.Errorf("font %q: want name=BaseFont[:Encoding]", v)
	}
	base, enc, _ := strings.Cut(def, ":")
	if f.cid {
		if enc == "" {
			enc = "Identity-H"
		}
		f.fonts[name] = font.NewCIDFont(base, enc)
	} else {
		if enc == "" {
			enc = "StandardEncoding"
		}
		f.fonts[name] = font.NewSimpleFont(base, enc)
	}
	return nil
}

// config holds the parsed command line.
type config struct {
	fonts   map[string]font.Font
	mode    string
	codec   string
	filter  string
	box     model.BBox
	rotate  int
	dump    bool
	ocr     bool
	verbose bool
	files   []string
}

// recognizer is an image recognizer that holds resources until closed.
type recognizer interface {
	text.ImageRecognizer
	io.Closer
}

var newRecognizer = func() (recognizer, error) {
	c, err := ocr.New()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	cfg := config{fonts: make(map[string]font.Font)}
	flag.StringVar(&cfg.mode, "mode", "text", "output: text or tags")
	flag.StringVar(&cfg.codec, "codec", "utf-8", "output codec for tags")
	flag.StringVar(&cfg.filter, "filter", "", "filter applied to every input, e.g. FlateDecode")
	box := flag.String("box", "0 0 612 792", "media box x0 y0 x1 y1")
	flag.IntVar(&cfg.rotate, "rotate", 0, "page rotation in degrees")
	flag.BoolVar(&cfg.dump, "dump", false, "hexdump decoded content to stderr")
	flag.BoolVar(&cfg.ocr, "ocr", false, "recognize text in images (text mode, needs -tags ocr)")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Var(&fontFlags{fonts: cfg.fonts}, "font", "simple font name=BaseFont[:Encoding] (repeatable)")
	flag.Var(&fontFlags{fonts: cfg.fonts, cid: true}, "cidfont", "CID font name=BaseFont[:Identity-H|Identity-V] (repeatable)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: pdfdevice [flags] content...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	cfg.files = flag.Args()

	var err error
	if cfg.box, err = parseBox(*box); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run processes the configured files. Everything it opens is closed before
// it returns.
func run(ctx context.Context, cfg config, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewSlogLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	res := &interpreter.Resources{Fonts: cfg.fonts}
	pages := make([]pdfdevice.PageContent, 0, len(cfg.files))
	for i, file := range cfg.files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		stream := &core.Stream{Dict: core.Dict{}, Data: data}
		if cfg.filter != "" {
			stream.Dict["Filter"] = core.Name(cfg.filter)
		}
		if cfg.dump {
			body, err := filters.Decode(stream.Dict, stream.Data)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			fmt.Fprintf(stderr, "%s (%d bytes)\n", file, len(body))
			fmt.Fprintln(stderr, hexdump.Dump(body))
		}

		page := model.NewPage(i, cfg.box)
		page.Rotate = cfg.rotate
		pages = append(pages, pdfdevice.PageContent{Page: page, Resources: res, Streams: []*core.Stream{stream}})
	}

	ext := pdfdevice.Load(pages...).Logger(logger).Codec(cfg.codec)
	if cfg.ocr {
		client, err := newRecognizer()
		if err != nil {
			return err
		}
		defer client.Close()
		ext = ext.Recognizer(client)
	}

	switch cfg.mode {
	case "tags":
		return ext.Tags(ctx, stdout)
	case "text":
		return printText(ctx, ext, stdout)
	}
	return fmt.Errorf("unknown mode %q", cfg.mode)
}

// printText writes the page texts separated by form feeds, followed by
// any text recognized in page images.
func printText(ctx context.Context, ext *pdfdevice.Extractor, w io.Writer) error {
	pages, err := ext.PageTexts(ctx)
	if err != nil {
		return err
	}
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	fmt.Fprintln(w, strings.Join(texts, "\f"))

	for _, p := range pages {
		for _, it := range p.ImageText {
			fmt.Fprintf(w, "[page %d image %s]\n%s\n", p.Index, it.Name, it.Text)
		}
	}
	return nil
}

// parseBox parses four space separated numbers into a BBox.
func parseBox(s string) (model.BBox, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return model.BBox{}, fmt.Errorf("box %q: want four numbers", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.BBox{}, fmt.Errorf("box %q: %w", s, err)
		}
		v[i] = n
	}
	return model.NewBBoxFromCorners(v[0], v[1], v[2], v[3]), nil
}
