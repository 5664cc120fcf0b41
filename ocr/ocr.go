//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/pdfdevice/core"
)

// Client holds one Tesseract engine. It must not be used from more than one
// goroutine at a time.
type Client struct {
	engine *gosseract.Client
}

// New starts an engine for the given Tesseract language codes, "eng" when
// none are given.
func New(languages ...string) (*Client, error) {
	c := &Client{engine: gosseract.NewClient()}
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close stops the engine. A nil Client is already closed.
func (c *Client) Close() error {
	if c == nil || c.engine == nil {
		return nil
	}
	err := c.engine.Close()
	c.engine = nil
	return err
}

// SetLanguage switches the languages recognized by later calls.
func (c *Client) SetLanguage(languages ...string) error {
	if err := c.engine.SetLanguage(languages...); err != nil {
		return fmt.Errorf("ocr: language %s: %w", strings.Join(languages, "+"), err)
	}
	return nil
}

// RecognizeImage returns the trimmed text found in an encoded image file.
func (c *Client) RecognizeImage(data []byte) (string, error) {
	if err := c.engine.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("ocr: load image: %w", err)
	}
	out, err := c.engine.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: recognize: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// RecognizeStream encodes an image XObject and recognizes it.
func (c *Client) RecognizeStream(s *core.Stream) (string, error) {
	data, err := EncodeImage(s)
	if err != nil {
		return "", err
	}
	return c.RecognizeImage(data)
}
