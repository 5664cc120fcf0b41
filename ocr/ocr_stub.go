//go:build !ocr

package ocr

import (
	"errors"

	"github.com/tsawler/pdfdevice/core"
)

// ErrOCRNotEnabled is returned by every Client operation in builds without
// the "ocr" tag.
var ErrOCRNotEnabled = errors.New("ocr: support not compiled in, rebuild with -tags ocr")

// Client stands in for the Tesseract client.
type Client struct{}

func New(...string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

func (c *Client) Close() error { return nil }

func (c *Client) SetLanguage(...string) error {
	return ErrOCRNotEnabled
}

func (c *Client) RecognizeImage([]byte) (string, error) {
	return "", ErrOCRNotEnabled
}

func (c *Client) RecognizeStream(*core.Stream) (string, error) {
	return "", ErrOCRNotEnabled
}
