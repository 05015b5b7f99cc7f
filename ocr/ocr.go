//go:build ocr

// Package ocr recognizes text in figure images, used to produce alt text
// for figures whose backends supplied raw image data.
//
// This implementation wraps the Tesseract engine via gosseract and requires
// Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Build with the "ocr" tag to enable it:
//
//	go build -tags ocr
package ocr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrOCRNotEnabled is returned by the stub implementation when OCR support
// was not compiled in. It is declared here too so callers can test against
// it regardless of build tags.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Enabled reports whether OCR support was compiled in.
func Enabled() bool { return true }

// Client wraps Tesseract for recognition.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client. Close it when no longer needed.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases engine resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns the recognized text with surrounding whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
