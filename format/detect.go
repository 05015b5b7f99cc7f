// Package format provides input format detection for the docfold library.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a recognized input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// LayoutJSON indicates a layout-analysis JSON dump.
	LayoutJSON
	// HTML indicates an HTML document.
	HTML
	// PDF indicates raw PDF bytes, which docfold does not parse directly;
	// they must first go through an external layout-analysis converter.
	PDF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case LayoutJSON:
		return "LayoutJSON"
	case HTML:
		return "HTML"
	case PDF:
		return "PDF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case LayoutJSON:
		return ".json"
	case HTML:
		return ".html"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// Detect sniffs the input bytes and returns the detected format.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) == 0 {
		return Unknown
	}

	if bytes.HasPrefix(trimmed, []byte("%PDF-")) {
		return PDF
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		return LayoutJSON
	}

	lower := bytes.ToLower(trimmed)
	if bytes.HasPrefix(lower, []byte("<!doctype html")) ||
		bytes.HasPrefix(lower, []byte("<html")) ||
		bytes.HasPrefix(lower, []byte("<?xml")) ||
		trimmed[0] == '<' {
		return HTML
	}

	return Unknown
}

// DetectPath guesses the format from a file name alone. It is used as a
// fallback when content sniffing is inconclusive.
func DetectPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LayoutJSON
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}
