// Package backend defines the parsing backend contract: a backend turns
// raw source bytes into an immutable model.Document. Layout analysis, table
// detection, and OCR quality are properties of the backend, not of the
// document model; docfold ships backends for layout-analysis JSON dumps
// (backend/docjson) and HTML (backend/htmldoc).
package backend

import (
	"fmt"

	"github.com/docfold/docfold/model"
)

// Backend parses one source document into the intermediate representation.
// Implementations must be safe for concurrent use; each Parse call builds
// an independent Document.
type Backend interface {
	Parse(src []byte, opts ParseOptions) (*model.Document, error)
}

// ParseOptions enumerates the recognized backend settings.
type ParseOptions struct {
	// OCREnabled requests OCR of figure images into alt text, where the
	// backend carries image data and OCR support is compiled in.
	OCREnabled bool

	// LayoutSensitivity in [0,1] controls how aggressively low-confidence
	// elements are kept: an element survives when its detection confidence
	// is at least 1-LayoutSensitivity. At 1 everything is kept.
	LayoutSensitivity float64

	// TableDetectionThreshold in [0,1] is the minimum confidence for a
	// detected table to be kept as a table; below it the region is demoted
	// to a plain text block.
	TableDetectionThreshold float64
}

// DefaultParseOptions returns permissive defaults: keep every element and
// every detected table, no OCR.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		OCREnabled:              false,
		LayoutSensitivity:       1.0,
		TableDetectionThreshold: 0.0,
	}
}

// Validate checks that option values are within their documented ranges.
func (o ParseOptions) Validate() error {
	if o.LayoutSensitivity < 0 || o.LayoutSensitivity > 1 {
		return fmt.Errorf("layout sensitivity %g outside [0,1]", o.LayoutSensitivity)
	}
	if o.TableDetectionThreshold < 0 || o.TableDetectionThreshold > 1 {
		return fmt.Errorf("table detection threshold %g outside [0,1]", o.TableDetectionThreshold)
	}
	return nil
}

// ParseError reports that a backend failed to produce a Document. It is
// fatal to that document only: batch callers decide whether to skip or
// abort, and a failure never corrupts other documents.
type ParseError struct {
	Source string // name of the source document, may be empty
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse failed: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
