// Package docfold converts parsed document layouts to Markdown and other
// formats, with table-context extraction: every detected table is linked to
// the caption or section header that introduces it.
//
// Basic usage:
//
//	md, warnings, err := docfold.Open("report.json").Markdown()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docfold.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := docfold.Open("report.json").
//	    CaptionDistance(0.08).
//	    TableThreshold(0.5).
//	    Markdown()
//
// The heavy lifting — layout analysis, table-structure detection, OCR — is
// the job of an external converter; docfold consumes its output (a layout
// JSON dump, or plain HTML) and owns the intermediate document model, the
// spatial queries, and the rendering. The lower-level model, spatial,
// resolver, and render packages are available for advanced use.
package docfold

import "github.com/docfold/docfold/model"

// Open prepares a Converter for the named file. The file is read lazily by
// the first terminal operation (Document, Markdown, HTML, Records, Tables).
//
// Example:
//
//	md, warnings, err := docfold.Open("report.json").Markdown()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes prepares a Converter over in-memory source bytes. The name is
// used in error messages and format fallback only.
//
// Example:
//
//	doc, _, err := docfold.FromBytes("report.json", data).Document()
func FromBytes(name string, data []byte) *Converter {
	return &Converter{
		filename: name,
		data:     data,
		loaded:   true,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for scripts and tests
// where error handling would be cumbersome.
//
// Example:
//
//	doc := docfold.Must(docjson.New().Parse(data, backend.DefaultParseOptions()))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustConvert wraps a terminal operation returning (T, []Warning, error),
// panicking on error and discarding warnings.
//
// Example:
//
//	md := docfold.MustConvert(docfold.Open("report.json").Markdown())
func MustConvert[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Tables is a convenience that extracts the document's tables with their
// titles resolved.
//
// Example:
//
//	tables, warnings, err := docfold.Open("report.json").Tables()
func Tables(filename string) ([]*model.Table, []Warning, error) {
	return Open(filename).Tables()
}
