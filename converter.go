package docfold

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/docfold/docfold/backend"
	"github.com/docfold/docfold/backend/docjson"
	"github.com/docfold/docfold/backend/htmldoc"
	"github.com/docfold/docfold/format"
	"github.com/docfold/docfold/model"
	"github.com/docfold/docfold/ocr"
	"github.com/docfold/docfold/render"
	"github.com/docfold/docfold/resolver"
	"github.com/docfold/docfold/spatial"
)

// Warning describes a non-fatal issue encountered during conversion:
// the result is usable but may be imperfect.
type Warning struct {
	Code    string
	Message string
}

// FormatWarnings joins warnings into a single printable string.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return strings.Join(parts, "; ")
}

// Converter provides a fluent interface for converting one source document.
// Each configuration method returns a new Converter instance, making it
// safe for concurrent use and allowing method chaining.
type Converter struct {
	filename string
	data     []byte
	loaded   bool

	options ConvertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Converter with a deep copy of options.
// This ensures immutability: each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		data:     c.data,
		loaded:   c.loaded,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ============================================================================
// Configuration methods (return new Converter instance)
// ============================================================================

// WithOCR enables OCR of figure images into alt text. OCR support must be
// compiled in (build tag "ocr"); otherwise a warning is reported and
// figures keep their original alt text.
//
// Example:
//
//	md, warnings, err := docfold.Open("scan.json").WithOCR().Markdown()
func (c *Converter) WithOCR() *Converter {
	newConv := c.clone()
	newConv.options.parse.OCREnabled = true
	return newConv
}

// LayoutSensitivity sets how aggressively low-confidence elements are kept,
// in [0,1]. An element survives when its detection confidence is at least
// 1-sensitivity; the default 1 keeps everything.
//
// Example:
//
//	md, _, err := docfold.Open("noisy.json").LayoutSensitivity(0.7).Markdown()
func (c *Converter) LayoutSensitivity(s float64) *Converter {
	newConv := c.clone()
	newConv.options.parse.LayoutSensitivity = s
	return newConv
}

// TableThreshold sets the minimum detection confidence for a table to be
// kept as a table, in [0,1]. Below it the region is demoted to plain text.
//
// Example:
//
//	md, _, err := docfold.Open("report.json").TableThreshold(0.5).Markdown()
func (c *Converter) TableThreshold(t float64) *Converter {
	newConv := c.clone()
	newConv.options.parse.TableDetectionThreshold = t
	return newConv
}

// CaptionDistance sets the maximum vertical gap between a table and its
// caption as a fraction of page height. The default is 0.1.
//
// Example:
//
//	md, _, err := docfold.Open("report.json").CaptionDistance(0.08).Markdown()
func (c *Converter) CaptionDistance(ratio float64) *Converter {
	newConv := c.clone()
	newConv.options.caption.DistanceRatio = ratio
	return newConv
}

// CaptionLabels replaces the label tokens recognized as caption starters.
// The defaults are "table", "exhibit", "tbl", "tab", and "schedule".
//
// Example:
//
//	md, _, err := docfold.Open("bericht.json").
//	    CaptionLabels("tabelle", "übersicht").
//	    Markdown()
func (c *Converter) CaptionLabels(labels ...string) *Converter {
	newConv := c.clone()
	newConv.options.caption.LabelTokens = labels
	return newConv
}

// WithSource retargets the chain at a different file, keeping the
// configuration. Useful for applying one configured Converter to many
// inputs.
func (c *Converter) WithSource(filename string) *Converter {
	newConv := c.clone()
	newConv.filename = filename
	newConv.data = nil
	newConv.loaded = false
	return newConv
}

// WithoutTitles disables title resolution; tables are rendered with no
// caption context.
func (c *Converter) WithoutTitles() *Converter {
	newConv := c.clone()
	newConv.options.resolveTitles = false
	return newConv
}

// PageBreaks emits a horizontal rule between pages in Markdown output.
func (c *Converter) PageBreaks() *Converter {
	newConv := c.clone()
	newConv.options.markdown.IncludePageBreaks = true
	return newConv
}

// ============================================================================
// Terminal operations
// ============================================================================

// Document parses the source and returns the intermediate document with
// table titles resolved. Returns the document, any warnings, and an error
// if parsing failed.
//
// Example:
//
//	doc, warnings, err := docfold.Open("report.json").Document()
//	for _, t := range doc.Tables() {
//	    fmt.Println(t.RowCount(), t.ColCount(), t.Source)
//	}
func (c *Converter) Document() (*model.Document, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}

	data, err := c.load()
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if c.options.parse.OCREnabled && !ocr.Enabled() {
		warnings = append(warnings, Warning{
			Code:    "ocr-unavailable",
			Message: "OCR requested but not compiled in; figures keep their original alt text (rebuild with -tags ocr)",
		})
	}

	b, warn, err := c.pickBackend(data)
	if err != nil {
		return nil, warnings, err
	}
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	doc, err := b.Parse(data, c.options.parse)
	if err != nil {
		return nil, warnings, err
	}

	if c.options.resolveTitles {
		idx := spatial.New(doc)
		resolver.New(doc, idx, c.options.caption).ResolveAll()
	}

	return doc, warnings, nil
}

// Markdown converts the source and returns Markdown text.
//
// Example:
//
//	md, warnings, err := docfold.Open("report.json").Markdown()
func (c *Converter) Markdown() (string, []Warning, error) {
	doc, warnings, err := c.Document()
	if err != nil {
		return "", warnings, err
	}
	return render.MarkdownWithOptions(doc, c.options.markdown), warnings, nil
}

// HTML converts the source and returns an HTML fragment.
//
// Example:
//
//	html, warnings, err := docfold.Open("report.json").HTML()
func (c *Converter) HTML() (string, []Warning, error) {
	doc, warnings, err := c.Document()
	if err != nil {
		return "", warnings, err
	}
	return render.HTML(doc), warnings, nil
}

// Records converts the source and returns every table grid position as a
// flattened record for downstream tabular analysis.
//
// Example:
//
//	records, _, err := docfold.Open("report.json").Records()
func (c *Converter) Records() ([]render.Record, []Warning, error) {
	doc, warnings, err := c.Document()
	if err != nil {
		return nil, warnings, err
	}
	return render.Records(doc), warnings, nil
}

// Tables converts the source and returns its tables with titles resolved,
// in document order.
//
// Example:
//
//	tables, _, err := docfold.Open("report.json").Tables()
func (c *Converter) Tables() ([]*model.Table, []Warning, error) {
	doc, warnings, err := c.Document()
	if err != nil {
		return nil, warnings, err
	}
	return doc.Tables(), warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// load reads the source bytes if not already in memory.
func (c *Converter) load() ([]byte, error) {
	if c.loaded {
		return c.data, nil
	}
	if c.filename == "" {
		return nil, fmt.Errorf("no source specified")
	}
	data, err := os.ReadFile(c.filename)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return data, nil
}

// pickBackend selects a backend by sniffing the source bytes, falling back
// to the file extension when sniffing is inconclusive.
func (c *Converter) pickBackend(data []byte) (backend.Backend, *Warning, error) {
	f := format.Detect(data)
	if f == format.Unknown {
		f = format.DetectPath(c.filename)
	}

	switch f {
	case format.LayoutJSON:
		return docjson.New(), nil, nil
	case format.HTML:
		return htmldoc.New(), nil, nil
	case format.PDF:
		return nil, nil, fmt.Errorf("%s: raw PDF input is not supported; run the document through a layout-analysis converter and feed docfold its JSON dump", c.filename)
	default:
		return nil, nil, fmt.Errorf("%s: unrecognized input format", c.filename)
	}
}

// ============================================================================
// Batch conversion
// ============================================================================

// Result is the outcome of converting one document in a batch.
type Result struct {
	Path     string
	Markdown string
	Warnings []Warning
	Err      error
}

// ConvertAll converts several documents concurrently and returns results in
// input order. A failure on one document never blocks or corrupts the
// others; each Result carries its own error. The context cancels documents
// not yet started.
//
// Example:
//
//	results := docfold.ConvertAll(ctx, paths)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("skipping %s: %v", r.Path, r.Err)
//	    }
//	}
func ConvertAll(ctx context.Context, paths []string) []Result {
	return convertAll(ctx, paths, defaultOptions())
}

// ConvertAllWith is ConvertAll using the configuration of the given
// Converter (its source, if any, is ignored).
func ConvertAllWith(ctx context.Context, paths []string, configured *Converter) []Result {
	opts := defaultOptions()
	if configured != nil {
		opts = configured.options.clone()
	}
	return convertAll(ctx, paths, opts)
}

func convertAll(ctx context.Context, paths []string, opts ConvertOptions) []Result {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		results[i].Path = path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			conv := &Converter{filename: path, options: opts.clone()}
			md, warnings, err := conv.Markdown()
			results[i].Markdown = md
			results[i].Warnings = warnings
			results[i].Err = err

			// Per-document failures are recorded, not propagated: one bad
			// document must not abort the batch.
			return nil
		})
	}

	// The group never returns an error, but Wait is still the
	// synchronization point.
	_ = g.Wait()

	return results
}
