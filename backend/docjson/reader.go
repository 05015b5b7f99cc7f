// Package docjson parses layout-analysis JSON dumps into the intermediate
// document representation. The dump format mirrors what document-AI
// converters emit after layout detection: pages with dimensions and a flat
// list of positioned elements, tables carrying their detected cell grid and
// figures optionally carrying base64 image data.
package docjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/docfold/docfold/backend"
	"github.com/docfold/docfold/model"
	"github.com/docfold/docfold/ocr"
)

// Backend parses layout-analysis JSON dumps. The zero value is ready to use.
type Backend struct{}

// New returns a JSON dump backend.
func New() *Backend { return &Backend{} }

type jsonDocument struct {
	Schema   string        `json:"schema,omitempty"`
	Pages    []jsonPage    `json:"pages"`
	Elements []jsonElement `json:"elements"`
}

type jsonPage struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonElement struct {
	Kind       string     `json:"kind"`
	Page       int        `json:"page"`
	BBox       [4]float64 `json:"bbox"` // x0, y0, x1, y1; top-left origin
	Confidence *float64   `json:"confidence,omitempty"`

	// text, header
	Text  string `json:"text,omitempty"`
	Level int    `json:"level,omitempty"`

	// table
	Rows  int        `json:"rows,omitempty"`
	Cols  int        `json:"cols,omitempty"`
	Cells []jsonCell `json:"cells,omitempty"`

	// figure
	Image string `json:"image,omitempty"` // base64-encoded image data
	Alt   string `json:"alt,omitempty"`
}

type jsonCell struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	RowSpan int    `json:"rowSpan,omitempty"`
	ColSpan int    `json:"colSpan,omitempty"`
	Text    string `json:"text"`
	Header  bool   `json:"header,omitempty"`
}

// Parse decodes a layout dump and builds the document. Elements below the
// confidence floor implied by opts.LayoutSensitivity are dropped; tables
// below opts.TableDetectionThreshold are demoted to text blocks. A grid
// invariant violation surfaces as a *model.StructuralError wrapped in the
// returned *backend.ParseError.
func (b *Backend) Parse(src []byte, opts backend.ParseOptions) (*model.Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, &backend.ParseError{Err: err}
	}

	var dump jsonDocument
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dump); err != nil {
		return nil, &backend.ParseError{Err: fmt.Errorf("decoding layout dump: %w", err)}
	}

	if len(dump.Pages) == 0 {
		return nil, &backend.ParseError{Err: fmt.Errorf("layout dump has no pages")}
	}

	pages := make([]model.PageInfo, len(dump.Pages))
	for i, p := range dump.Pages {
		if p.Width <= 0 || p.Height <= 0 {
			return nil, &backend.ParseError{Err: fmt.Errorf("page %d: non-positive dimensions %gx%g", i, p.Width, p.Height)}
		}
		pages[i] = model.PageInfo{Width: p.Width, Height: p.Height}
	}

	confFloor := 1 - opts.LayoutSensitivity

	var recognizer *ocr.Client
	if opts.OCREnabled && ocr.Enabled() {
		if c, err := ocr.New(); err == nil {
			recognizer = c
			defer recognizer.Close()
		}
	}

	var elements []model.Element
	order := 0
	for i, je := range dump.Elements {
		conf := 1.0
		if je.Confidence != nil {
			conf = *je.Confidence
		}
		if conf < confFloor {
			continue
		}

		at := model.Anchor{
			Page:  je.Page,
			Box:   model.NewBBox(je.BBox[0], je.BBox[1], je.BBox[2], je.BBox[3]),
			Order: order,
		}

		el, err := b.buildElement(i, je, at, conf, opts, recognizer)
		if err != nil {
			return nil, &backend.ParseError{Err: err}
		}
		if el == nil {
			continue
		}
		elements = append(elements, el)
		order++
	}

	doc, err := model.NewDocument(pages, elements)
	if err != nil {
		return nil, &backend.ParseError{Err: err}
	}
	return doc, nil
}

func (b *Backend) buildElement(i int, je jsonElement, at model.Anchor, conf float64, opts backend.ParseOptions, recognizer *ocr.Client) (model.Element, error) {
	switch je.Kind {
	case "text":
		return &model.TextBlock{At: at, Text: je.Text, Confidence: conf}, nil

	case "header":
		level := je.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		return &model.Header{At: at, Text: je.Text, Level: level, Confidence: conf}, nil

	case "table":
		if conf < opts.TableDetectionThreshold {
			// Low-confidence table regions become plain text so their
			// content is not lost, just unstructured.
			return &model.TextBlock{At: at, Text: joinCellText(je.Cells), Confidence: conf}, nil
		}
		cells := make([]model.Cell, len(je.Cells))
		for j, jc := range je.Cells {
			cells[j] = model.Cell{
				Row:      jc.Row,
				Col:      jc.Col,
				RowSpan:  jc.RowSpan,
				ColSpan:  jc.ColSpan,
				Text:     jc.Text,
				IsHeader: jc.Header,
			}
		}
		t, err := model.NewTable(at, je.Rows, je.Cols, cells)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		t.Confidence = conf
		return t, nil

	case "figure":
		fig := &model.Figure{At: at, AltText: je.Alt, Confidence: conf}
		if je.Image != "" {
			data, err := base64.StdEncoding.DecodeString(je.Image)
			if err != nil {
				return nil, fmt.Errorf("element %d: decoding figure image: %w", i, err)
			}
			if cfg, name, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				fig.Format = name
				fig.PixelWidth = cfg.Width
				fig.PixelHeight = cfg.Height
			}
			if fig.AltText == "" && recognizer != nil {
				if text, err := recognizer.RecognizeImage(data); err == nil {
					fig.AltText = text
				}
			}
		}
		return fig, nil

	default:
		return nil, fmt.Errorf("element %d: unknown kind %q", i, je.Kind)
	}
}

// joinCellText flattens cell content row by row for demoted tables.
func joinCellText(cells []jsonCell) string {
	byRow := map[int][]string{}
	maxRow := 0
	for _, c := range cells {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		byRow[c.Row] = append(byRow[c.Row], c.Text)
		if c.Row > maxRow {
			maxRow = c.Row
		}
	}

	var rows []string
	for r := 0; r <= maxRow; r++ {
		if len(byRow[r]) > 0 {
			rows = append(rows, strings.Join(byRow[r], "\t"))
		}
	}
	return strings.Join(rows, "\n")
}
