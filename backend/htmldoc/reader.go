// Package htmldoc parses HTML documents into the intermediate document
// representation. Headings become Header elements, paragraphs become
// TextBlocks, tables become Tables (honoring rowspan/colspan), and images
// become Figures.
//
// HTML carries no page geometry, so the reader synthesizes it: content
// flows top-down onto US-letter pages with one-inch margins, giving every
// element a plausible bounding box and page number. Proximity queries and
// title resolution behave the same as for coordinate-bearing backends.
package htmldoc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/docfold/docfold/backend"
	"github.com/docfold/docfold/model"
)

// Synthetic page geometry, in points.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	margin     = 72.0
	blockGap   = 12.0
)

// Backend parses HTML documents. The zero value is ready to use.
type Backend struct{}

// New returns an HTML backend.
func New() *Backend { return &Backend{} }

// Parse parses HTML (any charset declared in the document) and builds the
// document with synthesized flow geometry.
func (b *Backend) Parse(src []byte, opts backend.ParseOptions) (*model.Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, &backend.ParseError{Err: err}
	}

	r, err := charset.NewReader(bytes.NewReader(src), "")
	if err != nil {
		return nil, &backend.ParseError{Err: fmt.Errorf("detecting charset: %w", err)}
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, &backend.ParseError{Err: fmt.Errorf("parsing HTML: %w", err)}
	}

	w := &walker{}
	if err := w.walk(root); err != nil {
		return nil, &backend.ParseError{Err: err}
	}

	pages := make([]model.PageInfo, w.page+1)
	for i := range pages {
		pages[i] = model.PageInfo{Width: pageWidth, Height: pageHeight}
	}

	doc, err := model.NewDocument(pages, w.elements)
	if err != nil {
		return nil, &backend.ParseError{Err: err}
	}
	return doc, nil
}

// walker accumulates elements while tracking the synthetic flow cursor.
type walker struct {
	elements []model.Element
	page     int
	cursorY  float64
	order    int
}

// place reserves vertical space for a block of the given height and
// returns its anchor, starting a new page when the block will not fit.
func (w *walker) place(height float64) model.Anchor {
	if w.cursorY == 0 {
		w.cursorY = margin
	}
	if w.cursorY+height > pageHeight-margin && w.cursorY > margin {
		w.page++
		w.cursorY = margin
	}

	at := model.Anchor{
		Page:  w.page,
		Box:   model.NewBBox(margin, w.cursorY, pageWidth-margin, w.cursorY+height),
		Order: w.order,
	}
	w.order++
	w.cursorY += height + blockGap
	return at
}

func (w *walker) walk(n *html.Node) error {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "noscript", "template":
			return nil

		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(n.Data[1] - '0')
			text := textContent(n)
			if text != "" {
				w.elements = append(w.elements, &model.Header{
					At:         w.place(34 - 3*float64(level)),
					Text:       text,
					Level:      level,
					Confidence: 1,
				})
			}
			return nil

		case "p", "li", "blockquote", "pre", "figcaption":
			text := textContent(n)
			if text != "" {
				lines := 1 + len(text)/90
				w.elements = append(w.elements, &model.TextBlock{
					At:         w.place(16 * float64(lines)),
					Text:       text,
					Confidence: 1,
				})
			}
			return nil

		case "table":
			return w.addTable(n)

		case "img":
			w.elements = append(w.elements, &model.Figure{
				At:         w.place(120),
				AltText:    attr(n, "alt"),
				Confidence: 1,
			})
			return nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := w.walk(c); err != nil {
			return err
		}
	}
	return nil
}

// htmlCell is a cell spec before grid placement.
type htmlCell struct {
	text     string
	rowSpan  int
	colSpan  int
	isHeader bool
}

// addTable converts an HTML table to a model.Table. A <caption> is emitted
// as a text block directly above the table so that title resolution sees
// it the same way it sees a caption in a coordinate-bearing layout.
func (w *walker) addTable(n *html.Node) error {
	var rows [][]htmlCell
	var caption string

	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "caption":
				caption = textContent(node)
				return
			case "tr":
				var row []htmlCell
				for c := node.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						row = append(row, htmlCell{
							text:     textContent(c),
							rowSpan:  intAttr(c, "rowspan", 1),
							colSpan:  intAttr(c, "colspan", 1),
							isHeader: c.Data == "th",
						})
					}
				}
				rows = append(rows, row)
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	if len(rows) == 0 {
		return nil
	}

	cells, rowCount, colCount := placeCells(rows)

	if caption != "" {
		w.elements = append(w.elements, &model.TextBlock{
			At:         w.place(16),
			Text:       caption,
			Confidence: 1,
		})
	}

	at := w.place(20 * float64(rowCount))
	t, err := model.NewTable(at, rowCount, colCount, cells)
	if err != nil {
		return fmt.Errorf("table at element %d: %w", at.Order, err)
	}
	t.Confidence = 1
	w.elements = append(w.elements, t)
	return nil
}

// placeCells assigns grid positions to row-ordered cells using the standard
// HTML table algorithm: each cell takes the leftmost free column in its
// row, and spans reserve positions in later rows.
func placeCells(rows [][]htmlCell) ([]model.Cell, int, int) {
	occupied := map[[2]int]bool{}
	var cells []model.Cell
	rowCount := len(rows)
	colCount := 0

	for r, row := range rows {
		col := 0
		for _, hc := range row {
			for occupied[[2]int{r, col}] {
				col++
			}
			if hc.rowSpan < 1 {
				hc.rowSpan = 1
			}
			if hc.colSpan < 1 {
				hc.colSpan = 1
			}
			// Clamp spans that run past the last row, as browsers do.
			if r+hc.rowSpan > rowCount {
				hc.rowSpan = rowCount - r
			}

			for rr := r; rr < r+hc.rowSpan; rr++ {
				for cc := col; cc < col+hc.colSpan; cc++ {
					occupied[[2]int{rr, cc}] = true
				}
			}

			cells = append(cells, model.Cell{
				Row:      r,
				Col:      col,
				RowSpan:  hc.rowSpan,
				ColSpan:  hc.colSpan,
				Text:     hc.text,
				IsHeader: hc.isHeader,
			})

			col += hc.colSpan
			if col > colCount {
				colCount = col
			}
		}
	}

	return cells, rowCount, colCount
}

// textContent returns the concatenated text of a node's subtree with
// whitespace collapsed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func intAttr(n *html.Node, name string, def int) int {
	s := attr(n, name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}
