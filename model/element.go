package model

// Kind identifies the variant of a document element.
type Kind int

const (
	KindTextBlock Kind = iota
	KindHeader
	KindTable
	KindFigure
)

func (k Kind) String() string {
	switch k {
	case KindTextBlock:
		return "TextBlock"
	case KindHeader:
		return "Header"
	case KindTable:
		return "Table"
	case KindFigure:
		return "Figure"
	default:
		return "Unknown"
	}
}

// Anchor ties an element to its place in the source document: the page it
// appears on, its bounding box, and its position in document reading order.
type Anchor struct {
	Page  int  // 0-based page number
	Box   BBox // position on the page
	Order int  // document-order index, unique and strictly increasing
}

// Element is one positioned piece of document content. The set of variants
// is closed: TextBlock, Header, Table, and Figure are the only
// implementations, so a switch over Kind covers every case.
type Element interface {
	Kind() Kind
	Anchor() Anchor

	// sealed prevents implementations outside this package, keeping the
	// variant set closed.
	sealed()
}

// TextBlock is a run of body text.
type TextBlock struct {
	At         Anchor
	Text       string
	Confidence float64 // detection confidence reported by the backend (0-1)
}

func (t *TextBlock) Kind() Kind     { return KindTextBlock }
func (t *TextBlock) Anchor() Anchor { return t.At }
func (t *TextBlock) sealed()        {}

// Header is a heading or section title.
type Header struct {
	At         Anchor
	Text       string
	Level      int // 1-6
	Confidence float64
}

func (h *Header) Kind() Kind     { return KindHeader }
func (h *Header) Anchor() Anchor { return h.At }
func (h *Header) sealed()        {}

// Figure is an image or chart region. PixelWidth and PixelHeight are zero
// when the backend supplied no decodable image data.
type Figure struct {
	At          Anchor
	AltText     string
	Format      string // image format name ("png", "tiff", ...), if known
	PixelWidth  int
	PixelHeight int
	Confidence  float64
}

func (f *Figure) Kind() Kind     { return KindFigure }
func (f *Figure) Anchor() Anchor { return f.At }
func (f *Figure) sealed()        {}

// Text returns the textual content of an element, or "" for figures.
// Tables are flattened to tab-separated rows.
func Text(e Element) string {
	switch el := e.(type) {
	case *TextBlock:
		return el.Text
	case *Header:
		return el.Text
	case *Table:
		return el.FlatText()
	case *Figure:
		return ""
	default:
		return ""
	}
}
