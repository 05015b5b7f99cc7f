package model

import (
	"fmt"
	"sort"
)

// PageInfo records the dimensions of one page in points.
type PageInfo struct {
	Width  float64
	Height float64
}

// Document is the element store: every parsed element in document reading
// order, plus per-page dimensions. It is created once per parse and is
// immutable afterwards; the whole document is discarded together.
type Document struct {
	pages    []PageInfo
	elements []Element
}

// NewDocument builds a document from pages and ordered elements, validating
// the store invariants: every element references an existing page, has a
// well-formed bounding box, and carries a document-order index strictly
// greater than its predecessor's.
func NewDocument(pages []PageInfo, elements []Element) (*Document, error) {
	for i, el := range elements {
		at := el.Anchor()
		if at.Page < 0 || at.Page >= len(pages) {
			return nil, fmt.Errorf("element %d: page %d out of range (document has %d pages)", i, at.Page, len(pages))
		}
		if !at.Box.IsValid() {
			return nil, fmt.Errorf("element %d: invalid bounding box %+v", i, at.Box)
		}
		if i > 0 && at.Order <= elements[i-1].Anchor().Order {
			return nil, fmt.Errorf("element %d: order index %d not strictly increasing (previous %d)",
				i, at.Order, elements[i-1].Anchor().Order)
		}
	}

	return &Document{pages: pages, elements: elements}, nil
}

// Elements returns all elements in stable document order.
// The returned slice must not be modified.
func (d *Document) Elements() []Element {
	return d.elements
}

// ByIndex returns the element with the given document-order index.
// The second return is false when no element carries that index.
func (d *Document) ByIndex(order int) (Element, bool) {
	i := sort.Search(len(d.elements), func(i int) bool {
		return d.elements[i].Anchor().Order >= order
	})
	if i < len(d.elements) && d.elements[i].Anchor().Order == order {
		return d.elements[i], true
	}
	return nil, false
}

// ElementsOnPage returns the elements on the given 0-based page,
// in document order.
func (d *Document) ElementsOnPage(page int) []Element {
	var out []Element
	for _, el := range d.elements {
		if el.Anchor().Page == page {
			out = append(out, el)
		}
	}
	return out
}

// Tables returns all tables in document order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range d.elements {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Headers returns all headers in document order.
func (d *Document) Headers() []*Header {
	var headers []*Header
	for _, el := range d.elements {
		if h, ok := el.(*Header); ok {
			headers = append(headers, h)
		}
	}
	return headers
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the dimensions of the given 0-based page.
// The second return is false when the page does not exist.
func (d *Document) Page(page int) (PageInfo, bool) {
	if page < 0 || page >= len(d.pages) {
		return PageInfo{}, false
	}
	return d.pages[page], true
}
