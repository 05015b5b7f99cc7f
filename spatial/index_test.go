package spatial

import (
	"testing"

	"github.com/docfold/docfold/model"
)

// buildDoc lays out a two-page document:
//
//	page 0: header (y 72-100), text (y 110-130), table (y 140-300), text (y 320-340)
//	page 1: text (y 100-120)
func buildDoc(t *testing.T) (*model.Document, *model.Table) {
	t.Helper()

	table, err := model.NewTable(
		model.Anchor{Page: 0, Box: model.NewBBox(72, 140, 540, 300), Order: 2},
		1, 1, []model.Cell{{Text: "x"}},
	)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	pages := []model.PageInfo{{Width: 612, Height: 792}, {Width: 612, Height: 792}}
	elements := []model.Element{
		&model.Header{At: model.Anchor{Page: 0, Box: model.NewBBox(72, 72, 540, 100), Order: 0}, Text: "Results", Level: 2},
		&model.TextBlock{At: model.Anchor{Page: 0, Box: model.NewBBox(72, 110, 540, 130), Order: 1}, Text: "Table 3: Revenue by Segment"},
		table,
		&model.TextBlock{At: model.Anchor{Page: 0, Box: model.NewBBox(72, 320, 540, 340), Order: 3}, Text: "after"},
		&model.TextBlock{At: model.Anchor{Page: 1, Box: model.NewBBox(72, 100, 540, 120), Order: 4}, Text: "next page"},
	}

	doc, err := model.NewDocument(pages, elements)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}
	return doc, table
}

func TestNearestAbove(t *testing.T) {
	doc, table := buildDoc(t)
	idx := New(doc)

	// The caption (bottom 130) is 10pt above the table top (140); the header
	// (bottom 100) is 40pt above. Nearest wins.
	got, ok := idx.NearestAbove(table, 79.2)
	if !ok {
		t.Fatal("NearestAbove found nothing")
	}
	if got.Anchor().Order != 1 {
		t.Errorf("NearestAbove order = %d, want 1 (caption)", got.Anchor().Order)
	}
}

func TestNearestAbove_MaxDistance(t *testing.T) {
	doc, table := buildDoc(t)
	idx := New(doc)

	// Gap to the caption is 10; a tighter threshold excludes everything.
	if _, ok := idx.NearestAbove(table, 5); ok {
		t.Error("NearestAbove within 5pt should find nothing")
	}
	if _, ok := idx.NearestAbove(table, 10); !ok {
		t.Error("NearestAbove within 10pt should find the caption")
	}
}

func TestNearestAboveFunc_Filter(t *testing.T) {
	doc, table := buildDoc(t)
	idx := New(doc)

	// Filtering to headers skips the closer caption.
	got, ok := idx.NearestAboveFunc(table, 100, func(el model.Element) bool {
		return el.Kind() == model.KindHeader
	})
	if !ok {
		t.Fatal("NearestAboveFunc found nothing")
	}
	if got.Kind() != model.KindHeader {
		t.Errorf("kind = %v, want Header", got.Kind())
	}
}

func TestNearestBelow(t *testing.T) {
	doc, table := buildDoc(t)
	idx := New(doc)

	got, ok := idx.NearestBelow(table, 100)
	if !ok {
		t.Fatal("NearestBelow found nothing")
	}
	if got.Anchor().Order != 3 {
		t.Errorf("NearestBelow order = %d, want 3", got.Anchor().Order)
	}
}

func TestNearest_AboveBelowInverse(t *testing.T) {
	doc, table := buildDoc(t)
	idx := New(doc)

	// The caption and the table are vertical neighbors with nothing between
	// them, so the queries invert each other.
	caption, ok := idx.NearestAbove(table, 1000)
	if !ok {
		t.Fatal("NearestAbove found nothing")
	}
	back, ok := idx.NearestBelow(caption, 1000)
	if !ok {
		t.Fatal("NearestBelow found nothing")
	}
	if back.Anchor().Order != table.At.Order {
		t.Errorf("NearestBelow(NearestAbove(table)) = order %d, want the table (%d)",
			back.Anchor().Order, table.At.Order)
	}
}

func TestNearest_SamePageOnly(t *testing.T) {
	doc, _ := buildDoc(t)
	idx := New(doc)

	// The page-1 block has nothing above it on its own page, even though
	// page 0 is full of elements.
	var pageOne model.Element
	for _, el := range doc.ElementsOnPage(1) {
		pageOne = el
	}
	if _, ok := idx.NearestAbove(pageOne, 1000); ok {
		t.Error("NearestAbove crossed a page boundary")
	}
}

func TestNearest_TieBreaksOnOrder(t *testing.T) {
	// Two blocks with identical bottom edges, both 10pt above the query.
	pages := []model.PageInfo{{Width: 612, Height: 792}}
	query := &model.TextBlock{At: model.Anchor{Page: 0, Box: model.NewBBox(72, 140, 540, 160), Order: 2}, Text: "q"}
	elements := []model.Element{
		&model.TextBlock{At: model.Anchor{Page: 0, Box: model.NewBBox(72, 100, 300, 130), Order: 0}, Text: "left"},
		&model.TextBlock{At: model.Anchor{Page: 0, Box: model.NewBBox(310, 100, 540, 130), Order: 1}, Text: "right"},
		query,
	}
	doc, err := model.NewDocument(pages, elements)
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}

	got, ok := New(doc).NearestAbove(query, 50)
	if !ok {
		t.Fatal("NearestAbove found nothing")
	}
	if got.Anchor().Order != 0 {
		t.Errorf("tie broke to order %d, want 0 (earlier in document order)", got.Anchor().Order)
	}
}

func TestNearest_ExcludesSelf(t *testing.T) {
	doc, table := buildDoc(t)
	idx := New(doc)

	got, ok := idx.NearestAbove(table, 1000)
	if ok && got.Anchor().Order == table.At.Order {
		t.Error("NearestAbove returned the query element itself")
	}
}

func TestWithin(t *testing.T) {
	doc, _ := buildDoc(t)
	idx := New(doc)

	// Region covering the top half of page 0: header, caption, table
	// (table box starts at 140, inside the region).
	got := idx.Within(0, model.NewBBox(0, 0, 612, 200))
	if len(got) != 3 {
		t.Fatalf("Within() = %d elements, want 3", len(got))
	}
	// Results come back in document order.
	for i := 1; i < len(got); i++ {
		if got[i].Anchor().Order < got[i-1].Anchor().Order {
			t.Error("Within() results not in document order")
		}
	}

	if got := idx.Within(5, model.NewBBox(0, 0, 612, 792)); got != nil {
		t.Error("Within() on a missing page should return nil")
	}
}
