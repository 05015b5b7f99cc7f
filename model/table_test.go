package model

import (
	"errors"
	"testing"
)

func testAnchor(page, order int) Anchor {
	return Anchor{Page: page, Box: NewBBox(72, 100, 540, 300), Order: order}
}

func TestNewTable_Simple(t *testing.T) {
	cells := []Cell{
		{Row: 0, Col: 0, Text: "Region"},
		{Row: 0, Col: 1, Text: "Revenue"},
		{Row: 1, Col: 0, Text: "EMEA"},
		{Row: 1, Col: 1, Text: "1,234"},
	}

	table, err := NewTable(testAnchor(0, 0), 2, 2, cells)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Errorf("grid = %dx%d, want 2x2", table.RowCount(), table.ColCount())
	}

	cell, ok := table.CellAt(1, 1)
	if !ok {
		t.Fatal("CellAt(1,1) reported missing cell")
	}
	if cell.Text != "1,234" {
		t.Errorf("cell(1,1) = %q, want '1,234'", cell.Text)
	}
	if cell.Type != CellNumber {
		t.Errorf("cell(1,1) type = %v, want number", cell.Type)
	}
}

func TestNewTable_SpanCoversGrid(t *testing.T) {
	// One cell spanning the whole second row.
	cells := []Cell{
		{Row: 0, Col: 0, Text: "A"},
		{Row: 0, Col: 1, Text: "B"},
		{Row: 1, Col: 0, ColSpan: 2, Text: "merged"},
	}

	table, err := NewTable(testAnchor(0, 0), 2, 2, cells)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	left, _ := table.CellAt(1, 0)
	right, _ := table.CellAt(1, 1)
	if left != right {
		t.Error("spanned positions should share the claiming cell")
	}
	if right.Text != "merged" {
		t.Errorf("cell(1,1) = %q, want 'merged'", right.Text)
	}
}

func TestNewTable_OverlappingSpans(t *testing.T) {
	cells := []Cell{
		{Row: 0, Col: 0, ColSpan: 2, Text: "wide"},
		{Row: 0, Col: 1, Text: "collision"},
	}

	_, err := NewTable(testAnchor(0, 0), 1, 2, cells)
	if err == nil {
		t.Fatal("expected error for overlapping spans")
	}

	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %T, want *StructuralError", err)
	}
	if serr.Row != 0 || serr.Col != 1 {
		t.Errorf("error position = (%d,%d), want (0,1)", serr.Row, serr.Col)
	}
}

func TestNewTable_CellOutsideGrid(t *testing.T) {
	cells := []Cell{
		{Row: 1, Col: 0, RowSpan: 2, Text: "overflows"},
	}

	_, err := NewTable(testAnchor(0, 0), 2, 1, cells)
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want *StructuralError", err)
	}
}

func TestNewTable_MissingCellsBecomeEmpty(t *testing.T) {
	cells := []Cell{
		{Row: 0, Col: 0, Text: "only one"},
	}

	table, err := NewTable(testAnchor(0, 0), 2, 2, cells)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	// Every position must be filled; unclaimed positions get empty cells.
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			cell, ok := table.CellAt(r, c)
			if !ok || cell == nil {
				t.Fatalf("position (%d,%d) has no cell", r, c)
			}
		}
	}

	empty, _ := table.CellAt(1, 1)
	if empty.Type != CellEmpty {
		t.Errorf("synthesized cell type = %v, want empty", empty.Type)
	}
	if len(table.Cells()) != 4 {
		t.Errorf("len(Cells()) = %d, want 4", len(table.Cells()))
	}
}

func TestNewTable_DegenerateGrid(t *testing.T) {
	if _, err := NewTable(testAnchor(0, 0), 0, 3, nil); err == nil {
		t.Error("expected error for 0-row grid")
	}
	if _, err := NewTable(testAnchor(0, 0), 3, 0, nil); err == nil {
		t.Error("expected error for 0-column grid")
	}
	if _, err := NewTable(testAnchor(0, 0), 1, 1, nil); err != nil {
		t.Errorf("1x1 grid with no cells: error = %v", err)
	}
}

func TestFlatRecords(t *testing.T) {
	cells := []Cell{
		{Row: 0, Col: 0, ColSpan: 2, Text: "span"},
		{Row: 1, Col: 0, Text: "a"},
		{Row: 1, Col: 1, Text: "b"},
	}

	table, err := NewTable(testAnchor(0, 0), 2, 2, cells)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	records := table.FlatRecords()
	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4", len(records))
	}

	// Spanned positions repeat the spanning cell's value.
	if records[0].Value != "span" || records[1].Value != "span" {
		t.Errorf("row 0 = %q, %q, want both 'span'", records[0].Value, records[1].Value)
	}
	if records[2].Row != 1 || records[2].Col != 0 || records[2].Value != "a" {
		t.Errorf("records[2] = %+v, want {1 0 a}", records[2])
	}
}

func TestClassifyCell(t *testing.T) {
	tests := []struct {
		text string
		want CellType
	}{
		{"", CellEmpty},
		{"   ", CellEmpty},
		{"42", CellNumber},
		{"-3.14", CellNumber},
		{"1,234,567", CellNumber},
		{"$1,234.56", CellNumber},
		{"€500", CellNumber},
		{"12.5%", CellNumber},
		{"(1,234)", CellNumber},
		{"2024-03-31", CellDate},
		{"3/31/2024", CellDate},
		{"March 31, 2024", CellDate},
		{"Mar 2024", CellDate},
		{"Q2 2025", CellDate},
		{"FY2024", CellDate},
		{"Revenue", CellTextLabel},
		{"North America", CellTextLabel},
		{"N/A", CellTextLabel},
		{"1234 Main St", CellTextLabel},
	}

	for _, tt := range tests {
		if got := ClassifyCell(tt.text); got != tt.want {
			t.Errorf("ClassifyCell(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTitleSourceString(t *testing.T) {
	if TitleNone.String() != "none" || TitleCaption.String() != "caption" || TitleSection.String() != "section" {
		t.Error("TitleSource strings wrong")
	}
}
