package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TitleSource says how a table's title reference was resolved.
type TitleSource int

const (
	// TitleNone means no title has been resolved for the table.
	TitleNone TitleSource = iota
	// TitleCaption means the title is a caption found directly above the table.
	TitleCaption
	// TitleSection means no caption was found and the title is the nearest
	// preceding section header, possibly from an earlier page.
	TitleSection
)

func (s TitleSource) String() string {
	switch s {
	case TitleCaption:
		return "caption"
	case TitleSection:
		return "section"
	default:
		return "none"
	}
}

// Table is a detected table with cells organized on a row/column grid.
// Cells may span multiple grid positions; the span invariant (each grid
// position claimed by at most one cell) is enforced at construction.
//
// Title and Source are written by the resolver after parsing; every other
// field is fixed once NewTable returns.
type Table struct {
	At         Anchor
	Confidence float64

	// Title is the resolved caption or section context for this table,
	// nil when none was found. Source says which it is.
	Title  Element
	Source TitleSource

	rows, cols int
	cells      []*Cell   // in input order, including synthesized empty cells
	grid       [][]*Cell // row-major; spanned positions share the claiming cell
}

func (t *Table) Kind() Kind     { return KindTable }
func (t *Table) Anchor() Anchor { return t.At }
func (t *Table) sealed()        {}

// RowCount returns the number of grid rows.
func (t *Table) RowCount() int { return t.rows }

// ColCount returns the number of grid columns.
func (t *Table) ColCount() int { return t.cols }

// Cells returns the table's cells in input order. Synthesized empty cells
// (grid positions the backend left unclaimed) come last, in row-major order.
// The returned slice must not be modified.
func (t *Table) Cells() []*Cell { return t.cells }

// Grid returns a row-major view of the grid respecting spans: a position
// covered by a multi-row or multi-column cell yields that cell, so a single
// *Cell can appear at several positions. Every position is non-nil.
// The returned slices must not be modified.
func (t *Table) Grid() [][]*Cell { return t.grid }

// CellAt returns the cell claiming grid position (row, col).
// The second return is false when the position is out of bounds.
func (t *Table) CellAt(row, col int) (*Cell, bool) {
	if row < 0 || row >= t.rows || col < 0 || col >= t.cols {
		return nil, false
	}
	return t.grid[row][col], true
}

// FlatRecord is one grid position flattened for tabular analysis.
type FlatRecord struct {
	Row   int
	Col   int
	Value string
}

// FlatRecords returns one record per grid position in row-major order.
// Positions covered by a span repeat the spanning cell's value.
func (t *Table) FlatRecords() []FlatRecord {
	records := make([]FlatRecord, 0, t.rows*t.cols)
	for r := 0; r < t.rows; r++ {
		for c := 0; c < t.cols; c++ {
			records = append(records, FlatRecord{Row: r, Col: c, Value: t.grid[r][c].Text})
		}
	}
	return records
}

// FlatText renders the grid as tab-separated rows, one line per row.
func (t *Table) FlatText() string {
	var sb strings.Builder
	for r := 0; r < t.rows; r++ {
		for c := 0; c < t.cols; c++ {
			if c > 0 {
				sb.WriteString("\t")
			}
			// Only emit span content at its root position.
			cell := t.grid[r][c]
			if cell.Row == r && cell.Col == c {
				sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Cell is a single table cell.
type Cell struct {
	Row     int // top-left grid position of the cell
	Col     int
	RowSpan int // >= 1
	ColSpan int // >= 1

	Text     string
	Type     CellType
	IsHeader bool
}

// StructuralError reports a table whose detected cells violate the grid
// invariant: two cells claiming the same grid position once spans are
// expanded, or a cell lying outside the declared grid. It indicates a
// corrupt upstream detection and is never repaired silently.
type StructuralError struct {
	Row, Col int
	Reason   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("table structure invalid at cell (%d,%d): %s", e.Row, e.Col, e.Reason)
}

// NewTable builds a table from detected cells and validates the span
// invariant. Grid positions no cell claims are filled with synthesized
// empty cells; a position claimed twice fails with *StructuralError.
func NewTable(at Anchor, rows, cols int, cells []Cell) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, &StructuralError{Reason: fmt.Sprintf("grid must be at least 1x1, got %dx%d", rows, cols)}
	}

	t := &Table{
		At:   at,
		rows: rows,
		cols: cols,
		grid: make([][]*Cell, rows),
	}
	for r := range t.grid {
		t.grid[r] = make([]*Cell, cols)
	}

	for i := range cells {
		cell := cells[i] // copy; the table owns its cells
		if cell.RowSpan < 1 {
			cell.RowSpan = 1
		}
		if cell.ColSpan < 1 {
			cell.ColSpan = 1
		}
		if cell.Row < 0 || cell.Col < 0 ||
			cell.Row+cell.RowSpan > rows || cell.Col+cell.ColSpan > cols {
			return nil, &StructuralError{
				Row: cell.Row, Col: cell.Col,
				Reason: fmt.Sprintf("cell with span %dx%d exceeds %dx%d grid",
					cell.RowSpan, cell.ColSpan, rows, cols),
			}
		}
		if cell.Type == 0 {
			cell.Type = ClassifyCell(cell.Text)
		}

		for r := cell.Row; r < cell.Row+cell.RowSpan; r++ {
			for c := cell.Col; c < cell.Col+cell.ColSpan; c++ {
				if t.grid[r][c] != nil {
					return nil, &StructuralError{
						Row: r, Col: c,
						Reason: "grid position claimed by two cells",
					}
				}
				t.grid[r][c] = &cell
			}
		}
		t.cells = append(t.cells, &cell)
	}

	// Unclaimed positions become empty cells rather than errors: sparse
	// tables are routine in upstream detections and carry no ambiguity.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if t.grid[r][c] == nil {
				empty := &Cell{Row: r, Col: c, RowSpan: 1, ColSpan: 1, Type: CellEmpty}
				t.grid[r][c] = empty
				t.cells = append(t.cells, empty)
			}
		}
	}

	return t, nil
}

// CellType classifies the content of a table cell.
type CellType int

const (
	cellTypeUnset CellType = iota
	// CellNumber is numeric content, including currency, percentages,
	// and accounting-style negatives like "(1,234)".
	CellNumber
	// CellDate is content recognized as a calendar date or period.
	CellDate
	// CellTextLabel is any other non-empty text.
	CellTextLabel
	// CellEmpty is blank content.
	CellEmpty
)

func (ct CellType) String() string {
	switch ct {
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	case CellTextLabel:
		return "text-label"
	case CellEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

var (
	// Dates like "2024-03-31", "3/31/2024", "31.03.2024".
	numericDateRe = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}$`)
	// Dates like "March 31, 2024", "Mar 2024", "31 March 2024".
	monthNameRe = regexp.MustCompile(`(?i)^(?:\d{1,2}\s+)?(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(?:\s+\d{1,2},?)?\s+\d{2,4}$`)
	// Fiscal periods like "Q2 2025", "FY2024", "Q4'23".
	fiscalRe = regexp.MustCompile(`(?i)^(?:q[1-4]['\s]?\d{2,4}|fy\s?\d{2,4})$`)
)

// ClassifyCell assigns a CellType to raw cell content.
func ClassifyCell(text string) CellType {
	s := strings.TrimSpace(text)
	if s == "" {
		return CellEmpty
	}

	if numericDateRe.MatchString(s) || monthNameRe.MatchString(s) || fiscalRe.MatchString(s) {
		return CellDate
	}

	if isNumeric(s) {
		return CellNumber
	}

	return CellTextLabel
}

// isNumeric reports whether s is a number after stripping common financial
// decoration: currency symbols, thousands separators, percent signs, and
// accounting parentheses for negatives.
func isNumeric(s string) bool {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
