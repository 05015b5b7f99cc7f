package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/docfold/docfold/model"
)

// Record is one table grid position flattened for downstream tabular
// analysis, carrying enough context to identify its source.
type Record struct {
	Table    int    `json:"table"` // 0-based index of the table in document order
	Page     int    `json:"page"`
	Title    string `json:"title,omitempty"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Value    string `json:"value"`
	CellType string `json:"cellType"`
}

// Records flattens every table in the document into one record per grid
// position, in document order.
func Records(doc *model.Document) []Record {
	var out []Record
	for ti, t := range doc.Tables() {
		title := ""
		if t.Title != nil {
			title = collapse(model.Text(t.Title))
		}
		grid := t.Grid()
		for r := 0; r < t.RowCount(); r++ {
			for c := 0; c < t.ColCount(); c++ {
				cell := grid[r][c]
				out = append(out, Record{
					Table:    ti,
					Page:     t.At.Page,
					Title:    title,
					Row:      r,
					Col:      c,
					Value:    cell.Text,
					CellType: cell.Type.String(),
				})
			}
		}
	}
	return out
}

// WriteJSONL writes records as JSON Lines, one object per line.
func WriteJSONL(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return nil
}

// WriteCSV writes records as CSV with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"table", "page", "title", "row", "col", "value", "cell_type"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, rec := range records {
		row := []string{
			strconv.Itoa(rec.Table),
			strconv.Itoa(rec.Page),
			rec.Title,
			strconv.Itoa(rec.Row),
			strconv.Itoa(rec.Col),
			rec.Value,
			rec.CellType,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
