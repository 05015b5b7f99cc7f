package render

import (
	"fmt"
	"strings"

	"github.com/docfold/docfold/model"
)

// HTML renders the document as an HTML fragment: headings, paragraphs,
// tables with rowspan/colspan attributes, and figures. Resolved caption
// titles are emitted as <caption> inside their table and skipped at their
// own stream position.
func HTML(doc *model.Document) string {
	consumed := map[int]bool{}
	for _, t := range doc.Tables() {
		if t.Title != nil && t.Source == model.TitleCaption {
			consumed[t.Title.Anchor().Order] = true
		}
	}

	var sb strings.Builder
	for _, el := range doc.Elements() {
		switch e := el.(type) {
		case *model.Header:
			if consumed[e.At.Order] {
				continue
			}
			level := e.Level
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			fmt.Fprintf(&sb, "<h%d>%s</h%d>\n", level, escapeHTML(collapse(e.Text)), level)

		case *model.TextBlock:
			if consumed[e.At.Order] {
				continue
			}
			fmt.Fprintf(&sb, "<p>%s</p>\n", escapeHTML(collapse(e.Text)))

		case *model.Table:
			sb.WriteString(tableHTML(e))

		case *model.Figure:
			if e.AltText != "" {
				fmt.Fprintf(&sb, "<figure><figcaption>%s</figcaption></figure>\n", escapeHTML(collapse(e.AltText)))
			} else {
				sb.WriteString("<figure></figure>\n")
			}
		}
	}

	return sb.String()
}

func tableHTML(t *model.Table) string {
	var sb strings.Builder
	sb.WriteString("<table>\n")

	if t.Title != nil && t.Source == model.TitleCaption {
		fmt.Fprintf(&sb, "  <caption>%s</caption>\n", escapeHTML(collapse(model.Text(t.Title))))
	}

	grid := t.Grid()
	for r := 0; r < t.RowCount(); r++ {
		sb.WriteString("  <tr>\n")
		for c := 0; c < t.ColCount(); c++ {
			cell := grid[r][c]
			// Spanned positions are covered by the root cell's attributes.
			if cell.Row != r || cell.Col != c {
				continue
			}

			tag := "td"
			if cell.IsHeader || r == 0 {
				tag = "th"
			}
			sb.WriteString("    <" + tag)
			if cell.RowSpan > 1 {
				fmt.Fprintf(&sb, ` rowspan="%d"`, cell.RowSpan)
			}
			if cell.ColSpan > 1 {
				fmt.Fprintf(&sb, ` colspan="%d"`, cell.ColSpan)
			}
			fmt.Fprintf(&sb, ">%s</%s>\n", escapeHTML(cell.Text), tag)
		}
		sb.WriteString("  </tr>\n")
	}

	sb.WriteString("</table>\n")
	return sb.String()
}

// escapeHTML escapes HTML special characters.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
