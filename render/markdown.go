package render

import (
	"fmt"
	"strings"

	"github.com/docfold/docfold/model"
)

// MarkdownOptions controls Markdown rendering.
type MarkdownOptions struct {
	// IncludeTableTitles emits each table's resolved title as a bold line
	// directly above the table. Captions sitting in the element stream are
	// not duplicated: a title element is skipped at its own position when
	// it was consumed as a table title.
	IncludeTableTitles bool

	// IncludePageBreaks emits a horizontal rule between pages.
	IncludePageBreaks bool
}

// DefaultMarkdownOptions returns the defaults: table titles on,
// page breaks off.
func DefaultMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		IncludeTableTitles: true,
		IncludePageBreaks:  false,
	}
}

// Markdown renders the document as Markdown with default options.
func Markdown(doc *model.Document) string {
	return MarkdownWithOptions(doc, DefaultMarkdownOptions())
}

// MarkdownWithOptions renders the document as Markdown.
func MarkdownWithOptions(doc *model.Document, opts MarkdownOptions) string {
	consumed := map[int]bool{}
	if opts.IncludeTableTitles {
		for _, t := range doc.Tables() {
			if t.Title != nil && t.Source == model.TitleCaption {
				consumed[t.Title.Anchor().Order] = true
			}
		}
	}

	var sb strings.Builder
	lastPage := -1

	for _, el := range doc.Elements() {
		at := el.Anchor()
		if opts.IncludePageBreaks && lastPage >= 0 && at.Page != lastPage {
			writeBlock(&sb, "---")
		}
		lastPage = at.Page

		switch e := el.(type) {
		case *model.Header:
			if consumed[at.Order] {
				continue
			}
			writeBlock(&sb, strings.Repeat("#", e.Level)+" "+collapse(e.Text))

		case *model.TextBlock:
			if consumed[at.Order] {
				continue
			}
			writeBlock(&sb, collapse(e.Text))

		case *model.Table:
			if opts.IncludeTableTitles && e.Title != nil && e.Source == model.TitleCaption {
				writeBlock(&sb, "**"+collapse(model.Text(e.Title))+"**")
			}
			writeBlock(&sb, tableMarkdown(e))

		case *model.Figure:
			if e.AltText != "" {
				writeBlock(&sb, fmt.Sprintf("*[Figure: %s]*", collapse(e.AltText)))
			} else {
				writeBlock(&sb, "*[Figure]*")
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// tableMarkdown renders a table as a pipe table. The first grid row serves
// as the header row. Spanned cells emit their content at the span's root
// position and empty strings elsewhere, since pipe tables cannot express
// spans.
func tableMarkdown(t *model.Table) string {
	grid := t.Grid()
	var sb strings.Builder

	for r := 0; r < t.RowCount(); r++ {
		sb.WriteString("|")
		for c := 0; c < t.ColCount(); c++ {
			cell := grid[r][c]
			text := ""
			if cell.Row == r && cell.Col == c {
				text = escapeCell(cell.Text)
			}
			sb.WriteString(" " + text + " |")
		}
		sb.WriteString("\n")

		if r == 0 {
			sb.WriteString("|")
			for c := 0; c < t.ColCount(); c++ {
				sb.WriteString("---|")
			}
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// escapeCell makes cell text safe inside a pipe table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.TrimSpace(s)
}

// collapse flattens internal newlines so a block stays a single
// Markdown paragraph.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func writeBlock(sb *strings.Builder, block string) {
	if block == "" {
		return
	}
	sb.WriteString(block)
	sb.WriteString("\n\n")
}
