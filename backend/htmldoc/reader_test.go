package htmldoc

import (
	"strings"
	"testing"

	"github.com/docfold/docfold/backend"
	"github.com/docfold/docfold/model"
)

func parse(t *testing.T, src string) *model.Document {
	t.Helper()
	doc, err := New().Parse([]byte(src), backend.DefaultParseOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestParse_BasicStructure(t *testing.T) {
	doc := parse(t, `<html><body>
<h1>Annual Report</h1>
<p>The year went well.</p>
<h2>Results</h2>
<table>
  <tr><th>Region</th><th>Revenue</th></tr>
  <tr><td>EMEA</td><td>1,234</td></tr>
</table>
<img src="chart.png" alt="revenue trend">
</body></html>`)

	elements := doc.Elements()
	wantKinds := []model.Kind{
		model.KindHeader, model.KindTextBlock, model.KindHeader,
		model.KindTable, model.KindFigure,
	}
	if len(elements) != len(wantKinds) {
		t.Fatalf("len(elements) = %d, want %d", len(elements), len(wantKinds))
	}
	for i, k := range wantKinds {
		if elements[i].Kind() != k {
			t.Errorf("element %d kind = %v, want %v", i, elements[i].Kind(), k)
		}
	}

	h := elements[0].(*model.Header)
	if h.Text != "Annual Report" || h.Level != 1 {
		t.Errorf("h1 = %q level %d", h.Text, h.Level)
	}

	table := doc.Tables()[0]
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Errorf("grid = %dx%d, want 2x2", table.RowCount(), table.ColCount())
	}
	cell, _ := table.CellAt(0, 0)
	if !cell.IsHeader {
		t.Error("th cell not marked as header")
	}

	fig := elements[4].(*model.Figure)
	if fig.AltText != "revenue trend" {
		t.Errorf("figure alt = %q", fig.AltText)
	}
}

func TestParse_CaptionBecomesTextAboveTable(t *testing.T) {
	doc := parse(t, `<table>
  <caption>Table 5: Headcount by Office</caption>
  <tr><td>Berlin</td><td>42</td></tr>
</table>`)

	elements := doc.Elements()
	if len(elements) != 2 {
		t.Fatalf("len(elements) = %d, want 2", len(elements))
	}
	tb, ok := elements[0].(*model.TextBlock)
	if !ok {
		t.Fatalf("first element = %T, want *TextBlock", elements[0])
	}
	if tb.Text != "Table 5: Headcount by Office" {
		t.Errorf("caption text = %q", tb.Text)
	}

	table := elements[1].(*model.Table)
	// The caption block must sit directly above the table box.
	if tb.At.Box.Y1 >= table.At.Box.Y0 {
		t.Error("caption box is not above the table box")
	}
	if tb.At.Page != table.At.Page {
		t.Error("caption and table on different pages")
	}
}

func TestParse_Spans(t *testing.T) {
	doc := parse(t, `<table>
  <tr><td colspan="2">wide</td><td>x</td></tr>
  <tr><td rowspan="2">tall</td><td>a</td><td>b</td></tr>
  <tr><td>c</td><td>d</td></tr>
</table>`)

	table := doc.Tables()[0]
	if table.RowCount() != 3 || table.ColCount() != 3 {
		t.Fatalf("grid = %dx%d, want 3x3", table.RowCount(), table.ColCount())
	}

	// "wide" spans (0,0)-(0,1).
	a, _ := table.CellAt(0, 0)
	b, _ := table.CellAt(0, 1)
	if a != b || a.Text != "wide" {
		t.Error("colspan not honored")
	}

	// "tall" spans (1,0)-(2,0), pushing "c" to column 1.
	top, _ := table.CellAt(1, 0)
	bottom, _ := table.CellAt(2, 0)
	if top != bottom || top.Text != "tall" {
		t.Error("rowspan not honored")
	}
	c, _ := table.CellAt(2, 1)
	if c.Text != "c" {
		t.Errorf("cell(2,1) = %q, want 'c' (shifted by rowspan)", c.Text)
	}
}

func TestParse_RowspanClamped(t *testing.T) {
	// Rowspan runs past the last row; browsers clamp it.
	doc := parse(t, `<table>
  <tr><td rowspan="5">tall</td><td>a</td></tr>
  <tr><td>b</td></tr>
</table>`)

	table := doc.Tables()[0]
	if table.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", table.RowCount())
	}
	cell, _ := table.CellAt(1, 0)
	if cell.Text != "tall" {
		t.Errorf("cell(1,0) = %q, want clamped 'tall'", cell.Text)
	}
}

func TestParse_SkipsScriptAndStyle(t *testing.T) {
	doc := parse(t, `<html><head><title>t</title><style>p{color:red}</style></head>
<body><script>var x = 1;</script><p>visible</p></body></html>`)

	elements := doc.Elements()
	if len(elements) != 1 {
		t.Fatalf("len(elements) = %d, want 1", len(elements))
	}
	if model.Text(elements[0]) != "visible" {
		t.Errorf("text = %q, want 'visible'", model.Text(elements[0]))
	}
}

func TestParse_WhitespaceCollapsed(t *testing.T) {
	doc := parse(t, "<p>  spread \n\t over   lines  </p>")
	if got := model.Text(doc.Elements()[0]); got != "spread over lines" {
		t.Errorf("text = %q", got)
	}
}

func TestParse_FlowPaginates(t *testing.T) {
	// Enough paragraphs to overflow one synthetic page.
	var sb strings.Builder
	sb.WriteString("<body>")
	for i := 0; i < 40; i++ {
		sb.WriteString("<p>paragraph</p>")
	}
	sb.WriteString("</body>")

	doc := parse(t, sb.String())
	if doc.PageCount() < 2 {
		t.Errorf("PageCount() = %d, want >= 2", doc.PageCount())
	}

	// Flow order must match document order, and boxes stay inside the page.
	for _, el := range doc.Elements() {
		at := el.Anchor()
		if at.Box.Y0 < margin-1 || at.Box.Y1 > pageHeight-margin+1 {
			t.Errorf("element %d box %+v escapes the page margins", at.Order, at.Box)
		}
	}
}

func TestParse_EmptyTableIgnored(t *testing.T) {
	doc := parse(t, `<table></table><p>after</p>`)
	if len(doc.Tables()) != 0 {
		t.Error("empty table should produce no element")
	}
	if len(doc.Elements()) != 1 {
		t.Errorf("len(elements) = %d, want 1", len(doc.Elements()))
	}
}
