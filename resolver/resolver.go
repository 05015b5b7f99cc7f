package resolver

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/docfold/docfold/model"
	"github.com/docfold/docfold/spatial"
)

// Config controls how table titles are matched. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// DistanceRatio is the maximum vertical gap between a candidate and
	// the table top, as a fraction of page height.
	DistanceRatio float64

	// LabelTokens are the leading words that mark a caption, matched
	// case-insensitively against the first word of the candidate text.
	LabelTokens []string

	// NumberingPattern matches caption text that starts with a bare
	// numbering scheme instead of a label token ("3.", "(2)", "IV.").
	// Left empty, DefaultNumberingPattern is used.
	NumberingPattern string
}

// DefaultNumberingPattern matches leading arabic or roman numbering
// followed by a separator, e.g. "3.", "3.2:", "(4)", "IV.".
const DefaultNumberingPattern = `^\(?([0-9]+(\.[0-9]+)*|[ivxlcdm]+)[.:)]`

// DefaultConfig returns the default caption-matching configuration:
// a tenth of the page height and common table caption labels.
func DefaultConfig() Config {
	return Config{
		DistanceRatio:    0.1,
		LabelTokens:      []string{"table", "exhibit", "tbl", "tab", "schedule"},
		NumberingPattern: DefaultNumberingPattern,
	}
}

// Resolver resolves title references for the tables of one document.
type Resolver struct {
	doc *model.Document
	idx *spatial.Index
	cfg Config

	numbering *regexp.Regexp
}

// New creates a resolver over doc using the given spatial index and config.
// An invalid NumberingPattern disables numbering matches rather than failing;
// callers wanting strict validation should compile the pattern themselves.
func New(doc *model.Document, idx *spatial.Index, cfg Config) *Resolver {
	pattern := cfg.NumberingPattern
	if pattern == "" {
		pattern = DefaultNumberingPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	return &Resolver{doc: doc, idx: idx, cfg: cfg, numbering: re}
}

// ResolveAll resolves the title reference of every table in the document,
// in document order.
func (r *Resolver) ResolveAll() {
	for _, t := range r.doc.Tables() {
		r.Resolve(t)
	}
}

// Resolve recomputes and overwrites the title reference of one table:
//
//  1. the nearest text block or header strictly above the table on the same
//     page, within the configured distance, if its text is caption-like;
//  2. otherwise the nearest header preceding the table in document order,
//     recorded as section context rather than a caption;
//  3. otherwise the reference is left unset.
//
// Resolve is idempotent; unchanged input yields an unchanged reference.
func (r *Resolver) Resolve(t *model.Table) {
	t.Title = nil
	t.Source = model.TitleNone

	maxDist := 0.0
	if page, ok := r.doc.Page(t.At.Page); ok {
		maxDist = r.cfg.DistanceRatio * page.Height
	}

	if cand, ok := r.idx.NearestAboveFunc(t, maxDist, isTitleCandidate); ok {
		if r.isCaption(candidateText(cand)) {
			t.Title = cand
			t.Source = model.TitleCaption
			return
		}
	}

	if h, ok := r.precedingHeader(t); ok {
		t.Title = h
		t.Source = model.TitleSection
	}
}

// precedingHeader walks document order backwards from the table to the
// nearest header, which may sit on an earlier page.
func (r *Resolver) precedingHeader(t *model.Table) (model.Element, bool) {
	elements := r.doc.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		at := elements[i].Anchor()
		if at.Order >= t.At.Order {
			continue
		}
		if h, ok := elements[i].(*model.Header); ok {
			return h, true
		}
	}
	return nil, false
}

// isCaption reports whether text looks like a table caption: it starts with
// one of the configured label tokens or with a numbering pattern.
func (r *Resolver) isCaption(text string) bool {
	s := strings.ToLower(strings.TrimSpace(norm.NFKC.String(text)))
	if s == "" {
		return false
	}

	for _, token := range r.cfg.LabelTokens {
		token = strings.ToLower(token)
		if s == token {
			return true
		}
		if strings.HasPrefix(s, token) {
			// The token must end at a word boundary: "table 3" matches
			// the token "table", "tableau" does not.
			rest := s[len(token):]
			if rest[0] == ' ' || rest[0] == '.' || rest[0] == ':' || rest[0] == '-' {
				return true
			}
		}
	}

	return r.numbering != nil && r.numbering.MatchString(s)
}

// isTitleCandidate keeps text blocks and headers; tables and figures never
// serve as titles.
func isTitleCandidate(el model.Element) bool {
	switch el.Kind() {
	case model.KindTextBlock, model.KindHeader:
		return true
	default:
		return false
	}
}

func candidateText(el model.Element) string {
	return model.Text(el)
}
