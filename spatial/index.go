package spatial

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/docfold/docfold/model"
)

// Index answers nearest-neighbor and region queries over a document's
// elements. Absence of a neighbor is an expected outcome, reported through
// the boolean return, never an error.
type Index struct {
	doc *model.Document

	// Per-page arrays of the page's elements, one sorted by bottom edge
	// (for looking up what lies above a position) and one sorted by top
	// edge (for what lies below).
	byBottom [][]model.Element
	byTop    [][]model.Element

	// Per-page R-trees over element bounding boxes for region queries.
	trees []rtree.RTreeG[model.Element]
}

// New builds an index over all elements of doc.
func New(doc *model.Document) *Index {
	n := doc.PageCount()
	idx := &Index{
		doc:      doc,
		byBottom: make([][]model.Element, n),
		byTop:    make([][]model.Element, n),
		trees:    make([]rtree.RTreeG[model.Element], n),
	}

	for _, el := range doc.Elements() {
		at := el.Anchor()
		idx.byBottom[at.Page] = append(idx.byBottom[at.Page], el)
		idx.byTop[at.Page] = append(idx.byTop[at.Page], el)
		idx.trees[at.Page].Insert(
			[2]float64{at.Box.X0, at.Box.Y0},
			[2]float64{at.Box.X1, at.Box.Y1},
			el,
		)
	}

	for p := 0; p < n; p++ {
		sort.SliceStable(idx.byBottom[p], func(i, j int) bool {
			return idx.byBottom[p][i].Anchor().Box.Y1 < idx.byBottom[p][j].Anchor().Box.Y1
		})
		sort.SliceStable(idx.byTop[p], func(i, j int) bool {
			return idx.byTop[p][i].Anchor().Box.Y0 < idx.byTop[p][j].Anchor().Box.Y0
		})
	}

	return idx
}

// NearestAbove returns the element on the same page whose bottom edge lies
// closest above the top edge of el, within maxDist. Equidistant candidates
// are broken in favor of the one earlier in document order. The boolean is
// false when no element qualifies.
func (idx *Index) NearestAbove(el model.Element, maxDist float64) (model.Element, bool) {
	return idx.NearestAboveFunc(el, maxDist, nil)
}

// NearestAboveFunc is NearestAbove restricted to candidates for which keep
// returns true. A nil keep accepts every candidate.
func (idx *Index) NearestAboveFunc(el model.Element, maxDist float64, keep func(model.Element) bool) (model.Element, bool) {
	at := el.Anchor()
	if at.Page < 0 || at.Page >= len(idx.byBottom) {
		return nil, false
	}
	group := idx.byBottom[at.Page]
	top := at.Box.Y0

	// First element whose bottom edge lies below the query's top edge;
	// everything before it is a candidate "above".
	start := sort.Search(len(group), func(i int) bool {
		return group[i].Anchor().Box.Y1 > top
	})

	var best model.Element
	var bestDist float64
	for i := start - 1; i >= 0; i-- {
		cand := group[i]
		ca := cand.Anchor()
		if ca.Order == at.Order {
			continue
		}
		dist := top - ca.Box.Y1
		if dist > maxDist {
			break // sorted by bottom edge: all remaining are farther
		}
		if keep != nil && !keep(cand) {
			continue
		}
		if best == nil || dist < bestDist ||
			(dist == bestDist && ca.Order < best.Anchor().Order) {
			best = cand
			bestDist = dist
		}
	}

	return best, best != nil
}

// NearestBelow returns the element on the same page whose top edge lies
// closest below the bottom edge of el, within maxDist. Equidistant
// candidates are broken in favor of the one earlier in document order.
// The boolean is false when no element qualifies.
func (idx *Index) NearestBelow(el model.Element, maxDist float64) (model.Element, bool) {
	return idx.NearestBelowFunc(el, maxDist, nil)
}

// NearestBelowFunc is NearestBelow restricted to candidates for which keep
// returns true. A nil keep accepts every candidate.
func (idx *Index) NearestBelowFunc(el model.Element, maxDist float64, keep func(model.Element) bool) (model.Element, bool) {
	at := el.Anchor()
	if at.Page < 0 || at.Page >= len(idx.byTop) {
		return nil, false
	}
	group := idx.byTop[at.Page]
	bottom := at.Box.Y1

	// First element whose top edge lies at or below the query's bottom
	// edge; it and everything after are candidates "below".
	start := sort.Search(len(group), func(i int) bool {
		return group[i].Anchor().Box.Y0 >= bottom
	})

	var best model.Element
	var bestDist float64
	for i := start; i < len(group); i++ {
		cand := group[i]
		ca := cand.Anchor()
		if ca.Order == at.Order {
			continue
		}
		dist := ca.Box.Y0 - bottom
		if dist > maxDist {
			break
		}
		if keep != nil && !keep(cand) {
			continue
		}
		if best == nil || dist < bestDist ||
			(dist == bestDist && ca.Order < best.Anchor().Order) {
			best = cand
			bestDist = dist
		}
	}

	return best, best != nil
}

// Within returns the elements on the given page whose bounding boxes
// intersect the region, in document order.
func (idx *Index) Within(page int, region model.BBox) []model.Element {
	if page < 0 || page >= len(idx.trees) {
		return nil
	}

	var out []model.Element
	idx.trees[page].Search(
		[2]float64{region.X0, region.Y0},
		[2]float64{region.X1, region.Y1},
		func(min, max [2]float64, el model.Element) bool {
			out = append(out, el)
			return true
		},
	)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Anchor().Order < out[j].Anchor().Order
	})
	return out
}
