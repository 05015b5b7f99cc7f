// Package spatial answers proximity queries over an immutable document:
// which element lies nearest above or below a given element on the same
// page, and which elements fall inside a page region.
//
// The index is built once from a model.Document. Elements are grouped per
// page into contiguous arrays sorted by vertical position, so a lookup is a
// binary search followed by a bounded scan; region queries use an R-tree
// per page. The index performs no locking: it is read-only after New.
package spatial
