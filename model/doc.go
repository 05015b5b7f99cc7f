// Package model defines the intermediate document representation produced by
// parsing backends: an immutable, ordered store of positioned page elements
// (text blocks, headers, tables, figures) plus the structured table model.
//
// A Document and everything it owns is built in a single parse pass and is
// read-only afterwards, so all query operations are safe for unsynchronized
// concurrent use. The one exception is the table title reference, which the
// resolver package recomputes deterministically; see resolver for details.
package model
