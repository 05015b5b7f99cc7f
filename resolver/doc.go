// Package resolver attaches title context to detected tables.
//
// For each table it looks for a caption-like text block or header directly
// above the table on the same page; failing that, it falls back to the
// nearest preceding section header in document order. Resolution is
// deterministic and idempotent: re-running it over unchanged input recomputes
// the same references.
package resolver
