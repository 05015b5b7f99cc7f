// Package render turns an intermediate document into output formats:
// Markdown, HTML, and flattened structured records for tabular analysis.
// Rendering walks elements in document order and never mutates the
// document, so it is safe to render the same document concurrently.
package render
