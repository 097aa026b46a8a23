// Package convert turns raw fetched payloads into text documents.
//
// The Router component inspects MIME types and file extensions and
// dispatches payloads to one converter per format. Converters for
// HTML, PDF, Markdown, and plain text each emit unchunked documents on
// a "documents" port; the ingestion joiner merges them back into a
// single stream.
package convert
