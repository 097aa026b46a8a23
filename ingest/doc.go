// Package ingest assembles the document ingestion pipeline.
//
// Sources (URLs or file paths) are fetched, routed to format-specific
// converters, merged, cleaned, split into overlapping chunks, embedded,
// and written to the vector store. The pipeline is a directed graph of
// components; see the pipeline package for the execution model.
//
// Re-ingesting unchanged content is a no-op under the default duplicate
// policy because chunk IDs are content hashes.
package ingest
