// Package fetch retrieves raw document bytes from URLs and file paths.
//
// The Fetcher is a pipeline component: it takes a list of sources on
// its "sources" port and emits raw payloads plus per-source failures.
// A source that cannot be fetched never aborts the batch.
package fetch
