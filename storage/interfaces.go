package storage

import (
	"context"
	"fmt"

	"github.com/crenna/ragpipe/core"
)

// DuplicatePolicy controls how a write treats a document whose content
// hash is already present in the store.
type DuplicatePolicy int

const (
	// DuplicateSkip silently drops documents that already exist. This is
	// the default: re-ingesting identical content leaves the store
	// unchanged.
	DuplicateSkip DuplicatePolicy = iota

	// DuplicateOverwrite replaces the stored document.
	DuplicateOverwrite

	// DuplicateFail aborts the write with ErrDuplicateDocument.
	DuplicateFail
)

// String returns the policy name used in configuration and logs.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateSkip:
		return "skip"
	case DuplicateOverwrite:
		return "overwrite"
	case DuplicateFail:
		return "fail"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseDuplicatePolicy parses a policy name as used on the CLI.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "skip":
		return DuplicateSkip, nil
	case "overwrite":
		return DuplicateOverwrite, nil
	case "fail":
		return DuplicateFail, nil
	default:
		return DuplicateSkip, fmt.Errorf("%w: duplicate policy %q", ErrInvalidQuery, s)
	}
}

// WriteResult reports the outcome of a batch write.
type WriteResult struct {
	// Written holds the documents actually stored, with IDs and
	// timestamps populated.
	Written []*core.Document

	// Skipped counts documents dropped by DuplicateSkip.
	Skipped int
}

// DocumentRepository provides operations for managing documents in the
// vector store. Implementations must be thread-safe and support
// concurrent access.
type DocumentRepository interface {
	// AddDocuments writes one or more documents to storage.
	// For documents with Id=0, derives the ID from the content hash, so
	// identical content always maps to the same record. The policy
	// decides what happens when the ID already exists.
	// Sets InsertedAt/UpdatedAt timestamps on written documents.
	AddDocuments(ctx context.Context, policy DuplicatePolicy, docs ...*core.Document) (*WriteResult, error)

	// UpdateDocuments updates existing documents.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetDocuments(ctx context.Context, ids ...core.ID) ([]*core.Document, error)

	// GetDocumentsBySource retrieves all documents ingested from a source,
	// ordered by chunk index.
	GetDocumentsBySource(ctx context.Context, source string) ([]*core.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// FindSimilar returns the topK documents nearest to the given vector,
	// ordered by similarity score (highest first). Ranking is
	// deterministic: equal scores are broken by document ID.
	FindSimilar(ctx context.Context, vector []float32, topK int) ([]*core.ScoredDocument, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
