package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from document content, so identical content always maps
// to the same ID and duplicates can be detected cheaply.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is the unit of retrievable content. A document enters the
// system as the full text of a source and, after splitting, each chunk is
// itself a Document with ChunkIndex set to its position within the source.
type Document struct {
	Id         ID
	Content    string
	Source     string // URL or file path the content came from
	Title      string
	ChunkIndex int               // position of this chunk within its source, 0-based
	Metadata   map[string]string // page/section info, content type, etc.
	Vector     []float32         // embedding vector (populated by the embedder stage)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// ScoredDocument pairs a document with its retrieval relevance score.
type ScoredDocument struct {
	Document *Document
	Score    float32
}

// Answer is the final product of the query pipeline: the model reply
// together with the documents it was conditioned on. Answers are
// ephemeral and never persisted.
type Answer struct {
	Question  string
	Reply     string
	NoAnswer  bool // true when the model emitted the configured no-answer sentinel
	Documents []*ScoredDocument
	Metadata  map[string]string // model identifier, token usage, etc.
}

// Sources returns the unique source identifiers of the answer's
// documents, in rank order.
func (a *Answer) Sources() []string {
	seen := make(map[string]bool, len(a.Documents))
	sources := make([]string, 0, len(a.Documents))
	for _, sd := range a.Documents {
		if sd == nil || sd.Document == nil {
			continue
		}
		src := sd.Document.Source
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		sources = append(sources, src)
	}
	return sources
}
