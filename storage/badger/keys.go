package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/crenna/ragpipe/core"
)

// Key prefixes for different data types
const (
	documentRecordPrefix = "docrec"
	documentSourcePrefix = "docsrc"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentRecordPrefix, id))
}

// makeSourceKey generates a composite key for the source index.
// Format: prefix:source:id
func makeSourceKey(source string, id core.ID) []byte {
	prefix := documentSourcePrefix + ":" + source + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialSourceKey generates a partial key for per-source scans.
// Format: prefix:source:
func makePartialSourceKey(source string) []byte {
	return []byte(documentSourcePrefix + ":" + source + ":")
}
