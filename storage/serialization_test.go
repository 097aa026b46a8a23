package storage

import (
	"testing"
	"time"

	"github.com/crenna/ragpipe/core"
)

func TestDocumentRoundtrip(t *testing.T) {
	now := time.Now().Truncate(time.Microsecond)
	doc := &core.Document{
		Id:         core.IDFromContent("warranty text"),
		Content:    "The warranty period is 24 months from delivery.",
		Source:     "manual.pdf",
		Title:      "Warranty",
		ChunkIndex: 3,
		Metadata:   map[string]string{"content_type": "application/pdf", "page": "12"},
		Vector:     []float32{0.25, -0.5, 0.75},
		InsertedAt: now,
		UpdatedAt:  now,
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	if err != nil {
		t.Fatalf("UnmarshalDocument failed: %v", err)
	}

	if got.Id != doc.Id {
		t.Errorf("Id mismatch: got %d, want %d", got.Id, doc.Id)
	}
	if got.Content != doc.Content {
		t.Errorf("Content mismatch: got %q, want %q", got.Content, doc.Content)
	}
	if got.Source != doc.Source {
		t.Errorf("Source mismatch: got %q, want %q", got.Source, doc.Source)
	}
	if got.ChunkIndex != doc.ChunkIndex {
		t.Errorf("ChunkIndex mismatch: got %d, want %d", got.ChunkIndex, doc.ChunkIndex)
	}
	if len(got.Vector) != len(doc.Vector) {
		t.Fatalf("Vector length mismatch: got %d, want %d", len(got.Vector), len(doc.Vector))
	}
	for i := range doc.Vector {
		if got.Vector[i] != doc.Vector[i] {
			t.Errorf("Vector[%d] mismatch: got %f, want %f", i, got.Vector[i], doc.Vector[i])
		}
	}
	if got.Metadata["page"] != "12" {
		t.Errorf("Metadata mismatch: got %v", got.Metadata)
	}
	if !got.InsertedAt.Equal(doc.InsertedAt) {
		t.Errorf("InsertedAt mismatch: got %v, want %v", got.InsertedAt, doc.InsertedAt)
	}
}

func TestIDRoundtrip(t *testing.T) {
	id := core.IDFromContent("some chunk")

	got, err := UnmarshalID(MarshalID(id))
	if err != nil {
		t.Fatalf("UnmarshalID failed: %v", err)
	}
	if got != id {
		t.Errorf("ID mismatch: got %d, want %d", got, id)
	}
}

func TestUnmarshalDocumentGarbage(t *testing.T) {
	if _, err := UnmarshalDocument([]byte{0xff}); err == nil {
		t.Error("expected error for truncated input, got nil")
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    DuplicatePolicy
		wantErr bool
	}{
		{"skip", DuplicateSkip, false},
		{"overwrite", DuplicateOverwrite, false},
		{"fail", DuplicateFail, false},
		{"", DuplicateSkip, true},
		{"upsert", DuplicateSkip, true},
	}

	for _, tt := range tests {
		got, err := ParseDuplicatePolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDuplicatePolicy(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuplicatePolicy(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuplicatePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
