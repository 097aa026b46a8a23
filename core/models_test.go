package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "short content",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestAnswer_Sources(t *testing.T) {
	doc := func(source string) *ScoredDocument {
		return &ScoredDocument{Document: &Document{Content: "text", Source: source}}
	}

	tests := []struct {
		name   string
		answer Answer
		want   []string
	}{
		{
			name: "rank order preserved",
			answer: Answer{Documents: []*ScoredDocument{
				doc("https://example.com/b"),
				doc("https://example.com/a"),
			}},
			want: []string{"https://example.com/b", "https://example.com/a"},
		},
		{
			name: "duplicates collapsed",
			answer: Answer{Documents: []*ScoredDocument{
				doc("https://example.com/a"),
				doc("https://example.com/a"),
				doc("https://example.com/b"),
			}},
			want: []string{"https://example.com/a", "https://example.com/b"},
		},
		{
			name: "nil and empty entries skipped",
			answer: Answer{Documents: []*ScoredDocument{
				nil,
				{Document: nil},
				doc(""),
				doc("file:///tmp/doc.pdf"),
			}},
			want: []string{"file:///tmp/doc.pdf"},
		},
		{
			name:   "no documents",
			answer: Answer{},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.answer.Sources()
			if len(got) != len(tt.want) {
				t.Fatalf("Sources() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Sources()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
