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
			name:    "same content produces same ID",
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

func TestDocument_ContentID(t *testing.T) {
	doc1 := &Document{Source: SourceChat, SourceID: "C123:100.2", Content: "hello"}
	doc2 := &Document{Source: SourceChat, SourceID: "C123:100.2", Content: "hello"}
	doc3 := &Document{Source: SourceDocs, SourceID: "C123:100.2", Content: "hello"}

	if doc1.ContentID() != doc2.ContentID() {
		t.Errorf("identical documents produced different content IDs")
	}
	if doc1.ContentID() == doc3.ContentID() {
		t.Errorf("documents from different sources produced the same content ID")
	}
}

func TestKnownSources(t *testing.T) {
	sources := KnownSources()
	if len(sources) != 3 {
		t.Fatalf("expected 3 known sources, got %d", len(sources))
	}
	for _, s := range sources {
		if err := ValidateSource(s); err != nil {
			t.Errorf("known source %q failed validation: %v", s, err)
		}
	}
}
