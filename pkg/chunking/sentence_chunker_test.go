package chunking

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hsn0918/r3m/pkg/tokenizer"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two sentences",
			text: "Hello world. This is a test.",
			want: []string{"Hello world.", "This is a test."},
		},
		{
			name: "abbreviation preserved",
			text: "Dr. Smith arrived. He was late.",
			want: []string{"Dr. Smith arrived.", "He was late."},
		},
		{
			name: "dotted abbreviation",
			text: "Use butter, e.g. unsalted. It works.",
			want: []string{"Use butter, e.g. unsalted.", "It works."},
		},
		{
			name: "exclamation and question",
			text: "Stop! Why? Fine.",
			want: []string{"Stop!", "Why?", "Fine."},
		},
		{
			name: "interior whitespace collapsed",
			text: "Too   many\tspaces.  Next one.",
			want: []string{"Too many spaces.", "Next one."},
		},
		{
			name: "trailing fragment without terminator",
			text: "Complete sentence. trailing words",
			want: []string{"Complete sentence.", "trailing words"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestChunkRespectsTokenBound(t *testing.T) {
	tok := tokenizer.NewBasic(0)
	chunker := NewSentenceChunker(tok, 10, 0)

	text := "One two three four five. Six seven eight nine ten. Eleven twelve thirteen."
	chunks := chunker.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if n := tok.CountTokens(chunk); n > 10 {
			t.Errorf("chunk %q has %d tokens, want <= 10", chunk, n)
		}
	}
}

func TestChunkOversizedSentencePassedThrough(t *testing.T) {
	tok := tokenizer.NewBasic(0)
	chunker := NewSentenceChunker(tok, 5, 0)

	text := "one two three four five six seven eight nine ten"
	chunks := chunker.Chunk(text)
	if len(chunks) != 1 {
		t.Fatalf("single oversized sentence should stay one chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("oversized chunk altered: %q", chunks[0])
	}
}

func TestChunkEmptyInput(t *testing.T) {
	chunker := NewSentenceChunker(tokenizer.NewBasic(0), 10, 0)
	if got := chunker.Chunk(""); got != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", got)
	}
}

func TestChunkNoContentLoss(t *testing.T) {
	tok := tokenizer.NewBasic(0)
	chunker := NewSentenceChunker(tok, 8, 0)

	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota. Kappa lambda mu."
	chunks := chunker.Chunk(text)

	joined := strings.Join(chunks, " ")
	want := strings.Join(strings.Fields(text), " ")
	if joined != want {
		t.Errorf("concatenated chunks = %q, want %q", joined, want)
	}
}
