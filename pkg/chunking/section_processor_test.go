package chunking

import (
	"strings"
	"testing"

	"github.com/hsn0918/r3m/pkg/quality"
	"github.com/hsn0918/r3m/pkg/tokenizer"
)

func newTestProcessor() *SectionProcessor {
	return NewSectionProcessor(tokenizer.NewBasic(0), quality.NewAssessor(quality.Config{}), DefaultBlurbSize)
}

func budgetWithLimit(limit int) TokenBudget {
	return TokenBudget{ContentTokenLimit: limit}
}

func TestCombinesSmallSections(t *testing.T) {
	p := newTestProcessor()
	sections := []Section{
		{Content: "First section text", Link: "https://a.example/1"},
		{Content: "Second section text", Link: "https://a.example/2"},
	}

	chunks := p.ProcessSections(sections, budgetWithLimit(100), "doc-1", "file", "doc-1")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 combined chunk, got %d", len(chunks))
	}

	chunk := chunks[0]
	if !strings.Contains(chunk.Content, SectionSeparator) {
		t.Errorf("combined chunk missing section separator: %q", chunk.Content)
	}
	if chunk.SourceLinks[0] != "https://a.example/1" {
		t.Errorf("source_links[0] = %q, want first section link", chunk.SourceLinks[0])
	}
	if len(chunk.SourceLinks) != 2 {
		t.Errorf("source_links has %d entries, want 2", len(chunk.SourceLinks))
	}
	if chunk.SectionContinuation {
		t.Error("combined chunk must not be a continuation")
	}
	for offset := range chunk.SourceLinks {
		if offset < 0 || offset > len(chunk.Content) {
			t.Errorf("source link offset %d outside content", offset)
		}
	}
}

func TestStartsNewChunkWhenBudgetExceeded(t *testing.T) {
	p := newTestProcessor()
	sections := []Section{
		{Content: "alpha beta gamma delta epsilon", Link: "l1"},
		{Content: "zeta eta theta iota kappa", Link: "l2"},
	}

	chunks := p.ProcessSections(sections, budgetWithLimit(6), "doc-1", "file", "doc-1")
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].ChunkID != 0 || chunks[1].ChunkID != 1 {
		t.Errorf("chunk ids not contiguous: %d, %d", chunks[0].ChunkID, chunks[1].ChunkID)
	}
	if chunks[1].SourceLinks[0] != "l2" {
		t.Errorf("second chunk source_links[0] = %q, want l2", chunks[1].SourceLinks[0])
	}
}

func TestImageSectionForcesOwnChunk(t *testing.T) {
	p := newTestProcessor()
	sections := []Section{
		{Content: "Leading text before the figure", Link: "l1"},
		{Content: "Figure one caption", Link: "l2", ImageFileID: "img-42"},
		{Content: "Trailing text after the figure", Link: "l3"},
	}

	chunks := p.ProcessSections(sections, budgetWithLimit(100), "doc-1", "file", "doc-1")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks (text, image, text), got %d", len(chunks))
	}

	image := chunks[1]
	if image.ImageFileID != "img-42" {
		t.Errorf("image chunk file id = %q", image.ImageFileID)
	}
	if image.SectionContinuation {
		t.Error("image chunk must not be a continuation")
	}
	if chunks[0].ImageFileID != "" || chunks[2].ImageFileID != "" {
		t.Error("text chunks must not carry the image file id")
	}
}

func TestOversizedSectionSplitStrictly(t *testing.T) {
	tok := tokenizer.NewBasic(0)
	p := newTestProcessor()

	words := make([]string, 100)
	for i := range words {
		words[i] = "w" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
	}
	sections := []Section{{Content: strings.Join(words, " "), Link: "big"}}

	const limit = 20
	chunks := p.ProcessSections(sections, budgetWithLimit(limit), "doc-1", "file", "doc-1")
	if len(chunks) < 5 {
		t.Fatalf("expected >= 5 chunks for 100 words at limit 20, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := tok.CountTokens(chunk.Content); n > limit {
			t.Errorf("chunk %d has %d tokens, want <= %d", i, n, limit)
		}
		if i > 0 && !chunk.SectionContinuation {
			t.Errorf("split chunk %d should be a continuation", i)
		}
	}

	var got []string
	for _, chunk := range chunks {
		got = append(got, strings.Fields(chunk.Content)...)
	}
	if strings.Join(got, " ") != strings.Join(words, " ") {
		t.Error("split chunks do not reproduce the input")
	}
}

func TestEmptySectionsStillYieldOneChunk(t *testing.T) {
	p := newTestProcessor()
	sections := []Section{{Content: "\x01\x02"}} // cleans to nothing

	chunks := p.ProcessSections(sections, budgetWithLimit(100), "doc-1", "file", "doc-1")
	if len(chunks) != 1 {
		t.Fatalf("expected the guaranteed single chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "" {
		t.Errorf("content = %q, want empty", chunks[0].Content)
	}
	if _, ok := chunks[0].SourceLinks[0]; !ok {
		t.Error("source_links[0] must exist on the fallback chunk")
	}
}

func TestChunkIDsContiguousFromZero(t *testing.T) {
	p := newTestProcessor()
	var sections []Section
	for i := 0; i < 6; i++ {
		sections = append(sections, Section{Content: strings.Repeat("word ", 30), Link: "l"})
	}

	chunks := p.ProcessSections(sections, budgetWithLimit(40), "doc-1", "file", "doc-1")
	for i, chunk := range chunks {
		if chunk.ChunkID != i {
			t.Fatalf("chunk %d has id %d, want %d", i, chunk.ChunkID, i)
		}
	}
}

func TestBlurbStopsAtSentenceTerminator(t *testing.T) {
	p := newTestProcessor()
	sections := []Section{{Content: "Hello world. This is a test."}}

	chunks := p.ProcessSections(sections, budgetWithLimit(100), "doc-1", "file", "doc-1")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Blurb != "Hello world." {
		t.Errorf("blurb = %q, want %q", chunks[0].Blurb, "Hello world.")
	}
}
