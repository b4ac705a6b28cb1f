package chunking

import (
	"strings"

	"github.com/hsn0918/r3m/pkg/tokenizer"
)

// abbreviations that end with a period without terminating a sentence.
var abbreviations = map[string]struct{}{
	"Mr": {}, "Mrs": {}, "Ms": {}, "Dr": {}, "Prof": {}, "Sr": {}, "Jr": {},
	"St": {}, "Ave": {}, "Blvd": {}, "Rd": {}, "Ln": {}, "Ct": {}, "Pl": {},
	"etc": {}, "vs": {}, "i.e": {}, "e.g": {}, "a.m": {}, "p.m": {},
}

// SentenceChunker merges sentences into token-bounded chunks without
// overlap. A single sentence longer than the chunk size is emitted as one
// oversized chunk; the section processor is responsible for splitting it
// further.
type SentenceChunker struct {
	tok       tokenizer.Tokenizer
	chunkSize int
	overlap   int
}

// NewSentenceChunker returns a chunker targeting chunkSize tokens.
func NewSentenceChunker(tok tokenizer.Tokenizer, chunkSize, overlap int) *SentenceChunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkTokenLimit
	}
	return &SentenceChunker{tok: tok, chunkSize: chunkSize, overlap: overlap}
}

// Chunk splits text into sentence-respecting chunks of at most chunkSize
// tokens each. Empty input yields no chunks.
func (c *SentenceChunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	return c.merge(SplitSentences(text))
}

func (c *SentenceChunker) merge(sentences []string) []string {
	var chunks []string
	current := ""
	for _, sentence := range sentences {
		if c.shouldStartNewChunk(current, sentence) {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = sentence
			continue
		}
		if current != "" {
			current += " "
		}
		current += sentence
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

func (c *SentenceChunker) shouldStartNewChunk(current, next string) bool {
	combined := current
	if combined != "" {
		combined += " "
	}
	combined += next
	return c.tok.CountTokens(combined) > c.chunkSize
}

// SplitSentences walks the text and emits a sentence at each '.', '!' or
// '?' that ends a word, unless the preceding word is a known abbreviation.
// Each sentence is trimmed and has interior whitespace runs collapsed.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		// A terminator inside a word ("3.14", "i.e") never ends a sentence.
		if i+1 < len(text) && !isSpaceChar(text[i+1]) {
			continue
		}
		if ch == '.' && isAbbreviation(text[start:i]) {
			continue
		}
		if cleaned := cleanSentence(text[start : i+1]); cleaned != "" {
			sentences = append(sentences, cleaned)
		}
		start = i + 1
	}
	if start < len(text) {
		if cleaned := cleanSentence(text[start:]); cleaned != "" {
			sentences = append(sentences, cleaned)
		}
	}
	return sentences
}

func isSpaceChar(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// isAbbreviation reports whether the last word of prefix is in the fixed
// abbreviation set.
func isAbbreviation(prefix string) bool {
	start := len(prefix)
	for start > 0 && !isSpaceChar(prefix[start-1]) {
		start--
	}
	// Trim surrounding periods so dotted forms like "i.e" compare cleanly.
	word := strings.Trim(prefix[start:], ".")
	_, ok := abbreviations[word]
	return ok
}

// cleanSentence trims the sentence and collapses interior whitespace runs
// to single spaces.
func cleanSentence(sentence string) string {
	return strings.Join(strings.Fields(sentence), " ")
}
