package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultTiktokenEncoding is the encoding used when none is specified.
const DefaultTiktokenEncoding = "cl100k_base"

// Tiktoken adapts a pretrained tiktoken BPE encoding to the Tokenizer
// capability. Use it when chunk budgets must line up with an embedding
// model's real tokenizer instead of the trainable in-memory BPE.
type Tiktoken struct {
	encoding  *tiktoken.Tiktoken
	maxTokens int
}

// NewTiktoken returns a tokenizer backed by the default pretrained encoding.
func NewTiktoken(maxTokens int) (*Tiktoken, error) {
	return NewTiktokenEncoding(DefaultTiktokenEncoding, maxTokens)
}

// NewTiktokenEncoding returns a tokenizer backed by the named encoding.
func NewTiktokenEncoding(name string, maxTokens int) (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("tiktoken encoding %q: %w", name, err)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Tiktoken{encoding: enc, maxTokens: maxTokens}, nil
}

func (t *Tiktoken) MaxTokens() int { return t.maxTokens }

func (t *Tiktoken) CountTokens(text string) int {
	return capCount(len(t.encoding.Encode(text, nil, nil)), t.maxTokens)
}

func (t *Tiktoken) Tokenize(text string) []string {
	ids := t.encoding.Encode(text, nil, nil)
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		tokens = append(tokens, t.encoding.Decode([]int{id}))
	}
	return capTokens(tokens, t.maxTokens)
}
