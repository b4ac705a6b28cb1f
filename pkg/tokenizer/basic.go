package tokenizer

import "strings"

const punctuationChars = ".,!?;:()[]{}\"'`~@#$%^&*+=|\\/<>"

func isTokenPunctuation(b byte) bool {
	return strings.IndexByte(punctuationChars, b) >= 0
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Basic splits on whitespace and treats each punctuation character as its
// own token.
type Basic struct {
	maxTokens int
}

// NewBasic returns a Basic tokenizer with the given token cap.
func NewBasic(maxTokens int) *Basic {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Basic{maxTokens: maxTokens}
}

func (t *Basic) MaxTokens() int { return t.maxTokens }

func (t *Basic) CountTokens(text string) int {
	count := 0
	inToken := false
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case isSpaceByte(b):
			if inToken {
				count++
				inToken = false
			}
		case isTokenPunctuation(b):
			if inToken {
				count++
				inToken = false
			}
			count++
		default:
			inToken = true
		}
	}
	if inToken {
		count++
	}
	return capCount(count, t.maxTokens)
}

func (t *Basic) Tokenize(text string) []string {
	var tokens []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, text[start:end])
			start = -1
		}
	}
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case isSpaceByte(b):
			flush(i)
		case isTokenPunctuation(b):
			flush(i)
			tokens = append(tokens, text[i:i+1])
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return capTokens(tokens, t.maxTokens)
}
