package simd

import "strings"

// Scalar reference implementations. The vector path is equivalence-tested
// against these byte for byte.

func isWhitespaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isPunctuationByte(b byte) bool {
	switch b {
	case '.', ',', '!', '?', ';', ':':
		return true
	}
	return false
}

func isBoundaryByte(b byte) bool {
	return b == '.' || b == '!' || b == '?' || b == '\n'
}

// CountCharScalar counts occurrences of c in text.
func CountCharScalar(text string, c byte) int {
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] == c {
			count++
		}
	}
	return count
}

// CountWhitespaceScalar counts space, tab, newline and carriage return bytes.
func CountWhitespaceScalar(text string) int {
	count := 0
	for i := 0; i < len(text); i++ {
		if isWhitespaceByte(text[i]) {
			count++
		}
	}
	return count
}

// CountPunctuationScalar counts '.', ',', '!', '?', ';' and ':' bytes.
func CountPunctuationScalar(text string) int {
	count := 0
	for i := 0; i < len(text); i++ {
		if isPunctuationByte(text[i]) {
			count++
		}
	}
	return count
}

// FindSubstringScalar returns the first position of pattern in text, or -1.
func FindSubstringScalar(text, pattern string) int {
	return strings.Index(text, pattern)
}

// FindPatternScalar returns every starting position of pattern in text.
func FindPatternScalar(text, pattern string) []int {
	if pattern == "" || len(pattern) > len(text) {
		return nil
	}
	var positions []int
	for i := 0; i+len(pattern) <= len(text); i++ {
		if text[i:i+len(pattern)] == pattern {
			positions = append(positions, i)
		}
	}
	return positions
}

// FindBPEPairsScalar returns the starting positions of each two-byte pair,
// flattened in pair order.
func FindBPEPairsScalar(text string, pairs []string) []int {
	var positions []int
	for _, pair := range pairs {
		if len(pair) != 2 {
			continue
		}
		positions = append(positions, FindPatternScalar(text, pair)...)
	}
	return positions
}

// FindSentenceBoundariesScalar returns positions of '.', '!', '?' and '\n'.
func FindSentenceBoundariesScalar(text string) []int {
	var positions []int
	for i := 0; i < len(text); i++ {
		if isBoundaryByte(text[i]) {
			positions = append(positions, i)
		}
	}
	return positions
}

// SplitByDelimiterScalar splits on delim, omitting an empty trailing segment.
func SplitByDelimiterScalar(text string, delim byte) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, string(delim))
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// CleanTextScalar removes every byte in remove from text.
func CleanTextScalar(text string, remove []byte) string {
	var removeSet [256]bool
	for _, b := range remove {
		removeSet[b] = true
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if !removeSet[text[i]] {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// NormalizeForSearchScalar removes every whitespace byte from text.
func NormalizeForSearchScalar(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if !isWhitespaceByte(text[i]) {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}
