// Package simd provides vectorized text primitives for the chunking and
// tokenization hot paths. Every operation has a scalar reference
// implementation with identical semantics; the vector path processes eight
// bytes per step and is selected at runtime from CPU capabilities. Results
// of the two paths are equal bit for bit.
package simd

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

var vectorEnabled = detectVectorSupport()

func detectVectorSupport() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.AVX512F)
	case "arm64":
		// NEON is baseline on arm64.
		return true
	default:
		return false
	}
}

// SupportsVector reports whether the accelerated path is active.
func SupportsVector() bool { return vectorEnabled }

// SupportsAVX2 reports AVX2 availability on the host CPU.
func SupportsAVX2() bool { return cpuid.CPU.Supports(cpuid.AVX2) }

// SupportsAVX512 reports AVX-512 foundation availability on the host CPU.
func SupportsAVX512() bool { return cpuid.CPU.Supports(cpuid.AVX512F) }

// CountChar returns the number of positions where text[i] == c.
func CountChar(text string, c byte) int {
	if vectorEnabled {
		return countCharVector(text, c)
	}
	return CountCharScalar(text, c)
}

// CountWhitespace returns the number of space, tab, newline and carriage
// return bytes in text.
func CountWhitespace(text string) int {
	if vectorEnabled {
		return countWhitespaceVector(text)
	}
	return CountWhitespaceScalar(text)
}

// CountPunctuation returns the number of '.', ',', '!', '?', ';' and ':'
// bytes in text.
func CountPunctuation(text string) int {
	if vectorEnabled {
		return countPunctuationVector(text)
	}
	return CountPunctuationScalar(text)
}

// CountTokens approximates the whitespace-delimited token count as
// CountWhitespace(text) + 1.
func CountTokens(text string) int {
	return CountWhitespace(text) + 1
}

// FindSubstring returns the first position of pattern in text, or -1.
func FindSubstring(text, pattern string) int {
	if vectorEnabled {
		return findSubstringVector(text, pattern)
	}
	return FindSubstringScalar(text, pattern)
}

// FindPattern returns every starting position of pattern in text. Matches
// of multi-byte patterns may overlap.
func FindPattern(text, pattern string) []int {
	if vectorEnabled {
		return findPatternVector(text, pattern)
	}
	return FindPatternScalar(text, pattern)
}

// FindBPEPairs returns the starting positions of each two-byte pair in
// text, flattened in pair order.
func FindBPEPairs(text string, pairs []string) []int {
	if vectorEnabled {
		return findBPEPairsVector(text, pairs)
	}
	return FindBPEPairsScalar(text, pairs)
}

// FindSentenceBoundaries returns the positions of '.', '!', '?' and '\n'
// bytes in text.
func FindSentenceBoundaries(text string) []int {
	if vectorEnabled {
		return findSentenceBoundariesVector(text)
	}
	return FindSentenceBoundariesScalar(text)
}

// SplitByDelimiter splits text on the delimiter byte, omitting an empty
// trailing segment.
func SplitByDelimiter(text string, delim byte) []string {
	if vectorEnabled {
		return splitByDelimiterVector(text, delim)
	}
	return SplitByDelimiterScalar(text, delim)
}

// CleanText returns text with every byte in remove deleted, preserving the
// order of the remaining bytes.
func CleanText(text string, remove []byte) string {
	if vectorEnabled {
		return cleanTextVector(text, remove)
	}
	return CleanTextScalar(text, remove)
}

// NormalizeForSearch returns text with every whitespace byte removed.
func NormalizeForSearch(text string) string {
	if vectorEnabled {
		return normalizeForSearchVector(text)
	}
	return NormalizeForSearchScalar(text)
}
