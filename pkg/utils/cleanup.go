// Package utils provides text cleanup and normalization helpers shared by
// the extraction pipeline and the chunking engine.
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// unicodeFilterRanges lists the code point ranges stripped by CleanText.
var unicodeFilterRanges = [...][2]rune{
	{0xFFF0, 0xFFFF},   // Specials
	{0x1F000, 0x1F9FF}, // Emoticons and symbols
	{0x2000, 0x206F},   // General Punctuation
	{0x2190, 0x21FF},   // Arrows
	{0x2700, 0x27BF},   // Dingbats
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func isUnicodeFiltered(r rune) bool {
	for _, rng := range unicodeFilterRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// CleanText removes filtered Unicode ranges and all control characters
// except newline and tab. The operation is idempotent.
func CleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isUnicodeFiltered(r) {
			continue
		}
		if r < ' ' && r != '\n' && r != '\t' {
			continue
		}
		if r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeWhitespace collapses any whitespace run to a single space and
// trims both ends. The operation is idempotent.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// SharedPrecompareCleanup lowercases the text and removes whitespace,
// asterisks, escaped quotes and the characters `.,:` + "`\"#-". Chunk
// source-link offsets are computed on this canonical form so they stay
// stable regardless of display whitespace.
func SharedPrecompareCleanup(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(strings.ToLower(text))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && runes[i+1] == '"' {
			i++
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '*', '.', ',', ':', '`', '"', '#', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RemoveHTMLTags strips any <...> span from the text.
func RemoveHTMLTags(text string) string {
	return htmlTagRe.ReplaceAllString(text, "")
}

// ExtractBlurb returns the prefix of text up to and including the first
// sentence terminator, capped at maxLen bytes, with surrounding whitespace
// trimmed.
func ExtractBlurb(text string, maxLen int) string {
	if text == "" || maxLen <= 0 {
		return ""
	}
	end := len(text)
	for _, term := range []byte{'.', '!', '?'} {
		if idx := strings.IndexByte(text, term); idx >= 0 && idx+1 < end {
			end = idx + 1
		}
	}
	if end > maxLen {
		end = maxLen
	}
	return strings.TrimSpace(SafeUTF8Truncate(text, end))
}
