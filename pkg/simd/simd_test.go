package simd

import (
	"math/rand"
	"reflect"
	"testing"
)

// randomCorpus builds a deterministic ~128KB corpus mixing prose-like runs,
// punctuation, whitespace and raw bytes so every byte class is exercised.
func randomCorpus(t *testing.T) string {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	buf := make([]byte, 0, 128*1024)
	alphabet := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	for len(buf) < 128*1024 {
		switch rng.Intn(10) {
		case 0:
			buf = append(buf, ' ', '\t', '\n', '\r')
		case 1:
			buf = append(buf, '.', ',', '!', '?', ';', ':')
		case 2:
			buf = append(buf, byte(rng.Intn(256)))
		default:
			n := 1 + rng.Intn(12)
			for i := 0; i < n; i++ {
				buf = append(buf, alphabet[rng.Intn(len(alphabet))])
			}
			buf = append(buf, ' ')
		}
	}
	return string(buf)
}

func TestVectorScalarEquivalence(t *testing.T) {
	corpus := randomCorpus(t)
	if len(corpus) < 100*1024 {
		t.Fatalf("corpus too small: %d bytes", len(corpus))
	}

	inputs := []string{
		"",
		"a",
		"Hello, world! This is a test.",
		"no delimiters here",
		"trailing delimiter,",
		corpus,
		corpus[:7],
		corpus[:8],
		corpus[:9],
		corpus[:31],
	}

	for _, text := range inputs {
		for _, c := range []byte{'a', ' ', '.', 0x00, 0xFF} {
			if got, want := countCharVector(text, c), CountCharScalar(text, c); got != want {
				t.Errorf("count_char(%q, %q): vector %d, scalar %d", truncate(text), c, got, want)
			}
		}
		if got, want := countWhitespaceVector(text), CountWhitespaceScalar(text); got != want {
			t.Errorf("count_whitespace(%q): vector %d, scalar %d", truncate(text), got, want)
		}
		if got, want := countPunctuationVector(text), CountPunctuationScalar(text); got != want {
			t.Errorf("count_punctuation(%q): vector %d, scalar %d", truncate(text), got, want)
		}
		for _, pattern := range []string{"", "a", "th", "test", "\n\n", "zzqx"} {
			if got, want := findSubstringVector(text, pattern), FindSubstringScalar(text, pattern); got != want {
				t.Errorf("find_substring(%q, %q): vector %d, scalar %d", truncate(text), pattern, got, want)
			}
			if got, want := findPatternVector(text, pattern), FindPatternScalar(text, pattern); !reflect.DeepEqual(got, want) {
				t.Errorf("find_pattern(%q, %q): vector %v, scalar %v", truncate(text), pattern, got, want)
			}
		}
		pairs := []string{"th", "he", "in", "..", "a"}
		if got, want := findBPEPairsVector(text, pairs), FindBPEPairsScalar(text, pairs); !reflect.DeepEqual(got, want) {
			t.Errorf("find_bpe_pairs(%q): vector %v, scalar %v", truncate(text), got, want)
		}
		if got, want := findSentenceBoundariesVector(text), FindSentenceBoundariesScalar(text); !reflect.DeepEqual(got, want) {
			t.Errorf("find_sentence_boundaries(%q): vector %v, scalar %v", truncate(text), got, want)
		}
		for _, d := range []byte{' ', ',', '\n'} {
			if got, want := splitByDelimiterVector(text, d), SplitByDelimiterScalar(text, d); !reflect.DeepEqual(got, want) {
				t.Errorf("split_by_delimiter(%q, %q): vector %v, scalar %v", truncate(text), d, got, want)
			}
		}
		remove := []byte{'<', '>', '&', '@', '#'}
		if got, want := cleanTextVector(text, remove), CleanTextScalar(text, remove); got != want {
			t.Errorf("clean_text(%q): vector %q, scalar %q", truncate(text), truncate(got), truncate(want))
		}
		if got, want := normalizeForSearchVector(text), NormalizeForSearchScalar(text); got != want {
			t.Errorf("normalize_for_search(%q): vector %q, scalar %q", truncate(text), truncate(got), truncate(want))
		}
	}
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

func TestFixedInputCounts(t *testing.T) {
	const text = "Hello, world! This is a test."

	if got := CountWhitespace(text); got != 5 {
		t.Errorf("count_whitespace = %d, want 5", got)
	}
	if got := CountWhitespaceScalar(text); got != 5 {
		t.Errorf("count_whitespace scalar = %d, want 5", got)
	}
	if got := CountPunctuation(text); got != 3 {
		t.Errorf("count_punctuation = %d, want 3", got)
	}
	if got := CountPunctuationScalar(text); got != 3 {
		t.Errorf("count_punctuation scalar = %d, want 3", got)
	}

	// Boundary bytes are '.', '!', '?' and '\n': the '!' at 12 and the
	// final '.' at 28.
	want := []int{12, 28}
	if got := FindSentenceBoundariesScalar(text); !reflect.DeepEqual(got, want) {
		t.Errorf("find_sentence_boundaries scalar = %v, want %v", got, want)
	}
	if got := findSentenceBoundariesVector(text); !reflect.DeepEqual(got, want) {
		t.Errorf("find_sentence_boundaries vector = %v, want %v", got, want)
	}
}

func TestCountTokensApproximation(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 1},
		{"one", 1},
		{"one two three", 3},
		{"a\tb\nc", 3},
	}
	for _, tc := range cases {
		if got := CountTokens(tc.text); got != tc.want {
			t.Errorf("count_tokens(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestSplitByDelimiterTrailing(t *testing.T) {
	got := SplitByDelimiter("a,b,", ',')
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("split = %v, want %v", got, want)
	}

	got = SplitByDelimiter("a,,b", ',')
	want = []string{"a", "", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("split = %v, want %v", got, want)
	}
}
