package utils

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii untouched", "hello world", "hello world"},
		{"keeps newline and tab", "a\nb\tc", "a\nb\tc"},
		{"strips control chars", "a\x01b\x02c\x7f", "abc"},
		{"strips emoticons", "fun \U0001F600 text", "fun  text"},
		{"strips arrows", "a → b", "a  b"},
		{"strips dingbats", "done ✔", "done "},
		{"strips general punctuation", "a—b", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{"hello", "a\x01b → c\n", "\U0001F600✔ mixed"}
	for _, in := range inputs {
		once := CleanText(in)
		if twice := CleanText(once); twice != once {
			t.Errorf("CleanText not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  a  b  ", "a b"},
		{"a\t\nb", "a b"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := NormalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"  a  b  ", "x\n\ny"} {
		once := NormalizeWhitespace(in)
		if twice := NormalizeWhitespace(once); twice != once {
			t.Errorf("NormalizeWhitespace not idempotent for %q", in)
		}
	}
}

func TestSharedPrecompareCleanup(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Hello World", "helloworld"},
		{"a*b", "ab"},
		{`say \"hi\"`, "sayhi"},
		{"a.b,c:d`e\"f#g-h", "abcdefgh"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SharedPrecompareCleanup(tt.in); got != tt.want {
			t.Errorf("SharedPrecompareCleanup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveHTMLTags(t *testing.T) {
	tests := []struct{ in, want string }{
		{"<p>text</p>", "text"},
		{"no tags", "no tags"},
		{"<a href='x'>link</a> tail", "link tail"},
	}
	for _, tt := range tests {
		if got := RemoveHTMLTags(tt.in); got != tt.want {
			t.Errorf("RemoveHTMLTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractBlurb(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"first sentence", "Hello world. This is a test.", 100, "Hello world."},
		{"question terminator", "Why though? Because.", 100, "Why though?"},
		{"length cap", "no terminators in this text at all", 10, "no termina"},
		{"empty", "", 100, ""},
		{"trims whitespace", "  Lead in.  ", 100, "Lead in."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBlurb(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("ExtractBlurb(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestSafeUTF8Truncate(t *testing.T) {
	if got := SafeUTF8Truncate("hello", 10); got != "hello" {
		t.Errorf("short string altered: %q", got)
	}
	if got := SafeUTF8Truncate("你好世界", 6); got != "你好" {
		t.Errorf("multi-byte truncate = %q, want 你好", got)
	}
	if got := SafeUTF8Truncate("你好", 4); got != "你" {
		t.Errorf("mid-rune truncate = %q, want 你", got)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	if got := SanitizeUTF8("clean"); got != "clean" {
		t.Errorf("valid string altered: %q", got)
	}
	if got := SanitizeUTF8("ok\xff!"); got != "ok!" {
		t.Errorf("invalid bytes kept: %q", got)
	}
}
