package formats

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want FileType
	}{
		{"notes.txt", PlainText},
		{"README.MD", PlainText},
		{"data.JSON", PlainText},
		{"report.pdf", PDF},
		{"page.html", HTML},
		{"page.HTM", HTML},
		{"binary.exe", Unknown},
		{"noextension", Unknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.name); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != 14 {
		t.Errorf("got %d extensions, want 14: %v", len(exts), exts)
	}
	for _, want := range []string{".txt", ".md", ".pdf", ".html", ".yaml"} {
		found := false
		for _, ext := range exts {
			if ext == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing extension %s", want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	text, err := ExtractPlainText("a.txt", []byte("hello world"))
	if err != nil || text != "hello world" {
		t.Errorf("ExtractPlainText = %q, %v", text, err)
	}

	// UTF-8 BOM is stripped.
	text, err = ExtractPlainText("a.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte("bom")...))
	if err != nil || text != "bom" {
		t.Errorf("BOM handling = %q, %v", text, err)
	}

	// Invalid UTF-8 bytes are dropped.
	text, err = ExtractPlainText("a.txt", []byte{'o', 'k', 0xFF, '!'})
	if err != nil || text != "ok!" {
		t.Errorf("invalid UTF-8 handling = %q, %v", text, err)
	}
}

func TestExtractHTML(t *testing.T) {
	const page = `<html><head><style>p{color:red}</style><script>var x=1;</script></head>
<body><h1>Heading</h1><p>First paragraph.</p><p>Second paragraph.</p></body></html>`

	text, err := ExtractHTML("page.html", []byte(page))
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	for _, want := range []string{"Heading", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q: %q", want, text)
		}
	}
	for _, banned := range []string{"var x=1", "color:red"} {
		if strings.Contains(text, banned) {
			t.Errorf("extracted text leaked %q", banned)
		}
	}
}

func TestRegistryUnsupportedType(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Extract("binary.exe", []byte{0x00}); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestRegistryOverride(t *testing.T) {
	r := NewRegistry()
	r.Register(PlainText, func(name string, data []byte) (string, error) {
		return "overridden", nil
	})
	text, err := r.Extract("a.txt", []byte("ignored"))
	if err != nil || text != "overridden" {
		t.Errorf("override = %q, %v", text, err)
	}
}

func TestExtractMarkdownTitle(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"h1", "# Main Title\n\nBody text.", "Main Title"},
		{"h2 fallback", "## Section Only\n\nBody.", "Section Only"},
		{"h1 preferred over earlier h2", "## Early\n\n# Real Title\n", "Real Title"},
		{"no headings", "Just prose.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMarkdownTitle([]byte(tt.doc)); got != tt.want {
				t.Errorf("ExtractMarkdownTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
