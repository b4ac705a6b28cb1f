package quality

import (
	"strings"
	"testing"
)

func TestScoresStayInRange(t *testing.T) {
	a := NewAssessor(Config{})
	inputs := []string{
		"",
		"x",
		"Short text.",
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100),
		strings.Repeat("aaaa ", 2000),
		"v1.2.3 release_notes #42 @builder config-path/etc.conf",
	}
	for _, text := range inputs {
		q := a.ContentQualityScore(text)
		d := a.InformationDensity(text)
		if q < 0 || q > 1 {
			t.Errorf("quality score %f out of range for %q", q, text[:min(len(text), 30)])
		}
		if d < 0 || d > 1 {
			t.Errorf("information density %f out of range for %q", d, text[:min(len(text), 30)])
		}
	}
}

func TestEmptyTextScoresZero(t *testing.T) {
	a := NewAssessor(Config{})
	if got := a.ContentQualityScore(""); got != 0 {
		t.Errorf("quality of empty = %f, want 0", got)
	}
	if got := a.InformationDensity(""); got != 0 {
		t.Errorf("density of empty = %f, want 0", got)
	}
}

func TestAssessReasons(t *testing.T) {
	a := NewAssessor(Config{})

	tests := []struct {
		name       string
		text       string
		wantHigh   bool
		wantReason string
	}{
		{
			name:       "too short",
			text:       "tiny",
			wantHigh:   false,
			wantReason: "Content too short",
		},
		{
			name: "high quality prose",
			text: "Document processing pipelines transform heterogeneous sources into " +
				"indexed chunks. Each stage validates input, extracts text, and scores " +
				"the result. Quality gates remove noise before indexing begins. " +
				"Configuration controls batch sizes, worker counts, and token limits.",
			wantHigh:   true,
			wantReason: "High quality content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Assess(tt.text)
			if got.IsHighQuality != tt.wantHigh {
				t.Errorf("IsHighQuality = %v (score=%f density=%f), want %v",
					got.IsHighQuality, got.QualityScore, got.InformationDensity, tt.wantHigh)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestAssessMaxLength(t *testing.T) {
	a := NewAssessor(Config{MaxContentLength: 100})
	got := a.Assess(strings.Repeat("The quick brown fox jumps. ", 10))
	if got.IsHighQuality {
		t.Error("over-long content classified high quality")
	}
	if got.Reason != "Content too long" {
		t.Errorf("Reason = %q, want %q", got.Reason, "Content too long")
	}
}

func TestTechnicalTermCounting(t *testing.T) {
	if got := technicalTermCount("plain words only here"); got != 0 {
		t.Errorf("technicalTermCount = %d, want 0", got)
	}
	if got := technicalTermCount("v1.2 config_file some-flag #tag @user plain"); got != 5 {
		t.Errorf("technicalTermCount = %d, want 5", got)
	}
}

func TestCleanWord(t *testing.T) {
	tests := []struct{ in, want string }{
		{"(hello)", "hello"},
		{"world!", "world"},
		{"--", ""},
		{"a.b", "a.b"},
	}
	for _, tt := range tests {
		if got := cleanWord(tt.in); got != tt.want {
			t.Errorf("cleanWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
