// Package quality scores text content for retention decisions. The same
// scoring model serves whole-document filtering and per-chunk quality
// metrics.
package quality

import (
	"math"
	"strings"

	"github.com/hsn0918/r3m/pkg/simd"
)

// Default scoring norms and thresholds.
const (
	DefaultMinContentQualityScore = 0.3
	DefaultMinInformationDensity  = 0.1
	DefaultMinContentLength       = 50
	DefaultMaxContentLength       = 1000000

	lengthNorm     = 1000.0
	diversityNorm  = 5.0
	sentenceNorm   = 10.0
	techNorm       = 10.0
	complexityNorm = 100.0
)

// Config holds the retention thresholds.
type Config struct {
	MinContentQualityScore float64
	MinInformationDensity  float64
	MinContentLength       int
	MaxContentLength       int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinContentQualityScore: DefaultMinContentQualityScore,
		MinInformationDensity:  DefaultMinInformationDensity,
		MinContentLength:       DefaultMinContentLength,
		MaxContentLength:       DefaultMaxContentLength,
	}
}

// Assessment is the scoring outcome for one text fragment.
type Assessment struct {
	QualityScore       float64
	InformationDensity float64
	IsHighQuality      bool
	Reason             string
}

// Assessor computes content quality and information density scores.
type Assessor struct {
	cfg Config
}

// NewAssessor returns an assessor with the given thresholds; zero-valued
// fields fall back to the defaults.
func NewAssessor(cfg Config) *Assessor {
	def := DefaultConfig()
	if cfg.MinContentQualityScore == 0 {
		cfg.MinContentQualityScore = def.MinContentQualityScore
	}
	if cfg.MinInformationDensity == 0 {
		cfg.MinInformationDensity = def.MinInformationDensity
	}
	if cfg.MinContentLength == 0 {
		cfg.MinContentLength = def.MinContentLength
	}
	if cfg.MaxContentLength == 0 {
		cfg.MaxContentLength = def.MaxContentLength
	}
	return &Assessor{cfg: cfg}
}

// Config returns the effective thresholds.
func (a *Assessor) Config() Config { return a.cfg }

// ContentQualityScore combines length, word diversity, sentence structure
// and information density into a weighted score in [0, 1].
func (a *Assessor) ContentQualityScore(text string) float64 {
	if text == "" {
		return 0
	}
	length := float64(len(text))

	lengthFactor := math.Min(1, length/lengthNorm)
	diversityFactor := math.Min(1, float64(uniqueWordCount(text))/math.Max(1, length/diversityNorm))
	sentenceFactor := math.Min(1, float64(sentenceCount(text))/sentenceNorm)
	densityFactor := a.InformationDensity(text)

	score := lengthFactor*0.3 + diversityFactor*0.3 + sentenceFactor*0.2 + densityFactor*0.2
	return clamp01(score)
}

// InformationDensity combines unique-word ratio, technical-term density and
// sentence complexity into a weighted score in [0, 1].
func (a *Assessor) InformationDensity(text string) float64 {
	if text == "" {
		return 0
	}
	length := float64(len(text))

	uniqueRatio := math.Min(1, float64(uniqueWordCount(text))/math.Max(1, length/diversityNorm))
	density := uniqueRatio * 0.4

	techDensity := math.Min(1, float64(technicalTermCount(text))/math.Max(1, length/techNorm))
	density += techDensity * 0.3

	if sc := sentenceCount(text); sc > 0 {
		avgSentenceLen := length / float64(sc)
		density += math.Min(1, avgSentenceLen/complexityNorm) * 0.3
	}

	return clamp01(density)
}

// Assess scores the text and classifies it against the thresholds. Reason
// names the first failing condition.
func (a *Assessor) Assess(text string) Assessment {
	res := Assessment{
		QualityScore:       a.ContentQualityScore(text),
		InformationDensity: a.InformationDensity(text),
	}
	res.IsHighQuality = res.QualityScore >= a.cfg.MinContentQualityScore &&
		res.InformationDensity >= a.cfg.MinInformationDensity &&
		len(text) >= a.cfg.MinContentLength &&
		len(text) <= a.cfg.MaxContentLength

	switch {
	case res.IsHighQuality:
		res.Reason = "High quality content"
	case len(text) < a.cfg.MinContentLength:
		res.Reason = "Content too short"
	case len(text) > a.cfg.MaxContentLength:
		res.Reason = "Content too long"
	case res.QualityScore < a.cfg.MinContentQualityScore:
		res.Reason = "Low content quality score"
	case res.InformationDensity < a.cfg.MinInformationDensity:
		res.Reason = "Low information density"
	default:
		res.Reason = "Quality assessment failed"
	}
	return res
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func sentenceCount(text string) int {
	return simd.CountChar(text, '.') + simd.CountChar(text, '!') + simd.CountChar(text, '?')
}

func isAlphanumeric(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// cleanWord strips leading and trailing non-alphanumeric bytes.
func cleanWord(word string) string {
	start := 0
	for start < len(word) && !isAlphanumeric(word[start]) {
		start++
	}
	end := len(word)
	for end > start && !isAlphanumeric(word[end-1]) {
		end--
	}
	return word[start:end]
}

func uniqueWordCount(text string) int {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		if w := cleanWord(word); w != "" {
			seen[w] = struct{}{}
		}
	}
	return len(seen)
}

// technicalTermCount counts whitespace tokens that carry a digit or one of
// the marker characters common in identifiers, versions and paths.
func technicalTermCount(text string) int {
	count := 0
	for _, word := range strings.Fields(text) {
		if strings.ContainsAny(word, "0123456789_-.#@") {
			count++
		}
	}
	return count
}
