// Package formats routes documents to format-specific text extractors.
// Decoders are pluggable: each is an Extractor function keyed by file
// type, so callers can override or extend the built-in set.
package formats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDecodeFailed wraps decoder errors so callers can classify them.
var ErrDecodeFailed = errors.New("decode failed")

// FileType identifies a supported document family.
type FileType int

// Supported document families.
const (
	Unknown FileType = iota
	PlainText
	PDF
	HTML
)

// Extractor converts raw file bytes into text.
type Extractor func(name string, data []byte) (string, error)

var (
	plainTextExtensions = map[string]struct{}{
		".txt": {}, ".md": {}, ".mdx": {}, ".conf": {}, ".log": {},
		".json": {}, ".csv": {}, ".tsv": {}, ".xml": {}, ".yml": {}, ".yaml": {},
	}
	pdfExtensions  = map[string]struct{}{".pdf": {}}
	htmlExtensions = map[string]struct{}{".html": {}, ".htm": {}}
)

// Registry maps file types to extractors.
type Registry struct {
	extractors map[FileType]Extractor
}

// NewRegistry returns a registry with the built-in decoders.
func NewRegistry() *Registry {
	return &Registry{extractors: map[FileType]Extractor{
		PlainText: ExtractPlainText,
		PDF:       ExtractPDF,
		HTML:      ExtractHTML,
	}}
}

// Register overrides the extractor for a file type.
func (r *Registry) Register(ft FileType, ex Extractor) {
	r.extractors[ft] = ex
}

// Extract decodes the file bytes with the extractor for its type.
func (r *Registry) Extract(name string, data []byte) (string, error) {
	ft := Detect(name)
	ex, ok := r.extractors[ft]
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", Extension(name))
	}
	text, err := ex(name, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return text, nil
}

// Extension returns the lowercased file extension including the dot.
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}

// Detect classifies a file by its extension, case-insensitively.
func Detect(name string) FileType {
	ext := Extension(name)
	if _, ok := plainTextExtensions[ext]; ok {
		return PlainText
	}
	if _, ok := pdfExtensions[ext]; ok {
		return PDF
	}
	if _, ok := htmlExtensions[ext]; ok {
		return HTML
	}
	return Unknown
}

// IsSupported reports whether the file's extension is in the registry.
func IsSupported(name string) bool {
	return Detect(name) != Unknown
}

// SupportedExtensions lists every accepted extension, sorted.
func SupportedExtensions() []string {
	var exts []string
	for ext := range plainTextExtensions {
		exts = append(exts, ext)
	}
	for ext := range pdfExtensions {
		exts = append(exts, ext)
	}
	for ext := range htmlExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsMarkdown reports whether the file is a markdown document.
func IsMarkdown(name string) bool {
	ext := Extension(name)
	return ext == ".md" || ext == ".mdx"
}
