package chunking

import (
	"strings"

	"github.com/hsn0918/r3m/pkg/quality"
	"github.com/hsn0918/r3m/pkg/tokenizer"
	"github.com/hsn0918/r3m/pkg/utils"
)

// SectionProcessor turns a section list plus a token budget into document
// chunks: combining small sections, splitting oversized ones and forcing
// image sections into dedicated chunks.
//
// A processor carries per-document caches and must not be shared across
// goroutines; create one per worker.
type SectionProcessor struct {
	tok       tokenizer.Tokenizer
	cache     *tokenizer.InternedTokenCache
	assessor  *quality.Assessor
	blurbSize int
}

// NewSectionProcessor returns a processor over the shared tokenizer.
func NewSectionProcessor(tok tokenizer.Tokenizer, assessor *quality.Assessor, blurbSize int) *SectionProcessor {
	if blurbSize <= 0 {
		blurbSize = DefaultBlurbSize
	}
	return &SectionProcessor{
		tok:       tok,
		cache:     tokenizer.NewInternedTokenCache(tok),
		assessor:  assessor,
		blurbSize: blurbSize,
	}
}

// chunkMeta bundles the per-document identity fields every emitted chunk
// shares.
type chunkMeta struct {
	documentID         string
	sourceType         string
	semanticIdentifier string
}

// ProcessSections runs the per-section decision tree in input order and
// returns the regular chunks of the document. A non-empty document always
// yields at least one chunk.
func (p *SectionProcessor) ProcessSections(
	sections []Section,
	budget TokenBudget,
	documentID, sourceType, semanticIdentifier string,
) []DocumentChunk {
	p.cache.Clear()
	meta := chunkMeta{documentID, sourceType, semanticIdentifier}

	// Pre-clean all sections once; token counts go through the interned
	// cache so re-lookups during combination are free.
	cleaned := make([]string, len(sections))
	counts := make([]int, len(sections))
	for i, section := range sections {
		cleaned[i] = utils.CleanText(section.Content)
		if cleaned[i] != "" {
			counts[i] = p.cache.TokenCount(cleaned[i])
		}
	}

	separatorTokens := p.cache.TokenCount(SectionSeparator)

	var chunks []DocumentChunk
	chunkText := ""
	linkOffsets := map[int]string{}
	nextID := 0

	finalize := func(continuation bool) {
		chunk := p.buildChunk(Section{Content: chunkText}, nextID, meta, budget, continuation)
		if len(linkOffsets) > 0 {
			chunk.SourceLinks = linkOffsets
		}
		chunks = append(chunks, chunk)
		nextID++
		chunkText = ""
		linkOffsets = map[int]string{}
	}

	for i, section := range sections {
		sectionText := cleaned[i]
		sectionTokens := counts[i]
		if sectionText == "" {
			continue
		}

		// Case 1: image sections never combine with text.
		if section.ImageFileID != "" || section.IsImage {
			if chunkText != "" {
				finalize(false)
			}
			imageSection := section
			imageSection.Content = sectionText
			chunk := p.buildChunk(imageSection, nextID, meta, budget, false)
			chunks = append(chunks, chunk)
			nextID++
			continue
		}

		// Case 2: oversized text sections are split to the content budget.
		if sectionTokens > budget.ContentTokenLimit {
			if chunkText != "" {
				finalize(false)
			}
			splitter := NewSentenceChunker(p.tok, budget.ContentTokenLimit, ChunkOverlap)
			for splitIdx, splitText := range splitter.Chunk(sectionText) {
				if StrictChunkTokenLimit && p.cache.TokenCount(splitText) > budget.ContentTokenLimit {
					for subIdx, subText := range p.regroupTokens(splitText, budget.ContentTokenLimit) {
						sub := Section{Content: subText, Link: section.Link}
						chunk := p.buildChunk(sub, nextID, meta, budget, splitIdx != 0 || subIdx != 0)
						chunks = append(chunks, chunk)
						nextID++
					}
					continue
				}
				sub := Section{Content: splitText, Link: section.Link}
				chunk := p.buildChunk(sub, nextID, meta, budget, splitIdx != 0)
				chunks = append(chunks, chunk)
				nextID++
			}
			continue
		}

		// Case 3: combine with the in-flight chunk when the budget allows.
		currentTokens := 0
		if chunkText != "" {
			currentTokens = p.cache.TokenCount(chunkText)
		}
		currentOffset := len(utils.SharedPrecompareCleanup(chunkText))
		nextCost := separatorTokens + sectionTokens

		if currentTokens+nextCost <= budget.ContentTokenLimit {
			if chunkText != "" {
				chunkText += SectionSeparator
			}
			chunkText += sectionText
			linkOffsets[currentOffset] = section.Link
		} else {
			if chunkText != "" {
				finalize(false)
			}
			chunkText = sectionText
			linkOffsets = map[int]string{0: section.Link}
		}
	}

	// A non-empty document yields at least one chunk even when every
	// section cleaned down to nothing.
	if chunkText != "" || len(chunks) == 0 {
		chunk := p.buildChunk(Section{Content: chunkText}, nextID, meta, budget, false)
		if len(linkOffsets) > 0 {
			chunk.SourceLinks = linkOffsets
		} else {
			chunk.SourceLinks = map[int]string{0: ""}
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}

// regroupTokens packs the raw token stream of text into budget-sized
// space-joined groups. This guarantees the strict bound regardless of
// sentence structure.
func (p *SectionProcessor) regroupTokens(text string, contentTokenLimit int) []string {
	if contentTokenLimit <= 0 {
		contentTokenLimit = 1
	}
	tokens := p.tok.Tokenize(text)
	var groups []string
	for start := 0; start < len(tokens); start += contentTokenLimit {
		end := start + contentTokenLimit
		if end > len(tokens) {
			end = len(tokens)
		}
		groups = append(groups, strings.Join(tokens[start:end], " "))
	}
	return groups
}

func (p *SectionProcessor) buildChunk(
	section Section,
	chunkID int,
	meta chunkMeta,
	budget TokenBudget,
	continuation bool,
) DocumentChunk {
	chunk := DocumentChunk{
		BaseChunk: BaseChunk{
			ChunkID:             chunkID,
			Blurb:               utils.ExtractBlurb(section.Content, p.blurbSize),
			Content:             section.Content,
			ImageFileID:         section.ImageFileID,
			SectionContinuation: continuation,
		},
		DocumentID:             meta.documentID,
		TitlePrefix:            budget.TitlePrefix,
		MetadataSuffixSemantic: budget.MetadataSuffixSemantic,
		MetadataSuffixKeyword:  budget.MetadataSuffixKeyword,
		TitleTokens:            budget.TitleTokens,
		MetadataTokens:         budget.MetadataTokens,
		ContentTokenLimit:      budget.ContentTokenLimit,
		LargeChunkID:           -1,
		SourceType:             meta.sourceType,
		SemanticIdentifier:     meta.semanticIdentifier,
	}
	if section.Link != "" {
		chunk.SourceLinks = map[int]string{0: section.Link}
	}
	if p.assessor != nil {
		res := p.assessor.Assess(section.Content)
		chunk.QualityScore = res.QualityScore
		chunk.InformationDensity = res.InformationDensity
		chunk.IsHighQuality = res.IsHighQuality
	}
	return chunk
}
