package chunking

import (
	"strings"

	"github.com/hsn0918/r3m/pkg/quality"
	"github.com/hsn0918/r3m/pkg/tokenizer"
	"github.com/hsn0918/r3m/pkg/utils"
)

// MultipassChunker derives mini-chunks and large-chunk aggregates from the
// regular chunks for multi-resolution indexing. Mini-chunks and large
// chunks each number their ids from zero in their own space and reference
// regular chunks through LargeChunkReferenceIDs.
type MultipassChunker struct {
	miniChunker *SentenceChunker
	assessor    *quality.Assessor
	largeRatio  int
	blurbSize   int
}

// NewMultipassChunker configures the mini/large expansion passes.
func NewMultipassChunker(tok tokenizer.Tokenizer, assessor *quality.Assessor, miniChunkSize, largeChunkRatio, blurbSize int) *MultipassChunker {
	if miniChunkSize <= 0 {
		miniChunkSize = DefaultMiniChunkSize
	}
	if largeChunkRatio <= 0 {
		largeChunkRatio = DefaultLargeChunkRatio
	}
	if blurbSize <= 0 {
		blurbSize = DefaultBlurbSize
	}
	return &MultipassChunker{
		miniChunker: NewSentenceChunker(tok, miniChunkSize, ChunkOverlap),
		assessor:    assessor,
		largeRatio:  largeChunkRatio,
		blurbSize:   blurbSize,
	}
}

// GenerateMiniChunks splits each regular chunk's content into mini-chunk
// texts, attaches them to the parent and emits each fragment as its own
// chunk referencing the parent.
func (m *MultipassChunker) GenerateMiniChunks(regular []DocumentChunk) []DocumentChunk {
	var minis []DocumentChunk
	for parentIdx := range regular {
		parent := &regular[parentIdx]
		miniTexts := m.miniChunker.Chunk(parent.Content)
		if len(miniTexts) == 0 {
			continue
		}
		parent.MiniChunkTexts = miniTexts

		for i, text := range miniTexts {
			mini := m.deriveChunk(*parent, len(minis), text, i > 0)
			mini.MiniChunkTexts = miniTexts
			mini.LargeChunkID = parent.ChunkID
			mini.LargeChunkReferenceIDs = []int{parent.ChunkID}
			minis = append(minis, mini)
		}
	}
	return minis
}

// GenerateLargeChunks concatenates contiguous blocks of regular chunks into
// aggregates of up to the configured ratio.
func (m *MultipassChunker) GenerateLargeChunks(regular []DocumentChunk) []DocumentChunk {
	if len(regular) == 0 {
		return nil
	}
	var larges []DocumentChunk
	for start := 0; start < len(regular); start += m.largeRatio {
		end := start + m.largeRatio
		if end > len(regular) {
			end = len(regular)
		}

		var contents []string
		refs := make([]int, 0, end-start)
		for _, chunk := range regular[start:end] {
			contents = append(contents, chunk.Content)
			refs = append(refs, chunk.ChunkID)
		}

		large := m.deriveChunk(regular[start], len(larges), strings.Join(contents, SectionSeparator), false)
		large.LargeChunkID = len(larges)
		large.LargeChunkReferenceIDs = refs
		larges = append(larges, large)
	}
	return larges
}

// deriveChunk copies the document-level fields of base onto a new chunk
// with its own id and content.
func (m *MultipassChunker) deriveChunk(base DocumentChunk, id int, content string, continuation bool) DocumentChunk {
	chunk := DocumentChunk{
		BaseChunk: BaseChunk{
			ChunkID:             id,
			Blurb:               utils.ExtractBlurb(content, m.blurbSize),
			Content:             content,
			SectionContinuation: continuation,
		},
		DocumentID:             base.DocumentID,
		TitlePrefix:            base.TitlePrefix,
		MetadataSuffixSemantic: base.MetadataSuffixSemantic,
		MetadataSuffixKeyword:  base.MetadataSuffixKeyword,
		TitleTokens:            base.TitleTokens,
		MetadataTokens:         base.MetadataTokens,
		ContentTokenLimit:      base.ContentTokenLimit,
		LargeChunkID:           -1,
		SourceType:             base.SourceType,
		SemanticIdentifier:     base.SemanticIdentifier,
	}
	if m.assessor != nil {
		res := m.assessor.Assess(content)
		chunk.QualityScore = res.QualityScore
		chunk.InformationDensity = res.InformationDensity
		chunk.IsHighQuality = res.IsHighQuality
	}
	return chunk
}
