package chunking

import (
	"time"

	"github.com/hsn0918/r3m/pkg/quality"
	"github.com/hsn0918/r3m/pkg/tokenizer"
)

// Config drives the advanced chunker. Zero values select the documented
// defaults.
type Config struct {
	ChunkTokenLimit int
	ChunkOverlap    int

	BlurbSize       int
	MiniChunkSize   int
	LargeChunkRatio int
	ChunkMinContent int

	IncludeMetadata       bool
	MaxMetadataPercentage float64

	EnableMultipass     bool
	EnableLargeChunks   bool
	EnableContextualRAG bool

	ContextualRAGReservedTokens int
	Summarizer                  Summarizer
	ContextFor                  ContextFunc

	EnableQualityFiltering bool
	MinChunkQuality        float64
	MinChunkDensity        float64
	MinChunkLength         int
	MaxChunkLength         int
}

// DefaultConfig returns the standard chunking configuration.
func DefaultConfig() Config {
	return Config{
		ChunkTokenLimit:             DefaultChunkTokenLimit,
		ChunkOverlap:                ChunkOverlap,
		BlurbSize:                   DefaultBlurbSize,
		MiniChunkSize:               DefaultMiniChunkSize,
		LargeChunkRatio:             DefaultLargeChunkRatio,
		ChunkMinContent:             ChunkMinContent,
		IncludeMetadata:             true,
		MaxMetadataPercentage:       MaxMetadataPercentage,
		ContextualRAGReservedTokens: DefaultContextualRAGReservedTokens,
		EnableQualityFiltering:      true,
		MinChunkQuality:             0.3,
		MinChunkDensity:             0.1,
		// No length floor by default: a short document still yields its
		// single chunk. Deployments that want one set MinChunkLength.
		MinChunkLength: 0,
		MaxChunkLength: 1000000,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.ChunkTokenLimit <= 0 {
		c.ChunkTokenLimit = def.ChunkTokenLimit
	}
	if c.BlurbSize <= 0 {
		c.BlurbSize = def.BlurbSize
	}
	if c.MiniChunkSize <= 0 {
		c.MiniChunkSize = def.MiniChunkSize
	}
	if c.LargeChunkRatio <= 0 {
		c.LargeChunkRatio = def.LargeChunkRatio
	}
	if c.ChunkMinContent <= 0 {
		c.ChunkMinContent = def.ChunkMinContent
	}
	if c.MaxMetadataPercentage <= 0 {
		c.MaxMetadataPercentage = def.MaxMetadataPercentage
	}
	if c.ContextualRAGReservedTokens <= 0 {
		c.ContextualRAGReservedTokens = def.ContextualRAGReservedTokens
	}
	if c.MaxChunkLength <= 0 {
		c.MaxChunkLength = def.MaxChunkLength
	}
}

// AdvancedChunker orchestrates the full chunking pipeline: token budget
// computation, section processing, multipass expansion, contextual
// summaries, quality filtering and result aggregation.
//
// The chunker holds per-document state through its section processor;
// create one per worker and reuse it across that worker's documents.
type AdvancedChunker struct {
	cfg       Config
	tok       tokenizer.Tokenizer
	processor *SectionProcessor
	multipass *MultipassChunker
	rag       *ContextualRAG
	assessor  *quality.Assessor
}

// NewAdvancedChunker builds the orchestrator over a shared tokenizer.
func NewAdvancedChunker(tok tokenizer.Tokenizer, cfg Config) *AdvancedChunker {
	cfg.applyDefaults()
	assessor := quality.NewAssessor(quality.Config{
		MinContentQualityScore: cfg.MinChunkQuality,
		MinInformationDensity:  cfg.MinChunkDensity,
		MinContentLength:       cfg.MinChunkLength,
		MaxContentLength:       cfg.MaxChunkLength,
	})
	return &AdvancedChunker{
		cfg:       cfg,
		tok:       tok,
		processor: NewSectionProcessor(tok, assessor, cfg.BlurbSize),
		multipass: NewMultipassChunker(tok, assessor, cfg.MiniChunkSize, cfg.LargeChunkRatio, cfg.BlurbSize),
		rag:       NewContextualRAG(cfg.ContextualRAGReservedTokens, cfg.Summarizer, cfg.ContextFor),
		assessor:  assessor,
	}
}

// Config returns the effective configuration.
func (a *AdvancedChunker) Config() Config { return a.cfg }

// ChunkDocument chunks a document given as one content string.
func (a *AdvancedChunker) ChunkDocument(documentID, content, title string, metadata map[string]string) ChunkingResult {
	sections := []Section{{Content: content}}
	return a.ChunkSections(documentID, sections, title, metadata, "", "")
}

// ChunkSections chunks a document given as caller-supplied sections.
func (a *AdvancedChunker) ChunkSections(
	documentID string,
	sections []Section,
	title string,
	metadata map[string]string,
	sourceType, semanticIdentifier string,
) ChunkingResult {
	start := time.Now()
	var result ChunkingResult

	empty := true
	for _, s := range sections {
		if s.Content != "" || s.ImageFileID != "" {
			empty = false
			break
		}
	}
	if empty {
		return result
	}

	budget := a.computeBudget(title, metadata)

	regular := a.processor.ProcessSections(sections, budget, documentID, sourceType, semanticIdentifier)
	for i := range regular {
		if regular[i].ChunkID != i {
			panic(ErrInvariantViolation)
		}
	}
	all := make([]DocumentChunk, len(regular))
	copy(all, regular)

	if a.cfg.EnableMultipass {
		minis := a.multipass.GenerateMiniChunks(regular)
		// Re-sync: mini generation attaches MiniChunkTexts to parents.
		copy(all, regular)
		all = append(all, minis...)
	}

	if a.cfg.EnableLargeChunks {
		all = append(all, a.multipass.GenerateLargeChunks(regular)...)
	}

	if a.cfg.EnableContextualRAG {
		a.rag.Apply(regular, all)
	}

	total := len(all)
	if a.cfg.EnableQualityFiltering {
		all = a.filterByQuality(all)
	}

	result.Chunks = all
	result.TotalChunks = total
	result.SuccessfulChunks = len(all)
	result.FailedChunks = total - len(all)
	a.aggregate(&result)
	result.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return result
}

// computeBudget builds the TokenBudget of §4.5: metadata suffixes with the
// overflow rule, title prefix, and the content token limit floor.
func (a *AdvancedChunker) computeBudget(title string, metadata map[string]string) TokenBudget {
	var budget TokenBudget

	if a.cfg.IncludeMetadata {
		semantic, keyword := BuildMetadataSuffixes(metadata)
		if semantic != "" {
			tokens := a.tok.CountTokens(semantic)
			if MetadataTooLarge(tokens, a.cfg.ChunkTokenLimit, a.cfg.MaxMetadataPercentage) {
				budget.MetadataTooLarge = true
			} else {
				budget.MetadataSuffixSemantic = semantic
				budget.MetadataSuffixKeyword = keyword
				budget.MetadataTokens = tokens
			}
		}
	}

	if title != "" {
		budget.TitlePrefix = title + "\n"
		budget.TitleTokens = a.tok.CountTokens(budget.TitlePrefix)
	}

	if a.cfg.EnableContextualRAG {
		budget.ContextualRAGReservedTokens = a.cfg.ContextualRAGReservedTokens
	}

	budget.ContentTokenLimit = a.cfg.ChunkTokenLimit - budget.TitleTokens -
		budget.MetadataTokens - budget.ContextualRAGReservedTokens

	// Metadata yields its budget back before content drops below the floor.
	if budget.ContentTokenLimit < a.cfg.ChunkMinContent && budget.MetadataTokens > 0 {
		budget.MetadataSuffixSemantic = ""
		budget.MetadataSuffixKeyword = ""
		budget.MetadataTokens = 0
		budget.ContentTokenLimit = a.cfg.ChunkTokenLimit - budget.TitleTokens -
			budget.ContextualRAGReservedTokens
	}
	if budget.ContentTokenLimit < 1 {
		budget.ContentTokenLimit = 1
	}
	return budget
}

func (a *AdvancedChunker) filterByQuality(chunks []DocumentChunk) []DocumentChunk {
	kept := make([]DocumentChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if a.shouldInclude(chunk) {
			kept = append(kept, chunk)
		}
	}
	return kept
}

func (a *AdvancedChunker) shouldInclude(chunk DocumentChunk) bool {
	if chunk.QualityScore < a.cfg.MinChunkQuality {
		return false
	}
	if chunk.InformationDensity < a.cfg.MinChunkDensity {
		return false
	}
	if chunk.Content != "" && len(chunk.Content) < a.cfg.MinChunkLength {
		return false
	}
	if len(chunk.Content) > a.cfg.MaxChunkLength {
		return false
	}
	return true
}

func (a *AdvancedChunker) aggregate(result *ChunkingResult) {
	if len(result.Chunks) == 0 {
		return
	}
	var totalQuality, totalDensity float64
	for i := range result.Chunks {
		chunk := &result.Chunks[i]
		totalQuality += chunk.QualityScore
		totalDensity += chunk.InformationDensity
		if chunk.IsHighQuality {
			result.HighQualityChunks++
		}
		result.TotalTitleTokens += chunk.TitleTokens
		result.TotalMetadataTokens += chunk.MetadataTokens
		result.TotalContentTokens += a.tok.CountTokens(chunk.Content)
		result.TotalRAGTokens += chunk.ContextualRAGReservedTokens
	}
	result.AvgQualityScore = totalQuality / float64(len(result.Chunks))
	result.AvgInformationDensity = totalDensity / float64(len(result.Chunks))
}
