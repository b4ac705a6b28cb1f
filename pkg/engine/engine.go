// Package engine exposes the stable document processing API: single and
// batch processing, quality filtering, chunking and run statistics.
package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/hsn0918/r3m/pkg/chunking"
	"github.com/hsn0918/r3m/pkg/config"
	"github.com/hsn0918/r3m/pkg/formats"
	"github.com/hsn0918/r3m/pkg/logger"
	"github.com/hsn0918/r3m/pkg/parallel"
	"github.com/hsn0918/r3m/pkg/quality"
	"github.com/hsn0918/r3m/pkg/tokenizer"
	"github.com/hsn0918/r3m/pkg/utils"
)

// Error kinds surfaced in DocumentResult.ErrorMessage and by Init.
var (
	ErrNotFound          = errors.New("file does not exist")
	ErrTooLarge          = errors.New("file too large")
	ErrUnsupportedType   = errors.New("unsupported file type")
	ErrDecodeFailed      = errors.New("decode failed")
	ErrEmptyAfterCleanup = errors.New("empty after cleanup")
)

var mimeTypes = map[string]string{
	".txt": "text/plain", ".md": "text/markdown", ".mdx": "text/markdown",
	".conf": "text/plain", ".log": "text/plain", ".json": "application/json",
	".csv": "text/csv", ".tsv": "text/tab-separated-values",
	".xml": "application/xml", ".yml": "application/x-yaml",
	".yaml": "application/x-yaml", ".pdf": "application/pdf",
	".html": "text/html", ".htm": "text/html",
}

// Engine is the document ingestion engine. It is safe for concurrent use;
// the tokenizer is shared read-only across workers and each worker builds
// its own chunker state.
type Engine struct {
	cfg      config.Config
	tok      tokenizer.Tokenizer
	registry *formats.Registry
	pool     *parallel.Pool
	assessor *quality.Assessor

	softTimeout time.Duration

	statsMu sync.Mutex
	stats   ProcessingStats
}

// Init builds an engine from the effective configuration map. Only
// configuration errors are fatal; per-document failures are captured in
// results.
func Init(settings map[string]string) (*Engine, error) {
	cfg, err := config.FromMap(settings)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds an engine from a typed configuration.
func NewWithConfig(cfg config.Config) (*Engine, error) {
	tok, err := tokenizer.New(tokenizer.Kind(cfg.Chunking.Tokenizer), cfg.Chunking.TokenizerMaxTokens)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		tok:      tok,
		registry: formats.NewRegistry(),
		pool:     parallel.New(cfg.DocumentProcessing.MaxWorkers),
		assessor: quality.NewAssessor(quality.Config{
			MinContentQualityScore: cfg.DocumentProcessing.QualityFiltering.MinContentQualityScore,
			MinInformationDensity:  cfg.DocumentProcessing.QualityFiltering.MinInformationDensity,
			MinContentLength:       cfg.DocumentProcessing.QualityFiltering.MinContentLength,
			MaxContentLength:       cfg.DocumentProcessing.QualityFiltering.MaxContentLength,
		}),
	}
	logger.Get().Info("engine initialized",
		"workers", e.pool.WorkerCount(),
		"batch_size", cfg.DocumentProcessing.BatchSize,
		"tokenizer", cfg.Chunking.Tokenizer,
		"chunk_token_limit", cfg.Chunking.ChunkTokenLimit)
	return e, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// SetSoftTimeout configures the advisory per-document timeout. Exceeding
// it does not stop the task; the result is flagged in its metadata.
func (e *Engine) SetSoftTimeout(d time.Duration) { e.softTimeout = d }

// SupportedExtensions lists the accepted file extensions.
func (e *Engine) SupportedExtensions() []string { return formats.SupportedExtensions() }

// Shutdown drains the worker pool. In-flight documents complete; later
// submissions fail.
func (e *Engine) Shutdown() { e.pool.Shutdown() }

// ProcessDocument processes a single file from disk.
func (e *Engine) ProcessDocument(path string) DocumentResult {
	start := time.Now()
	result := DocumentResult{
		FileName:      filepath.Base(path),
		FileExtension: formats.Extension(path),
		MimeType:      mimeTypes[formats.Extension(path)],
		Metadata:      map[string]string{},
	}

	info, err := os.Stat(path)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("%v: %s", ErrNotFound, path)
		e.finish(&result, start)
		return result
	}
	result.FileSize = info.Size()
	if result.FileSize > e.cfg.DocumentProcessing.MaxFileSize {
		result.ErrorMessage = fmt.Sprintf("%v: %d bytes", ErrTooLarge, result.FileSize)
		e.finish(&result, start)
		return result
	}
	if !formats.IsSupported(path) {
		result.ErrorMessage = "Unsupported file type: " + formats.Extension(path)
		e.finish(&result, start)
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("read failed: %v", err)
		e.finish(&result, start)
		return result
	}

	e.processBytes(&result, data)
	e.finish(&result, start)
	return result
}

// ProcessDocumentFromBytes processes an in-memory document under the given
// file name.
func (e *Engine) ProcessDocumentFromBytes(name string, data []byte) DocumentResult {
	start := time.Now()
	result := DocumentResult{
		FileName:      filepath.Base(name),
		FileExtension: formats.Extension(name),
		MimeType:      mimeTypes[formats.Extension(name)],
		FileSize:      int64(len(data)),
		Metadata:      map[string]string{},
	}

	if result.FileSize > e.cfg.DocumentProcessing.MaxFileSize {
		result.ErrorMessage = fmt.Sprintf("%v: %d bytes", ErrTooLarge, result.FileSize)
		e.finish(&result, start)
		return result
	}
	if !formats.IsSupported(name) {
		result.ErrorMessage = "Unsupported file type: " + formats.Extension(name)
		e.finish(&result, start)
		return result
	}

	e.processBytes(&result, data)
	e.finish(&result, start)
	return result
}

// processBytes runs the extraction pipeline: decode, truncate, clean,
// metadata, quality, optional chunking.
func (e *Engine) processBytes(result *DocumentResult, data []byte) {
	dp := e.cfg.DocumentProcessing

	raw, err := e.registry.Extract(result.FileName, data)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("%v: %v", ErrDecodeFailed, err)
		return
	}

	if len(raw) > dp.MaxTextLength {
		raw = utils.SafeUTF8Truncate(raw, dp.MaxTextLength)
	}

	text := raw
	if dp.RemoveHTMLTags {
		text = utils.RemoveHTMLTags(text)
	}
	text = utils.CleanText(text)
	if dp.NormalizeWhitespace {
		text = utils.NormalizeWhitespace(text)
	}
	if raw != "" && text == "" {
		result.ErrorMessage = ErrEmptyAfterCleanup.Error()
		return
	}
	result.TextContent = text

	if dp.ExtractMetadata {
		result.Metadata["file_size"] = strconv.FormatInt(result.FileSize, 10)
		result.Metadata["text_length"] = strconv.Itoa(len(text))
		if formats.IsMarkdown(result.FileName) {
			if title := formats.ExtractMarkdownTitle(data); title != "" {
				result.Metadata["title"] = title
			}
		}
	}

	if dp.QualityFiltering.Enabled {
		assessment := e.assessor.Assess(text)
		result.ContentQualityScore = assessment.QualityScore
		result.InformationDensity = assessment.InformationDensity
		result.IsHighQuality = assessment.IsHighQuality
		result.QualityReason = assessment.Reason
	}

	if dp.EnableChunking {
		chunkRes := e.chunkText(result.FileName, text, result.Metadata)
		result.Chunks = chunkRes.Chunks
	}

	result.ProcessingSuccess = true
}

// chunkText runs the advanced chunker over already-extracted text. A
// panicking chunker (invariant violation) aborts the document, not the
// process: the result reports one failed chunk.
func (e *Engine) chunkText(documentID, text string, metadata map[string]string) (result chunking.ChunkingResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("chunker aborted document",
				"document_id", documentID, "panic", r)
			result = chunking.ChunkingResult{FailedChunks: 1}
		}
	}()

	title := ""
	meta := map[string]string{}
	for k, v := range metadata {
		if k == "title" {
			title = v
			continue
		}
		meta[k] = v
	}
	chunker := chunking.NewAdvancedChunker(e.tok, e.chunkingConfig())
	return chunker.ChunkDocument(documentID, text, title, meta)
}

func (e *Engine) chunkingConfig() chunking.Config {
	ch := e.cfg.Chunking
	qf := e.cfg.DocumentProcessing.QualityFiltering
	return chunking.Config{
		ChunkTokenLimit:             ch.ChunkTokenLimit,
		ChunkOverlap:                ch.ChunkOverlap,
		BlurbSize:                   ch.BlurbSize,
		MiniChunkSize:               ch.MiniChunkSize,
		LargeChunkRatio:             ch.LargeChunkRatio,
		ChunkMinContent:             ch.ChunkMinContent,
		IncludeMetadata:             ch.IncludeMetadata,
		MaxMetadataPercentage:       ch.MaxMetadataPercentage,
		EnableMultipass:             ch.EnableMultipass,
		EnableLargeChunks:           ch.EnableLargeChunks,
		EnableContextualRAG:         ch.EnableContextualRAG,
		ContextualRAGReservedTokens: ch.ContextualRAGReservedTokens,
		EnableQualityFiltering:      qf.Enabled,
		MinChunkQuality:             qf.MinContentQualityScore,
		MinChunkDensity:             qf.MinInformationDensity,
		MaxChunkLength:              qf.MaxContentLength,
	}
}

// ChunkContent runs the advanced chunker over caller-supplied text,
// bypassing file extraction. Used by the /chunk endpoint and by callers
// that already hold decoded content.
func (e *Engine) ChunkContent(documentID, content, title string, metadata map[string]string) chunking.ChunkingResult {
	meta := map[string]string{}
	for k, v := range metadata {
		meta[k] = v
	}
	if title != "" {
		meta["title"] = title
	}
	return e.chunkText(documentID, content, meta)
}

// ProcessDocumentWithChunking processes the file and always returns the
// chunking result, regardless of the enable_chunking setting.
func (e *Engine) ProcessDocumentWithChunking(path string) chunking.ChunkingResult {
	result := e.ProcessDocument(path)
	if !result.ProcessingSuccess {
		return chunking.ChunkingResult{FailedChunks: 1}
	}
	return e.chunkText(result.FileName, result.TextContent, result.Metadata)
}

// ProcessDocumentsParallel processes the files through the worker pool and
// returns results in completion order.
func (e *Engine) ProcessDocumentsParallel(paths []string) []DocumentResult {
	if len(paths) == 0 {
		return nil
	}
	out := make(chan DocumentResult, len(paths))
	for _, path := range paths {
		path := path
		if err := e.pool.Submit(func(*parallel.MemoryPool) {
			out <- e.ProcessDocument(path)
		}); err != nil {
			out <- DocumentResult{
				FileName:      filepath.Base(path),
				FileExtension: formats.Extension(path),
				ErrorMessage:  err.Error(),
			}
		}
	}
	results := make([]DocumentResult, 0, len(paths))
	for range paths {
		results = append(results, <-out)
	}
	return results
}

// ProcessDocumentsBatch processes the files in batches sized by
// parallel.OptimalBatchSize (the configured size, capped by an even split
// across the workers); within each batch, result order matches input order.
func (e *Engine) ProcessDocumentsBatch(paths []string) []DocumentResult {
	if len(paths) == 0 {
		return nil
	}
	batchSize := parallel.OptimalBatchSize(len(paths),
		e.cfg.DocumentProcessing.BatchSize, e.pool.WorkerCount())

	results := make([]DocumentResult, 0, len(paths))
	for start := 0; start < len(paths); start += batchSize {
		end := start + batchSize
		if end > len(paths) {
			end = len(paths)
		}
		batch := paths[start:end]

		fns := make([]func() DocumentResult, 0, len(batch))
		for _, path := range batch {
			path := path
			fns = append(fns, func() DocumentResult { return e.ProcessDocument(path) })
		}
		futures, err := parallel.SubmitFuncBatch(e.pool, fns)
		if err != nil {
			logger.Get().Error("batch submission failed", "error", err)
		}
		for _, f := range futures {
			results = append(results, f.Wait())
		}
	}
	return results
}

// ProcessDocumentsWithFiltering processes the files and applies the
// document-level quality gate, reporting both kept results and counts.
func (e *Engine) ProcessDocumentsWithFiltering(paths []string) BatchResult {
	all := e.ProcessDocumentsBatch(paths)

	batch := BatchResult{TotalFiles: len(all)}
	for _, result := range all {
		if e.keepDocument(result) {
			batch.Results = append(batch.Results, result)
			batch.Accepted++
			continue
		}
		batch.Filtered++
		e.statsMu.Lock()
		e.stats.FilteredOut++
		e.statsMu.Unlock()
	}
	return batch
}

func (e *Engine) keepDocument(result DocumentResult) bool {
	qf := e.cfg.DocumentProcessing.QualityFiltering
	if !qf.Enabled {
		return true
	}
	if !result.ProcessingSuccess {
		return false
	}
	if qf.FilterEmptyDocuments && result.TextContent == "" {
		return false
	}
	if len(result.TextContent) < qf.MinContentLength {
		return false
	}
	if len(result.TextContent) > qf.MaxContentLength {
		return false
	}
	if qf.FilterLowQualityDocuments && !result.IsHighQuality {
		return false
	}
	return true
}

// GetStatistics returns a self-consistent stats snapshot including pool
// efficiency counters.
func (e *Engine) GetStatistics() ProcessingStats {
	e.statsMu.Lock()
	snapshot := e.stats
	e.statsMu.Unlock()

	pool := e.pool.Stats()
	snapshot.WorkSteals = pool.WorkSteals
	snapshot.AvgTaskTimeMs = pool.AvgTaskTimeMs
	return snapshot
}

// finish stamps timing, applies the soft timeout flag and updates the
// run statistics.
func (e *Engine) finish(result *DocumentResult, start time.Time) {
	elapsed := time.Since(start)
	result.ProcessingTimeMs = float64(elapsed.Microseconds()) / 1000.0
	if e.softTimeout > 0 && elapsed > e.softTimeout {
		if result.Metadata == nil {
			result.Metadata = map[string]string{}
		}
		result.Metadata["timed_out"] = "true"
	}

	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.TotalFilesProcessed++
	if result.ProcessingSuccess {
		e.stats.SuccessfulProcessing++
		e.stats.TotalTextExtracted += int64(len(result.TextContent))
		if e.cfg.DocumentProcessing.QualityFiltering.Enabled {
			n := float64(e.stats.SuccessfulProcessing)
			e.stats.AvgContentQualityScore =
				(e.stats.AvgContentQualityScore*(n-1) + result.ContentQualityScore) / n
		}
		switch formats.Detect(result.FileName) {
		case formats.PDF:
			e.stats.PDFFilesProcessed++
		case formats.PlainText:
			e.stats.TextFilesProcessed++
		case formats.HTML:
			e.stats.HTMLFilesProcessed++
		}
	} else {
		e.stats.FailedProcessing++
	}
	n := float64(e.stats.TotalFilesProcessed)
	e.stats.AvgProcessingTimeMs = (e.stats.AvgProcessingTimeMs*(n-1) + result.ProcessingTimeMs) / n
}
